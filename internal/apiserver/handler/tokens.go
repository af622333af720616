package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crewforge/backoffice/internal/apiserver/middleware"
)

type createTokenRequest struct {
	Description string     `json:"description"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// ListTokens returns the caller's API tokens in masked form.
func (h *Handler) ListTokens(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	tokens, err := h.store.ListTokens(c.Request.Context(), claims.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// CreateToken creates an API token. The full token value appears in this
// response only; every later listing is masked.
func (h *Handler) CreateToken(c *gin.Context) {
	var req createTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := middleware.ClaimsFromContext(c)
	token, raw, err := h.store.CreateToken(c.Request.Context(), claims.UserID, req.Description, req.ExpiresAt)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":          token.ID,
		"token":       raw,
		"maskedToken": token.MaskedToken,
		"description": token.Description,
		"createdAt":   token.CreatedAt,
		"lastUsedAt":  token.LastUsedAt,
		"expiresAt":   token.ExpiresAt,
	})
}

// DeleteToken deletes one of the caller's tokens. Deleting another user's
// token is rejected with access denied.
func (h *Handler) DeleteToken(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	claims := middleware.ClaimsFromContext(c)
	if err := h.store.DeleteToken(c.Request.Context(), claims.UserID, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
