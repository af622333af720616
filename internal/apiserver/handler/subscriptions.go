package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crewforge/backoffice/internal/apiserver/middleware"
	"github.com/crewforge/backoffice/internal/model"
)

type createSubscriptionRequest struct {
	Plan        string     `json:"plan" binding:"required"`
	TrialEndsAt *time.Time `json:"trialEndsAt"`
}

// GetSubscription returns the team's subscription.
func (h *Handler) GetSubscription(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)
	sub, err := h.store.GetSubscription(c.Request.Context(), scope)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// CreateSubscription starts a trial subscription for the caller's team.
func (h *Handler) CreateSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub := &model.Subscription{
		Plan:        req.Plan,
		TrialEndsAt: req.TrialEndsAt,
	}
	scope := middleware.ScopeFromContext(c)
	if err := h.store.CreateSubscription(c.Request.Context(), scope, sub); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

type transitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// TransitionSubscription moves the subscription through the state machine;
// disallowed transitions are rejected.
func (h *Handler) TransitionSubscription(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope := middleware.ScopeFromContext(c)
	sub, err := h.store.TransitionSubscription(c.Request.Context(), scope, req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
