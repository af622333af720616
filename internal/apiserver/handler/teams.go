package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/crewforge/backoffice/internal/apiserver/middleware"
	"github.com/crewforge/backoffice/internal/model"
)

type createTeamRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// ListTeams returns the teams the authenticated user belongs to.
func (h *Handler) ListTeams(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	teams, err := h.store.ListTeamsForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// CreateTeam creates a team owned by the authenticated user, who becomes
// its first member.
func (h *Handler) CreateTeam(c *gin.Context) {
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := middleware.ClaimsFromContext(c)
	team := &model.Team{
		Name:    req.Name,
		Slug:    req.Slug,
		OwnerID: claims.UserID,
	}
	if err := h.store.CreateTeam(c.Request.Context(), team); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

// GetTeam returns a team with its members.
func (h *Handler) GetTeam(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	team, err := h.store.GetTeam(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

type addMemberRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Role   string `json:"role"`
}

// AddMember enrolls a user into the team and raises the membership event.
func (h *Handler) AddMember(c *gin.Context) {
	teamID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.store.AddMember(c.Request.Context(), teamID, req.UserID, req.Role)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// RemoveMember removes a user from the team.
func (h *Handler) RemoveMember(c *gin.Context) {
	teamID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, err := pathID(c, "userID")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.store.RemoveMember(c.Request.Context(), teamID, userID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses an unsigned integer path parameter.
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id), err
}
