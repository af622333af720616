package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crewforge/backoffice/internal/apiserver/middleware"
	"github.com/crewforge/backoffice/internal/auth/jwt"
	"github.com/crewforge/backoffice/internal/billing"
	"github.com/crewforge/backoffice/internal/notify"
	"github.com/crewforge/backoffice/internal/store"
	"github.com/crewforge/backoffice/internal/tenant"
)

// Handler carries the dependencies shared by all HTTP handlers.
type Handler struct {
	logger   *zap.Logger
	store    *store.Store
	jwt      *jwt.Service
	queue    notify.Queue
	resolver *tenant.Resolver
}

// New creates a new Handler.
func New(logger *zap.Logger, st *store.Store, jwtService *jwt.Service, queue notify.Queue, resolver *tenant.Resolver) *Handler {
	return &Handler{
		logger:   logger.Named("handler"),
		store:    st,
		jwt:      jwtService,
		queue:    queue,
		resolver: resolver,
	}
}

// Register mounts all routes on the engine. Everything under /api except
// login requires authentication; tenant scope is resolved per request.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/auth/register", h.SignUp)
	api.POST("/auth/login", h.Login)

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(h.jwt), middleware.TenantScope(h.resolver))
	{
		authed.GET("/me", h.Me)

		authed.GET("/teams", h.ListTeams)
		authed.POST("/teams", h.CreateTeam)
		authed.GET("/teams/:id", h.GetTeam)
		authed.POST("/teams/:id/members", h.AddMember)
		authed.DELETE("/teams/:id/members/:userID", h.RemoveMember)

		authed.GET("/employees", h.ListEmployees)
		authed.POST("/employees", h.CreateEmployee)
		authed.GET("/employees/:id", h.GetEmployee)
		authed.PUT("/employees/:id", h.UpdateEmployee)
		authed.GET("/employees/:id/contracts", h.ListContracts)
		authed.POST("/employees/:id/contracts", h.CreateContract)

		authed.GET("/notifications", h.ListNotifications)
		authed.PUT("/notifications/:id/read", h.MarkNotificationRead)
		authed.PUT("/notifications/read-all", h.MarkAllNotificationsRead)

		authed.GET("/tokens", h.ListTokens)
		authed.POST("/tokens", h.CreateToken)
		authed.DELETE("/tokens/:id", h.DeleteToken)

		authed.GET("/invoices", h.ListInvoices)
		authed.POST("/invoices", h.CreateInvoice)
		authed.PUT("/invoices/:id/status", h.UpdateInvoiceStatus)

		authed.GET("/subscription", h.GetSubscription)
		authed.POST("/subscription", h.CreateSubscription)
		authed.PUT("/subscription/status", h.TransitionSubscription)
	}
}

// handleError maps store and billing errors to HTTP status codes.
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, billing.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
