package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/crewforge/backoffice/internal/apiserver/middleware"
	"github.com/crewforge/backoffice/internal/model"
)

type createInvoiceRequest struct {
	CustomerName string  `json:"customerName" binding:"required"`
	Subtotal     string  `json:"subtotal" binding:"required"`
	Tax          string  `json:"tax"`
	DueAt        *string `json:"dueAt"` // YYYY-MM-DD
}

// ListInvoices returns the invoices visible to the caller's team.
func (h *Handler) ListInvoices(c *gin.Context) {
	scope := middleware.ScopeFromContext(c)
	invoices, err := h.store.ListInvoices(c.Request.Context(), scope)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// CreateInvoice creates a draft invoice stamped with the caller's team.
func (h *Handler) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subtotal, err := decimal.NewFromString(req.Subtotal)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subtotal"})
		return
	}
	tax := decimal.Zero
	if req.Tax != "" {
		tax, err = decimal.NewFromString(req.Tax)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tax"})
			return
		}
	}

	invoice := &model.Invoice{
		CustomerName: req.CustomerName,
		Subtotal:     subtotal,
		Tax:          tax,
		Total:        subtotal.Add(tax),
	}
	if req.DueAt != nil {
		due, err := time.Parse("2006-01-02", *req.DueAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due date"})
			return
		}
		invoice.DueAt = &due
	}

	scope := middleware.ScopeFromContext(c)
	if err := h.store.CreateInvoice(c.Request.Context(), scope, invoice); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

type updateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateInvoiceStatus changes an invoice's status.
func (h *Handler) UpdateInvoiceStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope := middleware.ScopeFromContext(c)
	if err := h.store.UpdateInvoiceStatus(c.Request.Context(), scope, id, req.Status); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
