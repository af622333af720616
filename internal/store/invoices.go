package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crewforge/backoffice/internal/model"
	"github.com/crewforge/backoffice/internal/tenant"
)

// CreateInvoice persists a tenant-scoped invoice, stamping it with the
// caller's team and assigning a number when none is set.
func (s *Store) CreateInvoice(ctx context.Context, scope tenant.Scope, invoice *model.Invoice) error {
	scope.Stamp(invoice)
	if invoice.Number == "" {
		invoice.Number = newInvoiceNumber()
	}
	if invoice.IssuedAt.IsZero() {
		invoice.IssuedAt = time.Now()
	}
	return s.conn(ctx).Create(invoice).Error
}

// GetInvoice fetches an invoice within the caller's scope.
func (s *Store) GetInvoice(ctx context.Context, scope tenant.Scope, id uint) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := scope.Apply(s.conn(ctx)).First(&invoice, id).Error; err != nil {
		return nil, translate(err)
	}
	return &invoice, nil
}

// ListInvoices returns the invoices visible to the caller's scope.
func (s *Store) ListInvoices(ctx context.Context, scope tenant.Scope) ([]*model.Invoice, error) {
	var invoices []*model.Invoice
	err := scope.Apply(s.conn(ctx)).
		Order("id desc").
		Find(&invoices).Error
	return invoices, err
}

// UpdateInvoiceStatus changes an invoice's status within the caller's scope.
func (s *Store) UpdateInvoiceStatus(ctx context.Context, scope tenant.Scope, id uint, status string) error {
	res := scope.Apply(s.conn(ctx).Model(&model.Invoice{})).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// newInvoiceNumber derives a short unique invoice number.
func newInvoiceNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return fmt.Sprintf("INV-%s-%s", time.Now().Format("200601"), id)
}
