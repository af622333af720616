// Package store is the data-access layer. Every method that touches a
// tenant-aware table takes an explicit tenant.Scope; there is no ambient or
// global filter state. Unscoped callers (workers, migrations, admin
// tooling) pass tenant.Unscoped() and see all teams.
package store

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/crewforge/backoffice/internal/database"
	"github.com/crewforge/backoffice/internal/events"
	"github.com/crewforge/backoffice/internal/provision"
)

var (
	// ErrNotFound is returned when a record does not exist within the
	// caller's scope.
	ErrNotFound = errors.New("record not found")

	// ErrAccessDenied is returned when a caller operates on a record owned
	// by another principal.
	ErrAccessDenied = errors.New("access denied")
)

// Store wraps the database handle with the provisioning workflow and the
// domain event bus.
type Store struct {
	db     *gorm.DB
	prov   *provision.Provisioner
	bus    *events.Bus
	logger *zap.Logger
}

// New creates a new Store.
func New(db *gorm.DB, bus *events.Bus, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		prov:   provision.New(logger),
		bus:    bus,
		logger: logger.Named("store"),
	}
}

// DB exposes the underlying handle for migrations and tests.
func (s *Store) DB() *gorm.DB { return s.db }

// conn returns the DB handle, honoring a transaction carried in the context.
func (s *Store) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, s.db)
}

// transaction runs fn inside a database transaction. The transaction rides
// on the context fn receives, so conn calls and store methods inside fn
// join it instead of opening their own connection.
func (s *Store) transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(database.ContextWithTransaction(ctx, tx))
	})
}

// translate maps GORM sentinel errors to store errors.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
