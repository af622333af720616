package tenant

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/crewforge/backoffice/internal/model"
)

// Resolver derives the active scope for a request from the authenticated
// user's team memberships. Resolution is performed per request and never
// cached across requests.
type Resolver struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(db *gorm.DB, logger *zap.Logger) *Resolver {
	return &Resolver{
		db:     db,
		logger: logger.Named("tenant.resolver"),
	}
}

// Resolve returns the scope for the given user: the team of the user's
// earliest-created membership, ordered by creation time then id so the
// choice is deterministic. Users without any membership resolve to the
// unscoped scope.
func (r *Resolver) Resolve(ctx context.Context, userID uint) (Scope, error) {
	var member model.TeamMember
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Unscoped(), nil
		}
		return Unscoped(), err
	}

	r.logger.Debug("resolved active team",
		zap.Uint("userID", userID),
		zap.Uint("teamID", member.TeamID))
	return ForTeam(member.TeamID), nil
}
