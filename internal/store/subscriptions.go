package store

import (
	"context"

	"github.com/crewforge/backoffice/internal/billing"
	"github.com/crewforge/backoffice/internal/model"
	"github.com/crewforge/backoffice/internal/tenant"
)

// CreateSubscription persists the team's subscription, stamped with the
// caller's scope. A team has at most one.
func (s *Store) CreateSubscription(ctx context.Context, scope tenant.Scope, sub *model.Subscription) error {
	scope.Stamp(sub)
	if sub.Status == "" {
		sub.Status = billing.StatusTrialing
	}
	return s.conn(ctx).Create(sub).Error
}

// GetSubscription fetches the subscription visible to the caller's scope.
func (s *Store) GetSubscription(ctx context.Context, scope tenant.Scope) (*model.Subscription, error) {
	var sub model.Subscription
	if err := scope.Apply(s.conn(ctx)).First(&sub).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

// TransitionSubscription applies a subscription status change under the
// billing state machine and saves the result.
func (s *Store) TransitionSubscription(ctx context.Context, scope tenant.Scope, to string) (*model.Subscription, error) {
	var sub *model.Subscription
	err := s.transaction(ctx, func(ctx context.Context) error {
		tx := s.conn(ctx)
		var current model.Subscription
		if err := scope.Apply(tx).First(&current).Error; err != nil {
			return translate(err)
		}
		if err := billing.Transition(&current, to); err != nil {
			return err
		}
		if err := tx.Save(&current).Error; err != nil {
			return err
		}
		sub = &current
		return nil
	})
	return sub, err
}
