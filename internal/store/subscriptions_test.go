package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewforge/backoffice/internal/billing"
	"github.com/crewforge/backoffice/internal/model"
	"github.com/crewforge/backoffice/internal/tenant"
)

func TestCreateSubscription_Defaults(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	sub := &model.Subscription{Plan: "starter"}
	require.NoError(t, s.CreateSubscription(ctx, tenant.ForTeam(1), sub))

	assert.Equal(t, billing.StatusTrialing, sub.Status)
	require.NotNil(t, sub.TeamID)
	assert.Equal(t, uint(1), *sub.TeamID)
}

func TestTransitionSubscription(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	scope := tenant.ForTeam(1)

	require.NoError(t, s.CreateSubscription(ctx, scope, &model.Subscription{Plan: "starter"}))

	sub, err := s.TransitionSubscription(ctx, scope, billing.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusActive, sub.Status)

	// active may not return to trialing
	_, err = s.TransitionSubscription(ctx, scope, billing.StatusTrialing)
	assert.ErrorIs(t, err, billing.ErrInvalidTransition)

	sub, err = s.TransitionSubscription(ctx, scope, billing.StatusCanceled)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusCanceled, sub.Status)
	assert.NotNil(t, sub.CanceledAt)

	// canceled is terminal
	_, err = s.TransitionSubscription(ctx, scope, billing.StatusActive)
	assert.ErrorIs(t, err, billing.ErrInvalidTransition)
}

func TestGetSubscription_ScopeIsolation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSubscription(ctx, tenant.ForTeam(1), &model.Subscription{Plan: "starter"}))

	_, err := s.GetSubscription(ctx, tenant.ForTeam(2))
	assert.ErrorIs(t, err, ErrNotFound)

	sub, err := s.GetSubscription(ctx, tenant.ForTeam(1))
	require.NoError(t, err)
	assert.Equal(t, "starter", sub.Plan)
}
