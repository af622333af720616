// Package events is a synchronous in-process event bus for domain events.
// Subscribers run within the publishing request; anything slow or failure
// prone belongs on the notification queue instead.
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/crewforge/backoffice/internal/model"
)

// MemberAdded is raised when a user is enrolled into a team, including the
// implicit owner enrollment at team creation.
type MemberAdded struct {
	Team   *model.Team
	Member *model.TeamMember
}

// MemberAddedHandler reacts to a membership change.
type MemberAddedHandler func(ctx context.Context, ev MemberAdded)

// Bus dispatches domain events to registered subscribers synchronously, in
// subscription order.
type Bus struct {
	mu          sync.RWMutex
	memberAdded []MemberAddedHandler
	logger      *zap.Logger
}

// NewBus creates a new Bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{logger: logger.Named("events")}
}

// SubscribeMemberAdded registers a handler for membership changes.
func (b *Bus) SubscribeMemberAdded(h MemberAddedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.memberAdded = append(b.memberAdded, h)
}

// PublishMemberAdded invokes every registered handler. A panicking
// subscriber is logged and does not take down the publisher.
func (b *Bus) PublishMemberAdded(ctx context.Context, ev MemberAdded) {
	b.mu.RLock()
	handlers := make([]MemberAddedHandler, len(b.memberAdded))
	copy(handlers, b.memberAdded)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.invoke(ctx, h, ev)
	}
}

func (b *Bus) invoke(ctx context.Context, h MemberAddedHandler, ev MemberAdded) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event subscriber panicked", zap.Any("panic", r))
		}
	}()
	h(ctx, ev)
}
