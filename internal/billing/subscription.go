// Package billing holds the subscription state machine. Billing amounts and
// proration are handled by an external system; only state transitions live
// here.
package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/crewforge/backoffice/internal/model"
)

// Subscription statuses
const (
	StatusTrialing = "trialing"
	StatusActive   = "active"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

// ErrInvalidTransition is returned for a disallowed status change.
var ErrInvalidTransition = errors.New("invalid subscription transition")

// transitions lists the allowed target statuses per current status.
// Canceled is terminal.
var transitions = map[string][]string{
	StatusTrialing: {StatusActive, StatusCanceled},
	StatusActive:   {StatusPastDue, StatusCanceled},
	StatusPastDue:  {StatusActive, StatusCanceled},
}

// CanTransition reports whether a subscription may move between statuses.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition applies a status change to the subscription, recording the
// cancellation time when entering the terminal state.
func Transition(sub *model.Subscription, to string) error {
	if !CanTransition(sub.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, sub.Status, to)
	}
	sub.Status = to
	if to == StatusCanceled {
		now := time.Now()
		sub.CanceledAt = &now
	}
	return nil
}
