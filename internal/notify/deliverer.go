package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/crewforge/backoffice/internal/model"
	"github.com/crewforge/backoffice/internal/store"
)

// PipelineMetrics counts pipeline outcomes. *metrics.Metrics satisfies it.
type PipelineMetrics interface {
	NotificationConsumed(typ string)
	NotificationDelivered()
	NotificationDiscarded()
	NotificationPushError()
}

type nopMetrics struct{}

func (nopMetrics) NotificationConsumed(string) {}
func (nopMetrics) NotificationDelivered()      {}
func (nopMetrics) NotificationDiscarded()      {}
func (nopMetrics) NotificationPushError()      {}

// Deliverer turns a queued message into a persisted notification and a push
// update. Persistence and push are different failure domains: the record is
// committed in its own transaction, and a failed push never rolls it back.
type Deliverer struct {
	logger  *zap.Logger
	store   *store.Store
	pub     Publisher
	metrics PipelineMetrics
}

// NewDeliverer creates a new Deliverer. metrics may be nil.
func NewDeliverer(logger *zap.Logger, st *store.Store, pub Publisher, metrics PipelineMetrics) *Deliverer {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Deliverer{
		logger:  logger.Named("notify.deliverer"),
		store:   st,
		pub:     pub,
		metrics: metrics,
	}
}

// Deliver processes one message. An unknown target user discards the
// message without error, since the user may have been deleted between
// enqueue and consumption. Database failures are returned to the consumer
// for redelivery.
func (d *Deliverer) Deliver(ctx context.Context, msg *Message) error {
	d.metrics.NotificationConsumed(msg.Type)

	user, err := d.store.GetUserByID(ctx, msg.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			d.logger.Info("discarding notification for unknown user",
				zap.Uint("userID", msg.UserID),
				zap.String("type", msg.Type))
			d.metrics.NotificationDiscarded()
			return nil
		}
		return err
	}

	notification := &model.Notification{
		UserID:  user.ID,
		Type:    msg.Type,
		Payload: model.JSONMap(msg.Data),
		Read:    false,
	}
	if err := d.store.CreateNotification(ctx, notification); err != nil {
		return err
	}

	// The notification is committed; a push failure is logged, not surfaced.
	if err := d.pub.Publish(ctx, user.ID, NewPushPayload(notification)); err != nil {
		d.logger.Warn("push publish failed",
			zap.Uint("userID", user.ID),
			zap.Uint("notificationID", notification.ID),
			zap.Error(err))
		d.metrics.NotificationPushError()
	}

	d.metrics.NotificationDelivered()
	return nil
}
