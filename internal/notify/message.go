// Package notify implements the asynchronous notification pipeline: a Redis
// stream carries queued messages from request handlers to the delivery
// worker, which persists a notification record and fans it out on a
// per-user pub/sub channel.
package notify

import (
	"fmt"
	"time"

	"github.com/crewforge/backoffice/internal/common/cnst"
	"github.com/crewforge/backoffice/internal/model"
)

// Message is the unit of work on the queue. It exists only between enqueue
// and consumption.
type Message struct {
	UserID uint           `json:"userId"`
	Type   string         `json:"type"`
	Data   map[string]any `json:"data"`
}

// PushPayload is the wire shape published on the per-user channel after the
// notification has been persisted.
type PushPayload struct {
	ID        uint          `json:"id"`
	Type      string        `json:"type"`
	Data      model.JSONMap `json:"data"`
	CreatedAt string        `json:"createdAt"`
}

// NewPushPayload builds the wire payload for a persisted notification,
// using RFC 3339 for the timestamp.
func NewPushPayload(n *model.Notification) *PushPayload {
	return &PushPayload{
		ID:        n.ID,
		Type:      n.Type,
		Data:      n.Payload,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

// UserChannel returns the per-user pub/sub channel name.
func UserChannel(userID uint) string {
	return fmt.Sprintf(cnst.UserChannelFormat, userID)
}
