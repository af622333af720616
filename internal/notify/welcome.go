package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/crewforge/backoffice/internal/common/cnst"
	"github.com/crewforge/backoffice/internal/events"
)

// WelcomeSubscriber reacts to membership changes by enqueuing a welcome
// notification for the new member. Enqueue failures are logged, not
// surfaced: the membership itself has already committed.
func WelcomeSubscriber(logger *zap.Logger, queue Queue) events.MemberAddedHandler {
	lg := logger.Named("notify.welcome")
	return func(ctx context.Context, ev events.MemberAdded) {
		msg := &Message{
			UserID: ev.Member.UserID,
			Type:   cnst.NotificationTypeTeamWelcome,
			Data: map[string]any{
				"teamId":   ev.Team.ID,
				"teamName": ev.Team.Name,
				"role":     ev.Member.Role,
			},
		}
		if err := queue.Enqueue(ctx, msg); err != nil {
			lg.Error("failed to enqueue welcome notification",
				zap.Uint("userID", ev.Member.UserID),
				zap.Uint("teamID", ev.Team.ID),
				zap.Error(err))
		}
	}
}
