package store

import (
	"context"

	"github.com/crewforge/backoffice/internal/model"
)

// CreateNotification persists a notification record. Only the delivery
// pipeline calls this; request handlers mutate read state exclusively.
func (s *Store) CreateNotification(ctx context.Context, n *model.Notification) error {
	return s.conn(ctx).Create(n).Error
}

// ListNotifications returns a user's notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, userID uint) ([]*model.Notification, error) {
	var notifications []*model.Notification
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&notifications).Error
	return notifications, err
}

// CountUnread returns the number of unread notifications for a user.
func (s *Store) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkNotificationRead marks one of the user's notifications as read.
func (s *Store) MarkNotificationRead(ctx context.Context, userID, id uint) error {
	res := s.conn(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead marks every unread notification of the user as read.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID uint) (int64, error) {
	res := s.conn(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
