package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"refakat-backend/internal/model"
)

const defaultNotificationLimit = 100

// authorizeOwner rejects the call unless the actor owns the row or is admin.
func authorizeOwner(actor Actor, ownerID int64) error {
	if actor.UserID == ownerID || actor.IsAdmin() {
		return nil
	}
	return fmt.Errorf("user %d is not the owner of the notification: %w", actor.UserID, ErrForbidden)
}

// ListNotifications returns a user's notifications, most recent first.
func (s *gormStore) ListNotifications(ctx context.Context, actor Actor, userID int64, q NotificationQuery) ([]model.Notification, error) {
	if err := authorizeOwner(actor, userID); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !q.ShowArchived {
		query = query.Where("is_archived = ?", false)
	}
	if q.Type != "" {
		query = query.Where("type = ?", q.Type)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	var notifications []model.Notification
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications for user %d: %w", userID, err)
	}
	return notifications, nil
}

// GetNotification returns one notification after an ownership check.
func (s *gormStore) GetNotification(ctx context.Context, actor Actor, id int64) (*model.Notification, error) {
	var n model.Notification
	if err := s.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, translateNotFound(err, "notification %d", id)
	}
	if err := authorizeOwner(actor, n.UserID); err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNotification inserts a notification. Only the target user itself or
// an admin may address a notification to that user.
func (s *gormStore) CreateNotification(ctx context.Context, actor Actor, input NotificationInput) (*model.Notification, error) {
	if input.UserID <= 0 {
		return nil, validationErr("userId must be positive")
	}
	if input.Message == "" {
		return nil, validationErr("message must not be empty")
	}
	if err := authorizeOwner(actor, input.UserID); err != nil {
		return nil, err
	}

	n := model.Notification{
		UserID:    input.UserID,
		Type:      input.Type,
		Title:     input.Title,
		Message:   input.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return &n, nil
}

// MarkNotificationRead flags one notification as read.
func (s *gormStore) MarkNotificationRead(ctx context.Context, actor Actor, id int64) error {
	n, err := s.GetNotification(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(n).Update("is_read", true).Error
}

// MarkAllNotificationsRead flags every unread notification of the user as
// read and returns how many rows changed.
func (s *gormStore) MarkAllNotificationsRead(ctx context.Context, actor Actor, userID int64) (int64, error) {
	if err := authorizeOwner(actor, userID); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark all read for user %d: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}

// ArchiveNotification hides a notification from the default listing.
func (s *gormStore) ArchiveNotification(ctx context.Context, actor Actor, id int64) error {
	n, err := s.GetNotification(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(n).Update("is_archived", true).Error
}

// DeleteNotification removes one notification.
func (s *gormStore) DeleteNotification(ctx context.Context, actor Actor, id int64) error {
	n, err := s.GetNotification(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(n).Error
}

// NotificationStats aggregates the admin dashboard counters.
func (s *gormStore) NotificationStats(ctx context.Context) (*NotificationStats, error) {
	db := s.db.WithContext(ctx)
	stats := &NotificationStats{
		ByType: make(map[string]int64),
		ByUser: make(map[int64]int64),
	}

	if err := db.Model(&model.Notification{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("notification total: %w", err)
	}
	if err := db.Model(&model.Notification{}).Where("is_read = ?", false).Count(&stats.Unread).Error; err != nil {
		return nil, fmt.Errorf("notification unread: %w", err)
	}

	type typeRow struct {
		Type  string
		Count int64
	}
	var byType []typeRow
	if err := db.Model(&model.Notification{}).
		Select("type, COUNT(*) as count").Group("type").Scan(&byType).Error; err != nil {
		return nil, fmt.Errorf("notification by type: %w", err)
	}
	for _, row := range byType {
		stats.ByType[row.Type] = row.Count
	}

	type userRow struct {
		UserID int64
		Count  int64
	}
	var byUser []userRow
	if err := db.Model(&model.Notification{}).
		Select("user_id, COUNT(*) as count").Group("user_id").Scan(&byUser).Error; err != nil {
		return nil, fmt.Errorf("notification by user: %w", err)
	}
	for _, row := range byUser {
		stats.ByUser[row.UserID] = row.Count
	}

	var oldest model.Notification
	err := db.Order("created_at ASC").First(&oldest).Error
	if err == nil {
		stats.OldestDate = &oldest.CreatedAt
	}

	err = db.Model(&model.Notification{}).
		Joins("JOIN users ON users.id = notifications.user_id").
		Where("users.role = ?", model.RoleAdmin).
		Count(&stats.AdminNotifications).Error
	if err != nil {
		return nil, fmt.Errorf("admin notifications: %w", err)
	}

	return stats, nil
}

// UpsertPushSubscription registers or refreshes a browser push subscription
// for the subscription's user.
func (s *gormStore) UpsertPushSubscription(ctx context.Context, sub model.PushSubscription) error {
	if sub.Endpoint == "" || sub.P256DH == "" || sub.Auth == "" {
		return validationErr("endpoint, p256dh and auth are required")
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "user_id"}),
	}).Create(&sub).Error
}

// DeletePushSubscription removes a subscription owned by the actor.
func (s *gormStore) DeletePushSubscription(ctx context.Context, actor Actor, endpoint string) error {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		return translateNotFound(err, "subscription %q", endpoint)
	}
	if err := authorizeOwner(actor, sub.UserID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&sub).Error
}
