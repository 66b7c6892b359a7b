package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"refakat-backend/internal/ident"
	"refakat-backend/internal/model"
)

// CleanupNotifications applies the retention rule in one transaction and
// returns the number of rows deleted.
//
// Two phases. The age phase deletes rows older than OlderThan (scoped to
// UserID when set). The cap phase ranks each affected user's remaining rows
// newest-first and evicts everything ranked beyond MaxNotifications, oldest
// first with the lowest id breaking ties. With KeepUnread set, unread rows
// are exempt from both phases; rows inside the cap are kept regardless of
// read state. A second identical call therefore deletes nothing.
func (s *gormStore) CleanupNotifications(ctx context.Context, opts CleanupOptions) (int64, error) {
	if opts.UserID == nil && opts.OlderThan == nil && opts.MaxNotifications <= 0 {
		return 0, validationErr("cleanup needs a user, an age cutoff or a cap")
	}

	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.OlderThan != nil {
			q := tx.Where("created_at < ?", *opts.OlderThan)
			if opts.UserID != nil {
				q = q.Where("user_id = ?", *opts.UserID)
			}
			if opts.KeepUnread {
				q = q.Where("is_read = ?", true)
			}
			res := q.Delete(&model.Notification{})
			if res.Error != nil {
				return fmt.Errorf("age cleanup: %w", res.Error)
			}
			deleted += res.RowsAffected
		}

		if opts.MaxNotifications > 0 {
			userIDs, err := affectedUsers(tx, opts.UserID)
			if err != nil {
				return err
			}
			for _, userID := range userIDs {
				n, err := capUser(tx, userID, opts.MaxNotifications, opts.KeepUnread)
				if err != nil {
					return err
				}
				deleted += n
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// affectedUsers resolves the cap phase's scope: the given user, or every
// user holding notifications.
func affectedUsers(tx *gorm.DB, userID *int64) ([]int64, error) {
	if userID != nil {
		return []int64{*userID}, nil
	}
	var ids []int64
	err := tx.Model(&model.Notification{}).Distinct("user_id").Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("resolve affected users: %w", err)
	}
	return ids, nil
}

// capUser evicts one user's rows ranked beyond the cap.
func capUser(tx *gorm.DB, userID int64, max int, keepUnread bool) (int64, error) {
	type row struct {
		ID     int64
		IsRead bool
	}
	var rows []row
	err := tx.Model(&model.Notification{}).
		Select("id, is_read").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Scan(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("rank notifications of user %d: %w", userID, err)
	}
	if len(rows) <= max {
		return 0, nil
	}

	// Candidates are the rows beyond the newest cap; eviction runs
	// oldest-first, which the descending ranking already encodes.
	var evict []int64
	for _, r := range rows[max:] {
		if keepUnread && !r.IsRead {
			continue
		}
		evict = append(evict, r.ID)
	}
	if len(evict) == 0 {
		return 0, nil
	}

	res := tx.Where("id IN ?", evict).Delete(&model.Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("evict notifications of user %d: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}

// AutoCleanup sweeps every user with the per-user cap, then purges all
// notifications older than the retention window. A failing user does not
// abort the sweep; the failure lands in that user's result entry.
func (s *gormStore) AutoCleanup(ctx context.Context, opts SweepOptions) (*SweepReport, error) {
	perUserMax := opts.PerUserMax
	if perUserMax <= 0 {
		perUserMax = DefaultPerUserMax
	}
	retention := opts.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}

	report := &SweepReport{RunID: ident.RunID(), Results: []UserCleanupResult{}}

	var userIDs []int64
	err := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, fmt.Errorf("auto-cleanup user scan: %w", err)
	}

	for _, userID := range userIDs {
		uid := userID
		n, err := s.CleanupNotifications(ctx, CleanupOptions{
			UserID:           &uid,
			KeepUnread:       true,
			MaxNotifications: perUserMax,
		})
		result := UserCleanupResult{UserID: userID, Deleted: n}
		if err != nil {
			result.Error = err.Error()
			log.Printf("auto-cleanup: user %d failed: %v", userID, err)
		}
		report.TotalCleaned += n
		report.Results = append(report.Results, result)
	}

	cutoff := time.Now().UTC().Add(-retention)
	old, err := s.CleanupNotifications(ctx, CleanupOptions{
		OlderThan:  &cutoff,
		KeepUnread: true,
	})
	if err != nil {
		return report, fmt.Errorf("auto-cleanup global purge: %w", err)
	}
	report.OldDeleted = old
	report.TotalCleaned += old

	return report, nil
}
