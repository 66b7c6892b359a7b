package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"refakat-backend/internal/model"
)

// Actor identifies the caller of a store operation. It is resolved once per
// request from the auth token and passed down; permission checks never look
// at request state again.
type Actor struct {
	UserID int64
	Role   string
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Production cards
	ListCards(ctx context.Context, filter CardFilter) ([]model.ProductionCard, error)
	GetCard(ctx context.Context, id int64) (*model.ProductionCard, error)
	GetCardByBarcode(ctx context.Context, barcode string) (*model.ProductionCard, error)
	CreateCard(ctx context.Context, input CardInput) (*model.ProductionCard, error)
	UpdateCard(ctx context.Context, id int64, patch CardUpdate) (*model.ProductionCard, error)
	DeleteCard(ctx context.Context, id int64) error

	// Movements
	StartMovement(ctx context.Context, input MovementInput) (*model.CardMovement, error)
	CompleteMovement(ctx context.Context, id int64, input CompleteMovementInput) (*model.CardMovement, error)
	ListMovementsByCard(ctx context.Context, cardID int64) ([]model.CardMovement, error)

	// Derived statistics
	StatusCounts(ctx context.Context) ([]StatusCount, error)
	DepartmentCounts(ctx context.Context) ([]DepartmentCount, error)
	DailyTrend(ctx context.Context, start, end time.Time) ([]TrendPoint, error)
	PerformanceMetrics(ctx context.Context) (*Performance, error)

	// Notifications
	ListNotifications(ctx context.Context, actor Actor, userID int64, q NotificationQuery) ([]model.Notification, error)
	GetNotification(ctx context.Context, actor Actor, id int64) (*model.Notification, error)
	CreateNotification(ctx context.Context, actor Actor, input NotificationInput) (*model.Notification, error)
	MarkNotificationRead(ctx context.Context, actor Actor, id int64) error
	MarkAllNotificationsRead(ctx context.Context, actor Actor, userID int64) (int64, error)
	ArchiveNotification(ctx context.Context, actor Actor, id int64) error
	DeleteNotification(ctx context.Context, actor Actor, id int64) error
	NotificationStats(ctx context.Context) (*NotificationStats, error)
	CleanupNotifications(ctx context.Context, opts CleanupOptions) (int64, error)
	AutoCleanup(ctx context.Context, opts SweepOptions) (*SweepReport, error)

	// Push subscriptions
	UpsertPushSubscription(ctx context.Context, sub model.PushSubscription) error
	DeletePushSubscription(ctx context.Context, actor Actor, endpoint string) error

	// Users
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for wiring (worker pool, migrations).
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// GetUserByUsername fetches a user account for login.
func (s *gormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, translateNotFound(err, "user %q", username)
	}
	return &user, nil
}
