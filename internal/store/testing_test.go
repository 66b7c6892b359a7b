package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"refakat-backend/internal/db"
	"refakat-backend/internal/model"
)

// newTestStore opens an isolated in-memory sqlite database named after the
// test and migrates the full schema.
func newTestStore(t *testing.T) (Store, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	// A second connection to a :memory: database would see a different,
	// empty database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return NewGormStore(gormDB), gormDB
}

// newMockStore backs the store with sqlmock for error paths sqlite cannot
// produce on demand.
func newMockStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewGormStore(gormDB), mock
}

func seedDepartment(t *testing.T, gormDB *gorm.DB, id int64, name string) {
	t.Helper()
	require.NoError(t, gormDB.Create(&model.Department{ID: id, Name: name}).Error)
}

func seedUser(t *testing.T, gormDB *gorm.DB, id int64, username, role string) {
	t.Helper()
	require.NoError(t, gormDB.Create(&model.User{
		ID:           id,
		Username:     username,
		PasswordHash: "x",
		Role:         role,
	}).Error)
}

func seedNotification(t *testing.T, gormDB *gorm.DB, userID int64, read bool, age time.Duration) model.Notification {
	t.Helper()
	n := model.Notification{
		UserID:    userID,
		Type:      "info",
		Message:   "m",
		IsRead:    read,
		CreatedAt: time.Now().UTC().Add(-age),
	}
	require.NoError(t, gormDB.Create(&n).Error)
	return n
}
