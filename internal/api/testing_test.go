package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"refakat-backend/internal/db"
	"refakat-backend/internal/model"
	"refakat-backend/internal/mw"
	"refakat-backend/internal/store"
)

var testSecret = []byte("test-secret")

func newTestServer(t *testing.T) (*gin.Engine, store.Store, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	s := store.NewGormStore(gormDB)
	h := NewHandler(s, nil, nil, testSecret, time.Hour, store.SweepOptions{
		PerUserMax: 10,
		Retention:  24 * time.Hour,
	})
	router := NewRouter(h, rate.Limit(1000), 1000, time.Nanosecond)
	return router, s, gormDB
}

func seedUser(t *testing.T, gormDB *gorm.DB, id int64, username, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		ID:           id,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, gormDB.Create(user).Error)
	return user
}

func tokenFor(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := mw.IssueToken(testSecret, user, time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
