package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"refakat-backend/internal/model"
)

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

func TestNotificationOwnershipOverHTTP(t *testing.T) {
	router, _, gormDB := newTestServer(t)
	alice := seedUser(t, gormDB, 1, "alice", "pw", model.RoleOperator)
	bob := seedUser(t, gormDB, 2, "bob", "pw", model.RoleOperator)
	admin := seedUser(t, gormDB, 3, "root", "pw", model.RoleAdmin)
	n := seedNotification(t, gormDB, 1, false, time.Minute)

	// Owner sees it, a stranger does not, the admin does.
	w := doJSON(t, router, "GET", fmt.Sprintf("/api/notifications/%d", n.ID), tokenFor(t, alice), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", fmt.Sprintf("/api/notifications/%d", n.ID), tokenFor(t, bob), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, "GET", fmt.Sprintf("/api/notifications/%d", n.ID), tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Listing defaults to the caller's own rows.
	w = doJSON(t, router, "GET", "/api/notifications", tokenFor(t, bob), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	// ?userId= only works for admins.
	w = doJSON(t, router, "GET", "/api/notifications?userId=1", tokenFor(t, bob), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, "GET", "/api/notifications?userId=1", tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMarkReadAndArchiveOverHTTP(t *testing.T) {
	router, _, gormDB := newTestServer(t)
	alice := seedUser(t, gormDB, 1, "alice", "pw", model.RoleOperator)
	token := tokenFor(t, alice)
	n := seedNotification(t, gormDB, 1, false, time.Minute)
	seedNotification(t, gormDB, 1, false, 2*time.Minute)

	w := doJSON(t, router, "PATCH", fmt.Sprintf("/api/notifications/%d/read", n.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/api/notifications/mark-all-read", token, gin.H{})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["updatedCount"], "only the remaining unread row")

	w = doJSON(t, router, "PATCH", fmt.Sprintf("/api/notifications/%d/archive", n.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), fmt.Sprintf(`"id":%d`, n.ID))
}

func TestCleanupEndpoint(t *testing.T) {
	router, _, gormDB := newTestServer(t)
	operator := seedUser(t, gormDB, 1, "alice", "pw", model.RoleOperator)
	admin := seedUser(t, gormDB, 2, "root", "pw", model.RoleAdmin)

	// 15 read rows newest, 3 unread among the oldest. Cap 10 with
	// keepUnread leaves 13 rows: 5 read candidates go, unread stay.
	for i := 0; i < 15; i++ {
		seedNotification(t, gormDB, 1, true, time.Duration(i)*time.Minute)
	}
	for i := 0; i < 3; i++ {
		seedNotification(t, gormDB, 1, false, time.Duration(15+i)*time.Minute)
	}

	reqBody := gin.H{"userId": 1, "maxNotifications": 10, "keepUnread": true}

	w := doJSON(t, router, "POST", "/api/notifications/cleanup", tokenFor(t, operator), reqBody)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, "POST", "/api/notifications/cleanup", tokenFor(t, admin), reqBody)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(5), body["deletedCount"])

	// Idempotent: the rule is already satisfied.
	w = doJSON(t, router, "POST", "/api/notifications/cleanup", tokenFor(t, admin), reqBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(t, w)["deletedCount"])

	// An empty rule is a client error.
	w = doJSON(t, router, "POST", "/api/notifications/cleanup", tokenFor(t, admin), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAutoCleanupEndpoint(t *testing.T) {
	router, _, gormDB := newTestServer(t)
	admin := seedUser(t, gormDB, 1, "root", "pw", model.RoleAdmin)

	// User 2 is over the per-user cap of 10, user 3 holds stale read rows.
	seedUser(t, gormDB, 2, "alice", "pw", model.RoleOperator)
	seedUser(t, gormDB, 3, "bob", "pw", model.RoleOperator)
	for i := 0; i < 14; i++ {
		seedNotification(t, gormDB, 2, true, time.Duration(i)*time.Minute)
	}
	seedNotification(t, gormDB, 3, true, 48*time.Hour)
	seedNotification(t, gormDB, 3, false, 48*time.Hour)

	w := doJSON(t, router, "POST", "/api/notifications/auto-cleanup", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["runId"])

	results := body["results"].([]any)
	var perUser float64
	for _, r := range results {
		perUser += r.(map[string]any)["deletedCount"].(float64)
	}
	assert.Equal(t, float64(4), perUser)
	assert.Equal(t, float64(1), body["oldNotificationsDeleted"])
	assert.Equal(t, perUser+body["oldNotificationsDeleted"].(float64), body["totalCleanedCount"])
}

func TestNotificationStatsEndpoint(t *testing.T) {
	router, _, gormDB := newTestServer(t)
	operator := seedUser(t, gormDB, 1, "alice", "pw", model.RoleOperator)
	admin := seedUser(t, gormDB, 2, "root", "pw", model.RoleAdmin)
	seedNotification(t, gormDB, 1, false, time.Minute)

	w := doJSON(t, router, "GET", "/api/notifications/admin/notification-stats", tokenFor(t, operator), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, "GET", "/api/notifications/admin/notification-stats", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["degraded"])
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["total"])
	assert.Equal(t, float64(1), stats["unread"])
}
