package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refakat-backend/internal/model"
)

func TestPutPushSubscription(t *testing.T) {
	router, _, gormDB := newTestServer(t)
	alice := seedUser(t, gormDB, 1, "alice", "pw", model.RoleOperator)
	token := tokenFor(t, alice)

	w := doJSON(t, router, "PUT", "/api/push-subscriptions", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	sub := gin.H{"endpoint": "https://example.com/push", "p256dh": "key", "auth": "auth"}
	w = doJSON(t, router, "PUT", "/api/push-subscriptions", token, sub)
	assert.Equal(t, http.StatusCreated, w.Code)

	var stored model.PushSubscription
	require.NoError(t, gormDB.First(&stored, "endpoint = ?", "https://example.com/push").Error)
	assert.Equal(t, int64(1), stored.UserID, "subscription belongs to the caller")

	// Re-registering the same endpoint is an upsert, not a conflict.
	w = doJSON(t, router, "PUT", "/api/push-subscriptions", token, sub)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestDeletePushSubscription(t *testing.T) {
	router, _, gormDB := newTestServer(t)
	alice := seedUser(t, gormDB, 1, "alice", "pw", model.RoleOperator)
	bob := seedUser(t, gormDB, 2, "bob", "pw", model.RoleOperator)

	sub := gin.H{"endpoint": "https://example.com/push", "p256dh": "key", "auth": "auth"}
	w := doJSON(t, router, "PUT", "/api/push-subscriptions", tokenFor(t, alice), sub)
	require.Equal(t, http.StatusCreated, w.Code)

	body := gin.H{"endpoint": "https://example.com/push"}
	w = doJSON(t, router, "DELETE", "/api/push-subscriptions", tokenFor(t, bob), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, "DELETE", "/api/push-subscriptions", tokenFor(t, alice), body)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, "DELETE", "/api/push-subscriptions", tokenFor(t, alice), body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetVAPIDPublicKey(t *testing.T) {
	router, _, _ := newTestServer(t)

	// The test handler carries no webpush options.
	w := doJSON(t, router, "GET", "/api/vapid_public_key", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
