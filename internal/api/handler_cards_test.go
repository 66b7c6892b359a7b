package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refakat-backend/internal/model"
)

func TestCardLifecycleOverHTTP(t *testing.T) {
	router, _, gormDB := newTestServer(t)
	require.NoError(t, gormDB.Create(&model.Department{ID: 1, Name: "Weaving"}).Error)
	require.NoError(t, gormDB.Create(&model.Department{ID: 2, Name: "Finishing"}).Error)
	operator := seedUser(t, gormDB, 10, "op", "pw", model.RoleOperator)
	token := tokenFor(t, operator)

	// Create: codes come back server-generated.
	w := doJSON(t, router, "POST", "/api/cards", token, gin.H{
		"orderId": 42,
		"length":  120.5,
		"color":   "indigo",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)
	cardID := int64(created["id"].(float64))
	barcode := created["barcode"].(string)
	assert.Regexp(t, `^RK-[0-9]{6}$`, created["cardNo"])
	assert.Equal(t, string(model.StatusCreated), created["status"])

	// Scanner lookup by barcode.
	w = doJSON(t, router, "GET", "/api/cards/barcode/"+barcode, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Scan into weaving; operator comes from the token.
	w = doJSON(t, router, "POST", fmt.Sprintf("/api/cards/%d/movements", cardID), token, gin.H{
		"toDepartmentId": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	movement := decodeBody(t, w)
	movementID := int64(movement["id"].(float64))
	assert.Equal(t, float64(10), movement["operatorId"])

	w = doJSON(t, router, "GET", fmt.Sprintf("/api/cards/%d", cardID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	card := decodeBody(t, w)
	assert.Equal(t, string(model.StatusInProgress), card["status"])
	assert.Equal(t, float64(1), card["currentDepartmentId"])

	// Close the step as the last one; the card completes with it.
	w = doJSON(t, router, "PATCH", fmt.Sprintf("/api/movements/%d/complete", movementID), token, gin.H{
		"finalStep": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", fmt.Sprintf("/api/cards/%d", cardID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	card = decodeBody(t, w)
	assert.Equal(t, string(model.StatusCompleted), card["status"])

	// Movement log, newest first.
	w = doJSON(t, router, "GET", fmt.Sprintf("/api/cards/%d/movements", cardID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateCardRejectsIllegalTransition(t *testing.T) {
	router, _, gormDB := newTestServer(t)
	operator := seedUser(t, gormDB, 10, "op", "pw", model.RoleOperator)
	token := tokenFor(t, operator)

	w := doJSON(t, router, "POST", "/api/cards", token, gin.H{"orderId": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	cardID := int64(decodeBody(t, w)["id"].(float64))

	w = doJSON(t, router, "PATCH", fmt.Sprintf("/api/cards/%d", cardID), token, gin.H{
		"status": "completed",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, "PATCH", fmt.Sprintf("/api/cards/%d", cardID), token, gin.H{
		"status": "teleported",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "PATCH", fmt.Sprintf("/api/cards/%d", cardID), token, gin.H{
		"status": "cancelled",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteCardRequiresAdmin(t *testing.T) {
	router, _, gormDB := newTestServer(t)
	operator := seedUser(t, gormDB, 10, "op", "pw", model.RoleOperator)
	admin := seedUser(t, gormDB, 11, "root", "pw", model.RoleAdmin)

	w := doJSON(t, router, "POST", "/api/cards", tokenFor(t, operator), gin.H{"orderId": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	cardID := int64(decodeBody(t, w)["id"].(float64))

	w = doJSON(t, router, "DELETE", fmt.Sprintf("/api/cards/%d", cardID), tokenFor(t, operator), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, "DELETE", fmt.Sprintf("/api/cards/%d", cardID), tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", fmt.Sprintf("/api/cards/%d", cardID), tokenFor(t, operator), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCardErrors(t *testing.T) {
	router, _, gormDB := newTestServer(t)
	operator := seedUser(t, gormDB, 10, "op", "pw", model.RoleOperator)
	token := tokenFor(t, operator)

	w := doJSON(t, router, "GET", "/api/cards/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, "GET", "/api/cards/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "GET", "/api/cards/barcode/RK999990000", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
