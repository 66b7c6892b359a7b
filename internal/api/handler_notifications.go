package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"refakat-backend/internal/mw"
	"refakat-backend/internal/store"
)

// ListNotifications handles GET /api/notifications for the calling user.
// Admins may list another user's rows via ?userId=.
func (h *Handler) ListNotifications(c *gin.Context) {
	actor := mw.ActorFrom(c)
	userID := actor.UserID
	if raw := c.Query("userId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}
		userID = parsed
	}

	q := store.NotificationQuery{
		ShowArchived: c.Query("showArchived") == "true",
		Type:         c.Query("type"),
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			q.Limit = limit
		}
	}

	notifications, err := h.store.ListNotifications(c.Request.Context(), actor, userID, q)
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// GetNotification handles GET /api/notifications/:id.
func (h *Handler) GetNotification(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, err := h.store.GetNotification(c.Request.Context(), mw.ActorFrom(c), id)
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

type createNotificationRequest struct {
	UserID  int64  `json:"userId" binding:"required"`
	Type    string `json:"type" binding:"required"`
	Title   string `json:"title"`
	Message string `json:"message" binding:"required"`
}

// CreateNotification handles POST /api/notifications and hands the stored
// row to the push delivery pool.
func (h *Handler) CreateNotification(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n, err := h.store.CreateNotification(c.Request.Context(), mw.ActorFrom(c), store.NotificationInput{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
	})
	if err != nil {
		abortStoreErr(c, err)
		return
	}

	if h.pool != nil {
		h.pool.Dispatch(n.ID)
	}
	c.JSON(http.StatusCreated, n)
}

// MarkNotificationRead handles PATCH /api/notifications/:id/read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.store.MarkNotificationRead(c.Request.Context(), mw.ActorFrom(c), id); err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ArchiveNotification handles PATCH /api/notifications/:id/archive.
func (h *Handler) ArchiveNotification(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.store.ArchiveNotification(c.Request.Context(), mw.ActorFrom(c), id); err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteNotification handles DELETE /api/notifications/:id.
func (h *Handler) DeleteNotification(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteNotification(c.Request.Context(), mw.ActorFrom(c), id); err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type markAllReadRequest struct {
	UserID *int64 `json:"userId"`
}

// MarkAllNotificationsRead handles POST /api/notifications/mark-all-read.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	actor := mw.ActorFrom(c)
	userID := actor.UserID

	var req markAllReadRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.UserID != nil {
		userID = *req.UserID
	}

	count, err := h.store.MarkAllNotificationsRead(c.Request.Context(), actor, userID)
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updatedCount": count})
}

type cleanupRequest struct {
	UserID           *int64     `json:"userId"`
	OlderThan        *time.Time `json:"olderThan"`
	KeepUnread       bool       `json:"keepUnread"`
	MaxNotifications int        `json:"maxNotifications"`
}

// CleanupNotifications handles POST /api/notifications/cleanup (admin).
func (h *Handler) CleanupNotifications(c *gin.Context) {
	var req cleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.store.CleanupNotifications(c.Request.Context(), store.CleanupOptions{
		UserID:           req.UserID,
		OlderThan:        req.OlderThan,
		KeepUnread:       req.KeepUnread,
		MaxNotifications: req.MaxNotifications,
	})
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"deletedCount": deleted,
		"message":      "cleanup finished",
	})
}

// AutoCleanup handles POST /api/notifications/auto-cleanup (admin).
func (h *Handler) AutoCleanup(c *gin.Context) {
	report, err := h.store.AutoCleanup(c.Request.Context(), h.sweepOpts)
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":                 true,
		"runId":                   report.RunID,
		"totalCleanedCount":       report.TotalCleaned,
		"oldNotificationsDeleted": report.OldDeleted,
		"results":                 report.Results,
	})
}

// NotificationStats handles GET /api/notifications/admin/notification-stats
// (admin). Like the card statistics it degrades instead of failing.
func (h *Handler) NotificationStats(c *gin.Context) {
	stats, err := h.store.NotificationStats(c.Request.Context())
	if err != nil {
		degraded(c, "notifications", err, gin.H{"stats": store.NotificationStats{
			ByType: map[string]int64{},
			ByUser: map[int64]int64{},
		}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "degraded": false})
}
