package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"refakat-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, rateLimit rate.Limit, rateBurst int, cacheTTL time.Duration) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rateLimit, rateBurst)
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	authed := mw.RequireAuth(h.jwtSecret)
	admin := mw.RequireAdmin()

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/login", h.Login)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		cards := api.Group("/cards", authed)
		{
			cards.GET("", h.ListCards)
			cards.GET("/:id", h.GetCard)
			cards.GET("/barcode/:barcode", h.GetCardByBarcode)
			cards.POST("", h.CreateCard)
			cards.PATCH("/:id", h.UpdateCard)
			cards.DELETE("/:id", admin, h.DeleteCard)
			cards.POST("/:id/movements", h.StartMovement)
			cards.GET("/:id/movements", h.ListMovements)
		}
		api.PATCH("/movements/:id/complete", authed, h.CompleteMovement)

		stats := api.Group("/stats", authed, caching)
		{
			stats.GET("/status", h.StatusStats)
			stats.GET("/departments", h.DepartmentStats)
			stats.GET("/trend", h.TrendStats)
			stats.GET("/performance", h.PerformanceStats)
		}

		notifications := api.Group("/notifications", authed)
		{
			notifications.GET("", h.ListNotifications)
			notifications.GET("/:id", h.GetNotification)
			notifications.POST("", h.CreateNotification)
			notifications.PATCH("/:id/read", h.MarkNotificationRead)
			notifications.PATCH("/:id/archive", h.ArchiveNotification)
			notifications.DELETE("/:id", h.DeleteNotification)
			notifications.POST("/mark-all-read", h.MarkAllNotificationsRead)
			notifications.POST("/cleanup", admin, h.CleanupNotifications)
			notifications.POST("/auto-cleanup", admin, h.AutoCleanup)
			notifications.GET("/admin/notification-stats", admin, h.NotificationStats)
		}

		api.PUT("/push-subscriptions", authed, h.PutPushSubscription)
		api.DELETE("/push-subscriptions", authed, h.DeletePushSubscription)
	}

	return r
}
