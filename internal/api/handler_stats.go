package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"refakat-backend/internal/store"
)

// The statistics endpoints never fail the dashboard: on a store error they
// return a zeroed payload with "degraded" set so the caller can tell a
// fallback from real zeros.

func degraded(c *gin.Context, what string, err error, payload gin.H) {
	log.Printf("stats %s degraded: %v", what, err)
	payload["degraded"] = true
	c.JSON(http.StatusOK, payload)
}

// StatusStats handles GET /api/stats/status.
func (h *Handler) StatusStats(c *gin.Context) {
	counts, err := h.store.StatusCounts(c.Request.Context())
	if err != nil {
		degraded(c, "status", err, gin.H{"counts": []store.StatusCount{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts, "degraded": false})
}

// DepartmentStats handles GET /api/stats/departments.
func (h *Handler) DepartmentStats(c *gin.Context) {
	counts, err := h.store.DepartmentCounts(c.Request.Context())
	if err != nil {
		degraded(c, "departments", err, gin.H{"counts": []store.DepartmentCount{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts, "degraded": false})
}

// TrendStats handles GET /api/stats/trend?start=&end= (RFC3339 or
// YYYY-MM-DD).
func (h *Handler) TrendStats(c *gin.Context) {
	start, _, ok := parseDateParam(c, "start")
	if !ok {
		return
	}
	end, endIsDay, ok := parseDateParam(c, "end")
	if !ok {
		return
	}
	// A date-only end names a day, not an instant: the whole day counts.
	if endIsDay {
		end = end.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be after start"})
		return
	}

	points, err := h.store.DailyTrend(c.Request.Context(), start, end)
	if err != nil {
		degraded(c, "trend", err, gin.H{"points": []store.TrendPoint{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points, "degraded": false})
}

// PerformanceStats handles GET /api/stats/performance.
func (h *Handler) PerformanceStats(c *gin.Context) {
	perf, err := h.store.PerformanceMetrics(c.Request.Context())
	if err != nil {
		degraded(c, "performance", err, gin.H{"performance": store.Performance{ByDepartment: []store.DeptPerformance{}}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"performance": perf, "degraded": false})
}

// parseDateParam accepts RFC3339 or YYYY-MM-DD; the second return reports
// the date-only form.
func parseDateParam(c *gin.Context, name string) (time.Time, bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return time.Time{}, false, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true, true
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " timestamp. Use RFC3339 or YYYY-MM-DD."})
	return time.Time{}, false, false
}
