package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"refakat-backend/internal/notification"
	"refakat-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	webpush   *webpush.Options
	pool      *notification.WorkerPool
	jwtSecret []byte
	tokenTTL  time.Duration
	sweepOpts store.SweepOptions
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, pool *notification.WorkerPool, jwtSecret []byte, tokenTTL time.Duration, sweepOpts store.SweepOptions) *Handler {
	return &Handler{
		store:     s,
		webpush:   webpushOptions,
		pool:      pool,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		sweepOpts: sweepOpts,
	}
}

// abortStoreErr maps the store's sentinel errors onto HTTP status codes.
// This is the only place a store error becomes a status code.
func abortStoreErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidTransition):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
