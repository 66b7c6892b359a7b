package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

// bodyCapture duplicates everything written to the response into a buffer
// so a successful body can be stored for replay.
type bodyCapture struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCapture) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCapture) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache is a middleware for in-memory caching of GET responses, keyed by
// request URI. Only 2xx responses are stored. Intended for the dashboard
// statistics routes, which tolerate slightly stale data.
func Cache(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if hit, found := store.Get(key); found {
			cached := hit.(cachedResponse)
			for k, v := range cached.headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.WriteHeader(cached.status)
			c.Writer.Write(cached.body)
			c.Abort()
			return
		}

		capture := &bodyCapture{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = capture

		c.Next()

		if capture.Status() >= 200 && capture.Status() < 300 {
			store.Set(key, cachedResponse{
				status:  capture.Status(),
				headers: capture.Header().Clone(),
				body:    capture.body.Bytes(),
			}, duration)
		}
	}
}
