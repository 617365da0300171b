package httpx

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("rid", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

// Logger writes one line per request: verbose in development, concise in
// production.
func Logger(dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if dev {
			rid, _ := c.Get("rid")
			log.Printf("[http] rid=%v %s %s status=%d dur=%s",
				rid, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
			return
		}
		log.Printf("[http] %s %s %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}

// SecurityHeaders sets the usual protective response headers.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "0")
		h.Set("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

// MaxBody caps request payloads at n bytes; oversized bodies fail during
// binding.
func MaxBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
