package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// Route template keeps label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		// Get request size
		reqSize := c.Request.ContentLength
		if reqSize < 0 {
			reqSize = 0
		}

		// Process request
		c.Next()

		// Get response data
		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())
		respSize := int64(c.Writer.Size())

		// Record metrics
		metrics.RecordHTTPRequest(method, path, status, duration, reqSize, respSize)
	}
}

// Timer measures a preference store write
type Timer struct {
	start   time.Time
	metrics *Metrics
	key     string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, key string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		key:     key,
	}
}

// Stop stops the timer and records the duration and outcome
func (t *Timer) Stop(err error) {
	t.metrics.RecordPersist(t.key, time.Since(t.start), err)
}
