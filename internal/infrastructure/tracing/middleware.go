package tracing

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/utils"
)

// HTTPMiddleware assigns every request an id (honoring a well-formed
// incoming X-Request-ID), echoes it in the response and logs a span when
// the handler returns
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if incoming := strings.TrimSpace(c.GetHeader(RequestIDHeader)); incoming != "" &&
			utils.ValidateID(incoming, "request_id", true) == nil {
			ctx = WithRequestID(ctx, id.RequestID(incoming))
		}

		name := c.FullPath()
		if name == "" {
			name = "unmatched"
		}
		span, ctx := tracer.StartSpan(ctx, c.Request.Method+" "+name)
		if sid := c.Param("sid"); sid != "" {
			span.SessionID = sid
		}
		if wid := c.Param("id"); wid != "" {
			span.SetTag("resource_id", wid)
		}
		span.SetTag("client_ip", c.ClientIP())

		c.Request = c.Request.WithContext(ctx)
		c.Set("request_id", span.RequestID.String())
		c.Header(RequestIDHeader, span.RequestID.String())

		c.Next()

		span.Status = c.Writer.Status()
		if len(c.Errors) > 0 {
			span.Error = c.Errors.Last()
		}
		span.Finish()
		tracer.Submit(span)
	}
}
