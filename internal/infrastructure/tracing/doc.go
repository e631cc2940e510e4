/*
Package tracing gives every API request an id and a logged span.

Request ids are prefixed ULIDs (req_*) carried in the X-Request-ID header:
a well-formed incoming id is kept, otherwise a new one is minted, and the
id is echoed on the response and stored on the request context so handlers
can attach it to their own log lines.

Finished spans go through a buffered channel to a collector goroutine that
writes them with zap. When the buffer is full spans are dropped rather than
blocking the request.

# Usage

	tracer := tracing.New(logger.Logger)
	defer tracer.Close()
	router.Use(tracing.HTTPMiddleware(tracer))

	// inside a handler
	rid := tracing.RequestID(c.Request.Context())
*/
package tracing
