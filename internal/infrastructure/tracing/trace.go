package tracing

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/id"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// Span is one traced request or operation
type Span struct {
	RequestID id.RequestID
	Name      string
	SessionID string
	StartTime time.Time
	Duration  time.Duration
	Status    int
	Tags      map[string]string
	Error     error
}

// SetTag adds a tag to the span
func (s *Span) SetTag(key, value string) {
	s.Tags[key] = value
}

// Finish marks the span as complete
func (s *Span) Finish() {
	s.Duration = time.Since(s.StartTime)
}

// Tracer logs finished spans from a background collector so request
// goroutines never wait on the logger
type Tracer struct {
	logger *zap.Logger
	spans  chan *Span
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New creates a new tracer instance
func New(logger *zap.Logger) *Tracer {
	t := &Tracer{
		logger: logger,
		spans:  make(chan *Span, 1000),
	}
	t.wg.Add(1)
	go t.collect()
	return t
}

// StartSpan starts a span, reusing the request id already on ctx
func (t *Tracer) StartSpan(ctx context.Context, name string) (*Span, context.Context) {
	rid := RequestID(ctx)
	if rid == "" {
		rid = id.NewRequestID()
		ctx = WithRequestID(ctx, rid)
	}
	return &Span{
		RequestID: rid,
		Name:      name,
		StartTime: time.Now(),
		Tags:      make(map[string]string),
	}, ctx
}

// Submit hands a finished span to the collector, dropping it when the
// buffer is full
func (t *Tracer) Submit(span *Span) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}

	select {
	case t.spans <- span:
	default:
		t.logger.Warn("span buffer full, dropping span",
			zap.String("request_id", span.RequestID.String()),
		)
	}
}

// Close drains pending spans and stops the collector. Later spans are
// discarded.
func (t *Tracer) Close() {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.spans)
	}
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Tracer) collect() {
	defer t.wg.Done()
	for span := range t.spans {
		t.log(span)
	}
}

func (t *Tracer) log(span *Span) {
	fields := []zap.Field{
		zap.String("request_id", span.RequestID.String()),
		zap.String("operation", span.Name),
		zap.Duration("duration", span.Duration),
	}
	if span.Status != 0 {
		fields = append(fields, zap.Int("status", span.Status))
	}
	if span.SessionID != "" {
		fields = append(fields, zap.String("session_id", span.SessionID))
	}
	for k, v := range span.Tags {
		fields = append(fields, zap.String(k, v))
	}

	switch {
	case span.Error != nil:
		t.logger.Error("request failed", append(fields, zap.Error(span.Error))...)
	case span.Status >= 500:
		t.logger.Error("request completed", fields...)
	default:
		t.logger.Debug("request completed", fields...)
	}
}

type contextKey struct{}

// WithRequestID stores a request id on ctx
func WithRequestID(ctx context.Context, rid id.RequestID) context.Context {
	return context.WithValue(ctx, contextKey{}, rid)
}

// RequestID retrieves the request id from ctx
func RequestID(ctx context.Context) id.RequestID {
	rid, _ := ctx.Value(contextKey{}).(id.RequestID)
	return rid
}
