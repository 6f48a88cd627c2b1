package observability

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Nitin-100/rustedclaw-sub001/internal/logger"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

// TracerName is the OpenTelemetry instrumentation scope of backend spans.
const TracerName = "github.com/Nitin-100/rustedclaw-sub001/memory"

// Backend decorates a storage.Backend with metrics, spans and logging.
type Backend struct {
	inner   storage.Backend
	metrics *Metrics
	tracer  trace.Tracer
	logger  zerolog.Logger
}

// Instrument wraps inner. A nil metrics disables metric recording; spans go
// to the global tracer provider, which is a no-op unless one is installed.
func Instrument(inner storage.Backend, metrics *Metrics, log *zerolog.Logger) *Backend {
	return &Backend{
		inner:   inner,
		metrics: metrics,
		tracer:  otel.Tracer(TracerName),
		logger:  logger.OrNop(log).With().Str("backend", inner.Name()).Logger(),
	}
}

// Unwrap returns the decorated backend.
func (b *Backend) Unwrap() storage.Backend {
	return b.inner
}

// Name returns the name of the decorated backend.
func (b *Backend) Name() string {
	return b.inner.Name()
}

// Store records and forwards a store.
func (b *Backend) Store(ctx context.Context, entry *storage.Entry) (string, error) {
	ctx, span := b.start(ctx, "store")
	start := time.Now()

	id, err := b.inner.Store(ctx, entry)
	span.SetAttributes(attribute.String("memory.id", id))
	b.finish(ctx, span, "store", start, err, true)
	return id, err
}

// Search records and forwards a search. A nil query is forwarded as
// storage.NewQuery("").
func (b *Backend) Search(ctx context.Context, query *storage.Query) ([]*storage.Entry, error) {
	if query == nil {
		query = storage.NewQuery("")
	}
	ctx, span := b.start(ctx, "search",
		attribute.String("memory.mode", string(query.Mode.Resolve())),
		attribute.Int("memory.limit", query.EffectiveLimit()),
	)
	start := time.Now()

	results, err := b.inner.Search(ctx, query)
	span.SetAttributes(attribute.Int("memory.results", len(results)))
	b.finish(ctx, span, "search", start, err, false)
	return results, err
}

// Delete records and forwards a delete.
func (b *Backend) Delete(ctx context.Context, id string) (bool, error) {
	ctx, span := b.start(ctx, "delete", attribute.String("memory.id", id))
	start := time.Now()

	ok, err := b.inner.Delete(ctx, id)
	span.SetAttributes(attribute.Bool("memory.deleted", ok))
	b.finish(ctx, span, "delete", start, err, ok)
	return ok, err
}

// Get records and forwards a lookup.
func (b *Backend) Get(ctx context.Context, id string) (*storage.Entry, error) {
	ctx, span := b.start(ctx, "get", attribute.String("memory.id", id))
	start := time.Now()

	e, err := b.inner.Get(ctx, id)
	b.finish(ctx, span, "get", start, err, false)
	return e, err
}

// Count records and forwards a count.
func (b *Backend) Count(ctx context.Context) (int, error) {
	ctx, span := b.start(ctx, "count")
	start := time.Now()

	n, err := b.inner.Count(ctx)
	if err == nil && b.metrics != nil {
		b.metrics.SetEntries(b.inner.Name(), n)
	}
	b.finish(ctx, span, "count", start, err, false)
	return n, err
}

// Clear records and forwards a clear.
func (b *Backend) Clear(ctx context.Context) error {
	ctx, span := b.start(ctx, "clear")
	start := time.Now()

	err := b.inner.Clear(ctx)
	b.finish(ctx, span, "clear", start, err, true)
	return err
}

// Close closes the decorated backend.
func (b *Backend) Close() error {
	return b.inner.Close()
}

func (b *Backend) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("memory.backend", b.inner.Name()))
	return b.tracer.Start(ctx, "memory."+op, trace.WithAttributes(attrs...))
}

// finish ends the span and records the outcome. When mutated is set the
// entries gauge is refreshed from the backend.
func (b *Backend) finish(ctx context.Context, span trace.Span, op string, start time.Time, err error, mutated bool) {
	defer span.End()
	elapsed := time.Since(start)

	status := StatusSuccess
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = StatusNotFound
	case err != nil:
		status = StatusError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.logger.Warn().Err(err).Str("op", op).Dur("elapsed", elapsed).Msg("memory operation failed")
	default:
		b.logger.Debug().Str("op", op).Dur("elapsed", elapsed).Msg("memory operation")
	}

	if b.metrics == nil {
		return
	}
	b.metrics.RecordOperation(b.inner.Name(), op, status, elapsed)

	// A failed flush still mutates memory, so the gauge is refreshed either way.
	if mutated {
		if n, cerr := b.inner.Count(context.WithoutCancel(ctx)); cerr == nil {
			b.metrics.SetEntries(b.inner.Name(), n)
		}
	}
}

var _ storage.Backend = (*Backend)(nil)
