// Package histogram implements a trace.Tracer that records field and
// query latency into HDR histograms instead of emitting spans, for a
// caller that wants percentile stats without a tracing backend attached.
package histogram

import (
	"context"
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"

	"github.com/coreql/enginecore/errors"
	"github.com/coreql/enginecore/trace"
)

// Config bounds the recorded value range, in nanoseconds, and the number
// of significant decimal digits hdrhistogram keeps per bucket.
type Config struct {
	MinValue           int64
	MaxValue           int64
	SignificantFigures int
}

func DefaultConfig() Config {
	return Config{
		MinValue:           1,
		MaxValue:           (10 * time.Second).Nanoseconds(),
		SignificantFigures: 3,
	}
}

// Tracer records TraceQuery/TraceField latency into two histograms guarded
// by a mutex; hdrhistogram.Histogram itself is not concurrency-safe.
type Tracer struct {
	mu    sync.Mutex
	query *hdrhistogram.Histogram
	field *hdrhistogram.Histogram
}

func New(cfg Config) *Tracer {
	return &Tracer{
		query: hdrhistogram.New(cfg.MinValue, cfg.MaxValue, cfg.SignificantFigures),
		field: hdrhistogram.New(cfg.MinValue, cfg.MaxValue, cfg.SignificantFigures),
	}
}

func (t *Tracer) TraceQuery(ctx context.Context, _, _ string, _ map[string]interface{}) (context.Context, trace.QueryFinishFunc) {
	start := time.Now()
	return ctx, func([]*errors.QueryError) {
		t.record(t.query, time.Since(start))
	}
}

func (t *Tracer) TraceField(ctx context.Context, _, _ string, trivial bool, _ map[string]interface{}) (context.Context, trace.FieldFinishFunc) {
	if trivial {
		return ctx, func(*errors.QueryError) {}
	}
	start := time.Now()
	return ctx, func(*errors.QueryError) {
		t.record(t.field, time.Since(start))
	}
}

func (t *Tracer) record(h *hdrhistogram.Histogram, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h.RecordValue(d.Nanoseconds())
}

// QuerySnapshot returns the current query-latency histogram's percentile
// values for p50/p95/p99, in nanoseconds.
func (t *Tracer) QuerySnapshot() (p50, p95, p99 int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.query.ValueAtQuantile(50), t.query.ValueAtQuantile(95), t.query.ValueAtQuantile(99)
}

// FieldSnapshot returns the current field-latency histogram's percentile
// values for p50/p95/p99, in nanoseconds.
func (t *Tracer) FieldSnapshot() (p50, p95, p99 int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.field.ValueAtQuantile(50), t.field.ValueAtQuantile(95), t.field.ValueAtQuantile(99)
}
