// Package trace declares the tracing hooks the engine calls around a query
// and around each non-trivial field resolution. Implementations live in
// subpackages so a caller only imports the tracing backend it actually
// wants (see trace/opentracing and trace/histogram).
package trace

import (
	"context"

	"github.com/coreql/enginecore/errors"
)

type QueryFinishFunc func([]*errors.QueryError)
type FieldFinishFunc func(*errors.QueryError)
type ValidationFinishFunc func([]*errors.QueryError)

// Tracer instruments one execution of Execute. TraceQuery wraps the whole
// operation; TraceField wraps one field resolution. A field is "trivial"
// when its resolver is the default by-name lookup (spec section 4.D),
// which a tracer typically wants to skip to avoid drowning a trace in
// leaf-scalar spans.
type Tracer interface {
	TraceQuery(ctx context.Context, queryString, operationName string, variables map[string]interface{}) (context.Context, QueryFinishFunc)
	TraceField(ctx context.Context, typeName, fieldName string, trivial bool, args map[string]interface{}) (context.Context, FieldFinishFunc)
}

// ValidationTracer instruments one call to Validate, separately from
// TraceQuery so a caller can distinguish parse/validate latency from
// resolver latency.
type ValidationTracer interface {
	TraceValidation(ctx context.Context) ValidationFinishFunc
}

// NoopTracer discards every span. It is the zero-cost default when a
// caller supplies no Tracer.
type NoopTracer struct{}

func (NoopTracer) TraceQuery(ctx context.Context, _, _ string, _ map[string]interface{}) (context.Context, QueryFinishFunc) {
	return ctx, func([]*errors.QueryError) {}
}

func (NoopTracer) TraceField(ctx context.Context, _, _ string, _ bool, _ map[string]interface{}) (context.Context, FieldFinishFunc) {
	return ctx, func(*errors.QueryError) {}
}

func (NoopTracer) TraceValidation(ctx context.Context) ValidationFinishFunc {
	return func([]*errors.QueryError) {}
}
