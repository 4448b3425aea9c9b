// Package config holds engine-construction defaults a host can set once
// at startup instead of field-by-field on a built Schema.
package config

// TracerKind selects which concrete trace.Tracer BuildSchema wires onto
// the returned Schema by default (a caller may still override Schema.
// Tracer afterward).
type TracerKind string

const (
	TracerNoop        TracerKind = "noop"
	TracerOpenTracing TracerKind = "opentracing"
	TracerHistogram   TracerKind = "histogram"
)

type Config struct {
	// UseResolverMethods controls whether the default by-name resolver
	// (spec section 4.D) considers exported methods on the parent value,
	// or only exported struct fields and map keys.
	UseResolverMethods bool

	// MaxParallelism bounds sibling field/list-element resolution
	// concurrency; zero means unbounded.
	MaxParallelism int

	DefaultTracer TracerKind
}

func Default() *Config {
	return &Config{
		UseResolverMethods: true,
		MaxParallelism:     0,
		DefaultTracer:      TracerNoop,
	}
}
