// Package enginecore implements the server-side core of a GraphQL engine:
// building a type registry from schema SDL, validating operation documents
// against it, and executing a validated document to a response tree. The
// lexer/parser producing the AST, transport, subscriptions and
// introspection schema injection are treated as external collaborators
// (see README/spec section 6) and are not implemented here.
package enginecore

import (
	"context"

	"github.com/coreql/enginecore/ast"
	"github.com/coreql/enginecore/config"
	"github.com/coreql/enginecore/errors"
	"github.com/coreql/enginecore/internal/exec"
	"github.com/coreql/enginecore/internal/query"
	"github.com/coreql/enginecore/internal/registry"
	"github.com/coreql/enginecore/internal/validation"
	"github.com/coreql/enginecore/log"
	"github.com/coreql/enginecore/resolvers"
	"github.com/coreql/enginecore/trace"
	"github.com/coreql/enginecore/trace/histogram"
	tracingtrace "github.com/coreql/enginecore/trace/opentracing"
)

// Schema is a built, immutable type registry: the output of BuildSchema.
// It is safe for concurrent use by any number of Validate/Execute calls.
type Schema struct {
	state *registry.SchemaState

	MaxParallelism   int
	Tracer           trace.Tracer
	ValidationTracer trace.ValidationTracer
	Logger           log.Logger
	Resolvers        *resolvers.Registry
	Root             interface{}
}

// BuildSchema parses schemaSource and derives its spec-map (component B),
// using config.Default() for resolver/tracing/parallelism defaults.
func BuildSchema(schemaSource string) (*Schema, error) {
	return BuildSchemaWithConfig(schemaSource, config.Default())
}

// BuildSchemaWithConfig is BuildSchema with an explicit config.Config,
// for a host that wants non-default resolver-method fallback,
// parallelism, or tracer selection from the moment the schema is built.
func BuildSchemaWithConfig(schemaSource string, cfg *config.Config) (*Schema, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	parsed, perr := registry.ParseSchema(schemaSource)
	if perr != nil {
		return nil, perr
	}
	state, berr := registry.Build(parsed)
	if berr != nil {
		return nil, berr
	}
	return &Schema{
		state:          state,
		MaxParallelism: cfg.MaxParallelism,
		Tracer:         tracerFor(cfg.DefaultTracer),
		Logger:         &log.DefaultLogger{},
		Resolvers:      resolvers.New(nil, cfg),
	}, nil
}

func tracerFor(kind config.TracerKind) trace.Tracer {
	switch kind {
	case config.TracerOpenTracing:
		return tracingtrace.Tracer{}
	case config.TracerHistogram:
		return histogram.New(histogram.DefaultConfig())
	default:
		return trace.NoopTracer{}
	}
}

// ValidatedQuery is a parsed operation document that has passed Validate
// against the Schema it was validated with; Execute requires one instead
// of a raw string so a caller can validate once and execute many times
// (e.g. persisted queries) without re-parsing or re-validating.
type ValidatedQuery struct {
	source string
	doc    *ast.ExecutableDocument
}

// Validate parses operationSource and runs every validation rule against
// s (component C). ruleNames, if non-empty, restricts the returned errors
// to violations of one of those named rules (see the Rule field on each
// *errors.QueryError produced); violations that carry no rule tag are
// always returned. An empty ruleNames runs and reports every rule, which
// is the normal case. Unless the source fails to parse, a non-nil
// ValidatedQuery is still returned alongside errors so a caller
// inspecting a subset of rules can choose to execute anyway.
func (s *Schema) Validate(operationSource string, ruleNames ...string) (*ValidatedQuery, []*errors.QueryError) {
	doc, perr := query.Parse(operationSource)
	if perr != nil {
		return nil, []*errors.QueryError{perr}
	}

	violations := validation.Validate(s.state, doc)
	vq := &ValidatedQuery{source: operationSource, doc: doc}
	if len(ruleNames) == 0 {
		return vq, violations
	}

	allowed := make(map[string]bool, len(ruleNames))
	for _, r := range ruleNames {
		allowed[r] = true
	}
	var filtered []*errors.QueryError
	for _, v := range violations {
		if v.Rule == "" || allowed[v.Rule] {
			filtered = append(filtered, v)
		}
	}
	return vq, filtered
}

// Execute runs a validated document (component E). variables may be nil.
// root overrides s.Root for this call only; pass nil to use s.Root.
func (s *Schema) Execute(ctx context.Context, q *ValidatedQuery, operationName string, variables map[string]interface{}, root interface{}) *exec.Response {
	if root == nil {
		root = s.Root
	}
	tracer := s.Tracer
	if tracer == nil {
		tracer = trace.NoopTracer{}
	}
	logger := s.Logger
	if logger == nil {
		logger = &log.DefaultLogger{}
	}
	reg := s.Resolvers
	if reg == nil {
		reg = resolvers.New(nil, nil)
	}

	return exec.Execute(ctx, s.state, reg, q.doc, q.source, operationName, variables, root, tracer, logger, s.MaxParallelism)
}

// Exec is a convenience wrapper combining Validate and Execute for the
// common case of running a query source exactly once (no rule filtering,
// no separate access to validation errors before execution).
func (s *Schema) Exec(ctx context.Context, operationSource, operationName string, variables map[string]interface{}, root interface{}) *exec.Response {
	var validationErrs []*errors.QueryError
	vt := s.ValidationTracer
	if vt == nil {
		vt, _ = s.Tracer.(trace.ValidationTracer)
	}
	if vt != nil {
		finish := vt.TraceValidation(ctx)
		defer func() { finish(validationErrs) }()
	}

	vq, violations := s.Validate(operationSource)
	validationErrs = violations
	if len(violations) > 0 {
		return &exec.Response{Errors: violations}
	}
	return s.Execute(ctx, vq, operationName, variables, root)
}
