// Package resolvers implements component D of the engine: a registry that
// maps a (parent type name, field name) pair to the callable that produces
// that field's raw value, plus the default resolver substituted whenever
// the caller hasn't registered one explicitly. See spec section 4.D.
package resolvers

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/coreql/enginecore/config"
)

// Resolver produces a field's raw value given the request context, the
// already-resolved parent value, and the field's merged argument map (nil
// when the field declares no arguments). It may return an error, in which
// case the executor records a ResolverError and nulls the field.
type Resolver func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error)

// Typed may be implemented by a value resolved for an interface or union
// field to state its own concrete object type name directly, instead of
// relying on the executor's Go-type-name fallback (spec section 9, Open
// Question (i)).
type Typed interface {
	GraphQLType() string
}

// Map is the caller-supplied resolver table: type name -> field name ->
// Resolver. It is read-only once passed to New.
type Map map[string]map[string]Resolver

// Registry is the immutable, concurrency-safe lookup built from a Map. A
// zero Registry (New(nil, nil)) is valid and resolves every field through
// the default by-name resolver.
type Registry struct {
	table Map
	cfg   *config.Config
}

// New builds a Registry from a user-supplied resolver map and config. A
// nil map is equivalent to an empty one: every field falls through to the
// default, by-name resolver. A nil cfg uses config.Default().
func New(table Map, cfg *config.Config) *Registry {
	if table == nil {
		table = Map{}
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &Registry{table: table, cfg: cfg}
}

// Lookup returns the resolver registered for (parentType, field), or the
// default by-name resolver bound to field when none was registered. It
// never returns nil.
func (r *Registry) Lookup(parentType, field string) Resolver {
	fn, _ := r.LookupTrivial(parentType, field)
	return fn
}

// LookupTrivial is Lookup plus a trivial flag: true when the field falls
// through to the default by-name resolver rather than a caller-registered
// one, so a tracer can skip spans for leaf lookups that do no real work.
func (r *Registry) LookupTrivial(parentType, field string) (fn Resolver, trivial bool) {
	if byField, ok := r.table[parentType]; ok {
		if fn, ok := byField[field]; ok {
			return fn, false
		}
	}
	return r.defaultResolverFor(field), true
}

// defaultResolverFor implements the by-name lookup fallback from spec
// section 4.D: a method named like field (Go-exported, i.e. capitalized,
// only when cfg.UseResolverMethods), then an equally-named exported
// struct field, then a map key, in that order. The synthetic root value
// (nil parent, used for a schema with no user-supplied root resolver)
// always yields nil.
func (r *Registry) defaultResolverFor(field string) Resolver {
	exported := exportedName(field)
	useMethods := r.cfg == nil || r.cfg.UseResolverMethods
	return func(ctx context.Context, parent interface{}, _ map[string]interface{}) (interface{}, error) {
		if parent == nil {
			return nil, nil
		}
		if m, ok := parent.(map[string]interface{}); ok {
			return m[field], nil
		}

		v := reflect.ValueOf(parent)
		for {
			if v.Kind() == reflect.Ptr && v.IsNil() {
				return nil, nil
			}
			// Methods are looked up before each dereference so that
			// pointer-receiver methods stay in the method set.
			if useMethods {
				if m := v.MethodByName(exported); m.IsValid() {
					return callMethod(ctx, m)
				}
			}
			if v.Kind() != reflect.Ptr {
				break
			}
			v = v.Elem()
		}
		if v.Kind() == reflect.Struct {
			if f := v.FieldByName(exported); f.IsValid() {
				return f.Interface(), nil
			}
		}
		return nil, nil
	}
}

func exportedName(field string) string {
	if field == "" {
		return ""
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

var ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()

func callMethod(ctx context.Context, m reflect.Value) (interface{}, error) {
	t := m.Type()
	var in []reflect.Value
	switch t.NumIn() {
	case 0:
	case 1:
		if !t.In(0).Implements(ctxType) && t.In(0) != ctxType {
			return nil, fmt.Errorf("resolver method %s: unsupported parameter type %s", t, t.In(0))
		}
		in = []reflect.Value{reflect.ValueOf(ctx)}
	default:
		return nil, fmt.Errorf("resolver method %s: too many parameters", t)
	}

	out := m.Call(in)
	switch len(out) {
	case 1:
		return out[0].Interface(), nil
	case 2:
		var err error
		if e, ok := out[1].Interface().(error); ok {
			err = e
		}
		return out[0].Interface(), err
	default:
		return nil, fmt.Errorf("resolver method %s: unsupported return shape", t)
	}
}
