// Package exec implements component E of the engine: it drives a validated
// operation to completion — CollectFields, ExecuteFields, CompleteValue —
// invoking resolvers and assembling the response tree. See spec section
// 4.E.
package exec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/segmentio/ksuid"

	"github.com/coreql/enginecore/ast"
	"github.com/coreql/enginecore/errors"
	"github.com/coreql/enginecore/internal/registry"
	"github.com/coreql/enginecore/log"
	"github.com/coreql/enginecore/resolvers"
	"github.com/coreql/enginecore/trace"
)

// Response is the top-level result of one execution: either Data, or
// Errors, or (on a partial failure) both. Extensions always carries the
// per-execution request id under "requestID", so a caller can correlate a
// response with the traces/logs it produced.
type Response struct {
	Data       interface{}            `json:"data,omitempty"`
	Errors     []*errors.QueryError   `json:"errors,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// Execute runs operationName (or the document's sole operation, if
// operationName is empty) against root, invoking resolvers through reg.
// doc must already have been validated against state; Execute does not
// re-check field/argument shape. tracer and logger may be nil, in which
// case tracing is a no-op and panics are logged with log.DefaultLogger.
func Execute(ctx context.Context, state *registry.SchemaState, reg *resolvers.Registry, doc *ast.ExecutableDocument, queryString, operationName string, variables map[string]interface{}, root interface{}, tracer trace.Tracer, logger log.Logger, maxParallelism int) *Response {
	if tracer == nil {
		tracer = trace.NoopTracer{}
	}
	if logger == nil {
		logger = &log.DefaultLogger{}
	}

	requestID := ksuid.New().String()
	extensions := map[string]interface{}{"requestID": requestID}

	op, operr := selectOperation(doc, operationName)
	if operr != nil {
		return &Response{Errors: []*errors.QueryError{operr}, Extensions: extensions}
	}

	traceCtx, finishQuery := tracer.TraceQuery(ctx, queryString, op.Name.Name, variables)
	ctx = traceCtx
	variables = withVariableDefaults(op.Vars, variables)

	rootSpec, ok := state.RootSpecs[op.Type]
	if !ok {
		err := errors.Errorf("The schema does not support %s operations.", op.Type)
		finishQuery([]*errors.QueryError{err})
		return &Response{Errors: []*errors.QueryError{err}, Extensions: extensions}
	}
	rootDesc, rerr := state.Resolve(rootSpec)
	if rerr != nil {
		finishQuery([]*errors.QueryError{rerr})
		return &Response{Errors: []*errors.QueryError{rerr}, Extensions: extensions}
	}

	e := &executor{ctx: ctx, state: state, resolvers: reg, doc: doc, vars: variables, tracer: tracer, logger: logger, requestID: requestID}
	if maxParallelism > 0 {
		e.sem = make(chan struct{}, maxParallelism)
	}
	grouped, cerr := collectFields(state, doc, rootSpec, op.Selections, variables, map[string]bool{})
	if cerr != nil {
		finishQuery([]*errors.QueryError{cerr})
		return &Response{Errors: []*errors.QueryError{cerr}, Extensions: extensions}
	}

	c, xerr := e.executeFields(rootDesc, root, grouped, Path{}, op.Type == ast.Mutation)
	if xerr != nil {
		e.addError(xerr)
	}
	if err := ctx.Err(); err != nil {
		e.addError(errors.Errorf("graphql: execution cancelled: %s", err))
		finishQuery(e.errors)
		return &Response{Errors: e.errors, Extensions: extensions}
	}
	finishQuery(e.errors)
	resp := &Response{Errors: e.errors, Extensions: extensions}
	if xerr == nil && !c.violated {
		resp.Data = c.value
	}
	return resp
}

func selectOperation(doc *ast.ExecutableDocument, name string) (*ast.OperationDefinition, *errors.QueryError) {
	if name == "" {
		if len(doc.Operations) != 1 {
			return nil, errors.Errorf("Must provide operation name if query contains multiple operations.")
		}
		return doc.Operations[0], nil
	}
	for _, op := range doc.Operations {
		if op.Name.Name == name {
			return op, nil
		}
	}
	return nil, errors.Errorf("Unknown operation named %q.", name)
}

// executor holds the state shared across one Execute call: the immutable
// schema/resolver inputs, plus the mutex-guarded error list every goroutine
// resolving a sibling field appends to.
type executor struct {
	ctx       context.Context
	state     *registry.SchemaState
	resolvers *resolvers.Registry
	doc       *ast.ExecutableDocument
	vars      map[string]interface{}
	tracer    trace.Tracer
	logger    log.Logger
	requestID string
	sem       chan struct{} // nil means unbounded parallelism

	mu     sync.Mutex
	errors []*errors.QueryError
}

// acquire blocks until a parallelism slot is free (a no-op when sem is
// nil, i.e. no limit was configured), returning the release func.
func (e *executor) acquire() func() {
	if e.sem == nil {
		return func() {}
	}
	e.sem <- struct{}{}
	return func() { <-e.sem }
}

func (e *executor) addError(err *errors.QueryError) {
	if err == nil {
		return
	}
	e.mu.Lock()
	e.errors = append(e.errors, err)
	e.mu.Unlock()
}

// completion is the result of completing one value: either a value ready to
// serialize, or a non-null violation still propagating toward the nearest
// nullable ancestor (spec section 7, NonNullViolation).
type completion struct {
	value    interface{}
	violated bool
}

// Path is a response-tree path: a mix of string (field) and int (list
// index) segments, exactly what errors.QueryError.Path expects.
type Path []interface{}

func (p Path) child(key string) Path {
	next := make(Path, len(p)+1)
	copy(next, p)
	next[len(p)] = key
	return next
}

func (p Path) index(i int) Path {
	next := make(Path, len(p)+1)
	copy(next, p)
	next[len(p)] = i
	return next
}

func (p Path) slice() []interface{} {
	if len(p) == 0 {
		return nil
	}
	return []interface{}(p)
}

// fieldGroup is a set of selections sharing one response key, gathered by
// CollectFields; several fields collapse into one group when the same
// alias appears via more than one fragment.
type fieldGroup struct {
	key    string
	fields []*ast.Field
}

// collectFields implements the CollectFields algorithm of spec section
// 4.E: it flattens fragment spreads and inline fragments whose type
// condition matches concreteSpec, groups by response key in first-seen
// order, and evaluates @skip/@include along the way.
func collectFields(state *registry.SchemaState, doc *ast.ExecutableDocument, concreteSpec ast.SpecID, sels []ast.Selection, variables map[string]interface{}, visited map[string]bool) ([]*fieldGroup, *errors.QueryError) {
	var groups []*fieldGroup
	index := make(map[string]int)

	var walk func(sels []ast.Selection, visited map[string]bool) *errors.QueryError
	walk = func(sels []ast.Selection, visited map[string]bool) *errors.QueryError {
		for _, sel := range sels {
			switch s := sel.(type) {
			case *ast.Field:
				skip, err := shouldSkip(s.Directives, variables)
				if err != nil {
					return err
				}
				if skip {
					continue
				}
				key := s.ResponseKey()
				if i, ok := index[key]; ok {
					groups[i].fields = append(groups[i].fields, s)
				} else {
					index[key] = len(groups)
					groups = append(groups, &fieldGroup{key: key, fields: []*ast.Field{s}})
				}

			case *ast.InlineFragment:
				skip, err := shouldSkip(s.Directives, variables)
				if err != nil {
					return err
				}
				if skip {
					continue
				}
				if s.On.Name != "" {
					applies, err := fragmentApplies(state, concreteSpec, s.On.Name)
					if err != nil {
						return err
					}
					if !applies {
						continue
					}
				}
				if err := walk(s.Selections, visited); err != nil {
					return err
				}

			case *ast.FragmentSpread:
				skip, err := shouldSkip(s.Directives, variables)
				if err != nil {
					return err
				}
				if skip || visited[s.Name.Name] {
					continue
				}
				frag := lookupFragment(doc, s.Name.Name)
				if frag == nil {
					continue // unreachable post-validation: KnownFragmentNames already rejected this
				}
				applies, err := fragmentApplies(state, concreteSpec, frag.On.Name)
				if err != nil {
					return err
				}
				if !applies {
					continue
				}
				next := make(map[string]bool, len(visited)+1)
				for k := range visited {
					next[k] = true
				}
				next[s.Name.Name] = true
				if err := walk(frag.Selections, next); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(sels, visited); err != nil {
		return nil, err
	}
	return groups, nil
}

func lookupFragment(doc *ast.ExecutableDocument, name string) *ast.FragmentDefinition {
	for _, f := range doc.Fragments {
		if f.Name.Name == name {
			return f
		}
	}
	return nil
}

// fragmentApplies decides whether a fragment whose type condition is
// conditionName should be expanded against a value whose runtime type is
// concreteSpec (always an OBJECT spec).
func fragmentApplies(state *registry.SchemaState, concreteSpec ast.SpecID, conditionName string) (bool, *errors.QueryError) {
	condSpec, ok := state.TypeSpecs[conditionName]
	if !ok {
		return false, errors.Errorf("internal error: unknown type condition %q", conditionName)
	}
	if condSpec == concreteSpec {
		return true, nil
	}
	condDesc, err := state.Resolve(condSpec)
	if err != nil {
		return false, err
	}
	switch condDesc.Kind {
	case ast.OBJECT:
		return false, nil
	case ast.INTERFACE:
		concreteDesc, err := state.Resolve(concreteSpec)
		if err != nil {
			return false, err
		}
		return containsSpec(concreteDesc.Members, condSpec), nil
	case ast.UNION:
		return containsSpec(condDesc.Members, concreteSpec), nil
	}
	return false, nil
}

func containsSpec(specs []ast.SpecID, id ast.SpecID) bool {
	for _, s := range specs {
		if s == id {
			return true
		}
	}
	return false
}

func shouldSkip(directives ast.DirectiveList, variables map[string]interface{}) (bool, *errors.QueryError) {
	if d := directives.Get("skip"); d != nil {
		v, err := directiveBoolArg(d, variables)
		if err != nil {
			return false, err
		}
		if v {
			return true, nil
		}
	}
	if d := directives.Get("include"); d != nil {
		v, err := directiveBoolArg(d, variables)
		if err != nil {
			return false, err
		}
		if !v {
			return true, nil
		}
	}
	return false, nil
}

func directiveBoolArg(d *ast.Directive, variables map[string]interface{}) (bool, *errors.QueryError) {
	val, ok := d.Arguments.Get("if")
	if !ok {
		return false, errors.Errorf("Directive %q argument %q of type %q is required, but it was not provided.", d.Name.Name, "if", "Boolean!")
	}
	if ref, ok := val.(*ast.Variable); ok {
		v, ok := variables[ref.Name]
		if !ok {
			return false, nil
		}
		b, _ := v.(bool)
		return b, nil
	}
	lit, ok := val.(*ast.BooleanValue)
	if !ok {
		return false, errors.Errorf("Directive %q argument %q must be a boolean.", d.Name.Name, "if")
	}
	return lit.Value, nil
}

// executeFields implements ExecuteFields: resolve every group's field and
// assemble the results into a response object, in source order. Query
// siblings resolve concurrently; serial forces strict left-to-right
// execution (used once, for a mutation's top-level fields).
func (e *executor) executeFields(parentDesc *registry.Descriptor, parentValue interface{}, grouped []*fieldGroup, path Path, serial bool) (completion, *errors.QueryError) {
	results := make([]completion, len(grouped))

	resolveAt := func(i int) {
		results[i] = e.resolveFieldGroup(parentDesc, parentValue, grouped[i], path.child(grouped[i].key))
	}

	if serial || len(grouped) <= 1 {
		for i := range grouped {
			resolveAt(i)
		}
	} else {
		var wg sync.WaitGroup
		for i := range grouped {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				release := e.acquire()
				defer release()
				defer e.recoverInto(&results[i], path.child(grouped[i].key))
				resolveAt(i)
			}(i)
		}
		wg.Wait()
	}

	out := newOrderedMap(len(grouped))
	violated := false
	for i, g := range grouped {
		if results[i].violated {
			violated = true
		}
		out.Set(g.key, results[i].value)
	}
	if violated {
		return completion{violated: true}, nil
	}
	return completion{value: out}, nil
}

func (e *executor) recoverInto(slot *completion, path Path) {
	if r := recover(); r != nil {
		e.logger.LogPanic(e.ctx, r)
		e.addError((&errors.QueryError{Message: fmt.Sprintf("graphql: panic occurred: %v", r), Path: path.slice()}))
		*slot = completion{violated: true}
	}
}

func (e *executor) resolveFieldGroup(parentDesc *registry.Descriptor, parentValue interface{}, g *fieldGroup, path Path) completion {
	first := g.fields[0]

	if first.Name.Name == "__typename" {
		return completion{value: parentDesc.TypeName}
	}

	fieldDef := e.state.FieldDefs[first.Spec]
	if fieldDef == nil {
		e.addError(&errors.QueryError{Message: fmt.Sprintf("internal error: no field definition for %q", first.Name.Name), Path: path.slice()})
		return completion{}
	}

	args := mergeArguments(fieldDef, first.Arguments, e.state.ArgDefaults, e.vars)
	for _, decl := range fieldDef.Args {
		if _, nonNull := decl.Type.(*ast.NonNull); !nonNull {
			continue
		}
		if v, present := args[decl.Name.Name]; present && v == nil {
			e.addError(&errors.QueryError{Message: fmt.Sprintf("Argument %q of non-null type %q must not be null.", decl.Name.Name, decl.Type.String()), Path: path.slice()})
			if e.isNonNull(fieldDef.Spec) {
				return completion{violated: true}
			}
			return completion{}
		}
	}
	resolve, trivial := e.resolvers.LookupTrivial(parentDesc.TypeName, first.Name.Name)

	fieldCtx, finishField := e.tracer.TraceField(e.ctx, parentDesc.TypeName, first.Name.Name, trivial, args)
	value, rerr := e.safeResolveCtx(fieldCtx, resolve, parentValue, args)
	if rerr != nil {
		qerr := toQueryError(rerr, path)
		finishField(qerr)
		e.addError(qerr)
		if e.isNonNull(fieldDef.Spec) {
			return completion{violated: true}
		}
		return completion{}
	}
	finishField(nil)

	c, cerr := e.completeValue(fieldDef.Spec, value, mergedSelections(g.fields), path)
	if cerr != nil {
		cp := *cerr
		cp.Path = path.slice()
		e.addError(&cp)
		return completion{}
	}
	return c
}

func mergedSelections(fields []*ast.Field) []ast.Selection {
	var out []ast.Selection
	for _, f := range fields {
		out = append(out, f.SelectionSet...)
	}
	return out
}

// safeResolveCtx invokes a resolver with its own panic boundary. A panic is
// wrapped with pkg/errors so the resulting QueryError carries a captured
// stack trace (via ResolverError, accessible to a caller that unwraps it)
// instead of just the recovered value's string form.
func (e *executor) safeResolveCtx(ctx context.Context, resolve resolvers.Resolver, parent interface{}, args map[string]interface{}) (v interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.LogPanic(ctx, r)
			if re, ok := r.(error); ok {
				err = pkgerrors.WithStack(re)
			} else {
				err = pkgerrors.WithStack(fmt.Errorf("panic: %v", r))
			}
		}
	}()
	return resolve(ctx, parent, args)
}

func toQueryError(err error, path Path) *errors.QueryError {
	if qerr, ok := err.(*errors.QueryError); ok {
		cp := *qerr
		cp.Path = path.slice()
		return &cp
	}
	return &errors.QueryError{Message: err.Error(), Path: path.slice(), ResolverError: err, Err: err}
}

func (e *executor) isNonNull(spec ast.SpecID) bool {
	d, err := e.state.Resolve(spec)
	return err == nil && d.Kind == ast.NOT_NULL
}

// completeValue implements CompleteValue: coerce a resolver's raw result
// into the declared field type, recursing through list/non-null wrappers
// and, for composite types, back into ExecuteFields against the concrete
// runtime type.
func (e *executor) completeValue(typeSpec ast.SpecID, result interface{}, subSel []ast.Selection, path Path) (completion, *errors.QueryError) {
	desc, err := e.state.Resolve(typeSpec)
	if err != nil {
		return completion{}, err
	}

	if desc.Kind == ast.NOT_NULL {
		c, err := e.completeValue(desc.Of, result, subSel, path)
		if err != nil {
			return completion{}, err
		}
		if c.value == nil {
			if !c.violated {
				e.addError(&errors.QueryError{Message: "Cannot return null for non-nullable field.", Path: path.slice()})
			}
			return completion{violated: true}, nil
		}
		return c, nil
	}

	if result == nil {
		return completion{}, nil
	}

	switch desc.Kind {
	case ast.SCALAR:
		return completion{value: coerceScalar(desc.TypeName, result)}, nil
	case ast.ENUM:
		return completion{value: fmt.Sprint(result)}, nil
	case ast.LIST:
		return e.completeList(desc.Of, result, subSel, path)
	case ast.OBJECT, ast.INTERFACE, ast.UNION:
		concreteSpec, concreteDesc, err := e.resolveConcreteType(desc, result)
		if err != nil {
			return completion{}, err
		}
		grouped, err := collectFields(e.state, e.doc, concreteSpec, subSel, e.vars, map[string]bool{})
		if err != nil {
			return completion{}, err
		}
		return e.executeFields(concreteDesc, result, grouped, path, false)
	default:
		return completion{}, errors.Errorf("internal error: cannot complete value of kind %q", desc.Kind)
	}
}

func (e *executor) completeList(elemSpec ast.SpecID, result interface{}, subSel []ast.Selection, path Path) (completion, *errors.QueryError) {
	v := reflect.ValueOf(result)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return completion{}, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return completion{}, errors.Errorf("Resolved value for a list field was not a slice or array (got %T).", result)
	}

	n := v.Len()
	results := make([]completion, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			release := e.acquire()
			defer release()
			defer e.recoverInto(&results[i], path.index(i))
			elem := v.Index(i).Interface()
			c, err := e.completeValue(elemSpec, elem, subSel, path.index(i))
			if err != nil {
				cp := *err
				cp.Path = path.index(i).slice()
				e.addError(&cp)
				results[i] = completion{}
				return
			}
			results[i] = c
		}(i)
	}
	wg.Wait()

	violated := false
	out := make([]interface{}, n)
	for i, c := range results {
		if c.violated {
			violated = true
		}
		out[i] = c.value
	}
	if violated {
		return completion{violated: true}, nil
	}
	return completion{value: out}, nil
}

func coerceScalar(name string, v interface{}) interface{} {
	// A pointer-typed Go value (e.g. *string for a nullable field) is
	// coerced through what it points to; a nil pointer is null.
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.IsValid() {
		v = rv.Interface()
	}
	switch name {
	case "Int":
		switch n := v.(type) {
		case int:
			return int64(n)
		case int32:
			return int64(n)
		case int64:
			return n
		case float64:
			return int64(n)
		}
	case "Float":
		switch n := v.(type) {
		case float32:
			return float64(n)
		case float64:
			return n
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	case "Boolean":
		if b, ok := v.(bool); ok {
			return b
		}
	case "String", "ID":
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return v
}

// resolveConcreteType picks the object type to execute a resolver's result
// against, for a field declared as an interface or union. A resolved value
// implementing resolvers.Typed states its type name directly; otherwise
// this falls back to the Go type's own name (spec section 9, Open Question
// (i): no __resolveType hook is prescribed, so a best-effort default is
// provided and callers with ambiguous concrete types should implement
// Typed).
func (e *executor) resolveConcreteType(desc *registry.Descriptor, result interface{}) (ast.SpecID, *registry.Descriptor, *errors.QueryError) {
	if desc.Kind == ast.OBJECT {
		return e.state.TypeSpecs[desc.TypeName], desc, nil
	}

	selfSpec := e.state.TypeSpecs[desc.TypeName]
	name := concreteGoTypeName(result)
	if name == "" {
		return "", nil, errors.Errorf("internal error: cannot resolve concrete type for %q from an unnamed value", desc.TypeName)
	}
	spec, ok := e.state.TypeSpecs[name]
	if !ok {
		return "", nil, errors.Errorf("internal error: no object type named %q implementing %q", name, desc.TypeName)
	}
	concrete, err := e.state.Resolve(spec)
	if err != nil {
		return "", nil, err
	}
	if concrete.Kind != ast.OBJECT {
		return "", nil, errors.Errorf("internal error: resolved type %q for %q is not an object type", name, desc.TypeName)
	}

	switch desc.Kind {
	case ast.INTERFACE:
		if !containsSpec(concrete.Members, selfSpec) {
			return "", nil, errors.Errorf("internal error: type %q does not implement interface %q", name, desc.TypeName)
		}
	case ast.UNION:
		if !containsSpec(desc.Members, spec) {
			return "", nil, errors.Errorf("internal error: type %q is not a member of union %q", name, desc.TypeName)
		}
	}
	return spec, concrete, nil
}

func concreteGoTypeName(result interface{}) string {
	if t, ok := result.(resolvers.Typed); ok {
		return t.GraphQLType()
	}
	v := reflect.ValueOf(result)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return ""
	}
	return v.Type().Name()
}

// withVariableDefaults returns a variables map with each declared operation
// variable's default literal (e.g. `query($x: Int = 3) { ... }`) filled in
// for any variable the caller didn't supply a value for. An explicitly
// supplied value, including an explicit null, always wins over the default.
func withVariableDefaults(decls ast.InputValueList, provided map[string]interface{}) map[string]interface{} {
	if len(decls) == 0 {
		return provided
	}
	out := make(map[string]interface{}, len(decls)+len(provided))
	for k, v := range provided {
		out[k] = v
	}
	for _, decl := range decls {
		if _, present := out[decl.Name.Name]; present {
			continue
		}
		if decl.Default != nil {
			out[decl.Name.Name] = evalValue(decl.Default, nil)
		}
	}
	return out
}

// mergeArguments implements the argument merging rule of spec section 4.E:
// start from declared defaults, overlay literals present on the selection,
// and overlay a $variable reference only when the caller actually supplied
// that variable (its absence preserves the default; an explicit null
// overrides it).
func mergeArguments(fieldDef *ast.FieldDefinition, provided ast.ArgumentList, defaults map[ast.SpecID]ast.Value, variables map[string]interface{}) map[string]interface{} {
	if len(fieldDef.Args) == 0 {
		return nil
	}
	args := make(map[string]interface{}, len(fieldDef.Args))
	for _, decl := range fieldDef.Args {
		if def, ok := defaults[decl.Spec]; ok {
			args[decl.Name.Name] = evalValue(def, nil)
		}
	}
	for _, arg := range provided {
		if ref, ok := arg.Value.(*ast.Variable); ok {
			if v, present := variables[ref.Name]; present {
				args[arg.Name.Name] = v
			}
			continue
		}
		args[arg.Name.Name] = evalValue(arg.Value, variables)
	}
	return args
}

func evalValue(value ast.Value, variables map[string]interface{}) interface{} {
	switch v := value.(type) {
	case *ast.Variable:
		return variables[v.Name]
	case *ast.IntValue:
		n, _ := strconv.ParseInt(v.Text, 10, 64)
		return n
	case *ast.FloatValue:
		f, _ := strconv.ParseFloat(v.Text, 64)
		return f
	case *ast.StringValue:
		return v.Text
	case *ast.BooleanValue:
		return v.Value
	case *ast.NullValue:
		return nil
	case *ast.EnumValueLit:
		return v.Text
	case *ast.ListValue:
		out := make([]interface{}, len(v.Values))
		for i, elem := range v.Values {
			out[i] = evalValue(elem, variables)
		}
		return out
	case *ast.ObjectValue:
		out := make(map[string]interface{}, len(v.Fields))
		for _, f := range v.Fields {
			out[f.Name.Name] = evalValue(f.Value, variables)
		}
		return out
	default:
		return nil
	}
}

// OrderedMap preserves GraphQL's response-key ordering (source order of
// first appearance) through json.Marshal, which a plain map cannot do.
type OrderedMap struct {
	keys   []string
	values map[string]interface{}
}

func newOrderedMap(capacity int) *OrderedMap {
	return &OrderedMap{keys: make([]string, 0, capacity), values: make(map[string]interface{}, capacity)}
}

func (m *OrderedMap) Set(key string, value interface{}) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *OrderedMap) Get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
