// Package validation implements component C of the engine: a set of
// independently named rules, each checking one static property of an
// operation document against a schema's spec-map, run as a single pass
// over the document and accumulated into one error list rather than
// failing on the first violation. See spec section 4.C.
package validation

import (
	"fmt"

	"github.com/coreql/enginecore/ast"
	"github.com/coreql/enginecore/errors"
	"github.com/coreql/enginecore/internal/common"
	"github.com/coreql/enginecore/internal/registry"
)

// Validate runs every rule against doc and returns the full set of
// violations found, in the order encountered. A nil/empty result means
// doc is safe to execute against state. On success every Field.Spec and
// FragmentSpread.Spec in doc has been populated, and each operation's
// Spec has been assigned, so the executor never needs to re-resolve a
// name against the schema.
func Validate(state *registry.SchemaState, doc *ast.ExecutableDocument) []*errors.QueryError {
	v := &validator{
		state:     state,
		doc:       doc,
		opHash:    registry.HashOperation(renderedSource(doc)),
		fragments: make(map[string]*ast.FragmentDefinition, len(doc.Fragments)),
		used:      make(map[string]bool, len(doc.Fragments)),
	}
	for _, f := range doc.Fragments {
		if prev, ok := v.fragments[f.Name.Name]; ok {
			v.addf(f.Loc, "There can be only one fragment named %q.", f.Name.Name)
			_ = prev
			continue
		}
		v.fragments[f.Name.Name] = f
	}

	if len(doc.Operations) == 0 {
		v.addf(errors.Location{}, "A document must contain at least one operation.")
	}
	v.checkAnonymousOperationIsAlone()

	for i, op := range doc.Operations {
		op.Spec = registry.OperationSpec(v.opHash, i, op.Name.Name)
		v.validateOperation(op)
	}

	for _, f := range doc.Fragments {
		if !v.used[f.Name.Name] {
			v.addRuleF("NoUnusedFragments", f.Loc, "Fragment %q is never used.", f.Name.Name)
		}
	}

	return v.errs
}

func renderedSource(doc *ast.ExecutableDocument) string {
	// The operation-rooted scope-hash only needs to be stable across the
	// lifetime of one Validate call (variable/fragment specs never escape
	// it), so hashing the document's identity pointer-independent shape is
	// unnecessary; the operation count and names are enough entropy to
	// keep specs from colliding across concurrently validated documents
	// sharing this process.
	s := itoa(len(doc.Operations)) + "/" + itoa(len(doc.Fragments))
	for _, op := range doc.Operations {
		s += "|" + string(op.Type) + ":" + op.Name.Name
	}
	for _, f := range doc.Fragments {
		s += "|frag:" + f.Name.Name
	}
	return s
}

func itoa(n int) string { return fmt.Sprintf("%d", n) }

type validator struct {
	state     *registry.SchemaState
	doc       *ast.ExecutableDocument
	opHash    uint64
	fragments map[string]*ast.FragmentDefinition
	used      map[string]bool
	errs      []*errors.QueryError
}

func (v *validator) addf(loc errors.Location, format string, args ...interface{}) {
	v.addRuleF("", loc, format, args...)
}

// addRuleF records a violation tagged with one of the rule identifiers
// exposed in the public API (spec section 6), so a caller running a
// selective subset of rules can filter the result by err.Rule.
func (v *validator) addRuleF(rule string, loc errors.Location, format string, args ...interface{}) {
	err := errors.Errorf(format, args...)
	err.Rule = rule
	if loc != (errors.Location{}) {
		err.Locations = []errors.Location{loc}
	}
	v.errs = append(v.errs, err)
}

func (v *validator) checkAnonymousOperationIsAlone() {
	if len(v.doc.Operations) <= 1 {
		return
	}
	for _, op := range v.doc.Operations {
		if op.Name.Name == "" {
			v.addf(op.Loc, "This anonymous operation must be the only defined operation.")
		}
	}
}

func (v *validator) validateOperation(op *ast.OperationDefinition) {
	rootSpec, ok := v.state.RootSpecs[op.Type]
	if !ok {
		v.addf(op.Loc, "The schema does not support %s operations.", toLower(string(op.Type)))
		return
	}

	vars := make(map[string]*ast.InputValueDefinition, len(op.Vars))
	for _, def := range op.Vars {
		if prev, exists := vars[def.Name.Name]; exists {
			v.addf(def.Loc, "There can be only one variable named %q.", def.Name.Name)
			_ = prev
			continue
		}
		// Variable type references come straight from the query parser,
		// which has no schema to resolve TypeName leaves against; do that
		// now, the same way schema fields resolve theirs during Build.
		resolved, err := common.ResolveType(def.Type, v.state.Schema.Resolve)
		if err != nil {
			v.errs = append(v.errs, err)
			continue
		}
		def.Type = resolved
		def.Spec = registry.VarSpec(v.opHash, op.Name.Name, def.Name.Name)
		vars[def.Name.Name] = def
		v.checkVariableIsInputType(def)
	}

	used := make(map[string]bool)
	v.validateDirectives(op.Directives, directiveLocationFor(op.Type), vars, used)
	v.validateSelectionSet(op.Selections, rootSpec, vars, used, map[string]bool{})

	for name, def := range vars {
		if !used[name] {
			v.addf(def.Loc, "Variable %q is never used in operation %q.", name, op.Name.Name)
		}
	}
}

func directiveLocationFor(opType ast.OperationType) string {
	switch opType {
	case ast.Mutation:
		return "MUTATION"
	case ast.Subscription:
		return "SUBSCRIPTION"
	default:
		return "QUERY"
	}
}

func (v *validator) checkVariableIsInputType(def *ast.InputValueDefinition) {
	named, _, _ := unwrapVarType(def.Type)
	if named == nil {
		return
	}
	switch named.Kind() {
	case ast.SCALAR, ast.ENUM, ast.INPUT_OBJECT:
		return
	default:
		v.addRuleF("VariablesAreInputTypes", def.Loc, "Variable %q cannot be of non-input type %q.", def.Name.Name, named.TypeName())
	}
}

func unwrapVarType(t ast.Type) (named ast.NamedType, listDepth int, nonNull bool) {
	cur := t
	for {
		switch x := cur.(type) {
		case *ast.NonNull:
			nonNull = true
			cur = x.OfType
		case *ast.List:
			listDepth++
			cur = x.OfType
		default:
			named, _ = cur.(ast.NamedType)
			return
		}
	}
}

// validateSelectionSet walks one selection set under parentSpec (the spec
// id of the type the selections are made against), expanding fragment
// spreads inline. visitedFragments guards against spread cycles: a cycle
// is reported once and not re-descended into.
func (v *validator) validateSelectionSet(sels []ast.Selection, parentSpec ast.SpecID, vars map[string]*ast.InputValueDefinition, usedVars map[string]bool, visitedFragments map[string]bool) {
	parent, err := v.state.Resolve(parentSpec)
	if err != nil {
		v.errs = append(v.errs, err)
		return
	}

	for _, sel := range sels {
		switch s := sel.(type) {
		case *ast.Field:
			v.validateField(s, parent, vars, usedVars, visitedFragments)
		case *ast.InlineFragment:
			v.validateTypeCondition(s.On, parent, s.Loc)
			v.validateDirectives(s.Directives, "INLINE_FRAGMENT", vars, usedVars)
			onSpec := parentSpec
			if s.On.Name != "" {
				if d, ok := v.lookupType(s.On.Name); ok {
					onSpec = d
				}
			}
			v.validateSelectionSet(s.Selections, onSpec, vars, usedVars, visitedFragments)
		case *ast.FragmentSpread:
			v.validateDirectives(s.Directives, "FRAGMENT_SPREAD", vars, usedVars)
			frag, ok := v.fragments[s.Name.Name]
			if !ok {
				v.addRuleF("KnownFragmentNames", s.Loc, "Unknown fragment %q.", s.Name.Name)
				continue
			}
			if visitedFragments[s.Name.Name] {
				v.addf(s.Loc, "Fragment %q forms a cycle.", s.Name.Name)
				continue
			}
			v.used[s.Name.Name] = true
			v.validateTypeCondition(frag.On, parent, frag.Loc)
			fragSpec, ok := v.lookupType(frag.On.Name)
			if !ok {
				continue
			}
			next := make(map[string]bool, len(visitedFragments)+1)
			for k := range visitedFragments {
				next[k] = true
			}
			next[s.Name.Name] = true
			v.validateSelectionSet(frag.Selections, fragSpec, vars, usedVars, next)
		}
	}
}

func (v *validator) lookupType(name string) (ast.SpecID, bool) {
	id, ok := v.state.TypeSpecs[name]
	return id, ok
}

func (v *validator) validateTypeCondition(on ast.TypeName, parent *registry.Descriptor, loc errors.Location) {
	if on.Name == "" {
		return
	}
	t, ok := v.state.Schema.Types[on.Name]
	if !ok {
		v.addf(loc, "Unknown type %q.", on.Name)
		return
	}
	switch t.Kind() {
	case ast.OBJECT, ast.INTERFACE, ast.UNION:
	default:
		v.addRuleF("FragmentsOnCompositeTypes", loc, "Fragment cannot condition on non composite type %q.", on.Name)
	}
}

func (v *validator) validateField(f *ast.Field, parent *registry.Descriptor, vars map[string]*ast.InputValueDefinition, usedVars map[string]bool, visitedFragments map[string]bool) {
	v.validateDirectives(f.Directives, "FIELD", vars, usedVars)

	if f.Name.Name == "__typename" {
		f.Spec = ""
		if len(f.SelectionSet) > 0 {
			v.addRuleF("ScalarLeafs", f.SelectionSetLoc, "Field %q must not have a selection set.", f.Name.Name)
		}
		return
	}

	fieldSpec, ok := parent.Fields[f.Name.Name]
	if !ok {
		v.addRuleF("FieldsOnCorrectType", f.Name.Loc, "Cannot query field '%s' on type '%s'.", f.Name.Name, parent.TypeName)
		return
	}
	f.Spec = fieldSpec
	fieldDesc, err := v.state.Resolve(fieldSpec)
	if err != nil {
		v.errs = append(v.errs, err)
		return
	}

	v.validateArguments(f, fieldSpec, vars, usedVars)

	leafKind, listDepth, leaf := unwrapDescriptor(v.state, fieldDesc)
	_ = listDepth
	hasSelection := len(f.SelectionSet) > 0
	switch leafKind {
	case ast.SCALAR, ast.ENUM:
		if hasSelection {
			v.addRuleF("ScalarLeafs", f.SelectionSetLoc, "Field %q must not have a selection set.", f.Name.Name)
		}
	case ast.OBJECT, ast.INTERFACE, ast.UNION:
		if !hasSelection {
			v.addRuleF("NoSubselectionAllowed", f.Name.Loc, "Field %q of type %q must have a selection set.", f.Name.Name, leaf.TypeName)
			return
		}
		v.validateSelectionSet(f.SelectionSet, leaf.specID(), vars, usedVars, visitedFragments)
	}
}

// descriptorRef pairs a Descriptor with the spec id it was resolved from,
// since Descriptor itself does not carry its own id.
type descriptorRef struct {
	*registry.Descriptor
	id ast.SpecID
}

func (d descriptorRef) specID() ast.SpecID { return d.id }

func unwrapDescriptor(state *registry.SchemaState, d *registry.Descriptor) (kind string, listDepth int, leaf descriptorRef) {
	cur := d
	for cur.Kind == ast.LIST || cur.Kind == ast.NOT_NULL {
		if cur.Kind == ast.LIST {
			listDepth++
		}
		next, err := state.Resolve(cur.Of)
		if err != nil {
			// A dangling Of here means Build produced an inconsistent
			// spec-map; there is no well-formed field type to report, so
			// the caller's switch simply finds no matching case.
			return "", listDepth, descriptorRef{}
		}
		cur = next
	}
	id := state.TypeSpecs[cur.TypeName]
	return cur.Kind, listDepth, descriptorRef{Descriptor: cur, id: id}
}

func (v *validator) validateArguments(f *ast.Field, fieldSpec ast.SpecID, vars map[string]*ast.InputValueDefinition, usedVars map[string]bool) {
	fieldDef := v.state.FieldDefs[f.Spec]
	if fieldDef == nil {
		return
	}
	seen := make(map[string]bool, len(f.Arguments))
	for _, arg := range f.Arguments {
		if seen[arg.Name.Name] {
			v.addf(arg.Name.Loc, "There can be only one argument named %q.", arg.Name.Name)
			continue
		}
		seen[arg.Name.Name] = true
		decl := fieldDef.Args.Get(arg.Name.Name)
		if decl == nil {
			v.addRuleF("KnownArgumentNames", arg.Name.Loc, "Unknown argument %q on field %q.", arg.Name.Name, f.Name.Name)
			continue
		}
		v.validateValue(arg.Value, decl.Type, vars, usedVars)
	}
	for _, decl := range fieldDef.Args {
		if _, ok := decl.Type.(*ast.NonNull); !ok {
			continue
		}
		if decl.Default != nil {
			continue
		}
		if _, ok := f.Arguments.Get(decl.Name.Name); !ok {
			v.addRuleF("ProvidedRequiredArguments", f.Name.Loc, "Field %q argument %q of type %q is required, but it was not provided.", f.Name.Name, decl.Name.Name, decl.Type.String())
		}
	}
}

// validateValue checks a literal or variable reference against an
// expected schema type: ArgumentsOfCorrectType when value is a literal,
// VariablesInAllowedPosition when it is a $variable reference.
func (v *validator) validateValue(value ast.Value, expected ast.Type, vars map[string]*ast.InputValueDefinition, usedVars map[string]bool) {
	if varRef, ok := value.(*ast.Variable); ok {
		usedVars[varRef.Name] = true
		def, ok := vars[varRef.Name]
		if !ok {
			v.addf(varRef.Loc, "Variable %q is not defined.", varRef.Name)
			return
		}
		if !typeIsCompatible(def.Type, expected, def.Default != nil) {
			v.addf(varRef.Loc, "Variable %q of type %q used in position expecting type %q.", varRef.Name, def.Type.String(), expected.String())
		}
		return
	}

	if _, ok := value.(*ast.NullValue); ok {
		if _, nonNull := expected.(*ast.NonNull); nonNull {
			v.addf(value.Location(), "Expected value of type %q, found null.", expected.String())
		}
		return
	}

	if nn, ok := expected.(*ast.NonNull); ok {
		v.validateValue(value, nn.OfType, vars, usedVars)
		return
	}

	switch expected := expected.(type) {
	case *ast.List:
		if list, ok := value.(*ast.ListValue); ok {
			for _, elem := range list.Values {
				v.validateValue(elem, expected.OfType, vars, usedVars)
			}
			return
		}
		v.validateValue(value, expected.OfType, vars, usedVars)

	case *ast.Scalar:
		v.validateScalarLiteral(value, expected.Name)

	case *ast.EnumTypeDefinition:
		lit, ok := value.(*ast.EnumValueLit)
		if !ok {
			v.addf(value.Location(), "Expected enum value for type %q.", expected.Name)
			return
		}
		if !expected.HasValue(lit.Text) {
			v.addf(value.Location(), "Value %q does not exist in enum %q.", lit.Text, expected.Name)
		}

	case *ast.InputObjectTypeDefinition:
		obj, ok := value.(*ast.ObjectValue)
		if !ok {
			v.addf(value.Location(), "Expected input object value for type %q.", expected.Name)
			return
		}
		seen := make(map[string]bool, len(obj.Fields))
		for _, f := range obj.Fields {
			decl := expected.Values.Get(f.Name.Name)
			if decl == nil {
				v.addf(f.Name.Loc, "Unknown field %q on input type %q.", f.Name.Name, expected.Name)
				continue
			}
			seen[f.Name.Name] = true
			v.validateValue(f.Value, decl.Type, vars, usedVars)
		}
		for _, decl := range expected.Values {
			if _, ok := decl.Type.(*ast.NonNull); !ok || decl.Default != nil {
				continue
			}
			if !seen[decl.Name.Name] {
				v.addRuleF("ArgumentsOfCorrectType", value.Location(), "Input field %q of type %q is required, but it was not provided.", decl.Name.Name, expected.Name)
			}
		}
	}
}

func (v *validator) validateScalarLiteral(value ast.Value, scalarName string) {
	switch scalarName {
	case "Int":
		if _, ok := value.(*ast.IntValue); !ok {
			v.addf(value.Location(), "Expected type %q, found %s.", "Int", value.String())
		}
	case "Float":
		switch value.(type) {
		case *ast.FloatValue, *ast.IntValue:
		default:
			v.addf(value.Location(), "Expected type %q, found %s.", "Float", value.String())
		}
	case "String", "ID":
		switch value.(type) {
		case *ast.StringValue:
		case *ast.IntValue:
			if scalarName == "String" {
				v.addf(value.Location(), "Expected type %q, found %s.", scalarName, value.String())
			}
		default:
			v.addf(value.Location(), "Expected type %q, found %s.", scalarName, value.String())
		}
	case "Boolean":
		if _, ok := value.(*ast.BooleanValue); !ok {
			v.addf(value.Location(), "Expected type %q, found %s.", "Boolean", value.String())
		}
	}
}

// typeIsCompatible implements VariablesInAllowedPosition: a variable of
// declared type varType may be used where expected is wanted if varType is
// at least as strict (a nullable variable is fine for a non-null position
// only when a default value covers the null case).
func typeIsCompatible(varType, expected ast.Type, hasDefault bool) bool {
	if nn, ok := expected.(*ast.NonNull); ok {
		if varNN, ok := varType.(*ast.NonNull); ok {
			return typeIsCompatible(varNN.OfType, nn.OfType, false)
		}
		return hasDefault && typeIsCompatible(varType, nn.OfType, false)
	}
	if varNN, ok := varType.(*ast.NonNull); ok {
		return typeIsCompatible(varNN.OfType, expected, hasDefault)
	}
	if expList, ok := expected.(*ast.List); ok {
		varList, ok := varType.(*ast.List)
		if !ok {
			return false
		}
		return typeIsCompatible(varList.OfType, expList.OfType, false)
	}
	if _, ok := varType.(*ast.List); ok {
		return false
	}
	varNamed, _ := varType.(ast.NamedType)
	expNamed, _ := expected.(ast.NamedType)
	if varNamed == nil || expNamed == nil {
		return false
	}
	return varNamed.TypeName() == expNamed.TypeName()
}

func (v *validator) validateDirectives(directives ast.DirectiveList, location string, vars map[string]*ast.InputValueDefinition, usedVars map[string]bool) {
	for _, d := range directives {
		def, ok := v.state.Schema.Directives[d.Name.Name]
		if !ok {
			v.addRuleF("KnownDirectives", d.Name.Loc, "Unknown directive %q.", d.Name.Name)
			continue
		}
		if !locContains(def.Locs, location) {
			v.addRuleF("KnownDirectives", d.Name.Loc, "Directive %q may not be used on %s.", d.Name.Name, toLower(location))
		}
		seen := make(map[string]bool, len(d.Arguments))
		for _, arg := range d.Arguments {
			if seen[arg.Name.Name] {
				v.addf(arg.Name.Loc, "There can be only one argument named %q.", arg.Name.Name)
				continue
			}
			seen[arg.Name.Name] = true
			decl := def.Args.Get(arg.Name.Name)
			if decl == nil {
				v.addRuleF("KnownDirectives", arg.Name.Loc, "Unknown argument %q on directive %q.", arg.Name.Name, d.Name.Name)
				continue
			}
			v.validateValue(arg.Value, decl.Type, vars, usedVars)
		}
		for _, decl := range def.Args {
			if _, ok := decl.Type.(*ast.NonNull); !ok || decl.Default != nil {
				continue
			}
			if _, ok := d.Arguments.Get(decl.Name.Name); !ok {
				v.addRuleF("KnownDirectives", d.Name.Loc, "Directive %q argument %q of type %q is required, but it was not provided.", d.Name.Name, decl.Name.Name, decl.Type.String())
			}
		}
	}
}

func locContains(locs []string, loc string) bool {
	for _, l := range locs {
		if l == loc {
			return true
		}
	}
	return false
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
