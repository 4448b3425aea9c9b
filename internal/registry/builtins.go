package registry

import (
	"github.com/coreql/enginecore/ast"
)

// The five built-in scalars have fixed spec identifiers with no
// scope-hash segment (spec section 3), so every schema shares the same
// handles for Int/Float/String/Boolean/ID regardless of which schema
// built them.
const (
	SpecInt     ast.SpecID = "scalar.Int"
	SpecFloat   ast.SpecID = "scalar.Float"
	SpecString  ast.SpecID = "scalar.String"
	SpecBoolean ast.SpecID = "scalar.Boolean"
	SpecID_     ast.SpecID = "scalar.ID"

	// SpecIncludeIf / SpecSkipIf are the pre-registered argument specs for
	// the two built-in directives, filed under the dedicated arg.@<name>
	// namespace (spec section 4.B #4).
	SpecIncludeIf ast.SpecID = "arg.@include.if"
	SpecSkipIf    ast.SpecID = "arg.@skip.if"
)

func builtinScalars() map[string]*ast.Scalar {
	return map[string]*ast.Scalar{
		"Int":     {Name: "Int", Spec: SpecInt},
		"Float":   {Name: "Float", Spec: SpecFloat},
		"String":  {Name: "String", Spec: SpecString},
		"Boolean": {Name: "Boolean", Spec: SpecBoolean},
		"ID":      {Name: "ID", Spec: SpecID_},
	}
}

func builtinDirectives() map[string]*ast.DirectiveDefinition {
	boolType := &ast.Scalar{Name: "Boolean", Spec: SpecBoolean}
	return map[string]*ast.DirectiveDefinition{
		"include": {
			Name: "include",
			Locs: []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
			Args: ast.InputValueList{
				{Name: ast.Ident{Name: "if"}, Type: &ast.NonNull{OfType: boolType}, Spec: SpecIncludeIf},
			},
		},
		"skip": {
			Name: "skip",
			Locs: []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
			Args: ast.InputValueList{
				{Name: ast.Ident{Name: "if"}, Type: &ast.NonNull{OfType: boolType}, Spec: SpecSkipIf},
			},
		},
	}
}

// builtinDescriptors seeds a fresh spec-map with the direct descriptors for
// the five scalars and the two directive argument aliases, so the
// schema-pass builder never needs to special-case them.
func builtinDescriptors() map[ast.SpecID]*Descriptor {
	names := map[ast.SpecID]string{
		SpecInt:     "Int",
		SpecFloat:   "Float",
		SpecString:  "String",
		SpecBoolean: "Boolean",
		SpecID_:     "ID",
	}
	m := make(map[ast.SpecID]*Descriptor, len(names)+2)
	for id, name := range names {
		m[id] = &Descriptor{Kind: ast.SCALAR, TypeName: name}
	}
	m[SpecIncludeIf] = &Descriptor{Kind: ast.NOT_NULL, Of: SpecBoolean, Alias: true}
	m[SpecSkipIf] = &Descriptor{Kind: ast.NOT_NULL, Of: SpecBoolean, Alias: true}
	return m
}
