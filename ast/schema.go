package ast

import "github.com/coreql/enginecore/errors"

// Kind tags identify the shape of a type reference without requiring a type
// switch; they mirror the GraphQL introspection __TypeKind enumeration named
// in the specification (http://spec.graphql.org/draft/#sec-Schema-Introspection).
const (
	SCALAR       = "SCALAR"
	OBJECT       = "OBJECT"
	INTERFACE    = "INTERFACE"
	UNION        = "UNION"
	ENUM         = "ENUM"
	INPUT_OBJECT = "INPUT_OBJECT"
	LIST         = "LIST"
	NOT_NULL     = "NOT_NULL"
)

// SpecID is a stable, namespaced symbolic name for a type, field, argument
// or operation-scoped variable/fragment, unique within the schema or
// operation it was derived from. It is the only handle components pass
// between each other; nobody threads raw *ast nodes across a package
// boundary.
type SpecID string

// Type is satisfied by every node that occupies a type position: named
// types declared in the schema, and the two wrapping kinds (List, NonNull).
type Type interface {
	// Kind returns one of the constants above.
	Kind() string
	String() string
}

// NamedType is a Type with an identity in the schema's type map.
type NamedType interface {
	Type
	TypeName() string
	Description() string
	Location() errors.Location
}

// Ident is an identifier together with the source location it was read
// from. Comparisons between two Idents should compare Name only; Loc is
// metadata carried for diagnostics.
type Ident struct {
	Name string
	Loc  errors.Location
}

// List is the `[T]` wrapping type. A list may itself be wrapped in NonNull,
// and its element type may be anything, including another List.
type List struct {
	OfType Type
}

func (*List) Kind() string     { return LIST }
func (t *List) String() string { return "[" + t.OfType.String() + "]" }

// NonNull is the `T!` wrapping type.
type NonNull struct {
	OfType Type
}

func (*NonNull) Kind() string     { return NOT_NULL }
func (t *NonNull) String() string { return t.OfType.String() + "!" }

// TypeName is an unresolved reference to a named type, as it appears
// syntactically before the schema pass links it to its declaration.
type TypeName struct {
	Ident
}

func (TypeName) Kind() string     { return "" }
func (t TypeName) String() string { return t.Name }

// Scalar is one of the five built-in leaf types (Int, Float, String,
// Boolean, ID); this engine does not support custom scalar declarations
// beyond them (see Non-goals).
type Scalar struct {
	Name string
	Desc string
	Loc  errors.Location
	Spec SpecID
}

func (*Scalar) Kind() string                { return SCALAR }
func (t *Scalar) String() string            { return t.Name }
func (t *Scalar) TypeName() string          { return t.Name }
func (t *Scalar) Description() string       { return t.Desc }
func (t *Scalar) Location() errors.Location { return t.Loc }

// FieldDefinition is a single field declared on an object or interface type.
type FieldDefinition struct {
	Name       Ident
	Args       InputValueList
	Type       Type
	Directives DirectiveList
	Desc       string
	Spec       SpecID
}

type FieldDefinitionList []*FieldDefinition

func (l FieldDefinitionList) Get(name string) *FieldDefinition {
	for _, f := range l {
		if f.Name.Name == name {
			return f
		}
	}
	return nil
}

func (l FieldDefinitionList) Names() []string {
	names := make([]string, len(l))
	for i, f := range l {
		names[i] = f.Name.Name
	}
	return names
}

// ObjectTypeDefinition is a `type Foo { ... }` declaration, optionally
// implementing one or more interfaces.
type ObjectTypeDefinition struct {
	Name       string
	Interfaces []*InterfaceTypeDefinition
	Fields     FieldDefinitionList
	Desc       string
	Loc        errors.Location
	Spec       SpecID

	InterfaceNames []string // populated during parsing, resolved after
}

func (*ObjectTypeDefinition) Kind() string                { return OBJECT }
func (t *ObjectTypeDefinition) String() string            { return t.Name }
func (t *ObjectTypeDefinition) TypeName() string          { return t.Name }
func (t *ObjectTypeDefinition) Description() string       { return t.Desc }
func (t *ObjectTypeDefinition) Location() errors.Location { return t.Loc }

// Implements reports whether name is among the object's declared interfaces.
func (t *ObjectTypeDefinition) Implements(name string) bool {
	for _, i := range t.Interfaces {
		if i.Name == name {
			return true
		}
	}
	return false
}

// InterfaceTypeDefinition is an `interface Foo { ... }` declaration.
type InterfaceTypeDefinition struct {
	Name          string
	PossibleTypes []*ObjectTypeDefinition
	Fields        FieldDefinitionList
	Desc          string
	Loc           errors.Location
	Spec          SpecID
}

func (*InterfaceTypeDefinition) Kind() string                { return INTERFACE }
func (t *InterfaceTypeDefinition) String() string            { return t.Name }
func (t *InterfaceTypeDefinition) TypeName() string          { return t.Name }
func (t *InterfaceTypeDefinition) Description() string       { return t.Desc }
func (t *InterfaceTypeDefinition) Location() errors.Location { return t.Loc }

// Union is a `union Foo = A | B` declaration.
type Union struct {
	Name          string
	PossibleTypes []*ObjectTypeDefinition
	Desc          string
	Loc           errors.Location
	Spec          SpecID

	TypeNames []string
}

func (*Union) Kind() string                { return UNION }
func (t *Union) String() string            { return t.Name }
func (t *Union) TypeName() string          { return t.Name }
func (t *Union) Description() string       { return t.Desc }
func (t *Union) Location() errors.Location { return t.Loc }

// EnumValue is one member of an enum declaration.
type EnumValue struct {
	Name       Ident
	Directives DirectiveList
	Desc       string
}

// EnumTypeDefinition is an `enum Foo { A B C }` declaration.
type EnumTypeDefinition struct {
	Name   string
	Values []*EnumValue
	Desc   string
	Loc    errors.Location
	Spec   SpecID
}

func (*EnumTypeDefinition) Kind() string                { return ENUM }
func (t *EnumTypeDefinition) String() string            { return t.Name }
func (t *EnumTypeDefinition) TypeName() string          { return t.Name }
func (t *EnumTypeDefinition) Description() string       { return t.Desc }
func (t *EnumTypeDefinition) Location() errors.Location { return t.Loc }

func (t *EnumTypeDefinition) HasValue(name string) bool {
	for _, v := range t.Values {
		if v.Name.Name == name {
			return true
		}
	}
	return false
}

// InputObjectTypeDefinition is an `input Foo { ... }` declaration.
type InputObjectTypeDefinition struct {
	Name   string
	Desc   string
	Values InputValueList
	Loc    errors.Location
	Spec   SpecID
}

func (*InputObjectTypeDefinition) Kind() string                { return INPUT_OBJECT }
func (t *InputObjectTypeDefinition) String() string            { return t.Name }
func (t *InputObjectTypeDefinition) TypeName() string          { return t.Name }
func (t *InputObjectTypeDefinition) Description() string       { return t.Desc }
func (t *InputObjectTypeDefinition) Location() errors.Location { return t.Loc }

// InputValueDefinition declares an argument or an input-object field: a
// name, a type, and an optional default literal.
type InputValueDefinition struct {
	Name       Ident
	Type       Type
	Default    Value
	Desc       string
	Directives DirectiveList
	Loc        errors.Location
	TypeLoc    errors.Location
	Spec       SpecID
}

type InputValueList []*InputValueDefinition

func (l InputValueList) Get(name string) *InputValueDefinition {
	for _, v := range l {
		if v.Name.Name == name {
			return v
		}
	}
	return nil
}

func (l InputValueList) Names() []string {
	names := make([]string, len(l))
	for i, v := range l {
		names[i] = v.Name.Name
	}
	return names
}

// DirectiveDefinition is a `directive @foo(...) on FIELD` declaration. The
// built-in @include/@skip directives are pre-registered (see
// internal/registry.builtinDirectives) and cannot be redeclared.
type DirectiveDefinition struct {
	Name string
	Desc string
	Loc  errors.Location
	Locs []string
	Args InputValueList
}

// Directive is a directive application, e.g. `@skip(if: $cond)`.
type Directive struct {
	Name      Ident
	Arguments ArgumentList
}

type DirectiveList []*Directive

func (l DirectiveList) Get(name string) *Directive {
	for _, d := range l {
		if d.Name.Name == name {
			return d
		}
	}
	return nil
}

// Schema is the resolved type-system AST the registry builder walks. It is
// not itself the spec-map; internal/registry derives that from it.
type Schema struct {
	SchemaDefinition

	Types      map[string]NamedType
	Directives map[string]*DirectiveDefinition

	Objects []*ObjectTypeDefinition
	Unions  []*Union
	Enums   []*EnumTypeDefinition

	SchemaString string
}

func (s *Schema) Resolve(name string) Type {
	return s.Types[name]
}

// SchemaDefinition corresponds to an optional `schema { query: ... }` block.
type SchemaDefinition struct {
	Present            bool
	RootOperationTypes map[string]NamedType
	EntryPointNames    map[string]string
	Desc               string
	Directives         DirectiveList
	Loc                errors.Location
}
