package ast

import "github.com/coreql/enginecore/errors"

// OperationType distinguishes the three operation kinds a document may
// declare.
type OperationType string

const (
	Query        OperationType = "QUERY"
	Mutation     OperationType = "MUTATION"
	Subscription OperationType = "SUBSCRIPTION"
)

// ExecutableDocument is the parsed form of an operation document: zero or
// more operations plus the named fragments they may reference.
type ExecutableDocument struct {
	Operations []*OperationDefinition
	Fragments  []*FragmentDefinition
}

// OperationDefinition is a single `query`/`mutation`/`subscription` block.
type OperationDefinition struct {
	Type       OperationType
	Name       Ident
	Vars       InputValueList // variable definitions; reuses InputValueDefinition
	Directives DirectiveList
	Selections []Selection
	Loc        errors.Location

	// Spec is the operation-rooted spec identifier assigned to this
	// operation during validation; it seeds the scope-hash for every
	// variable and fragment spec derived from this operation.
	Spec SpecID
}

// FragmentDefinition is a `fragment Name on Type { ... }` declaration.
type FragmentDefinition struct {
	Name       Ident
	On         TypeName
	Directives DirectiveList
	Selections []Selection
	Loc        errors.Location
	Spec       SpecID
}

// Selection is implemented by the three selection-set members: Field,
// InlineFragment and FragmentSpread.
type Selection interface {
	isSelection()
}

// Field is a single field selection, e.g. `alias: name(arg: 1) { ... }`.
type Field struct {
	Alias           Ident
	Name            Ident
	Arguments       ArgumentList
	Directives      DirectiveList
	SelectionSet    []Selection
	SelectionSetLoc errors.Location

	// Spec identifies the field definition this selection was bound to by
	// the validator (empty until validation succeeds).
	Spec SpecID
}

func (*Field) isSelection() {}

// ResponseKey is the alias if present, else the field name; this is the key
// under which the field's value appears in the response map.
func (f *Field) ResponseKey() string {
	if f.Alias.Name != "" {
		return f.Alias.Name
	}
	return f.Name.Name
}

// InlineFragment is `... on Type { ... }` or a bare `... { ... }`.
type InlineFragment struct {
	On         TypeName
	Directives DirectiveList
	Selections []Selection
	Loc        errors.Location
}

func (*InlineFragment) isSelection() {}

// FragmentSpread is `...Name`.
type FragmentSpread struct {
	Name       Ident
	Directives DirectiveList
	Loc        errors.Location

	// Spec identifies the fragment definition this spread resolves to.
	Spec SpecID
}

func (*FragmentSpread) isSelection() {}

// Argument is a single `name: value` pair applied to a field or directive.
type Argument struct {
	Name  Ident
	Value Value
}

type ArgumentList []*Argument

func (l ArgumentList) Get(name string) (Value, bool) {
	for _, a := range l {
		if a.Name.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}
