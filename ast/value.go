package ast

import "github.com/coreql/enginecore/errors"

// Value is any of the literal/reference forms that can appear on the
// right-hand side of an argument, a default value, or inside a list/object
// literal: int, float, string, boolean, null, enum, list, object, or a
// variable reference.
type Value interface {
	Location() errors.Location
	String() string
}

// IntValue is an integer literal, e.g. `42`.
type IntValue struct {
	Text string
	Loc  errors.Location
}

func (v *IntValue) Location() errors.Location { return v.Loc }
func (v *IntValue) String() string             { return v.Text }

// FloatValue is a floating point literal, e.g. `4.2` or `4e2`.
type FloatValue struct {
	Text string
	Loc  errors.Location
}

func (v *FloatValue) Location() errors.Location { return v.Loc }
func (v *FloatValue) String() string             { return v.Text }

// StringValue is a quoted string literal. Text is already unquoted.
type StringValue struct {
	Text string
	Loc  errors.Location
}

func (v *StringValue) Location() errors.Location { return v.Loc }
func (v *StringValue) String() string             { return v.Text }

// BooleanValue is `true` or `false`.
type BooleanValue struct {
	Value bool
	Loc   errors.Location
}

func (v *BooleanValue) Location() errors.Location { return v.Loc }
func (v *BooleanValue) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}

// NullValue is the literal `null`.
type NullValue struct {
	Loc errors.Location
}

func (v *NullValue) Location() errors.Location { return v.Loc }
func (v *NullValue) String() string             { return "null" }

// EnumValueLit is a bare identifier used as an enum member reference, e.g.
// `NORTH` in `direction: NORTH`.
type EnumValueLit struct {
	Text string
	Loc  errors.Location
}

func (v *EnumValueLit) Location() errors.Location { return v.Loc }
func (v *EnumValueLit) String() string             { return v.Text }

// ListValue is `[ ... ]`.
type ListValue struct {
	Values []Value
	Loc    errors.Location
}

func (v *ListValue) Location() errors.Location { return v.Loc }
func (v *ListValue) String() string             { return "[...]" }

// ObjectField is one `name: value` pair inside an ObjectValue.
type ObjectField struct {
	Name  Ident
	Value Value
}

// ObjectValue is `{ field: value, ... }`.
type ObjectValue struct {
	Fields []*ObjectField
	Loc    errors.Location
}

func (v *ObjectValue) Location() errors.Location { return v.Loc }
func (v *ObjectValue) String() string             { return "{...}" }

func (v *ObjectValue) Get(name string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Name.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Variable is a `$name` reference used in place of a literal within an
// operation document (never valid inside a default value or schema
// literal).
type Variable struct {
	Name string
	Loc  errors.Location
}

func (v *Variable) Location() errors.Location { return v.Loc }
func (v *Variable) String() string             { return "$" + v.Name }
