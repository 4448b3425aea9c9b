// Package registry implements component B of the engine: it walks a parsed
// schema AST and derives the type-shape registry (the "spec-map") that the
// validator and executor resolve every type/field/argument reference
// through. See spec section 4.B.
package registry

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/coreql/enginecore/ast"
	"github.com/coreql/enginecore/errors"
)

// Descriptor is one entry of the spec-map. A direct descriptor carries the
// type's own shape (Fields/Of/Members/Values, depending on Kind); an alias
// descriptor (Alias == true) instead points at another spec via Of and must
// be dereferenced through Resolve before its Kind/Fields can be trusted.
type Descriptor struct {
	Kind     string // ast.SCALAR | OBJECT | INTERFACE | UNION | ENUM | INPUT_OBJECT | LIST | NOT_NULL
	TypeName string // populated for named (schema-declared) types

	Fields     map[string]ast.SpecID // field/arg name -> spec id, for OBJECT/INTERFACE/INPUT_OBJECT
	FieldOrder []string

	Of      ast.SpecID   // element type for LIST/NOT_NULL, or the aliased spec for a plain reference
	Members []ast.SpecID // UNION members, or the declared interfaces for an OBJECT, or an INTERFACE's implementing OBJECTs
	Values  []string     // ENUM member names

	Alias bool // true if this entry must be dereferenced via Of to reach a direct descriptor
}

// SchemaState is the immutable, shareable output of the schema pass: the
// spec-map plus enough of the resolved AST for the validator and executor
// to look field declarations, argument defaults and root types up by name.
type SchemaState struct {
	Schema      *ast.Schema
	SpecMap     map[ast.SpecID]*Descriptor
	SchemaHash  uint64
	RootSpecs   map[ast.OperationType]ast.SpecID
	ArgDefaults map[ast.SpecID]ast.Value

	// TypeSpecs maps a declared type's name to its canonical direct spec
	// id, so a name lookup does not have to scan SpecMap (whose field and
	// argument alias entries also carry a TypeName).
	TypeSpecs map[string]ast.SpecID

	// FieldDefs maps a field's own spec id (the alias descriptor built for
	// it in buildFields) back to its declaration, so the validator and
	// executor can read its argument list and defaults without re-walking
	// the schema AST by name.
	FieldDefs map[ast.SpecID]*ast.FieldDefinition
}

// Resolve dereferences alias descriptors until it reaches a direct one.
// Invariant (iii) of spec section 3 guarantees this terminates; Resolve
// still bounds its walk defensively so a bug elsewhere surfaces as an
// InternalError instead of a hang.
func (s *SchemaState) Resolve(id ast.SpecID) (*Descriptor, *errors.QueryError) {
	seen := make(map[ast.SpecID]bool)
	for {
		d, ok := s.SpecMap[id]
		if !ok {
			return nil, errors.Errorf("internal error: unresolved spec %q", id)
		}
		if !d.Alias {
			return d, nil
		}
		if seen[id] {
			return nil, errors.Errorf("internal error: cyclic alias at spec %q", id)
		}
		seen[id] = true
		id = d.Of
	}
}

// specHash renders a uint64 digest in base36, short and stable, to seed a
// scope-hash segment of a spec identifier.
func specHash(h uint64) string {
	return strconv.FormatUint(h, 36)
}

// HashSchema computes the schema-rooted scope-hash: a stable digest of the
// raw SDL text. Two schemas with byte-identical source get identical
// spec-map identifiers, which is what lets the same query validate
// against independently-built-but-equal schema states.
func HashSchema(source string) uint64 {
	return xxhash.Sum64String(source)
}

// HashOperation computes the operation-rooted scope-hash used for variable
// and fragment specs, which live only for the lifetime of one operation
// (spec section 3, "Operation overlay").
func HashOperation(source string) uint64 {
	return xxhash.Sum64String(source)
}

func typeSpec(schemaHash uint64, name string) ast.SpecID {
	return ast.SpecID("type." + specHash(schemaHash) + "." + name)
}

func fieldSpec(schemaHash uint64, typeName, fieldName string) ast.SpecID {
	return ast.SpecID("type." + specHash(schemaHash) + "." + typeName + "." + fieldName)
}

func argSpec(schemaHash uint64, typeName, fieldName, argName string) ast.SpecID {
	return ast.SpecID("arg." + specHash(schemaHash) + "." + typeName + "." + fieldName + "." + argName)
}

func inputFieldSpec(schemaHash uint64, typeName, fieldName string) ast.SpecID {
	return ast.SpecID("arg." + specHash(schemaHash) + "." + typeName + "." + fieldName)
}

func listSpec(of ast.SpecID) ast.SpecID {
	return ast.SpecID(string(of) + "[]")
}

func nonNullSpec(of ast.SpecID) ast.SpecID {
	return ast.SpecID(string(of) + "!")
}

// VarSpec builds the operation-rooted spec identifier for a variable
// definition, scoped to one operation.
func VarSpec(opHash uint64, opName, varName string) ast.SpecID {
	return ast.SpecID("var." + specHash(opHash) + "." + opName + "." + varName)
}

// FragmentSpec builds the operation-rooted spec identifier for a named
// fragment definition.
func FragmentSpec(opHash uint64, name string) ast.SpecID {
	return ast.SpecID("fragment." + specHash(opHash) + "." + name)
}

// OperationSpec builds the operation-rooted spec identifier for one
// operation definition within a document (index disambiguates anonymous
// or repeated operation names).
func OperationSpec(opHash uint64, index int, name string) ast.SpecID {
	return ast.SpecID("op." + specHash(opHash) + "." + strconv.Itoa(index) + "." + name)
}
