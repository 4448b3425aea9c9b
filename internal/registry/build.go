package registry

import (
	"github.com/coreql/enginecore/ast"
	"github.com/coreql/enginecore/errors"
)

// Build derives a SchemaState's spec-map from a schema already parsed and
// linked by ParseSchema. It proceeds in two passes so that fields can
// reference recursive and forward-declared types without a fixup pass:
// pass one assigns every named type a stable Spec id and a placeholder
// direct descriptor; pass two fills in Fields/Members/Values, at which
// point every type it might reference already has its Spec id and
// descriptor shell in place (invariant (iv) of the spec-map: cycles among
// object/interface fields never block construction).
func Build(schema *ast.Schema) (*SchemaState, *errors.QueryError) {
	hash := HashSchema(schema.SchemaString)
	b := &builder{
		schema:    schema,
		hash:      hash,
		specMap:   builtinDescriptors(),
		wrapped:   make(map[ast.SpecID]bool),
		argDefs:   make(map[ast.SpecID]ast.Value),
		typeSpecs: make(map[string]ast.SpecID, len(schema.Types)),
		fieldDefs: make(map[ast.SpecID]*ast.FieldDefinition),
	}

	for name, t := range schema.Types {
		if _, isScalar := t.(*ast.Scalar); isScalar {
			b.typeSpecs[name] = getSpec(t) // already seeded by builtinDescriptors
			continue
		}
		b.declare(t)
		b.typeSpecs[name] = getSpec(t)
	}

	for _, t := range schema.Types {
		if _, isScalar := t.(*ast.Scalar); isScalar {
			continue
		}
		if err := b.link(t); err != nil {
			return nil, err
		}
	}

	for _, d := range schema.Directives {
		if len(d.Args) == 0 || d.Args[0].Spec != "" {
			continue // built-in @include/@skip arrive pre-seeded by builtinDescriptors
		}
		if _, _, err := b.buildInputFields("@"+d.Name, d.Args); err != nil {
			return nil, err
		}
	}

	roots := make(map[ast.OperationType]ast.SpecID)
	for opName, t := range schema.SchemaDefinition.RootOperationTypes {
		spec, err := b.specOfNamed(t)
		if err != nil {
			return nil, err
		}
		roots[ast.OperationType(opNameToType(opName))] = spec
	}
	if _, ok := roots[ast.Query]; !ok {
		return nil, errors.Errorf("schema declares no Query root operation type")
	}

	return &SchemaState{
		Schema:      schema,
		SpecMap:     b.specMap,
		SchemaHash:  hash,
		RootSpecs:   roots,
		ArgDefaults: b.argDefs,
		TypeSpecs:   b.typeSpecs,
		FieldDefs:   b.fieldDefs,
	}, nil
}

func opNameToType(name string) string {
	switch name {
	case "query":
		return string(ast.Query)
	case "mutation":
		return string(ast.Mutation)
	case "subscription":
		return string(ast.Subscription)
	default:
		return name
	}
}

type builder struct {
	schema    *ast.Schema
	hash      uint64
	specMap   map[ast.SpecID]*Descriptor
	wrapped   map[ast.SpecID]bool // memoizes LIST/NOT_NULL descriptors already created
	argDefs   map[ast.SpecID]ast.Value
	typeSpecs map[string]ast.SpecID
	fieldDefs map[ast.SpecID]*ast.FieldDefinition
}

// declare assigns t its Spec id and a placeholder direct descriptor, with
// Kind/TypeName already correct but Fields/Members/Values left empty for
// link to populate. Types and their interrelationships may be cyclic; the
// placeholder exists precisely so pass two never needs a type that isn't
// already in specMap.
func (b *builder) declare(t ast.NamedType) {
	spec := typeSpec(b.hash, t.TypeName())
	setSpec(t, spec)
	b.specMap[spec] = &Descriptor{Kind: t.Kind(), TypeName: t.TypeName()}
}

func (b *builder) link(t ast.NamedType) *errors.QueryError {
	d := b.specMap[getSpec(t)]
	switch t := t.(type) {
	case *ast.ObjectTypeDefinition:
		fields, order, err := b.buildFields(t.TypeName(), t.Fields)
		if err != nil {
			return err
		}
		d.Fields = fields
		d.FieldOrder = order
		for _, intf := range t.Interfaces {
			d.Members = append(d.Members, intf.Spec)
		}
	case *ast.InterfaceTypeDefinition:
		fields, order, err := b.buildFields(t.TypeName(), t.Fields)
		if err != nil {
			return err
		}
		d.Fields = fields
		d.FieldOrder = order
		for _, obj := range t.PossibleTypes {
			d.Members = append(d.Members, obj.Spec)
		}
	case *ast.Union:
		for _, obj := range t.PossibleTypes {
			d.Members = append(d.Members, obj.Spec)
		}
	case *ast.EnumTypeDefinition:
		for _, v := range t.Values {
			d.Values = append(d.Values, v.Name.Name)
		}
	case *ast.InputObjectTypeDefinition:
		fields, order, err := b.buildInputFields(t.TypeName(), t.Values)
		if err != nil {
			return err
		}
		d.Fields = fields
		d.FieldOrder = order
	case *ast.Scalar:
		// Nothing further to link; custom scalars are out of scope and the
		// five built-ins are seeded by builtinDescriptors.
	}
	return nil
}

func (b *builder) buildFields(typeName string, fields ast.FieldDefinitionList) (map[string]ast.SpecID, []string, *errors.QueryError) {
	m := make(map[string]ast.SpecID, len(fields))
	order := make([]string, 0, len(fields))
	for _, f := range fields {
		spec := fieldSpec(b.hash, typeName, f.Name.Name)
		f.Spec = spec
		typeSpecID, err := b.specOf(f.Type)
		if err != nil {
			return nil, nil, err
		}
		b.specMap[spec] = &Descriptor{Of: typeSpecID, Alias: true, TypeName: f.Name.Name}
		b.fieldDefs[spec] = f
		for _, arg := range f.Args {
			argID := argSpec(b.hash, typeName, f.Name.Name, arg.Name.Name)
			arg.Spec = argID
			argTypeSpec, err := b.specOf(arg.Type)
			if err != nil {
				return nil, nil, err
			}
			b.specMap[argID] = &Descriptor{Of: argTypeSpec, Alias: true, TypeName: arg.Name.Name}
			if arg.Default != nil {
				b.argDefs[argID] = arg.Default
			}
		}
		m[f.Name.Name] = spec
		order = append(order, f.Name.Name)
	}
	return m, order, nil
}

func (b *builder) buildInputFields(typeName string, values ast.InputValueList) (map[string]ast.SpecID, []string, *errors.QueryError) {
	m := make(map[string]ast.SpecID, len(values))
	order := make([]string, 0, len(values))
	for _, v := range values {
		spec := inputFieldSpec(b.hash, typeName, v.Name.Name)
		v.Spec = spec
		typeSpecID, err := b.specOf(v.Type)
		if err != nil {
			return nil, nil, err
		}
		b.specMap[spec] = &Descriptor{Of: typeSpecID, Alias: true, TypeName: v.Name.Name}
		if v.Default != nil {
			b.argDefs[spec] = v.Default
		}
		m[v.Name.Name] = spec
		order = append(order, v.Name.Name)
	}
	return m, order, nil
}

// specOf resolves the spec id for any type-position reference: a bare
// named type, or any nesting of List/NonNull around one. List and NonNull
// descriptors are memoized by their derived spec id so that, say, `[Int!]!`
// anywhere in the schema always maps to the same spec regardless of where
// it's written.
func (b *builder) specOf(t ast.Type) (ast.SpecID, *errors.QueryError) {
	switch t := t.(type) {
	case *ast.List:
		of, err := b.specOf(t.OfType)
		if err != nil {
			return "", err
		}
		id := listSpec(of)
		if !b.wrapped[id] {
			b.specMap[id] = &Descriptor{Kind: ast.LIST, Of: of}
			b.wrapped[id] = true
		}
		return id, nil
	case *ast.NonNull:
		of, err := b.specOf(t.OfType)
		if err != nil {
			return "", err
		}
		id := nonNullSpec(of)
		if !b.wrapped[id] {
			b.specMap[id] = &Descriptor{Kind: ast.NOT_NULL, Of: of}
			b.wrapped[id] = true
		}
		return id, nil
	case ast.NamedType:
		return b.specOfNamed(t)
	default:
		return "", errors.Errorf("internal error: unrecognized type reference %T", t)
	}
}

func (b *builder) specOfNamed(t ast.NamedType) (ast.SpecID, *errors.QueryError) {
	id := getSpec(t)
	if id == "" {
		return "", errors.Errorf("internal error: type %q has no assigned spec", t.TypeName())
	}
	return id, nil
}

// getSpec reads t's Spec field. NamedType does not expose it as a method
// (Spec is a concrete struct field on each variant), so this type-switches
// once per lookup; the mirror of setSpec below.
func getSpec(t ast.NamedType) ast.SpecID {
	switch t := t.(type) {
	case *ast.Scalar:
		return t.Spec
	case *ast.ObjectTypeDefinition:
		return t.Spec
	case *ast.InterfaceTypeDefinition:
		return t.Spec
	case *ast.Union:
		return t.Spec
	case *ast.EnumTypeDefinition:
		return t.Spec
	case *ast.InputObjectTypeDefinition:
		return t.Spec
	default:
		return ""
	}
}

// setSpec assigns id to t's Spec field. NamedType does not expose a
// setter directly (Spec is a concrete struct field on each variant, not
// part of the interface), so this type-switches once per declaration.
func setSpec(t ast.NamedType, id ast.SpecID) {
	switch t := t.(type) {
	case *ast.Scalar:
		t.Spec = id
	case *ast.ObjectTypeDefinition:
		t.Spec = id
	case *ast.InterfaceTypeDefinition:
		t.Spec = id
	case *ast.Union:
		t.Spec = id
	case *ast.EnumTypeDefinition:
		t.Spec = id
	case *ast.InputObjectTypeDefinition:
		t.Spec = id
	}
}
