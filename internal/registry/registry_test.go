package registry

import (
	"testing"

	"github.com/coreql/enginecore/ast"
)

const zooSchema = `
	interface Animal {
		name: String!
	}

	type Cat implements Animal {
		name: String!
		lives: Int!
	}

	type Dog implements Animal {
		name: String!
		breed: String
	}

	union Pet = Cat | Dog

	enum Size { SMALL MEDIUM LARGE }

	type Query {
		animals: [Animal!]!
		pets: [Pet!]!
		size: Size!
	}
`

func TestParseSchemaRejectsDuplicateTypeDeclaration(t *testing.T) {
	_, err := ParseSchema(`
		type Query { x: String }
		type Query { y: String }
	`)
	if err == nil {
		t.Fatal("want an error for a type declared twice")
	}
}

func TestParseSchemaRejectsCustomScalar(t *testing.T) {
	_, err := ParseSchema(`
		scalar Date
		type Query { x: Date }
	`)
	if err == nil {
		t.Fatal("want an error for a custom scalar declaration")
	}
}

func TestBuildRejectsSchemaWithoutQueryRoot(t *testing.T) {
	s, err := ParseSchema(`
		schema { mutation: Mutation }
		type Mutation { x: String }
	`)
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	if _, err := Build(s); err == nil {
		t.Fatal("want an error for a schema with no Query root operation type")
	}
}

func TestBuildLinksInterfaceAndUnionMembership(t *testing.T) {
	s, err := ParseSchema(zooSchema)
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	state, err := Build(s)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}

	animalSpec, ok := state.TypeSpecs["Animal"]
	if !ok {
		t.Fatal("want a spec id for Animal")
	}
	animal, qerr := state.Resolve(animalSpec)
	if qerr != nil {
		t.Fatalf("resolve Animal: %v", qerr)
	}
	if len(animal.Members) != 2 {
		t.Errorf("want 2 implementing types for Animal, got %d", len(animal.Members))
	}

	petSpec, ok := state.TypeSpecs["Pet"]
	if !ok {
		t.Fatal("want a spec id for Pet")
	}
	pet, qerr := state.Resolve(petSpec)
	if qerr != nil {
		t.Fatalf("resolve Pet: %v", qerr)
	}
	if len(pet.Members) != 2 {
		t.Errorf("want 2 union members for Pet, got %d", len(pet.Members))
	}
}

func TestBuildRecordsEnumValues(t *testing.T) {
	s, err := ParseSchema(zooSchema)
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	state, err := Build(s)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	sizeSpec := state.TypeSpecs["Size"]
	size, qerr := state.Resolve(sizeSpec)
	if qerr != nil {
		t.Fatalf("resolve Size: %v", qerr)
	}
	if len(size.Values) != 3 || size.Values[0] != "SMALL" {
		t.Errorf("want [SMALL MEDIUM LARGE], got %v", size.Values)
	}
}

func TestBuildFieldDefsRoundTripsArgumentDefaults(t *testing.T) {
	s, err := ParseSchema(`
		type Query {
			greet(name: String = "world"): String!
		}
	`)
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	state, err := Build(s)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	querySpec := state.TypeSpecs["Query"]
	query, qerr := state.Resolve(querySpec)
	if qerr != nil {
		t.Fatalf("resolve Query: %v", qerr)
	}
	greetSpec := query.Fields["greet"]
	fd, ok := state.FieldDefs[greetSpec]
	if !ok {
		t.Fatal("want a FieldDefinition for greet")
	}
	arg := fd.Args.Get("name")
	if arg == nil || arg.Default == nil {
		t.Fatal("want a default literal for the name argument")
	}
}

func TestHashSchemaIsStableAcrossIdenticalSource(t *testing.T) {
	a := HashSchema(zooSchema)
	b := HashSchema(zooSchema)
	if a != b {
		t.Errorf("want identical hashes for identical source, got %d and %d", a, b)
	}
	if c := HashSchema(zooSchema + "\n"); c == a {
		t.Error("want a different hash once the source text changes")
	}
}

func TestResolveRejectsUnknownSpec(t *testing.T) {
	state := &SchemaState{SpecMap: map[ast.SpecID]*Descriptor{}}
	if _, err := state.Resolve("bogus"); err == nil {
		t.Fatal("want an error resolving an unknown spec id")
	}
}
