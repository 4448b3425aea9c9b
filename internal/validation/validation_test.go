package validation

import (
	"strings"
	"testing"

	"github.com/coreql/enginecore/internal/query"
	"github.com/coreql/enginecore/internal/registry"
)

const petSchema = `
	interface Pet {
		name: String!
	}

	type Dog implements Pet {
		name: String!
		barks: Boolean!
	}

	type Human {
		name: String!
		pets: [Pet!]!
	}

	enum Episode { NEWHOPE EMPIRE JEDI }

	type Query {
		human(id: ID!): Human
		hero(episode: Episode): Human
	}
`

func mustBuild(t *testing.T, schema string) *registry.SchemaState {
	t.Helper()
	s, err := registry.ParseSchema(schema)
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	state, err := registry.Build(s)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return state
}

func validateSource(t *testing.T, state *registry.SchemaState, src string) []string {
	t.Helper()
	doc, err := query.Parse(src)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	errs := Validate(state, doc)
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return msgs
}

func TestValidateAcceptsWellFormedQuery(t *testing.T) {
	state := mustBuild(t, petSchema)
	errs := validateSource(t, state, `{ human(id: "1000") { name pets { name ... on Dog { barks } } } }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateUnknownField(t *testing.T) {
	state := mustBuild(t, petSchema)
	errs := validateSource(t, state, `{ human(id: "1") { nickname } }`)
	if len(errs) != 1 || !strings.Contains(errs[0], `Cannot query field 'nickname'`) {
		t.Fatalf("want unknown field error, got %v", errs)
	}
}

func TestValidateMissingRequiredArgument(t *testing.T) {
	state := mustBuild(t, petSchema)
	errs := validateSource(t, state, `{ human { name } }`)
	if len(errs) != 1 || !strings.Contains(errs[0], `argument "id"`) {
		t.Fatalf("want required argument error, got %v", errs)
	}
}

func TestValidateScalarLeafMustNotHaveSelection(t *testing.T) {
	state := mustBuild(t, petSchema)
	errs := validateSource(t, state, `{ human(id: "1") { name { x } } }`)
	if len(errs) != 1 || !strings.Contains(errs[0], "must not have a selection set") {
		t.Fatalf("want scalar-leaf error, got %v", errs)
	}
}

func TestValidateObjectFieldRequiresSelection(t *testing.T) {
	state := mustBuild(t, petSchema)
	errs := validateSource(t, state, `{ human(id: "1") }`)
	if len(errs) != 1 || !strings.Contains(errs[0], "must have a selection set") {
		t.Fatalf("want missing-selection error, got %v", errs)
	}
}

func TestValidateUnknownFragmentType(t *testing.T) {
	state := mustBuild(t, petSchema)
	errs := validateSource(t, state, `{ human(id: "1") { pets { ... on Robot { name } } } }`)
	if len(errs) != 1 || !strings.Contains(errs[0], `Unknown type "Robot"`) {
		t.Fatalf("want unknown type error, got %v", errs)
	}
}

func TestValidateUnusedFragmentIsReported(t *testing.T) {
	state := mustBuild(t, petSchema)
	errs := validateSource(t, state, `
		{ human(id: "1") { name } }
		fragment unused on Dog { barks }
	`)
	if len(errs) != 1 || !strings.Contains(errs[0], `"unused" is never used`) {
		t.Fatalf("want unused fragment error, got %v", errs)
	}
}

func TestValidateUndefinedVariable(t *testing.T) {
	state := mustBuild(t, petSchema)
	errs := validateSource(t, state, `query Q { human(id: $missing) { name } }`)
	if len(errs) != 1 || !strings.Contains(errs[0], `Variable "missing" is not defined`) {
		t.Fatalf("want undefined variable error, got %v", errs)
	}
}

func TestValidateVariableDefaultSatisfiesAllowedPosition(t *testing.T) {
	state := mustBuild(t, petSchema)
	errs := validateSource(t, state, `query Q($e: Episode = EMPIRE) { hero(episode: $e) { name } }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateUnknownDirective(t *testing.T) {
	state := mustBuild(t, petSchema)
	errs := validateSource(t, state, `{ human(id: "1") { name @bogus } }`)
	if len(errs) != 1 || !strings.Contains(errs[0], `Unknown directive "bogus"`) {
		t.Fatalf("want unknown directive error, got %v", errs)
	}
}

func TestValidateIncludeDirectiveRequiresIfArgument(t *testing.T) {
	state := mustBuild(t, petSchema)
	errs := validateSource(t, state, `{ human(id: "1") { name @include } }`)
	if len(errs) != 1 || !strings.Contains(errs[0], `argument "if"`) {
		t.Fatalf("want missing if-argument error, got %v", errs)
	}
}

func TestValidateViolationsCarryTheirRuleName(t *testing.T) {
	state := mustBuild(t, petSchema)
	doc, err := query.Parse(`{ human(id: "1") { nickname } }`)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	errs := Validate(state, doc)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d", len(errs))
	}
	if errs[0].Rule != "FieldsOnCorrectType" {
		t.Errorf("want rule FieldsOnCorrectType, got %q", errs[0].Rule)
	}
}
