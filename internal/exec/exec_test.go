package exec

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/coreql/enginecore/ast"
	"github.com/coreql/enginecore/internal/query"
	"github.com/coreql/enginecore/internal/registry"
	"github.com/coreql/enginecore/internal/validation"
	"github.com/coreql/enginecore/resolvers"
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

	type Query {
		hero: Human!
		add(x: Int!, y: Int!): Int!
	}
`

func mustBuildState(t *testing.T) *registry.SchemaState {
	t.Helper()
	parsed, err := registry.ParseSchema(petSchema)
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	state, err := registry.Build(parsed)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return state
}

type dog struct {
	Name    string
	IsBarks bool
}

func (d *dog) GraphQLType() string { return "Dog" }

// parseAndValidate parses src and runs validation over it, which binds
// every field selection to its spec id as Execute expects.
func parseAndValidate(t *testing.T, state *registry.SchemaState, src string) *ast.ExecutableDocument {
	t.Helper()
	doc, perr := query.Parse(src)
	if perr != nil {
		t.Fatalf("parse query: %v", perr)
	}
	if errs := validation.Validate(state, doc); len(errs) != 0 {
		t.Fatalf("validate query: %v", errs)
	}
	return doc
}

func runQuery(t *testing.T, state *registry.SchemaState, reg *resolvers.Registry, src string) *Response {
	t.Helper()
	doc := parseAndValidate(t, state, src)
	return Execute(context.Background(), state, reg, doc, src, "", nil, nil, nil, nil, 0)
}

func TestExecuteAssemblesNestedListThroughInterface(t *testing.T) {
	state := mustBuildState(t)
	reg := resolvers.New(resolvers.Map{
		"Query": {
			"hero": func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error) {
				return map[string]interface{}{
					"name": "Han",
					"pets": []interface{}{&dog{Name: "Fido", IsBarks: true}},
				}, nil
			},
		},
		"Dog": {
			"barks": func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error) {
				return parent.(*dog).IsBarks, nil
			},
		},
	}, nil)

	res := runQuery(t, state, reg, `query { hero { name pets { name ... on Dog { barks } } } }`)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	got, err := json.Marshal(res.Data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"hero":{"name":"Han","pets":[{"name":"Fido","barks":true}]}}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestExecuteDefaultArgumentUsedWhenVariableOmitted(t *testing.T) {
	state := mustBuildState(t)
	reg := resolvers.New(resolvers.Map{
		"Query": {
			"add": func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error) {
				x, _ := args["x"].(int64)
				y, _ := args["y"].(int64)
				return x + y, nil
			},
		},
	}, nil)

	doc := parseAndValidate(t, state, `query($x: Int = 3) { add(x: $x, y: 2) }`)
	res := Execute(context.Background(), state, reg, doc, "", "", nil, nil, nil, nil, 0)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	got, _ := json.Marshal(res.Data)
	if string(got) != `{"add":5}` {
		t.Errorf("got %s, want {\"add\":5}", got)
	}
}

func TestExecuteNonNullFieldErrorPropagatesToNearestNullableAncestor(t *testing.T) {
	state := mustBuildState(t)
	reg := resolvers.New(resolvers.Map{
		"Query": {
			"hero": func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error) {
				return map[string]interface{}{
					"name": nil, // Human.name is String!
					"pets": []interface{}{},
				}, nil
			},
		},
	}, nil)

	res := runQuery(t, state, reg, `query { hero { name pets { name } } }`)
	if len(res.Errors) == 0 {
		t.Fatalf("want a non-null violation error, got none")
	}
	if res.Data != nil {
		t.Errorf("want the null Human.name to propagate through the non-null hero field and null out data, got %v", res.Data)
	}
}

func TestExecuteResolverPanicIsRecoveredAsFieldError(t *testing.T) {
	state := mustBuildState(t)
	reg := resolvers.New(resolvers.Map{
		"Query": {
			"hero": func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error) {
				panic("boom")
			},
		},
	}, nil)

	res := runQuery(t, state, reg, `query { hero { name } }`)
	if len(res.Errors) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(res.Errors), res.Errors)
	}
	if res.Errors[0].ResolverError == nil {
		t.Errorf("want ResolverError to be set on a recovered panic")
	}
}

func TestExecuteResponseAlwaysCarriesRequestID(t *testing.T) {
	state := mustBuildState(t)
	reg := resolvers.New(resolvers.Map{
		"Query": {
			"hero": func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error) {
				return map[string]interface{}{"name": "Leia", "pets": []interface{}{}}, nil
			},
		},
	}, nil)

	res := runQuery(t, state, reg, `query { hero { name } }`)
	if res.Extensions == nil || res.Extensions["requestID"] == "" {
		t.Errorf("want a non-empty requestID extension, got %v", res.Extensions)
	}
}

func TestExecuteMaxParallelismOfOneStillResolvesAllSiblingFields(t *testing.T) {
	state := mustBuildState(t)
	reg := resolvers.New(resolvers.Map{
		"Query": {
			"hero": func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error) {
				return map[string]interface{}{"name": "Leia", "pets": []interface{}{}}, nil
			},
		},
	}, nil)

	doc := parseAndValidate(t, state, `query { hero { name pets { name } } }`)
	res := Execute(context.Background(), state, reg, doc, "", "", nil, nil, nil, nil, 1)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	got, _ := json.Marshal(res.Data)
	want := `{"hero":{"name":"Leia","pets":[]}}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
