package enginecore_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	enginecore "github.com/coreql/enginecore"
	"github.com/coreql/enginecore/gqltesting"
	"github.com/coreql/enginecore/resolvers"
)

const starwarsSchema = `
	schema {
		query: Query
	}

	type Query {
		hero: Character!
		human(id: String!): Human
	}

	interface Character {
		name: String!
	}

	type Human implements Character {
		name: String!
		homePlanet: String
	}

	type Droid implements Character {
		name: String!
		primaryFunction: String!
	}
`

type human struct {
	Name       string
	HomePlanet *string
}

func (h *human) GraphQLType() string { return "Human" }

type droid struct {
	Name            string
	PrimaryFunction string
}

func (d *droid) GraphQLType() string { return "Droid" }

func newStarwarsSchema(t *testing.T) *enginecore.Schema {
	t.Helper()
	schema, err := enginecore.BuildSchema(starwarsSchema)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	lukeHomePlanet := "Tatooine"
	luke := &human{Name: "Luke Skywalker", HomePlanet: &lukeHomePlanet}
	r2d2 := &droid{Name: "R2-D2", PrimaryFunction: "Astromech"}

	humans := map[string]*human{"1000": luke}

	schema.Resolvers = resolvers.New(resolvers.Map{
		"Query": {
			"hero": func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error) {
				return r2d2, nil
			},
			"human": func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error) {
				id, _ := args["id"].(string)
				if h, ok := humans[id]; ok {
					return h, nil
				}
				return nil, nil
			},
		},
	}, nil)
	return schema
}

func TestHeroResolvesThroughInterfaceToConcreteType(t *testing.T) {
	schema := newStarwarsSchema(t)
	gqltesting.RunTest(t, &gqltesting.Test{
		Schema: schema,
		Query: `
			query {
				hero {
					name
				}
			}
		`,
		ExpectedResult: `{"hero": {"name": "R2-D2"}}`,
	})
}

func TestHumanLookupByID(t *testing.T) {
	schema := newStarwarsSchema(t)
	gqltesting.RunTest(t, &gqltesting.Test{
		Schema: schema,
		Query: `
			query {
				human(id: "1000") {
					name
					homePlanet
				}
			}
		`,
		ExpectedResult: `{"human": {"name": "Luke Skywalker", "homePlanet": "Tatooine"}}`,
	})
}

func TestHumanLookupMissingIDYieldsNull(t *testing.T) {
	schema := newStarwarsSchema(t)
	gqltesting.RunTest(t, &gqltesting.Test{
		Schema: schema,
		Query: `
			query {
				human(id: "9999") {
					name
				}
			}
		`,
		ExpectedResult: `{"human": null}`,
	})
}

func TestValidateRejectsUnknownField(t *testing.T) {
	schema := newStarwarsSchema(t)
	_, errs := schema.Validate(`query { hero { nickname } }`)
	if len(errs) != 1 {
		t.Fatalf("want 1 validation error, got %d: %v", len(errs), errs)
	}
	if errs[0].Rule != "FieldsOnCorrectType" {
		t.Errorf("want rule FieldsOnCorrectType, got %q", errs[0].Rule)
	}
}

func TestExecuteResponseCarriesRequestID(t *testing.T) {
	schema := newStarwarsSchema(t)
	res := schema.Exec(context.Background(), `query { hero { name } }`, "", nil, nil)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	id, ok := res.Extensions["requestID"].(string)
	if !ok || id == "" {
		t.Errorf("want a non-empty requestID extension, got %v", res.Extensions)
	}
}

func ExampleBuildSchema() {
	schema, err := enginecore.BuildSchema(`
		schema { query: Query }
		type Query {
			greet(name: String!): String!
		}
	`)
	if err != nil {
		panic(err)
	}
	schema.Resolvers = resolvers.New(resolvers.Map{
		"Query": {
			"greet": func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error) {
				name, _ := args["name"].(string)
				return fmt.Sprintf("Hello, %s!", name), nil
			},
		},
	}, nil)

	res := schema.Exec(context.Background(), `query { greet(name: "GraphQL") }`, "", nil, nil)
	out, err := json.Marshal(res.Data)
	if err != nil {
		panic(err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	// Output: {"greet":"Hello, GraphQL!"}
}
