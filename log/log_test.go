package log_test

import (
	"context"
	"fmt"

	enginecore "github.com/coreql/enginecore"
	"github.com/coreql/enginecore/log"
	"github.com/coreql/enginecore/resolvers"
)

func ExampleLoggerFunc() {
	logfn := log.LoggerFunc(func(ctx context.Context, err interface{}) {
		fmt.Printf("graphql: panic occurred: %v", err)
	})

	schema, err := enginecore.BuildSchema(`
		type Query {
			hello: String!
		}
	`)
	if err != nil {
		panic(err)
	}
	schema.Logger = logfn
	schema.Resolvers = resolvers.New(resolvers.Map{
		"Query": {
			"hello": func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error) {
				panic("something went wrong")
			},
		},
	}, nil)

	schema.Exec(context.Background(), "{ hello }", "", nil, nil)

	// Output:
	// graphql: panic occurred: something went wrong
}
