// Package gqltesting provides table-driven test helpers for exercising a
// built Schema. Result comparison is built on testify rather than a
// jsondiff-style dependency, since nothing in the module's dependency
// graph provides one.
package gqltesting

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enginecore "github.com/coreql/enginecore"
	"github.com/coreql/enginecore/errors"
)

// Test is a GraphQL test case to be used with RunTest(s).
type Test struct {
	Context        context.Context
	Schema         *enginecore.Schema
	Query          string
	OperationName  string
	Variables      map[string]interface{}
	ExpectedResult string
	ExpectedErrors []*errors.QueryError
}

// RunTests runs the given GraphQL test cases as subtests.
func RunTests(t *testing.T, tests []*Test) {
	t.Helper()
	if len(tests) == 1 {
		RunTest(t, tests[0])
		return
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i+1), func(t *testing.T) {
			t.Helper()
			RunTest(t, test)
		})
	}
}

// RunTest runs a single GraphQL test case.
func RunTest(t *testing.T, test *Test) {
	t.Helper()
	ctx := test.Context
	if ctx == nil {
		ctx = context.Background()
	}
	result := test.Schema.Exec(ctx, test.Query, test.OperationName, test.Variables, nil)

	checkErrors(t, test.ExpectedErrors, result.Errors)

	if test.ExpectedResult == "" {
		assert.Nil(t, result.Data, "expected null data")
		return
	}

	got, err := json.Marshal(result.Data)
	require.NoError(t, err, "marshaling result data")
	assert.JSONEq(t, test.ExpectedResult, string(got))
}

func checkErrors(t *testing.T, want, got []*errors.QueryError) {
	t.Helper()
	sortErrors(want)
	sortErrors(got)

	require.Equal(t, len(want), len(got), "unexpected error count\n  got:  %s\n  want: %s", formatErrors(got), formatErrors(want))
	for i := range want {
		assert.Equal(t, want[i].Message, got[i].Message, "error[%d].Message", i)
		assert.Equal(t, want[i].Path, got[i].Path, "error[%d].Path", i)
		if want[i].Rule != "" {
			assert.Equal(t, want[i].Rule, got[i].Rule, "error[%d].Rule", i)
		}
	}
}

func formatErrors(errs []*errors.QueryError) string {
	var s string
	for _, err := range errs {
		if err == nil {
			s += "(nil)\n"
			continue
		}
		s += fmt.Sprintf("%s path=%v rule=%s\n", err.Error(), err.Path, err.Rule)
	}
	return s
}

func sortErrors(errs []*errors.QueryError) {
	if len(errs) <= 1 {
		return
	}
	sort.Slice(errs, func(i, j int) bool {
		return fmt.Sprintf("%v", errs[i].Path) < fmt.Sprintf("%v", errs[j].Path)
	})
}
