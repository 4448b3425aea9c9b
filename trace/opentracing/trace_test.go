package opentracing_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	ot "github.com/opentracing/opentracing-go"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jaegerlog "github.com/uber/jaeger-client-go/log"

	enginecore "github.com/coreql/enginecore"
	"github.com/coreql/enginecore/resolvers"
	"github.com/coreql/enginecore/trace"
	"github.com/coreql/enginecore/trace/opentracing"
)

func TestInterfaceImplementation(t *testing.T) {
	var _ trace.Tracer = opentracing.Tracer{}
}

func TestTracerOption(t *testing.T) {
	schema, err := enginecore.BuildSchema(`
		schema { query: Query }
		type Query { hello: String }
	`)
	require.NoError(t, err)
	schema.Tracer = opentracing.Tracer{}
	schema.Resolvers = resolvers.New(resolvers.Map{
		"Query": {
			"hello": func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error) {
				return "World", nil
			},
		},
	}, nil)

	res := schema.Exec(context.Background(), `{ hello }`, "", nil, nil)
	require.Empty(t, res.Errors)
}

// TestJaegerTracing exercises the opentracing adapter against a live Jaeger
// backend. It skips when the Jaeger config cannot be read from the
// environment, when JAEGER_QUERY_ENDPOINT is unset, or when the tracer
// cannot be initialized; with the endpoint set, it queries Jaeger and
// fails if the expected trace does not arrive.
func TestJaegerTracing(t *testing.T) {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		t.Skipf("skipping test; could not read jaeger config from env: %s", err)
	}
	queryAPI := os.Getenv("JAEGER_QUERY_ENDPOINT")
	if queryAPI == "" {
		t.Skip("skipping test; JAEGER_QUERY_ENDPOINT env not defined")
	}

	svcName := t.Name() + "-" + ksuid.New().String()
	queryURL := fmt.Sprintf("%s?lookback=1h&limit=1&service=%s", queryAPI, svcName)

	cfg.ServiceName = svcName
	cfg.Sampler.Type = jaeger.SamplerTypeConst
	cfg.Sampler.Param = 1
	cfg.Reporter.LogSpans = true

	tracer, closer, err := cfg.NewTracer(jaegercfg.Logger(jaegerlog.StdLogger))
	if err != nil {
		t.Skipf("skipping test; could not initialize jaeger: %s", err)
	}
	defer closer.Close()
	ot.SetGlobalTracer(tracer)

	schema, err := enginecore.BuildSchema(`
		schema { query: Query }
		type Query { hello: String }
	`)
	require.NoError(t, err)
	schema.Tracer = opentracing.Tracer{}
	schema.Resolvers = resolvers.New(resolvers.Map{
		"Query": {
			"hello": func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error) {
				return "World", nil
			},
		},
	}, nil)

	assertTraceCount(t, queryURL, 0)

	res := schema.Exec(context.Background(), `{ hello }`, "", nil, nil)
	require.Empty(t, res.Errors)

	time.Sleep(1 * time.Second)
	assertTraceCount(t, queryURL, 1)
}

func assertTraceCount(t *testing.T, queryURL string, count int) {
	t.Helper()
	httpClient := &http.Client{}
	req, err := http.NewRequest("GET", queryURL, nil)
	require.NoError(t, err)
	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var data struct {
		Data []interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&data))
	assert.Equal(t, count, len(data.Data))
}
