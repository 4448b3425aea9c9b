package trace

import (
	"context"
	"testing"
)

func TestNoopTracerDiscardsEverySpan(t *testing.T) {
	var tr Tracer = NoopTracer{}
	var vt ValidationTracer = NoopTracer{}

	ctx, finishQuery := tr.TraceQuery(context.Background(), "{ hello }", "", nil)
	if ctx == nil {
		t.Fatal("want a non-nil context back")
	}
	finishQuery(nil)

	_, finishField := tr.TraceField(context.Background(), "Query", "hello", false, nil)
	finishField(nil)

	finishValidation := vt.TraceValidation(context.Background())
	finishValidation(nil)
}
