package resolvers

import (
	"context"
	"testing"

	"github.com/coreql/enginecore/config"
)

type human struct {
	Name string
}

func (h *human) Pets(ctx context.Context) ([]string, error) {
	return []string{"Fido"}, nil
}

func TestLookupReturnsRegisteredResolver(t *testing.T) {
	called := false
	reg := New(Map{
		"Human": {
			"name": func(ctx context.Context, parent interface{}, args map[string]interface{}) (interface{}, error) {
				called = true
				return "Luke", nil
			},
		},
	}, nil)
	v, err := reg.Lookup("Human", "name")(context.Background(), &human{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called || v != "Luke" {
		t.Fatalf("want registered resolver to run and return %q, got %v (called=%v)", "Luke", v, called)
	}
}

func TestLookupFallsBackToFieldByName(t *testing.T) {
	reg := New(nil, nil)
	v, err := reg.Lookup("Human", "name")(context.Background(), &human{Name: "Leia"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "Leia" {
		t.Errorf("want %q, got %v", "Leia", v)
	}
}

func TestLookupFallsBackToMethodByName(t *testing.T) {
	reg := New(nil, nil)
	v, err := reg.Lookup("Human", "pets")(context.Background(), &human{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pets, ok := v.([]string); !ok || len(pets) != 1 || pets[0] != "Fido" {
		t.Errorf("want [\"Fido\"], got %v", v)
	}
}

func TestLookupFallsBackToMapKey(t *testing.T) {
	reg := New(nil, nil)
	v, err := reg.Lookup("Human", "name")(context.Background(), map[string]interface{}{"name": "Han"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "Han" {
		t.Errorf("want %q, got %v", "Han", v)
	}
}

func TestLookupSkipsMethodsWhenDisabledByConfig(t *testing.T) {
	reg := New(nil, &config.Config{UseResolverMethods: false})
	v, err := reg.Lookup("Human", "pets")(context.Background(), &human{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Errorf("want method fallback disabled to yield nil, got %v", v)
	}
}

func TestDefaultResolverOnNilParentYieldsNil(t *testing.T) {
	reg := New(nil, nil)
	v, err := reg.Lookup("Query", "human")(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Errorf("want nil, got %v", v)
	}
}
