package query

import (
	"testing"

	"github.com/coreql/enginecore/ast"
)

func FuzzParseQuery(f *testing.F) {
	f.Add(`{ hero { name } }`)
	f.Add(`query Q($x: Int = 3) { f(n: $x) }`)
	f.Fuzz(func(t *testing.T, queryStr string) {
		Parse(queryStr)
	})
}

func TestParseAnonymousQuery(t *testing.T) {
	doc, err := Parse(`{ hero { name } }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Operations) != 1 {
		t.Fatalf("want 1 operation, got %d", len(doc.Operations))
	}
	op := doc.Operations[0]
	if op.Type != ast.Query {
		t.Errorf("want Query, got %v", op.Type)
	}
	if len(op.Selections) != 1 {
		t.Fatalf("want 1 top-level selection, got %d", len(op.Selections))
	}
	field, ok := op.Selections[0].(*ast.Field)
	if !ok {
		t.Fatalf("want *ast.Field, got %T", op.Selections[0])
	}
	if field.Name.Name != "hero" {
		t.Errorf("want field %q, got %q", "hero", field.Name.Name)
	}
}

func TestParseAliasAndArguments(t *testing.T) {
	doc, err := Parse(`{ r: hero(episode: EMPIRE) { name } }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	field := doc.Operations[0].Selections[0].(*ast.Field)
	if field.ResponseKey() != "r" {
		t.Errorf("want response key %q, got %q", "r", field.ResponseKey())
	}
	if field.Name.Name != "hero" {
		t.Errorf("want field name %q, got %q", "hero", field.Name.Name)
	}
	v, ok := field.Arguments.Get("episode")
	if !ok {
		t.Fatal("expected argument \"episode\"")
	}
	enumLit, ok := v.(*ast.EnumValueLit)
	if !ok {
		t.Fatalf("want *ast.EnumValueLit, got %T", v)
	}
	if enumLit.Text != "EMPIRE" {
		t.Errorf("want %q, got %q", "EMPIRE", enumLit.Text)
	}
}

func TestParseVariableDefinitionWithDefault(t *testing.T) {
	doc, err := Parse(`query Q($x: Int = 3) { f(n: $x) }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	op := doc.Operations[0]
	if op.Name.Name != "Q" {
		t.Errorf("want operation name %q, got %q", "Q", op.Name.Name)
	}
	if len(op.Vars) != 1 {
		t.Fatalf("want 1 variable definition, got %d", len(op.Vars))
	}
	v := op.Vars[0]
	if v.Name.Name != "x" {
		t.Errorf("want variable %q, got %q", "x", v.Name.Name)
	}
	def, ok := v.Default.(*ast.IntValue)
	if !ok {
		t.Fatalf("want *ast.IntValue default, got %T", v.Default)
	}
	if def.Text != "3" {
		t.Errorf("want default %q, got %q", "3", def.Text)
	}
}

func TestParseFragmentSpreadAndInlineFragment(t *testing.T) {
	doc, err := Parse(`
		{
			hero {
				...heroFields
				... on Droid { primaryFunction }
				... { id }
			}
		}
		fragment heroFields on Character { name }
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Fragments) != 1 {
		t.Fatalf("want 1 fragment definition, got %d", len(doc.Fragments))
	}
	if doc.Fragments[0].On.Name != "Character" {
		t.Errorf("want fragment type condition %q, got %q", "Character", doc.Fragments[0].On.Name)
	}

	hero := doc.Operations[0].Selections[0].(*ast.Field)
	if len(hero.SelectionSet) != 3 {
		t.Fatalf("want 3 sub-selections, got %d", len(hero.SelectionSet))
	}
	if _, ok := hero.SelectionSet[0].(*ast.FragmentSpread); !ok {
		t.Errorf("want *ast.FragmentSpread, got %T", hero.SelectionSet[0])
	}
	typed, ok := hero.SelectionSet[1].(*ast.InlineFragment)
	if !ok {
		t.Fatalf("want *ast.InlineFragment, got %T", hero.SelectionSet[1])
	}
	if typed.On.Name != "Droid" {
		t.Errorf("want type condition %q, got %q", "Droid", typed.On.Name)
	}
	untyped, ok := hero.SelectionSet[2].(*ast.InlineFragment)
	if !ok {
		t.Fatalf("want *ast.InlineFragment, got %T", hero.SelectionSet[2])
	}
	if untyped.On.Name != "" {
		t.Errorf("want untyped inline fragment, got type condition %q", untyped.On.Name)
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := Parse(`{ hero { `); err == nil {
		t.Fatal("expected syntax error for unterminated selection set")
	}
}
