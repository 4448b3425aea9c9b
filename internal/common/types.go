package common

import (
	"github.com/coreql/enginecore/ast"
	"github.com/coreql/enginecore/errors"
)

// ParseType parses a type reference: a named type, optionally wrapped in
// any combination of `[...]` and a trailing `!`.
func ParseType(l *Lexer) ast.Type {
	t := parseNullableType(l)
	if l.Peek() == '!' {
		l.ConsumeToken('!')
		return &ast.NonNull{OfType: t}
	}
	return t
}

func parseNullableType(l *Lexer) ast.Type {
	if l.Peek() == '[' {
		l.ConsumeToken('[')
		ofType := ParseType(l)
		l.ConsumeToken(']')
		return &ast.List{OfType: ofType}
	}
	return ast.TypeName{Ident: ast.Ident(l.ConsumeIdentWithLoc())}
}

// Resolver looks up a declared type by name; *ast.Schema satisfies this.
type Resolver func(name string) ast.Type

// ResolveType walks t, replacing every ast.TypeName leaf with the type it
// names according to resolver, and preserving List/NonNull wrapping.
func ResolveType(t ast.Type, resolver Resolver) (ast.Type, *errors.QueryError) {
	switch t := t.(type) {
	case *ast.List:
		ofType, err := ResolveType(t.OfType, resolver)
		if err != nil {
			return nil, err
		}
		return &ast.List{OfType: ofType}, nil
	case *ast.NonNull:
		ofType, err := ResolveType(t.OfType, resolver)
		if err != nil {
			return nil, err
		}
		return &ast.NonNull{OfType: ofType}, nil
	case ast.TypeName:
		refT := resolver(t.Name)
		if refT == nil {
			err := errors.Errorf("Unknown type %q.", t.Name)
			err.Rule = "KnownTypeNames"
			err.Locations = []errors.Location{t.Loc}
			return nil, err
		}
		return refT, nil
	default:
		return t, nil
	}
}

// Unwrap strips NonNull and List wrappers, returning the innermost named
// type together with how many list levels were peeled off (needed by
// CompleteValue to recurse over nested lists).
func Unwrap(t ast.Type) (named ast.NamedType, listDepth int, nonNullLevels []bool) {
	cur := t
	for {
		switch x := cur.(type) {
		case *ast.NonNull:
			nonNullLevels = append(nonNullLevels, true)
			cur = x.OfType
		case *ast.List:
			listDepth++
			cur = x.OfType
		default:
			named, _ = cur.(ast.NamedType)
			return
		}
	}
}
