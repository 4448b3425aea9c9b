// Package query parses operation documents (queries, mutations,
// subscriptions and the fragments they reference) into an
// ast.ExecutableDocument. It shares its lexer with internal/registry's
// schema parser but knows nothing about a schema; binding selections to
// field/type declarations is internal/validation's job.
package query

import (
	"fmt"
	"text/scanner"

	"github.com/coreql/enginecore/ast"
	"github.com/coreql/enginecore/errors"
	"github.com/coreql/enginecore/internal/common"
)

// Parse parses a full operation document.
func Parse(queryString string) (*ast.ExecutableDocument, *errors.QueryError) {
	l := common.NewLexer(queryString, false)

	var doc *ast.ExecutableDocument
	syntaxErr := l.CatchSyntaxError(func() { doc = parseDocument(l) })
	if syntaxErr != nil {
		return nil, syntaxErr
	}
	return doc, nil
}

func parseDocument(l *common.Lexer) *ast.ExecutableDocument {
	doc := &ast.ExecutableDocument{}
	l.ConsumeWhitespace()
	for l.Peek() != scanner.EOF {
		if l.Peek() == '{' {
			op := &ast.OperationDefinition{Type: ast.Query, Loc: l.Location()}
			op.Selections = parseSelectionSet(l)
			doc.Operations = append(doc.Operations, op)
			continue
		}

		loc := l.Location()
		switch x := l.ConsumeIdent(); x {
		case "query":
			op := parseOperation(l, ast.Query)
			op.Loc = loc
			doc.Operations = append(doc.Operations, op)

		case "mutation":
			op := parseOperation(l, ast.Mutation)
			op.Loc = loc
			doc.Operations = append(doc.Operations, op)

		case "subscription":
			op := parseOperation(l, ast.Subscription)
			op.Loc = loc
			doc.Operations = append(doc.Operations, op)

		case "fragment":
			frag := parseFragment(l)
			frag.Loc = loc
			doc.Fragments = append(doc.Fragments, frag)

		default:
			l.SyntaxError(fmt.Sprintf(`unexpected %q, expecting "query", "mutation", "subscription" or "fragment"`, x))
		}
	}
	return doc
}

func parseOperation(l *common.Lexer, opType ast.OperationType) *ast.OperationDefinition {
	op := &ast.OperationDefinition{Type: opType}
	if l.Peek() == scanner.Ident {
		op.Name = ast.Ident(l.ConsumeIdentWithLoc())
	}
	if l.Peek() == '(' {
		l.ConsumeToken('(')
		for l.Peek() != ')' {
			loc := l.Location()
			l.ConsumeToken('$')
			iv := common.ParseInputValue(l)
			iv.Loc = loc
			op.Vars = append(op.Vars, iv)
		}
		l.ConsumeToken(')')
	}
	op.Directives = common.ParseDirectives(l)
	op.Selections = parseSelectionSet(l)
	return op
}

func parseFragment(l *common.Lexer) *ast.FragmentDefinition {
	f := &ast.FragmentDefinition{}
	f.Name = ast.Ident(l.ConsumeIdentWithLoc())
	l.ConsumeKeyword("on")
	f.On = ast.TypeName{Ident: ast.Ident(l.ConsumeIdentWithLoc())}
	f.Directives = common.ParseDirectives(l)
	f.Selections = parseSelectionSet(l)
	return f
}

func parseSelectionSet(l *common.Lexer) []ast.Selection {
	var sels []ast.Selection
	l.ConsumeToken('{')
	for l.Peek() != '}' {
		sels = append(sels, parseSelection(l))
	}
	l.ConsumeToken('}')
	return sels
}

func parseSelection(l *common.Lexer) ast.Selection {
	if l.Peek() == '.' {
		return parseSpread(l)
	}
	return parseField(l)
}

func parseField(l *common.Lexer) *ast.Field {
	f := &ast.Field{}
	f.Alias = ast.Ident(l.ConsumeIdentWithLoc())
	f.Name = f.Alias
	if l.Peek() == ':' {
		l.ConsumeToken(':')
		f.Name = ast.Ident(l.ConsumeIdentWithLoc())
	}
	if l.Peek() == '(' {
		f.Arguments = common.ParseArgumentList(l)
	}
	f.Directives = common.ParseDirectives(l)
	if l.Peek() == '{' {
		f.SelectionSetLoc = l.Location()
		f.SelectionSet = parseSelectionSet(l)
	}
	return f
}

func parseSpread(l *common.Lexer) ast.Selection {
	loc := l.Location()
	l.ConsumeToken('.')
	l.ConsumeToken('.')
	l.ConsumeToken('.')

	if l.Peek() == scanner.Ident {
		ident := l.ConsumeIdentWithLoc()
		if ident.Name != "on" {
			fs := &ast.FragmentSpread{Name: ast.Ident(ident), Loc: loc}
			fs.Directives = common.ParseDirectives(l)
			return fs
		}
		f := &ast.InlineFragment{Loc: loc}
		f.On = ast.TypeName{Ident: ast.Ident(l.ConsumeIdentWithLoc())}
		f.Directives = common.ParseDirectives(l)
		f.Selections = parseSelectionSet(l)
		return f
	}

	f := &ast.InlineFragment{Loc: loc}
	f.Directives = common.ParseDirectives(l)
	f.Selections = parseSelectionSet(l)
	return f
}
