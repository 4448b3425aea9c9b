package common

import (
	"github.com/coreql/enginecore/ast"
)

// ParseInputValue parses a single `name: Type = default` declaration, used
// for field arguments, directive arguments, input-object fields, and
// operation variable definitions.
func ParseInputValue(l *Lexer) *ast.InputValueDefinition {
	p := &ast.InputValueDefinition{}
	p.Loc = l.Location()
	p.Desc = l.DescComment()
	p.Name = ast.Ident(l.ConsumeIdentWithLoc())
	l.ConsumeToken(':')
	p.TypeLoc = l.Location()
	p.Type = ParseType(l)
	if l.Peek() == '=' {
		l.ConsumeToken('=')
		p.Default = ParseLiteral(l, true)
	}
	p.Directives = ParseDirectives(l)
	return p
}

// ParseArgumentDeclList parses the optional `(arg: Type, ...)` argument
// declaration list on a field or directive definition.
func ParseArgumentDeclList(l *Lexer) ast.InputValueList {
	var args ast.InputValueList
	if l.Peek() == '(' {
		l.ConsumeToken('(')
		for l.Peek() != ')' {
			args = append(args, ParseInputValue(l))
		}
		l.ConsumeToken(')')
	}
	return args
}

// ParseArgumentList parses a field or directive application's `(arg: value,
// ...)` argument list.
func ParseArgumentList(l *Lexer) ast.ArgumentList {
	var args ast.ArgumentList
	l.ConsumeToken('(')
	for l.Peek() != ')' {
		name := l.ConsumeIdentWithLoc()
		l.ConsumeToken(':')
		value := ParseLiteral(l, false)
		args = append(args, &ast.Argument{Name: ast.Ident(name), Value: value})
	}
	l.ConsumeToken(')')
	return args
}

// ParseDirectives parses zero or more `@name(...)` directive applications.
func ParseDirectives(l *Lexer) ast.DirectiveList {
	var directives ast.DirectiveList
	for l.Peek() == '@' {
		l.ConsumeToken('@')
		d := &ast.Directive{}
		d.Name = ast.Ident(l.ConsumeIdentWithLoc())
		if l.Peek() == '(' {
			d.Arguments = ParseArgumentList(l)
		}
		directives = append(directives, d)
	}
	return directives
}
