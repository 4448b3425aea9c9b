package common

import (
	"text/scanner"

	"github.com/coreql/enginecore/ast"
)

// ParseLiteral parses a single value: a variable reference (unless
// constOnly, e.g. inside a default value), a scalar/enum literal, or a
// list/object literal whose elements are themselves parsed recursively.
func ParseLiteral(l *Lexer, constOnly bool) ast.Value {
	loc := l.Location()
	switch l.Peek() {
	case '$':
		if constOnly {
			l.SyntaxError("variable not allowed")
			panic("unreachable")
		}
		l.ConsumeToken('$')
		name := l.ConsumeIdent()
		return &ast.Variable{Name: name, Loc: loc}

	case scanner.Int:
		lit := l.ConsumeLiteral()
		return &ast.IntValue{Text: lit.Text, Loc: loc}

	case scanner.Float:
		lit := l.ConsumeLiteral()
		return &ast.FloatValue{Text: lit.Text, Loc: loc}

	case scanner.String:
		lit := l.ConsumeLiteral()
		return &ast.StringValue{Text: unquote(lit.Text), Loc: loc}

	case scanner.Ident:
		lit := l.ConsumeLiteral()
		switch lit.Text {
		case "null":
			return &ast.NullValue{Loc: loc}
		case "true":
			return &ast.BooleanValue{Value: true, Loc: loc}
		case "false":
			return &ast.BooleanValue{Value: false, Loc: loc}
		default:
			return &ast.EnumValueLit{Text: lit.Text, Loc: loc}
		}

	case '-':
		l.ConsumeToken('-')
		lit := l.ConsumeLiteral()
		switch lit.Type {
		case scanner.Float:
			return &ast.FloatValue{Text: "-" + lit.Text, Loc: loc}
		default:
			return &ast.IntValue{Text: "-" + lit.Text, Loc: loc}
		}

	case '[':
		l.ConsumeToken('[')
		var list []ast.Value
		for l.Peek() != ']' {
			list = append(list, ParseLiteral(l, constOnly))
		}
		l.ConsumeToken(']')
		return &ast.ListValue{Values: list, Loc: loc}

	case '{':
		l.ConsumeToken('{')
		var fields []*ast.ObjectField
		for l.Peek() != '}' {
			name := l.ConsumeIdentWithLoc()
			l.ConsumeToken(':')
			value := ParseLiteral(l, constOnly)
			fields = append(fields, &ast.ObjectField{Name: ast.Ident(name), Value: value})
		}
		l.ConsumeToken('}')
		return &ast.ObjectValue{Fields: fields, Loc: loc}

	default:
		l.SyntaxError("invalid value")
		panic("unreachable")
	}
}

// unquote strips the surrounding quotes scanned by text/scanner and
// decodes the escapes \n, \t, \r, \", \\ and \/ (see unescape). Any other
// backslash sequence, including \u escapes, is kept verbatim.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return unescape(s[1 : len(s)-1])
	}
	return s
}

func unescape(s string) string {
	var out []byte
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case '/':
				out = append(out, '/')
			default:
				out = append(out, '\\', s[i])
			}
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
