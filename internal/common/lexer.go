// Package common holds the lexer and literal/value parsing helpers shared
// by the schema parser (internal/registry) and the operation parser
// (internal/query). Both grammars are lexically identical GraphQL source
// text, so one scanner serves both.
package common

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/coreql/enginecore/errors"
)

type syntaxError string

// Lexer wraps text/scanner with the GraphQL-specific conventions: commas
// and `#`-comments are insignificant whitespace, and a preceding
// description string/comment block is captured for the next declaration.
type Lexer struct {
	sc                    *scanner.Scanner
	next                  rune
	descComment           string
	useStringDescriptions bool
}

// Ident is an identifier token together with the location it was read
// from.
type Ident struct {
	Name string
	Loc  errors.Location
}

// BasicLit is a raw scanned literal token (int, float, string or bare
// identifier) before internal/common/literals.go classifies it into a
// concrete ast.Value variant.
type BasicLit struct {
	Type rune
	Text string
	Loc  errors.Location
}

func NewLexer(s string, useStringDescriptions bool) *Lexer {
	sc := &scanner.Scanner{
		Mode: scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings,
	}
	sc.Init(strings.NewReader(s))
	return &Lexer{sc: sc, useStringDescriptions: useStringDescriptions}
}

// CatchSyntaxError runs f, converting any panic(syntaxError(...)) raised by
// the Consume* methods below into a *errors.QueryError. Any other panic
// propagates unchanged.
func (l *Lexer) CatchSyntaxError(f func()) (errRes *errors.QueryError) {
	defer func() {
		if err := recover(); err != nil {
			if err, ok := err.(syntaxError); ok {
				errRes = errors.Errorf("syntax error: %s", err)
				errRes.Locations = []errors.Location{l.Location()}
				return
			}
			panic(err)
		}
	}()
	f()
	return
}

func (l *Lexer) Peek() rune {
	return l.next
}

// ConsumeWhitespace consumes whitespace and tokens equivalent to whitespace
// (commas and comments). Consumed comment characters accumulate into the
// description for the next declaration, available via DescComment.
func (l *Lexer) ConsumeWhitespace() {
	if !l.useStringDescriptions {
		l.descComment = ""
	}
	for {
		l.next = l.sc.Scan()

		if l.next == ',' {
			// Commas are insignificant whitespace in GraphQL source text.
			continue
		}
		if l.next == '#' {
			l.consumeComment()
			continue
		}
		break
	}
}

// consumeDescription optionally consumes a string description (June 2018+
// spec) preceding a declaration. Triple-quoted strings may span lines and
// have their surrounding whitespace trimmed.
func (l *Lexer) consumeDescription() bool {
	if l.next != scanner.String {
		return false
	}
	l.descComment = ""
	tokenText := l.sc.TokenText()
	if l.sc.Peek() == '"' {
		l.next = l.sc.Next()
		l.consumeTripleQuoteComment()
	} else {
		l.consumeStringComment(tokenText)
	}
	return true
}

func (l *Lexer) ConsumeIdent() string {
	name := l.sc.TokenText()
	l.ConsumeToken(scanner.Ident)
	return name
}

func (l *Lexer) ConsumeIdentWithLoc() Ident {
	loc := l.Location()
	name := l.sc.TokenText()
	l.ConsumeToken(scanner.Ident)
	return Ident{name, loc}
}

func (l *Lexer) ConsumeKeyword(keyword string) {
	if l.next != scanner.Ident || l.sc.TokenText() != keyword {
		l.SyntaxError(fmt.Sprintf("unexpected %q, expecting %q", l.sc.TokenText(), keyword))
	}
	l.ConsumeWhitespace()
}

func (l *Lexer) ConsumeLiteral() *BasicLit {
	lit := &BasicLit{Type: l.next, Text: l.sc.TokenText(), Loc: l.Location()}
	l.ConsumeWhitespace()
	return lit
}

func (l *Lexer) ConsumeToken(expected rune) {
	if l.next != expected {
		l.SyntaxError(fmt.Sprintf("unexpected %q, expecting %s", l.sc.TokenText(), scanner.TokenString(expected)))
	}
	l.ConsumeWhitespace()
}

func (l *Lexer) DescComment() string {
	if l.useStringDescriptions {
		if l.consumeDescription() {
			l.ConsumeWhitespace()
		}
	}
	return l.descComment
}

func (l *Lexer) SyntaxError(message string) {
	panic(syntaxError(message))
}

func (l *Lexer) Location() errors.Location {
	return errors.Location{
		Line:   l.sc.Line,
		Column: l.sc.Column,
	}
}

func (l *Lexer) consumeTripleQuoteComment() {
	if l.next != '"' {
		panic("consumeTripleQuoteComment used in wrong context: no third quote?")
	}
	if l.descComment != "" {
		l.descComment += "\n"
	}

	var comment strings.Builder
	numQuotes := 0
	for {
		l.next = l.sc.Next()
		if l.next == '"' {
			numQuotes++
		} else {
			numQuotes = 0
		}
		comment.WriteRune(l.next)
		if numQuotes == 3 || l.next == scanner.EOF {
			break
		}
	}
	full := comment.String()
	l.descComment += strings.TrimSpace(full[:len(full)-numQuotes])
}

func (l *Lexer) consumeStringComment(str string) {
	if l.descComment != "" {
		l.descComment += "\n"
	}
	value, err := strconv.Unquote(str)
	if err != nil {
		panic(err)
	}
	l.descComment += value
}

// consumeComment consumes everything from `#` up to (not including) the
// next line terminator, appending it to descComment.
func (l *Lexer) consumeComment() {
	if l.next != '#' {
		panic("consumeComment used in wrong context")
	}
	if l.sc.Peek() == ' ' {
		l.sc.Next()
	}
	if l.descComment != "" && !l.useStringDescriptions {
		l.descComment += "\n"
	}
	for {
		next := l.sc.Next()
		if next == '\r' || next == '\n' || next == scanner.EOF {
			break
		}
		if !l.useStringDescriptions {
			l.descComment += string(next)
		}
	}
}
