package registry

import (
	"fmt"
	"strings"
	"text/scanner"

	"github.com/coreql/enginecore/ast"
	"github.com/coreql/enginecore/errors"
	"github.com/coreql/enginecore/internal/common"
)

// ParseSchema parses raw SDL text into an *ast.Schema with every type
// reference resolved against the type map: TypeName leaves are replaced by
// the NamedType they refer to, interface membership is linked both ways
// (object -> interfaces, interface -> implementing objects), and each
// union's member list is resolved to its object types. It does not
// populate Spec fields; that is Build's job.
func ParseSchema(schemaString string) (*ast.Schema, *errors.QueryError) {
	s := &ast.Schema{
		Types:      builtinSchemaTypes(),
		Directives: builtinDirectives(),
	}

	l := common.NewLexer(schemaString, false)
	l.ConsumeWhitespace()

	var perr *errors.QueryError
	syntaxErr := l.CatchSyntaxError(func() { perr = parseSchemaBody(s, l) })
	if syntaxErr != nil {
		return nil, syntaxErr
	}
	if perr != nil {
		return nil, perr
	}

	if err := linkSchema(s); err != nil {
		return nil, err
	}
	s.SchemaString = schemaString
	return s, nil
}

func builtinSchemaTypes() map[string]ast.NamedType {
	m := make(map[string]ast.NamedType, 5)
	for name, scalar := range builtinScalars() {
		m[name] = scalar
	}
	return m
}

func parseSchemaBody(s *ast.Schema, l *common.Lexer) *errors.QueryError {
	var rootNames map[string]ast.Ident
	for l.Peek() != scanner.EOF {
		desc := l.DescComment()
		switch x := l.ConsumeIdent(); x {
		case "schema":
			rootNames = make(map[string]ast.Ident)
			s.SchemaDefinition.Present = true
			s.SchemaDefinition.Desc = desc
			s.SchemaDefinition.Loc = l.Location()
			s.SchemaDefinition.EntryPointNames = make(map[string]string)
			l.ConsumeToken('{')
			for l.Peek() != '}' {
				opIdent := l.ConsumeIdentWithLoc()
				l.ConsumeToken(':')
				typeIdent := l.ConsumeIdentWithLoc()
				if err := validateRootOperationName(opIdent.Name, opIdent.Loc, rootNames); err != nil {
					return err
				}
				rootNames[opIdent.Name] = ast.Ident(typeIdent)
				s.SchemaDefinition.EntryPointNames[opIdent.Name] = typeIdent.Name
			}
			l.ConsumeToken('}')
		case "type":
			obj := parseObjectDecl(l)
			obj.Desc = desc
			if err := declareType(s, obj); err != nil {
				return err
			}
			s.Objects = append(s.Objects, obj)
		case "interface":
			intf := parseInterfaceDecl(l)
			intf.Desc = desc
			if err := declareType(s, intf); err != nil {
				return err
			}
		case "union":
			union := parseUnionDecl(l)
			union.Desc = desc
			if err := declareType(s, union); err != nil {
				return err
			}
			s.Unions = append(s.Unions, union)
		case "enum":
			enum := parseEnumDecl(l)
			enum.Desc = desc
			if err := declareType(s, enum); err != nil {
				return err
			}
			s.Enums = append(s.Enums, enum)
		case "input":
			input := parseInputDecl(l)
			input.Desc = desc
			if err := declareType(s, input); err != nil {
				return err
			}
		case "scalar":
			return errors.Errorf("custom scalar declarations are not supported; remove %q", l.Location())
		case "directive":
			directive := parseDirectiveDecl(l)
			directive.Desc = desc
			if err := declareDirective(s, directive); err != nil {
				return err
			}
		default:
			l.SyntaxError(fmt.Sprintf(`unexpected %q, expecting "schema", "type", "enum", "interface", "union", "input" or "directive"`, x))
		}
	}
	return nil
}

func validateRootOperationName(name string, loc errors.Location, seen map[string]ast.Ident) *errors.QueryError {
	switch name {
	case "query", "mutation", "subscription":
		if prev, ok := seen[name]; ok {
			return &errors.QueryError{
				Message:   fmt.Sprintf("%q root operation type provided more than once", name),
				Locations: []errors.Location{prev.Loc, loc},
			}
		}
		return nil
	default:
		return &errors.QueryError{
			Message:   fmt.Sprintf(`unexpected %q, expected "query", "mutation" or "subscription"`, name),
			Locations: []errors.Location{loc},
		}
	}
}

func declareType(s *ast.Schema, t ast.NamedType) *errors.QueryError {
	name := t.TypeName()
	if strings.HasPrefix(name, "__") {
		return &errors.QueryError{
			Message:   fmt.Sprintf(`%q must not begin with "__"`, name),
			Locations: []errors.Location{t.Location()},
		}
	}
	if prev, ok := s.Types[name]; ok {
		return &errors.QueryError{
			Message:   fmt.Sprintf("%q defined more than once", name),
			Locations: []errors.Location{prev.Location(), t.Location()},
		}
	}
	s.Types[name] = t
	return nil
}

func declareDirective(s *ast.Schema, d *ast.DirectiveDefinition) *errors.QueryError {
	if s.Directives == nil {
		s.Directives = make(map[string]*ast.DirectiveDefinition)
	}
	if prev, ok := s.Directives[d.Name]; ok {
		return &errors.QueryError{
			Message:   fmt.Sprintf("directive %q defined more than once", d.Name),
			Locations: []errors.Location{prev.Loc, d.Loc},
		}
	}
	s.Directives[d.Name] = d
	return nil
}

func parseObjectDecl(l *common.Lexer) *ast.ObjectTypeDefinition {
	o := &ast.ObjectTypeDefinition{}
	ident := l.ConsumeIdentWithLoc()
	o.Name = ident.Name
	o.Loc = ident.Loc
	if l.Peek() == scanner.Ident {
		l.ConsumeKeyword("implements")
		if l.Peek() == '&' {
			l.ConsumeToken('&')
		}
		for {
			o.InterfaceNames = append(o.InterfaceNames, l.ConsumeIdent())
			if l.Peek() != '&' {
				break
			}
			l.ConsumeToken('&')
		}
	}
	common.ParseDirectives(l)
	l.ConsumeToken('{')
	o.Fields = parseFieldDefs(l)
	l.ConsumeToken('}')
	return o
}

func parseInterfaceDecl(l *common.Lexer) *ast.InterfaceTypeDefinition {
	i := &ast.InterfaceTypeDefinition{}
	ident := l.ConsumeIdentWithLoc()
	i.Name = ident.Name
	i.Loc = ident.Loc
	common.ParseDirectives(l)
	l.ConsumeToken('{')
	i.Fields = parseFieldDefs(l)
	l.ConsumeToken('}')
	return i
}

func parseUnionDecl(l *common.Lexer) *ast.Union {
	u := &ast.Union{}
	ident := l.ConsumeIdentWithLoc()
	u.Name = ident.Name
	u.Loc = ident.Loc
	l.ConsumeToken('=')
	u.TypeNames = []string{l.ConsumeIdent()}
	for l.Peek() == '|' {
		l.ConsumeToken('|')
		u.TypeNames = append(u.TypeNames, l.ConsumeIdent())
	}
	return u
}

func parseInputDecl(l *common.Lexer) *ast.InputObjectTypeDefinition {
	i := &ast.InputObjectTypeDefinition{}
	ident := l.ConsumeIdentWithLoc()
	i.Name = ident.Name
	i.Loc = ident.Loc
	l.ConsumeToken('{')
	for l.Peek() != '}' {
		i.Values = append(i.Values, common.ParseInputValue(l))
	}
	l.ConsumeToken('}')
	return i
}

func parseEnumDecl(l *common.Lexer) *ast.EnumTypeDefinition {
	e := &ast.EnumTypeDefinition{}
	ident := l.ConsumeIdentWithLoc()
	e.Name = ident.Name
	e.Loc = ident.Loc
	l.ConsumeToken('{')
	for l.Peek() != '}' {
		v := &ast.EnumValue{}
		v.Desc = l.DescComment()
		v.Name = ast.Ident(l.ConsumeIdentWithLoc())
		v.Directives = common.ParseDirectives(l)
		e.Values = append(e.Values, v)
	}
	l.ConsumeToken('}')
	return e
}

func parseDirectiveDecl(l *common.Lexer) *ast.DirectiveDefinition {
	d := &ast.DirectiveDefinition{}
	l.ConsumeToken('@')
	ident := l.ConsumeIdentWithLoc()
	d.Name = ident.Name
	d.Loc = ident.Loc
	d.Args = common.ParseArgumentDeclList(l)
	l.ConsumeKeyword("on")
	for {
		loc := l.ConsumeIdent()
		d.Locs = append(d.Locs, loc)
		if l.Peek() != '|' {
			break
		}
		l.ConsumeToken('|')
	}
	return d
}

func parseFieldDefs(l *common.Lexer) ast.FieldDefinitionList {
	var fields ast.FieldDefinitionList
	for l.Peek() != '}' {
		f := &ast.FieldDefinition{}
		f.Desc = l.DescComment()
		f.Name = ast.Ident(l.ConsumeIdentWithLoc())
		f.Args = common.ParseArgumentDeclList(l)
		l.ConsumeToken(':')
		f.Type = common.ParseType(l)
		f.Directives = common.ParseDirectives(l)
		fields = append(fields, f)
	}
	return fields
}

// linkSchema resolves every TypeName leaf to its declaration, links
// interface<->object membership, union membership, and the schema's root
// operation types. Runs after the full type map is populated so forward
// references (a field typed after its declaration) resolve correctly.
func linkSchema(s *ast.Schema) *errors.QueryError {
	for _, t := range s.Types {
		switch t := t.(type) {
		case *ast.ObjectTypeDefinition:
			if err := resolveFields(s, t.Fields); err != nil {
				return err
			}
			t.Interfaces = make([]*ast.InterfaceTypeDefinition, len(t.InterfaceNames))
			for i, name := range t.InterfaceNames {
				nt, ok := s.Types[name]
				if !ok {
					return errors.Errorf("interface %q not found", name)
				}
				intf, ok := nt.(*ast.InterfaceTypeDefinition)
				if !ok {
					return errors.Errorf("type %q is not an interface", name)
				}
				t.Interfaces[i] = intf
				intf.PossibleTypes = append(intf.PossibleTypes, t)
			}
		case *ast.InterfaceTypeDefinition:
			if err := resolveFields(s, t.Fields); err != nil {
				return err
			}
		case *ast.InputObjectTypeDefinition:
			if err := resolveInputValues(s, t.Values); err != nil {
				return err
			}
		}
	}

	for _, u := range s.Unions {
		u.PossibleTypes = make([]*ast.ObjectTypeDefinition, len(u.TypeNames))
		for i, name := range u.TypeNames {
			nt, ok := s.Types[name]
			if !ok {
				return errors.Errorf("object type %q not found", name)
			}
			obj, ok := nt.(*ast.ObjectTypeDefinition)
			if !ok {
				return errors.Errorf("type %q is not an object", name)
			}
			u.PossibleTypes[i] = obj
		}
	}

	for _, d := range s.Directives {
		if err := resolveInputValues(s, d.Args); err != nil {
			return err
		}
	}

	if s.SchemaDefinition.Present {
		s.SchemaDefinition.RootOperationTypes = make(map[string]ast.NamedType)
		for opName, typeName := range s.SchemaDefinition.EntryPointNames {
			nt, ok := s.Types[typeName]
			if !ok {
				return errors.Errorf("type %q not found", typeName)
			}
			s.SchemaDefinition.RootOperationTypes[opName] = nt
		}
	} else if query, ok := s.Types["Query"]; ok {
		s.SchemaDefinition.RootOperationTypes = map[string]ast.NamedType{"query": query}
		if mutation, ok := s.Types["Mutation"]; ok {
			s.SchemaDefinition.RootOperationTypes["mutation"] = mutation
		}
		if sub, ok := s.Types["Subscription"]; ok {
			s.SchemaDefinition.RootOperationTypes["subscription"] = sub
		}
	} else {
		return errors.Errorf("no root query type found, either declare a Query type or provide a schema block")
	}

	return nil
}

func resolveFields(s *ast.Schema, fields ast.FieldDefinitionList) *errors.QueryError {
	for _, f := range fields {
		t, err := common.ResolveType(f.Type, s.Resolve)
		if err != nil {
			return err
		}
		f.Type = t
		if err := resolveInputValues(s, f.Args); err != nil {
			return err
		}
	}
	return nil
}

func resolveInputValues(s *ast.Schema, values ast.InputValueList) *errors.QueryError {
	for _, v := range values {
		t, err := common.ResolveType(v.Type, s.Resolve)
		if err != nil {
			return err
		}
		v.Type = t
	}
	return nil
}
