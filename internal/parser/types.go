package parser

import (
	"github.com/funvibe/typedemand/internal/ast"
	"github.com/funvibe/typedemand/internal/diagnostics"
	"github.com/funvibe/typedemand/internal/token"
)

// Every parse function starts on the first token of its construct and
// returns with curToken on the last one.

func (p *Parser) parseType() ast.Type {
	t := p.parseNonUnionType(true)
	if t == nil {
		return nil
	}

	// Check for Union Type '|'
	if p.peekTokenIs(token.PIPE) {
		types := []ast.Type{t}
		for p.peekTokenIs(token.PIPE) {
			p.nextToken() // consume '|'
			p.nextToken() // move to next type
			nextType := p.parseNonUnionType(true)
			if nextType == nil {
				return nil
			}
			types = append(types, nextType)
		}
		return &ast.UnionType{
			Token: t.GetToken(),
			Types: types,
		}
	}

	return t
}

// parseNonUnionType handles function types and below (no union).
// unionInReturn controls whether a function's return type may be a bare union;
// it is off inside record fields, where '|' introduces the row.
func (p *Parser) parseNonUnionType(unionInReturn bool) ast.Type {
	if p.curTokenIs(token.LPAREN) {
		return p.parseParenType(unionInReturn)
	}

	t := p.parsePrimaryType()
	if t == nil {
		return nil
	}

	// Check for Function Type '->' with a single parameter
	if p.peekTokenIs(token.ARROW) {
		return p.parseFunctionRest(t.GetToken(), []ast.Type{t}, false, unionInReturn)
	}
	return t
}

// parsePrimaryType parses everything that binds tighter than '->'.
func (p *Parser) parsePrimaryType() ast.Type {
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseRecordType()
	case token.AMPERSAND:
		return p.parseReferenceType()
	case token.LPAREN:
		// A parenthesized type used as a reference target or similar: (A -> B)
		return p.parseParenType(true)
	case token.IDENT_UPPER, token.IDENT_LOWER:
		return p.parseTypeApplication()
	default:
		p.curError("a type")
		return nil
	}
}

func (p *Parser) parseFunctionRest(tok token.Token, params []ast.Type, variadic bool, unionInReturn bool) ast.Type {
	p.nextToken() // consume '->'
	p.nextToken() // move to return type

	var retType ast.Type
	if unionInReturn {
		retType = p.parseType()
	} else {
		retType = p.parseNonUnionType(false)
	}
	if retType == nil {
		return nil
	}

	return &ast.FunctionType{
		Token:      tok,
		Parameters: params,
		ReturnType: retType,
		IsVariadic: variadic,
	}
}

// parseParenType parses (), (A), (A,), (A, B) and parameter lists followed by '->'.
func (p *Parser) parseParenType(unionInReturn bool) ast.Type {
	startToken := p.curToken
	p.nextToken() // consume '('

	var types []ast.Type
	variadic := false
	trailingComma := false

	for !p.curTokenIs(token.RPAREN) {
		if variadic {
			// '...' is only allowed on the last element
			p.curError(`")"`)
			return nil
		}
		if p.curTokenIs(token.ELLIPSIS) {
			variadic = true
			p.nextToken() // consume '...'
		}

		t := p.parseType()
		if t == nil {
			return nil
		}
		types = append(types, t)
		trailingComma = false

		if p.peekTokenIs(token.COMMA) {
			p.nextToken() // move to ','
			p.nextToken() // move past ','
			trailingComma = true
			continue
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	if p.peekTokenIs(token.ARROW) {
		return p.parseFunctionRest(startToken, types, variadic, unionInReturn)
	}
	if variadic {
		p.peekError(`"->"`)
		return nil
	}

	// Grouping: (A)
	if len(types) == 1 && !trailingComma {
		return types[0]
	}
	if types == nil {
		types = []ast.Type{}
	}
	return &ast.TupleType{Token: startToken, Types: types}
}

func (p *Parser) parseReferenceType() ast.Type {
	rt := &ast.ReferenceType{Token: p.curToken}

	if p.peekTokenIs(token.REGION) {
		p.nextToken()
		rt.Region, _ = p.curToken.Literal.(string)
	}
	if p.peekTokenIs(token.MUT) {
		p.nextToken()
		rt.Mutable = true
	}
	p.nextToken() // move to referenced type

	elem := p.parsePrimaryType()
	if elem == nil {
		return nil
	}
	rt.Elem = elem
	return rt
}

func (p *Parser) parseRecordType() ast.Type {
	rt := &ast.RecordType{Token: p.curToken, Fields: make(map[string]ast.Type)}
	p.nextToken() // consume {

	for !p.curTokenIs(token.RBRACE) {
		switch {
		case p.curTokenIs(token.PIPE):
			// Row variable: { x: Int | r }
			if !p.peekTokenIs(token.IDENT_LOWER) {
				p.peekError("a row variable")
				return nil
			}
			p.nextToken()
			rt.Row = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
			if !p.expectPeek(token.RBRACE) {
				return nil
			}
			return rt

		case p.curTokenIs(token.ELLIPSIS):
			// Open record: { x: Int, ... }
			rt.IsOpen = true
			if !p.expectPeek(token.RBRACE) {
				return nil
			}
			return rt

		case p.curTokenIs(token.IDENT_LOWER) || p.curTokenIs(token.IDENT_UPPER):
			keyToken := p.curToken
			key := keyToken.Lexeme

			if !p.expectPeek(token.COLON) {
				return nil
			}
			p.nextToken() // consume :

			valType := p.parseNonUnionType(false)
			if valType == nil {
				return nil
			}
			if _, dup := rt.Fields[key]; dup {
				p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrA004, keyToken, "field "+key))
			}
			rt.Fields[key] = valType

			switch {
			case p.peekTokenIs(token.COMMA):
				p.nextToken() // move to ','
				p.nextToken() // move past ','
			case p.peekTokenIs(token.PIPE), p.peekTokenIs(token.RBRACE):
				p.nextToken()
			default:
				p.peekError(`",", "|" or "}"`)
				return nil
			}

		default:
			p.curError("a field name")
			return nil
		}
	}
	return rt
}

func (p *Parser) parseTypeApplication() ast.Type {
	nt := &ast.NamedType{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
	}

	// Check for Generic Arguments <A, B>
	if !p.peekTokenIs(token.LT) {
		return nt
	}
	p.nextToken() // move to <
	p.nextToken() // move to first type arg

	for {
		arg := p.parseType()
		if arg == nil {
			return nil
		}
		nt.Args = append(nt.Args, arg)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken() // move to ','
			p.nextToken() // move to next type arg
			continue
		}
		if !p.expectPeek(token.GT) {
			return nil
		}
		return nt
	}
}
