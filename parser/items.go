package parser

import (
	"github.com/inkwell-tools/inkwell/ast"
	"github.com/inkwell-tools/inkwell/token"
)

// Item parsing methods for the Parser. An item is a top-level declaration:
// a use declaration, struct, impl block, function, constant, or macro
// invocation. Item kinds the analyzer has no structural interest in (enums,
// traits, mod blocks, type aliases) are captured verbatim so instrumented
// output can reproduce the whole file.

func (p *Parser) parseItem() ast.Item {
	if p.cancelled() {
		return nil
	}

	// Inner attributes like #![cfg_attr(...)] apply to the file as a whole.
	if p.curTokenIs(token.HASH) && p.peekTokenIs(token.BANG) {
		return p.parseInnerAttribute()
	}

	firstTok := p.curToken
	attrs := p.parseAttributes()
	if p.hadNewError() {
		return nil
	}

	public := false
	if p.curTokenIs(token.PUB) {
		public = true
		if !p.skipVisibilityModifier() {
			return nil
		}
	}

	switch p.curToken.Type {
	case token.USE:
		return p.parseUse()
	case token.STRUCT:
		return p.parseStruct(firstTok, attrs, public)
	case token.IMPL:
		return p.parseImpl(attrs)
	case token.FN:
		fn := p.parseFn(attrs, public)
		if fn == nil {
			return nil
		}
		return fn
	case token.CONST:
		c := p.parseConstItem(attrs, public)
		if c == nil {
			return nil
		}
		return c
	case token.ENUM, token.TRAIT, token.MOD, token.STATIC:
		return p.parseRawItem(firstTok)
	case token.IDENT:
		if p.curToken.Literal == "type" {
			return p.parseRawItem(firstTok)
		}
		return p.parseMacroItem(attrs)
	default:
		p.setTokenError(p.curToken, "unexpected %s at top level", tokenDescription(p.curToken))
		return nil
	}
}

// parseAttributes collects consecutive outer attributes. On return the
// current token is the first token following the attributes.
func (p *Parser) parseAttributes() []*ast.Attribute {
	var attrs []*ast.Attribute
	for p.curTokenIs(token.HASH) && p.peekTokenIs(token.LBRACKET) {
		hash := p.curToken
		p.nextToken()
		open := p.curToken
		if _, ok := p.scanBalanced("attribute"); !ok {
			return nil
		}
		attrs = append(attrs, &ast.Attribute{
			Hash: hash.StartPosition,
			Text: p.l.Slice(open.StartPosition.Advance(1), p.curToken.StartPosition),
			Rb:   p.curToken.StartPosition,
		})
		if err := p.nextToken(); err != nil {
			return nil
		}
	}
	return attrs
}

// parseInnerAttribute captures #![...] verbatim. The current token is "#".
func (p *Parser) parseInnerAttribute() ast.Item {
	start := p.curToken
	p.nextToken() // "!"
	if !p.expectPeek("inner attribute", token.LBRACKET) {
		return nil
	}
	if _, ok := p.scanBalanced("inner attribute"); !ok {
		return nil
	}
	return &ast.RawItem{
		From:   start.StartPosition,
		Text:   p.rawSlice(start, p.curToken),
		EndPos: endExclusive(p.curToken),
	}
}

// skipVisibilityModifier consumes "pub" and an optional restriction such as
// pub(crate), leaving the current token on what follows.
func (p *Parser) skipVisibilityModifier() bool {
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		if _, ok := p.scanBalanced("visibility modifier"); !ok {
			return false
		}
	}
	return p.nextToken() == nil
}

func (p *Parser) parseUse() ast.Item {
	usePos := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil
	}
	path, ok := p.rawUntil("use declaration", token.SEMICOLON)
	if !ok {
		return nil
	}
	if !p.expectPeek("use declaration", token.SEMICOLON) {
		return nil
	}
	return &ast.Use{UsePos: usePos, Path: path, Semi: p.curToken.StartPosition}
}

func (p *Parser) parseStruct(firstTok token.Token, attrs []*ast.Attribute, public bool) ast.Item {
	structPos := p.curToken.StartPosition
	if !p.expectPeek("struct declaration", token.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		if !p.skipAngles("struct declaration") {
			return nil
		}
	}

	// Unit and tuple structs carry no fields the analyzer cares about;
	// capture them verbatim.
	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.LPAREN) {
		return p.parseRawItem(firstTok)
	}

	if !p.expectPeek("struct declaration", token.LBRACE) {
		return nil
	}

	st := &ast.Struct{
		Attrs:     attrs,
		Public:    public,
		StructPos: structPos,
		Name:      name,
	}
	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(p.curToken, "unclosed struct %s", name)
			return nil
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
		field, ok := p.parseStructField(name)
		if !ok {
			return nil
		}
		st.Fields = append(st.Fields, field)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken()
	st.Rbrace = p.curToken.StartPosition
	return st
}

func (p *Parser) parseStructField(structName string) (ast.StructField, bool) {
	var field ast.StructField
	for p.curTokenIs(token.HASH) {
		if !p.expectPeek("field attribute", token.LBRACKET) {
			return field, false
		}
		open := p.curToken
		if _, ok := p.scanBalanced("field attribute"); !ok {
			return field, false
		}
		field.Attrs = append(field.Attrs, p.l.Slice(open.StartPosition.Advance(1), p.curToken.StartPosition))
		if err := p.nextToken(); err != nil {
			return field, false
		}
	}
	if p.curTokenIs(token.PUB) {
		field.Public = true
		if !p.skipVisibilityModifier() {
			return field, false
		}
	}
	if !p.curTokenIs(token.IDENT) {
		p.setTokenError(p.curToken, "expected field name in struct %s", structName)
		return field, false
	}
	field.NamePos = p.curToken.StartPosition
	field.Name = p.curToken.Literal
	if !p.expectPeek("struct field", token.COLON) {
		return field, false
	}
	if err := p.nextToken(); err != nil {
		return field, false
	}
	typ, ok := p.rawUntil("field type", token.COMMA, token.RBRACE)
	if !ok {
		return field, false
	}
	field.Type = typ
	return field, true
}

func (p *Parser) parseImpl(attrs []*ast.Attribute) ast.Item {
	implPos := p.curToken.StartPosition
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		if !p.skipAngles("impl block") {
			return nil
		}
	}
	first, ok := p.parseTypePath("impl block")
	if !ok {
		return nil
	}

	impl := &ast.Impl{Attrs: attrs, ImplPos: implPos, Name: first}
	if p.peekTokenIs(token.FOR) {
		p.nextToken()
		target, ok := p.parseTypePath("impl target")
		if !ok {
			return nil
		}
		impl.Trait = first
		impl.Name = target
	}
	if !p.expectPeek("impl block", token.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(p.curToken, "unclosed impl block for %s", impl.Name)
			return nil
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
		memberStart := p.curToken
		mattrs := p.parseAttributes()
		if p.hadNewError() {
			return nil
		}
		mpub := false
		if p.curTokenIs(token.PUB) {
			mpub = true
			if !p.skipVisibilityModifier() {
				return nil
			}
		}
		switch p.curToken.Type {
		case token.FN:
			fn := p.parseFn(mattrs, mpub)
			if fn == nil {
				return nil
			}
			impl.Fns = append(impl.Fns, fn)
		case token.CONST:
			c := p.parseConstItem(mattrs, mpub)
			if c == nil {
				return nil
			}
			impl.Consts = append(impl.Consts, c)
		case token.IDENT:
			// Associated types and member macros are kept verbatim
			for !p.curTokenIs(token.SEMICOLON) {
				if p.curTokenIs(token.EOF) {
					p.setTokenError(memberStart, "unterminated member in impl block for %s", impl.Name)
					return nil
				}
				if err := p.nextToken(); err != nil {
					return nil
				}
			}
			impl.Raws = append(impl.Raws, p.rawSlice(memberStart, p.curToken))
		default:
			p.setTokenError(p.curToken, "unexpected %s in impl block for %s",
				tokenDescription(p.curToken), impl.Name)
			return nil
		}
	}
	p.nextToken()
	impl.Rbrace = p.curToken.StartPosition
	return impl
}

// parseTypePath reads a :: separated type path with optional generic
// arguments, starting from the peek token, and returns its verbatim text.
func (p *Parser) parseTypePath(context string) (string, bool) {
	if !p.expectPeek(context, token.IDENT) {
		return "", false
	}
	first := p.curToken
	last := p.curToken
	for p.peekTokenIs(token.COLON_COLON) {
		p.nextToken()
		if !p.expectPeek(context, token.IDENT) {
			return "", false
		}
		last = p.curToken
	}
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		if !p.skipAngles(context) {
			return "", false
		}
		last = p.curToken
	}
	return p.rawSlice(first, last), true
}

func (p *Parser) parseFn(attrs []*ast.Attribute, public bool) *ast.Fn {
	fn := &ast.Fn{
		Attrs:  attrs,
		Public: public,
		FnPos:  p.curToken.StartPosition,
	}
	if !p.expectPeek("function declaration", token.IDENT) {
		return nil
	}
	fn.NamePos = p.curToken.StartPosition
	fn.Name = p.curToken.Literal
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		if !p.skipAngles("function declaration") {
			return nil
		}
	}
	if !p.expectPeek("function parameters", token.LPAREN) {
		return nil
	}
	if !p.parseFnParams(fn) {
		return nil
	}

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		if err := p.nextToken(); err != nil {
			return nil
		}
		ret, ok := p.rawUntil("return type", token.LBRACE, token.WHERE, token.SEMICOLON)
		if !ok {
			return nil
		}
		fn.RetType = ret
	}
	if p.peekTokenIs(token.WHERE) {
		p.nextToken()
		if _, ok := p.rawUntil("where clause", token.LBRACE); !ok {
			return nil
		}
	}

	// Bodyless signatures appear in trait definitions kept for context
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		pos := p.curToken.StartPosition
		fn.Body = &ast.Block{Lbrace: pos, Rbrace: pos}
		return fn
	}
	if !p.expectPeek("function body", token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	fn.Body = body
	return fn
}

// parseFnParams reads the parameter list. The current token is "(" on entry
// and ")" on exit.
func (p *Parser) parseFnParams(fn *ast.Fn) bool {
	for !p.peekTokenIs(token.RPAREN) {
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(p.curToken, "unclosed parameter list for %s", fn.Name)
			return false
		}
		if err := p.nextToken(); err != nil {
			return false
		}

		first := fn.Receiver == nil && len(fn.Params) == 0
		switch {
		case first && p.curTokenIs(token.AMPERSAND):
			recv := &ast.Receiver{Reference: true}
			if p.peekTokenIs(token.LIFETIME) {
				p.nextToken()
			}
			if p.peekTokenIs(token.MUT) {
				recv.Mutable = true
				p.nextToken()
			}
			if !p.expectPeek("receiver", token.SELF) {
				return false
			}
			fn.Receiver = recv
		case first && p.curTokenIs(token.SELF):
			fn.Receiver = &ast.Receiver{}
		case first && p.curTokenIs(token.MUT) && p.peekTokenIs(token.SELF):
			p.nextToken()
			fn.Receiver = &ast.Receiver{}
		default:
			if p.curTokenIs(token.MUT) {
				p.nextToken()
			}
			if !p.curTokenIs(token.IDENT) {
				p.setTokenError(p.curToken, "expected parameter name in %s", fn.Name)
				return false
			}
			param := ast.FnParam{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
			if !p.expectPeek("parameter type", token.COLON) {
				return false
			}
			if err := p.nextToken(); err != nil {
				return false
			}
			typ, ok := p.rawUntil("parameter type", token.COMMA, token.RPAREN)
			if !ok {
				return false
			}
			param.Type = typ
			fn.Params = append(fn.Params, param)
		}
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken()
	return true
}

func (p *Parser) parseConstItem(attrs []*ast.Attribute, public bool) *ast.ConstItem {
	c := &ast.ConstItem{
		Attrs:    attrs,
		Public:   public,
		ConstPos: p.curToken.StartPosition,
	}
	if !p.expectPeek("const declaration", token.IDENT) {
		return nil
	}
	c.Name = p.curToken.Literal
	if !p.expectPeek("const declaration", token.COLON) {
		return nil
	}
	if err := p.nextToken(); err != nil {
		return nil
	}
	typ, ok := p.rawUntil("const type", token.ASSIGN)
	if !ok {
		return nil
	}
	c.Type = typ
	if !p.expectPeek("const declaration", token.ASSIGN) {
		return nil
	}
	if err := p.nextToken(); err != nil {
		return nil
	}
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	c.Value = value
	if !p.expectPeek("const declaration", token.SEMICOLON) {
		return nil
	}
	c.Semi = p.curToken.StartPosition
	return c
}

// parseMacroItem reads a top-level macro invocation such as
// sol_storage! { ... }. The current token is the first path segment.
func (p *Parser) parseMacroItem(attrs []*ast.Attribute) ast.Item {
	first := p.curToken
	last := p.curToken
	for p.peekTokenIs(token.COLON_COLON) {
		p.nextToken()
		if !p.expectPeek("macro invocation", token.IDENT) {
			return nil
		}
		last = p.curToken
	}
	path := p.rawSlice(first, last)
	if !p.expectPeek("macro invocation", token.BANG) {
		return nil
	}
	if !p.peekTokenIs(token.LPAREN) && !p.peekTokenIs(token.LBRACKET) && !p.peekTokenIs(token.LBRACE) {
		p.peekError("macro invocation", token.LBRACE, p.peekToken)
		return nil
	}
	p.nextToken()
	braced := p.curTokenIs(token.LBRACE)
	body, ok := p.scanBalanced("macro body")
	if !ok {
		return nil
	}
	if !braced {
		// Paren and bracket item macros end with a semicolon, which the
		// raw body keeps so the file renders back faithfully.
		if !p.expectPeek("macro invocation", token.SEMICOLON) {
			return nil
		}
		body += ";"
	}
	return &ast.MacroItem{
		Attrs:   attrs,
		PathPos: first.StartPosition,
		Path:    path,
		Body:    body,
		EndPos:  endExclusive(p.curToken),
	}
}

// parseRawItem captures an item verbatim from its first token (which may
// precede the current token when attributes or pub were already consumed)
// through a terminating semicolon or balanced braces.
func (p *Parser) parseRawItem(startTok token.Token) ast.Item {
	depth := 0
	for {
		switch p.curToken.Type {
		case token.LPAREN, token.LBRACKET:
			depth++
		case token.RPAREN, token.RBRACKET:
			depth--
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
			if depth <= 0 {
				return &ast.RawItem{
					From:   startTok.StartPosition,
					Text:   p.rawSlice(startTok, p.curToken),
					EndPos: endExclusive(p.curToken),
				}
			}
		case token.SEMICOLON:
			if depth == 0 {
				return &ast.RawItem{
					From:   startTok.StartPosition,
					Text:   p.rawSlice(startTok, p.curToken),
					EndPos: endExclusive(p.curToken),
				}
			}
		case token.EOF:
			p.setTokenError(startTok, "unterminated item")
			return nil
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
	}
}
