package parser

import (
	"unicode"

	"github.com/inkwell-tools/inkwell/ast"
	"github.com/inkwell-tools/inkwell/token"
)

// Expression parsing methods for the Parser, organized as Pratt parsing
// prefix and infix functions.

func (p *Parser) parseIdentExpr() ast.Expr {
	ident := p.newIdent(p.curToken)
	if p.peekTokenIs(token.COLON_COLON) {
		// Path continues; struct literal check happens on the full path
		return ident
	}
	return p.maybeStructLit(ident)
}

// maybeStructLit checks whether a name expression is followed by a struct
// literal body. Conditions and match heads suppress the check, since there a
// brace opens the body instead.
func (p *Parser) maybeStructLit(name ast.Expr) ast.Expr {
	if p.noStruct > 0 || !p.peekTokenIs(token.LBRACE) {
		return name
	}
	if !isTypeName(name) {
		return name
	}
	return p.parseStructLit(name)
}

// isTypeName reports whether an expression names a type by Rust convention
// (last path segment starts uppercase).
func isTypeName(x ast.Expr) bool {
	var last string
	switch n := x.(type) {
	case *ast.Ident:
		last = n.Name
	case *ast.Path:
		if len(n.Segments) == 0 {
			return false
		}
		last = n.Segments[len(n.Segments)-1]
	default:
		return false
	}
	if last == "" {
		return false
	}
	return unicode.IsUpper(rune(last[0]))
}

func (p *Parser) parseStructLit(name ast.Expr) ast.Expr {
	p.nextToken()
	lit := &ast.StructLit{Path: name, Lbrace: p.curToken.StartPosition}

	// Struct literals may nest freely inside the braces
	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(p.curToken, "unclosed struct literal")
			return nil
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
		if p.curTokenIs(token.DOT_DOT) {
			// Struct update syntax: ..base
			if err := p.nextToken(); err != nil {
				return nil
			}
			base := p.parseExpression(LOWEST)
			if base == nil {
				return nil
			}
			lit.Fields = append(lit.Fields, ast.StructLitField{Name: ".." + base.String()})
		} else {
			if !p.curTokenIs(token.IDENT) {
				return p.setTokenError(p.curToken, "expected field name in struct literal")
			}
			field := ast.StructLitField{Name: p.curToken.Literal}
			if p.peekTokenIs(token.COLON) {
				p.nextToken()
				if err := p.nextToken(); err != nil {
					return nil
				}
				value := p.parseExpression(LOWEST)
				if value == nil {
					return nil
				}
				field.Value = value
			}
			lit.Fields = append(lit.Fields, field)
		}
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken()
	lit.Rbrace = p.curToken.StartPosition
	return lit
}

func (p *Parser) parseInt() ast.Expr {
	return &ast.Int{ValuePos: p.curToken.StartPosition, Literal: p.curToken.Literal}
}

func (p *Parser) parseFloat() ast.Expr {
	return &ast.Float{ValuePos: p.curToken.StartPosition, Literal: p.curToken.Literal}
}

func (p *Parser) parseString() ast.Expr {
	return &ast.String{
		ValuePos: p.curToken.StartPosition,
		Literal:  p.rawSlice(p.curToken, p.curToken),
		Value:    p.curToken.Literal,
	}
}

func (p *Parser) parseBoolean() ast.Expr {
	return &ast.Bool{ValuePos: p.curToken.StartPosition, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	opPos := p.curToken.StartPosition
	op := p.curToken.Literal
	if err := p.nextToken(); err != nil {
		return nil
	}
	x := p.parseExpression(PREFIX)
	if x == nil {
		return nil
	}
	return &ast.Prefix{OpPos: opPos, Op: op, X: x}
}

func (p *Parser) parseRef() ast.Expr {
	ampPos := p.curToken.StartPosition
	mutable := false
	if p.peekTokenIs(token.MUT) {
		mutable = true
		p.nextToken()
	}
	if err := p.nextToken(); err != nil {
		return nil
	}
	x := p.parseExpression(PREFIX)
	if x == nil {
		return nil
	}
	return &ast.Ref{AmpPos: ampPos, Mutable: mutable, X: x}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	lparen := p.curToken.StartPosition
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.Unit{Lparen: lparen, Rparen: p.curToken.StartPosition}
	}

	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	if err := p.nextToken(); err != nil {
		return nil
	}
	x := p.parseExpression(LOWEST)
	if x == nil {
		return nil
	}
	if !p.peekTokenIs(token.COMMA) {
		if !p.expectPeek("grouped expression", token.RPAREN) {
			return nil
		}
		return &ast.Paren{Lparen: lparen, X: x, Rparen: p.curToken.StartPosition}
	}

	// Tuple expression
	exprs := []ast.Expr{x}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
		e := p.parseExpression(LOWEST)
		if e == nil {
			return nil
		}
		exprs = append(exprs, e)
	}
	if !p.expectPeek("tuple expression", token.RPAREN) {
		return nil
	}
	return &ast.Tuple{Lparen: lparen, Exprs: exprs, Rparen: p.curToken.StartPosition}
}

func (p *Parser) parseArray() ast.Expr {
	lbrack := p.curToken.StartPosition
	text, ok := p.scanBalanced("array literal")
	if !ok {
		return nil
	}
	return &ast.Array{Lbrack: lbrack, Text: text, Rbrack: p.curToken.StartPosition}
}

func (p *Parser) parseIfExpr() ast.Expr {
	ifPos := p.curToken.StartPosition
	p.noStruct++
	if err := p.nextToken(); err != nil {
		p.noStruct--
		return nil
	}
	cond := p.parseExpression(LOWEST)
	p.noStruct--
	if cond == nil {
		return nil
	}
	if !p.expectPeek("if expression", token.LBRACE) {
		return nil
	}
	consequence := p.parseBlock()
	if consequence == nil {
		return nil
	}
	expr := &ast.If{IfPos: ifPos, Cond: cond, Consequence: consequence}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			alt := p.parseIfExpr()
			if alt == nil {
				return nil
			}
			expr.Alternative = alt
		} else {
			if !p.expectPeek("else block", token.LBRACE) {
				return nil
			}
			alt := p.parseBlock()
			if alt == nil {
				return nil
			}
			expr.Alternative = alt
		}
	}
	return expr
}

func (p *Parser) parseMatchExpr() ast.Expr {
	matchPos := p.curToken.StartPosition
	p.noStruct++
	if err := p.nextToken(); err != nil {
		p.noStruct--
		return nil
	}
	value := p.parseExpression(LOWEST)
	p.noStruct--
	if value == nil {
		return nil
	}
	if !p.expectPeek("match expression", token.LBRACE) {
		return nil
	}

	expr := &ast.Match{MatchPos: matchPos, Value: value}
	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(p.curToken, "unclosed match expression")
			return nil
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
		arm, ok := p.parseMatchArm()
		if !ok {
			return nil
		}
		expr.Arms = append(expr.Arms, arm)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken()
	expr.Rbrace = p.curToken.StartPosition
	return expr
}

// parseMatchArm reads one "pattern => body" arm. The pattern is captured as
// raw text through the token before "=>".
func (p *Parser) parseMatchArm() (ast.MatchArm, bool) {
	var arm ast.MatchArm
	start := p.curToken
	last := p.curToken
	// Guards may compare with < and >, so only bracket delimiters nest here
	depth := bracketDelta(p.curToken.Type)
	for depth > 0 || !p.peekTokenIs(token.FAT_ARROW) {
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(start, "unterminated match arm")
			return arm, false
		}
		if err := p.nextToken(); err != nil {
			return arm, false
		}
		depth += bracketDelta(p.curToken.Type)
		last = p.curToken
	}
	arm.Pattern = p.rawSlice(start, last)
	p.nextToken() // "=>"

	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		body := p.parseBlock()
		if body == nil {
			return arm, false
		}
		arm.Body = body
		return arm, true
	}
	if err := p.nextToken(); err != nil {
		return arm, false
	}
	body := p.parseExpression(LOWEST)
	if body == nil {
		return arm, false
	}
	arm.Body = body
	return arm, true
}

func (p *Parser) parseClosure() ast.Expr {
	pipePos := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil
	}
	params := ""
	if !p.curTokenIs(token.PIPE) {
		var ok bool
		params, ok = p.rawUntil("closure parameters", token.PIPE)
		if !ok {
			return nil
		}
		if !p.expectPeek("closure", token.PIPE) {
			return nil
		}
	}
	return p.parseClosureBody(pipePos, params)
}

// parseEmptyClosure handles || expr, where the lexer reads the empty
// parameter list as a single token.
func (p *Parser) parseEmptyClosure() ast.Expr {
	return p.parseClosureBody(p.curToken.StartPosition, "")
}

func (p *Parser) parseClosureBody(pipePos token.Position, params string) ast.Expr {
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		body := p.parseBlock()
		if body == nil {
			return nil
		}
		return &ast.Closure{PipePos: pipePos, Params: params, Body: body}
	}
	if err := p.nextToken(); err != nil {
		return nil
	}
	body := p.parseExpression(LOWEST)
	if body == nil {
		return nil
	}
	return &ast.Closure{PipePos: pipePos, Params: params, Body: body}
}

func (p *Parser) parseOpenRange() ast.Expr {
	opPos := p.curToken.StartPosition
	r := &ast.Range{OpPos: opPos}
	if rangeEndsAt(p.peekToken.Type) {
		return r
	}
	if err := p.nextToken(); err != nil {
		return nil
	}
	high := p.parseExpression(RANGE)
	if high == nil {
		return nil
	}
	r.High = high
	return r
}

func rangeEndsAt(t token.Type) bool {
	switch t {
	case token.RBRACKET, token.RPAREN, token.RBRACE, token.LBRACE,
		token.SEMICOLON, token.COMMA, token.EOF:
		return true
	default:
		return false
	}
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	expr := &ast.Infix{
		X:     left,
		OpPos: p.curToken.StartPosition,
		Op:    p.curToken.Literal,
	}
	precedence := p.currentPrecedence()
	if err := p.nextToken(); err != nil {
		return nil
	}
	y := p.parseExpression(precedence)
	if y == nil {
		return nil
	}
	expr.Y = y
	return expr
}

func (p *Parser) parseAssign(left ast.Expr) ast.Expr {
	switch left.(type) {
	case *ast.Ident, *ast.FieldAccess, *ast.Index, *ast.Prefix:
	default:
		return p.setTokenError(p.curToken, "invalid assignment target")
	}
	expr := &ast.Assign{
		Target: left,
		OpPos:  p.curToken.StartPosition,
		Op:     p.curToken.Literal,
	}
	if err := p.nextToken(); err != nil {
		return nil
	}
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	expr.Value = value
	return expr
}

func (p *Parser) parseRange(left ast.Expr) ast.Expr {
	r := &ast.Range{
		Low:       left,
		OpPos:     p.curToken.StartPosition,
		Inclusive: p.curTokenIs(token.DOT_DOT_EQ),
	}
	if rangeEndsAt(p.peekToken.Type) {
		return r
	}
	if err := p.nextToken(); err != nil {
		return nil
	}
	high := p.parseExpression(RANGE)
	if high == nil {
		return nil
	}
	r.High = high
	return r
}

func (p *Parser) parseCall(left ast.Expr) ast.Expr {
	call := &ast.Call{Fun: left, Lparen: p.curToken.StartPosition}
	args, rparen, ok := p.parseCallArgs()
	if !ok {
		return nil
	}
	call.Args = args
	call.Rparen = rparen
	return call
}

// parseCallArgs reads a parenthesized argument list. The current token is
// "(" on entry and ")" on exit.
func (p *Parser) parseCallArgs() ([]ast.Expr, token.Position, bool) {
	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	var args []ast.Expr
	for !p.peekTokenIs(token.RPAREN) {
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(p.curToken, "unclosed argument list")
			return nil, token.NoPos, false
		}
		if err := p.nextToken(); err != nil {
			return nil, token.NoPos, false
		}
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil, token.NoPos, false
		}
		args = append(args, arg)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken()
	return args, p.curToken.StartPosition, true
}

func (p *Parser) parseIndex(left ast.Expr) ast.Expr {
	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	expr := &ast.Index{X: left, Lbrack: p.curToken.StartPosition}
	if err := p.nextToken(); err != nil {
		return nil
	}
	index := p.parseExpression(LOWEST)
	if index == nil {
		return nil
	}
	expr.Index = index
	if !p.expectPeek("index expression", token.RBRACKET) {
		return nil
	}
	expr.Rbrack = p.curToken.StartPosition
	return expr
}

func (p *Parser) parsePeriod(left ast.Expr) ast.Expr {
	period := p.curToken.StartPosition

	// Tuple field access: x.0
	if p.peekTokenIs(token.INT) {
		p.nextToken()
		return &ast.FieldAccess{X: left, Period: period, Name: p.curToken.Literal}
	}
	if !p.expectPeek("member access", token.IDENT) {
		return nil
	}
	name := p.curToken.Literal

	// Method turbofish: .get::<T>() carries no information we keep
	if p.peekTokenIs(token.COLON_COLON) {
		p.nextToken()
		if !p.expectPeek("method type arguments", token.LT) {
			return nil
		}
		if !p.skipAngles("method type arguments") {
			return nil
		}
	}

	if !p.peekTokenIs(token.LPAREN) {
		return &ast.FieldAccess{X: left, Period: period, Name: name}
	}
	p.nextToken()
	call := &ast.MethodCall{X: left, Period: period, Name: name, Lparen: p.curToken.StartPosition}
	args, rparen, ok := p.parseCallArgs()
	if !ok {
		return nil
	}
	call.Args = args
	call.Rparen = rparen
	return call
}

func (p *Parser) parsePathSegment(left ast.Expr) ast.Expr {
	// Turbofish on a call path: U256::from::<u64>(x)
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		if !p.skipAngles("path type arguments") {
			return nil
		}
		return left
	}
	if !p.expectPeek("path", token.IDENT) {
		return nil
	}
	segment := p.curToken.Literal

	var path *ast.Path
	switch n := left.(type) {
	case *ast.Ident:
		path = &ast.Path{StartPos: n.NamePos, Segments: []string{n.Name, segment}}
	case *ast.Path:
		n.Segments = append(n.Segments, segment)
		path = n
	default:
		return p.setTokenError(p.curToken, "invalid path expression")
	}
	if p.peekTokenIs(token.COLON_COLON) {
		// More segments follow
		return path
	}
	return p.maybeStructLit(path)
}

func (p *Parser) parseTry(left ast.Expr) ast.Expr {
	return &ast.Try{X: left, Question: p.curToken.StartPosition}
}

func (p *Parser) parseCast(left ast.Expr) ast.Expr {
	asPos := p.curToken.StartPosition
	if !p.expectPeek("cast type", token.IDENT) {
		return nil
	}
	first := p.curToken
	last := p.curToken
	for p.peekTokenIs(token.COLON_COLON) {
		p.nextToken()
		if !p.expectPeek("cast type", token.IDENT) {
			return nil
		}
		last = p.curToken
	}
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		if !p.skipAngles("cast type") {
			return nil
		}
		last = p.curToken
	}
	return &ast.Cast{
		X:      left,
		AsPos:  asPos,
		Type:   p.rawSlice(first, last),
		EndPos: endExclusive(last),
	}
}

func (p *Parser) parseMacroExpr(left ast.Expr) ast.Expr {
	var path string
	switch n := left.(type) {
	case *ast.Ident:
		path = n.Name
	case *ast.Path:
		path = n.String()
	default:
		return p.setTokenError(p.curToken, "invalid macro path")
	}
	if !p.peekTokenIs(token.LPAREN) && !p.peekTokenIs(token.LBRACKET) && !p.peekTokenIs(token.LBRACE) {
		p.peekError("macro invocation", token.LPAREN, p.peekToken)
		return nil
	}
	p.nextToken()
	args, ok := p.scanBalanced("macro arguments")
	if !ok {
		return nil
	}
	return &ast.MacroExpr{
		PathPos: left.Pos(),
		Path:    path,
		Args:    args,
		EndPos:  endExclusive(p.curToken),
	}
}
