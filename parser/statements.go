package parser

import (
	"github.com/inkwell-tools/inkwell/ast"
	"github.com/inkwell-tools/inkwell/token"
)

// Statement parsing methods for the Parser. These parse the statement forms
// that appear inside function bodies: let bindings, returns, loops, and
// expressions in statement position.

// parseBlock reads a brace-delimited statement sequence. The current token is
// "{" on entry and "}" on exit.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Lbrace: p.curToken.StartPosition}
	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(p.curToken, "unclosed block")
			return nil
		}
		if p.cancelled() {
			return nil
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			if p.hadNewError() {
				return nil
			}
			continue
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	p.nextToken()
	block.Rbrace = p.curToken.StartPosition
	return block
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLet()
	case token.RETURN:
		return p.parseReturn()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.LOOP:
		return p.parseLoop()
	case token.IF:
		return p.parseIfStmt()
	case token.MATCH:
		return p.parseMatchStmt()
	case token.HASH:
		return p.parseStmtAttribute()
	case token.SEMICOLON:
		// Stray semicolon
		return nil
	default:
		return p.parseExprStatement()
	}
}

// parseStmtAttribute keeps a statement-level attribute such as
// #[cfg(feature = "...")] verbatim, attached to nothing.
func (p *Parser) parseStmtAttribute() ast.Stmt {
	start := p.curToken
	if !p.expectPeek("statement attribute", token.LBRACKET) {
		return nil
	}
	if _, ok := p.scanBalanced("statement attribute"); !ok {
		return nil
	}
	return &ast.RawStmt{From: start.StartPosition, Text: p.rawSlice(start, p.curToken)}
}

func (p *Parser) parseLet() ast.Stmt {
	stmt := &ast.Let{LetPos: p.curToken.StartPosition}
	if p.peekTokenIs(token.MUT) {
		stmt.Mutable = true
		p.nextToken()
	}
	if !p.expectPeek("let statement", token.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		if err := p.nextToken(); err != nil {
			return nil
		}
		typ, ok := p.rawUntil("type annotation", token.ASSIGN, token.SEMICOLON)
		if !ok {
			return nil
		}
		stmt.Type = typ
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		if err := p.nextToken(); err != nil {
			return nil
		}
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		stmt.Value = value
	}
	if !p.expectPeek("let statement", token.SEMICOLON) {
		return nil
	}
	stmt.Semi = p.curToken.StartPosition
	return stmt
}

func (p *Parser) parseReturn() ast.Stmt {
	stmt := &ast.Return{ReturnPos: p.curToken.StartPosition}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		stmt.Semi = p.curToken.StartPosition
		return stmt
	}
	if err := p.nextToken(); err != nil {
		return nil
	}
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	stmt.Value = value
	if !p.expectPeek("return statement", token.SEMICOLON) {
		return nil
	}
	stmt.Semi = p.curToken.StartPosition
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	whilePos := p.curToken.StartPosition
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
	if !p.expectPeek("while loop", token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.While{WhilePos: whilePos, Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Stmt {
	forPos := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil
	}
	pattern, ok := p.rawUntil("loop pattern", token.IN)
	if !ok {
		return nil
	}
	if !p.expectPeek("for loop", token.IN) {
		return nil
	}
	p.noStruct++
	if err := p.nextToken(); err != nil {
		p.noStruct--
		return nil
	}
	iter := p.parseExpression(LOWEST)
	p.noStruct--
	if iter == nil {
		return nil
	}
	if !p.expectPeek("for loop", token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.For{ForPos: forPos, Pattern: pattern, Iter: iter, Body: body}
}

func (p *Parser) parseLoop() ast.Stmt {
	loopPos := p.curToken.StartPosition
	if !p.expectPeek("loop", token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.Loop{LoopPos: loopPos, Body: body}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	expr := p.parseIfExpr()
	if expr == nil {
		return nil
	}
	return expr.(*ast.If)
}

func (p *Parser) parseMatchStmt() ast.Stmt {
	expr := p.parseMatchExpr()
	if expr == nil {
		return nil
	}
	return expr.(*ast.Match)
}

func (p *Parser) parseExprStatement() ast.Stmt {
	x := p.parseExpression(LOWEST)
	if x == nil {
		return nil
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		semi := p.curToken.StartPosition
		// A macro invocation in statement position gets its own node, so
		// classification can treat require!/assert! style guards directly.
		if m, ok := x.(*ast.MacroExpr); ok {
			return &ast.MacroStmt{PathPos: m.PathPos, Path: m.Path, Args: m.Args, Semi: semi}
		}
		return &ast.ExprStmt{X: x, Semicolon: true, Semi: semi}
	}
	// The final expression of a block may omit the semicolon
	return &ast.ExprStmt{X: x}
}
