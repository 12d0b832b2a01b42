// Package parser generates the abstract syntax tree (AST) for a Stylus
// contract source file.
//
// A parser is created by calling New() with a lexer as input. The parser
// should then be used only once, by calling parser.Parse() to produce the AST.
package parser

import (
	"context"
	"fmt"

	"github.com/inkwell-tools/inkwell/ast"
	"github.com/inkwell-tools/inkwell/internal/lexer"
	"github.com/inkwell-tools/inkwell/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parse the provided input as contract source code and return the AST. This
// is a shorthand way to create a Lexer and Parser and then call Parse on that.
func Parse(ctx context.Context, input string, options ...Option) (*ast.File, error) {
	// Extract filename from options before creating the parser, so that lexer
	// errors in the first tokens have proper location context.
	var filename string
	for _, opt := range options {
		var probe Parser
		opt(&probe)
		if probe.filename != "" {
			filename = probe.filename
			break
		}
	}

	l := lexer.New(input)
	if filename != "" {
		l.SetFilename(filename)
	}

	p := New(l, options...)
	return p.Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name for the parser input.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// l is our lexer
	l *lexer.Lexer

	// prevToken holds the previous token, which we already processed.
	prevToken token.Token

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// parsing errors collected during parsing
	errors []ParserError

	// itemErrorCount tracks error count at start of the current item.
	// Used by inner methods to detect if an error was added during this item.
	itemErrorCount int

	// prefixParseFns holds a map of parsing methods for
	// prefix-based syntax.
	prefixParseFns map[token.Type]prefixParseFn

	// infixParseFns holds a map of parsing methods for
	// infix-based syntax.
	infixParseFns map[token.Type]infixParseFn

	// noStruct is non-zero while parsing a condition or match head, where
	// a brace starts the body rather than a struct literal.
	noStruct int

	// The filename of the input
	filename string

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}

	// Prime the token pump
	p.nextToken() // makes curToken=<empty>, peekToken=token[0]
	p.nextToken() // makes curToken=token[0], peekToken=token[1]

	// Register prefix-functions
	p.registerPrefix(token.AMPERSAND, p.parseRef)
	p.registerPrefix(token.ASTERISK, p.parsePrefixExpr)
	p.registerPrefix(token.BANG, p.parsePrefixExpr)
	p.registerPrefix(token.DOT_DOT, p.parseOpenRange)
	p.registerPrefix(token.EOF, p.illegalToken)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.FLOAT, p.parseFloat)
	p.registerPrefix(token.IDENT, p.parseIdentExpr)
	p.registerPrefix(token.IF, p.parseIfExpr)
	p.registerPrefix(token.ILLEGAL, p.illegalToken)
	p.registerPrefix(token.INT, p.parseInt)
	p.registerPrefix(token.LBRACKET, p.parseArray)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.MATCH, p.parseMatchExpr)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.OR, p.parseEmptyClosure)
	p.registerPrefix(token.PIPE, p.parseClosure)
	p.registerPrefix(token.SELF, p.parseIdentExpr)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.TRUE, p.parseBoolean)

	// Register infix functions
	p.registerInfix(token.AMPERSAND, p.parseInfixExpr)
	p.registerInfix(token.AND, p.parseInfixExpr)
	p.registerInfix(token.AS, p.parseCast)
	p.registerInfix(token.ASSIGN, p.parseAssign)
	p.registerInfix(token.ASTERISK, p.parseInfixExpr)
	p.registerInfix(token.ASTERISK_EQUALS, p.parseAssign)
	p.registerInfix(token.BANG, p.parseMacroExpr)
	p.registerInfix(token.CARET, p.parseInfixExpr)
	p.registerInfix(token.COLON_COLON, p.parsePathSegment)
	p.registerInfix(token.DOT_DOT, p.parseRange)
	p.registerInfix(token.DOT_DOT_EQ, p.parseRange)
	p.registerInfix(token.EQ, p.parseInfixExpr)
	p.registerInfix(token.GT, p.parseInfixExpr)
	p.registerInfix(token.GT_EQUALS, p.parseInfixExpr)
	p.registerInfix(token.GT_GT, p.parseInfixExpr)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.LT, p.parseInfixExpr)
	p.registerInfix(token.LT_EQUALS, p.parseInfixExpr)
	p.registerInfix(token.LT_LT, p.parseInfixExpr)
	p.registerInfix(token.MINUS, p.parseInfixExpr)
	p.registerInfix(token.MINUS_EQUALS, p.parseAssign)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpr)
	p.registerInfix(token.OR, p.parseInfixExpr)
	p.registerInfix(token.PERCENT, p.parseInfixExpr)
	p.registerInfix(token.PERIOD, p.parsePeriod)
	p.registerInfix(token.PIPE, p.parseInfixExpr)
	p.registerInfix(token.PLUS, p.parseInfixExpr)
	p.registerInfix(token.PLUS_EQUALS, p.parseAssign)
	p.registerInfix(token.QUESTION, p.parseTry)
	p.registerInfix(token.SLASH, p.parseInfixExpr)
	p.registerInfix(token.SLASH_EQUALS, p.parseAssign)

	return p
}

// advanceToken moves to the next token from the lexer without error checking.
// Used internally by synchronize() during error recovery.
func (p *Parser) advanceToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken, _ = p.l.Next()
}

// nextToken moves to the next token from the lexer, updating all of
// prevToken, curToken, and peekToken.
func (p *Parser) nextToken() error {
	var err error
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken, err = p.l.Next()
	if err == nil {
		return nil // success
	}
	// The lexer encountered an error. We consider all lexer errors
	// "syntax errors" and parsing will now be considered broken.
	p.addError(NewSyntaxError(ErrorOpts{
		Cause:         err,
		File:          p.l.Filename(),
		StartPosition: p.peekToken.StartPosition,
		EndPosition:   p.peekToken.EndPosition,
		SourceCode:    p.l.GetLineText(p.peekToken),
	}))
	return err
}

// Parse the file that is provided via the lexer.
// Returns the AST and any errors encountered. If there are errors, the AST
// may be partial (containing only successfully parsed items).
func (p *Parser) Parse(ctx context.Context) (*ast.File, error) {
	p.ctx = ctx
	// It's possible for errors to already exist because we read tokens from
	// the lexer in the constructor.
	if p.hasErrors() {
		return nil, NewErrors(p.errors)
	}
	// Parse the entire input as a series of items. When an item fails, we
	// synchronize and continue to collect more errors.
	var items []ast.Item
	for p.curToken.Type != token.EOF {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if p.tooManyErrors() {
			break
		}
		// Track error count for this item so inner methods can detect new errors
		p.itemErrorCount = len(p.errors)
		item := p.parseItem()
		if item != nil {
			items = append(items, item)
		} else if p.hadNewError() {
			p.synchronize()
		}
		p.nextToken()
	}
	if p.hasErrors() {
		return &ast.File{Items: items}, NewErrors(p.errors)
	}
	return &ast.File{Items: items}, nil
}

// registerPrefix registers a function for handling a prefix-based expression.
func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers a function for handling an infix-based expression.
func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// addError appends an error to the errors slice.
func (p *Parser) addError(err ParserError) {
	p.errors = append(p.errors, err)
}

// hasErrors returns true if any errors have been recorded.
func (p *Parser) hasErrors() bool {
	return len(p.errors) > 0
}

// tooManyErrors returns true if error limit has been reached.
func (p *Parser) tooManyErrors() bool {
	return len(p.errors) >= MaxErrors
}

// hadNewError returns true if an error was added during the current item.
func (p *Parser) hadNewError() bool {
	return len(p.errors) > p.itemErrorCount
}

// synchronize skips tokens until an item boundary is reached.
// This is used for error recovery to continue parsing after an error.
func (p *Parser) synchronize() {
	depth := 0
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
			if depth <= 0 {
				return
			}
		case token.USE, token.STRUCT, token.IMPL, token.FN, token.PUB:
			if depth <= 0 {
				return
			}
		}
		prevPos := p.curToken.StartPosition
		p.advanceToken()
		// Safety: if we didn't advance (lexer stuck), bail out
		if p.curToken.StartPosition == prevPos {
			return
		}
	}
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	p.addError(NewParserError(ErrorOpts{
		ErrType:       "parse error",
		Message:       fmt.Sprintf("invalid syntax (unexpected %q)", t.Literal),
		File:          p.l.Filename(),
		StartPosition: t.StartPosition,
		EndPosition:   t.EndPosition,
		SourceCode:    p.l.GetLineText(t),
	}))
}

// peekError raises an error if the next token is not the expected type.
func (p *Parser) peekError(context string, expected token.Type, got token.Token) {
	gotDesc := tokenDescription(got)
	expDesc := tokenTypeDescription(expected)
	p.addError(NewParserError(ErrorOpts{
		ErrType: "parse error",
		Message: fmt.Sprintf("unexpected %s while parsing %s (expected %s)",
			gotDesc, context, expDesc),
		File:          p.l.Filename(),
		StartPosition: got.StartPosition,
		EndPosition:   got.EndPosition,
		SourceCode:    p.l.GetLineText(got),
	}))
}

func (p *Parser) setError(err ParserError) {
	p.addError(err)
}

// cancelled checks if the parsing context has been cancelled.
// Returns true if cancelled, in which case parsing should stop.
func (p *Parser) cancelled() bool {
	if p.ctx == nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		p.setError(NewParserError(ErrorOpts{
			ErrType: "context error",
			Message: p.ctx.Err().Error(),
		}))
		return true
	default:
		return false
	}
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	if p.curToken.Type == token.EOF || p.hadNewError() {
		return nil
	}
	// Check recursion depth
	p.depth++
	if p.depth > p.maxDepth {
		p.setTokenError(p.curToken, "maximum nesting depth exceeded")
		p.depth--
		return nil
	}
	defer func() { p.depth-- }()

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if p.hadNewError() || leftExp == nil {
		return nil
	}
	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
		leftExp = infix(leftExp)
		if p.hadNewError() {
			break
		}
	}
	return leftExp
}

func (p *Parser) illegalToken() ast.Expr {
	p.setError(NewParserError(ErrorOpts{
		ErrType:       "parse error",
		Message:       fmt.Sprintf("illegal token %s", p.curToken.Literal),
		File:          p.l.Filename(),
		StartPosition: p.curToken.StartPosition,
		EndPosition:   p.curToken.EndPosition,
		SourceCode:    p.l.GetLineText(p.curToken),
	}))
	return nil
}

func (p *Parser) setTokenError(t token.Token, msg string, args ...interface{}) ast.Expr {
	p.setError(NewParserError(ErrorOpts{
		ErrType:       "parse error",
		Message:       fmt.Sprintf(msg, args...),
		File:          p.l.Filename(),
		StartPosition: t.StartPosition,
		EndPosition:   t.EndPosition,
		SourceCode:    p.l.GetLineText(t),
	}))
	return nil
}

// newIdent creates a new Ident node from a token.
func (p *Parser) newIdent(tok token.Token) *ast.Ident {
	return &ast.Ident{NamePos: tok.StartPosition, Name: tok.Literal}
}

// curTokenIs returns true if the current token has the given type.
func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

// peekTokenIs returns true if the next token has the given type.
func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek validates if the next token is of the given type, and advances if
// it is. If it's a different type, then an error is stored.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(context, t, p.peekToken)
	return false
}

// peekPrecedence returns the precedence of the next token.
func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// currentPrecedence returns the precedence of the current token.
func (p *Parser) currentPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// endExclusive returns the position one past the final character of a token.
func endExclusive(tok token.Token) token.Position {
	return tok.EndPosition.Advance(1)
}

// rawSlice returns the verbatim source text from the start of one token
// through the end of another.
func (p *Parser) rawSlice(from, through token.Token) string {
	return p.l.Slice(from.StartPosition, endExclusive(through))
}

// scanBalanced consumes tokens from an opening delimiter (the current token)
// through its matching close, returning the verbatim text including both
// delimiters. On return the current token is the closing delimiter.
func (p *Parser) scanBalanced(context string) (string, bool) {
	open := p.curToken
	depth := 1
	for depth > 0 {
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(open, "unclosed delimiter in %s", context)
			return "", false
		}
		if err := p.nextToken(); err != nil {
			return "", false
		}
		switch p.curToken.Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			depth--
		}
	}
	return p.rawSlice(open, p.curToken), true
}

// skipAngles consumes a balanced generic parameter list. The current token is
// the opening "<" on entry and the closing ">" on exit.
func (p *Parser) skipAngles(context string) bool {
	depth := angleDelta(p.curToken.Type)
	for depth > 0 {
		if p.peekTokenIs(token.EOF) || p.peekTokenIs(token.LBRACE) || p.peekTokenIs(token.SEMICOLON) {
			p.setTokenError(p.curToken, "unclosed generic parameters in %s", context)
			return false
		}
		if err := p.nextToken(); err != nil {
			return false
		}
		depth += angleDelta(p.curToken.Type)
	}
	return true
}

func angleDelta(t token.Type) int {
	switch t {
	case token.LT:
		return 1
	case token.LT_LT:
		return 2
	case token.GT:
		return -1
	case token.GT_GT:
		return -2
	default:
		return 0
	}
}

// rawUntil captures verbatim source text starting at the current token and
// ending just before the first stop token at nesting depth zero. Angle
// brackets nest, so generic types like Map<Address, U256> capture fully.
// On return the current token is the last captured token; the stop token is
// the peek token.
func (p *Parser) rawUntil(context string, stops ...token.Type) (string, bool) {
	isStop := func(t token.Type) bool {
		for _, s := range stops {
			if t == s {
				return true
			}
		}
		return false
	}
	start := p.curToken
	last := p.curToken
	depth := rawDepthDelta(p.curToken.Type)
	for {
		if depth <= 0 && isStop(p.peekToken.Type) {
			return p.rawSlice(start, last), true
		}
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(start, "unterminated %s", context)
			return "", false
		}
		if err := p.nextToken(); err != nil {
			return "", false
		}
		depth += rawDepthDelta(p.curToken.Type)
		last = p.curToken
	}
}

func rawDepthDelta(t token.Type) int {
	if d := bracketDelta(t); d != 0 {
		return d
	}
	return angleDelta(t)
}

func bracketDelta(t token.Type) int {
	switch t {
	case token.LPAREN, token.LBRACKET, token.LBRACE:
		return 1
	case token.RPAREN, token.RBRACKET, token.RBRACE:
		return -1
	default:
		return 0
	}
}
