// Package lexer converts Rust contract source text into a stream of tokens.
//
// The lexer handles the surface subset of Rust used by Stylus contracts:
// items, attributes, macros, paths, literals, and the operator set. It is not
// a complete Rust lexer; the grammar is fixed to what the analyzer consumes.
package lexer

import (
	"fmt"
	"strings"

	"github.com/inkwell-tools/inkwell/token"
)

// Lexer is used to tokenize an input string. Retrieve one token at a time by
// calling Next().
type Lexer struct {
	// The input string provided to the lexer.
	input string

	// Byte offset of the current character.
	position int

	// Byte offset of the next character to read.
	readPosition int

	// The current character.
	ch rune

	// Current 0-indexed line number.
	line int

	// Byte offset of the start of the current line.
	lineStart int

	// Current 0-indexed column number.
	column int

	// Optional filename associated with the input.
	filename string
}

// New returns a Lexer for the given input string.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 0, column: -1}
	l.readChar()
	return l
}

// SetFilename sets the filename associated with the lexer input.
func (l *Lexer) SetFilename(filename string) {
	l.filename = filename
}

// Filename returns the filename associated with the lexer input.
func (l *Lexer) Filename() string {
	return l.filename
}

// Source returns the complete input string.
func (l *Lexer) Source() string {
	return l.input
}

// Slice returns the raw source text between two positions. Used by the parser
// to capture macro bodies and match patterns verbatim.
func (l *Lexer) Slice(start, end token.Position) string {
	if start.Char < 0 || end.Char > len(l.input) || start.Char > end.Char {
		return ""
	}
	return l.input[start.Char:end.Char]
}

// GetLineText returns the text of the line that contains the given token.
func (l *Lexer) GetLineText(tok token.Token) string {
	lineStart := tok.StartPosition.LineStart
	if lineStart < 0 || lineStart >= len(l.input) {
		return ""
	}
	lineEnd := strings.IndexRune(l.input[lineStart:], '\n')
	if lineEnd == -1 {
		return l.input[lineStart:]
	}
	return l.input[lineStart : lineStart+lineEnd]
}

// Next returns the next token from the input, advancing the lexer.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespaceAndComments()

	pos := l.curPosition()
	var tok token.Token

	switch l.ch {
	case rune(0):
		return l.newToken(token.EOF, pos, ""), nil
	case '=':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = l.newToken(token.EQ, pos, "==")
		case '>':
			l.readChar()
			tok = l.newToken(token.FAT_ARROW, pos, "=>")
		default:
			tok = l.newToken(token.ASSIGN, pos, "=")
		}
	case '+':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.PLUS_EQUALS, pos, "+=")
		} else {
			tok = l.newToken(token.PLUS, pos, "+")
		}
	case '-':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = l.newToken(token.MINUS_EQUALS, pos, "-=")
		case '>':
			l.readChar()
			tok = l.newToken(token.ARROW, pos, "->")
		default:
			tok = l.newToken(token.MINUS, pos, "-")
		}
	case '*':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.ASTERISK_EQUALS, pos, "*=")
		} else {
			tok = l.newToken(token.ASTERISK, pos, "*")
		}
	case '/':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.SLASH_EQUALS, pos, "/=")
		} else {
			tok = l.newToken(token.SLASH, pos, "/")
		}
	case '%':
		tok = l.newToken(token.PERCENT, pos, "%")
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.NOT_EQ, pos, "!=")
		} else {
			tok = l.newToken(token.BANG, pos, "!")
		}
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = l.newToken(token.LT_EQUALS, pos, "<=")
		case '<':
			l.readChar()
			tok = l.newToken(token.LT_LT, pos, "<<")
		default:
			tok = l.newToken(token.LT, pos, "<")
		}
	case '>':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = l.newToken(token.GT_EQUALS, pos, ">=")
		case '>':
			l.readChar()
			tok = l.newToken(token.GT_GT, pos, ">>")
		default:
			tok = l.newToken(token.GT, pos, ">")
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = l.newToken(token.AND, pos, "&&")
		} else {
			tok = l.newToken(token.AMPERSAND, pos, "&")
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = l.newToken(token.OR, pos, "||")
		} else {
			tok = l.newToken(token.PIPE, pos, "|")
		}
	case '^':
		tok = l.newToken(token.CARET, pos, "^")
	case ':':
		if l.peekChar() == ':' {
			l.readChar()
			tok = l.newToken(token.COLON_COLON, pos, "::")
		} else {
			tok = l.newToken(token.COLON, pos, ":")
		}
	case ';':
		tok = l.newToken(token.SEMICOLON, pos, ";")
	case ',':
		tok = l.newToken(token.COMMA, pos, ",")
	case '.':
		if l.peekChar() == '.' {
			l.readChar()
			if l.peekChar() == '=' {
				l.readChar()
				tok = l.newToken(token.DOT_DOT_EQ, pos, "..=")
			} else {
				tok = l.newToken(token.DOT_DOT, pos, "..")
			}
		} else {
			tok = l.newToken(token.PERIOD, pos, ".")
		}
	case '?':
		tok = l.newToken(token.QUESTION, pos, "?")
	case '#':
		tok = l.newToken(token.HASH, pos, "#")
	case '(':
		tok = l.newToken(token.LPAREN, pos, "(")
	case ')':
		tok = l.newToken(token.RPAREN, pos, ")")
	case '{':
		tok = l.newToken(token.LBRACE, pos, "{")
	case '}':
		tok = l.newToken(token.RBRACE, pos, "}")
	case '[':
		tok = l.newToken(token.LBRACKET, pos, "[")
	case ']':
		tok = l.newToken(token.RBRACKET, pos, "]")
	case '"':
		lit, err := l.readString()
		if err != nil {
			return l.newToken(token.ILLEGAL, pos, lit), err
		}
		tok = l.newToken(token.STRING, pos, lit)
		tok.StartPosition = pos
		tok.EndPosition = l.curPosition()
		l.readChar()
		return tok, nil
	case '\'':
		return l.readCharOrLifetime(pos)
	default:
		if isLetter(l.ch) {
			lit := l.readIdentifier()
			tok = token.Token{
				Type:          token.LookupIdentifier(lit),
				Literal:       lit,
				StartPosition: pos,
				EndPosition:   l.prevPosition(),
			}
			return tok, nil
		}
		if isDigit(l.ch) {
			return l.readNumber(pos)
		}
		err := fmt.Errorf("unexpected character %q", l.ch)
		return l.newToken(token.ILLEGAL, pos, string(l.ch)), err
	}

	l.readChar()
	return tok, nil
}

func (l *Lexer) newToken(typ token.Type, start token.Position, literal string) token.Token {
	return token.Token{
		Type:          typ,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.curPosition(),
	}
}

func (l *Lexer) curPosition() token.Position {
	return token.Position{
		Char:      l.position,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.column,
		File:      l.filename,
	}
}

func (l *Lexer) prevPosition() token.Position {
	p := l.curPosition()
	if p.Column > 0 {
		p.Column--
	}
	if p.Char > 0 {
		p.Char--
	}
	return p
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = rune(0)
		l.position = l.readPosition
		l.column++
		return
	}
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.readPosition
		l.column = 0
	} else {
		l.column++
	}
	l.ch = rune(l.input[l.readPosition])
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return rune(0)
	}
	return rune(l.input[l.readPosition])
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != rune(0) {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar() // '*'
			l.readChar() // first comment char
			depth := 1
			for depth > 0 && l.ch != rune(0) {
				if l.ch == '/' && l.peekChar() == '*' {
					depth++
					l.readChar()
				} else if l.ch == '*' && l.peekChar() == '/' {
					depth--
					l.readChar()
				}
				l.readChar()
			}
			continue
		}
		return
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads an integer or float literal. Underscore separators, hex
// prefixes, and type suffixes ("10_000u64", "0xa9059cbb") are kept in the
// literal text.
func (l *Lexer) readNumber(start token.Position) (token.Token, error) {
	begin := l.position
	isFloat := false
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		if l.ch == '.' && isDigit(l.peekChar()) {
			isFloat = true
			l.readChar()
			for isDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
		}
		// Type suffix, e.g. u64 or usize
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
	}
	lit := l.input[begin:l.position]
	typ := token.INT
	if isFloat {
		typ = token.FLOAT
	}
	return token.Token{
		Type:          typ,
		Literal:       lit,
		StartPosition: start,
		EndPosition:   l.prevPosition(),
	}, nil
}

// readString reads a double-quoted string literal body, handling escapes.
// The current character is the opening quote on entry and the closing quote
// on successful return.
func (l *Lexer) readString() (string, error) {
	var sb strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case rune(0):
			return sb.String(), fmt.Errorf("unterminated string literal")
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			case '0':
				sb.WriteRune(0)
			default:
				sb.WriteRune(l.ch)
			}
		case '"':
			return sb.String(), nil
		default:
			sb.WriteRune(l.ch)
		}
	}
}

// readCharOrLifetime disambiguates a char literal ('a') from a lifetime
// ('a, 'static) by looking for the closing quote.
func (l *Lexer) readCharOrLifetime(start token.Position) (token.Token, error) {
	l.readChar() // past the opening quote
	if isLetter(l.ch) && l.peekChar() != '\'' {
		lit := l.readIdentifier()
		return token.Token{
			Type:          token.LIFETIME,
			Literal:       "'" + lit,
			StartPosition: start,
			EndPosition:   l.prevPosition(),
		}, nil
	}
	ch := l.ch
	if ch == '\\' {
		l.readChar()
		ch = l.ch
	}
	l.readChar()
	if l.ch != '\'' {
		return token.Token{}, fmt.Errorf("unterminated character literal")
	}
	tok := token.Token{
		Type:          token.STRING,
		Literal:       string(ch),
		StartPosition: start,
		EndPosition:   l.curPosition(),
	}
	l.readChar()
	return tok, nil
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
