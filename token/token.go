// Package token defines the keywords and tokens used when lexing the Rust
// surface syntax of Stylus contract source files.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes.
// Used for computing End positions from a start position.
// Note: This assumes the advance does not cross line boundaries.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	AMPERSAND       Type = "&"
	AND             Type = "&&"
	ARROW           Type = "->"
	AS              Type = "AS"
	ASSIGN          Type = "="
	ASTERISK        Type = "*"
	ASTERISK_EQUALS Type = "*="
	BANG            Type = "!"
	CARET           Type = "^"
	COLON           Type = ":"
	COLON_COLON     Type = "::"
	COMMA           Type = ","
	CONST           Type = "CONST"
	DOT_DOT         Type = ".."
	DOT_DOT_EQ      Type = "..="
	ELSE            Type = "ELSE"
	ENUM            Type = "ENUM"
	EOF             Type = "EOF"
	EQ              Type = "=="
	FALSE           Type = "FALSE"
	FAT_ARROW       Type = "=>"
	FLOAT           Type = "FLOAT"
	FN              Type = "FN"
	FOR             Type = "FOR"
	GT              Type = ">"
	GT_EQUALS       Type = ">="
	GT_GT           Type = ">>"
	HASH            Type = "#"
	IDENT           Type = "IDENT"
	IF              Type = "IF"
	ILLEGAL         Type = "ILLEGAL"
	IMPL            Type = "IMPL"
	IN              Type = "IN"
	INT             Type = "INT"
	LBRACE          Type = "{"
	LBRACKET        Type = "["
	LET             Type = "LET"
	LIFETIME        Type = "LIFETIME"
	LOOP            Type = "LOOP"
	LPAREN          Type = "("
	LT              Type = "<"
	LT_EQUALS       Type = "<="
	LT_LT           Type = "<<"
	MATCH           Type = "MATCH"
	MINUS           Type = "-"
	MINUS_EQUALS    Type = "-="
	MOD             Type = "MOD"
	MUT             Type = "MUT"
	NOT_EQ          Type = "!="
	OR              Type = "||"
	PERCENT         Type = "%"
	PERIOD          Type = "."
	PIPE            Type = "|"
	PLUS            Type = "+"
	PLUS_EQUALS     Type = "+="
	PUB             Type = "PUB"
	QUESTION        Type = "?"
	RBRACE          Type = "}"
	RBRACKET        Type = "]"
	REF             Type = "REF"
	RETURN          Type = "RETURN"
	RPAREN          Type = ")"
	SELF            Type = "SELF"
	SEMICOLON       Type = ";"
	SLASH           Type = "/"
	SLASH_EQUALS    Type = "/="
	STATIC          Type = "STATIC"
	STRING          Type = "STRING"
	STRUCT          Type = "STRUCT"
	TRAIT           Type = "TRAIT"
	TRUE            Type = "TRUE"
	USE             Type = "USE"
	WHERE           Type = "WHERE"
	WHILE           Type = "WHILE"
)

// Reserved keywords
var keywords = map[string]Type{
	"as":     AS,
	"const":  CONST,
	"else":   ELSE,
	"enum":   ENUM,
	"false":  FALSE,
	"fn":     FN,
	"for":    FOR,
	"if":     IF,
	"impl":   IMPL,
	"in":     IN,
	"let":    LET,
	"loop":   LOOP,
	"match":  MATCH,
	"mod":    MOD,
	"mut":    MUT,
	"pub":    PUB,
	"ref":    REF,
	"return": RETURN,
	"self":   SELF,
	"static": STATIC,
	"struct": STRUCT,
	"trait":  TRAIT,
	"true":   TRUE,
	"use":    USE,
	"where":  WHERE,
	"while":  WHILE,
}

// LookupIdentifier is used to determine whether an identifier is a keyword or not.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}
