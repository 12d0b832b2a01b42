package ast

import (
	"bytes"

	"github.com/inkwell-tools/inkwell/token"
)

// Block is a brace-delimited sequence of statements.
type Block struct {
	Lbrace token.Position
	Stmts  []Stmt
	Rbrace token.Position
}

func (b *Block) stmtNode() {}
func (b *Block) exprNode() {}

func (b *Block) Pos() token.Position { return b.Lbrace }
func (b *Block) End() token.Position { return b.Rbrace.Advance(1) }

func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, stmt := range b.Stmts {
		out.WriteString(indent(stmt.String()))
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// Let is a let statement with an optional type annotation.
type Let struct {
	LetPos  token.Position
	Mutable bool
	Name    string
	Type    string // raw type text; empty when inferred
	Value   Expr   // nil for uninitialized declarations
	Semi    token.Position
}

func (s *Let) stmtNode() {}

func (s *Let) Pos() token.Position { return s.LetPos }
func (s *Let) End() token.Position { return s.Semi.Advance(1) }

func (s *Let) String() string {
	var out bytes.Buffer
	out.WriteString("let ")
	if s.Mutable {
		out.WriteString("mut ")
	}
	out.WriteString(s.Name)
	if s.Type != "" {
		out.WriteString(": ")
		out.WriteString(s.Type)
	}
	if s.Value != nil {
		out.WriteString(" = ")
		out.WriteString(s.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// ExprStmt is an expression used in statement position. The final expression
// of a block may omit the semicolon, making it the block's value.
type ExprStmt struct {
	X         Expr
	Semicolon bool
	Semi      token.Position
}

func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }

func (s *ExprStmt) End() token.Position {
	if s.Semicolon {
		return s.Semi.Advance(1)
	}
	return s.X.End()
}

func (s *ExprStmt) String() string {
	if s.Semicolon {
		return s.X.String() + ";"
	}
	return s.X.String()
}

// MacroStmt is a macro invocation in statement position, such as
// require!(cond, "msg") or assert!(cond). Arguments are kept as raw text.
type MacroStmt struct {
	PathPos token.Position
	Path    string // macro path before "!"
	Args    string // raw argument text including delimiters
	Semi    token.Position
}

func (s *MacroStmt) stmtNode() {}

func (s *MacroStmt) Pos() token.Position { return s.PathPos }
func (s *MacroStmt) End() token.Position { return s.Semi.Advance(1) }

func (s *MacroStmt) String() string {
	return s.Path + "!" + s.Args + ";"
}

// Return is a return statement with an optional value.
type Return struct {
	ReturnPos token.Position
	Value     Expr // nil when bare
	Semi      token.Position
}

func (s *Return) stmtNode() {}

func (s *Return) Pos() token.Position { return s.ReturnPos }
func (s *Return) End() token.Position { return s.Semi.Advance(1) }

func (s *Return) String() string {
	if s.Value != nil {
		return "return " + s.Value.String() + ";"
	}
	return "return;"
}

// While is a while loop.
type While struct {
	WhilePos token.Position
	Cond     Expr
	Body     *Block
}

func (s *While) stmtNode() {}

func (s *While) Pos() token.Position { return s.WhilePos }
func (s *While) End() token.Position { return s.Body.End() }

func (s *While) String() string {
	return "while " + s.Cond.String() + " " + s.Body.String()
}

// For is a for-in loop.
type For struct {
	ForPos  token.Position
	Pattern string // raw binding pattern text
	Iter    Expr
	Body    *Block
}

func (s *For) stmtNode() {}

func (s *For) Pos() token.Position { return s.ForPos }
func (s *For) End() token.Position { return s.Body.End() }

func (s *For) String() string {
	return "for " + s.Pattern + " in " + s.Iter.String() + " " + s.Body.String()
}

// Loop is an unconditional loop.
type Loop struct {
	LoopPos token.Position
	Body    *Block
}

func (s *Loop) stmtNode() {}

func (s *Loop) Pos() token.Position { return s.LoopPos }
func (s *Loop) End() token.Position { return s.Body.End() }

func (s *Loop) String() string {
	return "loop " + s.Body.String()
}

// RawStmt is a verbatim chunk of generated source in statement position.
// The instrumentor uses it for probe sequences that have no structured
// representation in this grammar (cfg-gated statements).
type RawStmt struct {
	From token.Position
	Text string
}

func (s *RawStmt) stmtNode() {}

func (s *RawStmt) Pos() token.Position { return s.From }
func (s *RawStmt) End() token.Position { return s.From }
func (s *RawStmt) String() string      { return s.Text }
