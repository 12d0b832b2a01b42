package ast

import (
	"bytes"
	"strings"

	"github.com/inkwell-tools/inkwell/token"
)

// Ident is an expression node that refers to a variable by name. The self
// keyword is represented as an Ident named "self".
type Ident struct {
	NamePos token.Position // position of identifier
	Name    string         // identifier name
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }
func (x *Ident) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

func (x *Ident) String() string { return x.Name }

// Path is a :: separated path expression such as msg::sender or U256::from.
type Path struct {
	StartPos token.Position
	Segments []string
}

func (x *Path) exprNode() {}

func (x *Path) Pos() token.Position { return x.StartPos }
func (x *Path) End() token.Position {
	n := 0
	for _, seg := range x.Segments {
		n += len(seg) + 2
	}
	return x.StartPos.Advance(n - 2)
}

func (x *Path) String() string { return strings.Join(x.Segments, "::") }

// FieldAccess is an expression node that reads a named field of an object,
// such as self.balances.
type FieldAccess struct {
	X      Expr
	Period token.Position // position of "."
	Name   string         // field name
}

func (x *FieldAccess) exprNode() {}

func (x *FieldAccess) Pos() token.Position { return x.X.Pos() }
func (x *FieldAccess) End() token.Position { return x.Period.Advance(len(x.Name) + 1) }

func (x *FieldAccess) String() string { return x.X.String() + "." + x.Name }

// MethodCall is an expression node that invokes a method on a receiver, such
// as self.balances.get(sender).
type MethodCall struct {
	X      Expr
	Period token.Position // position of "."
	Name   string         // method name
	Lparen token.Position
	Args   []Expr
	Rparen token.Position
}

func (x *MethodCall) exprNode() {}

func (x *MethodCall) Pos() token.Position { return x.X.Pos() }
func (x *MethodCall) End() token.Position { return x.Rparen.Advance(1) }

func (x *MethodCall) String() string {
	var out bytes.Buffer
	out.WriteString(x.X.String())
	out.WriteString(".")
	out.WriteString(x.Name)
	out.WriteString("(")
	args := make([]string, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, a.String())
	}
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

// Call is an expression node that describes the invocation of a function by
// path, such as msg::sender() or keccak256(data).
type Call struct {
	Fun    Expr // function expression (Ident or Path)
	Lparen token.Position
	Args   []Expr
	Rparen token.Position
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Fun.Pos() }
func (x *Call) End() token.Position { return x.Rparen.Advance(1) }

func (x *Call) String() string {
	var out bytes.Buffer
	out.WriteString(x.Fun.String())
	out.WriteString("(")
	args := make([]string, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, a.String())
	}
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

// Index is an expression node that describes indexing, such as
// self.holders[i].
type Index struct {
	X      Expr
	Lbrack token.Position
	Index  Expr
	Rbrack token.Position
}

func (x *Index) exprNode() {}

func (x *Index) Pos() token.Position { return x.X.Pos() }
func (x *Index) End() token.Position { return x.Rbrack.Advance(1) }

func (x *Index) String() string {
	return x.X.String() + "[" + x.Index.String() + "]"
}

// Infix is an operator expression with the operator between the operands.
//
// The rendering intentionally omits grouping parentheses: classification
// heuristics check whether a snippet starts with "self.", and wrapping
// operands in parentheses would change which operations are detected.
type Infix struct {
	X     Expr
	OpPos token.Position
	Op    string // operator: "+", "-", ">=", "&&", etc.
	Y     Expr
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() token.Position { return x.X.Pos() }
func (x *Infix) End() token.Position { return x.Y.End() }

func (x *Infix) String() string {
	return x.X.String() + " " + x.Op + " " + x.Y.String()
}

// Assign is an assignment or compound-assignment expression, such as
// self.total_supply += amount.
type Assign struct {
	Target Expr
	OpPos  token.Position
	Op     string // "=", "+=", "-=", "*=", "/="
	Value  Expr
}

func (x *Assign) exprNode() {}

func (x *Assign) Pos() token.Position { return x.Target.Pos() }
func (x *Assign) End() token.Position { return x.Value.End() }

func (x *Assign) String() string {
	return x.Target.String() + " " + x.Op + " " + x.Value.String()
}

// Prefix is an operator expression where the operator precedes the operand,
// such as !done or -x or *ptr.
type Prefix struct {
	OpPos token.Position
	Op    string // "!", "-", "*"
	X     Expr
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Pos() token.Position { return x.OpPos }
func (x *Prefix) End() token.Position { return x.X.End() }

func (x *Prefix) String() string { return x.Op + x.X.String() }

// Ref is a borrow expression: &x or &mut x.
type Ref struct {
	AmpPos  token.Position
	Mutable bool
	X       Expr
}

func (x *Ref) exprNode() {}

func (x *Ref) Pos() token.Position { return x.AmpPos }
func (x *Ref) End() token.Position { return x.X.End() }

func (x *Ref) String() string {
	if x.Mutable {
		return "&mut " + x.X.String()
	}
	return "&" + x.X.String()
}

// Try is the postfix ? operator.
type Try struct {
	X        Expr
	Question token.Position
}

func (x *Try) exprNode() {}

func (x *Try) Pos() token.Position { return x.X.Pos() }
func (x *Try) End() token.Position { return x.Question.Advance(1) }

func (x *Try) String() string { return x.X.String() + "?" }

// Int is an integer literal. The literal text is kept verbatim, including
// underscores, hex prefixes, and type suffixes.
type Int struct {
	ValuePos token.Position
	Literal  string
}

func (x *Int) exprNode() {}

func (x *Int) Pos() token.Position { return x.ValuePos }
func (x *Int) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Int) String() string { return x.Literal }

// Float is a floating point literal.
type Float struct {
	ValuePos token.Position
	Literal  string
}

func (x *Float) exprNode() {}

func (x *Float) Pos() token.Position { return x.ValuePos }
func (x *Float) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Float) String() string { return x.Literal }

// String is an expression node that holds a string or character literal.
type String struct {
	ValuePos token.Position // position of opening quote
	Literal  string         // the raw literal including quotes
	Value    string         // the unquoted string value
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }
func (x *String) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *String) String() string { return x.Literal }

// Bool is a boolean literal.
type Bool struct {
	ValuePos token.Position
	Value    bool
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }
func (x *Bool) End() token.Position {
	if x.Value {
		return x.ValuePos.Advance(4)
	}
	return x.ValuePos.Advance(5)
}

func (x *Bool) String() string {
	if x.Value {
		return "true"
	}
	return "false"
}

// StructLitField is one field initializer in a struct literal.
type StructLitField struct {
	Name  string
	Value Expr // nil for shorthand initialization
}

// StructLit is a struct literal expression such as
// Transfer { from: sender, to, amount }.
type StructLit struct {
	Path   Expr // struct name (Ident or Path)
	Lbrace token.Position
	Fields []StructLitField
	Rbrace token.Position
}

func (x *StructLit) exprNode() {}

func (x *StructLit) Pos() token.Position { return x.Path.Pos() }
func (x *StructLit) End() token.Position { return x.Rbrace.Advance(1) }

func (x *StructLit) String() string {
	var out bytes.Buffer
	out.WriteString(x.Path.String())
	out.WriteString(" { ")
	fields := make([]string, 0, len(x.Fields))
	for _, f := range x.Fields {
		if f.Value != nil {
			fields = append(fields, f.Name+": "+f.Value.String())
		} else {
			fields = append(fields, f.Name)
		}
	}
	out.WriteString(strings.Join(fields, ", "))
	out.WriteString(" }")
	return out.String()
}

// Paren is a parenthesized expression.
type Paren struct {
	Lparen token.Position
	X      Expr
	Rparen token.Position
}

func (x *Paren) exprNode() {}

func (x *Paren) Pos() token.Position { return x.Lparen }
func (x *Paren) End() token.Position { return x.Rparen.Advance(1) }

func (x *Paren) String() string { return "(" + x.X.String() + ")" }

// Unit is the empty tuple expression ().
type Unit struct {
	Lparen token.Position
	Rparen token.Position
}

func (x *Unit) exprNode() {}

func (x *Unit) Pos() token.Position { return x.Lparen }
func (x *Unit) End() token.Position { return x.Rparen.Advance(1) }

func (x *Unit) String() string { return "()" }

// If is an if/else expression.
type If struct {
	IfPos       token.Position
	Cond        Expr
	Consequence *Block
	Alternative Node // *Block, *If for else-if, or nil
}

func (x *If) exprNode() {}
func (x *If) stmtNode() {}

func (x *If) Pos() token.Position { return x.IfPos }
func (x *If) End() token.Position {
	if x.Alternative != nil {
		return x.Alternative.End()
	}
	return x.Consequence.End()
}

func (x *If) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(x.Cond.String())
	out.WriteString(" ")
	out.WriteString(x.Consequence.String())
	if x.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(x.Alternative.String())
	}
	return out.String()
}

// MatchArm is one arm of a match expression. Patterns are kept as raw text:
// the analyzer never needs pattern structure, only the arm bodies.
type MatchArm struct {
	Pattern string
	Body    Node // Expr or *Block
}

// Match is a match expression.
type Match struct {
	MatchPos token.Position
	Value    Expr
	Arms     []MatchArm
	Rbrace   token.Position
}

func (x *Match) exprNode() {}
func (x *Match) stmtNode() {}

func (x *Match) Pos() token.Position { return x.MatchPos }
func (x *Match) End() token.Position { return x.Rbrace.Advance(1) }

func (x *Match) String() string {
	var out bytes.Buffer
	out.WriteString("match ")
	out.WriteString(x.Value.String())
	out.WriteString(" {\n")
	for _, arm := range x.Arms {
		out.WriteString(indent(arm.Pattern + " => " + arm.Body.String() + ","))
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// Array is an array literal such as [0xa9, 0x05, 0x9c, 0xbb] or [0u8; 32].
// The element text is kept verbatim including the brackets.
type Array struct {
	Lbrack token.Position
	Text   string
	Rbrack token.Position
}

func (x *Array) exprNode() {}

func (x *Array) Pos() token.Position { return x.Lbrack }
func (x *Array) End() token.Position { return x.Rbrack.Advance(1) }

func (x *Array) String() string { return x.Text }

// Tuple is a tuple expression such as (a, b).
type Tuple struct {
	Lparen token.Position
	Exprs  []Expr
	Rparen token.Position
}

func (x *Tuple) exprNode() {}

func (x *Tuple) Pos() token.Position { return x.Lparen }
func (x *Tuple) End() token.Position { return x.Rparen.Advance(1) }

func (x *Tuple) String() string {
	parts := make([]string, 0, len(x.Exprs))
	for _, e := range x.Exprs {
		parts = append(parts, e.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Closure is a closure expression such as |x| x + 1. Parameters are kept as
// raw text; the body is a single expression or a block.
type Closure struct {
	PipePos token.Position
	Params  string // raw parameter text between the pipes
	Body    Node   // Expr or *Block
}

func (x *Closure) exprNode() {}

func (x *Closure) Pos() token.Position { return x.PipePos }
func (x *Closure) End() token.Position { return x.Body.End() }

func (x *Closure) String() string {
	return "|" + x.Params + "| " + x.Body.String()
}

// Range is a range expression such as 0..n or 0..=n. Either bound may be
// nil for open ranges like data[..].
type Range struct {
	Low       Expr // nil when unbounded
	OpPos     token.Position
	Inclusive bool
	High      Expr // nil when unbounded
}

func (x *Range) exprNode() {}

func (x *Range) Pos() token.Position {
	if x.Low != nil {
		return x.Low.Pos()
	}
	return x.OpPos
}

func (x *Range) End() token.Position {
	if x.High != nil {
		return x.High.End()
	}
	if x.Inclusive {
		return x.OpPos.Advance(3)
	}
	return x.OpPos.Advance(2)
}

func (x *Range) String() string {
	var out bytes.Buffer
	if x.Low != nil {
		out.WriteString(x.Low.String())
	}
	out.WriteString("..")
	if x.Inclusive {
		out.WriteString("=")
	}
	if x.High != nil {
		out.WriteString(x.High.String())
	}
	return out.String()
}

// Cast is an as-cast expression such as amount as u64. The target type is
// kept as raw text.
type Cast struct {
	X      Expr
	AsPos  token.Position
	Type   string
	EndPos token.Position
}

func (x *Cast) exprNode() {}

func (x *Cast) Pos() token.Position { return x.X.Pos() }
func (x *Cast) End() token.Position { return x.EndPos }

func (x *Cast) String() string { return x.X.String() + " as " + x.Type }

// MacroExpr is a macro invocation in expression position, such as
// format!("{}", x) or vec![1, 2]. Arguments are kept as raw text.
type MacroExpr struct {
	PathPos token.Position
	Path    string // macro path before "!"
	Args    string // raw argument text including delimiters
	EndPos  token.Position
}

func (x *MacroExpr) exprNode() {}

func (x *MacroExpr) Pos() token.Position { return x.PathPos }
func (x *MacroExpr) End() token.Position { return x.EndPos }

func (x *MacroExpr) String() string { return x.Path + "!" + x.Args }
