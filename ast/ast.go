// Package ast defines the abstract syntax tree representation of the Rust
// surface syntax used by Stylus contract source files.
package ast

import "github.com/inkwell-tools/inkwell/token"

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a representation of the Node that is close to the
	// original source code, but not necessarily identical. Operation
	// classification matches against this text, so the rendering must remain
	// stable: changing it re-calibrates every text-matched heuristic.
	String() string
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Item represents a top-level declaration: a use declaration, struct, impl
// block, function, constant, or macro invocation.
type Item interface {
	Node
	itemNode()
}

// File is the root node for one parsed source file.
type File struct {
	Items []Item
}

func (f *File) Pos() token.Position {
	if len(f.Items) > 0 {
		return f.Items[0].Pos()
	}
	return token.NoPos
}

func (f *File) End() token.Position {
	if len(f.Items) > 0 {
		return f.Items[len(f.Items)-1].End()
	}
	return token.NoPos
}

func (f *File) String() string {
	var out []byte
	for i, item := range f.Items {
		if i > 0 {
			out = append(out, '\n', '\n')
		}
		out = append(out, item.String()...)
	}
	return string(out)
}
