package ast

import "iter"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	// Walk children based on node type
	switch n := node.(type) {
	case *File:
		for _, item := range n.Items {
			Walk(v, item)
		}

	// Items
	case *Use:
		// No children
	case *Struct:
		// No children
	case *Impl:
		for _, c := range n.Consts {
			Walk(v, c)
		}
		for _, fn := range n.Fns {
			Walk(v, fn)
		}
	case *Fn:
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *ConstItem:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *MacroItem:
		// Body is raw text
	case *RawItem:
		// No children

	// Statements
	case *Block:
		for _, stmt := range n.Stmts {
			Walk(v, stmt)
		}
	case *Let:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *ExprStmt:
		if n.X != nil {
			Walk(v, n.X)
		}
	case *MacroStmt:
		// Args are raw text
	case *Return:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *While:
		if n.Cond != nil {
			Walk(v, n.Cond)
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *For:
		if n.Iter != nil {
			Walk(v, n.Iter)
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *Loop:
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *RawStmt:
		// No children

	// Expressions
	case *Ident:
		// No children
	case *Path:
		// No children
	case *Int:
		// No children
	case *Float:
		// No children
	case *String:
		// No children
	case *Bool:
		// No children
	case *FieldAccess:
		if n.X != nil {
			Walk(v, n.X)
		}
	case *MethodCall:
		if n.X != nil {
			Walk(v, n.X)
		}
		for _, arg := range n.Args {
			Walk(v, arg)
		}
	case *Call:
		if n.Fun != nil {
			Walk(v, n.Fun)
		}
		for _, arg := range n.Args {
			Walk(v, arg)
		}
	case *Index:
		if n.X != nil {
			Walk(v, n.X)
		}
		if n.Index != nil {
			Walk(v, n.Index)
		}
	case *Infix:
		if n.X != nil {
			Walk(v, n.X)
		}
		if n.Y != nil {
			Walk(v, n.Y)
		}
	case *Assign:
		if n.Target != nil {
			Walk(v, n.Target)
		}
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *Prefix:
		if n.X != nil {
			Walk(v, n.X)
		}
	case *Ref:
		if n.X != nil {
			Walk(v, n.X)
		}
	case *Try:
		if n.X != nil {
			Walk(v, n.X)
		}
	case *StructLit:
		if n.Path != nil {
			Walk(v, n.Path)
		}
		for _, f := range n.Fields {
			if f.Value != nil {
				Walk(v, f.Value)
			}
		}
	case *Paren:
		if n.X != nil {
			Walk(v, n.X)
		}
	case *Unit:
		// No children
	case *If:
		if n.Cond != nil {
			Walk(v, n.Cond)
		}
		if n.Consequence != nil {
			Walk(v, n.Consequence)
		}
		if n.Alternative != nil {
			Walk(v, n.Alternative)
		}
	case *Match:
		if n.Value != nil {
			Walk(v, n.Value)
		}
		for _, arm := range n.Arms {
			if arm.Body != nil {
				Walk(v, arm.Body)
			}
		}
	case *Array:
		// Elements are raw text
	case *Tuple:
		for _, e := range n.Exprs {
			Walk(v, e)
		}
	case *Closure:
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *Range:
		if n.Low != nil {
			Walk(v, n.Low)
		}
		if n.High != nil {
			Walk(v, n.High)
		}
	case *Cast:
		if n.X != nil {
			Walk(v, n.X)
		}
	case *MacroExpr:
		// Args are raw text
	}
}

// Inspect traverses an AST in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		more := true
		Inspect(root, func(n Node) bool {
			if !more {
				return false
			}
			more = yield(n)
			return more
		})
	}
}
