package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ident(name string) *Ident {
	return &Ident{Name: name}
}

// selfField builds "self.<name>" as a field access.
func selfField(name string) *FieldAccess {
	return &FieldAccess{X: ident("self"), Name: name}
}

func TestExpressionStrings(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expr
		expected string
	}{
		{
			name:     "field access",
			expr:     selfField("balances"),
			expected: "self.balances",
		},
		{
			name: "method call",
			expr: &MethodCall{
				X:    selfField("balances"),
				Name: "get",
				Args: []Expr{ident("to")},
			},
			expected: "self.balances.get(to)",
		},
		{
			name: "path call",
			expr: &Call{
				Fun: &Path{Segments: []string{"msg", "sender"}},
			},
			expected: "msg::sender()",
		},
		{
			name: "infix",
			expr: &Infix{
				X:  ident("balance"),
				Op: "+",
				Y:  ident("amount"),
			},
			expected: "balance + amount",
		},
		{
			name: "compound assignment",
			expr: &Assign{
				Target: selfField("total_supply"),
				Op:     "+=",
				Value:  ident("amount"),
			},
			expected: "self.total_supply += amount",
		},
		{
			name: "index",
			expr: &Index{
				X:     selfField("holders"),
				Index: ident("i"),
			},
			expected: "self.holders[i]",
		},
		{
			name:     "try",
			expr:     &Try{X: &MethodCall{X: selfField("balances"), Name: "get"}},
			expected: "self.balances.get()?",
		},
		{
			name:     "cast",
			expr:     &Cast{X: ident("amount"), Type: "u64"},
			expected: "amount as u64",
		},
		{
			name:     "macro expression",
			expr:     &MacroExpr{Path: "require", Args: `(ok, "failed")`},
			expected: `require!(ok, "failed")`,
		},
		{
			name:     "unit",
			expr:     &Unit{},
			expected: "()",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.expr.String())
		})
	}
}

func TestFnSignature(t *testing.T) {
	fn := &Fn{
		Public:   true,
		Name:     "transfer",
		Receiver: &Receiver{Reference: true, Mutable: true},
		Params: []FnParam{
			{Name: "to", Type: "Address"},
			{Name: "amount", Type: "U256"},
		},
		RetType: "bool",
		Body:    &Block{},
	}
	assert.Equal(t, "pub fn transfer(&mut self, to: Address, amount: U256) -> bool", fn.Signature())
}

func TestFnSignatureNoReceiver(t *testing.T) {
	fn := &Fn{Name: "helper", Body: &Block{}}
	assert.Equal(t, "fn helper()", fn.Signature())
}

func TestReceiverString(t *testing.T) {
	assert.Equal(t, "&mut self", Receiver{Reference: true, Mutable: true}.String())
	assert.Equal(t, "&self", Receiver{Reference: true}.String())
	assert.Equal(t, "self", Receiver{}.String())
}

func TestAttributeName(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"external", "external"},
		{"derive(Debug, Clone)", "derive"},
		{`cfg(feature = "ink-profiling")`, "cfg"},
	}
	for _, tt := range tests {
		attr := &Attribute{Text: tt.text}
		assert.Equal(t, tt.expected, attr.Name())
	}
}

func TestHasAttr(t *testing.T) {
	fn := &Fn{
		Attrs: []*Attribute{{Text: "external"}, {Text: "payable"}},
		Name:  "deposit",
		Body:  &Block{},
	}
	assert.True(t, fn.HasAttr("external"))
	assert.True(t, fn.HasAttr("payable"))
	assert.False(t, fn.HasAttr("view"))

	impl := &Impl{Attrs: []*Attribute{{Text: "external"}}, Name: "Token"}
	assert.True(t, impl.HasAttr("external"))
}

func TestStructString(t *testing.T) {
	st := &Struct{
		Public: true,
		Name:   "Token",
		Fields: []StructField{
			{Name: "balances", Type: "StorageMap<Address, U256>"},
		},
	}
	expected := `pub struct Token {
    balances: StorageMap<Address, U256>,
}`
	assert.Equal(t, expected, st.String())
}

func TestImplString(t *testing.T) {
	impl := &Impl{
		Attrs: []*Attribute{{Text: "external"}},
		Name:  "Token",
		Fns: []*Fn{
			{Name: "f", Receiver: &Receiver{Reference: true}, Body: &Block{}},
		},
	}
	out := impl.String()
	assert.Contains(t, out, "#[external]")
	assert.Contains(t, out, "impl Token {")
	assert.Contains(t, out, "fn f(&self)")
}

func buildWalkFixture() *File {
	body := &Block{
		Stmts: []Stmt{
			&Let{Name: "balance", Value: &MethodCall{
				X:    selfField("balances"),
				Name: "get",
				Args: []Expr{ident("to")},
			}},
			&Return{Value: ident("balance")},
		},
	}
	fn := &Fn{Name: "balance_of", Receiver: &Receiver{Reference: true}, Body: body}
	return &File{Items: []Item{&Impl{Name: "Token", Fns: []*Fn{fn}}}}
}

func TestInspectVisitsAllNodes(t *testing.T) {
	var methodCalls, idents int
	Inspect(buildWalkFixture(), func(n Node) bool {
		switch n.(type) {
		case *MethodCall:
			methodCalls++
		case *Ident:
			idents++
		}
		return true
	})
	assert.Equal(t, 1, methodCalls)
	// self, to, balance
	assert.Equal(t, 3, idents)
}

func TestInspectPrunes(t *testing.T) {
	var visitedIdent bool
	Inspect(buildWalkFixture(), func(n Node) bool {
		if _, ok := n.(*Ident); ok {
			visitedIdent = true
		}
		_, isBlock := n.(*Block)
		return !isBlock
	})
	assert.False(t, visitedIdent, "pruning at the block must skip its children")
}

func TestPreorderStartsAtRoot(t *testing.T) {
	file := buildWalkFixture()
	var first Node
	for n := range Preorder(file) {
		first = n
		break
	}
	require.Same(t, Node(file), first)
}

func TestPreorderEarlyStop(t *testing.T) {
	count := 0
	for range Preorder(buildWalkFixture()) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
