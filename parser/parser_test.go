package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-tools/inkwell/ast"
)

func parse(t *testing.T, input string) *ast.File {
	t.Helper()
	file, err := Parse(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, file)
	return file
}

func firstImpl(t *testing.T, file *ast.File) *ast.Impl {
	t.Helper()
	for _, item := range file.Items {
		if impl, ok := item.(*ast.Impl); ok {
			return impl
		}
	}
	t.Fatal("no impl block found")
	return nil
}

func TestParseUse(t *testing.T) {
	file := parse(t, `use stylus_sdk::prelude::*;`)
	require.Len(t, file.Items, 1)

	use, ok := file.Items[0].(*ast.Use)
	require.True(t, ok)
	assert.Equal(t, "stylus_sdk::prelude::*", use.Path)
	assert.Equal(t, "use stylus_sdk::prelude::*;", use.String())
}

func TestParseStruct(t *testing.T) {
	file := parse(t, `
#[entrypoint]
pub struct Token {
    balances: StorageMap<Address, U256>,
    total_supply: StorageU256,
}
`)
	require.Len(t, file.Items, 1)

	st, ok := file.Items[0].(*ast.Struct)
	require.True(t, ok)
	assert.Equal(t, "Token", st.Name)
	assert.True(t, st.Public)
	require.Len(t, st.Attrs, 1)
	assert.Equal(t, "entrypoint", st.Attrs[0].Name())

	require.Len(t, st.Fields, 2)
	assert.Equal(t, "balances", st.Fields[0].Name)
	assert.Equal(t, "StorageMap<Address, U256>", st.Fields[0].Type)
	assert.Equal(t, "total_supply", st.Fields[1].Name)
	assert.Equal(t, "StorageU256", st.Fields[1].Type)
}

func TestParseUnitStructIsRaw(t *testing.T) {
	file := parse(t, `pub struct Marker;`)
	require.Len(t, file.Items, 1)

	raw, ok := file.Items[0].(*ast.RawItem)
	require.True(t, ok)
	assert.Equal(t, "pub struct Marker;", raw.Text)
}

func TestParseImpl(t *testing.T) {
	file := parse(t, `
#[external]
impl Token {
    pub fn transfer(&mut self, to: Address, amount: U256) -> bool {
        true
    }

    fn helper(&self) {
        ();
    }
}
`)
	impl := firstImpl(t, file)
	assert.Equal(t, "Token", impl.Name)
	assert.True(t, impl.HasAttr("external"))
	require.Len(t, impl.Fns, 2)

	fn := impl.Fns[0]
	assert.Equal(t, "transfer", fn.Name)
	assert.True(t, fn.Public)
	require.NotNil(t, fn.Receiver)
	assert.True(t, fn.Receiver.Reference)
	assert.True(t, fn.Receiver.Mutable)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "to", fn.Params[0].Name)
	assert.Equal(t, "Address", fn.Params[0].Type)
	assert.Equal(t, "U256", fn.Params[1].Type)
	assert.Equal(t, "bool", fn.RetType)

	helper := impl.Fns[1]
	assert.False(t, helper.Public)
	require.NotNil(t, helper.Receiver)
	assert.True(t, helper.Receiver.Reference)
	assert.False(t, helper.Receiver.Mutable)
}

func TestParseTraitImpl(t *testing.T) {
	file := parse(t, `impl Erc20 for Token { }`)
	impl := firstImpl(t, file)
	assert.Equal(t, "Erc20", impl.Trait)
	assert.Equal(t, "Token", impl.Name)
}

func TestParseReceiverForms(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		reference bool
		mutable   bool
	}{
		{"shared reference", "&self", true, false},
		{"mutable reference", "&mut self", true, true},
		{"by value", "self", false, false},
		{"mutable by value", "mut self", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := parse(t, "impl T { fn f("+tt.input+") { } }")
			fn := firstImpl(t, file).Fns[0]
			require.NotNil(t, fn.Receiver)
			assert.Equal(t, tt.reference, fn.Receiver.Reference)
			assert.Equal(t, tt.mutable, fn.Receiver.Mutable)
		})
	}
}

func TestParseConstItem(t *testing.T) {
	file := parse(t, `const TRANSFER_SELECTOR: [u8; 4] = 1;`)
	require.Len(t, file.Items, 1)

	c, ok := file.Items[0].(*ast.ConstItem)
	require.True(t, ok)
	assert.Equal(t, "TRANSFER_SELECTOR", c.Name)
	assert.Equal(t, "[u8; 4]", c.Type)
	require.NotNil(t, c.Value)
}

func TestParseMacroItem(t *testing.T) {
	file := parse(t, `
sol_storage! {
    pub struct Token {
        mapping(address => uint256) balances;
    }
}
`)
	require.Len(t, file.Items, 1)

	m, ok := file.Items[0].(*ast.MacroItem)
	require.True(t, ok)
	assert.Equal(t, "sol_storage", m.Path)
	assert.Contains(t, m.Body, "balances")
}

func TestParseParenMacroItemKeepsSemicolon(t *testing.T) {
	file := parse(t, `external_entry!(process);`)
	require.Len(t, file.Items, 1)

	m, ok := file.Items[0].(*ast.MacroItem)
	require.True(t, ok)
	assert.Equal(t, "external_entry", m.Path)
	assert.True(t, strings.HasSuffix(m.Body, ";"))
}

func TestParseInnerAttribute(t *testing.T) {
	file := parse(t, `#![cfg_attr(not(feature = "export-abi"), no_main)]`)
	require.Len(t, file.Items, 1)

	raw, ok := file.Items[0].(*ast.RawItem)
	require.True(t, ok)
	assert.Contains(t, raw.Text, "cfg_attr")
}

func TestParseRawItems(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"enum", "enum Direction { In, Out }"},
		{"mod", "mod tests { }"},
		{"static", "static COUNT: u64 = 0;"},
		{"type alias", "type Result = core::result::Result<(), Error>;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := parse(t, tt.input)
			require.Len(t, file.Items, 1)
			raw, ok := file.Items[0].(*ast.RawItem)
			require.True(t, ok)
			assert.Equal(t, tt.input, raw.Text)
		})
	}
}

func parseBody(t *testing.T, body string) []ast.Stmt {
	t.Helper()
	file := parse(t, "impl T { fn f(&mut self) {\n"+body+"\n} }")
	return firstImpl(t, file).Fns[0].Body.Stmts
}

func TestParseLetStatement(t *testing.T) {
	stmts := parseBody(t, `let mut total: U256 = balance;`)
	require.Len(t, stmts, 1)

	let, ok := stmts[0].(*ast.Let)
	require.True(t, ok)
	assert.True(t, let.Mutable)
	assert.Equal(t, "total", let.Name)
	assert.Equal(t, "U256", let.Type)
	require.NotNil(t, let.Value)
}

func TestParseReturnStatements(t *testing.T) {
	stmts := parseBody(t, "return balance;\nreturn;")
	require.Len(t, stmts, 2)

	ret, ok := stmts[0].(*ast.Return)
	require.True(t, ok)
	require.NotNil(t, ret.Value)

	bare, ok := stmts[1].(*ast.Return)
	require.True(t, ok)
	assert.Nil(t, bare.Value)
}

func TestParseMethodCallChain(t *testing.T) {
	stmts := parseBody(t, `self.balances.get(to).unwrap();`)
	require.Len(t, stmts, 1)

	expr, ok := stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	outer, ok := expr.X.(*ast.MethodCall)
	require.True(t, ok)
	assert.Equal(t, "unwrap", outer.Name)

	inner, ok := outer.X.(*ast.MethodCall)
	require.True(t, ok)
	assert.Equal(t, "get", inner.Name)
	assert.Equal(t, "self.balances.get(to).unwrap()", outer.String())
}

func TestParsePathCall(t *testing.T) {
	stmts := parseBody(t, `msg::sender();`)
	require.Len(t, stmts, 1)

	expr := stmts[0].(*ast.ExprStmt)
	call, ok := expr.X.(*ast.Call)
	require.True(t, ok)
	path, ok := call.Fun.(*ast.Path)
	require.True(t, ok)
	assert.Equal(t, []string{"msg", "sender"}, path.Segments)
	assert.Equal(t, "msg::sender()", call.String())
}

func TestParseCompoundAssignment(t *testing.T) {
	stmts := parseBody(t, `self.total_supply += amount;`)
	require.Len(t, stmts, 1)

	expr := stmts[0].(*ast.ExprStmt)
	assign, ok := expr.X.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "+=", assign.Op)

	field, ok := assign.Target.(*ast.FieldAccess)
	require.True(t, ok)
	assert.Equal(t, "total_supply", field.Name)
}

func TestParseMacroStatement(t *testing.T) {
	stmts := parseBody(t, `require!(amount > 0, "zero amount");`)
	require.Len(t, stmts, 1)

	m, ok := stmts[0].(*ast.MacroStmt)
	require.True(t, ok)
	assert.Equal(t, "require", m.Path)
	assert.Contains(t, m.Args, "amount > 0")
}

func TestParseIfElse(t *testing.T) {
	stmts := parseBody(t, `
if balance < amount {
    return;
} else {
    self.counter.set(balance);
}
`)
	require.Len(t, stmts, 1)

	ifStmt, ok := stmts[0].(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Cond)
	require.NotNil(t, ifStmt.Consequence)
	require.NotNil(t, ifStmt.Alternative)
}

func TestParseLoops(t *testing.T) {
	stmts := parseBody(t, `
for holder in holders {
    self.counter.set(holder);
}
while running {
    ();
}
loop {
    return;
}
`)
	require.Len(t, stmts, 3)

	forStmt, ok := stmts[0].(*ast.For)
	require.True(t, ok)
	assert.Equal(t, "holder", forStmt.Pattern)

	_, ok = stmts[1].(*ast.While)
	require.True(t, ok)
	_, ok = stmts[2].(*ast.Loop)
	require.True(t, ok)
}

func TestParseTryOperator(t *testing.T) {
	stmts := parseBody(t, `let v = self.balances.get(to)?;`)
	require.Len(t, stmts, 1)

	let := stmts[0].(*ast.Let)
	try, ok := let.Value.(*ast.Try)
	require.True(t, ok)
	assert.Equal(t, "self.balances.get(to)?", try.String())
}

func TestParseCast(t *testing.T) {
	stmts := parseBody(t, `let v = amount as u64;`)
	let := stmts[0].(*ast.Let)
	cast, ok := let.Value.(*ast.Cast)
	require.True(t, ok)
	assert.Equal(t, "u64", cast.Type)
}

func TestParseStatementAttribute(t *testing.T) {
	stmts := parseBody(t, "#[cfg(feature = \"ink-profiling\")]\nlet x = 1;")
	require.Len(t, stmts, 2)

	raw, ok := stmts[0].(*ast.RawStmt)
	require.True(t, ok)
	assert.Contains(t, raw.Text, "ink-profiling")
}

func TestLineNumbers(t *testing.T) {
	file := parse(t, `use a::b;

impl Token {
    pub fn transfer(&mut self) {
        self.counter.set(1);
    }
}
`)
	impl := firstImpl(t, file)
	fn := impl.Fns[0]
	assert.Equal(t, 4, fn.Pos().LineNumber())
	require.Len(t, fn.Body.Stmts, 1)
	assert.Equal(t, 5, fn.Body.Stmts[0].Pos().LineNumber())
}

func TestParseErrorMissingFieldType(t *testing.T) {
	_, err := Parse(context.Background(), "struct A {\n    field\n}")
	require.Error(t, err)

	var errs *Errors
	require.ErrorAs(t, err, &errs)
	require.Equal(t, 1, errs.Count())
	assert.Contains(t, errs.First().Error(), "struct field")
}

func TestParseErrorRecoveryCollectsMultiple(t *testing.T) {
	_, err := Parse(context.Background(), `
struct A {
    field
}

struct B {
    field
}
`)
	require.Error(t, err)

	var errs *Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, 2, errs.Count())
	assert.Contains(t, err.Error(), "and 1 more errors")
}

func TestParseErrorUnclosedBlock(t *testing.T) {
	_, err := Parse(context.Background(), "impl T { fn f(&self) { let x = 1;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unclosed block")
}

func TestParseErrorFilename(t *testing.T) {
	_, err := Parse(context.Background(), "struct {", WithFilename("lib.rs"))
	require.Error(t, err)

	var errs *Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "lib.rs", errs.First().File())
	assert.Contains(t, errs.First().FriendlyErrorMessage(), "lib.rs")
}

func TestMaxDepth(t *testing.T) {
	_, err := Parse(context.Background(),
		"const X: u32 = ((((((((1))))))));",
		WithMaxDepth(5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum nesting depth exceeded")
}

func TestParseContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, "use a::b;")
	require.ErrorIs(t, err, context.Canceled)
}

func TestPartialASTOnError(t *testing.T) {
	file, err := Parse(context.Background(), `
use a::b;

struct A {
    field
}
`)
	require.Error(t, err)
	require.NotNil(t, file)
	require.Len(t, file.Items, 1)
	_, ok := file.Items[0].(*ast.Use)
	assert.True(t, ok)
}
