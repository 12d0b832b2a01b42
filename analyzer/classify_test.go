package analyzer

import (
	"context"
	"testing"

	"github.com/inkwell-tools/inkwell/ast"
	"github.com/inkwell-tools/inkwell/costmodel"
	"github.com/inkwell-tools/inkwell/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classifyBody parses a function body and classifies every statement.
func classifyBody(t *testing.T, body string) []Operation {
	t.Helper()
	source := "impl Token {\n    pub fn probe(&mut self) {\n" + body + "\n    }\n}\n"
	file, err := parser.Parse(context.Background(), source)
	require.NoError(t, err)
	impl, ok := file.Items[0].(*ast.Impl)
	require.True(t, ok)
	require.Len(t, impl.Fns, 1)

	c := &classifier{costs: costmodel.Default()}
	var ops []Operation
	for _, stmt := range impl.Fns[0].Body.Stmts {
		ops = append(ops, c.classifyStmt(stmt)...)
	}
	return ops
}

func opNames(ops []Operation) []string {
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		names = append(names, op.Operation)
	}
	return names
}

func TestClassifyStorageRead(t *testing.T) {
	ops := classifyBody(t, "let balance = self.balances.get(addr);")
	require.NotEmpty(t, ops)
	assert.Equal(t, "storage_read (get())", ops[0].Operation)
	assert.Equal(t, "storage_read", ops[0].Category)
	assert.Equal(t, uint64(1_200_000), ops[0].Ink)
	assert.Equal(t, "balances", ops[0].Entity)
	assert.Equal(t, "high", ops[0].Severity)
}

func TestClassifyDirectRead(t *testing.T) {
	ops := classifyBody(t, "self.total_supply")
	names := opNames(ops)
	assert.Contains(t, names, "storage_read (direct)")
	assert.Contains(t, names, "storage_field_access")
}

func TestClassifyStorageWrite(t *testing.T) {
	ops := classifyBody(t, "self.balances.insert(addr, amount);")
	require.NotEmpty(t, ops)
	assert.Equal(t, "storage_write (write())", ops[0].Operation)
	assert.Equal(t, uint64(1_500_000), ops[0].Ink)
	assert.Equal(t, "balances", ops[0].Entity)
}

func TestClassifyEmbeddedRead(t *testing.T) {
	ops := classifyBody(t, "self.balances.insert(addr, self.balances.get(addr) + amount);")
	var write *Operation
	for i := range ops {
		if ops[i].Category == "storage_write" {
			write = &ops[i]
			break
		}
	}
	require.NotNil(t, write)
	assert.Equal(t, "storage_write (write() + embedded_read)", write.Operation)
	assert.Equal(t, uint64(2_400_000), write.Ink)
}

func TestClassifyCompoundUpdate(t *testing.T) {
	ops := classifyBody(t, "self.total_supply += amount;")
	names := opNames(ops)
	assert.Contains(t, names, "storage_write (compound_write)")
}

func TestClassifyHostCalls(t *testing.T) {
	ops := classifyBody(t, "let sender = msg::sender();")
	require.Len(t, ops, 1)
	assert.Equal(t, "msg::sender()", ops[0].Operation)
	assert.Equal(t, "evm_context", ops[0].Category)
	assert.Equal(t, uint64(300_000), ops[0].Ink)
	assert.Equal(t, "low", ops[0].Severity)

	ops = classifyBody(t, "let v = msg::value();")
	require.Len(t, ops, 1)
	assert.Equal(t, "msg::value()", ops[0].Operation)
	assert.Equal(t, uint64(350_000), ops[0].Ink)

	ops = classifyBody(t, "let n = block::number();")
	require.Len(t, ops, 1)
	assert.Equal(t, "block_info", ops[0].Operation)
}

func TestClassifyEventEmit(t *testing.T) {
	ops := classifyBody(t, "evm::log(Transfer { from: sender, to: to, amount: amount });")
	names := opNames(ops)
	assert.Contains(t, names, "event_emit")
}

func TestClassifyExternalCall(t *testing.T) {
	ops := classifyBody(t, "let result = target.call(data);")
	names := opNames(ops)
	assert.Contains(t, names, "external_call")
}

func TestClassifyCrypto(t *testing.T) {
	ops := classifyBody(t, "let digest = keccak256(data);")
	names := opNames(ops)
	assert.Contains(t, names, "crypto_hash")
}

func TestClassifyRequireGuard(t *testing.T) {
	ops := classifyBody(t, `require!(balance >= amount, "insufficient balance");`)
	require.Len(t, ops, 1)
	assert.Equal(t, "require_check", ops[0].Operation)
	assert.Equal(t, "control_flow", ops[0].Category)
	assert.Equal(t, uint64(50_000), ops[0].Ink)
}

func TestClassifyAssertGuard(t *testing.T) {
	ops := classifyBody(t, "assert!(amount > 0);")
	require.Len(t, ops, 1)
	assert.Equal(t, "require_check", ops[0].Operation)
}

func TestClassifyPlainStatementsYieldNothing(t *testing.T) {
	assert.Empty(t, classifyBody(t, "let x = a + b;"))
	assert.Empty(t, classifyBody(t, "let y = 42;"))
	assert.Empty(t, classifyBody(t, "return;"))
}

func TestClassifyLoopBodyByText(t *testing.T) {
	ops := classifyBody(t, `
        for holder in holders {
            let b = self.balances.get(holder);
        }`)
	names := opNames(ops)
	// The whole loop renders as one snippet, so each family fires at most
	// once for it.
	assert.Contains(t, names, "storage_read (get())")
}

func TestClassifyEmissionOrder(t *testing.T) {
	ops := classifyBody(t, `
        let sender = msg::sender();
        self.balances.insert(sender, amount);`)
	require.True(t, len(ops) >= 2)
	assert.Equal(t, "msg::sender()", ops[0].Operation)
	assert.Equal(t, "storage_write (write())", ops[1].Operation)
}
