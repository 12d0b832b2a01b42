package entrypoint

import (
	"context"
	"testing"

	"github.com/inkwell-tools/inkwell/ast"
	"github.com/inkwell-tools/inkwell/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFile(t *testing.T, source string) *ast.File {
	t.Helper()
	file, err := parser.Parse(context.Background(), source)
	require.NoError(t, err)
	return file
}

func implsOf(file *ast.File) []*ast.Impl {
	var impls []*ast.Impl
	for _, item := range file.Items {
		if impl, ok := item.(*ast.Impl); ok {
			impls = append(impls, impl)
		}
	}
	return impls
}

func TestExplicitMarkerOnImpl(t *testing.T) {
	file := parseFile(t, `
#[external]
impl Token {
    pub fn transfer(&mut self, to: Address, amount: U256) -> bool {
        true
    }
    fn helper(&self) -> U256 {
        self.total_supply
    }
}
`)
	impls := implsOf(file)
	require.Len(t, impls, 1)
	signals := Scan(file)
	assert.True(t, Eligible(impls[0], impls[0].Fns[0], signals))
	// Marker on the impl covers unmarked private methods too
	assert.True(t, Eligible(impls[0], impls[0].Fns[1], signals))
}

func TestExplicitMarkerOnFn(t *testing.T) {
	file := parseFile(t, `
impl Token {
    #[public]
    fn balance_of(&self, owner: Address) -> U256 {
        self.balances.get(owner)
    }
    fn internal_only(&self) -> U256 {
        self.total_supply
    }
}
`)
	impls := implsOf(file)
	require.Len(t, impls, 1)
	signals := Scan(file)
	assert.True(t, Eligible(impls[0], impls[0].Fns[0], signals))
	assert.False(t, Eligible(impls[0], impls[0].Fns[1], signals))
}

func TestPlausibleSignature(t *testing.T) {
	file := parseFile(t, `
impl Token {
    pub fn transfer(&mut self, to: Address, amount: U256) -> bool {
        true
    }
    pub fn totals() -> U256 {
        U256::ZERO
    }
    fn private_method(&self) -> U256 {
        self.total_supply
    }
}
`)
	impls := implsOf(file)
	require.Len(t, impls, 1)
	signals := Scan(file)
	assert.True(t, Eligible(impls[0], impls[0].Fns[0], signals))
	// No self receiver
	assert.False(t, Eligible(impls[0], impls[0].Fns[1], signals))
	// Not pub, no markers, no macro signals
	assert.False(t, Eligible(impls[0], impls[0].Fns[2], signals))
}

func TestLifecycleNamesNeverQualify(t *testing.T) {
	file := parseFile(t, `
#[external]
impl Token {
    pub fn new(&mut self) -> bool {
        true
    }
    pub fn deploy(&mut self) -> bool {
        true
    }
    pub fn _internal(&self) -> bool {
        true
    }
    pub fn transfer(&mut self, to: Address) -> bool {
        true
    }
}
`)
	impls := implsOf(file)
	require.Len(t, impls, 1)
	signals := Scan(file)
	assert.False(t, Eligible(impls[0], impls[0].Fns[0], signals))
	assert.False(t, Eligible(impls[0], impls[0].Fns[1], signals))
	assert.False(t, Eligible(impls[0], impls[0].Fns[2], signals))
	assert.True(t, Eligible(impls[0], impls[0].Fns[3], signals))
}

func TestMacroContractSignals(t *testing.T) {
	file := parseFile(t, `
const TRANSFER_SELECTOR: [u8; 4] = [0xa9, 0x05, 0x9c, 0xbb];
const APPROVE_SELECTOR: [u8; 4] = [0x09, 0x5e, 0xa7, 0xb3];

impl Token {
    fn transfer(&mut self, to: Address, amount: U256) -> bool {
        true
    }
}
`)
	signals := Scan(file)
	assert.Equal(t, 2, signals.SelectorConstants)
	assert.True(t, signals.MacroContract())

	impls := implsOf(file)
	require.Len(t, impls, 1)
	// Private method with self receiver qualifies under macro signals
	assert.True(t, Eligible(impls[0], impls[0].Fns[0], signals))
}

func TestSelectorConstantsInsideImpl(t *testing.T) {
	file := parseFile(t, `
impl Token {
    const TRANSFER_SELECTOR: u32 = 0xa9059cbb;
    const APPROVE_SELECTOR: u32 = 0x095ea7b3;

    fn transfer(&mut self, to: Address, amount: U256) -> bool {
        true
    }
}
`)
	signals := Scan(file)
	assert.Equal(t, 2, signals.SelectorConstants)
	assert.True(t, signals.MacroContract())
}

func TestDispatcherSignal(t *testing.T) {
	file := parseFile(t, `
impl Token {
    fn route(&mut self, selector: [u8; 4]) -> bool {
        true
    }
}
`)
	signals := Scan(file)
	assert.True(t, signals.Dispatcher)
	assert.True(t, signals.MacroContract())
}

func TestOverrideMarkerSignals(t *testing.T) {
	file := parseFile(t, `
#[automatically_derived]
impl Router for Token {
    fn inner(&self) -> bool {
        true
    }
}
`)
	signals := Scan(file)
	assert.True(t, signals.OverrideMarkers)
}

func TestNoSignalsInPlainFile(t *testing.T) {
	file := parseFile(t, `
const MAX_SUPPLY: u64 = 1000000;

impl Token {
    fn helper(&self) -> u64 {
        1
	}
}
`)
	signals := Scan(file)
	assert.Equal(t, 0, signals.SelectorConstants)
	assert.False(t, signals.Dispatcher)
	assert.False(t, signals.OverrideMarkers)
	assert.False(t, signals.MacroContract())
}

func TestSelector(t *testing.T) {
	file := parseFile(t, `
impl Token {
    pub fn transfer(&mut self, to: address, amount: uint256) -> bool {
        true
    }
}
`)
	impls := implsOf(file)
	require.Len(t, impls, 1)
	// keccak256("transfer(address,uint256)")[..4] is the canonical ERC-20
	// transfer selector
	assert.Equal(t, "0xa9059cbb", Selector(impls[0].Fns[0]))
}

func TestIsLifecycle(t *testing.T) {
	assert.True(t, IsLifecycle("new"))
	assert.True(t, IsLifecycle("route"))
	assert.True(t, IsLifecycle("storage_load"))
	assert.False(t, IsLifecycle("transfer"))
	assert.False(t, IsLifecycle("balance_of"))
}
