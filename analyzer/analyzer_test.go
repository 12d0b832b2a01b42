package analyzer

import (
	"context"
	"testing"

	"github.com/inkwell-tools/inkwell/costmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transferContract = `
pub struct Token {
    balances: StorageMap,
    total_supply: StorageU256,
}

#[external]
impl Token {
    pub fn transfer(&mut self, to: Address, amount: U256) -> bool {
        let sender = msg::sender();
        let balance = self.balances.get(sender);
        require!(balance >= amount, "insufficient balance");
        self.balances.insert(sender, balance - amount);
        true
    }

    pub fn balance_of(&self, owner: Address) -> U256 {
        self.balances.get(owner)
    }
}
`

func analyze(t *testing.T, source string, opts ...Option) *ContractAnalysis {
	t.Helper()
	result, err := New(opts...).Analyze(context.Background(), source)
	require.NoError(t, err)
	return result
}

func TestAnalyzeContract(t *testing.T) {
	result := analyze(t, transferContract)
	assert.Equal(t, "Token", result.ContractName)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Functions, 2)

	transfer := result.Functions[0]
	assert.Equal(t, "transfer", transfer.Name)
	assert.NotZero(t, transfer.TotalInk)
	assert.Equal(t, transfer.TotalInk/10_000, transfer.GasEquivalent)
	assert.NotEmpty(t, transfer.Selector)
	assert.True(t, transfer.StartLine > 0)

	assert.Equal(t, "balance_of", result.Functions[1].Name)
}

func TestPercentagesSumToHundred(t *testing.T) {
	result := analyze(t, transferContract)
	for _, fn := range result.Functions {
		if fn.TotalInk == 0 {
			continue
		}
		var sum float64
		for _, op := range fn.Operations {
			sum += op.Percentage
		}
		assert.InDelta(t, 100.0, sum, 0.01, "function %s", fn.Name)
	}
}

func TestCategoryStats(t *testing.T) {
	result := analyze(t, transferContract)
	transfer := result.Functions[0]

	var categorySum float64
	for category, stats := range transfer.Categories {
		assert.True(t, stats.Count > 0, "category %s", category)
		if stats.Count > 0 {
			assert.Equal(t, stats.TotalInk/uint64(stats.Count), stats.AvgPerOp)
		}
		categorySum += stats.Percentage
	}
	assert.InDelta(t, 100.0, categorySum, 0.01)
}

func TestHotspotRanksContiguous(t *testing.T) {
	result := analyze(t, transferContract)
	transfer := result.Functions[0]
	require.NotEmpty(t, transfer.Hotspots)
	for i, hotspot := range transfer.Hotspots {
		assert.Equal(t, i+1, hotspot.Rank)
		assert.True(t, hotspot.Ink > 1_000_000)
		if i > 0 {
			assert.True(t, transfer.Hotspots[i-1].Ink >= hotspot.Ink)
		}
	}
}

func TestRepeatedReadBug(t *testing.T) {
	result := analyze(t, `
#[external]
impl Counter {
    pub fn triple_read(&self) -> U256 {
        let a = self.counter.get();
        let b = self.counter.get();
        let c = self.counter.get();
        a
    }
}
`)
	require.Len(t, result.Functions, 1)
	bugs := result.Functions[0].DryNibBugs
	require.Len(t, bugs, 1)

	bug := bugs[0]
	assert.Equal(t, "repeated storage_read: self.counter", bug.Operation)
	assert.Equal(t, uint64(2*1_200_000), bug.OverchargeEstimate)
	assert.Equal(t, "high", bug.Severity)
	// Reported at the first read
	assert.Equal(t, 5, bug.Line)
}

func TestRedundantReadOptimization(t *testing.T) {
	result := analyze(t, `
#[external]
impl Token {
    pub fn bump(&mut self, user: Address) {
        self.balances.insert(user, self.balances.get(user) + 1);
    }
}
`)
	require.Len(t, result.Functions, 1)

	var redundant []Optimization
	for _, opt := range result.Functions[0].Optimizations {
		if opt.Title == "Redundant Storage Read in Write" {
			redundant = append(redundant, opt)
		}
	}
	require.Len(t, redundant, 1)
	assert.Equal(t, uint64(1_200_000), redundant[0].EstimatedSavingsInk)
	assert.Equal(t, 50.0, redundant[0].EstimatedSavingsPercentage)
	assert.Equal(t, "high", redundant[0].Confidence)
}

func TestCacheOptimization(t *testing.T) {
	result := analyze(t, `
#[external]
impl Token {
    pub fn double_read(&self, owner: Address) -> U256 {
        let a = self.balances.get(owner);
        let b = self.balances.get(owner);
        a
    }
}
`)
	require.Len(t, result.Functions, 1)

	var cached *Optimization
	for i, opt := range result.Functions[0].Optimizations {
		if opt.ID == "cache_balances" {
			cached = &result.Functions[0].Optimizations[i]
		}
	}
	require.NotNil(t, cached)
	assert.Equal(t, uint64(1_200_000), cached.EstimatedSavingsInk)
	assert.InDelta(t, 50.0, cached.EstimatedSavingsPercentage, 0.01)
}

func TestNestedAccessBug(t *testing.T) {
	result := analyze(t, `
#[external]
impl Ledger {
    pub fn allowance(&self, owner: Address, spender: Address) -> U256 {
        self.allowances.get(owner).get(spender)
    }
}
`)
	require.Len(t, result.Functions, 1)
	bugs := result.Functions[0].DryNibBugs
	require.NotEmpty(t, bugs)

	var nested *DryNibBug
	for i, bug := range bugs {
		if bug.InkChargedEstimate == 840_000*2+2_100*1_000_000 {
			nested = &bugs[i]
		}
	}
	require.NotNil(t, nested)
	assert.Equal(t, "high", nested.Severity)
	assert.Contains(t, nested.Mitigation, "allowances")
}

func TestLifecycleNamesExcluded(t *testing.T) {
	result := analyze(t, `
#[external]
impl Token {
    pub fn new(&mut self) {
        self.total_supply.set(0);
    }

    pub fn transfer(&mut self, to: Address) -> bool {
        true
    }
}
`)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, "transfer", result.Functions[0].Name)
}

func TestNoEntryPointsError(t *testing.T) {
	_, err := New().Analyze(context.Background(), `
impl Helpers {
    fn internal_math(a: U256, b: U256) -> U256 {
        a
    }
}
`)
	require.Error(t, err)
	var noEntry *NoEntryPointsError
	require.ErrorAs(t, err, &noEntry)
	assert.Equal(t, 0, noEntry.SelectorConstants)
	assert.NotEmpty(t, noEntry.Candidates)
}

func TestNoEntryPointsErrorReportsSelectors(t *testing.T) {
	_, err := New().Analyze(context.Background(), `
const TRANSFER_SELECTOR: u32 = 0xa9059cbb;

impl Token {
    fn inner() -> bool {
        true
    }
}
`)
	require.Error(t, err)
	var noEntry *NoEntryPointsError
	require.ErrorAs(t, err, &noEntry)
	assert.Equal(t, 1, noEntry.SelectorConstants)
	assert.Contains(t, noEntry.Error(), "macro expansion")
}

func TestTargetFunctionFilter(t *testing.T) {
	result := analyze(t, transferContract, WithTargetFunction("balance_of"))
	require.Len(t, result.Functions, 1)
	assert.Equal(t, "balance_of", result.Functions[0].Name)

	// The filter does not affect eligibility: an unmatched target yields an
	// empty function list, not a hard failure.
	result = analyze(t, transferContract, WithTargetFunction("no_such_function"))
	assert.Empty(t, result.Functions)
}

func TestContractNameFallback(t *testing.T) {
	result := analyze(t, `
#[external]
impl Anon {
    pub fn poke(&mut self) -> bool {
        true
    }
}
`)
	assert.Equal(t, "Unknown", result.ContractName)
}

func TestContractNameFromStorageMacro(t *testing.T) {
	result := analyze(t, `
sol_storage! {
    #[entrypoint]
    pub struct Token {
        mapping(address => uint256) balances;
    }
}

#[external]
impl Token {
    pub fn balance_of(&self, owner: Address) -> U256 {
        self.balances.get(owner)
    }
}
`)
	assert.Equal(t, "Token", result.ContractName)
}

func TestCustomCostModel(t *testing.T) {
	costs := costmodel.Default()
	costs.StorageRead = 5_000_000
	result := analyze(t, `
#[external]
impl Token {
    pub fn read_once(&self, owner: Address) -> U256 {
        self.balances.get(owner)
    }
}
`, WithCostModel(costs))
	require.Len(t, result.Functions, 1)
	require.NotEmpty(t, result.Functions[0].Operations)
	assert.Equal(t, uint64(5_000_000), result.Functions[0].Operations[0].Ink)
}

func TestParseFailureIsFatal(t *testing.T) {
	_, err := New().Analyze(context.Background(), "impl {{{{")
	require.Error(t, err)
}
