// Package analyzer estimates ink consumption for Stylus contract entry
// points. It classifies operations in each entry-point body, attaches
// heuristic costs from a cost model, aggregates per-function statistics, and
// runs dry-nib and optimization detectors over the classified operations.
package analyzer

// ContractAnalysis is the result of analyzing one contract source file.
type ContractAnalysis struct {
	// RunID correlates this report with any artifacts written alongside it.
	RunID string `json:"run_id"`

	ContractName string `json:"contract_name"`
	File         string `json:"file"`

	// Functions is ordered by source position. Duplicate bare names across
	// impl blocks are legal; consumers must not key by name.
	Functions []FunctionAnalysis `json:"functions"`
}

// FunctionAnalysis is the per-entry-point cost breakdown.
type FunctionAnalysis struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`

	// Selector is the 0x-prefixed 4-byte function selector.
	Selector string `json:"selector"`

	StartLine     int                      `json:"start_line"`
	TotalInk      uint64                   `json:"total_ink"`
	GasEquivalent uint64                   `json:"gas_equivalent"`
	Operations    []Operation              `json:"operations"`
	Categories    map[string]CategoryStats `json:"categories"`
	Optimizations []Optimization           `json:"optimizations"`
	Hotspots      []Hotspot                `json:"hotspots"`
	DryNibBugs    []DryNibBug              `json:"dry_nib_bugs"`
}

// Operation is one classified operation inside a function body.
type Operation struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Code   string `json:"code"`

	// Operation is the classified name, e.g. "storage_read (get())".
	Operation string `json:"operation"`

	// Entity is the storage field the operation touches, or "unknown".
	Entity string `json:"entity"`

	Ink        uint64  `json:"ink"`
	Percentage float64 `json:"percentage"`
	Category   string  `json:"category"`
	Severity   string  `json:"severity"`
}

// CategoryStats aggregates the operations of one category.
type CategoryStats struct {
	Count      int     `json:"count"`
	TotalInk   uint64  `json:"total_ink"`
	Percentage float64 `json:"percentage"`

	// AvgPerOp is integer division; 0 when Count is 0.
	AvgPerOp uint64 `json:"avg_per_op"`
}

// Hotspot is an operation whose ink exceeds the hotspot threshold. Ranks
// are contiguous from 1, descending by ink, ties broken by encounter order.
type Hotspot struct {
	Line      int    `json:"line"`
	Ink       uint64 `json:"ink"`
	Operation string `json:"operation"`
	Rank      int    `json:"rank"`
}

// Optimization is a suggested source change with estimated savings.
type Optimization struct {
	ID                         string  `json:"id"`
	Line                       int     `json:"line"`
	Severity                   string  `json:"severity"`
	Title                      string  `json:"title"`
	Description                string  `json:"description"`
	CurrentCode                string  `json:"current_code"`
	SuggestedCode              string  `json:"suggested_code"`
	EstimatedSavingsInk        uint64  `json:"estimated_savings_ink"`
	EstimatedSavingsPercentage float64 `json:"estimated_savings_percentage"`
	Confidence                 string  `json:"confidence"`
}

// DryNibBug records a suspected overcharge: host-call overhead billed for
// more data than the operation actually returned.
type DryNibBug struct {
	Line      int    `json:"line"`
	Operation string `json:"operation"`
	Category  string `json:"category"`

	// InkChargedEstimate includes the estimated buffer overhead.
	InkChargedEstimate uint64 `json:"ink_charged_estimate"`

	// ActualReturnSize is the data size in bytes the operation returns.
	ActualReturnSize int `json:"actual_return_size"`

	// BufferAllocated is the estimated allocation, often padded well past
	// the actual return size.
	BufferAllocated int `json:"buffer_allocated"`

	ExpectedFairCost   uint64 `json:"expected_fair_cost"`
	OverchargeEstimate uint64 `json:"overcharge_estimate"`
	Severity           string `json:"severity"`
	Mitigation         string `json:"mitigation"`
}
