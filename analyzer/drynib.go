package analyzer

import (
	"fmt"
	"sort"
	"strings"
)

// detectDryNibBugs runs three independent passes over the classified
// operations. The passes do not deduplicate against each other: an
// operation can surface once per pass, each describing a different waste
// mechanism.
func (a *Analyzer) detectDryNibBugs(operations []Operation) []DryNibBug {
	var bugs []DryNibBug

	readLines := make(map[string][]int)
	type nestedAccess struct {
		line      int
		operation string
		entity    string
	}
	var nested []nestedAccess

	// Pass 1: per-operation overcharge from buffer padding.
	for _, op := range operations {
		if op.Category != "storage_read" && op.Category != "storage_write" {
			continue
		}
		if op.Entity == UnknownEntity || op.Entity == "" {
			continue
		}

		getCount := strings.Count(op.Code, ".get(")
		if op.Category == "storage_read" {
			readLines[op.Entity] = append(readLines[op.Entity], op.Line)
			if getCount >= 2 {
				nested = append(nested, nestedAccess{op.Line, op.Operation, op.Entity})
			}
		}

		var baseCost uint64
		switch op.Category {
		case "storage_read":
			baseCost = a.costs.ReadBaseCost
		case "storage_write":
			baseCost = a.costs.WriteBaseCost
		}
		const returnSize = 32

		fairCost := baseCost + returnSize*a.costs.PerByteFair
		bufferSize := estimateBufferAllocation(returnSize)
		words := uint64(bufferSize+31) / 32
		likelyCharged := baseCost + words*a.costs.PerWordCharge
		var overcharge uint64
		if likelyCharged > fairCost {
			overcharge = likelyCharged - fairCost
		}

		if overcharge > a.costs.OverchargeFlagThreshold || getCount >= 2 {
			severity := "medium"
			if overcharge > a.costs.OverchargeHighSeverity {
				severity = "high"
			}
			bugs = append(bugs, DryNibBug{
				Line:               op.Line,
				Operation:          op.Operation,
				Category:           op.Category,
				InkChargedEstimate: likelyCharged,
				ActualReturnSize:   returnSize,
				BufferAllocated:    bufferSize,
				ExpectedFairCost:   fairCost,
				OverchargeEstimate: overcharge,
				Severity:           severity,
				Mitigation:         suggestDryNibMitigation(op.Operation),
			})
		}
	}

	// Pass 2: repeated reads of one field accumulate waste; one bug per
	// field, reported at the first read.
	entities := make([]string, 0, len(readLines))
	for entity := range readLines {
		entities = append(entities, entity)
	}
	sort.Slice(entities, func(i, j int) bool {
		return readLines[entities[i]][0] < readLines[entities[j]][0]
	})
	for _, entity := range entities {
		lines := readLines[entity]
		if len(lines) < a.costs.RepeatedReadMin {
			continue
		}
		n := uint64(len(lines))
		bugs = append(bugs, DryNibBug{
			Line:               lines[0],
			Operation:          "repeated storage_read: self." + entity,
			Category:           "storage_read",
			InkChargedEstimate: n * a.costs.RepeatedReadWaste,
			ActualReturnSize:   32,
			BufferAllocated:    64,
			ExpectedFairCost:   a.costs.RepeatedReadWaste,
			OverchargeEstimate: (n - 1) * a.costs.RepeatedReadWaste,
			Severity:           "high",
			Mitigation: fmt.Sprintf(
				"Cache `self.%s` in a local variable. Repeated host calls are a major dry-nib source (each .get() incurs buffer allocation overhead).",
				entity),
		})
	}

	// Pass 3: nested map access triggers multiple host round trips. The
	// charged estimate assumes both reads cold; the fair cost assumes one
	// host call with the inner read warm.
	for _, access := range nested {
		charged := a.costs.NestedHostIOInk*2 + a.costs.NestedColdSloadGas*a.costs.NestedInkPerGas
		fair := a.costs.NestedHostIOInk + a.costs.NestedWarmSloadGas*a.costs.NestedInkPerGas
		var overcharge uint64
		if charged > fair {
			overcharge = charged - fair
		}
		bugs = append(bugs, DryNibBug{
			Line:               access.line,
			Operation:          access.operation,
			Category:           "storage_read",
			InkChargedEstimate: charged,
			ActualReturnSize:   32,
			BufferAllocated:    64,
			ExpectedFairCost:   fair,
			OverchargeEstimate: overcharge,
			Severity:           "high",
			Mitigation: fmt.Sprintf(
				"Nested access on storage field `%s` detected. In Arbitrum Stylus, this triggers multiple host I/O calls. Use `self.%s.getter(key)` to cache the intermediate mapping and avoid redundant WASM-to-Host transitions.",
				access.entity, access.entity),
		})
	}

	return bugs
}

// estimateBufferAllocation models the allocation padding applied to a host
// call return: small values still get a 32-byte buffer, word-sized values
// often get doubled, and larger returns round up to 64-byte multiples.
func estimateBufferAllocation(actualSize int) int {
	switch {
	case actualSize <= 8:
		return 32
	case actualSize <= 32:
		return 64
	case actualSize <= 64:
		return 128
	default:
		return (actualSize + 63) / 64 * 64
	}
}

func suggestDryNibMitigation(operation string) string {
	switch {
	case strings.Contains(operation, "storage_read") || strings.Contains(operation, "storage_write"):
		return "Storage operations have buffer overhead. Cache repeated reads in local variables. " +
			"For nested maps like self.balances.get(addr), the outer .get() call allocates a buffer " +
			"even though it just returns a storage pointer. Consider restructuring to minimize map nesting depth."
	case strings.Contains(operation, "msg::sender"):
		return "Cache msg::sender() result in a local variable if used multiple times. " +
			"The 20-byte address is often charged for 32+ bytes of overhead."
	case strings.Contains(operation, "block::"):
		return "Cache block properties in local variables. Even small values like block.number (u64) " +
			"may be charged for full 32-byte word overhead."
	default:
		return "Minimize host calls by batching operations and caching results where possible."
	}
}
