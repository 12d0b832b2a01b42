package analyzer

import (
	"fmt"
	"sort"
)

// detectOptimizations proposes caching rewrites: (1) writes expensive
// enough to contain an embedded read, and (2) fields read more than once.
func (a *Analyzer) detectOptimizations(operations []Operation) []Optimization {
	var optimizations []Optimization

	for idx, op := range operations {
		if op.Category != "storage_write" || op.Ink <= a.costs.WriteFlagThreshold {
			continue
		}
		optimizations = append(optimizations, Optimization{
			ID:       fmt.Sprintf("redundant_read_%d", idx),
			Line:     op.Line,
			Severity: "high",
			Title:    "Redundant Storage Read in Write",
			Description: fmt.Sprintf(
				"This write operation contains an embedded storage read. Separate the read into a local variable to save ~%.1fM ink.",
				float64(a.costs.ReadSaving)/1_000_000),
			CurrentCode:                truncateCode(op.Code, 80),
			SuggestedCode:              "// Separate read and write:\n// let cached = storage.get(key);\n// storage.set(key, cached + value);",
			EstimatedSavingsInk:        a.costs.ReadSaving,
			EstimatedSavingsPercentage: 50.0,
			Confidence:                 "high",
		})
	}

	readLines := make(map[string][]int)
	for _, op := range operations {
		if op.Category == "storage_read" {
			readLines[op.Entity] = append(readLines[op.Entity], op.Line)
		}
	}
	entities := make([]string, 0, len(readLines))
	for entity := range readLines {
		entities = append(entities, entity)
	}
	sort.Slice(entities, func(i, j int) bool {
		return readLines[entities[i]][0] < readLines[entities[j]][0]
	})
	for _, entity := range entities {
		lines := readLines[entity]
		if len(lines) <= 1 || entity == UnknownEntity || entity == "" {
			continue
		}
		n := len(lines)
		optimizations = append(optimizations, Optimization{
			ID:       "cache_" + entity,
			Line:     lines[0],
			Severity: "medium",
			Title:    fmt.Sprintf("Cache repeated storage read: self.%s", entity),
			Description: fmt.Sprintf(
				"Field `%s` is read %d× → cache in local variable → save ~%.1fM ink",
				entity, n, float64(n-1)*float64(a.costs.ReadSaving)/1_000_000),
			CurrentCode: fmt.Sprintf("// Reads at lines: %v", lines),
			SuggestedCode: fmt.Sprintf(
				"let cached_%s = self.%s.get(...);\n// Use cached_%s instead",
				entity, entity, entity),
			EstimatedSavingsInk:        a.costs.ReadSaving * uint64(n-1),
			EstimatedSavingsPercentage: float64(n-1) / float64(n) * 100.0,
			Confidence:                 "high",
		})
	}

	return optimizations
}

func truncateCode(code string, maxLen int) string {
	if len(code) <= maxLen {
		return code
	}
	return code[:maxLen-3] + "..."
}
