package analyzer

import (
	"sort"
	"strings"

	"github.com/inkwell-tools/inkwell/ast"
)

// analyzeFunction produces the full cost breakdown for one entry point.
func (a *Analyzer) analyzeFunction(fn *ast.Fn, selector string) FunctionAnalysis {
	c := &classifier{costs: a.costs}

	var operations []Operation
	if fn.Body != nil {
		for _, stmt := range fn.Body.Stmts {
			operations = append(operations, c.classifyStmt(stmt)...)
		}
	}

	// Percentages are a second phase: sum first, then normalize.
	var totalInk uint64
	for _, op := range operations {
		totalInk += op.Ink
	}
	for i := range operations {
		if totalInk > 0 {
			operations[i].Percentage = float64(operations[i].Ink) / float64(totalInk) * 100.0
		} else {
			operations[i].Percentage = 0.0
		}
	}

	return FunctionAnalysis{
		Name:          fn.Name,
		Signature:     fn.Signature(),
		Selector:      selector,
		StartLine:     fn.Pos().LineNumber(),
		TotalInk:      totalInk,
		GasEquivalent: totalInk / a.costs.InkPerGas,
		Operations:    operations,
		Categories:    calculateCategories(operations, totalInk),
		Optimizations: a.detectOptimizations(operations),
		Hotspots:      a.identifyHotspots(operations),
		DryNibBugs:    a.detectDryNibBugs(operations),
	}
}

// classifyStmt classifies one body statement. Let initializers, expression
// statements, and returns recurse structurally; require!/assert! guards
// yield a control-flow check; loops and conditionals are matched over their
// whole rendered text.
func (c *classifier) classifyStmt(stmt ast.Stmt) []Operation {
	if stmt == nil {
		return nil
	}
	line := stmt.Pos().LineNumber()
	switch stmt := stmt.(type) {
	case *ast.Let:
		if stmt.Value != nil {
			return c.classifyExpr(stmt.Value, line)
		}
		return nil
	case *ast.ExprStmt:
		return c.classifyExpr(stmt.X, line)
	case *ast.Return:
		if stmt.Value != nil {
			return c.classifyExpr(stmt.Value, line)
		}
		return nil
	case *ast.MacroStmt:
		if strings.Contains(stmt.Path, "require") || strings.Contains(stmt.Path, "assert") {
			return []Operation{{
				Line:      line,
				Column:    0,
				Code:      stmt.String(),
				Operation: "require_check",
				Entity:    ExtractEntity(stmt.String()),
				Ink:       c.costs.RequireCheck,
				Category:  "control_flow",
				Severity:  "low",
			}}
		}
		return nil
	case *ast.While, *ast.For, *ast.Loop, *ast.If, *ast.Match:
		return c.classifySnippet(line, strings.TrimSpace(stmt.String()))
	default:
		return nil
	}
}

// calculateCategories groups operations by category with count, sum,
// integer average, and share of the function total.
func calculateCategories(operations []Operation, totalInk uint64) map[string]CategoryStats {
	stats := make(map[string]CategoryStats)
	for _, op := range operations {
		s := stats[op.Category]
		s.Count++
		s.TotalInk += op.Ink
		stats[op.Category] = s
	}
	for category, s := range stats {
		if s.Count > 0 {
			s.AvgPerOp = s.TotalInk / uint64(s.Count)
		}
		if totalInk > 0 {
			s.Percentage = float64(s.TotalInk) / float64(totalInk) * 100.0
		}
		stats[category] = s
	}
	return stats
}

// identifyHotspots selects operations above the hotspot threshold, sorted
// by ink descending with encounter order breaking ties, ranks 1..N.
func (a *Analyzer) identifyHotspots(operations []Operation) []Hotspot {
	var hotspots []Hotspot
	for _, op := range operations {
		if op.Ink > a.costs.HotspotThreshold {
			hotspots = append(hotspots, Hotspot{
				Line:      op.Line,
				Ink:       op.Ink,
				Operation: op.Operation,
			})
		}
	}
	sort.SliceStable(hotspots, func(i, j int) bool {
		return hotspots[i].Ink > hotspots[j].Ink
	})
	for i := range hotspots {
		hotspots[i].Rank = i + 1
	}
	return hotspots
}
