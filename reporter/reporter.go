// Package reporter renders contract analyses for the console and for
// editors. It consumes the analyzer's output types only and never re-parses
// source.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/inkwell-tools/inkwell/analyzer"
)

// Output formats accepted by the reporter.
const (
	FormatCompact  = "compact"
	FormatDetailed = "detailed"
	FormatJSON     = "json"
)

var (
	colorHeader    = color.New(color.FgHiCyan, color.Bold)
	colorFunction  = color.New(color.FgHiWhite)
	colorInk       = color.New(color.FgHiYellow)
	colorHotspot   = color.New(color.FgHiRed, color.Bold)
	colorBar       = color.New(color.FgHiRed)
	colorBug       = color.New(color.FgHiMagenta, color.Bold)
	colorBugRule   = color.New(color.FgHiMagenta)
	colorOptTitle  = color.New(color.FgHiGreen, color.Bold)
	colorSuggested = color.New(color.FgGreen)
	colorCategory  = color.New(color.FgHiBlue, color.Bold)
	colorDim       = color.New(color.Faint)
)

// Reporter writes analysis reports in one of the supported formats.
type Reporter struct {
	w        io.Writer
	format   string
	useColor bool
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithFormat selects compact, detailed, or json output. Unknown values
// fall back to compact.
func WithFormat(format string) Option {
	return func(r *Reporter) { r.format = format }
}

// WithColor toggles ANSI color output.
func WithColor(enabled bool) Option {
	return func(r *Reporter) { r.useColor = enabled }
}

// New creates a Reporter writing to w. The default is compact output with
// color enabled.
func New(w io.Writer, opts ...Option) *Reporter {
	r := &Reporter{w: w, format: FormatCompact, useColor: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Print renders the analysis in the configured format.
func (r *Reporter) Print(analysis *analyzer.ContractAnalysis) error {
	switch r.format {
	case FormatJSON:
		return r.printJSON(analysis)
	case FormatDetailed:
		if err := r.printCompact(analysis); err != nil {
			return err
		}
		return r.printCategoryTables(analysis)
	default:
		return r.printCompact(analysis)
	}
}

func (r *Reporter) printJSON(analysis *analyzer.ContractAnalysis) error {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.w, string(data))
	return err
}

func (r *Reporter) printCompact(analysis *analyzer.ContractAnalysis) error {
	if r.useColor {
		fmt.Fprintf(r.w, "\n%s\n", r.paint(colorHeader, "INKWELL STAIN REPORT"))
		fmt.Fprintln(r.w, r.paint(colorDim, strings.Repeat("━", 60)))
	} else {
		fmt.Fprintf(r.w, "\nINKWELL STAIN REPORT\n")
		fmt.Fprintln(r.w, strings.Repeat("=", 60))
	}
	for _, fn := range analysis.Functions {
		r.printFunction(fn)
	}
	return nil
}

func (r *Reporter) printFunction(fn analyzer.FunctionAnalysis) {
	fmt.Fprintf(r.w, "\nFunction: %s\n", r.paint(colorFunction, fn.Signature))
	if fn.Selector != "" {
		fmt.Fprintf(r.w, "Selector: %s\n", r.paint(colorDim, fn.Selector))
	}
	fmt.Fprintf(r.w, "Total Ink: %s (~ %s gas)\n",
		r.paint(colorInk, formatInk(fn.TotalInk)),
		r.paint(colorInk, fmt.Sprintf("%d", fn.GasEquivalent)))
	fmt.Fprintf(r.w, "\n%s\n", r.rule())

	// Dry-nib bugs lead: they are the report's reason to exist.
	if len(fn.DryNibBugs) > 0 {
		r.printDryNibBugs(fn.DryNibBugs)
	}
	if len(fn.Hotspots) > 0 {
		r.printHotspots(fn)
	}
	if len(fn.Optimizations) > 0 {
		r.printOptimizations(fn.Optimizations)
	}
	fmt.Fprintf(r.w, "%s\n", r.rule())
}

func (r *Reporter) printHotspots(fn analyzer.FunctionAnalysis) {
	fmt.Fprintf(r.w, "\n%s\n\n", r.paint(colorHotspot, "HOTSPOTS (Operations > 1M ink)"))
	for _, hotspot := range fn.Hotspots {
		op, ok := operationAtLine(fn.Operations, hotspot.Line, hotspot.Operation)
		if !ok {
			continue
		}
		bar := strings.Repeat("█", int(op.Percentage/2.0))
		fmt.Fprintf(r.w, "  Line %3d  |  %-30s  %s  %s  %3.0f%%\n",
			op.Line,
			truncate(op.Operation, 30),
			r.paint(colorInk, fmt.Sprintf("%.1fM", float64(op.Ink)/1_000_000)),
			r.paint(colorBar, bar),
			op.Percentage)
	}
}

func (r *Reporter) printDryNibBugs(bugs []analyzer.DryNibBug) {
	rule := strings.Repeat("═", 60)
	if !r.useColor {
		rule = strings.Repeat("=", 60)
	}
	fmt.Fprintf(r.w, "\n%s\n", r.paint(colorBugRule, rule))
	fmt.Fprintf(r.w, "  %s\n", r.paint(colorBug, "DRY NIB BUGS DETECTED - HOST CALL OVERHEAD ISSUES"))
	fmt.Fprintf(r.w, "%s\n\n", r.paint(colorBugRule, rule))
	fmt.Fprintln(r.w, "These operations are charged for more buffer space than data actually returned:")
	fmt.Fprintln(r.w)

	for idx, bug := range bugs {
		fmt.Fprintf(r.w, "  Bug #%d: %s at line %d\n",
			idx+1, r.paint(colorInk, bug.Operation), bug.Line)
		fmt.Fprintln(r.w, "     |")
		fmt.Fprintf(r.w, "     | Operation: %s\n", bug.Category)
		fmt.Fprintf(r.w, "     | Actual return size: %d bytes\n", bug.ActualReturnSize)
		fmt.Fprintf(r.w, "     | Buffer allocated: %d bytes\n", bug.BufferAllocated)
		fmt.Fprintf(r.w, "     | Wastage: charged for %d bytes of padding!\n",
			bug.BufferAllocated-bug.ActualReturnSize)
		fmt.Fprintln(r.w, "     |")
		fmt.Fprintf(r.w, "     | Ink charged (est): %s ink\n", formatInk(bug.InkChargedEstimate))
		fmt.Fprintf(r.w, "     | Fair cost: %s ink\n", formatInk(bug.ExpectedFairCost))
		fmt.Fprintf(r.w, "     | Overcharge: %s ink (%.1f%% overcharge)\n",
			formatInk(bug.OverchargeEstimate), overchargePercent(bug))
		fmt.Fprintln(r.w, "     |")
		fmt.Fprintf(r.w, "     | Mitigation: %s\n", bug.Mitigation)
		fmt.Fprintln(r.w)
	}
	fmt.Fprintf(r.w, "%s\n", r.paint(colorBugRule, rule))
}

func (r *Reporter) printOptimizations(optimizations []analyzer.Optimization) {
	fmt.Fprintf(r.w, "\n%s\n", r.rule())
	fmt.Fprintf(r.w, "\n%s\n\n", r.paint(colorOptTitle, "OPTIMIZATION OPPORTUNITIES"))
	for _, opt := range optimizations {
		fmt.Fprintf(r.w, "  Line %d | %s\n", opt.Line, r.paint(colorInk, opt.Title))
		fmt.Fprintf(r.w, "         | %s\n", r.paint(colorDim, opt.Description))
		fmt.Fprintln(r.w, "         |")
		fmt.Fprintln(r.w, "         | Suggestion:")
		for _, line := range strings.Split(opt.SuggestedCode, "\n") {
			fmt.Fprintf(r.w, "         |   %s\n", r.paint(colorSuggested, line))
		}
		fmt.Fprintln(r.w, "         |")
		fmt.Fprintf(r.w, "         | Potential savings: ~%dK ink (%.0f%% reduction)\n",
			opt.EstimatedSavingsInk/1000, opt.EstimatedSavingsPercentage)
		fmt.Fprintln(r.w)
	}
}

func (r *Reporter) printCategoryTables(analysis *analyzer.ContractAnalysis) error {
	for _, fn := range analysis.Functions {
		if len(fn.Categories) == 0 {
			continue
		}
		fmt.Fprintf(r.w, "\n%s\n\n", r.paint(colorCategory, "CATEGORY SUMMARY: "+fn.Name))
		fmt.Fprintf(r.w, "%-15s | %10s | %12s | %5s | %10s\n",
			"Category", "Operations", "Total Ink", "%", "Avg/Op")
		fmt.Fprintln(r.w, strings.Repeat("-", 75))
		for _, category := range sortedCategories(fn.Categories) {
			stats := fn.Categories[category]
			fmt.Fprintf(r.w, "%-15s | %10d | %12d | %4.0f%% | %10d\n",
				category, stats.Count, stats.TotalInk, stats.Percentage, stats.AvgPerOp)
		}
	}
	return nil
}

func (r *Reporter) paint(c *color.Color, s string) string {
	if !r.useColor {
		return s
	}
	return c.Sprint(s)
}

func (r *Reporter) rule() string {
	if r.useColor {
		return r.paint(colorDim, strings.Repeat("━", 60))
	}
	return strings.Repeat("=", 60)
}

// operationAtLine finds the hotspot's underlying operation; duplicate lines
// are disambiguated by operation name.
func operationAtLine(operations []analyzer.Operation, line int, name string) (analyzer.Operation, bool) {
	for _, op := range operations {
		if op.Line == line && op.Operation == name {
			return op, true
		}
	}
	for _, op := range operations {
		if op.Line == line {
			return op, true
		}
	}
	return analyzer.Operation{}, false
}

func sortedCategories(categories map[string]analyzer.CategoryStats) []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatInk(ink uint64) string {
	return fmt.Sprintf("%d", ink)
}

func overchargePercent(bug analyzer.DryNibBug) float64 {
	if bug.ExpectedFairCost == 0 {
		return 0
	}
	return float64(bug.OverchargeEstimate) / float64(bug.ExpectedFairCost) * 100.0
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
