package reporter

import (
	"fmt"
	"strings"

	"github.com/inkwell-tools/inkwell/analyzer"
)

// EditorDecorations is the editor payload written alongside a report. It
// carries everything an editor extension needs to annotate a single
// function without re-running the analysis.
type EditorDecorations struct {
	File          string      `json:"file"`
	Function      string      `json:"function"`
	TotalInk      uint64      `json:"total_ink"`
	GasEquivalent uint64      `json:"gas_equivalent"`
	Decorations   Decorations `json:"decorations"`
}

type Decorations struct {
	Inline      []InlineDecoration `json:"inline"`
	Gutter      []GutterDecoration `json:"gutter"`
	Hovers      []HoverDecoration  `json:"hovers"`
	CodeActions []CodeAction       `json:"code_actions"`
}

// InlineDecoration renders trailing text after a source line.
type InlineDecoration struct {
	Line  int    `json:"line"`
	Text  string `json:"text"`
	Color string `json:"color"`
}

// GutterDecoration places an icon in the editor gutter.
type GutterDecoration struct {
	Line     int    `json:"line"`
	Icon     string `json:"icon"`
	Severity string `json:"severity"`
}

// HoverDecoration attaches markdown to a line.
type HoverDecoration struct {
	Line     int    `json:"line"`
	Markdown string `json:"markdown"`
}

// CodeAction offers a one-click replacement for a span of lines.
type CodeAction struct {
	Line        int         `json:"line"`
	Title       string      `json:"title"`
	Replacement Replacement `json:"replacement"`
}

type Replacement struct {
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	NewText   string `json:"new_text"`
}

// GenerateDecorations builds editor annotations from a single function
// analysis. Operations become inline cost labels with hover detail, dry-nib
// bugs become error markers with fix actions, and optimizations become
// lightbulb actions.
func GenerateDecorations(file string, fn analyzer.FunctionAnalysis) *EditorDecorations {
	decorations := Decorations{
		Inline:      []InlineDecoration{},
		Gutter:      []GutterDecoration{},
		Hovers:      []HoverDecoration{},
		CodeActions: []CodeAction{},
	}

	for _, op := range fn.Operations {
		text := fmt.Sprintf(" %s ink (%.1f%%)", humanInk(op.Ink), op.Percentage)
		if op.Severity == "high" {
			text += " [hot]"
		}
		decorations.Inline = append(decorations.Inline, InlineDecoration{
			Line:  op.Line,
			Text:  text,
			Color: op.Severity,
		})
		if op.Ink > 1_000_000 {
			decorations.Gutter = append(decorations.Gutter, GutterDecoration{
				Line:     op.Line,
				Icon:     "flame",
				Severity: "high",
			})
		}
		decorations.Hovers = append(decorations.Hovers, HoverDecoration{
			Line:     op.Line,
			Markdown: operationHover(op),
		})
	}

	for _, bug := range fn.DryNibBugs {
		decorations.Inline = append(decorations.Inline, InlineDecoration{
			Line: bug.Line,
			Text: fmt.Sprintf(" DRY NIB: %d ink wasted (%d->%d bytes)",
				bug.OverchargeEstimate, bug.ActualReturnSize, bug.BufferAllocated),
			Color: "error",
		})
		decorations.Gutter = append(decorations.Gutter, GutterDecoration{
			Line:     bug.Line,
			Icon:     "bug",
			Severity: "error",
		})
		decorations.Hovers = append(decorations.Hovers, HoverDecoration{
			Line:     bug.Line,
			Markdown: bugHover(bug),
		})
		decorations.CodeActions = append(decorations.CodeActions, CodeAction{
			Line:  bug.Line,
			Title: "Fix dry nib bug: " + bug.Operation,
			Replacement: Replacement{
				StartLine: bug.Line,
				EndLine:   bug.Line,
				NewText:   "// " + bug.Mitigation,
			},
		})
	}

	for _, opt := range fn.Optimizations {
		decorations.Gutter = append(decorations.Gutter, GutterDecoration{
			Line:     opt.Line,
			Icon:     "lightbulb",
			Severity: "warning",
		})
		decorations.CodeActions = append(decorations.CodeActions, CodeAction{
			Line:  opt.Line,
			Title: opt.Title,
			Replacement: Replacement{
				StartLine: opt.Line,
				EndLine:   opt.Line,
				NewText:   opt.SuggestedCode,
			},
		})
	}

	return &EditorDecorations{
		File:          file,
		Function:      fn.Name,
		TotalInk:      fn.TotalInk,
		GasEquivalent: fn.GasEquivalent,
		Decorations:   decorations,
	}
}

func operationHover(op analyzer.Operation) string {
	var b strings.Builder
	b.WriteString("### Ink Cost\n\n")
	fmt.Fprintf(&b, "**Operation:** `%s`\n\n", op.Operation)
	fmt.Fprintf(&b, "**Category:** %s\n\n", op.Category)
	if op.Entity != "" && op.Entity != "unknown" {
		fmt.Fprintf(&b, "**Entity:** `self.%s`\n\n", op.Entity)
	}
	fmt.Fprintf(&b, "**Cost:** %d ink (%.1f%% of function)\n", op.Ink, op.Percentage)
	return b.String()
}

func bugHover(bug analyzer.DryNibBug) string {
	var b strings.Builder
	b.WriteString("### Dry Nib Bug\n\n")
	fmt.Fprintf(&b, "**Operation:** `%s`\n\n", bug.Operation)
	fmt.Fprintf(&b, "Charged for a %d byte buffer but only %d bytes returned.\n\n",
		bug.BufferAllocated, bug.ActualReturnSize)
	fmt.Fprintf(&b, "**Overcharge:** ~%d ink\n\n", bug.OverchargeEstimate)
	fmt.Fprintf(&b, "**Mitigation:** %s\n", bug.Mitigation)
	return b.String()
}

// humanInk renders an ink value as 1.2M or 350K for inline labels.
func humanInk(ink uint64) string {
	switch {
	case ink >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(ink)/1_000_000)
	case ink >= 1_000:
		return fmt.Sprintf("%dK", ink/1_000)
	default:
		return fmt.Sprintf("%d", ink)
	}
}
