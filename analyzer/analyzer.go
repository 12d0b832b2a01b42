package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/inkwell-tools/inkwell/ast"
	"github.com/inkwell-tools/inkwell/costmodel"
	"github.com/inkwell-tools/inkwell/internal/entrypoint"
	"github.com/inkwell-tools/inkwell/parser"
	"github.com/rs/zerolog"
)

// NoEntryPointsError is returned when a full traversal finds no externally
// callable function. It is a hard failure distinct from a parse error: the
// caller can often recover by preprocessing the file rather than retrying
// the same input.
type NoEntryPointsError struct {
	// SelectorConstants is how many selector-like constants were seen. A
	// nonzero count strongly suggests the entry points live behind a
	// declarative macro and the file needs macro expansion first.
	SelectorConstants int

	// Candidates describe why nearby functions did not qualify.
	Candidates []string
}

func (e *NoEntryPointsError) Error() string {
	msg := "no entry points found"
	if e.SelectorConstants > 0 {
		msg += fmt.Sprintf(" (%d selector-like constants observed; the contract likely uses a declarative macro and needs macro expansion before analysis)",
			e.SelectorConstants)
	}
	for _, candidate := range e.Candidates {
		msg += "\n  " + candidate
	}
	return msg
}

// FriendlyErrorMessage implements errors.FriendlyError.
func (e *NoEntryPointsError) FriendlyErrorMessage() string {
	return e.Error()
}

// Analyzer drives contract analysis. It is stateless across runs; one
// Analyzer can analyze any number of files.
type Analyzer struct {
	costs  *costmodel.Config
	logger zerolog.Logger
	target string
	file   string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCostModel overrides the default cost table.
func WithCostModel(costs *costmodel.Config) Option {
	return func(a *Analyzer) { a.costs = costs }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// WithTargetFunction restricts the report to one function by bare name.
// Entry-point discovery still traverses the whole file.
func WithTargetFunction(name string) Option {
	return func(a *Analyzer) { a.target = name }
}

// WithFileLabel sets the file label carried into the report, typically the
// path relative to the project root.
func WithFileLabel(label string) Option {
	return func(a *Analyzer) { a.file = label }
}

// New creates an Analyzer with the given options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		costs:  costmodel.Default(),
		logger: zerolog.Nop(),
		file:   "contract.rs",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze parses the source and produces the full contract report.
// Parse failure is fatal with no partial result. A file with no qualifying
// entry points returns *NoEntryPointsError.
func (a *Analyzer) Analyze(ctx context.Context, source string) (*ContractAnalysis, error) {
	file, err := parser.Parse(ctx, source, parser.WithFilename(a.file))
	if err != nil {
		return nil, err
	}

	signals := entrypoint.Scan(file)
	a.logger.Debug().
		Int("selector_constants", signals.SelectorConstants).
		Bool("dispatcher", signals.Dispatcher).
		Bool("override_markers", signals.OverrideMarkers).
		Msg("scanned entry point signals")

	var functions []FunctionAnalysis
	eligible := 0
	for _, item := range file.Items {
		impl, ok := item.(*ast.Impl)
		if !ok {
			continue
		}
		for _, fn := range impl.Fns {
			if !entrypoint.Eligible(impl, fn, signals) {
				continue
			}
			eligible++
			if a.target != "" && fn.Name != a.target {
				continue
			}
			fa := a.analyzeFunction(fn, entrypoint.Selector(fn))
			a.logger.Debug().
				Str("function", fn.Name).
				Uint64("total_ink", fa.TotalInk).
				Int("operations", len(fa.Operations)).
				Msg("analyzed entry point")
			functions = append(functions, fa)
		}
	}

	if eligible == 0 {
		return nil, &NoEntryPointsError{
			SelectorConstants: signals.SelectorConstants,
			Candidates:        describeCandidates(file),
		}
	}

	return &ContractAnalysis{
		RunID:        uuid.Must(uuid.NewV4()).String(),
		ContractName: contractName(file),
		File:         a.file,
		Functions:    functions,
	}, nil
}

// contractName returns the first public struct declaration's name, or
// "Unknown" when the file declares none. Stylus contracts usually declare
// the struct inside sol_storage!, so macro bodies are scanned too.
func contractName(file *ast.File) string {
	for _, item := range file.Items {
		switch item := item.(type) {
		case *ast.Struct:
			if item.Public {
				return item.Name
			}
		case *ast.MacroItem:
			if name := pubStructName(item.Body); name != "" {
				return name
			}
		}
	}
	return "Unknown"
}

// pubStructName extracts the name from the first "pub struct" declaration
// in a raw text fragment.
func pubStructName(text string) string {
	pos := strings.Index(text, "pub struct")
	if pos < 0 {
		return ""
	}
	declaration := text[pos:]
	end := strings.IndexByte(declaration, '{')
	if end < 0 {
		return ""
	}
	fields := strings.Fields(declaration[:end])
	if len(fields) < 3 {
		return ""
	}
	return fields[2]
}

// describeCandidates explains why each impl method failed eligibility, to
// guide the caller toward a fix.
func describeCandidates(file *ast.File) []string {
	var candidates []string
	for _, item := range file.Items {
		impl, ok := item.(*ast.Impl)
		if !ok {
			continue
		}
		for _, fn := range impl.Fns {
			switch {
			case entrypoint.IsLifecycle(fn.Name):
				candidates = append(candidates,
					fmt.Sprintf("%s: lifecycle/dispatch helper, never analyzed", fn.Name))
			case strings.HasPrefix(fn.Name, "_"):
				candidates = append(candidates,
					fmt.Sprintf("%s: underscore-prefixed names are treated as internal", fn.Name))
			case !fn.Public:
				candidates = append(candidates,
					fmt.Sprintf("%s: not pub and no #[external]/#[public] marker", fn.Name))
			case fn.Receiver == nil:
				candidates = append(candidates,
					fmt.Sprintf("%s: no self receiver", fn.Name))
			}
		}
	}
	return candidates
}
