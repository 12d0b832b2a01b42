// Package instrument rewrites entry-point bodies to measure real ink
// consumption. Each expensive statement is wrapped in probe calls that only
// exist under the ink-profiling feature flag; with the flag off the
// program is unchanged. A generated __ink_profiling module appended to the
// output collects the measurements and reapplies the dry-nib checks against
// live deltas.
package instrument

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkwell-tools/inkwell/ast"
	"github.com/inkwell-tools/inkwell/internal/entrypoint"
	"github.com/inkwell-tools/inkwell/parser"
	"github.com/rs/zerolog"
)

// InstrumentedOperation records one inserted probe.
type InstrumentedOperation struct {
	// ProbeID is unique per run, strictly increasing from 0.
	ProbeID uint32 `json:"probe_id"`

	// OperationType is the probe category: storage_read, storage_write,
	// event_emit, msg_sender, msg_value, or block_info.
	OperationType string `json:"operation_type"`

	// Line is where the instrumented statement starts.
	Line int `json:"line"`
}

// Instrumentor injects runtime probes. One Instrumentor handles one file;
// probe ids restart from zero for each new Instrumentor.
type Instrumentor struct {
	probeCounter uint32
	operations   []InstrumentedOperation
	logger       zerolog.Logger
	filename     string
}

// Option configures an Instrumentor.
type Option func(*Instrumentor)

// WithLogger attaches a logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(ins *Instrumentor) { ins.logger = logger }
}

// WithFilename sets the filename used in parse error messages.
func WithFilename(name string) Option {
	return func(ins *Instrumentor) { ins.filename = name }
}

// New creates an empty Instrumentor.
func New(opts ...Option) *Instrumentor {
	ins := &Instrumentor{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(ins)
	}
	return ins
}

// Operations returns every probe inserted so far, in insertion order.
func (ins *Instrumentor) Operations() []InstrumentedOperation {
	return ins.operations
}

// Instrument parses the source, wraps expensive statements in eligible
// entry points with probes, and returns the rewritten source with the
// __ink_profiling module appended. The only failure mode is a parse error;
// once parsed, every non-matching statement passes through unchanged.
func (ins *Instrumentor) Instrument(ctx context.Context, source string) (string, error) {
	var parseOpts []parser.Option
	if ins.filename != "" {
		parseOpts = append(parseOpts, parser.WithFilename(ins.filename))
	}
	file, err := parser.Parse(ctx, source, parseOpts...)
	if err != nil {
		return "", err
	}

	signals := entrypoint.Scan(file)
	for _, item := range file.Items {
		impl, ok := item.(*ast.Impl)
		if !ok {
			continue
		}
		for _, fn := range impl.Fns {
			if !entrypoint.Eligible(impl, fn, signals) {
				continue
			}
			ins.instrumentBlock(fn.Body)
		}
	}

	ins.logger.Debug().
		Int("probes", len(ins.operations)).
		Msg("instrumented source")

	return file.String() + "\n\n" + trackerModule + "\n", nil
}

// instrumentBlock rewrites the statements of one block, recursing into
// nested control-flow bodies.
func (ins *Instrumentor) instrumentBlock(block *ast.Block) {
	if block == nil {
		return
	}
	rewritten := make([]ast.Stmt, 0, len(block.Stmts))
	for _, stmt := range block.Stmts {
		switch s := stmt.(type) {
		case *ast.While:
			ins.instrumentBlock(s.Body)
		case *ast.For:
			ins.instrumentBlock(s.Body)
		case *ast.Loop:
			ins.instrumentBlock(s.Body)
		case *ast.If:
			ins.instrumentIf(s)
		}

		expr := statementExpr(stmt)
		if expr == nil || !(isStorageOperation(expr) || isExpensiveOperation(expr)) {
			rewritten = append(rewritten, stmt)
			continue
		}
		opType := classifyOperation(expr)
		if opType == "" {
			rewritten = append(rewritten, stmt)
			continue
		}
		rewritten = append(rewritten, ins.injectProbe(stmt, opType)...)
	}
	block.Stmts = rewritten
}

func (ins *Instrumentor) instrumentIf(s *ast.If) {
	ins.instrumentBlock(s.Consequence)
	switch alt := s.Alternative.(type) {
	case *ast.Block:
		ins.instrumentBlock(alt)
	case *ast.If:
		ins.instrumentIf(alt)
	}
}

// statementExpr returns the expression a statement evaluates, when it is a
// candidate for instrumentation.
func statementExpr(stmt ast.Stmt) ast.Expr {
	switch stmt := stmt.(type) {
	case *ast.Let:
		return stmt.Value
	case *ast.ExprStmt:
		return stmt.X
	default:
		return nil
	}
}

// injectProbe replaces one statement with its probe-wrapped form. Storage
// reads get a fourth statement that measures the captured result size.
func (ins *Instrumentor) injectProbe(stmt ast.Stmt, opType string) []ast.Stmt {
	probeID := ins.probeCounter
	ins.probeCounter++
	ins.operations = append(ins.operations, InstrumentedOperation{
		ProbeID:       probeID,
		OperationType: opType,
		Line:          stmt.Pos().LineNumber(),
	})

	pos := stmt.Pos()
	text := stmt.String()
	raw := func(format string, args ...interface{}) *ast.RawStmt {
		return &ast.RawStmt{From: pos, Text: fmt.Sprintf(format, args...)}
	}

	before := raw("#[cfg(feature = \"ink-profiling\")]\nlet __ink_before = __ink_profiling::probe_before(%d);", probeID)
	bypass := raw("#[cfg(not(feature = \"ink-profiling\"))]\n%s", text)

	if strings.Contains(opType, "storage_read") {
		capture := raw("#[cfg(feature = \"ink-profiling\")]\nlet __result = { %s };", text)
		after := raw("#[cfg(feature = \"ink-profiling\")]\n{\n    let __size = std::mem::size_of_val(&__result);\n    __ink_profiling::probe_after_with_size(%d, __ink_before, __size, Some(\"%s\"));\n    __result\n}", probeID, opType)
		return []ast.Stmt{before, capture, bypass, after}
	}

	after := raw("#[cfg(feature = \"ink-profiling\")]\n__ink_profiling::probe_after(%d, __ink_before, Some(\"%s\"));", probeID, opType)
	return []ast.Stmt{before, stmt, after}
}

// isStorageOperation checks the statement's rendered text for a self-rooted
// storage access.
func isStorageOperation(expr ast.Expr) bool {
	normalized := normalize(expr.String())
	if !strings.Contains(normalized, "self.") {
		return false
	}
	return strings.Contains(normalized, ".get(") ||
		strings.Contains(normalized, ".insert(") ||
		strings.Contains(normalized, ".set(") ||
		!strings.Contains(normalized, "(")
}

// isExpensiveOperation checks for host calls, external calls, and hashing.
func isExpensiveOperation(expr ast.Expr) bool {
	text := expr.String()
	return strings.Contains(text, "msg::sender()") ||
		strings.Contains(text, "msg::value()") ||
		strings.Contains(text, "evm::log(") ||
		strings.Contains(text, "block::") ||
		strings.Contains(text, ".call(") ||
		strings.Contains(text, "Call::new") ||
		strings.Contains(text, "keccak256") ||
		strings.Contains(text, "sha256")
}

// classifyOperation assigns the probe category. An empty result leaves the
// statement untouched.
func classifyOperation(expr ast.Expr) string {
	normalized := normalize(expr.String())
	switch {
	case strings.Contains(normalized, ".get(") || strings.Contains(normalized, ".at("):
		return "storage_read"
	case strings.Contains(normalized, ".insert(") || strings.Contains(normalized, ".set("):
		return "storage_write"
	case strings.Contains(normalized, "evm::log("):
		return "event_emit"
	case strings.Contains(normalized, "msg::sender()"):
		return "msg_sender"
	case strings.Contains(normalized, "msg::value()"):
		return "msg_value"
	case strings.Contains(normalized, "block::"):
		return "block_info"
	default:
		return ""
	}
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, " . ", ".")
	s = strings.ReplaceAll(s, ". ", ".")
	s = strings.ReplaceAll(s, " (", "(")
	return s
}
