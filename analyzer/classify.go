package analyzer

import (
	"strings"

	"github.com/inkwell-tools/inkwell/ast"
	"github.com/inkwell-tools/inkwell/costmodel"
)

// classifier matches operation patterns over expression nodes and their
// rendered snippets. Snippet matching is deliberate: the cost calibration
// was tuned against text patterns, and the structural recursion reproduces
// the same emission order (depth-first, left to right, outer node first).
// An expression can emit more than once when both the text match and a
// structural rule fire; that duplication is part of the calibration.
type classifier struct {
	costs *costmodel.Config
}

// classifyExpr returns every operation detected in the expression, in
// emission order. The result is composed by concatenation and never
// re-sorted.
func (c *classifier) classifyExpr(expr ast.Expr, line int) []Operation {
	if expr == nil {
		return nil
	}
	snippet := strings.TrimSpace(expr.String())
	ops := c.classifySnippet(line, snippet)

	switch expr := expr.(type) {
	case *ast.MethodCall:
		// The outer text match already covers a chained receiver, so a
		// method-call receiver is only recursed when it is not itself a
		// method call.
		if _, chained := expr.X.(*ast.MethodCall); !chained {
			ops = append(ops, c.classifyExpr(expr.X, line)...)
		}
		for _, arg := range expr.Args {
			ops = append(ops, c.classifyExpr(arg, line)...)
		}
	case *ast.Call:
		ops = append(ops, c.classifyExpr(expr.Fun, line)...)
		for _, arg := range expr.Args {
			ops = append(ops, c.classifyExpr(arg, line)...)
		}
	case *ast.Infix:
		ops = append(ops, c.classifyExpr(expr.X, line)...)
		ops = append(ops, c.classifyExpr(expr.Y, line)...)
	case *ast.Assign:
		ops = append(ops, c.classifyExpr(expr.Target, line)...)
		ops = append(ops, c.classifyExpr(expr.Value, line)...)
		switch expr.Op {
		case "=":
			if looksLikeStorageWrite(expr.Target) {
				ops = append(ops, c.buildOperation(line, snippet,
					"storage_assign", "storage_write", "high"))
			}
		case "+=", "-=", "*=", "/=":
			if looksLikeStorageWrite(expr.Target) {
				ops = append(ops, c.buildOperation(line, snippet,
					"storage_compound_update", "storage_write", "high"))
			}
		}
	case *ast.Index:
		ops = append(ops, c.classifyExpr(expr.X, line)...)
		ops = append(ops, c.classifyExpr(expr.Index, line)...)
		if looksLikeStorageAccess(expr.X) {
			ops = append(ops, c.buildOperation(line, snippet,
				"storage_index_access", "storage_read", "high"))
		}
	case *ast.FieldAccess:
		ops = append(ops, c.classifyExpr(expr.X, line)...)
		if looksLikeStorageAccess(expr.X) {
			ops = append(ops, c.buildOperation(line, snippet,
				"storage_field_access", "storage_read", "high"))
		}
	}

	return ops
}

// classifySnippet runs the text-pattern families over one rendered snippet.
// Loop and conditional statements go through here directly: their whole body
// renders as one snippet, which fires each family at most once per
// statement.
func (c *classifier) classifySnippet(line int, snippet string) []Operation {
	var ops []Operation
	normalized := normalizeSnippet(snippet)

	if readType, ok := detectStorageRead(normalized); ok {
		ops = append(ops, c.buildOperation(line, snippet,
			"storage_read ("+readType+")", "storage_read", "high"))
	}

	if writeType, ok := detectStorageWrite(normalized); ok {
		operation := "storage_write (" + writeType + ")"
		if hasEmbeddedRead(normalized) {
			operation = "storage_write (" + writeType + " + embedded_read)"
		}
		ops = append(ops, c.buildOperation(line, snippet,
			operation, "storage_write", "high"))
	}

	if strings.Contains(normalized, "msg::sender()") || strings.Contains(normalized, "msg.sender()") {
		ops = append(ops, c.buildOperation(line, snippet,
			"msg::sender()", "evm_context", "low"))
	}
	if strings.Contains(normalized, "msg::value()") || strings.Contains(normalized, "msg.value()") {
		ops = append(ops, c.buildOperation(line, snippet,
			"msg::value()", "evm_context", "low"))
	}
	if strings.Contains(normalized, "block::number()") ||
		strings.Contains(normalized, "block.number()") ||
		strings.Contains(normalized, "block::timestamp()") ||
		strings.Contains(normalized, "block.timestamp()") {
		ops = append(ops, c.buildOperation(line, snippet,
			"block_info", "evm_context", "low"))
	}
	if strings.Contains(normalized, "evm::log(") || strings.Contains(normalized, ".emit(") {
		ops = append(ops, c.buildOperation(line, snippet,
			"event_emit", "event", "medium"))
	}
	if strings.Contains(normalized, ".call(") || strings.Contains(normalized, "CallBuilder") {
		ops = append(ops, c.buildOperation(line, snippet,
			"external_call", "external_call", "high"))
	}
	if strings.Contains(normalized, "keccak256") ||
		strings.Contains(normalized, "sha256") ||
		strings.Contains(normalized, "ecdsa") {
		ops = append(ops, c.buildOperation(line, snippet,
			"crypto_hash", "crypto", "medium"))
	}

	return ops
}

func (c *classifier) buildOperation(line int, code, operation, category, severity string) Operation {
	return Operation{
		Line:      line,
		Column:    0,
		Code:      code,
		Operation: operation,
		Entity:    ExtractEntity(code),
		Ink:       c.costs.Lookup(operation, category),
		Category:  category,
		Severity:  severity,
	}
}

// normalizeSnippet collapses the whitespace variants a renderer may
// introduce around member access and call parens.
func normalizeSnippet(s string) string {
	s = strings.ReplaceAll(s, " . ", ".")
	s = strings.ReplaceAll(s, ". ", ".")
	s = strings.ReplaceAll(s, " (", "(")
	return s
}

func detectStorageRead(normalized string) (string, bool) {
	if !strings.Contains(normalized, "self.") {
		return "", false
	}
	if strings.Contains(normalized, ".get(") ||
		strings.Contains(normalized, ".getter()") ||
		strings.Contains(normalized, ".at(") ||
		strings.Contains(normalized, ".value()") ||
		strings.Contains(normalized, ".len()") {
		return "get()", true
	}
	if strings.HasPrefix(normalized, "self.") &&
		!strings.Contains(normalized, "(") &&
		!strings.Contains(normalized, "=") {
		return "direct", true
	}
	return "", false
}

func detectStorageWrite(normalized string) (string, bool) {
	if !strings.Contains(normalized, "self.") {
		return "", false
	}
	if strings.Contains(normalized, ".insert(") ||
		strings.Contains(normalized, ".set(") ||
		strings.Contains(normalized, ".push(") {
		return "write()", true
	}
	if strings.Contains(normalized, "+=") || strings.Contains(normalized, "-=") {
		return "compound_write", true
	}
	return "", false
}

func hasEmbeddedRead(normalized string) bool {
	hasWrite := strings.Contains(normalized, ".insert(") || strings.Contains(normalized, ".set(")
	hasRead := strings.Contains(normalized, ".get(") || strings.Contains(normalized, ".getter(")
	return hasWrite && hasRead
}

// looksLikeStorageWrite checks whether an assignment target names a storage
// container by segment name.
func looksLikeStorageWrite(expr ast.Expr) bool {
	switch expr := expr.(type) {
	case *ast.Ident:
		return nameSuggestsStorage(expr.Name)
	case *ast.Path:
		for _, seg := range expr.Segments {
			if nameSuggestsStorage(seg) {
				return true
			}
		}
		return false
	case *ast.FieldAccess:
		return looksLikeStorageWrite(expr.X)
	case *ast.Index:
		return looksLikeStorageWrite(expr.X)
	default:
		return false
	}
}

// looksLikeStorageAccess checks whether an access chain is rooted at self.
func looksLikeStorageAccess(expr ast.Expr) bool {
	switch expr := expr.(type) {
	case *ast.Ident:
		return expr.Name == "self"
	case *ast.Path:
		return len(expr.Segments) > 0 && expr.Segments[0] == "self"
	case *ast.FieldAccess:
		return looksLikeStorageAccess(expr.X) || expr.Name == "storage"
	case *ast.Index:
		return looksLikeStorageAccess(expr.X)
	default:
		return false
	}
}

func nameSuggestsStorage(name string) bool {
	return strings.Contains(name, "storage") ||
		strings.Contains(name, "balances") ||
		strings.Contains(name, "map") ||
		strings.Contains(name, "vec")
}
