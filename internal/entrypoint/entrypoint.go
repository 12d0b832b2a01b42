// Package entrypoint decides which functions in a contract file are
// externally callable. The analyzer and the instrumentor both use this one
// predicate so the two passes can never disagree about what counts as an
// entry point.
package entrypoint

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/inkwell-tools/inkwell/ast"
)

// lifecycleNames lists constructor, storage-load, and dispatch glue that is
// never analyzed as an entry point, regardless of visibility or markers.
var lifecycleNames = map[string]bool{
	"new":             true,
	"init":            true,
	"constructor":     true,
	"default":         true,
	"storage_load":    true,
	"storage_store":   true,
	"entrypoint":      true,
	"dispatch":        true,
	"route":           true,
	"fallback":        true,
	"call_entrypoint": true,
	"deploy":          true,
}

// IsLifecycle reports whether the name belongs to the lifecycle/dispatch
// blocklist.
func IsLifecycle(name string) bool {
	return lifecycleNames[name]
}

// Signals are file-level hints that the contract's entry points were
// generated by a declarative macro (sol_interface!/external trait expansion)
// rather than written with explicit markers. When a macro did the wiring,
// plain pub methods with self receivers are the real external surface.
type Signals struct {
	// SelectorConstants counts selector-like constants seen anywhere in the
	// file: consts of type [u8; 4], or *_SELECTOR consts of type u32.
	SelectorConstants int

	// Dispatcher reports a route/dispatch method taking a selector-typed
	// parameter.
	Dispatcher bool

	// OverrideMarkers reports #[automatically_derived] attributes or
	// assert_overrides! invocations.
	OverrideMarkers bool
}

// MacroContract reports whether the file shows enough macro-generated
// dispatch machinery to treat unmarked pub methods as entry points.
func (s Signals) MacroContract() bool {
	return s.SelectorConstants >= 2 || s.Dispatcher || s.OverrideMarkers
}

// Scan collects macro-contract signals from the whole file. The result is
// computed once per file and passed to every Eligible call.
func Scan(file *ast.File) Signals {
	var signals Signals
	ast.Inspect(file, func(node ast.Node) bool {
		switch node := node.(type) {
		case *ast.ConstItem:
			if isSelectorConst(node) {
				signals.SelectorConstants++
			}
		case *ast.Impl:
			if node.HasAttr("automatically_derived") {
				signals.OverrideMarkers = true
			}
		case *ast.Fn:
			if node.HasAttr("automatically_derived") {
				signals.OverrideMarkers = true
			}
			if isDispatcher(node) {
				signals.Dispatcher = true
			}
			// Signals live on declarations, not in bodies
			return false
		case *ast.MacroItem:
			if node.Path == "assert_overrides" {
				signals.OverrideMarkers = true
			}
		}
		return true
	})
	return signals
}

// Eligible reports whether a method inside an impl block is an externally
// callable entry point. Eligibility is the OR of three routes:
//
//  1. an explicit #[external] or #[public] marker on the impl block or
//     the function itself;
//  2. a plausible external signature: pub fn with a &self or &mut self
//     receiver;
//  3. macro-contract signals present in the file and the method takes a
//     self receiver.
//
// Lifecycle names and underscore-prefixed names never qualify, whatever
// markers they carry.
func Eligible(impl *ast.Impl, fn *ast.Fn, signals Signals) bool {
	if IsLifecycle(fn.Name) || strings.HasPrefix(fn.Name, "_") {
		return false
	}
	if hasMarker(impl) || hasFnMarker(fn) {
		return true
	}
	if fn.Public && fn.Receiver != nil && fn.Receiver.Reference {
		return true
	}
	if signals.MacroContract() && fn.Receiver != nil {
		return true
	}
	return false
}

// Selector returns the 4-byte function selector as a 0x-prefixed hex
// string, computed as the leading bytes of keccak256 over the canonical
// signature name(type1,type2,...).
func Selector(fn *ast.Fn) string {
	types := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		types = append(types, strings.ReplaceAll(p.Type, " ", ""))
	}
	canonical := fn.Name + "(" + strings.Join(types, ",") + ")"
	sum := crypto.Keccak256([]byte(canonical))
	return "0x" + hex.EncodeToString(sum[:4])
}

func hasMarker(impl *ast.Impl) bool {
	return impl.HasAttr("external") || impl.HasAttr("public")
}

func hasFnMarker(fn *ast.Fn) bool {
	return fn.HasAttr("external") || fn.HasAttr("public")
}

func isSelectorConst(c *ast.ConstItem) bool {
	typ := strings.ReplaceAll(c.Type, " ", "")
	if typ == "[u8;4]" {
		return true
	}
	return typ == "u32" && strings.HasSuffix(c.Name, "_SELECTOR")
}

func isDispatcher(fn *ast.Fn) bool {
	if fn.Name != "route" && fn.Name != "dispatch" {
		return false
	}
	for _, p := range fn.Params {
		typ := strings.ReplaceAll(p.Type, " ", "")
		if typ == "[u8;4]" || typ == "u32" {
			return true
		}
	}
	return false
}
