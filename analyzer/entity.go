package analyzer

import (
	"regexp"
	"strings"
)

// entityPattern matches the first self-rooted access chain in a snippet,
// capturing the field name: self.<field>.
var entityPattern = regexp.MustCompile(`self\.([a-zA-Z_][a-zA-Z0-9_]*)\.`)

// reservedEntityNames are tokens that can follow "self." without naming a
// storage field.
var reservedEntityNames = map[string]bool{
	"mut":    true,
	"ref":    true,
	"as":     true,
	"let":    true,
	"where":  true,
	"self":   true,
	"get":    true,
	"insert": true,
}

// UnknownEntity is the sentinel returned when no storage field can be
// resolved from a snippet. Operations carrying it are excluded from
// entity-keyed grouping.
const UnknownEntity = "unknown"

// ExtractEntity resolves the storage field accessed by a code snippet.
// Whitespace is stripped first so "self . balances . get(k)" and
// "self.balances.get(k)" resolve identically.
func ExtractEntity(code string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(code), " ", "")
	m := entityPattern.FindStringSubmatch(normalized)
	if m == nil {
		return UnknownEntity
	}
	name := m[1]
	if reservedEntityNames[name] {
		return UnknownEntity
	}
	return name
}
