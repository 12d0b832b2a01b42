package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Parse errors
//   - E2xxx: Analysis errors
//   - E3xxx: Configuration errors
type ErrorCode string

const (
	// Parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Unterminated string literal
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1004 ErrorCode = "E1004" // Missing expression
	E1005 ErrorCode = "E1005" // Invalid assignment target
	E1006 ErrorCode = "E1006" // Expected identifier
	E1007 ErrorCode = "E1007" // Unclosed delimiter
	E1008 ErrorCode = "E1008" // Invalid number literal
	E1009 ErrorCode = "E1009" // Maximum nesting depth exceeded
	E1010 ErrorCode = "E1010" // Unterminated block comment

	// Analysis errors (E2xxx)
	E2001 ErrorCode = "E2001" // No entry points found
	E2002 ErrorCode = "E2002" // No contract struct found
	E2003 ErrorCode = "E2003" // Empty function body
	E2004 ErrorCode = "E2004" // Unknown operation kind

	// Configuration errors (E3xxx)
	E3001 ErrorCode = "E3001" // Invalid cost value
	E3002 ErrorCode = "E3002" // Unknown configuration key
	E3003 ErrorCode = "E3003" // Invalid threshold
	E3004 ErrorCode = "E3004" // Unreadable config file
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "unterminated string literal",
	E1003: "invalid syntax",
	E1004: "missing expression",
	E1005: "invalid assignment target",
	E1006: "expected identifier",
	E1007: "unclosed delimiter",
	E1008: "invalid number literal",
	E1009: "maximum nesting depth exceeded",
	E1010: "unterminated block comment",

	E2001: "no entry points found",
	E2002: "no contract struct found",
	E2003: "empty function body",
	E2004: "unknown operation kind",

	E3001: "invalid cost value",
	E3002: "unknown configuration key",
	E3003: "invalid threshold",
	E3004: "unreadable config file",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '2':
		return "analysis"
	case '3':
		return "config"
	default:
		return "unknown"
	}
}
