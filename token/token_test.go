package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdentifier(t *testing.T) {
	tests := []struct {
		identifier string
		expected   Type
	}{
		{"fn", FN},
		{"impl", IMPL},
		{"self", SELF},
		{"pub", PUB},
		{"let", LET},
		{"match", MATCH},
		{"transfer", IDENT},
		{"balance_of", IDENT},
		{"Self", IDENT},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, LookupIdentifier(tt.identifier), tt.identifier)
	}
}

func TestPositionNumbers(t *testing.T) {
	p := Position{Line: 4, Column: 9}
	assert.Equal(t, 5, p.LineNumber())
	assert.Equal(t, 10, p.ColumnNumber())
}

func TestPositionAdvance(t *testing.T) {
	p := Position{Char: 10, LineStart: 8, Line: 1, Column: 2, File: "lib.rs"}
	q := p.Advance(3)
	assert.Equal(t, 13, q.Char)
	assert.Equal(t, 5, q.Column)
	assert.Equal(t, 1, q.Line)
	assert.Equal(t, "lib.rs", q.File)
}

func TestPositionIsValid(t *testing.T) {
	assert.False(t, NoPos.IsValid())
	assert.True(t, Position{Char: 1}.IsValid())
	assert.True(t, Position{File: "lib.rs"}.IsValid())
}
