package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBasic(t *testing.T) {
	f := NewFormatter(false)
	out := f.Format(&FormattedError{
		Code:     E1001,
		Kind:     "parse error",
		Message:  "unexpected token",
		Filename: "contract.rs",
		Line:     10,
		Column:   5,
		SourceLines: []SourceLineEntry{
			{Number: 10, Text: "    let x = ;", IsMain: true},
		},
	})

	assert.Contains(t, out, "parse error[E1001]: unexpected token")
	assert.Contains(t, out, "--> contract.rs:10:5")
	assert.Contains(t, out, "10 |     let x = ;")
	assert.Contains(t, out, "^")
}

func TestFormatCaretUnderlinesSpan(t *testing.T) {
	f := NewFormatter(false)
	out := f.Format(&FormattedError{
		Message:   "bad identifier",
		Line:      1,
		Column:    5,
		EndColumn: 9,
		SourceLines: []SourceLineEntry{
			{Number: 1, Text: "let abcde = 1;", IsMain: true},
		},
	})
	assert.Contains(t, out, "^^^^^")
}

func TestFormatHintAndNote(t *testing.T) {
	f := NewFormatter(false)
	out := f.Format(&FormattedError{
		Message: "unknown key 'storage_raed'",
		Hint:    "Did you mean 'storage_read'?",
		Note:    "valid keys are listed in the documentation",
	})
	assert.Contains(t, out, "hint: Did you mean 'storage_read'?")
	assert.Contains(t, out, "note: valid keys are listed in the documentation")
}

func TestFormatWithoutLocation(t *testing.T) {
	f := NewFormatter(false)
	out := f.Format(&FormattedError{Message: "something failed"})
	assert.Contains(t, out, "error: something failed")
	assert.NotContains(t, out, "-->")
}

func TestFormatNoColorHasNoEscapes(t *testing.T) {
	f := NewFormatter(false)
	out := f.Format(&FormattedError{
		Code:    E2001,
		Message: "no entry points",
		Line:    3,
		Column:  1,
		SourceLines: []SourceLineEntry{
			{Number: 3, Text: "fn private()", IsMain: true},
		},
	})
	assert.NotContains(t, out, "\x1b[")
}

func TestFormatMultiple(t *testing.T) {
	f := NewFormatter(false)
	errs := []*FormattedError{
		{Message: "first failure"},
		{Message: "second failure"},
		{Message: "third failure"},
	}
	out := f.FormatMultiple(errs)

	assert.Contains(t, out, "error[1/3]: first failure")
	assert.Contains(t, out, "error[2/3]: second failure")
	assert.Contains(t, out, "error[3/3]: third failure")
	assert.Contains(t, out, "found 3 errors")
}

func TestFormatMultipleSingleErrorHasNoNumbering(t *testing.T) {
	f := NewFormatter(false)
	out := f.FormatMultiple([]*FormattedError{{Message: "only failure"}})
	assert.NotContains(t, out, "1/1")
	assert.NotContains(t, out, "found")
}

func TestFormatMultipleEmpty(t *testing.T) {
	f := NewFormatter(false)
	require.Equal(t, "", f.FormatMultiple(nil))
}

func TestSourceLocationString(t *testing.T) {
	loc := SourceLocation{Filename: "lib.rs", Line: 4, Column: 9}
	assert.Equal(t, "lib.rs:4:9", loc.String())

	bare := SourceLocation{Line: 4, Column: 9}
	assert.Equal(t, "4:9", bare.String())
}

func TestSourceLocationIsZero(t *testing.T) {
	assert.True(t, SourceLocation{}.IsZero())
	assert.False(t, SourceLocation{Line: 1, Column: 1}.IsZero())
}

func TestWideLineNumbersStayAligned(t *testing.T) {
	f := NewFormatter(false)
	out := f.Format(&FormattedError{
		Message: "deep in the file",
		Line:    1234,
		Column:  2,
		SourceLines: []SourceLineEntry{
			{Number: 1234, Text: "self.x.get();", IsMain: true},
		},
	})
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "-->") {
			assert.True(t, strings.HasPrefix(line, "    "), "location arrow padded to line number width")
		}
	}
}
