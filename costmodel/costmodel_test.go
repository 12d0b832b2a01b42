package costmodel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, uint64(1_200_000), cfg.StorageRead)
	assert.Equal(t, uint64(1_500_000), cfg.StorageWrite)
	assert.Equal(t, uint64(2_400_000), cfg.StorageWriteEmbeddedRead)
	assert.Equal(t, uint64(10_000), cfg.InkPerGas)
	assert.Equal(t, 3, cfg.RepeatedReadMin)
}

func TestLookup(t *testing.T) {
	cfg := Default()
	tests := []struct {
		operation string
		category  string
		want      uint64
	}{
		{"storage_read (get())", "storage_read", 1_200_000},
		{"storage_read (direct)", "storage_read", 1_200_000},
		{"storage_write (write())", "storage_write", 1_500_000},
		{"storage_write (write() + embedded_read)", "storage_write", 2_400_000},
		{"storage_compound_update", "storage_write", 1_500_000},
		{"msg::sender()", "evm_context", 300_000},
		{"msg::value()", "evm_context", 350_000},
		{"block_info block::number", "evm_context", 250_000},
		{"tx::origin()", "evm_context", 200_000},
		{"event_emit", "event", 350_000},
		{"external_call", "external_call", 2_500_000},
		{"crypto_hash", "crypto", 500_000},
		{"require_check", "control_flow", 50_000},
		{"something_else", "misc", 50_000},
	}
	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.Lookup(tt.operation, tt.category))
		})
	}
}

func TestValidateAggregatesViolations(t *testing.T) {
	cfg := Default()
	cfg.InkPerGas = 0
	cfg.RepeatedReadMin = 0
	cfg.NestedInkPerGas = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ink_per_gas")
	assert.Contains(t, err.Error(), "repeated_read_min")
	assert.Contains(t, err.Error(), "nested_ink_per_gas")
}

func TestValidateOrderingConstraints(t *testing.T) {
	cfg := Default()
	cfg.OverchargeHighSeverity = 100
	cfg.OverchargeFlagThreshold = 200
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overcharge_high_severity")

	cfg = Default()
	cfg.StorageWriteEmbeddedRead = 1_000_000
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage_write_embedded_read")
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load([]byte("storage_read: 999000\nrepeated_read_min: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(999_000), cfg.StorageRead)
	assert.Equal(t, 2, cfg.RepeatedReadMin)
	// Untouched keys keep their defaults
	assert.Equal(t, uint64(1_500_000), cfg.StorageWrite)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load([]byte("storage_raed: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cost config key")
	assert.Contains(t, err.Error(), "storage_read")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load([]byte("ink_per_gas: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ink_per_gas")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load([]byte("storage_read: [unclosed\n"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "costs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("event_emit: 400000\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(400_000), cfg.EventEmit)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
