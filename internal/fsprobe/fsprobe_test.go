package fsprobe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	res := Probe(path)
	assert.False(t, res.FsnotifySupported)
	assert.Contains(t, res.Reason, "not a directory")
}

func TestProbe_Missing(t *testing.T) {
	res := Probe(filepath.Join(t.TempDir(), "missing"))
	assert.False(t, res.FsnotifySupported)
	assert.Contains(t, res.Reason, "stat failed")
}

func TestProbe_LeavesNoFilesBehind(t *testing.T) {
	dir := t.TempDir()
	_ = Probe(dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
