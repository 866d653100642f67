package odb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinkStrategiesAccepted(t *testing.T) {
	got, err := ParseLinkStrategies([]string{"reflink", "hardlink", "copy", "symlink"})
	require.NoError(t, err)
	assert.Equal(t, []LinkStrategy{StrategyReflink, StrategyHardlink, StrategyCopy, StrategySymlink}, got)
}

func TestParseLinkStrategiesRejectsUnknown(t *testing.T) {
	_, err := ParseLinkStrategies([]string{"teleport"})
	assert.Error(t, err)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
	require.NoError(t, copyFile(src, dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestMaterializeWithPreferencesFallsBackOnFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	// Exercise the fallback by preferring reflink (unsupported on most
	// filesystems used for test tmp dirs, or a no-op success) then copy.
	err := materializeWithPreferences(src, dst, []LinkStrategy{StrategyReflink, StrategyCopy})
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}
