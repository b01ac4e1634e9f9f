package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSeedCommunitiesDryRun(t *testing.T) {
	out, err := execute(t, "communities", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "created 4, skipped 0")
}

func TestSeedCommunitiesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "communities.yaml")
	require.NoError(t, os.WriteFile(path, []byte("communities:\n  - name: Kayaking\n  - name: Climbing\n"), 0o600))

	out, err := execute(t, "communities", "--dry-run", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "created 2, skipped 0")
}

func TestSeedCommunitiesRejectsMemoryBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	_, err := execute(t, "communities")
	assert.ErrorContains(t, err, "--dry-run")
}
