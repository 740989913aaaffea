package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCmd_IngestsExistingThenStops(t *testing.T) {
	ts := setupTestServices(t)
	dir := t.TempDir()
	writePDF(t, dir, "a.pdf")
	writePDF(t, dir, "b.pdf")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	out, err := executeCommand(t, ctx, nil, "watch", dir, "--settle", "10ms")

	require.NoError(t, err)
	assert.Contains(t, out, "Indexed a (a.pdf)")
	assert.Contains(t, out, "Indexed b (b.pdf)")

	uploads := ts.ingest.Uploads()
	require.Len(t, uploads, 2)
	assert.Equal(t, "a", uploads[0].DocumentID)
	assert.Equal(t, "b", uploads[1].DocumentID)
}

func TestWatchCmd_SkipExisting(t *testing.T) {
	ts := setupTestServices(t)
	dir := t.TempDir()
	writePDF(t, dir, "a.pdf")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := executeCommand(t, ctx, nil, "watch", dir, "--existing=false")

	require.NoError(t, err)
	assert.Empty(t, ts.ingest.Uploads())
}

func TestWatchCmd_InvalidDirectory(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, nil, nil, "watch", filepath.Join(t.TempDir(), "missing"))

	assert.Error(t, err)
}

func TestWatchCmd_NotConfigured(t *testing.T) {
	SetServices(Services{})

	_, err := executeCommand(t, nil, nil, "watch", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}
