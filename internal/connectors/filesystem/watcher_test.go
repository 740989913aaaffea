package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	w := New("/tmp/inbox")

	require.NotNil(t, w)
	assert.Equal(t, "/tmp/inbox", w.Root())
	assert.Equal(t, DefaultSettle, w.settle)

	w = New("/tmp/inbox", WithSettle(10*time.Millisecond))
	assert.Equal(t, 10*time.Millisecond, w.settle)

	w = New("/tmp/inbox", WithSettle(0))
	assert.Equal(t, DefaultSettle, w.settle)
}

func TestWatcher_Validate(t *testing.T) {
	t.Run("empty root", func(t *testing.T) {
		assert.Error(t, New("").Validate())
	})

	t.Run("missing root", func(t *testing.T) {
		assert.Error(t, New(filepath.Join(t.TempDir(), "missing")).Validate())
	})

	t.Run("file root", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "a.pdf")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		err := New(file).Validate()
		assert.ErrorIs(t, err, ErrNotDirectory)
	})

	t.Run("directory root", func(t *testing.T) {
		assert.NoError(t, New(t.TempDir()).Validate())
	})
}

func TestWatcher_Existing(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt", ".hidden.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0755))

	paths, err := New(dir).Existing()

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.PDF"), filepath.Join(dir, "b.pdf")}, paths)
}

func TestWatcher_Watch(t *testing.T) {
	t.Run("reports new pdf once settled", func(t *testing.T) {
		dir := t.TempDir()
		w := New(dir, WithSettle(20*time.Millisecond))
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		paths, err := w.Watch(ctx)
		require.NoError(t, err)

		target := filepath.Join(dir, "paper.pdf")
		go func() {
			time.Sleep(50 * time.Millisecond)
			os.WriteFile(target, []byte("%PDF-1.4"), 0644)
		}()

		select {
		case path := <-paths:
			assert.Equal(t, target, path)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for pdf")
		}
	})

	t.Run("ignores non pdf files", func(t *testing.T) {
		dir := t.TempDir()
		w := New(dir, WithSettle(10*time.Millisecond))
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		paths, err := w.Watch(ctx)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

		select {
		case path := <-paths:
			t.Fatalf("unexpected path %s", path)
		case <-time.After(200 * time.Millisecond):
		}
	})

	t.Run("channel closes on cancel", func(t *testing.T) {
		w := New(t.TempDir())
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		paths, err := w.Watch(ctx)
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-paths:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel not closed")
		}
	})

	t.Run("invalid root", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "missing")).Watch(context.Background())
		assert.Error(t, err)
	})
}

func TestWatcher_Close(t *testing.T) {
	w := New(t.TempDir())
	assert.NoError(t, w.Close())

	_, err := w.Watch(context.Background())
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestHandleFsEvent(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("x"), 0644))
	hidden := filepath.Join(dir, ".doc.pdf")
	require.NoError(t, os.WriteFile(hidden, []byte("x"), 0644))
	txt := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0644))
	sub := filepath.Join(dir, "folder.pdf")
	require.NoError(t, os.Mkdir(sub, 0755))

	tests := []struct {
		name     string
		path     string
		op       fsnotify.Op
		expected string
	}{
		{"create pdf", pdf, fsnotify.Create, pdf},
		{"write pdf", pdf, fsnotify.Write, pdf},
		{"write and chmod pdf", pdf, fsnotify.Write | fsnotify.Chmod, pdf},
		{"chmod only", pdf, fsnotify.Chmod, ""},
		{"remove", filepath.Join(dir, "gone.pdf"), fsnotify.Remove, ""},
		{"hidden pdf", hidden, fsnotify.Create, ""},
		{"text file", txt, fsnotify.Create, ""},
		{"directory named pdf", sub, fsnotify.Create, ""},
		{"vanished before stat", filepath.Join(dir, "tmp.pdf"), fsnotify.Create, ""},
	}

	w := New(dir)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.handleFsEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("a.pdf"))
	assert.True(t, IsPDF("/x/A.PDF"))
	assert.False(t, IsPDF("a.pdf.txt"))
	assert.False(t, IsPDF("pdf"))
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "paper", DocumentID("/inbox/paper.pdf"))
	assert.Equal(t, "report.v2", DocumentID("report.v2.PDF"))
	assert.Equal(t, "noext", DocumentID("noext"))
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden(".hidden.pdf"))
	assert.False(t, isHidden("visible.pdf"))
	assert.False(t, isHidden("."))
	assert.False(t, isHidden(".."))
}
