package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
	name   string
	args   []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	return m.output, m.err
}

func newTestExtractor(runner CommandRunner) *Extractor {
	e := NewWithRunner(runner)
	e.lookPath = func(string) (string, error) { return "/usr/bin/pdftotext", nil }
	return e
}

func writeFakePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0600))
	return path
}

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.IsType(t, &Extractor{}, extractor)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.PageExtractor = New()
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "poppler")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

func TestSplitPages(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single page", "hello", []string{"hello"}},
		{"two pages", "one\ftwo", []string{"one", "two"}},
		{"blank pages dropped", "one\f  \n\ftwo\f", []string{"one", "two"}},
		{"all blank", "\f\f  ", []string{}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitPages(tt.input))
		})
	}
}

func TestExtractPages_WithMockRunner(t *testing.T) {
	runner := &mockRunner{output: []byte("Page one text\n\fPage two text\n\f")}
	path := writeFakePDF(t)

	pages, err := newTestExtractor(runner).ExtractPages(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Page one text\n", "Page two text\n"}, pages)
	assert.Equal(t, ToolName, runner.name)
	assert.Contains(t, runner.args, path)
	assert.Equal(t, "-", runner.args[len(runner.args)-1])
}

func TestExtractPages_ReadingOrderArgs(t *testing.T) {
	runner := &mockRunner{output: []byte("Left column\fRight column")}
	path := writeFakePDF(t)

	_, err := newTestExtractor(runner).ExtractPages(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"-enc", "UTF-8", path, "-"}, runner.args)
	assert.NotContains(t, runner.args, "-layout")
}

func TestExtractPages_NoText(t *testing.T) {
	runner := &mockRunner{output: []byte("\f\f")}

	_, err := newTestExtractor(runner).ExtractPages(context.Background(), writeFakePDF(t))
	assert.ErrorIs(t, err, domain.ErrNoPages)
}

func TestExtractPages_RunnerError(t *testing.T) {
	runner := &mockRunner{err: errors.New("pdftotext crashed")}

	_, err := newTestExtractor(runner).ExtractPages(context.Background(), writeFakePDF(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext failed")
}

func TestExtractPages_ToolMissing(t *testing.T) {
	e := NewWithRunner(&mockRunner{})
	e.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	_, err := e.ExtractPages(context.Background(), writeFakePDF(t))
	assert.ErrorIs(t, err, domain.ErrPDFToolNotFound)
}

func TestExtractPages_MissingFile(t *testing.T) {
	_, err := newTestExtractor(&mockRunner{}).ExtractPages(context.Background(), "/nonexistent/doc.pdf")
	assert.Error(t, err)
}

func TestExtractPages_EmptyPath(t *testing.T) {
	_, err := newTestExtractor(&mockRunner{}).ExtractPages(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Integration test - only runs if pdftotext is available.
func TestExtractPages_Integration(t *testing.T) {
	if !Available() {
		t.Skip("pdftotext not available, skipping integration test")
	}

	_, err := New().ExtractPages(context.Background(), writeFakePDF(t))
	assert.Error(t, err)
}
