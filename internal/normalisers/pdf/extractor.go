// Package pdf extracts page text from PDF files using pdftotext.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// ToolName is the external binary used for extraction.
const ToolName = "pdftotext"

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = domain.ErrPDFToolNotFound

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// Extractor splits a PDF into page texts.
type Extractor struct {
	runner   CommandRunner
	lookPath func(string) (string, error)
}

// New creates an extractor that shells out to pdftotext.
func New() *Extractor {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates an extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner, lookPath: exec.LookPath}
}

// Available reports whether pdftotext is on PATH.
func Available() bool {
	_, err := exec.LookPath(ToolName)
	return err == nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required to read PDF files.

Install poppler-utils:
  macOS:          brew install poppler
  Debian/Ubuntu:  sudo apt install poppler-utils
  Fedora:         sudo dnf install poppler-utils
  Arch:           sudo pacman -S poppler`
}

// ExtractPages returns the non-blank pages of the PDF at path, in order.
// pdftotext separates pages with a form feed.
func (e *Extractor) ExtractPages(ctx context.Context, path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	if _, err := e.lookPath(ToolName); err != nil {
		return nil, ErrPDFToolNotFound
	}

	out, err := e.runner.Run(ctx, ToolName, "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	pages := SplitPages(string(out))
	logger.Debug("extracted %d pages from %s", len(pages), path)
	if len(pages) == 0 {
		return nil, domain.ErrNoPages
	}
	return pages, nil
}

// SplitPages splits pdftotext output on form feeds and drops blank pages.
func SplitPages(text string) []string {
	raw := strings.Split(text, "\f")
	pages := make([]string, 0, len(raw))
	for _, p := range raw {
		if strings.TrimSpace(p) == "" {
			continue
		}
		pages = append(pages, p)
	}
	return pages
}
