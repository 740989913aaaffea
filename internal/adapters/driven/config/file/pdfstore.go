package file

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// Ensure PDFStore implements the interface.
var _ driven.FileStore = (*PDFStore)(nil)

// PDFStore keeps uploaded PDFs as <dir>/<id>_<filename>.
type PDFStore struct {
	dir string
}

// NewPDFStore creates the pdfs directory under dataDir.
func NewPDFStore(dataDir string) (*PDFStore, error) {
	dir := filepath.Join(dataDir, "pdfs")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating pdf directory: %w", err)
	}
	return &PDFStore{dir: dir}, nil
}

// Dir returns the directory holding stored files.
func (s *PDFStore) Dir() string {
	return s.dir
}

// Save writes content to disk and returns the file path.
// Any directory part of filename is discarded.
func (s *PDFStore) Save(id, filename string, content io.Reader) (string, error) {
	name := filepath.Base(filepath.Clean("/" + filename))
	if id == "" || name == "/" || name == "." {
		return "", fmt.Errorf("%w: id and filename are required", domain.ErrInvalidInput)
	}
	if strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: id %q", domain.ErrInvalidInput, id)
	}

	path := filepath.Join(s.dir, id+"_"+name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}
	return path, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *PDFStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}
