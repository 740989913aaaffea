package driven

import (
	"context"
	"io"
)

// PageExtractor turns a PDF file into the text of each page.
type PageExtractor interface {
	// ExtractPages returns the non-blank pages of the file in order.
	ExtractPages(ctx context.Context, path string) ([]string, error)
}

// FileStore keeps uploaded PDFs.
type FileStore interface {
	// Save writes content under a name derived from id and filename and
	// returns the resulting path.
	Save(id, filename string, content io.Reader) (string, error)

	// Remove deletes a previously saved file. Missing files are ignored.
	Remove(path string) error
}
