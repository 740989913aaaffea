// Package chunker splits page text into paragraph-packed chunks.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// DefaultChunkSize is the default maximum number of bytes per chunk.
const DefaultChunkSize = 800

// Processor splits document pages into chunks.
type Processor struct {
	chunkSize int
	newID     func() string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in bytes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithIDSuffix replaces the random suffix used in chunk IDs.
func WithIDSuffix(fn func() string) Option {
	return func(p *Processor) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		newID:     randomHex,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured maximum chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Chunk splits every page of a document. Page indexes are 0-based and
// sequences restart at 0 on each page.
func (p *Processor) Chunk(documentID string, pages []string) []domain.Chunk {
	var chunks []domain.Chunk

	for page, text := range pages {
		for seq, part := range Split(text, p.chunkSize) {
			chunks = append(chunks, domain.Chunk{
				ID:         ChunkID(documentID, page, seq, p.newID()),
				DocumentID: documentID,
				Page:       page,
				Sequence:   seq,
				Text:       part,
			})
		}
	}

	return chunks
}

// ChunkID formats the identifier of a chunk.
func ChunkID(documentID string, page, seq int, suffix string) string {
	return fmt.Sprintf("%s_p%d_c%d_%s", documentID, page, seq, suffix)
}

// Split breaks text into chunks of at most maxSize bytes.
//
// Lines are trimmed and blank lines dropped; the remaining lines are packed
// greedily and joined with a newline. A line longer than maxSize becomes a
// chunk of its own and is not truncated. A non-positive maxSize uses
// DefaultChunkSize.
func Split(text string, maxSize int) []string {
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}

	var chunks []string
	var current strings.Builder

	for _, line := range strings.Split(text, "\n") {
		para := strings.TrimSpace(line)
		if para == "" {
			continue
		}

		if current.Len()+len(para)+1 <= maxSize {
			if current.Len() > 0 {
				current.WriteByte('\n')
			}
			current.WriteString(para)
			continue
		}

		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(para)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

func randomHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
