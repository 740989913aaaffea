package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// metadataPages is how many leading pages feed metadata extraction.
const metadataPages = 4

const metadataPromptHeader = `You are an expert at extracting metadata from documents.
Given the text below (from the first pages of a PDF), extract structured metadata.
Return ONLY valid JSON with these fields:

{
  "title": "",
  "authors": [],
  "emails": [],
  "affiliations": [],
  "publication_year": "",
  "publisher": "",
  "document_type": "",
  "abstract": "",
  "keywords": []
}
Rules:
- If a field is missing, return an empty string or empty list.
- Do NOT invent information.
- Do NOT include commentary.
- Do NOT include extra fields.
- Return ONLY JSON.

Text:
<<<
`

// MetadataExtractor pulls bibliographic fields out of a document's first pages.
type MetadataExtractor struct {
	pages int
}

// NewMetadataExtractor creates an extractor reading the first four pages.
func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{pages: metadataPages}
}

// Extract asks the model for metadata. It never fails: transport or parse
// errors are logged and the empty record is returned.
func (e *MetadataExtractor) Extract(ctx context.Context, llm driven.LLMService, pages []string) domain.ContentMetadata {
	text := strings.Join(firstN(pages, e.pages), "\n\n")

	raw, err := llm.Generate(ctx, MetadataPrompt(text), driven.GenerateOptions{})
	if err != nil {
		logger.Warn("metadata extraction failed: %v", err)
		return domain.ContentMetadata{}
	}

	meta, err := ParseMetadata(raw)
	if err != nil {
		logger.Warn("metadata response was not valid JSON: %v", err)
		return domain.ContentMetadata{}
	}
	return meta
}

// MetadataPrompt builds the extraction prompt around text.
func MetadataPrompt(text string) string {
	return metadataPromptHeader + text + "\n>>>\n"
}

// ParseMetadata decodes a model response into ContentMetadata.
// A surrounding markdown code fence is removed. Scalars given where a list
// is expected become one-element lists, and numbers become strings.
func ParseMetadata(raw string) (domain.ContentMetadata, error) {
	raw = stripCodeFence(strings.TrimSpace(raw))

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return domain.ContentMetadata{}, fmt.Errorf("decoding metadata: %w", err)
	}

	return domain.ContentMetadata{
		Title:           asString(fields["title"]),
		Authors:         asStrings(fields["authors"]),
		Emails:          asStrings(fields["emails"]),
		Affiliations:    asStrings(fields["affiliations"]),
		PublicationYear: asString(fields["publication_year"]),
		Publisher:       asString(fields["publisher"]),
		DocumentType:    asString(fields["document_type"]),
		Abstract:        asString(fields["abstract"]),
		Keywords:        asStrings(fields["keywords"]),
	}, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func asStrings(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	}
	return nil
}

func firstN(pages []string, n int) []string {
	if len(pages) > n {
		return pages[:n]
	}
	return pages
}
