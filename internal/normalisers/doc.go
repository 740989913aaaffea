// Package normalisers turns uploaded files into plain page text.
//
// Implementations:
//   - pdf: per-page text via pdftotext (poppler-utils)
package normalisers
