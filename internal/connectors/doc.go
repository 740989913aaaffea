// Package connectors holds adapters that bring documents into pdfchat from
// outside the HTTP and CLI surfaces. The filesystem connector watches an
// inbox directory and reports PDFs as they arrive.
package connectors
