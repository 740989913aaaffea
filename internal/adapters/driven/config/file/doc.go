// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based user settings
//   - PDFStore: uploaded PDF files under the data directory
package file
