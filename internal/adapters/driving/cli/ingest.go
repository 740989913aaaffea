package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/connectors/filesystem"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// modelFlags are the per-request model overrides shared by ingest, chat and watch.
type modelFlags struct {
	ollamaURL      string
	model          string
	embeddingModel string
}

func (f *modelFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ollamaURL, "ollama-url", "", "Ollama server URL (default: saved setting)")
	cmd.Flags().StringVar(&f.model, "model", "", "chat model (default: saved setting)")
	cmd.Flags().StringVar(&f.embeddingModel, "embedding-model", "", "embedding model (default: saved setting)")
}

var (
	ingestID    string
	ingestFlags modelFlags
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [pdf]",
	Short: "Index a PDF",
	Long: `Upload a PDF: the file is copied into the data directory, its pages are
extracted with pdftotext, chunked and embedded, and a summary and metadata
are generated.

The document id defaults to the file name without its extension. Ingesting
an id that already exists returns the stored document without re-indexing.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestID, "id", "", "document id (default: file name without extension)")
	ingestFlags.register(ingestCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	id := ingestID
	if id == "" {
		id = filesystem.DocumentID(path)
	}

	cmd.Printf("Ingesting %s as %q...\n", filepath.Base(path), id)
	doc, err := uploadFile(cmd, id, path, ingestFlags)
	if err != nil {
		return err
	}

	cmd.Printf("Indexed %s (%s)\n\n", doc.ID, doc.Name)
	if doc.Summary != "" {
		cmd.Println(doc.Summary)
	}
	return nil
}

func uploadFile(cmd *cobra.Command, id, path string, flags modelFlags) (*domain.DocumentSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := ingestService.Upload(cmd.Context(), driving.UploadRequest{
		DocumentID:     id,
		Filename:       filepath.Base(path),
		Content:        f,
		OllamaURL:      flags.ollamaURL,
		Model:          flags.model,
		EmbeddingModel: flags.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ingest %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}
