package cli

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/connectors/filesystem"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

var (
	watchFlags    modelFlags
	watchExisting bool
	watchSettle   time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest PDFs dropped into a directory",
	Long: `Watch a directory and ingest every PDF that appears in it. The document
id is the file name without its extension, so copying the same file again
does not re-index it. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchExisting, "existing", true, "ingest PDFs already in the directory")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", filesystem.DefaultSettle, "quiet period before a new file is ingested")
	watchFlags.register(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	watcher := filesystem.New(args[0], filesystem.WithSettle(watchSettle))
	if err := watcher.Validate(); err != nil {
		return err
	}
	defer watcher.Close()

	if watchExisting {
		existing, err := watcher.Existing()
		if err != nil {
			return err
		}
		for _, path := range existing {
			ingestWatched(cmd, path)
		}
	}

	paths, err := watcher.Watch(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s for PDFs. Press Ctrl-C to stop.\n", watcher.Root())
	for path := range paths {
		ingestWatched(cmd, path)
	}
	return nil
}

// ingestWatched uploads one file. Failures are logged so one bad PDF does
// not stop the watch.
func ingestWatched(cmd *cobra.Command, path string) {
	id := filesystem.DocumentID(path)
	doc, err := uploadFile(cmd, id, path, watchFlags)
	if err != nil {
		logger.Warn("watch: %v", err)
		return
	}
	cmd.Printf("Indexed %s (%s)\n", doc.ID, filepath.Base(path))
}
