// Package cli provides the pdfchat command line interface.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// version is set at build time.
var version = "dev"

// Services wired by SetServices.
var (
	ingestService   driving.IngestService
	documentService driving.DocumentService
	chatService     driving.ChatService
	settingsService driving.SettingsService
	apiServer       APIServer
	shutdownTimeout = 10 * time.Second
)

// Global flags.
var (
	configPath string
	verbose    bool
)

// bootstrap builds the services once flags are parsed.
var bootstrap Bootstrap

// APIServer is the HTTP API run by the serve command.
type APIServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// Options are the global flag values passed to the bootstrap.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// Bootstrap wires services for the command about to run. It is called after
// flag parsing and is expected to call SetServices.
type Bootstrap func(ctx context.Context, opts Options) error

// Services groups the driving ports used by commands.
type Services struct {
	Ingest          driving.IngestService
	Documents       driving.DocumentService
	Chat            driving.ChatService
	Settings        driving.SettingsService
	Server          APIServer
	ShutdownTimeout time.Duration
}

var rootCmd = &cobra.Command{
	Use:   "pdfchat",
	Short: "Chat with your PDFs using local Ollama models",
	Long: `pdfchat indexes PDF documents and answers questions about them with
retrieval-augmented generation against a local Ollama server.

Each uploaded PDF is split into chunks, embedded, summarised and has its
bibliographic metadata extracted. Questions are answered from the most
relevant chunks and every exchange is kept in a per-document transcript.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.pdfchat/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetBootstrap registers the function that wires services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices sets the services used by commands.
func SetServices(s Services) {
	ingestService = s.Ingest
	documentService = s.Documents
	chatService = s.Chat
	settingsService = s.Settings
	apiServer = s.Server
	if s.ShutdownTimeout > 0 {
		shutdownTimeout = s.ShutdownTimeout
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	if bootstrap == nil || cmd.Annotations[annotationNoServices] == "true" {
		return nil
	}
	return bootstrap(cmd.Context(), Options{ConfigPath: configPath, Verbose: verbose})
}

// annotationNoServices marks commands that run without wiring services.
const annotationNoServices = "no-services"
