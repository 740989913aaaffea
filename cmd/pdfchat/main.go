// Command pdfchat indexes PDFs and answers questions about them with a local
// Ollama server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var w wiring
	cli.SetVersion(version)
	cli.SetBootstrap(w.bootstrap)

	err := cli.Execute(ctx)
	stop()
	w.close()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
