package main

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/vector/chromem"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/vector/qdrant"
	httpapi "github.com/custodia-labs/pdfchat/internal/adapters/driving/http"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/pdfchat/internal/config"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/services"
	"github.com/custodia-labs/pdfchat/internal/logger"
	"github.com/custodia-labs/pdfchat/internal/metrics"
	"github.com/custodia-labs/pdfchat/internal/normalisers/pdf"
	"github.com/custodia-labs/pdfchat/internal/postprocessors/chunker"
)

// wiring builds the adapters and services for one command run and
// remembers what must be closed afterwards.
type wiring struct {
	closers []io.Closer
}

func (w *wiring) bootstrap(_ context.Context, opts cli.Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	logger.SetFormat(cfg.Log.Format)
	logger.SetVerbose(opts.Verbose || cfg.Log.Verbose)
	logger.Debug("data directory: %s", cfg.Data.Dir)

	store, err := sqlite.NewStore(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}
	w.closers = append(w.closers, store)

	configStore, err := file.NewConfigStore(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	pdfStore, err := file.NewPDFStore(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("opening pdf store: %w", err)
	}

	index, err := w.vectorIndex(cfg)
	if err != nil {
		return err
	}

	provider := ai.NewProvider(ai.Config{
		API:             cfg.Ollama.API,
		APIKey:          cfg.Ollama.APIKey,
		EmbedTimeout:    cfg.Ollama.EmbedTimeout,
		ChatTimeout:     cfg.Ollama.ChatTimeout,
		GenerateTimeout: cfg.Ollama.GenerateTimeout,
		ListTimeout:     cfg.Ollama.ListTimeout,
		EmbedRPS:        cfg.Ollama.EmbedRPS,
	})

	settingsService := services.NewSettingsService(configStore, provider)
	settingsService.SetDefaults(domain.Settings{
		OllamaURL:      cfg.Ollama.URL,
		Model:          cfg.Ollama.Model,
		EmbeddingModel: cfg.Ollama.EmbeddingModel,
	})

	m := metrics.New()
	docStore := store.DocumentStore()

	ingestService := services.NewIngestService(docStore, index, provider, pdfStore, pdf.New(),
		chunker.New(chunker.WithChunkSize(cfg.RAG.ChunkSize)))
	ingestService.SetSettings(settingsService)
	ingestService.SetMetrics(m)

	chatService := services.NewChatService(docStore, index, provider, services.ChatConfig{
		TopK:                 cfg.RAG.TopK,
		StrictEmbeddingModel: cfg.RAG.StrictEmbeddingModel,
	})
	chatService.SetSettings(settingsService)
	chatService.SetMetrics(m)

	documentService := services.NewDocumentService(docStore, index, pdfStore)

	server, err := httpapi.NewServer(httpapi.Services{
		Ingest:    ingestService,
		Documents: documentService,
		Chat:      chatService,
		Settings:  settingsService,
	}, logger.Zap(), &httpapi.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP server: %w", err)
	}

	cli.SetServices(cli.Services{
		Ingest:          ingestService,
		Documents:       documentService,
		Chat:            chatService,
		Settings:        settingsService,
		Server:          server,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	return nil
}

func (w *wiring) vectorIndex(cfg *config.Config) (driven.VectorIndex, error) {
	switch cfg.Vector.Backend {
	case config.BackendQdrant:
		logger.Debug("vector index: qdrant at %s:%d", cfg.Vector.QdrantHost, cfg.Vector.QdrantPort)
		index, err := qdrant.New(qdrant.Config{
			Host:       cfg.Vector.QdrantHost,
			Port:       cfg.Vector.QdrantPort,
			UseTLS:     cfg.Vector.QdrantTLS,
			APIKey:     cfg.Vector.QdrantAPIKey,
			Collection: cfg.Vector.QdrantCollection,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to qdrant: %w", err)
		}
		w.closers = append(w.closers, index)
		return index, nil
	default:
		logger.Debug("vector index: chromem at %s", cfg.ChromaDir())
		index, err := chromem.New(chromem.Config{
			Path:     cfg.ChromaDir(),
			Compress: cfg.Vector.Compress,
		})
		if err != nil {
			return nil, fmt.Errorf("opening vector index: %w", err)
		}
		w.closers = append(w.closers, index)
		return index, nil
	}
}

func (w *wiring) close() {
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i].Close(); err != nil {
			logger.Warn("closing: %v", err)
		}
	}
	w.closers = nil
}
