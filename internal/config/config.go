// Package config provides process configuration for pdfchat.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (PDFCHAT_SERVER_PORT, PDFCHAT_OLLAMA_URL, ...)
//  2. YAML config file (~/.pdfchat/config.yaml)
//  3. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Vector backends.
const (
	BackendChromem = "chromem"
	BackendQdrant  = "qdrant"
)

// Config is the full process configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Data   DataConfig   `koanf:"data"`
	Ollama OllamaConfig `koanf:"ollama"`
	RAG    RAGConfig    `koanf:"rag"`
	Vector VectorConfig `koanf:"vector"`
	Log    LogConfig    `koanf:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DataConfig locates persistent state.
type DataConfig struct {
	Dir string `koanf:"dir"`
}

// Inference server APIs.
const (
	APIOllama = "ollama"
	APIOpenAI = "openai"
)

// OllamaConfig holds defaults and limits for the inference server.
type OllamaConfig struct {
	// API is "ollama" for the native endpoints or "openai" for /v1.
	API             string        `koanf:"api"`
	APIKey          string        `koanf:"api_key"`
	URL             string        `koanf:"url"`
	Model           string        `koanf:"model"`
	EmbeddingModel  string        `koanf:"embedding_model"`
	EmbedTimeout    time.Duration `koanf:"embed_timeout"`
	ChatTimeout     time.Duration `koanf:"chat_timeout"`
	GenerateTimeout time.Duration `koanf:"generate_timeout"`
	ListTimeout     time.Duration `koanf:"list_timeout"`
	EmbedRPS        float64       `koanf:"embed_rps"`
}

// RAGConfig tunes chunking and retrieval.
type RAGConfig struct {
	ChunkSize            int  `koanf:"chunk_size"`
	TopK                 int  `koanf:"top_k"`
	StrictEmbeddingModel bool `koanf:"strict_embedding_model"`
}

// VectorConfig selects and configures the vector index.
type VectorConfig struct {
	Backend          string `koanf:"backend"`
	Compress         bool   `koanf:"compress"`
	QdrantHost       string `koanf:"qdrant_host"`
	QdrantPort       int    `koanf:"qdrant_port"`
	QdrantCollection string `koanf:"qdrant_collection"`
	QdrantAPIKey     string `koanf:"qdrant_api_key"`
	QdrantTLS        bool   `koanf:"qdrant_tls"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Verbose bool   `koanf:"verbose"`
	Format  string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8000,
			ShutdownTimeout: 10 * time.Second,
		},
		Ollama: OllamaConfig{
			API:             APIOllama,
			URL:             "http://localhost:11434",
			EmbedTimeout:    60 * time.Second,
			ChatTimeout:     240 * time.Second,
			GenerateTimeout: 600 * time.Second,
			ListTimeout:     5 * time.Second,
		},
		RAG: RAGConfig{
			ChunkSize:            800,
			TopK:                 5,
			StrictEmbeddingModel: true,
		},
		Vector: VectorConfig{
			Backend:          BackendChromem,
			QdrantHost:       "localhost",
			QdrantPort:       6334,
			QdrantCollection: "pdf_chunks",
		},
		Log: LogConfig{
			Format: "console",
		},
	}
}

// applyDefaults fills fields left zero by the file or environment.
func applyDefaults(cfg *Config) error {
	def := Default()

	if cfg.Server.Host == "" {
		cfg.Server.Host = def.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}

	if cfg.Data.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		cfg.Data.Dir = filepath.Join(home, ".pdfchat", "data")
	} else {
		cfg.Data.Dir = expandHome(cfg.Data.Dir)
	}

	if cfg.Ollama.API == "" {
		cfg.Ollama.API = def.Ollama.API
	}
	if cfg.Ollama.URL == "" {
		cfg.Ollama.URL = def.Ollama.URL
	}
	cfg.Ollama.URL = strings.TrimRight(cfg.Ollama.URL, "/")
	if cfg.Ollama.EmbedTimeout == 0 {
		cfg.Ollama.EmbedTimeout = def.Ollama.EmbedTimeout
	}
	if cfg.Ollama.ChatTimeout == 0 {
		cfg.Ollama.ChatTimeout = def.Ollama.ChatTimeout
	}
	if cfg.Ollama.GenerateTimeout == 0 {
		cfg.Ollama.GenerateTimeout = def.Ollama.GenerateTimeout
	}
	if cfg.Ollama.ListTimeout == 0 {
		cfg.Ollama.ListTimeout = def.Ollama.ListTimeout
	}

	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = def.RAG.ChunkSize
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = def.RAG.TopK
	}

	if cfg.Vector.Backend == "" {
		cfg.Vector.Backend = def.Vector.Backend
	}
	if cfg.Vector.QdrantHost == "" {
		cfg.Vector.QdrantHost = def.Vector.QdrantHost
	}
	if cfg.Vector.QdrantPort == 0 {
		cfg.Vector.QdrantPort = def.Vector.QdrantPort
	}
	if cfg.Vector.QdrantCollection == "" {
		cfg.Vector.QdrantCollection = def.Vector.QdrantCollection
	}

	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	return nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.RAG.ChunkSize < 0 {
		errs = append(errs, fmt.Errorf("rag.chunk_size must be positive: %d", c.RAG.ChunkSize))
	}
	if c.RAG.TopK < 0 {
		errs = append(errs, fmt.Errorf("rag.top_k must be positive: %d", c.RAG.TopK))
	}
	if c.Ollama.EmbedRPS < 0 {
		errs = append(errs, fmt.Errorf("ollama.embed_rps must not be negative: %v", c.Ollama.EmbedRPS))
	}
	switch c.Ollama.API {
	case APIOllama, APIOpenAI:
	default:
		errs = append(errs, fmt.Errorf("ollama.api must be %q or %q, got %q", APIOllama, APIOpenAI, c.Ollama.API))
	}
	switch c.Vector.Backend {
	case BackendChromem, BackendQdrant:
	default:
		errs = append(errs, fmt.Errorf("vector.backend must be %q or %q, got %q",
			BackendChromem, BackendQdrant, c.Vector.Backend))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// ChromaDir is where the chromem index persists.
func (c *Config) ChromaDir() string {
	return filepath.Join(c.Data.Dir, "chroma")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
