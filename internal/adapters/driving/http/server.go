// Package http provides the HTTP API for pdfchat.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// DefaultUploadLimit caps multipart upload bodies.
const DefaultUploadLimit = "200M"

// Services are the driving ports the API exposes.
type Services struct {
	Ingest    driving.IngestService
	Documents driving.DocumentService
	Chat      driving.ChatService
	Settings  driving.SettingsService
}

// Config holds HTTP server configuration.
type Config struct {
	Host        string
	Port        int
	UploadLimit string
}

// Server provides HTTP endpoints for pdfchat.
type Server struct {
	echo     *echo.Echo
	services Services
	logger   *zap.Logger
	config   *Config
}

// NewServer creates a new HTTP server.
func NewServer(services Services, logger *zap.Logger, cfg *Config) (*Server, error) {
	if services.Ingest == nil || services.Documents == nil || services.Chat == nil || services.Settings == nil {
		return nil, errors.New("all services are required")
	}
	if logger == nil {
		return nil, errors.New("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "127.0.0.1", Port: 8000}
	}
	if cfg.UploadLimit == "" {
		cfg.UploadLimit = DefaultUploadLimit
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	})

	s := &Server{
		echo:     e,
		services: services,
		logger:   logger,
		config:   cfg,
	}
	s.registerRoutes()

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.GET("/settings", s.handleGetSettings)
	s.echo.POST("/settings", s.handleSaveSettings)
	s.echo.GET("/models", s.handleListModels)

	pdf := s.echo.Group("/pdf")
	pdf.POST("/upload", s.handleUpload, middleware.BodyLimit(s.config.UploadLimit))
	pdf.GET("/list", s.handleList)
	pdf.GET("/:id/summary", s.handleSummary)
	pdf.GET("/:id/chat_history", s.handleHistory)
	pdf.DELETE("/:id", s.handleDelete)

	s.echo.POST("/chat", s.handleChat)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleGetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, s.services.Settings.Get())
}

// handleSaveSettings always answers 200; failures are reported in the body.
func (s *Server) handleSaveSettings(c echo.Context) error {
	var req domain.Settings
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.services.Settings.Save(req); err != nil {
		s.logger.Warn("saving settings failed", zap.Error(err))
		return c.JSON(http.StatusOK, SaveSettingsResponse{OK: false, Error: err.Error()})
	}
	return c.JSON(http.StatusOK, SaveSettingsResponse{OK: true})
}

func (s *Server) handleListModels(c echo.Context) error {
	models := s.services.Settings.ListModels(c.Request().Context(), c.QueryParam("ollama_url"))
	if models == nil {
		models = []string{}
	}
	return c.JSON(http.StatusOK, ModelsResponse{Models: models})
}

func (s *Server) handleUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	fileID := c.FormValue("file_id")
	if fileID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "file_id is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "reading upload failed")
	}
	defer f.Close()

	view, err := s.services.Ingest.Upload(c.Request().Context(), driving.UploadRequest{
		DocumentID:     fileID,
		Filename:       fileHeader.Filename,
		Content:        f,
		OllamaURL:      c.FormValue("ollama_url"),
		EmbeddingModel: c.FormValue("embedding_model"),
		Model:          c.FormValue("model"),
	})
	if err != nil {
		s.logger.Error("upload failed", zap.String("file_id", fileID), zap.Error(err))
		return ingestError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// ingestError maps ingestion failures to HTTP errors.
func ingestError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoPages):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrVectorIndexUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("ingestion failed: %v", err))
	}
}

func (s *Server) handleList(c echo.Context) error {
	docs, err := s.services.Documents.ListDocuments(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, PDFListResponse{PDFs: docs})
}

func (s *Server) handleSummary(c echo.Context) error {
	id := c.Param("id")
	summary, ok, err := s.services.Documents.GetSummary(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := SummaryResponse{PDFID: id}
	if ok {
		resp.Summary = &summary
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHistory(c echo.Context) error {
	history, err := s.services.Documents.GetHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, HistoryResponse{History: history})
}

func (s *Server) handleDelete(c echo.Context) error {
	err := s.services.Documents.Delete(c.Request().Context(), c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "pdf not found")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// handleChat answers 200 for every model or retrieval failure; the
// explanation is in the answer.
func (s *Server) handleChat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.services.Chat.Chat(c.Request().Context(), driving.ChatRequest{
		DocumentID:     req.PDFID,
		Question:       req.Question,
		OllamaURL:      req.OllamaURL,
		Model:          req.Model,
		EmbeddingModel: req.EmbeddingModel,
	})
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		s.logger.Error("chat failed", zap.String("pdf_id", req.PDFID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ChatResponse{Answer: result.Answer, History: result.History})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
