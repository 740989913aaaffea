package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

type fakeIngestService struct {
	mu      sync.Mutex
	uploads []driving.UploadRequest
	bodies  map[string]string
	err     error
}

func (f *fakeIngestService) Ingest(_ context.Context, req driving.IngestRequest) (*domain.DocumentSummary, error) {
	return &domain.DocumentSummary{ID: req.DocumentID}, f.err
}

func (f *fakeIngestService) Upload(_ context.Context, req driving.UploadRequest) (*domain.DocumentSummary, error) {
	body, err := io.ReadAll(req.Content)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bodies == nil {
		f.bodies = make(map[string]string)
	}
	f.bodies[req.DocumentID] = string(body)
	f.uploads = append(f.uploads, req)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.DocumentSummary{ID: req.DocumentID, Name: req.Filename, Summary: "- a summary"}, nil
}

func (f *fakeIngestService) Uploads() []driving.UploadRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]driving.UploadRequest(nil), f.uploads...)
}

type fakeDocumentService struct {
	docs    []domain.DocumentSummary
	history map[string][]domain.ChatTurn
	deleted []string
	err     error
}

func (f *fakeDocumentService) ListDocuments(_ context.Context) ([]domain.DocumentSummary, error) {
	return f.docs, f.err
}

func (f *fakeDocumentService) GetSummary(_ context.Context, id string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	for _, d := range f.docs {
		if d.ID == id {
			return d.Summary, true, nil
		}
	}
	return "", false, nil
}

func (f *fakeDocumentService) GetHistory(_ context.Context, id string) ([]domain.ChatTurn, error) {
	return f.history[id], f.err
}

func (f *fakeDocumentService) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeChatService struct {
	requests []driving.ChatRequest
	err      error
}

func (f *fakeChatService) Chat(_ context.Context, req driving.ChatRequest) (*domain.ChatResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	answer := "answer to " + req.Question
	return &domain.ChatResult{
		Answer:  answer,
		History: []domain.ChatTurn{domain.UserTurn(req.Question), domain.AssistantTurn(answer)},
	}, nil
}

type fakeSettingsService struct {
	settings domain.Settings
	models   []string
	saveErr  error
	modelURL string
}

func (f *fakeSettingsService) Get() domain.Settings {
	return f.settings
}

func (f *fakeSettingsService) Save(s domain.Settings) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.settings = s
	return nil
}

func (f *fakeSettingsService) ListModels(_ context.Context, baseURL string) []string {
	f.modelURL = baseURL
	return f.models
}

type testServices struct {
	ingest   *fakeIngestService
	docs     *fakeDocumentService
	chat     *fakeChatService
	settings *fakeSettingsService
}

// setupTestServices installs fakes for every driving port and clears them
// when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	ts := &testServices{
		ingest: &fakeIngestService{},
		docs: &fakeDocumentService{
			docs: []domain.DocumentSummary{
				{ID: "attention", Name: "attention.pdf", Summary: "- Transformers\n- Self-attention"},
			},
			history: map[string][]domain.ChatTurn{},
		},
		chat:     &fakeChatService{},
		settings: &fakeSettingsService{settings: domain.Settings{OllamaURL: domain.DefaultOllamaURL}},
	}
	SetServices(Services{
		Ingest:    ts.ingest,
		Documents: ts.docs,
		Chat:      ts.chat,
		Settings:  ts.settings,
	})
	t.Cleanup(func() {
		SetServices(Services{})
		apiServer = nil
	})
	return ts
}

// resetFlags restores every local flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// resetContexts clears the context cobra keeps on each command after a run.
func resetContexts(cmd *cobra.Command) {
	cmd.SetContext(nil) //nolint:staticcheck // nil lets cobra inherit the parent context on the next run
	for _, c := range cmd.Commands() {
		resetContexts(c)
	}
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, ctx context.Context, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
		resetContexts(rootCmd)
	})

	if ctx == nil {
		ctx = context.Background()
	}
	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "pdfchat", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"version", "ingest", "list", "summary", "history", "delete",
		"chat", "settings", "models", "serve", "watch", "mcp", "tui",
	} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_BootstrapReceivesFlags(t *testing.T) {
	setupTestServices(t)

	var got Options
	SetBootstrap(func(_ context.Context, opts Options) error {
		got = opts
		return nil
	})
	defer SetBootstrap(nil)

	_, err := executeCommand(t, nil, nil, "--config", "/tmp/pdfchat.yaml", "-v", "list")

	require.NoError(t, err)
	assert.Equal(t, Options{ConfigPath: "/tmp/pdfchat.yaml", Verbose: true}, got)
}

func TestRootCmd_BootstrapErrorStopsCommand(t *testing.T) {
	ts := setupTestServices(t)
	SetBootstrap(func(_ context.Context, _ Options) error {
		return errors.New("config broken")
	})
	defer SetBootstrap(nil)

	_, err := executeCommand(t, nil, nil, "delete", "attention")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config broken")
	assert.Empty(t, ts.docs.deleted)
}

func TestSetServices_KeepsDefaultShutdownTimeout(t *testing.T) {
	original := shutdownTimeout
	defer func() { shutdownTimeout = original }()

	SetServices(Services{})
	assert.Equal(t, original, shutdownTimeout)

	SetServices(Services{ShutdownTimeout: 3 * original})
	assert.Equal(t, 3*original, shutdownTimeout)
	SetServices(Services{})
}
