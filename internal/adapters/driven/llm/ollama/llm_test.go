package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(LLMConfig{Model: "llama3"})

	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, "llama3", svc.ModelName())
	assert.Equal(t, DefaultChatTimeout, svc.chatTimeout)
	assert.Equal(t, DefaultGenerateTimeout, svc.generateTimeout)
	assert.Equal(t, DefaultListTimeout, svc.listTimeout)
}

func TestGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.Equal(t, "extract", req.Prompt)
		assert.False(t, req.Stream)
		assert.Nil(t, req.Options)

		_ = json.NewEncoder(w).Encode(generateResponse{Response: `{"title":"x"}`, Done: true})
	}))
	defer server.Close()

	svc := NewLLMService(LLMConfig{BaseURL: server.URL, Model: "llama3"})

	out, err := svc.Generate(context.Background(), "extract", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"x"}`, out)
}

func TestChat_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "hi", req.Messages[0].Content)
		require.NotNil(t, req.Options)
		assert.InDelta(t, 0.2, req.Options.Temperature, 0.0001)

		_ = json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Role: "assistant", Content: "hello"}, Done: true})
	}))
	defer server.Close()

	svc := NewLLMService(LLMConfig{BaseURL: server.URL, Model: "llama3"})

	out, err := svc.Chat(context.Background(),
		[]driven.ChatMessage{{Role: "user", Content: "hi"}},
		driven.ChatOptions{Temperature: 0.2})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestChat_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model \"nope\" not found", http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewLLMService(LLMConfig{BaseURL: server.URL, Model: "nope"})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestChat_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	svc := NewLLMService(LLMConfig{BaseURL: server.URL, ChatTimeout: 50 * time.Millisecond})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})
	assert.Error(t, err)
}

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3:latest"},{"name":"nomic-embed-text:latest"}]}`))
	}))
	defer server.Close()

	models := NewLLMService(LLMConfig{BaseURL: server.URL}).ListModels(context.Background())

	assert.Equal(t, []string{"llama3:latest", "nomic-embed-text:latest"}, models)
}

func TestListModels_FailuresYieldEmpty(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		svc := NewLLMService(LLMConfig{BaseURL: "http://127.0.0.1:1", ListTimeout: time.Second})
		models := svc.ListModels(context.Background())
		assert.NotNil(t, models)
		assert.Empty(t, models)
	})

	t.Run("bad status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		assert.Empty(t, NewLLMService(LLMConfig{BaseURL: server.URL}).ListModels(context.Background()))
	})

	t.Run("bad json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("nope"))
		}))
		defer server.Close()

		assert.Empty(t, NewLLMService(LLMConfig{BaseURL: server.URL}).ListModels(context.Background()))
	})
}

func TestPing_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := NewLLMService(LLMConfig{BaseURL: server.URL}).Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
