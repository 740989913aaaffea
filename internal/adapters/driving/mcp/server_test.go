package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil ports returns error", func(t *testing.T) {
		server, err := NewServer(nil)
		require.Error(t, err)
		assert.Nil(t, server)
	})

	t.Run("missing document service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Chat: &mockChatService{}})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingDocumentService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Document: &mockDocumentService{},
			Chat:     &mockChatService{},
		})
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, server.Handler())
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("empty ports", func(t *testing.T) {
		assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingDocumentService)
	})

	t.Run("missing chat", func(t *testing.T) {
		ports := &Ports{Document: &mockDocumentService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingChatService)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{Document: &mockDocumentService{}, Chat: &mockChatService{}}
		assert.NoError(t, ports.Validate())
	})
}
