package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("ollama_url", "http://gpu:11434"))

	val, ok := store.Get("ollama_url")
	assert.True(t, ok)
	assert.Equal(t, "http://gpu:11434", val)
	assert.Equal(t, "http://gpu:11434", store.GetString("ollama_url"))
}

func TestConfigStore_GetString_Missing(t *testing.T) {
	store := NewConfigStore()
	assert.Equal(t, "", store.GetString("model"))
}

func TestConfigStore_GetString_WrongType(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("model", 42))
	assert.Equal(t, "", store.GetString("model"))
}

func TestConfigStore_SaveCounts(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Save())
	require.NoError(t, store.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, 2, store.Saves())
}
