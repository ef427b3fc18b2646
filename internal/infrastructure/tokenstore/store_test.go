package tokenstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"garmin-sync/internal/domain/entity"
)

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "token.json"), zap.NewNop())

	token, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestSaveLoad_RoundTripPreservesProviderFields(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "token.json"), zap.NewNop())

	original := entity.Token{
		"access_token":  "tok",
		"refresh_token": "ref",
		"expires_in":    float64(28800),
		"scope":         "activity profile",
		"user_id":       "ABC123",
	}
	require.NoError(t, store.Save(original))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestSave_WritesIndentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewFileStore(path, zap.NewNop())

	require.NoError(t, store.Save(entity.Token{"access_token": "tok"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n    \"access_token\""))
}

func TestSave_ReplacesPreviousToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewFileStore(path, zap.NewNop())

	require.NoError(t, store.Save(entity.Token{"access_token": "old", "stale_field": "x"}))
	require.NoError(t, store.Save(entity.Token{"access_token": "new"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "new", loaded.AccessToken())
	_, hasStale := loaded["stale_field"]
	assert.False(t, hasStale)
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	store := NewFileStore(path, zap.NewNop())
	_, err := store.Load()
	assert.Error(t, err)
}
