package tokenstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"garmin-sync/internal/config"
	"garmin-sync/internal/domain/entity"
)

// Store persists the OAuth2 token document to a single file. A saved token
// always replaces the previous one; nothing ever deletes it.
type Store interface {
	// Load returns the cached token, or nil without error when none exists.
	Load() (entity.Token, error)

	// Save writes the token document, creating the directory if needed.
	Save(token entity.Token) error

	// Path returns the file the token is persisted to.
	Path() string
}

type fileStore struct {
	path   string
	logger *zap.Logger
}

func NewStore(cfg *config.Config, logger *zap.Logger) Store {
	return &fileStore{
		path:   cfg.Fitbit.TokenStore,
		logger: logger,
	}
}

// NewFileStore creates a store at an explicit path.
func NewFileStore(path string, logger *zap.Logger) Store {
	return &fileStore{path: path, logger: logger}
}

func (s *fileStore) Load() (entity.Token, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token store: %w", err)
	}

	var token entity.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token store %s: %w", s.path, err)
	}

	s.logger.Debug("Loaded cached authorization token", zap.String("path", s.path))
	return token, nil
}

func (s *fileStore) Save(token entity.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create token store directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token store: %w", err)
	}

	s.logger.Info("Authorization token stored", zap.String("path", s.path))
	return nil
}

func (s *fileStore) Path() string {
	return s.path
}
