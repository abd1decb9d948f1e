package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// TokenEnvVar overrides the stored token when set.
const TokenEnvVar = "TB_TOKEN"

// tokenFile is the on-disk layout of the auth token file.
type tokenFile struct {
	Token   string    `yaml:"token"`
	SavedAt time.Time `yaml:"saved_at"`
}

// TokenStore persists the backend bearer token between invocations.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

type fileTokenStore struct {
	basePath string
}

// NewTokenStore creates a TokenStore backed by a .tb_token file in basePath.
func NewTokenStore(basePath string) TokenStore {
	return &fileTokenStore{basePath: basePath}
}

func (s *fileTokenStore) filePath() string {
	return filepath.Join(s.basePath, ".tb_token")
}

// Load returns the stored token, or "" when none is stored. The TB_TOKEN
// environment variable takes precedence over the file.
func (s *fileTokenStore) Load() (string, error) {
	if env := os.Getenv(TokenEnvVar); env != "" {
		return env, nil
	}

	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("loading token: %w", err)
	}

	var tf tokenFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return "", fmt.Errorf("loading token: parsing YAML: %w", err)
	}
	return tf.Token, nil
}

// Save writes the token atomically with owner-only permissions.
func (s *fileTokenStore) Save(token string) error {
	if token == "" {
		return fmt.Errorf("saving token: token must not be empty")
	}
	if err := os.MkdirAll(s.basePath, 0o700); err != nil {
		return fmt.Errorf("saving token: creating directory: %w", err)
	}

	data, err := yaml.Marshal(&tokenFile{Token: token, SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("saving token: marshaling YAML: %w", err)
	}
	if err := atomic.WriteFile(s.filePath(), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("saving token: writing file: %w", err)
	}
	// atomic.WriteFile does not set permissions on new files.
	if err := os.Chmod(s.filePath(), 0o600); err != nil {
		return fmt.Errorf("saving token: setting permissions: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing when nothing is stored is not
// an error.
func (s *fileTokenStore) Clear() error {
	err := os.Remove(s.filePath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing token: %w", err)
	}
	return nil
}
