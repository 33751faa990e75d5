package spotify

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// TokenStore keeps the refresh token in a plain file. The file is read once, on first use
type TokenStore struct {
	path string

	mutex  sync.RWMutex
	loaded bool
	token  string
}

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

func (s *TokenStore) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("file", s.path).Msg("No refresh token found")
		return nil
	} else if err != nil {
		return fmt.Errorf("read refresh token: %w", err)
	}

	s.token = strings.TrimSpace(string(data))
	if s.token != "" {
		log.Info().Str("file", s.path).Msg("Loaded refresh token")
	}

	return nil
}

// Get returns the stored refresh token or an empty string when none has been obtained yet
func (s *TokenStore) Get() (string, error) {
	s.mutex.RLock()
	if s.loaded {
		defer s.mutex.RUnlock()
		return s.token, nil
	}
	s.mutex.RUnlock()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.loaded {
		if err := s.load(); err != nil {
			return "", err
		}
		s.loaded = true
	}

	return s.token, nil
}

// Set replaces the file contents with token
func (s *TokenStore) Set(token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write refresh token: %w", err)
	}

	s.token = token
	s.loaded = true

	return nil
}
