// Package cache is the local persistence collaborator: a key-value store
// that keeps one JSON file per key on an afero filesystem.
package cache

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const fileSuffix = ".json"

// Store maps cache keys to files under a single directory. Keys are
// path-escaped so ids with slashes stay single-level.
type Store struct {
	fs     afero.Fs
	dir    string
	logger *zap.Logger
}

func New(fs afero.Fs, dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Store{fs: fs, dir: dir, logger: logger}, nil
}

// Get returns the stored value, or (nil, nil) when the key is absent.
func (s *Store) Get(key string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.filePath(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache key %q: %w", key, err)
	}

	return data, nil
}

// Put overwrites the value for a key.
func (s *Store) Put(key string, value []byte) error {
	if err := afero.WriteFile(s.fs, s.filePath(key), value, 0o644); err != nil {
		return fmt.Errorf("write cache key %q: %w", key, err)
	}

	return nil
}

// Delete removes a key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	err := s.fs.Remove(s.filePath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete cache key %q: %w", key, err)
	}

	return nil
}

// Keys lists stored keys with the given prefix.
func (s *Store) Keys(prefix string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("scan cache dir: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}

		key, err := url.PathUnescape(strings.TrimSuffix(entry.Name(), fileSuffix))
		if err != nil {
			s.logger.Warn("skipping unreadable cache entry", zap.String("file", entry.Name()))
			continue
		}

		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

func (s *Store) filePath(key string) string {
	return s.dir + "/" + url.PathEscape(key) + fileSuffix
}
