package apiconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Store persists the company-slug -> Config mapping as a single JSON
// object at a fixed path, fully rewritten on every save. It is the one
// source of truth across runs. Concurrent discovery sessions for the same
// company are not supported; the file lock only keeps separate processes
// from interleaving a read-modify-write.
type Store struct {
	path string
	fl   *flock.Flock
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
		fl:   flock.New(path + ".lock"),
	}
}

func (s *Store) Path() string { return s.path }

// Load reads every stored config. A missing file is an empty store, not an
// error.
func (s *Store) Load() (map[string]Config, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]Config{}, nil
		}
		return nil, fmt.Errorf("read api configs: %w", err)
	}
	out := map[string]Config{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse api configs %s: %w", s.path, err)
	}
	return out, nil
}

// Get returns the config for a company slug, if one has been discovered.
func (s *Store) Get(slug string) (Config, bool, error) {
	all, err := s.Load()
	if err != nil {
		return Config{}, false, err
	}
	cfg, ok := all[slug]
	return cfg, ok, nil
}

// Save stamps the config as freshly verified and rewrites the whole file.
// Re-discovery for the same slug overwrites; last writer wins.
func (s *Store) Save(slug string, cfg Config) error {
	cfg.LastVerified = time.Now().UTC().Format(time.RFC3339)
	cfg.Status = "active"

	if err := s.fl.Lock(); err != nil {
		return fmt.Errorf("lock api configs: %w", err)
	}
	defer func() { _ = s.fl.Unlock() }()

	all, err := s.Load()
	if err != nil {
		return err
	}
	all[slug] = cfg
	return s.writeAll(all)
}

// Touch refreshes last_verified for a slug after a successful replay.
func (s *Store) Touch(slug string) error {
	if err := s.fl.Lock(); err != nil {
		return fmt.Errorf("lock api configs: %w", err)
	}
	defer func() { _ = s.fl.Unlock() }()

	all, err := s.Load()
	if err != nil {
		return err
	}
	cfg, ok := all[slug]
	if !ok {
		return fmt.Errorf("no api config for %q", slug)
	}
	cfg.LastVerified = time.Now().UTC().Format(time.RFC3339)
	all[slug] = cfg
	return s.writeAll(all)
}

func (s *Store) writeAll(all map[string]Config) error {
	b, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
