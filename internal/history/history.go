// Package history keeps the JSON file of every job seen so far, merged by
// URL, so each run can tell which postings are actually new.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"jobradar-engine/internal/domain"
)

// Entry is one historical job plus when it was first seen.
type Entry struct {
	domain.Job
	DateFound string `json:"date_found,omitempty"`
}

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

// Load reads the history file. Missing or corrupt files start an empty
// history rather than failing the run.
func (s *Store) Load() []Entry {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[history] read %s: %v", s.path, err)
		}
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		log.Printf("[history] parse %s: %v; starting empty", s.path, err)
		return nil
	}
	return entries
}

// FindNew returns the current jobs whose URL has never been seen. Jobs
// without a URL cannot be tracked and are never reported as new.
func FindNew(current []domain.Job, past []Entry) []domain.Job {
	seen := make(map[string]bool, len(past))
	for _, e := range past {
		if e.URL != "" {
			seen[e.URL] = true
		}
	}
	var out []domain.Job
	for _, j := range current {
		if j.URL != "" && !seen[j.URL] {
			out = append(out, j)
		}
	}
	return out
}

// CompareAndUpdate is the per-run workflow: diff the current scrape against
// history, merge by URL, rewrite the file in full, and return the new jobs.
func (s *Store) CompareAndUpdate(current []domain.Job) ([]domain.Job, error) {
	if err := s.fl.Lock(); err != nil {
		return nil, fmt.Errorf("lock history: %w", err)
	}
	defer func() { _ = s.fl.Unlock() }()

	past := s.Load()
	fresh := FindNew(current, past)
	log.Printf("[history] %d new of %d current (history=%d)", len(fresh), len(current), len(past))

	merged := merge(current, past)
	if err := s.writeAll(merged); err != nil {
		return fresh, err
	}
	return fresh, nil
}

func merge(current []domain.Job, past []Entry) []Entry {
	byURL := map[string]int{}
	var out []Entry

	for _, e := range past {
		if e.URL == "" {
			continue
		}
		byURL[e.URL] = len(out)
		out = append(out, e)
	}

	now := time.Now().Format(time.RFC3339)
	for _, j := range current {
		if j.URL == "" {
			continue
		}
		if i, ok := byURL[j.URL]; ok {
			// Refresh fields, keep the original discovery date.
			found := out[i].DateFound
			out[i] = Entry{Job: j, DateFound: found}
			continue
		}
		byURL[j.URL] = len(out)
		out = append(out, Entry{Job: j, DateFound: now})
	}
	return out
}

func (s *Store) writeAll(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	b, err := json.MarshalIndent(entries, "", "  ")
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
