package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobradar-engine/internal/domain"
)

func job(title, url string) domain.Job {
	return domain.Job{Company: "Acme", Title: title, URL: url}
}

func TestFindNew(t *testing.T) {
	past := []Entry{
		{Job: job("Old Intern", "https://x/1"), DateFound: "2026-01-01T00:00:00Z"},
		{Job: job("Untracked", "")},
	}

	current := []domain.Job{
		job("Old Intern", "https://x/1"),
		job("New Intern", "https://x/2"),
		job("No URL", ""),
	}

	fresh := FindNew(current, past)
	require.Len(t, fresh, 1)
	assert.Equal(t, "https://x/2", fresh[0].URL)
}

func TestCompareAndUpdate(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "jobs_history.json"))

	// First run: everything is new.
	fresh, err := s.CompareAndUpdate([]domain.Job{job("A", "https://x/1"), job("B", "https://x/2")})
	require.NoError(t, err)
	assert.Len(t, fresh, 2)

	// Second run: one repeat with a changed title, one brand new.
	fresh, err = s.CompareAndUpdate([]domain.Job{job("A renamed", "https://x/1"), job("C", "https://x/3")})
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "https://x/3", fresh[0].URL)

	entries := s.Load()
	require.Len(t, entries, 3)

	byURL := map[string]Entry{}
	for _, e := range entries {
		byURL[e.URL] = e
	}
	// Refreshed fields, original discovery date kept.
	first := byURL["https://x/1"]
	assert.Equal(t, "A renamed", first.Title)
	assert.NotEmpty(t, first.DateFound)

	// B was not in the second run but stays in history.
	assert.Equal(t, "B", byURL["https://x/2"].Title)
}

func TestCompareAndUpdateKeepsOriginalDateFound(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "jobs_history.json"))

	_, err := s.CompareAndUpdate([]domain.Job{job("A", "https://x/1")})
	require.NoError(t, err)
	orig := s.Load()[0].DateFound
	require.NotEmpty(t, orig)

	_, err = s.CompareAndUpdate([]domain.Job{job("A", "https://x/1")})
	require.NoError(t, err)
	assert.Equal(t, orig, s.Load()[0].DateFound)
}

func TestLoadCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs_history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewStore(path)
	assert.Nil(t, s.Load())

	// The next update still works and rewrites the file cleanly.
	fresh, err := s.CompareAndUpdate([]domain.Job{job("A", "https://x/1")})
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
	assert.Len(t, s.Load(), 1)
}

func TestEmptyHistoryFileIsAList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs_history.json")
	s := NewStore(path)

	_, err := s.CompareAndUpdate(nil)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}
