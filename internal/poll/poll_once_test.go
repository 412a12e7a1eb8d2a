package poll

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobradar-engine/internal/apiconfig"
	"jobradar-engine/internal/config"
	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/history"
	"jobradar-engine/internal/scrape/dynamic"
	"jobradar-engine/internal/scrape/htmlpage"
	"jobradar-engine/internal/store"
)

type stubDiscoverer struct {
	cfg   apiconfig.Config
	ok    bool
	err   error
	calls int
}

func (s *stubDiscoverer) Discover(ctx context.Context, careerURL string) (apiconfig.Config, bool, error) {
	s.calls++
	return s.cfg, s.ok, s.err
}

type stubNotifier struct {
	sent [][]domain.Job
	err  error
}

func (s *stubNotifier) Name() string { return "stub" }

func (s *stubNotifier) Send(jobs []domain.Job) error {
	s.sent = append(s.sent, jobs)
	return s.err
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	dir := t.TempDir()
	configs := apiconfig.NewStore(filepath.Join(dir, "api_configs.json"))
	return Deps{
		Configs: configs,
		History: history.NewStore(filepath.Join(dir, "jobs_history.json")),
		API:     dynamic.New(configs, nil),
		HTML:    htmlpage.New(),
	}
}

func baseConfig(companies ...config.Company) config.Config {
	var cfg config.Config
	cfg.Companies = companies
	cfg.Search.Location = "DEU"
	cfg.Search.MaxResults = 50
	return cfg
}

func TestPollOnceDiscoverThenReplay(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []any{
				map[string]any{"title": "Software Intern", "location": "Munich", "url": "https://acme.example/jobs/1"},
				map[string]any{"title": "Head of Sales", "location": "Munich", "url": "https://acme.example/jobs/2"},
			},
		})
	}))
	defer api.Close()

	d := testDeps(t)
	disc := &stubDiscoverer{
		cfg: apiconfig.Config{Endpoint: api.URL, Method: "POST"},
		ok:  true,
	}
	d.Discoverer = disc
	n := &stubNotifier{}
	d.Notifiers = []Notifier{n}

	cfg := baseConfig(config.Company{
		Name:     "Acme",
		URL:      "https://acme.example/careers",
		Keywords: []string{"intern"},
	})

	added, err := PollOnce(context.Background(), cfg, d)
	require.NoError(t, err)
	assert.Equal(t, 1, added) // sales role filtered out
	assert.Equal(t, 1, disc.calls)

	require.Len(t, n.sent, 1)
	require.Len(t, n.sent[0], 1)
	assert.Equal(t, "Acme", n.sent[0][0].Company)
	assert.Equal(t, "Software Intern", n.sent[0][0].Title)

	// The discovered config was persisted with the company name attached.
	saved, ok, err := d.Configs.Get("acme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Acme", saved.CompanyName)

	// Second cycle: config reused, nothing new, nothing notified.
	added, err = PollOnce(context.Background(), cfg, d)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 1, disc.calls)
	assert.Len(t, n.sent, 1)
}

func TestPollOnceHTMLFallback(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
<html><body>
  <div class="job-listing">
    <span class="job-title">Backend Intern</span>
    <a href="/jobs/1">Details</a>
  </div>
</body></html>`))
	}))
	defer page.Close()

	d := testDeps(t)
	useAPI := false

	cfg := baseConfig(config.Company{
		Name:     "NoAPI GmbH",
		URL:      page.URL,
		Keywords: []string{"intern"},
		UseAPI:   &useAPI,
	})

	added, err := PollOnce(context.Background(), cfg, d)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	entries := d.History.Load()
	require.Len(t, entries, 1)
	assert.Equal(t, "NoAPI GmbH", entries[0].Company)
	assert.Equal(t, "Backend Intern", entries[0].Title)
}

func TestPollOnceFallsBackWhenDiscoveryFindsNothing(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
<html><body>
  <div class="job-listing">
    <span class="job-title">Data Intern</span>
    <a href="/jobs/9">Details</a>
  </div>
</body></html>`))
	}))
	defer page.Close()

	d := testDeps(t)
	d.Discoverer = &stubDiscoverer{ok: false}

	cfg := baseConfig(config.Company{Name: "Opaque AG", URL: page.URL, Keywords: []string{"intern"}})

	added, err := PollOnce(context.Background(), cfg, d)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	// No config was saved; nothing to replay next time either.
	_, ok, err := d.Configs.Get("opaque-ag")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPollOnceNotifierFailureDoesNotFailRun(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
<html><body>
  <div class="job-listing">
    <span class="job-title">QA Intern</span>
    <a href="/jobs/5">Details</a>
  </div>
</body></html>`))
	}))
	defer page.Close()

	d := testDeps(t)
	useAPI := false
	broken := &stubNotifier{err: errors.New("smtp down")}
	working := &stubNotifier{}
	d.Notifiers = []Notifier{broken, working}

	cfg := baseConfig(config.Company{Name: "Acme", URL: page.URL, Keywords: []string{"intern"}, UseAPI: &useAPI})

	added, err := PollOnce(context.Background(), cfg, d)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Len(t, broken.sent, 1)
	assert.Len(t, working.sent, 1)
}

func TestPollOnceRefreshesConfigAfterReplay(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{
			map[string]any{"title": "Software Intern", "url": "https://acme.example/jobs/1"},
		}})
	}))
	defer api.Close()

	d := testDeps(t)
	require.NoError(t, d.Configs.Save("acme", apiconfig.Config{Endpoint: api.URL, Method: "GET"}))
	before, ok, err := d.Configs.Get("acme")
	require.NoError(t, err)
	require.True(t, ok)

	// last_verified has second granularity.
	time.Sleep(1100 * time.Millisecond)

	cfg := baseConfig(config.Company{Name: "Acme", URL: "https://acme.example/careers", Keywords: []string{"intern"}})
	_, err = PollOnce(context.Background(), cfg, d)
	require.NoError(t, err)

	after, ok, err := d.Configs.Get("acme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, before.LastVerified, after.LastVerified)
}

func TestPollOncePrunesStaleArchiveRows(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
<html><body>
  <div class="job-listing">
    <span class="job-title">Platform Intern</span>
    <a href="/jobs/3">Details</a>
  </div>
</body></html>`))
	}))
	defer page.Close()

	d := testDeps(t)
	db, err := store.Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))
	d.DB = db

	_, err = db.Exec(`
INSERT INTO jobs (company, title, location, url, employment_type, date_posted, source, date_found)
VALUES ('Old Co', 'Forgotten Intern', '', 'https://old.example/1', '', '', 'poll', datetime('now','-4 months'));`)
	require.NoError(t, err)

	useAPI := false
	cfg := baseConfig(config.Company{Name: "Acme", URL: page.URL, Keywords: []string{"intern"}, UseAPI: &useAPI})

	_, err = PollOnce(context.Background(), cfg, d)
	require.NoError(t, err)

	rows, err := store.ListJobs(context.Background(), db, "all", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Platform Intern", rows[0].Title)
}

func TestPollOnceRespectsCancellation(t *testing.T) {
	d := testDeps(t)
	cfg := baseConfig(
		config.Company{Name: "A", URL: "https://a.example"},
		config.Company{Name: "B", URL: "https://b.example"},
	)
	cfg.Polling.CompanyDelaySeconds = 60

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PollOnce(ctx, cfg, d)
	assert.Error(t, err)
}
