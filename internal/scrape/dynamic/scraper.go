// Package dynamic replays discovered API configurations: substitute search
// parameters into the stored payload, call the endpoint, and normalize
// whatever JSON shape comes back. No per-company code.
package dynamic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"jobradar-engine/internal/apiconfig"
	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape/util"
)

type Scraper struct {
	store   *apiconfig.Store
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(store *apiconfig.Store, limiter *util.HostLimiter) *Scraper {
	return &Scraper{
		store:   store,
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
	}
}

// ScrapeJobs replays the stored config for a company. Errors cover a
// missing config, a transport fault, or a non-200 status; callers log them
// and move on to the next company; a replay failure never escalates past
// "zero jobs for this company". Repeated calls are idempotent; all state
// lives in the stored config.
func (s *Scraper) ScrapeJobs(ctx context.Context, slug string, p SearchParams) ([]domain.Job, error) {
	cfg, ok, err := s.store.Get(slug)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no api config for %q", slug)
	}

	log.Printf("[dynamic] calling api company=%q endpoint=%q", util.FirstNonEmpty(cfg.CompanyName, slug), cfg.Endpoint)

	payload := PreparePayload(cfg.PayloadTemplate, p)

	req, err := buildRequest(ctx, cfg, payload)
	if err != nil {
		return nil, fmt.Errorf("build request slug=%q: %w", slug, err)
	}

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, cfg.Endpoint); err != nil {
			return nil, err
		}
	}

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call api slug=%q: %w", slug, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api status %d slug=%q endpoint=%q", res.StatusCode, slug, cfg.Endpoint)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read api response slug=%q: %w", slug, err)
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode api response slug=%q: %w", slug, err)
	}

	jobs := Normalize(data, cfg)
	log.Printf("[dynamic] company=%q jobs=%d", util.FirstNonEmpty(cfg.CompanyName, slug), len(jobs))
	return jobs, nil
}

// buildRequest sends the payload as query parameters on GET and as a JSON
// body on POST, mirroring how the call was originally captured.
func buildRequest(ctx context.Context, cfg apiconfig.Config, payload any) (*http.Request, error) {
	var req *http.Request
	var err error

	if cfg.Method == http.MethodPost {
		body, merr := json.Marshal(payload)
		if merr != nil {
			return nil, merr
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, cfg.Endpoint, nil)
		if err != nil {
			return nil, err
		}
		if params, ok := payload.(map[string]any); ok && len(params) > 0 {
			q := req.URL.Query()
			for k, v := range params {
				q.Set(k, queryValue(v))
			}
			req.URL.RawQuery = q.Encode()
		}
	}

	req.Header.Set("Accept", "application/json")
	for name, val := range cfg.Headers {
		req.Header.Set(name, val)
	}
	return req, nil
}

func queryValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		// JSON numbers; keep integers clean of the ".0" suffix.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
