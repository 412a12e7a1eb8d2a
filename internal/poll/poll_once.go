package poll

import (
	"context"
	"database/sql"
	"log"
	"time"

	"jobradar-engine/internal/apiconfig"
	"jobradar-engine/internal/config"
	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/history"
	"jobradar-engine/internal/metrics"
	"jobradar-engine/internal/scrape"
	"jobradar-engine/internal/scrape/dynamic"
	"jobradar-engine/internal/scrape/htmlpage"
	"jobradar-engine/internal/store"
)

// Discoverer runs one browser session against a career page. The boolean
// is false when no API could be found; that falls back to HTML scraping.
type Discoverer interface {
	Discover(ctx context.Context, careerURL string) (apiconfig.Config, bool, error)
}

// Notifier is one delivery channel for new-job digests.
type Notifier interface {
	Name() string
	Send(jobs []domain.Job) error
}

type Deps struct {
	Configs    *apiconfig.Store
	History    *history.Store
	DB         *sql.DB // optional archive
	API        *dynamic.Scraper
	HTML       *htmlpage.Scraper
	Discoverer Discoverer // nil disables discovery
	Notifiers  []Notifier
	Hub        *events.Hub // optional
}

// PollOnce runs one full cycle: scrape every company in order with a
// politeness pause between them, diff against history, archive, notify.
// Per-company failures are logged and skipped; nothing here is fatal to
// the batch.
func PollOnce(ctx context.Context, cfg config.Config, d Deps) (newCount int, err error) {
	var all []domain.Job

	for i, co := range cfg.Companies {
		if i > 0 {
			if err := pause(ctx, time.Duration(cfg.Polling.CompanyDelaySeconds)*time.Second); err != nil {
				return 0, err
			}
		}

		jobs := scrapeCompany(ctx, cfg, d, co)
		if len(jobs) == 0 {
			log.Printf("[poll] company=%q no jobs", co.Name)
			continue
		}

		crit := scrape.Criteria{
			TypeKeywords:  co.Keywords,
			FieldKeywords: cfg.Filters.FieldKeywords,
		}
		if len(crit.TypeKeywords) == 0 {
			crit.TypeKeywords = cfg.Filters.TypeKeywords
		}
		kept := crit.Filter(jobs)
		log.Printf("[poll] company=%q jobs=%d matching=%d", co.Name, len(jobs), len(kept))
		all = append(all, kept...)
	}

	fresh, herr := d.History.CompareAndUpdate(all)
	if herr != nil {
		// The diff is still usable; only persistence failed.
		log.Printf("[poll] history update error: %v", herr)
	}

	if d.DB != nil {
		for _, j := range all {
			if _, aerr := store.InsertJobIgnore(ctx, d.DB, j, "poll"); aerr != nil {
				log.Printf("[poll] archive insert error url=%q: %v", j.URL, aerr)
			}
		}
		if n, cerr := store.CleanupOldJobs(d.DB); cerr != nil {
			log.Printf("[poll] archive cleanup error: %v", cerr)
		} else if n > 0 {
			log.Printf("[poll] archive cleanup removed=%d", n)
		}
	}

	if len(fresh) > 0 {
		metrics.NewJobs.Add(float64(len(fresh)))
		if d.Hub != nil {
			d.Hub.Publish(events.MakeEvent("new_jobs", map[string]int{"count": len(fresh)}))
		}
		notify(d.Notifiers, fresh)
	}

	metrics.LastPollUnix.SetToCurrentTime()
	return len(fresh), nil
}

// scrapeCompany tries replay (discovering a config on first encounter),
// then falls back to plain HTML scraping. Always returns a list, possibly
// empty; faults are logged with the company slug for diagnosis.
func scrapeCompany(ctx context.Context, cfg config.Config, d Deps, co config.Company) []domain.Job {
	slug := co.Slug
	if slug == "" {
		slug = apiconfig.Slugify(co.Name)
	}

	params := dynamic.SearchParams{
		Keywords:   co.Keywords,
		Location:   cfg.Search.Location,
		MaxResults: cfg.Search.MaxResults,
	}
	if len(params.Keywords) == 0 {
		params.Keywords = cfg.Search.Keywords
	}

	var jobs []domain.Job

	if co.APIEnabled() {
		_, haveCfg, err := d.Configs.Get(slug)
		if err != nil {
			log.Printf("[poll] config store error slug=%q: %v", slug, err)
		}

		if !haveCfg && d.Discoverer != nil {
			log.Printf("[poll] no saved api config slug=%q; discovering", slug)
			found, ok, derr := d.Discoverer.Discover(ctx, co.URL)
			switch {
			case derr != nil:
				metrics.DiscoverySessions.WithLabelValues("error").Inc()
				log.Printf("[poll] discovery error slug=%q url=%q: %v", slug, co.URL, derr)
			case !ok:
				metrics.DiscoverySessions.WithLabelValues("not_found").Inc()
			default:
				metrics.DiscoverySessions.WithLabelValues("found").Inc()
				found.CompanyName = co.Name
				if serr := d.Configs.Save(slug, found); serr != nil {
					log.Printf("[poll] save api config slug=%q: %v", slug, serr)
				} else {
					haveCfg = true
				}
			}
		}

		if haveCfg {
			var err error
			jobs, err = d.API.ScrapeJobs(ctx, slug, params)
			if err != nil {
				metrics.ReplayCalls.WithLabelValues("error").Inc()
				log.Printf("[poll] replay error slug=%q: %v", slug, err)
			} else {
				metrics.ReplayCalls.WithLabelValues("ok").Inc()
				metrics.JobsFound.WithLabelValues("api").Add(float64(len(jobs)))
				// The endpoint answered, so the config is still good.
				if terr := d.Configs.Touch(slug); terr != nil {
					log.Printf("[poll] touch api config slug=%q: %v", slug, terr)
				}
			}
		}
	}

	if len(jobs) == 0 {
		html, err := d.HTML.ScrapeURL(ctx, co.Name, co.URL)
		if err != nil {
			log.Printf("[poll] html fallback error slug=%q url=%q: %v", slug, co.URL, err)
			return jobs
		}
		metrics.JobsFound.WithLabelValues("html").Add(float64(len(html)))
		jobs = append(jobs, html...)
	}

	return jobs
}

func notify(notifiers []Notifier, fresh []domain.Job) {
	for _, n := range notifiers {
		if err := n.Send(fresh); err != nil {
			metrics.NotifySends.WithLabelValues(n.Name(), "error").Inc()
			log.Printf("[notify:%s] error: %v", n.Name(), err)
			continue
		}
		metrics.NotifySends.WithLabelValues(n.Name(), "ok").Inc()
	}
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
