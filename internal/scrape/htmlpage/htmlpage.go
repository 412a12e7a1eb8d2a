// Package htmlpage is the fallback for sites where no API could be
// discovered: fetch the career page and pull job listings out of the HTML
// with a ladder of generic selectors.
package htmlpage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape/util"
)

// Selector ladders tried in priority order. Career pages rarely agree on
// markup, but almost all of them hang "job"/"position" somewhere in a class
// name.
var (
	containerSelectors = []string{
		`[class*='job'][class*='listing']`,
		`[class*='job'][class*='item']`,
		`[class*='position']`,
		`[class*='career']`,
		`article`,
		`.job`,
		`.position`,
		`[role='listitem']`,
	}
	titleSelectors    = []string{`[class*='title']`, `[class*='job-name']`, `h2`, `h3`, `a`}
	locationSelectors = []string{`[class*='location']`, `[class*='office']`, `[class*='city']`}
	linkSelectors     = []string{`a[href*='job']`, `a[href*='position']`, `a[href*='career']`, `a`}
)

type Scraper struct {
	hc *http.Client
}

func New() *Scraper {
	return &Scraper{hc: &http.Client{Timeout: 30 * time.Second}}
}

// ScrapeURL fetches a career page and extracts whatever listings the
// generic selectors can find. Partial results are fine; an unreachable page
// is an error the caller reports and survives.
func (s *Scraper) ScrapeURL(ctx context.Context, companyName, pageURL string) ([]domain.Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get career page: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("career page status %d url=%q", res.StatusCode, pageURL)
	}

	jobs, err := Parse(res.Body, companyName, pageURL)
	if err != nil {
		return nil, err
	}
	log.Printf("[htmlpage] company=%q jobs=%d", companyName, len(jobs))
	return jobs, nil
}

// Parse extracts jobs from already-fetched (or browser-rendered) HTML.
func Parse(r io.Reader, companyName, baseURL string) ([]domain.Job, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse career page html: %w", err)
	}

	var containers *goquery.Selection
	for _, sel := range containerSelectors {
		found := doc.Find(sel)
		if found.Length() > 0 {
			containers = found
			break
		}
	}
	if containers == nil {
		return nil, nil
	}

	seen := map[string]bool{}
	var jobs []domain.Job

	containers.Each(func(_ int, el *goquery.Selection) {
		title := firstText(el, titleSelectors)
		if title == "" || looksLikeJunkTitle(title) {
			return
		}

		jobURL := firstHref(el, baseURL)
		key := title + "|" + jobURL
		if seen[key] {
			return
		}
		seen[key] = true

		location := firstText(el, locationSelectors)
		if location == "" {
			location = "Not specified"
		}

		jobs = append(jobs, domain.Job{
			Company:  companyName,
			Title:    title,
			Location: location,
			URL:      jobURL,
		})
	})

	return jobs, nil
}

func firstText(el *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if t := util.CleanText(el.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func firstHref(el *goquery.Selection, baseURL string) string {
	for _, sel := range linkSelectors {
		href, ok := el.Find(sel).First().Attr("href")
		if !ok {
			continue
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			continue
		}
		return absoluteURL(baseURL, href)
	}
	return ""
}

func absoluteURL(baseURL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func looksLikeJunkTitle(t string) bool {
	l := strings.ToLower(t)
	return l == "view" || l == "apply" || l == "apply now" || l == "learn more"
}
