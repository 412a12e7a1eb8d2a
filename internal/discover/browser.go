package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"jobradar-engine/internal/apiconfig"
	"jobradar-engine/internal/capture"
)

const discoveryUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Selectors tried, in order, to poke the page into firing its search API.
var searchBoxSelectors = []string{
	`input[type="search"]`,
	`input[placeholder*="search" i]`,
	`input[placeholder*="job" i]`,
	`input[id*="search" i]`,
	`input[class*="search" i]`,
}

var searchButtonSelectors = []string{
	`button:has-text("Search")`,
	`button:has-text("Filter")`,
	`button:has-text("Apply")`,
}

// Browser drives a headless Chromium over a career page and feeds every
// XHR/fetch exchange it sees into a session collector. The page-load time
// bound is the only timeout; scoring and extraction are instantaneous.
type Browser struct {
	Headless bool
	Timeout  time.Duration // page-load bound; zero means 90s
}

// Discover runs one discovery session. The boolean is false when the site
// exposed no scorable API call; err covers browser-level failures only.
func (b *Browser) Discover(ctx context.Context, careerURL string) (apiconfig.Config, bool, error) {
	log.Printf("[discover] session start url=%q", careerURL)

	pw, err := playwright.Run()
	if err != nil {
		return apiconfig.Config{}, false, fmt.Errorf("start playwright: %w", err)
	}
	defer func() { _ = pw.Stop() }()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.Headless),
	})
	if err != nil {
		return apiconfig.Config{}, false, fmt.Errorf("launch chromium: %w", err)
	}
	defer func() { _ = browser.Close() }()

	// Some career sites (Infineon, for one) serve broken cert chains.
	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:         playwright.String(discoveryUserAgent),
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		return apiconfig.Config{}, false, fmt.Errorf("browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		return apiconfig.Config{}, false, fmt.Errorf("new page: %w", err)
	}

	col := capture.NewCollector()
	wirePage(page, col)

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	if _, err := page.Goto(careerURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return apiconfig.Config{}, false, fmt.Errorf("load career page: %w", err)
	}

	// Lazy-loaded listings often fire their API a beat after networkidle.
	page.WaitForTimeout(5000)

	triggerSearch(page)

	if err := ctx.Err(); err != nil {
		return apiconfig.Config{}, false, err
	}

	cfg, ok := Analyze(col, careerURL)
	return cfg, ok, nil
}

func wirePage(page playwright.Page, col *capture.Collector) {
	page.OnRequest(func(req playwright.Request) {
		rt := req.ResourceType()
		if rt != "xhr" && rt != "fetch" {
			return
		}
		// Binary bodies that don't decode are recorded as absent.
		postData, err := req.PostData()
		if err != nil {
			postData = ""
		}
		headers := req.Headers()
		col.Add(capture.Exchange{
			URL:          req.URL(),
			Method:       req.Method(),
			Headers:      headers,
			PostData:     postData,
			ResourceType: rt,
			Timestamp:    time.Now().UTC(),
		})
	})

	page.OnResponse(func(res playwright.Response) {
		ct := res.Headers()["content-type"]
		if !strings.Contains(ct, "application/json") {
			return
		}
		body, err := res.Body()
		if err != nil {
			return
		}
		var parsed any
		if err := json.Unmarshal(body, &parsed); err != nil {
			return
		}
		col.AttachResponse(res.URL(), parsed, res.Status())
	})
}

// triggerSearch interacts with the page the way a visitor would, to coax
// out the search API on sites that only call it on demand. Best effort; a
// page with no recognizable controls is fine.
func triggerSearch(page playwright.Page) {
	for _, sel := range searchBoxSelectors {
		el, err := page.QuerySelector(sel)
		if err != nil || el == nil {
			continue
		}
		if err := el.Fill("intern"); err != nil {
			continue
		}
		page.WaitForTimeout(1000)
		_ = el.Press("Enter")
		page.WaitForTimeout(2000)
		break
	}

	for _, sel := range searchButtonSelectors {
		el, err := page.QuerySelector(sel)
		if err != nil || el == nil {
			continue
		}
		if err := el.Click(); err != nil {
			continue
		}
		page.WaitForTimeout(2000)
	}
}
