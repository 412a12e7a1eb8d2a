// Command discover runs a one-shot discovery session against a career
// page, saves the resulting API config, and can replay it immediately to
// check the extraction end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"jobradar-engine/internal/apiconfig"
	"jobradar-engine/internal/discover"
	"jobradar-engine/internal/scrape/dynamic"
	"jobradar-engine/internal/scrape/util"
)

func main() {
	var (
		name     = flag.String("name", "", "company display name (defaults to the slug)")
		storeLoc = flag.String("store", "data/api_configs.json", "path to the api config store")
		test     = flag.Bool("test", false, "replay the discovered config and print sample jobs")
		headful  = flag.Bool("headful", false, "show the browser window")
		timeout  = flag.Duration("timeout", 90*time.Second, "page load timeout")
	)
	flag.Parse()

	careerURL := flag.Arg(0)
	if careerURL == "" {
		fmt.Fprintln(os.Stderr, "usage: discover [flags] <career-page-url>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	_ = godotenv.Load()

	companyName := *name
	if companyName == "" {
		companyName = careerURL
	}
	slug := apiconfig.Slugify(companyName)

	b := &discover.Browser{Headless: !*headful, Timeout: *timeout}
	cfg, ok, err := b.Discover(context.Background(), careerURL)
	if err != nil {
		log.Fatalf("discovery failed: %v", err)
	}
	if !ok {
		log.Fatalf("no job API found on %s; the site may render listings server-side", careerURL)
	}

	cfg.CompanyName = companyName
	store := apiconfig.NewStore(*storeLoc)
	if err := store.Save(slug, cfg); err != nil {
		log.Fatalf("save config: %v", err)
	}
	fmt.Printf("saved api config slug=%s endpoint=%s method=%s\n", slug, cfg.Endpoint, cfg.Method)

	if !*test {
		return
	}

	scraper := dynamic.New(store, util.NewHostLimiter(1.0, 2))
	jobs, err := scraper.ScrapeJobs(context.Background(), slug, dynamic.SearchParams{
		Keywords:   []string{"intern", "internship"},
		MaxResults: 25,
	})
	if err != nil {
		log.Fatalf("test replay failed: %v", err)
	}

	fmt.Printf("replay ok: %d jobs\n", len(jobs))
	for i, j := range jobs {
		if i >= 5 {
			fmt.Printf("... and %d more\n", len(jobs)-i)
			break
		}
		fmt.Printf("  %s | %s | %s\n", j.Title, j.Location, firstOf(j.URL, "no url"))
	}
}

func firstOf(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
