// Package discover infers a career site's job-search API by watching the
// network traffic a browser session produces, scoring the captured calls,
// and distilling the winner into a replayable config.
package discover

import (
	"log"

	"jobradar-engine/internal/apiconfig"
	"jobradar-engine/internal/capture"
)

// Analyze scores one session's captures and extracts a config from the best
// candidate. The boolean is false when nothing scored above zero; the
// caller falls back to HTML scraping, this is not an error.
func Analyze(col *capture.Collector, careerURL string) (apiconfig.Config, bool) {
	exchanges := col.Exchanges()
	log.Printf("[discover] analyzing %d captured requests url=%q", len(exchanges), careerURL)

	best, score, ok := SelectBest(exchanges)
	if !ok {
		log.Printf("[discover] no job API found url=%q", careerURL)
		return apiconfig.Config{}, false
	}

	candidates := 0
	for _, ex := range exchanges {
		if Score(ex) > 0 {
			candidates++
		}
	}
	log.Printf("[discover] %d candidate APIs, best score=%d endpoint=%q", candidates, score, best.URL)

	return ExtractConfig(best, careerURL), true
}
