package discover

import (
	"encoding/json"
	"net/http"
	"strings"

	"jobradar-engine/internal/capture"
)

// Scoring is a fixed additive heuristic: independent signals, summed, no
// single signal disqualifying. Weights mirror what job boards actually look
// like on the wire; tune here, not in callers.

var jobURLKeywords = []string{
	"job", "career", "position", "vacancy", "search", "opening",
	"employment", "recruit", "applicant", "candidate",
}

var jobFieldNames = []string{"title", "location", "position", "description", "salary"}

var authHeaderPatterns = []string{"api-key", "x-api-key", "authorization", "apikey"}

var wrapperKeys = []string{"value", "data", "results"}

type scoreRule struct {
	name   string
	points func(ex *capture.Exchange) int
}

var scoreRules = []scoreRule{
	{"url-keywords", scoreURLKeywords},
	{"response-shape", scoreResponseShape},
	{"post-method", scorePostMethod},
	{"auth-headers", scoreAuthHeaders},
}

// Score rates how likely an exchange is to be the job-search API call.
// Deterministic over the exchange alone; never negative.
func Score(ex *capture.Exchange) int {
	total := 0
	for _, r := range scoreRules {
		total += r.points(ex)
	}
	return total
}

// Each job-domain keyword present in the URL counts once, cumulatively.
func scoreURLKeywords(ex *capture.Exchange) int {
	u := strings.ToLower(ex.URL)
	n := 0
	for _, kw := range jobURLKeywords {
		if strings.Contains(u, kw) {
			n += 10
		}
	}
	return n
}

func scoreResponseShape(ex *capture.Exchange) int {
	if !ex.HasResponse {
		return 0
	}
	n := 20

	switch body := ex.ResponseBody.(type) {
	case map[string]any:
		for _, k := range wrapperKeys {
			if _, ok := body[k]; ok {
				n += 15
				break
			}
		}
		serialized := lowerJSON(body)
		for _, f := range jobFieldNames {
			if strings.Contains(serialized, f) {
				n += 5
			}
		}
	case []any:
		n += 10
		if len(body) > 0 {
			if first, ok := body[0].(map[string]any); ok {
				item := lowerJSON(first)
				for _, f := range []string{"title", "job", "position"} {
					if strings.Contains(item, f) {
						n += 10
						break
					}
				}
			}
		}
	}
	return n
}

func scorePostMethod(ex *capture.Exchange) int {
	if strings.EqualFold(ex.Method, http.MethodPost) {
		return 5
	}
	return 0
}

func scoreAuthHeaders(ex *capture.Exchange) int {
	for name := range ex.Headers {
		ln := strings.ToLower(name)
		for _, pat := range authHeaderPatterns {
			if strings.Contains(ln, pat) {
				return 15
			}
		}
	}
	return 0
}

// SelectBest picks the highest-scoring exchange; exchanges scoring zero are
// discarded. Ties break to the earliest capture, which matters on ambiguous
// sites since the winner's config gets persisted.
func SelectBest(exchanges []*capture.Exchange) (*capture.Exchange, int, bool) {
	var best *capture.Exchange
	bestScore := 0
	for _, ex := range exchanges {
		if s := Score(ex); s > bestScore {
			best, bestScore = ex, s
		}
	}
	return best, bestScore, best != nil
}

func lowerJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.ToLower(string(b))
}
