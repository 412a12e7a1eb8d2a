package dynamic

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// SearchParams are the run-time values substituted into a stored payload
// template before a replay call.
type SearchParams struct {
	Keywords   []string
	Location   string
	MaxResults int
}

// PreparePayload substitutes the placeholder tokens of a payload template.
// Works on any template shape, JSON or opaque string, via serialize /
// replace / re-parse. When re-parsing fails (substitution broke the JSON,
// or the template was never JSON) the original template comes back
// unchanged: a partially wrong payload may still work, and at worst the API
// returns nothing.
func PreparePayload(template any, p SearchParams) any {
	return preparePayloadAt(template, p, time.Now().UTC())
}

func preparePayloadAt(template any, p SearchParams, now time.Time) any {
	if template == nil {
		return map[string]any{}
	}

	serialized, err := json.Marshal(template)
	if err != nil {
		return template
	}

	keywords := strings.Join(p.Keywords, "|")
	if keywords == "" {
		keywords = "intern|internship"
	}

	// Tokens are disjoint, so replacement order does not matter.
	replaced := strings.NewReplacer(
		"{keywords}", keywords,
		"{country}", p.Location,
		"{location}", p.Location,
		"{max_results}", strconv.Itoa(p.MaxResults),
		"{current_time}", now.Format(time.RFC3339),
	).Replace(string(serialized))

	var out any
	if err := json.Unmarshal([]byte(replaced), &out); err != nil {
		return template
	}
	return out
}
