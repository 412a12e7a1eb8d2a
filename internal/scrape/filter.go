package scrape

import (
	"strings"

	"jobradar-engine/internal/domain"
)

// Criteria gates jobs on their title: at least one type keyword (intern,
// working student, ...) AND at least one field keyword (AI, data, ...).
// Empty keyword lists disable that half of the gate.
type Criteria struct {
	TypeKeywords  []string
	FieldKeywords []string
}

func (c Criteria) Matches(j domain.Job) bool {
	title := strings.ToLower(j.Title)
	return matchesAny(title, c.TypeKeywords) && matchesAny(title, c.FieldKeywords)
}

// Filter keeps the jobs matching both keyword groups.
func (c Criteria) Filter(jobs []domain.Job) []domain.Job {
	var out []domain.Job
	for _, j := range jobs {
		if c.Matches(j) {
			out = append(out, j)
		}
	}
	return out
}

func matchesAny(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
