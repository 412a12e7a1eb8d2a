package dynamic

import (
	"fmt"
	"log"
	"strings"

	"jobradar-engine/internal/apiconfig"
	"jobradar-engine/internal/domain"
)

// Fallback key names tried, in declared priority order, when a field has no
// configured path. The same generic extractor serves every field so they
// all share one semantics.
var (
	titleKeys    = []string{"title", "jobTitle", "position", "name"}
	locationKeys = []string{"location", "city", "address", "addresses", "place"}
	urlKeys      = []string{"url", "link", "href", "externalPath", "jobUrl"}
	typeKeys     = []string{"employmentType", "type", "jobType"}
	dateKeys     = []string{"datePosted", "postedDate", "publishedDate", "createdAt"}
)

// Keys tried, in priority order, when locating the jobs array inside a
// wrapper object.
var jobsArrayKeys = []string{"value", "data", "results", "jobs", "items", "records"}

// Normalize pulls a list of normalized jobs out of an arbitrary JSON
// response, guided by the config's response_format when present and by
// heuristics otherwise. A response with no recognizable jobs array yields
// an empty list, not an error; a single unparseable item is skipped without
// discarding the batch.
func Normalize(data any, cfg apiconfig.Config) []domain.Job {
	items, ok := jobsArray(data, cfg.ResponseFormat)
	if !ok {
		log.Printf("[dynamic] could not find jobs array company=%q endpoint=%q", cfg.CompanyName, cfg.Endpoint)
		return nil
	}

	company := cfg.CompanyName
	if company == "" {
		company = "Unknown"
	}

	var out []domain.Job
	for i, raw := range items {
		job, ok := normalizeItem(raw, company, cfg.ResponseFormat)
		if !ok {
			log.Printf("[dynamic] skipping unparseable job item company=%q index=%d", company, i)
			continue
		}
		out = append(out, job)
	}
	return out
}

// jobsArray locates the list of job items: configured jobs_path first, then
// the common wrapper keys in fixed order, then the response itself when it
// is already a list.
func jobsArray(data any, rf *apiconfig.ResponseFormat) ([]any, bool) {
	if obj, ok := data.(map[string]any); ok {
		if rf != nil && rf.JobsPath != "" {
			if v, ok := obj[rf.JobsPath]; ok {
				if list, ok := v.([]any); ok {
					return list, true
				}
			}
		}
		for _, key := range jobsArrayKeys {
			if v, ok := obj[key]; ok {
				if list, ok := v.([]any); ok {
					return list, true
				}
			}
		}
	}
	if list, ok := data.([]any); ok {
		return list, true
	}
	return nil, false
}

func normalizeItem(raw any, company string, rf *apiconfig.ResponseFormat) (domain.Job, bool) {
	item, ok := raw.(map[string]any)
	if !ok {
		return domain.Job{}, false
	}

	var titlePath, locationPath, urlPath any
	urlPrefix := ""
	if rf != nil {
		titlePath = rf.TitleField
		locationPath = rf.LocationFields
		urlPath = rf.URLField
		urlPrefix = rf.URLPrefix
	}

	title := ExtractField(item, titlePath, titleKeys)
	location := postProcessLocation(ExtractField(item, locationPath, locationKeys))
	jobURL := asString(ExtractField(item, urlPath, urlKeys))

	if urlPrefix != "" && jobURL != "" && !strings.HasPrefix(jobURL, "http") {
		jobURL = urlPrefix + jobURL
	}

	return domain.Job{
		Company:        company,
		Title:          stringOr(title, "Unknown"),
		Location:       stringOr(location, "Not specified"),
		URL:            jobURL,
		EmploymentType: asString(ExtractField(item, nil, typeKeys)),
		DatePosted:     asString(ExtractField(item, nil, dateKeys)),
	}, true
}

// ExtractField resolves one field: the configured path wins when set: a
// flat key, or an ordered list of keys and array indices for nested
// traversal. Otherwise the fallback keys are tried in order. Absent values
// resolve to nil rather than faulting, including out-of-range indices.
func ExtractField(item map[string]any, configured any, fallbacks []string) any {
	switch path := configured.(type) {
	case nil:
	case string:
		if path != "" {
			return item[path]
		}
	case []any:
		return walkPath(item, path)
	}

	for _, key := range fallbacks {
		if v, ok := item[key]; ok {
			return v
		}
	}
	return nil
}

func walkPath(start any, path []any) any {
	cur := start
	for _, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			key, ok := seg.(string)
			if !ok {
				return nil
			}
			cur = node[key]
		case []any:
			idx, ok := pathIndex(seg)
			if !ok || idx < 0 || idx >= len(node) {
				return nil
			}
			cur = node[idx]
		default:
			return nil
		}
	}
	return cur
}

// pathIndex accepts both native ints and the float64s that JSON-decoded
// configs carry.
func pathIndex(seg any) (int, bool) {
	switch n := seg.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

// postProcessLocation flattens an address-object list (MediaMarkt-style
// "addresses": [{city, country}]) into "City, Country", dropping the city
// prefix when it is empty.
func postProcessLocation(v any) any {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return v
	}
	addr, ok := list[0].(map[string]any)
	if !ok {
		return v
	}
	city := asString(addr["city"])
	country := asString(addr["country"])
	if city == "" {
		return country
	}
	return city + ", " + country
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

func stringOr(v any, def string) string {
	if s := asString(v); s != "" {
		return s
	}
	return def
}
