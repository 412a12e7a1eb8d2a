package apiconfig

import (
	"regexp"
	"strings"
)

// ResponseFormat carries optional per-company field-mapping hints for
// pulling jobs out of an otherwise unknown JSON shape. Path fields accept
// either a flat key name (string) or an ordered list of keys and array
// indices for nested traversal, which is why they are typed any.
type ResponseFormat struct {
	JobsPath       string `json:"jobs_path,omitempty"`
	TitleField     any    `json:"title_field,omitempty"`
	LocationFields any    `json:"location_fields,omitempty"`
	URLField       any    `json:"url_field,omitempty"`
	URLPrefix      string `json:"url_prefix,omitempty"`
}

// Config describes how to call a discovered job API and how to read its
// response. Endpoint and Method are always set; everything else is
// optional. Timestamps are RFC3339 strings so a store round-trip is
// byte-for-byte stable.
type Config struct {
	Endpoint        string            `json:"endpoint"`
	Method          string            `json:"method"`
	Headers         map[string]string `json:"headers,omitempty"`
	PayloadTemplate any               `json:"payload_template,omitempty"`
	ResponseSample  any               `json:"response_sample,omitempty"`
	ResponseFormat  *ResponseFormat   `json:"response_format,omitempty"`
	DiscoveredAt    string            `json:"discovered_at,omitempty"`
	CareerURL       string            `json:"career_url,omitempty"`
	CompanyName     string            `json:"company_name,omitempty"`
	LastVerified    string            `json:"last_verified,omitempty"`
	Status          string            `json:"status,omitempty"`
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the stable store key for a company name:
// "MediaMarkt Saturn" -> "mediamarkt-saturn".
func Slugify(name string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
