package dynamic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobradar-engine/internal/apiconfig"
)

func TestJobsArray(t *testing.T) {
	items := []any{map[string]any{"title": "Intern"}}

	tests := []struct {
		name  string
		data  any
		rf    *apiconfig.ResponseFormat
		found bool
	}{
		{"configured jobs_path", map[string]any{"postings": items}, &apiconfig.ResponseFormat{JobsPath: "postings"}, true},
		{"wrapper value", map[string]any{"value": items}, nil, true},
		{"wrapper data", map[string]any{"data": items}, nil, true},
		{"wrapper jobs", map[string]any{"jobs": items}, nil, true},
		{"root list", items, nil, true},
		{"jobs_path pointing at non-list falls through", map[string]any{"postings": "nope", "results": items}, &apiconfig.ResponseFormat{JobsPath: "postings"}, true},
		{"nothing recognizable", map[string]any{"total": float64(3)}, nil, false},
		{"scalar response", "oops", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := jobsArray(tt.data, tt.rf)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, items, got)
			}
		})
	}
}

func TestJobsArrayWrapperOrder(t *testing.T) {
	// "value" outranks "jobs" when both are present.
	valueItems := []any{map[string]any{"title": "From value"}}
	data := map[string]any{
		"jobs":  []any{map[string]any{"title": "From jobs"}},
		"value": valueItems,
	}
	got, ok := jobsArray(data, nil)
	require.True(t, ok)
	assert.Equal(t, valueItems, got)
}

func TestExtractField(t *testing.T) {
	item := map[string]any{
		"title":    "Working Student",
		"jobTitle": "Should lose to title",
		"nested": map[string]any{
			"deep": "found me",
		},
		"addresses": []any{
			map[string]any{"city": "Munich", "country": "DEU"},
		},
	}

	t.Run("configured flat key", func(t *testing.T) {
		assert.Equal(t, "Should lose to title", ExtractField(item, "jobTitle", titleKeys))
	})

	t.Run("configured nested path", func(t *testing.T) {
		assert.Equal(t, "found me", ExtractField(item, []any{"nested", "deep"}, nil))
	})

	t.Run("path with array index", func(t *testing.T) {
		assert.Equal(t, "Munich", ExtractField(item, []any{"addresses", 0, "city"}, nil))
	})

	t.Run("json-decoded float index", func(t *testing.T) {
		assert.Equal(t, "Munich", ExtractField(item, []any{"addresses", float64(0), "city"}, nil))
	})

	t.Run("out of range index is nil", func(t *testing.T) {
		assert.Nil(t, ExtractField(item, []any{"addresses", 5, "city"}, nil))
	})

	t.Run("path through missing key is nil", func(t *testing.T) {
		assert.Nil(t, ExtractField(item, []any{"nested", "absent", "deeper"}, nil))
	})

	t.Run("fallback order", func(t *testing.T) {
		assert.Equal(t, "Working Student", ExtractField(item, nil, titleKeys))
		only := map[string]any{"jobTitle": "Second choice"}
		assert.Equal(t, "Second choice", ExtractField(only, nil, titleKeys))
	})

	t.Run("nothing matches", func(t *testing.T) {
		assert.Nil(t, ExtractField(map[string]any{"x": 1}, nil, titleKeys))
	})
}

func TestNormalize(t *testing.T) {
	t.Run("address list flattens to city and country", func(t *testing.T) {
		cfg := apiconfig.Config{
			CompanyName: "MediaMarkt",
			ResponseFormat: &apiconfig.ResponseFormat{
				LocationFields: "addresses",
			},
		}
		data := map[string]any{"data": []any{
			map[string]any{
				"title":     "Retail Intern",
				"addresses": []any{map[string]any{"city": "Munich", "country": "DEU"}},
			},
		}}
		jobs := Normalize(data, cfg)
		require.Len(t, jobs, 1)
		assert.Equal(t, "Munich, DEU", jobs[0].Location)
	})

	t.Run("addresses found by fallback without a configured format", func(t *testing.T) {
		data := map[string]any{"value": []any{
			map[string]any{
				"title":     "Intern",
				"addresses": []any{map[string]any{"city": "Munich", "country": "DEU"}},
			},
		}}
		jobs := Normalize(data, apiconfig.Config{})
		require.Len(t, jobs, 1)
		assert.Equal(t, "Munich, DEU", jobs[0].Location)
	})

	t.Run("singular address key still outranks addresses", func(t *testing.T) {
		data := []any{
			map[string]any{
				"title":     "Intern",
				"address":   "Berlin HQ",
				"addresses": []any{map[string]any{"city": "Munich", "country": "DEU"}},
			},
		}
		jobs := Normalize(data, apiconfig.Config{})
		require.Len(t, jobs, 1)
		assert.Equal(t, "Berlin HQ", jobs[0].Location)
	})

	t.Run("address without city keeps country only", func(t *testing.T) {
		cfg := apiconfig.Config{ResponseFormat: &apiconfig.ResponseFormat{LocationFields: "addresses"}}
		data := []any{
			map[string]any{
				"title":     "Intern",
				"addresses": []any{map[string]any{"country": "DEU"}},
			},
		}
		jobs := Normalize(data, cfg)
		require.Len(t, jobs, 1)
		assert.Equal(t, "DEU", jobs[0].Location)
	})

	t.Run("url prefix applied to relative urls only", func(t *testing.T) {
		cfg := apiconfig.Config{
			ResponseFormat: &apiconfig.ResponseFormat{URLPrefix: "https://jobs.example.com"},
		}
		data := []any{
			map[string]any{"title": "A", "url": "/postings/1"},
			map[string]any{"title": "B", "url": "https://other.example.com/2"},
		}
		jobs := Normalize(data, cfg)
		require.Len(t, jobs, 2)
		assert.Equal(t, "https://jobs.example.com/postings/1", jobs[0].URL)
		assert.Equal(t, "https://other.example.com/2", jobs[1].URL)
	})

	t.Run("defaults for missing fields", func(t *testing.T) {
		jobs := Normalize([]any{map[string]any{"irrelevant": true}}, apiconfig.Config{})
		require.Len(t, jobs, 1)
		assert.Equal(t, "Unknown", jobs[0].Company)
		assert.Equal(t, "Unknown", jobs[0].Title)
		assert.Equal(t, "Not specified", jobs[0].Location)
		assert.Equal(t, "", jobs[0].URL)
	})

	t.Run("non-map items are skipped", func(t *testing.T) {
		data := []any{
			"just a string",
			map[string]any{"title": "Kept"},
		}
		jobs := Normalize(data, apiconfig.Config{CompanyName: "Acme"})
		require.Len(t, jobs, 1)
		assert.Equal(t, "Kept", jobs[0].Title)
	})

	t.Run("no jobs array yields empty", func(t *testing.T) {
		jobs := Normalize(map[string]any{"total": float64(0)}, apiconfig.Config{})
		assert.Empty(t, jobs)
	})

	t.Run("numeric fields are stringified", func(t *testing.T) {
		data := []any{map[string]any{"title": "X", "datePosted": float64(42)}}
		jobs := Normalize(data, apiconfig.Config{})
		require.Len(t, jobs, 1)
		assert.Equal(t, "42", jobs[0].DatePosted)
	})
}
