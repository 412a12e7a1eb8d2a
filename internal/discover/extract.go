package discover

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"jobradar-engine/internal/apiconfig"
	"jobradar-engine/internal/capture"
)

var keepHeaderPatterns = []string{"api-key", "x-api-key", "authorization", "content-type", "apikey"}

// ExtractConfig turns the winning exchange into a replayable API config.
// Field mapping is deliberately not inferred here; the normalizer's
// heuristics handle an absent response_format until an operator edits the
// stored config.
func ExtractConfig(ex *capture.Exchange, careerURL string) apiconfig.Config {
	headers := map[string]string{}
	for name, val := range ex.Headers {
		ln := strings.ToLower(name)
		for _, pat := range keepHeaderPatterns {
			if strings.Contains(ln, pat) {
				headers[name] = val
				break
			}
		}
	}
	// The career page is always the referer on replay, whatever was captured.
	for name := range headers {
		if strings.EqualFold(name, "referer") {
			delete(headers, name)
		}
	}
	headers["referer"] = careerURL

	cfg := apiconfig.Config{
		Endpoint:     ex.URL,
		Method:       strings.ToUpper(ex.Method),
		Headers:      headers,
		DiscoveredAt: time.Now().UTC().Format(time.RFC3339),
		CareerURL:    careerURL,
	}

	if cfg.Method == http.MethodPost && ex.PostData != "" {
		var parsed any
		if err := json.Unmarshal([]byte(ex.PostData), &parsed); err == nil {
			cfg.PayloadTemplate = parsed
		} else {
			// Opaque body; substitution still works on it as one big string.
			cfg.PayloadTemplate = ex.PostData
		}
	}

	if ex.HasResponse {
		cfg.ResponseSample = ex.ResponseBody
	}

	return cfg
}
