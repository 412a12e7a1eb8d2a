package capture

import (
	"sync"
	"time"
)

// Exchange is one intercepted request, optionally paired with the JSON
// response that later arrived for the same URL. Once a response is attached
// the entry is never touched again.
type Exchange struct {
	URL          string
	Method       string
	Headers      map[string]string
	PostData     string // empty when absent or undecodable
	ResourceType string
	Timestamp    time.Time

	ResponseBody any // parsed JSON, nil unless HasResponse
	StatusCode   int
	HasResponse  bool
}

// Collector owns the exchanges of a single discovery session, in encounter
// order. The browser delivers request and response events from its own
// goroutines, so appends and attaches are guarded.
type Collector struct {
	mu        sync.Mutex
	exchanges []*Exchange
}

func NewCollector() *Collector {
	return &Collector{}
}

// Add records an outbound request. Anything that is not an XHR/fetch call
// is ignored.
func (c *Collector) Add(ex Exchange) {
	if ex.ResourceType != "xhr" && ex.ResourceType != "fetch" {
		return
	}
	if ex.Timestamp.IsZero() {
		ex.Timestamp = time.Now().UTC()
	}
	c.mu.Lock()
	c.exchanges = append(c.exchanges, &ex)
	c.mu.Unlock()
}

// AttachResponse pairs a parsed JSON response with the earliest captured
// request for the same URL that has none yet. Returns false when no entry
// matched.
func (c *Collector) AttachResponse(url string, body any, status int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ex := range c.exchanges {
		if ex.URL == url && !ex.HasResponse {
			ex.ResponseBody = body
			ex.StatusCode = status
			ex.HasResponse = true
			return true
		}
	}
	return false
}

// Exchanges returns the session's captures in encounter order. The slice is
// a copy; the entries are shared and must not be mutated by callers.
func (c *Collector) Exchanges() []*Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Exchange, len(c.exchanges))
	copy(out, c.exchanges)
	return out
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.exchanges)
}
