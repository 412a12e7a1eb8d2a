package events

import "sync"

const subscriberBuffer = 16

// Hub fans run events out to SSE subscribers. Each subscriber gets a
// small buffered channel; when it falls behind, new events are dropped
// for that subscriber so the publisher never blocks.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan string
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan string)}
}

// Subscribe registers a new subscriber and returns its event channel
// together with a cancel function. Cancel closes the channel and is safe
// to call more than once.
func (h *Hub) Subscribe() (<-chan string, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan string, subscriberBuffer)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (h *Hub) Publish(evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
