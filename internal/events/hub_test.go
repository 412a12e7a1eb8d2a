package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishSubscribe(t *testing.T) {
	h := NewHub()
	a, cancelA := h.Subscribe()
	b, cancelB := h.Subscribe()
	defer cancelA()

	h.Publish("one")
	assert.Equal(t, "one", <-a)
	assert.Equal(t, "one", <-b)

	cancelB()
	h.Publish("two")
	assert.Equal(t, "two", <-a)

	_, open := <-b
	assert.False(t, open)

	// Cancelling twice is harmless.
	cancelB()
}

func TestHubDropsWhenSubscriberIsSlow(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	defer cancel()

	// Everything past the channel buffer is dropped; the publisher never
	// blocks.
	for i := 0; i < subscriberBuffer+9; i++ {
		h.Publish("evt")
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestMakeEvent(t *testing.T) {
	raw := MakeEvent("new_jobs", map[string]int{"count": 4})

	var e Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, "new_jobs", e.Type)
	assert.False(t, e.At.IsZero())

	var data map[string]int
	require.NoError(t, json.Unmarshal(e.Data, &data))
	assert.Equal(t, 4, data["count"])

	var ping Event
	raw = MakeEvent("ping", nil)
	require.NoError(t, json.Unmarshal([]byte(raw), &ping))
	assert.Equal(t, "ping", ping.Type)
	assert.Nil(t, ping.Data)
}
