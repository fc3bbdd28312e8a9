// Package notify provides an in-process change feed. Services publish an
// event after every successful write and connected clients receive it over
// server-sent events, replacing per-device polling.
package notify

import (
	"sync"
)

// Event describes a change to one record table within one scope.
type Event struct {
	// Table is the logical record set that changed, e.g. "entries" or
	// "inventory_movements".
	Table string `json:"table"`
	// ScopeKey identifies whose records changed: a user ID for personal
	// records or a group ID for shared ones.
	ScopeKey string `json:"scope_key"`
}

// Hub fans change events out to subscribers. Subscribers are keyed by
// scope so a client only sees changes to record sets it can read.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a listener for the given scope keys and returns the
// event channel plus a cancel function. The channel is buffered; cancel
// must be called when the listener disconnects.
func (h *Hub) Subscribe(scopeKeys ...string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	for _, key := range scopeKeys {
		if h.subs[key] == nil {
			h.subs[key] = make(map[chan Event]struct{})
		}
		h.subs[key][ch] = struct{}{}
	}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		for _, key := range scopeKeys {
			delete(h.subs[key], ch)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
		}
		h.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of its scope key. Sends
// never block; a subscriber that has fallen behind drops the event and
// catches up on its next refetch.
func (h *Hub) Publish(table, scopeKey string) {
	event := Event{Table: table, ScopeKey: scopeKey}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[scopeKey] {
		select {
		case ch <- event:
		default:
		}
	}
}
