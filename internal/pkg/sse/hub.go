package sse

import "sync"

// Event is one server-sent event addressed to the subscribers of a run.
type Event struct {
	RunID string
	Event string
	Data  interface{}
}

// Hub fans progress events out to the subscribers of each closing run.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber for a run and returns the event
// channel and a cleanup function. The channel is closed by cleanup.
func (h *Hub) Subscribe(runID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 16)
	if h.subscribers[runID] == nil {
		h.subscribers[runID] = make(map[chan Event]struct{})
	}
	h.subscribers[runID][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[runID][ch]; !ok {
			return
		}
		delete(h.subscribers[runID], ch)
		close(ch)
		if len(h.subscribers[runID]) == 0 {
			delete(h.subscribers, runID)
		}
	}

	return ch, cleanup
}

// Publish sends an event to every subscriber of a run. Slow subscribers
// are skipped rather than blocking the worker.
func (h *Hub) Publish(runID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[runID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers for a run.
func (h *Hub) SubscriberCount(runID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[runID])
}
