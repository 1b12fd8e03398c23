package cloture

import (
	"github.com/rim-hr/paie-backend-go/internal/domain/cloture"
	"github.com/rim-hr/paie-backend-go/internal/pkg/sse"
)

// Hub is a typed facade over the SSE hub: the worker publishes Progress
// values, subscribers receive them without caring about event plumbing.
type Hub struct {
	inner *sse.Hub
}

func NewHub() *Hub {
	return &Hub{inner: sse.NewHub()}
}

func (h *Hub) Publish(runID string, p cloture.Progress) {
	h.inner.Publish(runID, sse.Event{RunID: runID, Event: "progress", Data: p})
}

// Subscribe adapts the raw event channel to a Progress channel. The
// returned channel closes once cleanup runs.
func (h *Hub) Subscribe(runID string) (<-chan cloture.Progress, func()) {
	events, cleanup := h.inner.Subscribe(runID)
	out := make(chan cloture.Progress, 16)

	go func() {
		defer close(out)
		for ev := range events {
			p, ok := ev.Data.(cloture.Progress)
			if !ok {
				continue
			}
			select {
			case out <- p:
			default:
				// drop for slow consumers, same policy as the hub
			}
		}
	}()

	return out, cleanup
}
