// Package relay is the best-effort broadcast channel for alert lifecycle
// events. Delivery is fire-and-forget: a subscriber with a full buffer
// misses events, and publishers never block or fail.
package relay

import (
	"sync"
	"time"
)

const (
	EventNewAlert       = "new_alert"
	EventAlertResolved  = "alert_resolved"
	EventAlertDismissed = "alert_dismissed"
	EventCheckCompleted = "expiry_check_completed"
)

type Event struct {
	Name      string `json:"event"`
	AlertID   string `json:"alertId,omitempty"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
}

// subscriber buffer; events beyond this are dropped for that subscriber.
const subBuffer = 16

type Hub struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned cancel func must be called to
// release the subscription; after cancel the channel is closed.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan Event, subBuffer)
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

// Publish fans the event out to every subscriber without blocking. The
// timestamp is stamped here if the caller left it empty.
func (h *Hub) Publish(e Event) {
	if e.Timestamp == "" {
		e.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
			// slow subscriber; drop
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
