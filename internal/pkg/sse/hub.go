package sse

import (
	"sync"
)

// Event types published on a company feed.
const (
	EventLocation  = "location"
	EventDoor      = "door"
	EventConnected = "connected"
	EventPing      = "ping"
)

// Event is a live update for one company's admin consoles.
type Event struct {
	CompanyID int64
	Event     string
	Data      interface{}
}

// Hub fans out events to the subscribers of each company. A nil Hub drops everything.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int64]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int64]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber for a company and returns the event channel and cleanup function
func (h *Hub) Subscribe(companyID int64) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 16)

	if h.subscribers[companyID] == nil {
		h.subscribers[companyID] = make(map[chan Event]struct{})
	}
	h.subscribers[companyID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[companyID], ch)
			close(ch)
			if len(h.subscribers[companyID]) == 0 {
				delete(h.subscribers, companyID)
			}
		})
	}

	return ch, cleanup
}

// Publish sends an event to every subscriber of event.CompanyID
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[event.CompanyID] {
		select {
		case ch <- event:
		default:
			// Slow consumer, drop
		}
	}
}

// SubscriberCount returns the number of active subscribers for a company
func (h *Hub) SubscriberCount(companyID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[companyID])
}

// TotalSubscribers returns the total number of active subscribers across all companies
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
