package notification

import (
	"sync"

	"github.com/gin-contrib/sse"
)

// Named events on the notification stream. The client applies each with its
// own reconciliation rule, so names are part of the wire contract.
const (
	EventHeartbeat          = "message"
	EventNotification       = "notification"
	EventNotificationUpdate = "notification-update"
	EventNotificationDelete = "notification-delete"
	EventUnreadCount        = "unread-count"
)

const subscriberBuffer = 64

// Subscriber is one open dashboard stream. A user may hold several (one per
// tab); each gets every event.
type Subscriber struct {
	userID int64
	ch     chan sse.Event
}

func (s *Subscriber) Events() <-chan sse.Event { return s.ch }

// Hub fans notification events out to every open stream of a user. Sends
// are non-blocking: a subscriber that cannot keep up loses events and
// resyncs on its next full fetch.
type Hub struct {
	mu   sync.RWMutex
	subs map[int64]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int64]map[*Subscriber]struct{})}
}

func (h *Hub) Subscribe(userID int64) *Subscriber {
	s := &Subscriber{
		userID: userID,
		ch:     make(chan sse.Event, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscriber]struct{})
	}
	h.subs[userID][s] = struct{}{}
	return s
}

func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[s.userID]; ok {
		if _, ok := set[s]; ok {
			delete(set, s)
			close(s.ch)
			if len(set) == 0 {
				delete(h.subs, s.userID)
			}
		}
	}
}

// Publish sends one named event to every open stream of a user.
func (h *Hub) Publish(userID int64, event string, data any) {
	ev := sse.Event{Event: event, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs[userID] {
		select {
		case s.ch <- ev:
		default:
			// Subscriber too slow — drop.
		}
	}
}

// IsOnline reports whether a user has at least one open stream.
func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID]) > 0
}
