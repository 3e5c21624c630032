package feed

import (
	"sync"

	"travelstory/internal/models"
)

const (
	ActionCreated = "CREATED"
	ActionUpdated = "UPDATED"
	ActionDeleted = "DELETED"
)

// Event describes a story mutation pushed to live subscribers.
type Event struct {
	Action string       `json:"action"`
	Story  models.Story `json:"story"`
}

// subscriber channels are buffered; publishing never blocks a request.
const subscriberBuffer = 16

// Feed is an in-process broker for story change events, keyed by owner.
// A subscriber only ever sees events for its own stories.
type Feed struct {
	mu   sync.RWMutex
	subs map[int]map[chan Event]struct{}
}

func New() *Feed {
	return &Feed{subs: make(map[int]map[chan Event]struct{})}
}

// Subscribe registers a new listener for the owner's events.
func (f *Feed) Subscribe(ownerID int) chan Event {
	ch := make(chan Event, subscriberBuffer)
	f.mu.Lock()
	if f.subs[ownerID] == nil {
		f.subs[ownerID] = make(map[chan Event]struct{})
	}
	f.subs[ownerID][ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

// Unsubscribe removes the listener and closes its channel.
func (f *Feed) Unsubscribe(ownerID int, ch chan Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if set, ok := f.subs[ownerID]; ok {
		if _, ok := set[ch]; ok {
			delete(set, ch)
			close(ch)
			if len(set) == 0 {
				delete(f.subs, ownerID)
			}
		}
	}
}

// Publish delivers the event to all of the owner's subscribers. A subscriber
// whose buffer is full misses the event rather than blocking the publisher.
func (f *Feed) Publish(ownerID int, e Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch := range f.subs[ownerID] {
		select {
		case ch <- e:
		default:
		}
	}
}
