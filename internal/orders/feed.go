package orders

import (
	"sync"
	"time"

	"storefront/pkg/mongodb/documents"
)

// EventType names what happened to an order.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event is one change notification. Order is nil for deletions.
type Event struct {
	Type    EventType
	OrderID string
	UserID  string
	Order   *documents.Order
	At      time.Time
}

// Filter restricts which events a subscriber receives. A zero filter
// matches everything.
type Filter struct {
	UserID string
}

func (f Filter) matches(evt Event) bool {
	return f.UserID == "" || f.UserID == evt.UserID
}

type subscriber struct {
	filter Filter
	ch     chan Event
}

// Feed is an in-process fan-out of order change events. Every
// successful write publishes here and any number of watchers can
// subscribe. Delivery is best-effort: a subscriber that stops draining
// its channel loses events rather than blocking publishers.
type Feed struct {
	mu     sync.Mutex
	subs   map[uint64]*subscriber
	nextID uint64
	buffer int
}

func NewFeed() *Feed {
	return &Feed{
		subs:   make(map[uint64]*subscriber),
		buffer: 16,
	}
}

// Subscribe registers a watcher and returns its event channel along
// with a cancel handle. Cancel is idempotent and closes the channel.
func (f *Feed) Subscribe(filter Filter) (<-chan Event, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++

	sub := &subscriber{
		filter: filter,
		ch:     make(chan Event, f.buffer),
	}
	f.subs[id] = sub

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if current, ok := f.subs[id]; ok && current == sub {
				delete(f.subs, id)
				close(sub.ch)
			}
		})
	}
	return sub.ch, cancel
}

// Publish fans the event out to every matching subscriber.
func (f *Feed) Publish(evt Event) {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		if !sub.filter.matches(evt) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
		}
	}
}

// SubscriberCount reports how many watchers are currently registered.
func (f *Feed) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
