// Package activity keeps a bounded log of recent console events and fans
// new events out to live subscribers.
package activity

import (
	"sync"
	"time"

	"dbconsole/utils"

	"github.com/google/uuid"
)

// Event kinds
const (
	KindLogin    = "login"
	KindLogout   = "logout"
	KindTable    = "table"
	KindSystem   = "system"
	KindSettings = "settings"
)

// Event is one entry of the feed
type Event struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	Actor   string    `json:"actor,omitempty"`
	Time    time.Time `json:"time"`
}

// DefaultCapacity is the number of events kept when none is given
const DefaultCapacity = 50

const subscriberBuffer = 16

// Feed is a fixed-size ring of events plus a set of subscribers
type Feed struct {
	mu          sync.RWMutex
	events      []Event
	next        int
	full        bool
	subscribers map[string]chan Event
	now         func() time.Time
}

// NewFeed creates an empty feed holding at most capacity events
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{
		events:      make([]Event, capacity),
		subscribers: make(map[string]chan Event),
		now:         time.Now,
	}
}

// Seed publishes the events shown on a fresh dashboard
func (f *Feed) Seed() {
	now := f.now()
	seed := []Event{
		{Kind: KindSystem, Message: "System maintenance scheduled", Time: now.Add(-6 * time.Hour)},
		{Kind: KindSystem, Message: "New user registration", Time: now.Add(-3 * time.Hour)},
		{Kind: KindSystem, Message: "Database backup completed", Time: now.Add(-time.Hour)},
		{Kind: KindLogin, Message: "User login: john@example.com", Actor: "john@example.com", Time: now.Add(-2 * time.Minute)},
	}
	for _, e := range seed {
		f.Publish(e)
	}
}

// Publish stores e and delivers it to every subscriber. A subscriber whose
// buffer is full misses the event.
func (f *Feed) Publish(e Event) Event {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Time.IsZero() {
		e.Time = f.now()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.events[f.next] = e
	f.next = (f.next + 1) % len(f.events)
	if f.next == 0 {
		f.full = true
	}

	for id, ch := range f.subscribers {
		select {
		case ch <- e:
		default:
			utils.Log.Warn("Activity channel full for subscriber %s", id)
		}
	}
	return e
}

// Recent returns up to n events, newest first. n <= 0 returns all of them.
func (f *Feed) Recent(n int) []Event {
	f.mu.RLock()
	defer f.mu.RUnlock()

	size := f.next
	if f.full {
		size = len(f.events)
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]Event, 0, n)
	for i := 1; i <= n; i++ {
		idx := (f.next - i + len(f.events)) % len(f.events)
		out = append(out, f.events[idx])
	}
	return out
}

// Subscribe registers a listener. cancel removes it and closes the channel;
// calling it more than once is safe.
func (f *Feed) Subscribe() (id string, events <-chan Event, cancel func()) {
	id = uuid.New().String()
	ch := make(chan Event, subscriberBuffer)

	f.mu.Lock()
	f.subscribers[id] = ch
	f.mu.Unlock()

	var once sync.Once
	cancel = func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subscribers, id)
			close(ch)
			f.mu.Unlock()
		})
	}
	return id, ch, cancel
}

// Subscribers reports the number of live subscribers
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}
