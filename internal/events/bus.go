package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventClientsChanged      = "ClientsChanged"
	EventRoomsChanged        = "RoomsChanged"
	EventReservationsChanged = "ReservationsChanged"
	EventRequestsChanged     = "RequestsChanged"
	EventExternalChange      = "ExternalChange"
)

// Envelope describes one change to the hotel collections
type Envelope struct {
	EventID    string    `json:"eventId"`
	EventType  string    `json:"eventType"`
	Keys       []string  `json:"keys"` // storage keys touched
	OccurredAt time.Time `json:"occurredAt"`
	Producer   string    `json:"producer"`
}

// NewEnvelope stamps a new event
func NewEnvelope(eventType, producer string, keys ...string) Envelope {
	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		Keys:       keys,
		OccurredAt: time.Now().UTC(),
		Producer:   producer,
	}
}

// Publisher is implemented by anything that accepts change events
type Publisher interface {
	Publish(ev Envelope)
}

// Bus fans events out to in-process subscribers. Delivery never blocks
// the publisher; a subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Envelope
	buffer int
}

// NewBus creates a bus whose subscriptions buffer up to buffer events
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 1
	}
	return &Bus{subs: make(map[int]chan Envelope), buffer: buffer}
}

// Subscribe registers a subscriber. Call the returned cancel func to
// unsubscribe; it closes the channel.
func (b *Bus) Subscribe() (<-chan Envelope, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Envelope, b.buffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber
func (b *Bus) Publish(ev Envelope) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
