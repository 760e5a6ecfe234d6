package services

import (
	"time"

	"github.com/hotelops/hotel-admin-backend/internal/events"
	"github.com/hotelops/hotel-admin-backend/internal/storage"
)

const eventProducer = "hotel-admin"

// newRecordID issues a millisecond timestamp id, bumped until it is
// not already taken in the collection
func newRecordID(now time.Time, taken func(int64) bool) int64 {
	id := now.UnixMilli()
	for taken(id) {
		id++
	}
	return id
}

// eventTypeForKeys picks the event type that best describes a commit
func eventTypeForKeys(keys []string) string {
	for _, key := range keys {
		switch key {
		case storage.KeyReservations:
			return events.EventReservationsChanged
		case storage.KeyRequests:
			return events.EventRequestsChanged
		}
	}
	for _, key := range keys {
		switch key {
		case storage.KeyRooms:
			return events.EventRoomsChanged
		case storage.KeyClients:
			return events.EventClientsChanged
		}
	}
	return events.EventExternalChange
}

// publishCommit announces a successful commit; empty commits are skipped
func publishCommit(publisher events.Publisher, keys []string) {
	if publisher == nil || len(keys) == 0 {
		return
	}
	publisher.Publish(events.NewEnvelope(eventTypeForKeys(keys), eventProducer, keys...))
}
