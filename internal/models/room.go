package models

import "strings"

// RoomType represents the category of a room
type RoomType string

const (
	RoomTypeIndividual RoomType = "individual"
	RoomTypeDouble     RoomType = "double"
	RoomTypeSuite      RoomType = "suite"
)

// RoomTypes lists every room type in display order
var RoomTypes = []RoomType{RoomTypeIndividual, RoomTypeDouble, RoomTypeSuite}

// IsValid reports whether t is a known room type
func (t RoomType) IsValid() bool {
	switch t {
	case RoomTypeIndividual, RoomTypeDouble, RoomTypeSuite:
		return true
	}
	return false
}

// ParseRoomType normalizes case and surrounding whitespace
func ParseRoomType(s string) (RoomType, bool) {
	t := RoomType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// RoomStatus represents the occupancy state of a room
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "Available"
	RoomStatusOccupied    RoomStatus = "Occupied"
	RoomStatusMaintenance RoomStatus = "Maintenance"
)

// RoomStatuses lists every room status in manual cycle order
var RoomStatuses = []RoomStatus{RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance}

// IsValid reports whether s is a known room status
func (s RoomStatus) IsValid() bool {
	for _, st := range RoomStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Next returns the following status in the manual cycle
// Available -> Occupied -> Maintenance -> Available.
// Unknown statuses advance to Available.
func (s RoomStatus) Next() RoomStatus {
	for i, st := range RoomStatuses {
		if s == st {
			return RoomStatuses[(i+1)%len(RoomStatuses)]
		}
	}
	return RoomStatusAvailable
}

// ParseRoomStatus matches a status case-insensitively
func ParseRoomStatus(s string) (RoomStatus, bool) {
	trimmed := strings.TrimSpace(s)
	for _, st := range RoomStatuses {
		if strings.EqualFold(trimmed, string(st)) {
			return st, true
		}
	}
	return RoomStatus(trimmed), false
}

// Room represents a bookable hotel room
type Room struct {
	ID     int64      `json:"id"`
	Number string     `json:"number"`
	Type   RoomType   `json:"type"`
	Price  float64    `json:"price"`
	Status RoomStatus `json:"status"`
}

// IsAvailable reports whether the room can take a new reservation
func (r Room) IsAvailable() bool {
	return r.Status == RoomStatusAvailable
}

// CreateRoomRequest represents the request to add a room
type CreateRoomRequest struct {
	Number string     `json:"number"`
	Type   RoomType   `json:"type"`
	Price  float64    `json:"price"`
	Status RoomStatus `json:"status,omitempty"` // defaults to Available
}

// UpdateRoomRequest represents a partial room edit
type UpdateRoomRequest struct {
	Number *string     `json:"number,omitempty"`
	Type   *RoomType   `json:"type,omitempty"`
	Price  *float64    `json:"price,omitempty"`
	Status *RoomStatus `json:"status,omitempty"`
}

// RoomFilter narrows a room listing; zero values match everything
type RoomFilter struct {
	Type     RoomType
	Status   RoomStatus
	MaxPrice float64
}

// Matches reports whether room passes every set criterion
func (f RoomFilter) Matches(room Room) bool {
	if f.Type != "" && room.Type != f.Type {
		return false
	}
	if f.Status != "" && !strings.EqualFold(string(room.Status), string(f.Status)) {
		return false
	}
	if f.MaxPrice > 0 && room.Price > f.MaxPrice {
		return false
	}
	return true
}

// EmergencyRooms replaces a room collection that cannot be decoded
func EmergencyRooms(id int64) []Room {
	return []Room{
		{ID: id, Number: "999", Type: RoomTypeIndividual, Price: 100, Status: RoomStatusAvailable},
	}
}

// DefaultRooms is the inventory written to an empty room collection
func DefaultRooms() []Room {
	return []Room{
		{ID: 1, Number: "101", Type: RoomTypeIndividual, Price: 50, Status: RoomStatusAvailable},
		{ID: 2, Number: "102", Type: RoomTypeIndividual, Price: 50, Status: RoomStatusAvailable},
		{ID: 3, Number: "201", Type: RoomTypeDouble, Price: 80, Status: RoomStatusAvailable},
		{ID: 4, Number: "202", Type: RoomTypeDouble, Price: 80, Status: RoomStatusAvailable},
		{ID: 5, Number: "301", Type: RoomTypeSuite, Price: 150, Status: RoomStatusAvailable},
		{ID: 6, Number: "302", Type: RoomTypeSuite, Price: 150, Status: RoomStatusAvailable},
	}
}
