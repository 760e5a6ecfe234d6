package models

import "time"

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "Pending"
	ReservationStatusConfirmed ReservationStatus = "Confirmed"
	ReservationStatusCompleted ReservationStatus = "Completed"
	ReservationStatusCancelled ReservationStatus = "Cancelled"
	ReservationStatusDenied    ReservationStatus = "Denied"
)

// ReservationStatuses lists every reservation status
var ReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusCompleted,
	ReservationStatusCancelled,
	ReservationStatusDenied,
}

// IsActive reports whether a reservation with this status holds its room
func (s ReservationStatus) IsActive() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

// ReservationOrigin records how a reservation entered the system
type ReservationOrigin string

const (
	OriginWebRequest ReservationOrigin = "WebRequest"
	OriginAdminForm  ReservationOrigin = "AdminForm"
)

// Reservation represents a booking of one room for a date range.
// RoomNumber is a weak reference to Room.Number and may dangle.
type Reservation struct {
	ID            int64             `json:"id"`
	ClientName    string            `json:"clientName"`
	Email         string            `json:"email"`
	NationalID    string            `json:"nationalId"`
	Phone         string            `json:"phone"`
	CheckIn       string            `json:"checkIn"`  // Format: YYYY-MM-DD
	CheckOut      string            `json:"checkOut"` // Format: YYYY-MM-DD
	RoomType      RoomType          `json:"roomType"`
	RoomNumber    *string           `json:"roomNumber"`
	PricePerNight float64           `json:"pricePerNight"`
	Adults        int               `json:"adults"`
	Children      int               `json:"children"`
	Status        ReservationStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	Origin        ReservationOrigin `json:"origin,omitempty"`
}

// HasRoom reports whether a room number is assigned
func (r Reservation) HasRoom() bool {
	return r.RoomNumber != nil && *r.RoomNumber != ""
}

// EffectiveOrigin treats records without an origin as admin-created
func (r Reservation) EffectiveOrigin() ReservationOrigin {
	if r.Origin == "" {
		return OriginAdminForm
	}
	return r.Origin
}

// CreateReservationRequest represents the admin reservation form
type CreateReservationRequest struct {
	ClientName string `json:"clientName"`
	Email      string `json:"email"`
	NationalID string `json:"nationalId"`
	Phone      string `json:"phone"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	RoomType   string `json:"roomType"`
	RoomNumber string `json:"roomNumber"`
	Adults     int    `json:"adults"`
	Children   int    `json:"children"`
}

// EditReservationRequest represents a partial reservation edit
type EditReservationRequest struct {
	ClientName *string `json:"clientName,omitempty"`
	CheckIn    *string `json:"checkIn,omitempty"`
	CheckOut   *string `json:"checkOut,omitempty"`
	RoomType   *string `json:"roomType,omitempty"`
	Adults     *int    `json:"adults,omitempty"`
	Children   *int    `json:"children,omitempty"`
}

// ConfirmReservationRequest carries the operator's answer when the
// reservation's room was freed and must be occupied again
type ConfirmReservationRequest struct {
	OccupyAvailableRoom bool `json:"occupyAvailableRoom"`
}

// OccupancyIssue describes a room whose status disagrees with its
// active reservations
type OccupancyIssue struct {
	RoomID             int64      `json:"roomId"`
	RoomNumber         string     `json:"roomNumber"`
	RoomStatus         RoomStatus `json:"roomStatus"`
	ActiveReservations []int64    `json:"activeReservations"`
}
