package models

// RequestStatus represents the state of a web reservation request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "Pending"
	RequestStatusConfirmed RequestStatus = "Confirmed"
	RequestStatusCancelled RequestStatus = "Cancelled"
)

// PendingRequest is a reservation request submitted through the public form.
// Records are status-flipped, never deleted.
type PendingRequest struct {
	ID                int64         `json:"id"`
	ClientName        string        `json:"clientName"`
	Email             string        `json:"email"`
	NationalID        string        `json:"nationalId,omitempty"`
	RoomTypeRequested string        `json:"roomTypeRequested"`
	CheckIn           string        `json:"checkIn"`
	CheckOut          string        `json:"checkOut"`
	Adults            int           `json:"adults"`
	Children          int           `json:"children"`
	Status            RequestStatus `json:"status,omitempty"`
}

// EffectiveStatus treats a missing status as Pending
func (p PendingRequest) EffectiveStatus() RequestStatus {
	if p.Status == "" {
		return RequestStatusPending
	}
	return p.Status
}

// IsOpen reports whether the request still awaits a decision
func (p PendingRequest) IsOpen() bool {
	s := p.EffectiveStatus()
	return s != RequestStatusConfirmed && s != RequestStatusCancelled
}

// SubmitRequestRequest represents the public reservation request form
type SubmitRequestRequest struct {
	ClientName string `json:"clientName"`
	Email      string `json:"email"`
	NationalID string `json:"nationalId,omitempty"`
	RoomType   string `json:"roomType"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	Adults     int    `json:"adults"`
	Children   int    `json:"children"`
}
