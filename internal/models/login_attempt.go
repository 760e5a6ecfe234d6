package models

import "time"

// Login attempt identifier types
const (
	AttemptByUsername = "username"
	AttemptByIP       = "ip"
)

// LoginAttempt records one failed login for throttling
type LoginAttempt struct {
	Identifier     string    `json:"identifier"`
	IdentifierType string    `json:"identifierType"` // "username" or "ip"
	At             time.Time `json:"at"`
}
