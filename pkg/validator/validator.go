package validator

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the stored format of stay and birth dates
const DateLayout = "2006-01-02"

var (
	// ErrInvalidNationalID indicates the national id is not exactly 10 digits
	ErrInvalidNationalID = errors.New("national id must be exactly 10 digits")

	// ErrInvalidEmail indicates the email does not look like user@domain.tld
	ErrInvalidEmail = errors.New("email address is not valid")

	// ErrInvalidPhone indicates a phone that is not numeric
	ErrInvalidPhone = errors.New("phone number must be numeric")

	// ErrInvalidRoomNumber indicates a room number with non-digit characters
	ErrInvalidRoomNumber = errors.New("room number must contain only digits")

	// ErrInvalidDate indicates a date outside the YYYY-MM-DD format
	ErrInvalidDate = errors.New("date must use the YYYY-MM-DD format")

	// ErrEmptyDate indicates a required date is missing
	ErrEmptyDate = errors.New("date is required")

	// ErrStayOrder indicates a check-out on or before check-in
	ErrStayOrder = errors.New("check-out date must be after check-in date")
)

var (
	nationalIDRegex = regexp.MustCompile(`^\d{10}$`)

	// emailRegex is deliberately loose and unanchored
	emailRegex = regexp.MustCompile(`\w+@\w+\.\w+`)

	digitsRegex = regexp.MustCompile(`^\d+$`)
)

// NationalID trims and validates a 10-digit national id
func NationalID(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if !nationalIDRegex.MatchString(trimmed) {
		return "", ErrInvalidNationalID
	}
	return trimmed, nil
}

// Email trims and validates an email address
func Email(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if !emailRegex.MatchString(trimmed) {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}

// Phone trims an optional phone number; when present it must parse as a number
func Phone(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
		return "", ErrInvalidPhone
	}
	return trimmed, nil
}

// RoomNumber trims and validates an all-digit room number
func RoomNumber(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if !digitsRegex.MatchString(trimmed) {
		return "", ErrInvalidRoomNumber
	}
	return trimmed, nil
}

// Date parses a required YYYY-MM-DD date
func Date(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, ErrEmptyDate
	}
	t, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// Stay validates that checkOut falls strictly after checkIn
func Stay(checkIn, checkOut string) error {
	in, err := Date(checkIn)
	if err != nil {
		return err
	}
	out, err := Date(checkOut)
	if err != nil {
		return err
	}
	if !out.After(in) {
		return ErrStayOrder
	}
	return nil
}
