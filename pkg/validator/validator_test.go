package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNationalID(t *testing.T) {
	valid := []struct {
		input    string
		expected string
		name     string
	}{
		{"0102030405", "0102030405", "Standard format"},
		{"  1122334455 ", "1122334455", "Surrounding spaces"},
	}
	for _, tc := range valid {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NationalID(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	invalid := []struct {
		input string
		name  string
	}{
		{"", "Empty"},
		{"123456789", "Nine digits"},
		{"12345678901", "Eleven digits"},
		{"12345-6789", "With dash"},
		{"abcdefghij", "Letters"},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NationalID(tc.input)
			assert.ErrorIs(t, err, ErrInvalidNationalID)
		})
	}
}

func TestEmail(t *testing.T) {
	for _, input := range []string{"carlos.mera@mail.com", "a@b.co", " x_y@host.org "} {
		t.Run(input, func(t *testing.T) {
			_, err := Email(input)
			assert.NoError(t, err)
		})
	}

	for _, input := range []string{"", "no-at-sign", "user@host", "@host.com"} {
		t.Run(input, func(t *testing.T) {
			_, err := Email(input)
			assert.ErrorIs(t, err, ErrInvalidEmail)
		})
	}
}

func TestPhone(t *testing.T) {
	got, err := Phone("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Phone(" 099887766 ")
	require.NoError(t, err)
	assert.Equal(t, "099887766", got)

	_, err = Phone("099-887")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestRoomNumber(t *testing.T) {
	got, err := RoomNumber(" 101 ")
	require.NoError(t, err)
	assert.Equal(t, "101", got)

	for _, input := range []string{"", "10A", "1 01", "-5"} {
		_, err := RoomNumber(input)
		assert.ErrorIs(t, err, ErrInvalidRoomNumber, input)
	}
}

func TestStay(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		wantErr  error
	}{
		{"One night", "2025-03-01", "2025-03-02", nil},
		{"Same day", "2025-03-01", "2025-03-01", ErrStayOrder},
		{"Reversed", "2025-03-05", "2025-03-01", ErrStayOrder},
		{"Missing check-in", "", "2025-03-01", ErrEmptyDate},
		{"Bad format", "01/03/2025", "2025-03-02", ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Stay(tt.checkIn, tt.checkOut)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
