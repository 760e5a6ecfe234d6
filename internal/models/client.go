package models

// Client represents a registered hotel guest
type Client struct {
	ID         int64  `json:"id"`
	NationalID string `json:"nationalId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	BirthDate  string `json:"birthDate"`
}

// CreateClientRequest represents the request to register a client
type CreateClientRequest struct {
	NationalID string `json:"nationalId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	BirthDate  string `json:"birthDate"` // Format: YYYY-MM-DD
}

// UpdateClientRequest represents a partial client edit.
// The national id is immutable once registered.
type UpdateClientRequest struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
}

// IsEmpty reports whether the request carries no changes
func (r UpdateClientRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil && r.Address == nil && r.BirthDate == nil
}

// EmergencyClients are stored when the seed document cannot be fetched
func EmergencyClients() []Client {
	return []Client{
		{
			ID:         1,
			NationalID: "0102030405",
			Name:       "Carlos Mera (EMERGENCY)",
			Email:      "carlos.mera@mail.com",
			Phone:      "099887766",
			Address:    "Av. Libertad 302",
			BirthDate:  "1998-06-11",
		},
		{
			ID:         2,
			NationalID: "1122334455",
			Name:       "Andrea Torres (EMERGENCY)",
			Email:      "andrea.torres@mail.com",
			Phone:      "099112233",
			Address:    "Cdla. Kennedy Norte",
			BirthDate:  "1995-02-08",
		},
	}
}
