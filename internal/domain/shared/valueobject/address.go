package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a billing or shipping address.
// It is persisted as a JSON column on the owning aggregate.
type Address struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Company      string `json:"company,omitempty"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	Phone        string `json:"phone,omitempty"`
}

// Validate checks the required address fields
func (a Address) Validate() error {
	if strings.TrimSpace(a.FirstName) == "" {
		return fmt.Errorf("address first name is required")
	}
	if strings.TrimSpace(a.AddressLine1) == "" {
		return fmt.Errorf("address line 1 is required")
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("address city is required")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		return fmt.Errorf("address postal code is required")
	}
	if strings.TrimSpace(a.Country) == "" {
		return fmt.Errorf("address country is required")
	}
	return nil
}

// IsEmpty returns true if the address carries no data
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// FullName returns the recipient name
func (a Address) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// OneLine returns the address as a single formatted line
func (a Address) OneLine() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.AddressLine1, a.AddressLine2, a.City, a.State, a.PostalCode, a.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Value implements driver.Valuer, storing the address as JSON
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner, reading the address from a JSON column
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
	if len(data) == 0 {
		*a = Address{}
		return nil
	}
	return json.Unmarshal(data, a)
}
