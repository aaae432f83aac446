package types

import (
	"fmt"
	"strings"
)

// ShippingAddress is the destination captured at checkout. Stored as jsonb
// via gorm's json serializer on the order row.
type ShippingAddress struct {
	Name       string  `json:"name"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	Phone      *string `json:"phone,omitempty"`
}

// Validate checks the fields the print lab requires on a shipping label.
func (a ShippingAddress) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("shipping address: missing name")
	}
	if strings.TrimSpace(a.Line1) == "" {
		return fmt.Errorf("shipping address: missing line1")
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("shipping address: missing city")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		return fmt.Errorf("shipping address: missing postal_code")
	}
	if strings.TrimSpace(a.Country) == "" {
		return fmt.Errorf("shipping address: missing country")
	}
	return nil
}

// Normalized trims whitespace and upper-cases the country code.
func (a ShippingAddress) Normalized() ShippingAddress {
	out := a
	out.Name = strings.TrimSpace(a.Name)
	out.Line1 = strings.TrimSpace(a.Line1)
	out.City = strings.TrimSpace(a.City)
	out.State = strings.TrimSpace(a.State)
	out.PostalCode = strings.TrimSpace(a.PostalCode)
	out.Country = strings.ToUpper(strings.TrimSpace(a.Country))
	if a.Line2 != nil {
		line2 := strings.TrimSpace(*a.Line2)
		out.Line2 = &line2
	}
	if a.Phone != nil {
		phone := strings.TrimSpace(*a.Phone)
		out.Phone = &phone
	}
	return out
}
