package types

import (
	"fmt"
	"strings"
)

// Address is the caller-supplied shipping/billing address. Orders never hold a
// live reference to it; the transaction manager copies it into an immutable
// snapshot row at creation time.
type Address struct {
	Name       string  `json:"name"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	Phone      *string `json:"phone,omitempty"`
}

// Validate checks the fields an order snapshot requires.
func (a Address) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("address: missing name")
	}
	if strings.TrimSpace(a.Line1) == "" {
		return fmt.Errorf("address: missing line1")
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("address: missing city")
	}
	if strings.TrimSpace(a.State) == "" {
		return fmt.Errorf("address: missing state")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		return fmt.Errorf("address: missing postal_code")
	}
	return nil
}

// IsZero reports whether no field was supplied.
func (a Address) IsZero() bool {
	return a == (Address{})
}

// Normalized returns a copy with trimmed fields and a defaulted country.
func (a Address) Normalized() Address {
	out := a
	out.Name = strings.TrimSpace(a.Name)
	out.Line1 = strings.TrimSpace(a.Line1)
	out.City = strings.TrimSpace(a.City)
	out.State = strings.ToUpper(strings.TrimSpace(a.State))
	out.PostalCode = strings.TrimSpace(a.PostalCode)
	out.Country = strings.ToUpper(strings.TrimSpace(a.Country))
	if out.Country == "" {
		out.Country = "US"
	}
	return out
}

// Equal reports whether two addresses match after normalization. Used to
// reuse one snapshot when billing equals shipping.
func (a Address) Equal(other Address) bool {
	left, right := a.Normalized(), other.Normalized()
	if !ptrEqual(left.Line2, right.Line2) || !ptrEqual(left.Phone, right.Phone) {
		return false
	}
	return left.Name == right.Name &&
		left.Line1 == right.Line1 &&
		left.City == right.City &&
		left.State == right.State &&
		left.PostalCode == right.PostalCode &&
		left.Country == right.Country
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return strings.TrimSpace(*a) == strings.TrimSpace(*b)
}
