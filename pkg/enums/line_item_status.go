package enums

import "fmt"

// LineItemStatus annotates order line items after creation. Monetary fields
// stay immutable once the order leaves pending; only this annotation moves.
type LineItemStatus string

const (
	LineItemStatusActive    LineItemStatus = "active"
	LineItemStatusCancelled LineItemStatus = "cancelled"
	LineItemStatusRefunded  LineItemStatus = "refunded"
)

var validLineItemStatuses = []LineItemStatus{
	LineItemStatusActive,
	LineItemStatusCancelled,
	LineItemStatusRefunded,
}

// String implements fmt.Stringer.
func (l LineItemStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LineItemStatus.
func (l LineItemStatus) IsValid() bool {
	for _, candidate := range validLineItemStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLineItemStatus converts raw input into a LineItemStatus.
func ParseLineItemStatus(value string) (LineItemStatus, error) {
	for _, candidate := range validLineItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line item status %q", value)
}
