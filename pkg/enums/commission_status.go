package enums

import "fmt"

// CommissionStatus tracks a vendor payout obligation through its lifecycle.
type CommissionStatus string

const (
	CommissionStatusPending   CommissionStatus = "pending"
	CommissionStatusPayable   CommissionStatus = "payable"
	CommissionStatusPaid      CommissionStatus = "paid"
	CommissionStatusCancelled CommissionStatus = "cancelled"
)

var validCommissionStatuses = []CommissionStatus{
	CommissionStatusPending,
	CommissionStatusPayable,
	CommissionStatusPaid,
	CommissionStatusCancelled,
}

var commissionTransitions = map[CommissionStatus][]CommissionStatus{
	CommissionStatusPending: {CommissionStatusPayable, CommissionStatusCancelled},
	CommissionStatusPayable: {CommissionStatusPaid, CommissionStatusCancelled},
}

// String implements fmt.Stringer.
func (c CommissionStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CommissionStatus.
func (c CommissionStatus) IsValid() bool {
	for _, candidate := range validCommissionStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the ledger permits moving to next.
func (c CommissionStatus) CanTransitionTo(next CommissionStatus) bool {
	for _, candidate := range commissionTransitions[c] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseCommissionStatus converts raw input into a CommissionStatus.
func ParseCommissionStatus(value string) (CommissionStatus, error) {
	for _, candidate := range validCommissionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid commission status %q", value)
}
