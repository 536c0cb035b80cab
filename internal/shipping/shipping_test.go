package shipping

import "testing"

func TestFlatPolicyCharge(t *testing.T) {
	policy := NewFlatPolicy(1500, 20000)

	tests := []struct {
		name     string
		subtotal int64
		want     int64
	}{
		{name: "below threshold pays flat rate", subtotal: 5000, want: 1500},
		{name: "at threshold ships free", subtotal: 20000, want: 0},
		{name: "above threshold ships free", subtotal: 35000, want: 0},
		{name: "empty cart pays nothing", subtotal: 0, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.Charge(tc.subtotal); got != tc.want {
				t.Fatalf("Charge(%d) = %d, want %d", tc.subtotal, got, tc.want)
			}
		})
	}
}

func TestFlatPolicyThresholdDisabled(t *testing.T) {
	policy := NewFlatPolicy(1500, 0)
	if got := policy.Charge(1000000); got != 1500 {
		t.Fatalf("expected flat rate with disabled threshold, got %d", got)
	}
}
