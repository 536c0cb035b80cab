package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	"github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/types"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func standardFormula() models.PricingFormula {
	return models.PricingFormula{
		Type:        enums.PricingTypeFormula,
		Base:        dec("50"),
		WidthRate:   dec("0.5"),
		HeightRate:  dec("0.3"),
		AreaRate:    dec("0.01"),
		MinCharge:   dec("80"),
		MaxWidthIn:  120,
		MaxHeightIn: 144,
		Active:      true,
	}
}

func computeAt(t *testing.T, formula models.PricingFormula, w, h float64) *PriceBreakdown {
	t.Helper()
	breakdown, err := Compute(formula, nil, ComputeInput{
		Dimensions: types.Dimensions{WidthIn: w, HeightIn: h},
	})
	if err != nil {
		t.Fatalf("Compute(%g, %g): %v", w, h, err)
	}
	return breakdown
}

func TestComputeFormulaStandardWindow(t *testing.T) {
	breakdown := computeAt(t, standardFormula(), 48, 72)

	if !breakdown.SizePrice.Equal(dec("80.16")) {
		t.Fatalf("size price = %s, want 80.16", breakdown.SizePrice)
	}
	if !breakdown.Subtotal.Equal(dec("130.16")) {
		t.Fatalf("subtotal = %s, want 130.16", breakdown.Subtotal)
	}
	if breakdown.MinChargeApplied {
		t.Fatal("min charge should not apply")
	}
	if !breakdown.FinalPrice.Equal(dec("130.16")) {
		t.Fatalf("final price = %s, want 130.16", breakdown.FinalPrice)
	}
	if breakdown.FinalPriceCents != 13016 {
		t.Fatalf("final cents = %d, want 13016", breakdown.FinalPriceCents)
	}
}

func TestComputeFormulaMinChargeFloor(t *testing.T) {
	breakdown := computeAt(t, standardFormula(), 10, 10)

	if !breakdown.SizePrice.Equal(dec("9")) {
		t.Fatalf("size price = %s, want 9", breakdown.SizePrice)
	}
	if !breakdown.Subtotal.Equal(dec("59")) {
		t.Fatalf("subtotal = %s, want 59", breakdown.Subtotal)
	}
	if !breakdown.MinChargeApplied {
		t.Fatal("min charge should apply")
	}
	if !breakdown.FinalPrice.Equal(dec("80")) {
		t.Fatalf("final price = %s, want 80", breakdown.FinalPrice)
	}
}

func TestComputePerArea(t *testing.T) {
	formula := models.PricingFormula{
		Type:          enums.PricingTypePerArea,
		RatePerSquare: dec("12"),
		MinSquares:    dec("10"),
		Active:        true,
	}

	// 48x72 = 3456 sq in = 24 squares.
	breakdown := computeAt(t, formula, 48, 72)
	if !breakdown.SizePrice.Equal(dec("288")) {
		t.Fatalf("size price = %s, want 288", breakdown.SizePrice)
	}

	// 12x12 = 1 square, clamped to the 10-square minimum.
	breakdown = computeAt(t, formula, 12, 12)
	if !breakdown.SizePrice.Equal(dec("120")) {
		t.Fatalf("clamped size price = %s, want 120", breakdown.SizePrice)
	}
}

func TestComputeFixed(t *testing.T) {
	formula := models.PricingFormula{
		Type:       enums.PricingTypeFixed,
		FixedPrice: dec("199.99"),
		Active:     true,
	}
	breakdown := computeAt(t, formula, 30, 40)
	if !breakdown.FinalPrice.Equal(dec("199.99")) {
		t.Fatalf("final price = %s, want 199.99", breakdown.FinalPrice)
	}
}

func TestComputeModifiersAndAddons(t *testing.T) {
	color := "blackout-grey"
	control := "motorized"
	modifiers := []models.PriceModifier{
		{Kind: models.ModifierKindColor, OptionName: "blackout-grey", PriceDelta: dec("15"), Active: true},
		{Kind: models.ModifierKindControl, OptionName: "motorized", PriceDelta: dec("120"), Active: true},
		{Kind: models.ModifierKindControl, OptionName: "cordless", PriceDelta: dec("35"), Active: true},
		{Kind: models.ModifierKindAddon, OptionName: "valance", PriceDelta: dec("25"), Active: true},
		{Kind: models.ModifierKindAddon, OptionName: "smart-hub", PriceDelta: dec("60"), Active: false},
	}

	breakdown, err := Compute(standardFormula(), modifiers, ComputeInput{
		Dimensions: types.Dimensions{WidthIn: 48, HeightIn: 72},
		Configuration: types.Configuration{
			Color:       &color,
			ControlType: &control,
			Addons: []types.AddonSelection{
				{Name: "Valance"},
				{Name: "smart-hub"},
				{Name: "unknown-addon"},
			},
		},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if len(breakdown.Modifiers) != 2 {
		t.Fatalf("expected 2 applied modifiers, got %d", len(breakdown.Modifiers))
	}
	// Inactive and unknown addons contribute nothing.
	if !breakdown.AddonTotal.Equal(dec("25")) {
		t.Fatalf("addon total = %s, want 25", breakdown.AddonTotal)
	}
	// 130.16 + 15 + 120 + 25
	if !breakdown.Subtotal.Equal(dec("290.16")) {
		t.Fatalf("subtotal = %s, want 290.16", breakdown.Subtotal)
	}
}

func TestComputeDimensionBounds(t *testing.T) {
	formula := standardFormula()

	tests := []struct {
		name string
		w, h float64
		min  float64
	}{
		{name: "zero width", w: 0, h: 50},
		{name: "negative height", w: 50, h: -1},
		{name: "width over max", w: 121, h: 50},
		{name: "height over max", w: 50, h: 145},
		{name: "below product minimum", w: 10, h: 10, min: 12},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(formula, nil, ComputeInput{
				Dimensions:  types.Dimensions{WidthIn: tc.w, HeightIn: tc.h},
				MinWidthIn:  tc.min,
				MinHeightIn: tc.min,
			})
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.As(err).Code() != errors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestComputeIsPure(t *testing.T) {
	formula := standardFormula()
	first := computeAt(t, formula, 48, 72)
	second := computeAt(t, formula, 48, 72)
	if !first.FinalPrice.Equal(second.FinalPrice) || first.MinChargeApplied != second.MinChargeApplied {
		t.Fatal("identical inputs must produce identical output")
	}
}

func TestComputePriceNonDecreasingInArea(t *testing.T) {
	formulas := map[string]models.PricingFormula{
		"formula": standardFormula(),
		"per_area": {
			Type:          enums.PricingTypePerArea,
			RatePerSquare: dec("8.5"),
			MinSquares:    dec("4"),
			Active:        true,
		},
	}

	for name, formula := range formulas {
		t.Run(name, func(t *testing.T) {
			prev := decimal.NewFromInt(-1)
			for _, dims := range [][2]float64{{12, 12}, {24, 24}, {24, 48}, {48, 48}, {48, 72}, {96, 96}, {120, 144}} {
				breakdown := computeAt(t, formula, dims[0], dims[1])
				if breakdown.FinalPrice.LessThan(prev) {
					t.Fatalf("price decreased at %gx%g: %s < %s", dims[0], dims[1], breakdown.FinalPrice, prev)
				}
				prev = breakdown.FinalPrice
			}
		})
	}
}
