package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/types"
)

var (
	sqInchesPerSqFt = decimal.NewFromInt(144)
	centsPerDollar  = decimal.NewFromInt(100)
)

// ComputeInput carries everything the pure computation needs besides the
// formula and modifier rows themselves.
type ComputeInput struct {
	Dimensions    types.Dimensions
	Configuration types.Configuration
	MinWidthIn    float64
	MinHeightIn   float64
}

// ModifierLine is one option adjustment applied on top of the size price.
type ModifierLine struct {
	Kind       models.ModifierKind `json:"kind"`
	OptionName string              `json:"option_name"`
	Delta      decimal.Decimal     `json:"delta"`
}

// PriceBreakdown is the fully itemized result of a unit-price computation.
// All amounts are dollars at 2dp; FinalPriceCents is the integral capture
// value cart lines persist.
type PriceBreakdown struct {
	Base             decimal.Decimal `json:"base"`
	SizePrice        decimal.Decimal `json:"size_price"`
	Modifiers        []ModifierLine  `json:"modifiers"`
	AddonTotal       decimal.Decimal `json:"addon_total"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	MinCharge        decimal.Decimal `json:"min_charge"`
	MinChargeApplied bool            `json:"min_charge_applied"`
	FinalPrice       decimal.Decimal `json:"final_price"`
	FinalPriceCents  int64           `json:"final_price_cents"`
}

// Compute turns dimensions and option selections into a unit price. It is a
// pure function of its arguments: identical formula, modifiers, and input
// always produce an identical breakdown.
func Compute(formula models.PricingFormula, modifiers []models.PriceModifier, input ComputeInput) (*PriceBreakdown, error) {
	width := input.Dimensions.WidthIn
	height := input.Dimensions.HeightIn

	if width <= 0 || height <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "width and height must be positive")
	}
	if width < input.MinWidthIn || height < input.MinHeightIn {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("dimensions below product minimum %gx%g", input.MinWidthIn, input.MinHeightIn))
	}
	if formula.MaxWidthIn > 0 && width > formula.MaxWidthIn {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("width %g exceeds maximum %g", width, formula.MaxWidthIn))
	}
	if formula.MaxHeightIn > 0 && height > formula.MaxHeightIn {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("height %g exceeds maximum %g", height, formula.MaxHeightIn))
	}

	w := decimal.NewFromFloat(width)
	h := decimal.NewFromFloat(height)

	var base, sizePrice decimal.Decimal
	switch formula.Type {
	case enums.PricingTypeFormula:
		base = formula.Base
		sizePrice = formula.WidthRate.Mul(w).
			Add(formula.HeightRate.Mul(h)).
			Add(formula.AreaRate.Mul(w).Mul(h))
	case enums.PricingTypePerArea:
		base = formula.Base
		squares := w.Mul(h).Div(sqInchesPerSqFt)
		if squares.LessThan(formula.MinSquares) {
			squares = formula.MinSquares
		}
		sizePrice = formula.RatePerSquare.Mul(squares)
	case enums.PricingTypeFixed:
		sizePrice = formula.FixedPrice
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown pricing type %q", formula.Type))
	}

	breakdown := &PriceBreakdown{
		Base:      base,
		SizePrice: sizePrice.Round(2),
		MinCharge: formula.MinCharge,
	}

	subtotal := base.Add(sizePrice)
	subtotal = applyOptionModifiers(breakdown, modifiers, input.Configuration, subtotal)
	subtotal = applyAddons(breakdown, modifiers, input.Configuration, subtotal)
	breakdown.Subtotal = subtotal.Round(2)

	final := breakdown.Subtotal
	if final.LessThan(formula.MinCharge) {
		final = formula.MinCharge
		breakdown.MinChargeApplied = true
	}
	breakdown.FinalPrice = final.Round(2)
	breakdown.FinalPriceCents = breakdown.FinalPrice.Mul(centsPerDollar).Round(0).IntPart()

	return breakdown, nil
}

func applyOptionModifiers(breakdown *PriceBreakdown, modifiers []models.PriceModifier, cfg types.Configuration, subtotal decimal.Decimal) decimal.Decimal {
	selections := map[models.ModifierKind]*string{
		models.ModifierKindColor:    cfg.Color,
		models.ModifierKindMaterial: cfg.Material,
		models.ModifierKindMount:    cfg.MountType,
		models.ModifierKindControl:  cfg.ControlType,
		models.ModifierKindRail:     cfg.RailType,
	}
	for _, modifier := range modifiers {
		if !modifier.Active || modifier.Kind == models.ModifierKindAddon {
			continue
		}
		selected := selections[modifier.Kind]
		if selected == nil || !strings.EqualFold(*selected, modifier.OptionName) {
			continue
		}
		breakdown.Modifiers = append(breakdown.Modifiers, ModifierLine{
			Kind:       modifier.Kind,
			OptionName: modifier.OptionName,
			Delta:      modifier.PriceDelta,
		})
		subtotal = subtotal.Add(modifier.PriceDelta)
	}
	return subtotal
}

// applyAddons prices selected addons from the modifier rows, never from
// client-supplied amounts. Unknown addon names contribute nothing.
func applyAddons(breakdown *PriceBreakdown, modifiers []models.PriceModifier, cfg types.Configuration, subtotal decimal.Decimal) decimal.Decimal {
	if len(cfg.Addons) == 0 {
		return subtotal
	}
	priced := map[string]decimal.Decimal{}
	for _, modifier := range modifiers {
		if modifier.Active && modifier.Kind == models.ModifierKindAddon {
			priced[strings.ToLower(modifier.OptionName)] = modifier.PriceDelta
		}
	}
	addonTotal := decimal.Zero
	for _, addon := range cfg.Addons {
		if delta, ok := priced[strings.ToLower(addon.Name)]; ok {
			addonTotal = addonTotal.Add(delta)
		}
	}
	breakdown.AddonTotal = addonTotal
	return subtotal.Add(addonTotal)
}
