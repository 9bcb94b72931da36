// Package pricing computes DTF transfer unit prices from a size selection,
// the live visual scale in free-form placement, and quantity-tiered bulk
// discounts. All amounts are int64 cents, rounded at every derived stage.
package pricing

import (
	"fmt"

	"printcraft-service/internal/util"
)

// PresetSize is one entry of the fixed transfer size catalog
type PresetSize struct {
	Label     string  `json:"label"`
	WidthIn   float64 `json:"width_in"`
	HeightIn  float64 `json:"height_in"`
	UnitPrice int64   `json:"unit_price"` // cents
}

// presetCatalog is the fixed ascending price table. Prices grow with area
// but are not a linear function of it, so this stays an explicit lookup
// table rather than a formula.
var presetCatalog = []PresetSize{
	{Label: "2x2", WidthIn: 2, HeightIn: 2, UnitPrice: 37},
	{Label: "3x3", WidthIn: 3, HeightIn: 3, UnitPrice: 49},
	{Label: "4x4", WidthIn: 4, HeightIn: 4, UnitPrice: 62},
	{Label: "5x5", WidthIn: 5, HeightIn: 5, UnitPrice: 85},
	{Label: "6x6", WidthIn: 6, HeightIn: 6, UnitPrice: 105},
	{Label: "7x7", WidthIn: 7, HeightIn: 7, UnitPrice: 125},
	{Label: "8x8", WidthIn: 8, HeightIn: 8, UnitPrice: 145},
	{Label: "9x9", WidthIn: 9, HeightIn: 9, UnitPrice: 165},
	{Label: "10x10", WidthIn: 10, HeightIn: 10, UnitPrice: 185},
	{Label: "11x14", WidthIn: 11, HeightIn: 14, UnitPrice: 225},
	{Label: "12x17", WidthIn: 12, HeightIn: 17, UnitPrice: 285},
}

const (
	// MinTransferPrice is the smallest preset price; every derived base
	// price floors here
	MinTransferPrice = 37 // cents

	// customRate is the per-square-inch rate for custom sizes, in dollars
	customRate = 0.10

	// Custom dimensions clamp to [1,20] inches per axis
	minCustomInches = 1.0
	maxCustomInches = 20.0
)

// Presets returns the fixed transfer size catalog
func Presets() []PresetSize {
	out := make([]PresetSize, len(presetCatalog))
	copy(out, presetCatalog)
	return out
}

// PresetByLabel looks up a catalog entry by its label
func PresetByLabel(label string) (PresetSize, bool) {
	for _, p := range presetCatalog {
		if p.Label == label {
			return p, true
		}
	}
	return PresetSize{}, false
}

// SizeSelection is either a preset catalog reference or a custom
// width x height pair in inches
type SizeSelection struct {
	Preset   string  `json:"preset,omitempty"`
	WidthIn  float64 `json:"width_in"`
	HeightIn float64 `json:"height_in"`
}

// PresetSelection selects a catalog size by label. Unknown labels fall back
// to the smallest preset.
func PresetSelection(label string) SizeSelection {
	p, ok := PresetByLabel(label)
	if !ok {
		p = presetCatalog[0]
	}
	return SizeSelection{Preset: p.Label, WidthIn: p.WidthIn, HeightIn: p.HeightIn}
}

// CustomSelection selects a custom size, clamping each axis to [1,20] inches
func CustomSelection(widthIn, heightIn float64) SizeSelection {
	return SizeSelection{
		WidthIn:  clampInches(widthIn),
		HeightIn: clampInches(heightIn),
	}
}

// IsCustom reports whether the selection is a custom size
func (s SizeSelection) IsCustom() bool { return s.Preset == "" }

// Label is the resolved print size string placed on the configuration
func (s SizeSelection) Label() string {
	if !s.IsCustom() {
		return s.Preset
	}
	return fmt.Sprintf("%gx%g", s.WidthIn, s.HeightIn)
}

// Quote is the priced result for a transfer size and quantity
type Quote struct {
	UnitBase        int64 `json:"unit_base"`  // cents, before discount
	UnitPrice       int64 `json:"unit_price"` // cents, after discount
	Total           int64 `json:"total"`      // cents
	DiscountPercent int   `json:"discount_percent"`
}

// BasePrice resolves the undiscounted unit price for a size selection.
// Presets use the catalog table; custom sizes use a linear per-square-inch
// rate with the smallest preset price as a floor.
func BasePrice(sel SizeSelection) int64 {
	if !sel.IsCustom() {
		if p, ok := PresetByLabel(sel.Preset); ok {
			return p.UnitPrice
		}
	}
	area := clampInches(sel.WidthIn) * clampInches(sel.HeightIn)
	base := util.Cents(area * customRate)
	if base < MinTransferPrice {
		base = MinTransferPrice
	}
	return base
}

// DiscountPercent returns the bulk discount tier for a transfer quantity.
// Thresholds are checked from the highest down; first match wins.
func DiscountPercent(quantity int) int {
	switch {
	case quantity >= 250:
		return 50
	case quantity >= 100:
		return 40
	case quantity >= 50:
		return 30
	case quantity >= 15:
		return 20
	default:
		return 0
	}
}

// ComputeTransferPrice prices a transfer. scaleOverride is the live visual
// scale percentage in custom placement; zero means no override. Shrinking a
// design by half its linear dimension quarters the printed area, so the
// override applies as the square of the scale ratio, floored at the minimum
// transfer price.
func ComputeTransferPrice(sel SizeSelection, quantity int, scaleOverride float64) Quote {
	if quantity < 1 {
		quantity = 1
	}

	base := BasePrice(sel)
	if scaleOverride > 0 {
		factor := scaleOverride / 100
		base = util.RoundCents(float64(base) * factor * factor)
		if base < MinTransferPrice {
			base = MinTransferPrice
		}
	}

	discount := DiscountPercent(quantity)
	unit := util.RoundCents(float64(base) * (1 - float64(discount)/100))
	total := unit * int64(quantity)

	util.QuotesComputedTotal.Inc()
	return Quote{
		UnitBase:        base,
		UnitPrice:       unit,
		Total:           total,
		DiscountPercent: discount,
	}
}

func clampInches(v float64) float64 {
	if v < minCustomInches {
		return minCustomInches
	}
	if v > maxCustomInches {
		return maxCustomInches
	}
	return v
}
