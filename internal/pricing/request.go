package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// WeightUnit is the unit the metal weight was measured in.
type WeightUnit string

const (
	UnitDWT   WeightUnit = "DWT"
	UnitGrams WeightUnit = "Grams"
)

// CenterStoneMode discriminates how the center stone line is priced.
type CenterStoneMode string

const (
	CenterNone CenterStoneMode = "none"
	// CenterFlat is a plain description + retail price pair.
	CenterFlat CenterStoneMode = "flat"
	// CenterLabRange prices carat weight against a per-carat retail price,
	// defaulted from the lab diamond price bands.
	CenterLabRange CenterStoneMode = "lab_range"
	// CenterNaturalMarkup and CenterColoredMarkup price cost x markup.
	CenterNaturalMarkup CenterStoneMode = "natural_markup"
	CenterColoredMarkup CenterStoneMode = "colored_markup"
	// CenterCustom is a free label + price line.
	CenterCustom CenterStoneMode = "custom"
)

// CenterStone describes the center stone input. Only the fields relevant to
// the selected mode are read.
type CenterStone struct {
	Mode CenterStoneMode `json:"mode"`

	// Flat mode.
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	CustomerSupplied bool            `json:"customer_supplied"`

	// Lab-range mode.
	Carat      decimal.Decimal `json:"carat"`
	PricePerCt decimal.Decimal `json:"price_per_ct"`

	// Markup modes.
	Cost   decimal.Decimal `json:"cost"`
	Markup decimal.Decimal `json:"markup"`

	// Custom mode.
	Label string `json:"label"`
}

// TrimStoneLine is one trim stone input row. Either a flat description +
// price-each pair, or an mm size resolved against the trim table when MM is
// positive. PerCtOverride, when positive, replaces the table's retail $/ct.
type TrimStoneLine struct {
	Description   string          `json:"description"`
	Qty           int             `json:"qty"`
	PriceEach     decimal.Decimal `json:"price_each"`
	MM            decimal.Decimal `json:"mm"`
	PerCtOverride decimal.Decimal `json:"per_ct_override"`
}

// CenterSettingLabor prices the center stone setting either as a flat total
// or as style x qty against the labor rate tables.
type CenterSettingLabor struct {
	Flat  decimal.Decimal `json:"flat"`
	Style string          `json:"style"`
	Qty   int             `json:"qty"`
}

// SettingLaborLine is one trim-setting labor row: qty stones at a per-stone
// rate, or a style name resolved against the labor tables when Rate is zero.
type SettingLaborLine struct {
	Description string          `json:"description"`
	Qty         int             `json:"qty"`
	Rate        decimal.Decimal `json:"rate"`
	Style       string          `json:"style"`
}

// FlatCharges are the fixed add-on amounts. A zero amount with the matching
// FeeToggles entry set is filled in from the fee schedule by Normalize.
type FlatCharges struct {
	Appraisal decimal.Decimal `json:"appraisal"`
	Engraving decimal.Decimal `json:"engraving"`
	Shipping  decimal.Decimal `json:"shipping"`
	Rhodium   decimal.Decimal `json:"rhodium"`
	Polishing decimal.Decimal `json:"polishing"`
}

// FeeToggles pull the configured fee schedule amounts into the quote without
// typing them (the variant that priced finishing by checkbox).
type FeeToggles struct {
	Rhodium   bool `json:"rhodium"`
	Polishing bool `json:"polishing"`
	Engraving bool `json:"engraving"`
	Shipping  bool `json:"shipping"`
}

// MiscCharge is the open-ended extra line with its own taxability.
type MiscCharge struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Taxable     bool            `json:"taxable"`
}

// Taxability holds the per-category toggles that decide which line items
// accrue sales tax. Use DefaultTaxability for the standard defaults:
// shipping non-taxable, everything else taxable.
type Taxability struct {
	CAD         bool `json:"cad"`
	Metal       bool `json:"metal"`
	CenterStone bool `json:"center_stone"`
	TrimStones  bool `json:"trim_stones"`
	Labor       bool `json:"labor"`
	Appraisal   bool `json:"appraisal"`
	Engraving   bool `json:"engraving"`
	Shipping    bool `json:"shipping"`
	Rhodium     bool `json:"rhodium"`
	Polishing   bool `json:"polishing"`
}

// DefaultTaxability returns the hardcoded defaults the toggles override.
func DefaultTaxability() Taxability {
	return Taxability{
		CAD:         true,
		Metal:       true,
		CenterStone: true,
		TrimStones:  true,
		Labor:       true,
		Appraisal:   true,
		Engraving:   true,
		Shipping:    false,
		Rhodium:     true,
		Polishing:   true,
	}
}

// RingDetails are free-text ring attributes echoed on the quote.
type RingDetails struct {
	FingerSize  string `json:"finger_size"`
	RingWidth   string `json:"ring_width"`
	CenterShape string `json:"center_shape"`
}

// QuoteRequest is one job description. It is immutable once submitted;
// Normalize is the only mutation and runs once at load time.
type QuoteRequest struct {
	CustomerName string      `json:"customer_name"`
	JobName      string      `json:"job_name"`
	ItemType     string      `json:"item_type"`
	QuoteDate    string      `json:"quote_date"` // ISO date (YYYY-MM-DD)
	Notes        string      `json:"notes"`
	Ring         RingDetails `json:"ring"`

	CADFee decimal.Decimal `json:"cad_fee"`

	Metals              []string        `json:"metals"`
	MetalWeight         decimal.Decimal `json:"metal_weight"`
	WeightUnit          WeightUnit      `json:"weight_unit"`
	AddPlatinumExtraFee bool            `json:"add_platinum_extra_fee"`

	Center CenterStone     `json:"center"`
	Trim   []TrimStoneLine `json:"trim_stones"`

	CenterSetting    CenterSettingLabor `json:"center_setting"`
	TrimSettingLines []SettingLaborLine `json:"trim_setting_lines"`

	// Legacy single-line trim setting inputs, consumed by Normalize and
	// ignored once TrimSettingLines is populated.
	LegacyTrimSettingQty  int             `json:"trim_setting_qty,omitempty"`
	LegacyTrimSettingRate decimal.Decimal `json:"trim_setting_rate,omitempty"`

	Charges    FlatCharges `json:"charges"`
	FeeToggles FeeToggles  `json:"fee_toggles"`
	Misc       MiscCharge  `json:"misc"`

	Tax Taxability `json:"tax"`

	// RoundingOverride, when non-empty, replaces the configured rule for
	// this quote only.
	RoundingOverride RoundingRule `json:"rounding_override,omitempty"`
}

// NewQuoteRequest returns a request with the taxability defaults applied, so
// JSON decoding on top of it leaves untouched categories at their defaults.
func NewQuoteRequest() QuoteRequest {
	return QuoteRequest{
		WeightUnit: UnitDWT,
		Center:     CenterStone{Mode: CenterNone},
		Tax:        DefaultTaxability(),
	}
}

// Validate rejects numeric inputs the engine is not defined for: negative
// weights, prices, rates, and quantities. Call it after Normalize so the
// legacy fields are already folded in.
func (q QuoteRequest) Validate() error {
	amounts := []struct {
		name string
		val  decimal.Decimal
	}{
		{"metal_weight", q.MetalWeight},
		{"cad_fee", q.CADFee},
		{"center.price", q.Center.Price},
		{"center.carat", q.Center.Carat},
		{"center.price_per_ct", q.Center.PricePerCt},
		{"center.cost", q.Center.Cost},
		{"center.markup", q.Center.Markup},
		{"center_setting.flat", q.CenterSetting.Flat},
		{"charges.appraisal", q.Charges.Appraisal},
		{"charges.engraving", q.Charges.Engraving},
		{"charges.shipping", q.Charges.Shipping},
		{"charges.rhodium", q.Charges.Rhodium},
		{"charges.polishing", q.Charges.Polishing},
		{"misc.amount", q.Misc.Amount},
	}
	for _, a := range amounts {
		if a.val.IsNegative() {
			return fmt.Errorf("%s is negative", a.name)
		}
	}

	if q.CenterSetting.Qty < 0 {
		return fmt.Errorf("center_setting.qty is negative")
	}
	for i, line := range q.Trim {
		if line.Qty < 0 {
			return fmt.Errorf("trim_stones[%d].qty is negative", i)
		}
		if line.PriceEach.IsNegative() || line.MM.IsNegative() || line.PerCtOverride.IsNegative() {
			return fmt.Errorf("trim_stones[%d] has a negative value", i)
		}
	}
	for i, line := range q.TrimSettingLines {
		if line.Qty < 0 {
			return fmt.Errorf("trim_setting_lines[%d].qty is negative", i)
		}
		if line.Rate.IsNegative() {
			return fmt.Errorf("trim_setting_lines[%d].rate is negative", i)
		}
	}

	return nil
}
