package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoundingRule selects how an amount is snapped to a display-friendly value.
type RoundingRule string

const (
	RoundNone    RoundingRule = "none"
	RoundDollar  RoundingRule = "nearest_dollar"
	RoundNearest RoundingRule = "nearest_5"
)

// RoundingTarget selects which figure the rounding rule is applied to.
type RoundingTarget string

const (
	// TargetSubtotal rounds the pre-tax subtotal for display only; tax,
	// total and deposit stay based on the unrounded subtotal.
	TargetSubtotal RoundingTarget = "subtotal"
	// TargetTotal rounds the final post-tax total.
	TargetTotal RoundingTarget = "total"
)

// DepositBase selects the figure the deposit rate is applied to.
type DepositBase string

const (
	DepositFromSubtotal DepositBase = "subtotal"
	DepositFromTotal    DepositBase = "total"
)

// TotalsPolicy captures the two historical totalling behaviors behind
// explicit switches instead of separate code paths.
type TotalsPolicy struct {
	RoundingTarget RoundingTarget `json:"rounding_target"`
	DepositBase    DepositBase    `json:"deposit_base"`

	// EmitEmptyCenterStone controls whether a center stone line with an
	// empty description and a zero price still appears on the quote.
	EmitEmptyCenterStone bool `json:"emit_empty_center_stone"`
}

// LaborBucket names one of the four setting-labor rate tables.
type LaborBucket string

const (
	RoundCenter LaborBucket = "round_center"
	FancyCenter LaborBucket = "fancy_center"
	RoundTrim   LaborBucket = "round_trim"
	FancyTrim   LaborBucket = "fancy_trim"
)

// DefaultLaborBucketOrder is the priority order used to resolve a style name
// that may exist in more than one bucket. A colliding style resolves to the
// earlier bucket; keep style names unique across buckets to avoid surprises.
func DefaultLaborBucketOrder() []LaborBucket {
	return []LaborBucket{RoundCenter, FancyCenter, RoundTrim, FancyTrim}
}

// LaborRates holds per-stone setting rates keyed by style name.
type LaborRates struct {
	RoundCenter map[string]decimal.Decimal `json:"round_center"`
	FancyCenter map[string]decimal.Decimal `json:"fancy_center"`
	RoundTrim   map[string]decimal.Decimal `json:"round_trim"`
	FancyTrim   map[string]decimal.Decimal `json:"fancy_trim"`
}

// Bucket returns the named rate table, or nil for an unknown bucket.
func (lr LaborRates) Bucket(b LaborBucket) map[string]decimal.Decimal {
	switch b {
	case RoundCenter:
		return lr.RoundCenter
	case FancyCenter:
		return lr.FancyCenter
	case RoundTrim:
		return lr.RoundTrim
	case FancyTrim:
		return lr.FancyTrim
	}
	return nil
}

// TrimRow maps a trim stone diameter to its fixed carat weight per stone and
// the default retail price per carat.
type TrimRow struct {
	MM          decimal.Decimal `json:"mm"`
	CtEach      decimal.Decimal `json:"ct_each"`
	RetailPerCt decimal.Decimal `json:"retail_per_ct"`
}

// CenterPriceBand suggests a retail price per carat for lab-grown center
// stones whose carat weight falls inside [MinCt, MaxCt].
type CenterPriceBand struct {
	MinCt      decimal.Decimal `json:"min_ct"`
	MaxCt      decimal.Decimal `json:"max_ct"`
	PricePerCt decimal.Decimal `json:"price_per_ct"`
}

// CenterStoneDefaults holds lookup data and default markups for center
// stone pricing.
type CenterStoneDefaults struct {
	LabPriceBands        []CenterPriceBand `json:"lab_diamond_price_per_ct_ranges"`
	DefaultNaturalMarkup decimal.Decimal   `json:"default_natural_markup"`
	DefaultColoredMarkup decimal.Decimal   `json:"default_colored_markup"`
}

// FeeSchedule holds the flat finishing fees a quote can pull in by toggle.
type FeeSchedule struct {
	Rhodium   decimal.Decimal `json:"rhodium_fee"`
	Polishing decimal.Decimal `json:"polishing_fee"`
	Engraving decimal.Decimal `json:"engraving_fee"`
	Shipping  decimal.Decimal `json:"shipping_fee"`
}

// OutputPolicy controls the quote document, not the math.
type OutputPolicy struct {
	QuoteValidDays int `json:"quote_valid_days"`
	MaxImages      int `json:"max_images_on_customer_page"`
}

// StoreInfo is printed on the quote header.
type StoreInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Settings is the full pricing configuration. It is treated as an immutable
// snapshot per computation; the engine never mutates it.
type Settings struct {
	Store StoreInfo `json:"store"`

	// MetalRates is retail $ per DWT, keyed by metal name. The platinum
	// keys ("Platinum", "PLAT ...") get the density adjustment below.
	MetalRates           map[string]decimal.Decimal `json:"metals_retail_per_dwt"`
	PlatinumDensityRatio decimal.Decimal            `json:"platinum_density_ratio"`
	PlatinumExtraFee     decimal.Decimal            `json:"platinum_extra_fee"`

	LaborRates  LaborRates          `json:"labor_rates"`
	TrimTable   []TrimRow           `json:"trim_table"`
	CenterStone CenterStoneDefaults `json:"center_stone"`
	Fees        FeeSchedule         `json:"fees"`

	TaxRate     decimal.Decimal `json:"tax_rate"`
	DepositRate decimal.Decimal `json:"deposit_rate"`
	Rounding    RoundingRule    `json:"rounding"`
	Policy      TotalsPolicy    `json:"totals_policy"`

	Output OutputPolicy `json:"output"`
}

// DefaultSettings returns the shipped configuration: rates zeroed out so the
// operator fills them in, policy matching the current workflow.
func DefaultSettings() Settings {
	return Settings{
		MetalRates: map[string]decimal.Decimal{
			"14K Yellow": decimal.Zero,
			"14K White":  decimal.Zero,
			"18K Yellow": decimal.Zero,
			"Platinum":   decimal.Zero,
		},
		PlatinumDensityRatio: decimal.NewFromFloat(1.38),
		PlatinumExtraFee:     decimal.Zero,
		LaborRates: LaborRates{
			RoundCenter: map[string]decimal.Decimal{},
			FancyCenter: map[string]decimal.Decimal{},
			RoundTrim:   map[string]decimal.Decimal{},
			FancyTrim:   map[string]decimal.Decimal{},
		},
		CenterStone: CenterStoneDefaults{
			DefaultNaturalMarkup: decimal.NewFromFloat(2.7),
			DefaultColoredMarkup: decimal.NewFromFloat(2.7),
		},
		DepositRate: decimal.NewFromFloat(0.5),
		Rounding:    RoundNone,
		Policy: TotalsPolicy{
			RoundingTarget: TargetSubtotal,
			DepositBase:    DepositFromSubtotal,
		},
		Output: OutputPolicy{
			QuoteValidDays: 14,
			MaxImages:      6,
		},
	}
}

// Validate checks the configuration invariants. Rate and fee values must be
// non-negative, tax and deposit rates must be fractions, the trim table may
// not repeat an mm value, and center price bands may not overlap.
func (s Settings) Validate() error {
	for name, rate := range s.MetalRates {
		if rate.IsNegative() {
			return fmt.Errorf("metal rate for %q is negative", name)
		}
	}
	if s.PlatinumDensityRatio.IsNegative() {
		return fmt.Errorf("platinum_density_ratio is negative")
	}
	if s.PlatinumExtraFee.IsNegative() {
		return fmt.Errorf("platinum_extra_fee is negative")
	}
	for _, b := range DefaultLaborBucketOrder() {
		for style, rate := range s.LaborRates.Bucket(b) {
			if rate.IsNegative() {
				return fmt.Errorf("labor rate %s/%s is negative", b, style)
			}
		}
	}
	for _, fee := range []struct {
		name string
		val  decimal.Decimal
	}{
		{"rhodium_fee", s.Fees.Rhodium},
		{"polishing_fee", s.Fees.Polishing},
		{"engraving_fee", s.Fees.Engraving},
		{"shipping_fee", s.Fees.Shipping},
	} {
		if fee.val.IsNegative() {
			return fmt.Errorf("%s is negative", fee.name)
		}
	}

	if !isFraction(s.TaxRate) {
		return fmt.Errorf("tax_rate must be between 0 and 1")
	}
	if !isFraction(s.DepositRate) {
		return fmt.Errorf("deposit_rate must be between 0 and 1")
	}

	switch s.Rounding {
	case RoundNone, RoundDollar, RoundNearest:
	default:
		return fmt.Errorf("unknown rounding rule %q", s.Rounding)
	}
	switch s.Policy.RoundingTarget {
	case TargetSubtotal, TargetTotal:
	default:
		return fmt.Errorf("unknown rounding target %q", s.Policy.RoundingTarget)
	}
	switch s.Policy.DepositBase {
	case DepositFromSubtotal, DepositFromTotal:
	default:
		return fmt.Errorf("unknown deposit base %q", s.Policy.DepositBase)
	}

	seen := map[string]bool{}
	for _, row := range s.TrimTable {
		key := row.MM.String()
		if seen[key] {
			return fmt.Errorf("trim_table has duplicate mm value %s", key)
		}
		seen[key] = true
		if row.CtEach.IsNegative() || row.RetailPerCt.IsNegative() {
			return fmt.Errorf("trim_table row %s has a negative value", key)
		}
	}

	for i, a := range s.CenterStone.LabPriceBands {
		if a.MinCt.GreaterThan(a.MaxCt) {
			return fmt.Errorf("center price band %d has min_ct > max_ct", i)
		}
		if a.PricePerCt.IsNegative() {
			return fmt.Errorf("center price band %d has a negative price", i)
		}
		for j, b := range s.CenterStone.LabPriceBands {
			if i >= j {
				continue
			}
			if a.MinCt.LessThanOrEqual(b.MaxCt) && b.MinCt.LessThanOrEqual(a.MaxCt) {
				return fmt.Errorf("center price bands %d and %d overlap", i, j)
			}
		}
	}

	if s.Output.QuoteValidDays < 0 {
		return fmt.Errorf("quote_valid_days is negative")
	}

	return nil
}

func isFraction(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(1))
}
