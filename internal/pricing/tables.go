package pricing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// gramsToDWT is the historical jeweler conversion used by the shop's
// spreadsheets: 1 gram = 0.643 DWT.
var gramsToDWT = decimal.NewFromFloat(0.643)

// WeightToDWT converts a measured weight to pennyweight. Non-positive input
// fails closed to zero; upstream validation rejects negatives, the engine
// just treats them as "no metal line".
func WeightToDWT(value decimal.Decimal, unit WeightUnit) decimal.Decimal {
	if !value.IsPositive() {
		return decimal.Zero
	}
	if strings.HasPrefix(strings.ToLower(string(unit)), "gram") {
		return value.Mul(gramsToDWT)
	}
	return value
}

// IsPlatinum reports whether a metal key denotes the platinum family.
func IsPlatinum(metalKey string) bool {
	return strings.HasPrefix(strings.ToUpper(metalKey), "PLAT")
}

// TrimRowForMM finds the trim table row with an exactly matching mm value.
// There is no nearest-neighbor fallback; an unknown size means no row.
func TrimRowForMM(table []TrimRow, mm decimal.Decimal) (TrimRow, bool) {
	for _, row := range table {
		if row.MM.Equal(mm) {
			return row, true
		}
	}
	return TrimRow{}, false
}

// CenterPricePerCt returns the suggested retail price per carat for a lab
// center stone of the given carat weight, or false when the weight falls in
// no band (gaps are allowed; the caller must then supply an explicit price).
func CenterPricePerCt(bands []CenterPriceBand, ct decimal.Decimal) (decimal.Decimal, bool) {
	for _, b := range bands {
		if ct.GreaterThanOrEqual(b.MinCt) && ct.LessThanOrEqual(b.MaxCt) {
			return b.PricePerCt, true
		}
	}
	return decimal.Zero, false
}

// LaborRateForStyle resolves a style name across the given buckets in order
// and returns the first match, or zero when no bucket knows the style. The
// order parameter makes the tie-break for colliding style names explicit.
func LaborRateForStyle(rates LaborRates, style string, order []LaborBucket) decimal.Decimal {
	for _, b := range order {
		if rate, ok := rates.Bucket(b)[style]; ok {
			return rate
		}
	}
	return decimal.Zero
}

// StyleOptions returns the sorted union of style names across all buckets,
// for collectors that present a single style picker.
func StyleOptions(rates LaborRates) []string {
	seen := map[string]bool{}
	var styles []string
	for _, b := range DefaultLaborBucketOrder() {
		for style := range rates.Bucket(b) {
			if !seen[style] {
				seen[style] = true
				styles = append(styles, style)
			}
		}
	}
	sort.Strings(styles)
	return styles
}
