package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize migrates a loaded request to the current shape. It runs once
// when a request is accepted, never inside the pricing path:
//
//   - legacy single trim-setting qty/rate fields become one multi-line
//     entry, and are ignored once multi-line data exists;
//   - fee toggles resolve to amounts from the fee schedule when the
//     corresponding explicit amount is zero;
//   - header strings are trimmed.
func (q *QuoteRequest) Normalize(s Settings) {
	q.CustomerName = strings.TrimSpace(q.CustomerName)
	q.JobName = strings.TrimSpace(q.JobName)
	q.Notes = strings.TrimSpace(q.Notes)
	q.Center.Description = strings.TrimSpace(q.Center.Description)
	q.Center.Label = strings.TrimSpace(q.Center.Label)
	q.Misc.Description = strings.TrimSpace(q.Misc.Description)

	if q.WeightUnit == "" {
		q.WeightUnit = UnitDWT
	}
	if q.Center.Mode == "" {
		q.Center.Mode = CenterNone
	}

	if len(q.TrimSettingLines) == 0 && q.LegacyTrimSettingQty > 0 && q.LegacyTrimSettingRate.IsPositive() {
		q.TrimSettingLines = []SettingLaborLine{{
			Qty:  q.LegacyTrimSettingQty,
			Rate: q.LegacyTrimSettingRate,
		}}
	}
	q.LegacyTrimSettingQty = 0
	q.LegacyTrimSettingRate = decimal.Zero

	if q.FeeToggles.Rhodium && q.Charges.Rhodium.IsZero() {
		q.Charges.Rhodium = s.Fees.Rhodium
	}
	if q.FeeToggles.Polishing && q.Charges.Polishing.IsZero() {
		q.Charges.Polishing = s.Fees.Polishing
	}
	if q.FeeToggles.Engraving && q.Charges.Engraving.IsZero() {
		q.Charges.Engraving = s.Fees.Engraving
	}
	if q.FeeToggles.Shipping && q.Charges.Shipping.IsZero() {
		q.Charges.Shipping = s.Fees.Shipping
	}
}
