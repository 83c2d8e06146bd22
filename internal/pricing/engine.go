package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category tags a line item for taxability toggles, display grouping, and
// the shared/metal split in multi-metal quotes.
type Category string

const (
	CategoryCAD           Category = "cad"
	CategoryMetal         Category = "metal"
	CategoryCenterStone   Category = "center_stone"
	CategoryTrimStones    Category = "trim_stones"
	CategoryCenterSetting Category = "labor_center_setting"
	CategoryTrimSetting   Category = "labor_trim_setting"
	CategoryAppraisal     Category = "appraisal"
	CategoryEngraving     Category = "engraving"
	CategoryShipping      Category = "shipping"
	CategoryRhodium       Category = "rhodium"
	CategoryPolishing     Category = "polishing"
	CategoryMisc          Category = "misc"
)

// MetalDetail is the audit trail for the metal line: what was measured, what
// it became, and the rate applied. It round-trips into exported records.
type MetalDetail struct {
	InputWeight decimal.Decimal `json:"input_weight_value"`
	InputUnit   WeightUnit      `json:"input_weight_unit"`
	ComputedDWT decimal.Decimal `json:"computed_dwt"`
	RatePerDWT  decimal.Decimal `json:"rate_per_dwt"`
	ExtraFee    decimal.Decimal `json:"extra_fee"`
}

// CenterDetail carries center stone metadata that is not part of the price.
type CenterDetail struct {
	CustomerSupplied bool `json:"customer_supplied"`
}

// DetailRow is one display row behind an aggregated line item.
type DetailRow struct {
	Description string          `json:"description,omitempty"`
	MM          decimal.Decimal `json:"mm,omitempty"`
	Qty         int             `json:"qty"`
	TotalCt     decimal.Decimal `json:"total_ct,omitempty"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// LineItem is one priced row of the quote, in final display order with the
// amount already at currency precision.
type LineItem struct {
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
	Taxable  bool            `json:"taxable"`
	Category Category        `json:"category"`
	Details  []DetailRow     `json:"details,omitempty"`
	Metal    *MetalDetail    `json:"metal,omitempty"`
	Center   *CenterDetail   `json:"center,omitempty"`
}

// ComputedQuote is the priced result for a single metal option. It is
// produced fresh on every computation and never mutated afterwards.
type ComputedQuote struct {
	MetalKey  string     `json:"metal_key"`
	LineItems []LineItem `json:"line_items"`

	SubtotalPreTax  decimal.Decimal `json:"subtotal_pre_tax"`
	RoundedSubtotal decimal.Decimal `json:"rounded_subtotal_pre_tax"`
	TaxableSubtotal decimal.Decimal `json:"taxable_subtotal_pre_tax"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total_with_tax"`
	Deposit         decimal.Decimal `json:"deposit"`

	TaxRate     decimal.Decimal `json:"tax_rate"`
	DepositRate decimal.Decimal `json:"deposit_rate"`
	Rounding    RoundingRule    `json:"rounding_rule"`
	Policy      TotalsPolicy    `json:"totals_policy"`
	ValidUntil  string          `json:"valid_until,omitempty"`
}

// ComputeQuoteForMetal prices one metal option. Pure: no I/O, no mutation of
// settings or request, deterministic for identical inputs. The request is
// expected to be normalized; metal selection is the caller's precondition.
func ComputeQuoteForMetal(s Settings, req QuoteRequest, metalKey string) ComputedQuote {
	rule := s.Rounding
	if req.RoundingOverride != "" {
		rule = req.RoundingOverride
	}

	var items []LineItem

	if req.CADFee.IsPositive() {
		items = append(items, LineItem{
			Label:    "CAD / design fee",
			Amount:   roundMoney(req.CADFee),
			Taxable:  req.Tax.CAD,
			Category: CategoryCAD,
		})
	}

	if li, ok := metalLine(s, req, metalKey); ok {
		li.Taxable = req.Tax.Metal
		items = append(items, li)
	}

	if li, ok := centerStoneLine(s, req); ok {
		items = append(items, li)
	}

	if li, ok := trimStonesLine(s, req); ok {
		li.Taxable = req.Tax.TrimStones
		items = append(items, li)
	}

	if li, ok := centerSettingLine(s, req); ok {
		li.Taxable = req.Tax.Labor
		items = append(items, li)
	}

	if li, ok := trimSettingLine(s, req); ok {
		li.Taxable = req.Tax.Labor
		items = append(items, li)
	}

	items = appendFlatCharge(items, "Appraisal (outside components)", req.Charges.Appraisal, req.Tax.Appraisal, CategoryAppraisal)
	items = appendFlatCharge(items, "Engraving", req.Charges.Engraving, req.Tax.Engraving, CategoryEngraving)
	items = appendFlatCharge(items, "Shipping", req.Charges.Shipping, req.Tax.Shipping, CategoryShipping)
	items = appendFlatCharge(items, "Rhodium plating", req.Charges.Rhodium, req.Tax.Rhodium, CategoryRhodium)
	items = appendFlatCharge(items, "Polishing / finishing", req.Charges.Polishing, req.Tax.Polishing, CategoryPolishing)

	if req.Misc.Amount.IsPositive() {
		label := "Misc."
		if req.Misc.Description != "" {
			label = "Misc.: " + req.Misc.Description
		}
		items = append(items, LineItem{
			Label:    label,
			Amount:   roundMoney(req.Misc.Amount),
			Taxable:  req.Misc.Taxable,
			Category: CategoryMisc,
		})
	}

	q := ComputedQuote{
		MetalKey:    metalKey,
		LineItems:   items,
		TaxRate:     s.TaxRate,
		DepositRate: s.DepositRate,
		Rounding:    rule,
		Policy:      s.Policy,
		ValidUntil:  validUntil(req.QuoteDate, s.Output.QuoteValidDays),
	}

	subtotal := decimal.Zero
	taxable := decimal.Zero
	for _, li := range items {
		subtotal = subtotal.Add(li.Amount)
		if li.Taxable {
			taxable = taxable.Add(li.Amount)
		}
	}

	q.SubtotalPreTax = subtotal
	q.TaxableSubtotal = taxable
	q.Tax = roundMoney(taxable.Mul(s.TaxRate))

	switch s.Policy.RoundingTarget {
	case TargetTotal:
		q.RoundedSubtotal = subtotal
		q.Total = ApplyRounding(subtotal.Add(q.Tax), rule)
	default:
		q.RoundedSubtotal = ApplyRounding(subtotal, rule)
		q.Total = subtotal.Add(q.Tax)
	}

	switch s.Policy.DepositBase {
	case DepositFromTotal:
		q.Deposit = ApplyRounding(roundMoney(q.Total.Mul(s.DepositRate)), rule)
	default:
		q.Deposit = roundMoney(subtotal.Mul(s.DepositRate))
	}

	return q
}

// ComputeQuoteMulti prices every selected metal with all other inputs held
// fixed, one ComputedQuote per metal key in selection order.
func ComputeQuoteMulti(s Settings, req QuoteRequest) []ComputedQuote {
	quotes := make([]ComputedQuote, 0, len(req.Metals))
	for _, mk := range req.Metals {
		quotes = append(quotes, ComputeQuoteForMetal(s, req, mk))
	}
	return quotes
}

// SharedLineItems returns the metal-independent line items of a computed
// quote. For a fixed request these are identical across every metal option.
func SharedLineItems(q ComputedQuote) []LineItem {
	shared := make([]LineItem, 0, len(q.LineItems))
	for _, li := range q.LineItems {
		if li.Category != CategoryMetal {
			shared = append(shared, li)
		}
	}
	return shared
}

// MetalAmount returns the metal line amount of a computed quote, or zero
// when no metal line was emitted.
func MetalAmount(q ComputedQuote) decimal.Decimal {
	for _, li := range q.LineItems {
		if li.Category == CategoryMetal {
			return li.Amount
		}
	}
	return decimal.Zero
}

func metalLine(s Settings, req QuoteRequest, metalKey string) (LineItem, bool) {
	baseDWT := WeightToDWT(req.MetalWeight, req.WeightUnit)
	if !baseDWT.IsPositive() {
		return LineItem{}, false
	}

	rate := s.MetalRates[metalKey]

	dwt := baseDWT
	extra := decimal.Zero
	if IsPlatinum(metalKey) {
		// The measured weight is against the 14K base; platinum casts
		// heavier by the density ratio.
		if s.PlatinumDensityRatio.IsPositive() {
			dwt = baseDWT.Mul(s.PlatinumDensityRatio)
		}
		if req.AddPlatinumExtraFee {
			extra = s.PlatinumExtraFee
		}
	}

	amount := dwt.Mul(rate).Add(extra)

	return LineItem{
		Label:    fmt.Sprintf("Metal (%s)", metalKey),
		Amount:   roundMoney(amount),
		Category: CategoryMetal,
		Metal: &MetalDetail{
			InputWeight: req.MetalWeight,
			InputUnit:   req.WeightUnit,
			ComputedDWT: dwt,
			RatePerDWT:  rate,
			ExtraFee:    extra,
		},
	}, true
}

func centerStoneLine(s Settings, req QuoteRequest) (LineItem, bool) {
	c := req.Center
	taxable := req.Tax.CenterStone

	switch c.Mode {
	case CenterFlat:
		// A named zero-price stone (e.g. customer supplied) still shows;
		// a blank zero-price stone only shows when policy says so.
		if !c.Price.IsPositive() && c.Description == "" && !s.Policy.EmitEmptyCenterStone {
			return LineItem{}, false
		}
		label := "Center stone"
		if c.Description != "" {
			label = "Center stone: " + c.Description
		}
		return LineItem{
			Label:    label,
			Amount:   roundMoney(c.Price),
			Taxable:  taxable,
			Category: CategoryCenterStone,
			Center:   &CenterDetail{CustomerSupplied: c.CustomerSupplied},
		}, true

	case CenterLabRange:
		perCt := c.PricePerCt
		if !perCt.IsPositive() {
			if def, ok := CenterPricePerCt(s.CenterStone.LabPriceBands, c.Carat); ok {
				perCt = def
			}
		}
		amount := c.Carat.Mul(perCt)
		if !amount.IsPositive() {
			return LineItem{}, false
		}
		return LineItem{
			Label:    fmt.Sprintf("Center stone (lab) %sct @ $%s/ct", c.Carat.StringFixed(2), groupThousands(perCt.StringFixed(0))),
			Amount:   roundMoney(amount),
			Taxable:  taxable,
			Category: CategoryCenterStone,
		}, true

	case CenterNaturalMarkup, CenterColoredMarkup:
		markup := c.Markup
		if !markup.IsPositive() {
			if c.Mode == CenterNaturalMarkup {
				markup = s.CenterStone.DefaultNaturalMarkup
			} else {
				markup = s.CenterStone.DefaultColoredMarkup
			}
		}
		amount := c.Cost.Mul(markup)
		if !amount.IsPositive() {
			return LineItem{}, false
		}
		kind := "natural"
		if c.Mode == CenterColoredMarkup {
			kind = "colored"
		}
		return LineItem{
			Label:    fmt.Sprintf("Center stone (%s) cost $%s x %s", kind, groupThousands(c.Cost.StringFixed(0)), markup.StringFixed(2)),
			Amount:   roundMoney(amount),
			Taxable:  taxable,
			Category: CategoryCenterStone,
		}, true

	case CenterCustom:
		if !c.Price.IsPositive() {
			return LineItem{}, false
		}
		label := c.Label
		if label == "" {
			label = "Center stone"
		}
		return LineItem{
			Label:    label,
			Amount:   roundMoney(c.Price),
			Taxable:  taxable,
			Category: CategoryCenterStone,
		}, true
	}

	return LineItem{}, false
}

func trimStonesLine(s Settings, req QuoteRequest) (LineItem, bool) {
	total := decimal.Zero
	var details []DetailRow

	for _, line := range req.Trim {
		if line.Qty <= 0 {
			continue
		}
		qty := decimal.NewFromInt(int64(line.Qty))

		if line.MM.IsPositive() {
			row, ok := TrimRowForMM(s.TrimTable, line.MM)
			if !ok {
				continue
			}
			perCt := row.RetailPerCt
			if line.PerCtOverride.IsPositive() {
				perCt = line.PerCtOverride
			}
			totalCt := row.CtEach.Mul(qty)
			amount := totalCt.Mul(perCt)
			if !amount.IsPositive() {
				continue
			}
			total = total.Add(amount)
			details = append(details, DetailRow{
				Description: line.Description,
				MM:          line.MM,
				Qty:         line.Qty,
				TotalCt:     totalCt,
				Rate:        perCt,
				Amount:      roundMoney(amount),
			})
			continue
		}

		if !line.PriceEach.IsPositive() {
			continue
		}
		amount := line.PriceEach.Mul(qty)
		total = total.Add(amount)
		details = append(details, DetailRow{
			Description: line.Description,
			Qty:         line.Qty,
			Rate:        line.PriceEach,
			Amount:      roundMoney(amount),
		})
	}

	if !total.IsPositive() {
		return LineItem{}, false
	}
	return LineItem{
		Label:    "Trim stones",
		Amount:   roundMoney(total),
		Category: CategoryTrimStones,
		Details:  details,
	}, true
}

func centerSettingLine(s Settings, req QuoteRequest) (LineItem, bool) {
	cs := req.CenterSetting

	if cs.Flat.IsPositive() {
		return LineItem{
			Label:    "Setting labor (center)",
			Amount:   roundMoney(cs.Flat),
			Category: CategoryCenterSetting,
		}, true
	}

	style := strings.TrimSpace(cs.Style)
	if style == "" || style == "None" || cs.Qty <= 0 {
		return LineItem{}, false
	}
	rate := LaborRateForStyle(s.LaborRates, style, DefaultLaborBucketOrder())
	amount := rate.Mul(decimal.NewFromInt(int64(cs.Qty)))
	if !amount.IsPositive() {
		return LineItem{}, false
	}
	return LineItem{
		Label:    fmt.Sprintf("Set center stone (%s)", style),
		Amount:   roundMoney(amount),
		Category: CategoryCenterSetting,
	}, true
}

func trimSettingLine(s Settings, req QuoteRequest) (LineItem, bool) {
	total := decimal.Zero
	var details []DetailRow

	for _, line := range req.TrimSettingLines {
		if line.Qty <= 0 {
			continue
		}
		rate := line.Rate
		if !rate.IsPositive() {
			style := strings.TrimSpace(line.Style)
			if style == "" || style == "None" {
				continue
			}
			rate = LaborRateForStyle(s.LaborRates, style, DefaultLaborBucketOrder())
		}
		if !rate.IsPositive() {
			continue
		}
		amount := rate.Mul(decimal.NewFromInt(int64(line.Qty)))
		total = total.Add(amount)
		details = append(details, DetailRow{
			Description: line.Description,
			Qty:         line.Qty,
			Rate:        rate,
			Amount:      roundMoney(amount),
		})
	}

	if !total.IsPositive() {
		return LineItem{}, false
	}
	return LineItem{
		Label:    "Setting labor (trim)",
		Amount:   roundMoney(total),
		Category: CategoryTrimSetting,
		Details:  details,
	}, true
}

func appendFlatCharge(items []LineItem, label string, amount decimal.Decimal, taxable bool, cat Category) []LineItem {
	if !amount.IsPositive() {
		return items
	}
	return append(items, LineItem{
		Label:    label,
		Amount:   roundMoney(amount),
		Taxable:  taxable,
		Category: cat,
	})
}

func validUntil(quoteDate string, validDays int) string {
	d, err := time.Parse("2006-01-02", quoteDate)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, validDays).Format("2006-01-02")
}

// groupThousands inserts comma separators into a plain integer string, so
// labels read "$1,200" the way the printed quotes always have.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
