// Package quotedoc assembles the rendering-ready quote document and the
// downloadable export record from computed quotes. It does no pricing math.
package quotedoc

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blainea-sys/kcj-quote-app/internal/pricing"
)

// Footer is printed on every quote.
const Footer = "Prices subject to change due to metal market and stone availability."

// Version tags the document schema for exported records.
const Version = "v1"

// Header carries the identity fields of a quote document.
type Header struct {
	QuoteID      string              `json:"quote_id"`
	Version      string              `json:"version"`
	QuoteDate    string              `json:"quote_date"`
	ValidUntil   string              `json:"valid_until"`
	CustomerName string              `json:"customer_name"`
	JobName      string              `json:"job_desc"`
	ItemType     string              `json:"item_type"`
	Notes        string              `json:"notes"`
	Ring         pricing.RingDetails `json:"ring"`
}

// MetalOption is the per-metal summary row shown side by side.
type MetalOption struct {
	MetalKey        string          `json:"metal_key"`
	MetalAmount     decimal.Decimal `json:"metal_amount"`
	SubtotalPreTax  decimal.Decimal `json:"subtotal_pre_tax"`
	RoundedSubtotal decimal.Decimal `json:"rounded_subtotal_pre_tax"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total_with_tax"`
	Deposit         decimal.Decimal `json:"deposit"`
}

// Document is what the renderer consumes: header, the line items shared by
// every metal option factored out once, and one summary row per metal.
type Document struct {
	Header       Header               `json:"header"`
	SharedItems  []pricing.LineItem   `json:"shared_line_items"`
	MetalOptions []MetalOption        `json:"metal_options"`
	RoundingRule pricing.RoundingRule `json:"rounding_rule"`
	Footer       string               `json:"footer"`
}

// ExportRecord bundles everything for user download and audit. It is never
// re-ingested by this system.
type ExportRecord struct {
	Request  pricing.QuoteRequest    `json:"quote_core"`
	Document Document                `json:"quote_doc"`
	Computed []pricing.ComputedQuote `json:"computed"`
}

// NewQuoteID builds a readable unique id without stored counters, so quotes
// stay identifiable on stateless hosting.
func NewQuoteID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return now.Format("20060102-150405") + "-" + suffix
}

// Build assembles the document from the request and its computed quotes.
// The shared items come from the first option; the multi-metal invariant
// guarantees every option would produce the same list.
func Build(id string, req pricing.QuoteRequest, quotes []pricing.ComputedQuote) Document {
	doc := Document{
		Header: Header{
			QuoteID:      id,
			Version:      Version,
			QuoteDate:    req.QuoteDate,
			CustomerName: req.CustomerName,
			JobName:      req.JobName,
			ItemType:     req.ItemType,
			Notes:        req.Notes,
			Ring:         req.Ring,
		},
		Footer: Footer,
	}

	if len(quotes) == 0 {
		return doc
	}

	doc.Header.ValidUntil = quotes[0].ValidUntil
	doc.RoundingRule = quotes[0].Rounding
	doc.SharedItems = pricing.SharedLineItems(quotes[0])

	for _, q := range quotes {
		doc.MetalOptions = append(doc.MetalOptions, MetalOption{
			MetalKey:        q.MetalKey,
			MetalAmount:     pricing.MetalAmount(q),
			SubtotalPreTax:  q.SubtotalPreTax,
			RoundedSubtotal: q.RoundedSubtotal,
			Tax:             q.Tax,
			Total:           q.Total,
			Deposit:         q.Deposit,
		})
	}

	return doc
}

// BuildExport assembles the flat download record.
func BuildExport(id string, req pricing.QuoteRequest, quotes []pricing.ComputedQuote) ExportRecord {
	return ExportRecord{
		Request:  req,
		Document: Build(id, req, quotes),
		Computed: quotes,
	}
}

// ForCustomer returns a copy with internal notes and cost-basis details
// suppressed, for the customer-view rendering.
func (d Document) ForCustomer() Document {
	d.Header.Notes = ""
	shared := make([]pricing.LineItem, len(d.SharedItems))
	copy(shared, d.SharedItems)
	for i := range shared {
		shared[i].Center = nil
	}
	d.SharedItems = shared
	return d
}
