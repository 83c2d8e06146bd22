package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/blainea-sys/kcj-quote-app/internal/quotedoc"
)

type quoteListItem struct {
	ID           string          `json:"id"`
	CreatedAt    string          `json:"created_at"`
	CustomerName string          `json:"customer_name"`
	JobName      string          `json:"job_name"`
	Total        decimal.Decimal `json:"total"`
}

// quoteTotals is the denormalized summary stored next to the full record so
// the archive listing never has to parse whole export documents.
type quoteTotals struct {
	SubtotalPreTax decimal.Decimal `json:"subtotal_pre_tax"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total_with_tax"`
	Deposit        decimal.Decimal `json:"deposit"`
}

func (s *server) insertQuote(record quotedoc.ExportRecord) error {
	docJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal export record: %w", err)
	}

	totals := quoteTotals{}
	if len(record.Computed) > 0 {
		first := record.Computed[0]
		totals = quoteTotals{
			SubtotalPreTax: first.SubtotalPreTax,
			Tax:            first.Tax,
			Total:          first.Total,
			Deposit:        first.Deposit,
		}
	}
	totalsJSON, err := json.Marshal(totals)
	if err != nil {
		return fmt.Errorf("marshal quote totals: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO quotes (id, customer_name, job_name, notes, doc_json, totals_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		record.Document.Header.QuoteID,
		record.Request.CustomerName,
		record.Request.JobName,
		record.Request.Notes,
		string(docJSON),
		string(totalsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}

	return nil
}

func (s *server) listQuotes(query string) ([]quoteListItem, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT
			id,
			created_at,
			COALESCE(customer_name, ''),
			COALESCE(job_name, ''),
			totals_json
		FROM quotes
		WHERE (? = ''
			OR COALESCE(customer_name, '') LIKE ?
			OR COALESCE(job_name, '') LIKE ?
			OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]quoteListItem, 0)
	for rows.Next() {
		var item quoteListItem
		var totalsJSON string
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.CustomerName, &item.JobName, &totalsJSON); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		item.Total = extractTotalFromJSON(totalsJSON)
		quotes = append(quotes, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return quotes, nil
}

func (s *server) getQuote(id string) (quotedoc.ExportRecord, bool, error) {
	var docJSON string
	err := s.db.QueryRow(`SELECT doc_json FROM quotes WHERE id = ?`, id).Scan(&docJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return quotedoc.ExportRecord{}, false, nil
	}
	if err != nil {
		return quotedoc.ExportRecord{}, false, fmt.Errorf("query quote: %w", err)
	}

	var record quotedoc.ExportRecord
	if err := json.Unmarshal([]byte(docJSON), &record); err != nil {
		return quotedoc.ExportRecord{}, false, fmt.Errorf("decode export record: %w", err)
	}
	return record, true, nil
}

// extractTotalFromJSON reads the headline total out of a stored totals
// summary, tolerating older rows that used a plain "total" key.
func extractTotalFromJSON(totalsJSON string) decimal.Decimal {
	var values map[string]decimal.Decimal
	if err := json.Unmarshal([]byte(totalsJSON), &values); err != nil {
		return decimal.Zero
	}

	for _, key := range []string{"total_with_tax", "total"} {
		if total, ok := values[key]; ok {
			return total
		}
	}

	return decimal.Zero
}

// renderQuoteText renders a document as the plain-text quote that gets pasted
// into emails.
func renderQuoteText(doc quotedoc.Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "QUOTE %s\n", doc.Header.QuoteID)
	fmt.Fprintf(&b, "Date: %s", doc.Header.QuoteDate)
	if doc.Header.ValidUntil != "" {
		fmt.Fprintf(&b, "    Valid until: %s", doc.Header.ValidUntil)
	}
	b.WriteString("\n")
	if doc.Header.CustomerName != "" {
		fmt.Fprintf(&b, "Customer: %s\n", doc.Header.CustomerName)
	}
	if doc.Header.JobName != "" {
		fmt.Fprintf(&b, "Job: %s\n", doc.Header.JobName)
	}
	if doc.Header.ItemType != "" {
		fmt.Fprintf(&b, "Item: %s\n", doc.Header.ItemType)
	}
	ring := doc.Header.Ring
	if ring.FingerSize != "" || ring.RingWidth != "" || ring.CenterShape != "" {
		fmt.Fprintf(&b, "Ring: size %s, width %s, center %s\n", ring.FingerSize, ring.RingWidth, ring.CenterShape)
	}
	b.WriteString("\n")

	for _, li := range doc.SharedItems {
		fmt.Fprintf(&b, "  %-44s %12s\n", li.Label, li.Amount.StringFixed(2))
	}
	if len(doc.SharedItems) > 0 {
		b.WriteString("\n")
	}

	for _, opt := range doc.MetalOptions {
		fmt.Fprintf(&b, "  %-20s metal %12s   total %12s   deposit %12s\n",
			opt.MetalKey,
			opt.MetalAmount.StringFixed(2),
			opt.Total.StringFixed(2),
			opt.Deposit.StringFixed(2),
		)
	}

	if doc.Header.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", doc.Header.Notes)
	}

	fmt.Fprintf(&b, "\n%s\n", doc.Footer)
	return b.String()
}
