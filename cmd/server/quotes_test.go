package main

import (
	"database/sql"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/blainea-sys/kcj-quote-app/internal/pricing"
	"github.com/blainea-sys/kcj-quote-app/internal/quotedoc"
	"github.com/shopspring/decimal"
)

func TestListQuotesOrdersByDateDescAndReadsTotal(t *testing.T) {
	db := newQuotesTestDB(t)
	srv := &server{db: db}

	seedQuote(t, db, "Q1", "2026-01-01 10:00:00", "Alice", "eternity band", "", `{"total_with_tax": 100.50}`)
	seedQuote(t, db, "Q3", "2026-01-03 12:00:00", "Carol", "pendant", "", `{"total_with_tax": 300.00}`)
	seedQuote(t, db, "Q2", "2026-01-02 11:00:00", "Bob", "signet ring", "", `{"total_with_tax": 200.25}`)

	quotes, err := srv.listQuotes("")
	if err != nil {
		t.Fatalf("listQuotes returned error: %v", err)
	}

	if len(quotes) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(quotes))
	}

	if quotes[0].ID != "Q3" || quotes[1].ID != "Q2" || quotes[2].ID != "Q1" {
		t.Fatalf("quotes are not sorted desc by created_at: %+v", quotes)
	}

	if !quotes[0].Total.Equal(decimal.RequireFromString("300.00")) ||
		!quotes[1].Total.Equal(decimal.RequireFromString("200.25")) ||
		!quotes[2].Total.Equal(decimal.RequireFromString("100.50")) {
		t.Fatalf("unexpected totals: %+v", quotes)
	}
}

func TestListQuotesFiltersByCustomerJobAndNotes(t *testing.T) {
	db := newQuotesTestDB(t)
	srv := &server{db: db}

	seedQuote(t, db, "Q1", "2026-01-01 10:00:00", "Alice Smith", "halo ring", "rush order", `{"total_with_tax": 80}`)
	seedQuote(t, db, "Q2", "2026-01-02 10:00:00", "Bob Jones", "tennis bracelet", "vip client", `{"total_with_tax": 120}`)
	seedQuote(t, db, "Q3", "2026-01-03 10:00:00", "Carol Diaz", "studs", "another rush job", `{"total_with_tax": 160}`)

	byCustomer, err := srv.listQuotes("Jones")
	if err != nil {
		t.Fatalf("listQuotes customer filter returned error: %v", err)
	}
	if len(byCustomer) != 1 || byCustomer[0].ID != "Q2" {
		t.Fatalf("expected 1 quote filtered by customer, got %+v", byCustomer)
	}

	byJob, err := srv.listQuotes("halo")
	if err != nil {
		t.Fatalf("listQuotes job filter returned error: %v", err)
	}
	if len(byJob) != 1 || byJob[0].ID != "Q1" {
		t.Fatalf("expected 1 quote filtered by job, got %+v", byJob)
	}

	byNotes, err := srv.listQuotes("rush")
	if err != nil {
		t.Fatalf("listQuotes notes filter returned error: %v", err)
	}
	if len(byNotes) != 2 {
		t.Fatalf("expected 2 quotes filtered by notes, got %+v", byNotes)
	}
}

func TestInsertAndGetQuoteRoundTrip(t *testing.T) {
	db := newQuotesTestDB(t)
	srv := &server{db: db}

	cfg := pricing.DefaultSettings()
	cfg.MetalRates = map[string]decimal.Decimal{"14K Yellow": decimal.NewFromInt(120)}

	req := pricing.NewQuoteRequest()
	req.CustomerName = "Alice Smith"
	req.JobName = "three stone ring"
	req.QuoteDate = "2026-08-25"
	req.Metals = []string{"14K Yellow"}
	req.MetalWeight = decimal.NewFromInt(10)
	req.Normalize(cfg)

	quotes := pricing.ComputeQuoteMulti(cfg, req)
	record := quotedoc.BuildExport("20260825-120000-ABCDEF", req, quotes)

	if err := srv.insertQuote(record); err != nil {
		t.Fatalf("insertQuote: %v", err)
	}

	got, found, err := srv.getQuote("20260825-120000-ABCDEF")
	if err != nil {
		t.Fatalf("getQuote: %v", err)
	}
	if !found {
		t.Fatal("archived quote not found")
	}
	if got.Document.Header.QuoteID != record.Document.Header.QuoteID {
		t.Fatalf("quote id = %q, want %q", got.Document.Header.QuoteID, record.Document.Header.QuoteID)
	}
	if got.Request.CustomerName != "Alice Smith" {
		t.Fatalf("customer = %q, want %q", got.Request.CustomerName, "Alice Smith")
	}
	if len(got.Computed) != 1 || !got.Computed[0].Total.Equal(quotes[0].Total) {
		t.Fatalf("computed totals did not round-trip: %+v", got.Computed)
	}

	list, err := srv.listQuotes("")
	if err != nil {
		t.Fatalf("listQuotes: %v", err)
	}
	if len(list) != 1 || !list[0].Total.Equal(quotes[0].Total) {
		t.Fatalf("listing total = %+v, want %s", list, quotes[0].Total)
	}
}

func TestGetQuoteNotFound(t *testing.T) {
	db := newQuotesTestDB(t)
	srv := &server{db: db}

	_, found, err := srv.getQuote("nope")
	if err != nil {
		t.Fatalf("getQuote: %v", err)
	}
	if found {
		t.Fatal("expected missing quote")
	}
}

func TestExtractTotalFromJSON(t *testing.T) {
	cases := []struct {
		name string
		json string
		want string
	}{
		{"current key", `{"total_with_tax": 1444.50, "deposit": 675}`, "1444.50"},
		{"legacy key", `{"total": 99.99}`, "99.99"},
		{"missing keys", `{"deposit": 10}`, "0"},
		{"invalid json", `not json`, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := extractTotalFromJSON(tc.json)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("extractTotalFromJSON(%q) = %s, want %s", tc.json, got, tc.want)
			}
		})
	}
}

func TestRenderQuoteText(t *testing.T) {
	doc := quotedoc.Document{
		Header: quotedoc.Header{
			QuoteID:      "20260825-120000-ABCDEF",
			QuoteDate:    "2026-08-25",
			ValidUntil:   "2026-09-08",
			CustomerName: "Alice Smith",
			JobName:      "three stone ring",
			Notes:        "customer prefers low profile",
		},
		SharedItems: []pricing.LineItem{
			{Label: "CAD / design fee", Amount: decimal.NewFromInt(300)},
		},
		MetalOptions: []quotedoc.MetalOption{
			{
				MetalKey:    "14K Yellow",
				MetalAmount: decimal.RequireFromString("1200.00"),
				Total:       decimal.RequireFromString("1444.50"),
				Deposit:     decimal.RequireFromString("675.00"),
			},
		},
		Footer: quotedoc.Footer,
	}

	text := renderQuoteText(doc)

	for _, want := range []string{
		"QUOTE 20260825-120000-ABCDEF",
		"Valid until: 2026-09-08",
		"Customer: Alice Smith",
		"CAD / design fee",
		"14K Yellow",
		"1444.50",
		"675.00",
		"customer prefers low profile",
		quotedoc.Footer,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("rendered text missing %q:\n%s", want, text)
		}
	}
}

func newQuotesTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE quotes (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			customer_name TEXT,
			job_name TEXT,
			notes TEXT,
			doc_json TEXT NOT NULL,
			totals_json TEXT NOT NULL
		);
	`)
	if err != nil {
		t.Fatalf("failed creating quotes table: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func seedQuote(t *testing.T, db *sql.DB, id, createdAt, customer, job, notes, totalsJSON string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO quotes (id, created_at, customer_name, job_name, notes, doc_json, totals_json)
		VALUES (?, ?, ?, ?, ?, '{}', ?)
	`, id, createdAt, customer, job, notes, totalsJSON)
	if err != nil {
		t.Fatalf("failed to seed quote: %v", err)
	}
}
