package settings

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/blainea-sys/kcj-quote-app/internal/pricing"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	_, err = db.Exec(`
		CREATE TABLE settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			doc TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStore_LoadSeedsDefaults(t *testing.T) {
	st := NewStore(newTestDB(t))

	s, err := st.Load()
	require.NoError(t, err)
	require.Equal(t, pricing.RoundNone, s.Rounding)
	require.True(t, s.DepositRate.Equal(decimal.NewFromFloat(0.5)))
	require.Equal(t, 14, s.Output.QuoteValidDays)
}

func TestStore_SaveRoundTrips(t *testing.T) {
	st := NewStore(newTestDB(t))

	s := pricing.DefaultSettings()
	s.MetalRates["14K Yellow"] = decimal.NewFromInt(120)
	s.TaxRate = decimal.NewFromFloat(0.07)
	s.Rounding = pricing.RoundNearest
	require.NoError(t, st.Save(s))

	loaded, err := st.Load()
	require.NoError(t, err)
	require.True(t, loaded.MetalRates["14K Yellow"].Equal(decimal.NewFromInt(120)))
	require.True(t, loaded.TaxRate.Equal(decimal.NewFromFloat(0.07)))
	require.Equal(t, pricing.RoundNearest, loaded.Rounding)
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	st := NewStore(newTestDB(t))

	s := pricing.DefaultSettings()
	s.TaxRate = decimal.NewFromInt(2)
	err := st.Save(s)
	require.ErrorContains(t, err, "tax_rate")

	// The stored document is untouched.
	loaded, err := st.Load()
	require.NoError(t, err)
	require.True(t, loaded.TaxRate.IsZero())
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s := pricing.DefaultSettings()
	s.MetalRates["Platinum"] = decimal.NewFromInt(180)
	require.NoError(t, SaveFile(path, s))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.True(t, loaded.MetalRates["Platinum"].Equal(decimal.NewFromInt(180)))
}

func TestLoadFile_RejectsInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s := pricing.DefaultSettings()
	s.DepositRate = decimal.NewFromInt(3)
	// SaveFile does not validate (it writes whatever the session holds);
	// LoadFile is the gate.
	require.NoError(t, SaveFile(path, s))

	_, err := LoadFile(path)
	require.ErrorContains(t, err, "deposit_rate")
}
