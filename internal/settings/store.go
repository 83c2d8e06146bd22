// Package settings persists the pricing configuration document. The whole
// document lives in one row, mirroring the original single settings.json
// file; file load/save remains available for download and re-import.
package settings

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/blainea-sys/kcj-quote-app/internal/pricing"
)

// Store reads and writes the settings singleton row.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ensure inserts the default settings document if none is stored yet.
func (st *Store) Ensure() error {
	doc, err := json.Marshal(pricing.DefaultSettings())
	if err != nil {
		return fmt.Errorf("marshal default settings: %w", err)
	}

	_, err = st.db.Exec(`
		INSERT INTO settings (id, doc)
		VALUES (1, ?)
		ON CONFLICT(id) DO NOTHING
	`, string(doc))
	if err != nil {
		return fmt.Errorf("insert default settings: %w", err)
	}
	return nil
}

// Load returns the stored settings document.
func (st *Store) Load() (pricing.Settings, error) {
	if err := st.Ensure(); err != nil {
		return pricing.Settings{}, err
	}

	var doc string
	err := st.db.QueryRow(`SELECT doc FROM settings WHERE id = 1`).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.Settings{}, fmt.Errorf("settings singleton not found")
		}
		return pricing.Settings{}, fmt.Errorf("query settings: %w", err)
	}

	var s pricing.Settings
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return pricing.Settings{}, fmt.Errorf("decode settings document: %w", err)
	}
	return s, nil
}

// Save validates and stores the settings document.
func (st *Store) Save(s pricing.Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	_, err = st.db.Exec(`
		INSERT INTO settings (id, doc, updated_at)
		VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = CURRENT_TIMESTAMP
	`, string(doc))
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

// LoadFile reads a settings JSON document from disk.
func LoadFile(path string) (pricing.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pricing.Settings{}, fmt.Errorf("read settings file: %w", err)
	}
	var s pricing.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return pricing.Settings{}, fmt.Errorf("decode settings file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return pricing.Settings{}, fmt.Errorf("invalid settings file: %w", err)
	}
	return s, nil
}

// SaveFile writes a settings JSON document for download or version control.
func SaveFile(path string, s pricing.Settings) error {
	doc, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, doc, 0644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}
