// Package seed brings a fresh or upgraded database to a usable state: the
// login credential and the settings document. Safe to run on every startup.
package seed

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/blainea-sys/kcj-quote-app/internal/pricing"
	"github.com/blainea-sys/kcj-quote-app/internal/settings"
)

// Stats summarizes what a seeding run changed.
type Stats struct {
	Inserts int
	Updates int
}

// Run seeds the users and settings singletons inside one transaction.
// appPassword may be empty, in which case no credential is written.
// settingsPath is tried as the initial settings document when the table is
// empty; a missing file falls back to built-in defaults.
func Run(db *sql.DB, appPassword, settingsPath string) (Stats, error) {
	var stats Stats

	tx, err := db.Begin()
	if err != nil {
		return stats, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	if appPassword != "" {
		if err := ensurePassword(tx, appPassword, &stats); err != nil {
			return stats, err
		}
	}

	if err := ensureSettings(tx, settingsPath, &stats); err != nil {
		return stats, err
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit seed transaction: %w", err)
	}
	return stats, nil
}

// ensurePassword stores a bcrypt hash of the shared password, replacing the
// stored hash when the password changed.
func ensurePassword(tx *sql.Tx, password string, stats *Stats) error {
	var stored string
	err := tx.QueryRow(`SELECT password_hash FROM users WHERE id = 1`).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			return fmt.Errorf("hash password: %w", hashErr)
		}
		if _, err := tx.Exec(`INSERT INTO users (id, password_hash) VALUES (1, ?)`, string(hash)); err != nil {
			return fmt.Errorf("insert credential: %w", err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("query credential: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := tx.Exec(`
		UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1
	`, string(hash)); err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	stats.Updates++
	return nil
}

// ensureSettings inserts the initial settings document when none is stored.
// An existing document is never touched here; edits go through the API.
func ensureSettings(tx *sql.Tx, settingsPath string, stats *Stats) error {
	var n int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM settings WHERE id = 1`).Scan(&n); err != nil {
		return fmt.Errorf("query settings: %w", err)
	}
	if n > 0 {
		return nil
	}

	s := pricing.DefaultSettings()
	if settingsPath != "" {
		if _, statErr := os.Stat(settingsPath); statErr == nil {
			loaded, loadErr := settings.LoadFile(settingsPath)
			if loadErr != nil {
				return fmt.Errorf("import settings file: %w", loadErr)
			}
			s = loaded
		}
	}

	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO settings (id, doc) VALUES (1, ?)`, string(doc)); err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}
	stats.Inserts++
	return nil
}
