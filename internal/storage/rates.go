package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrNoData is returned when a read hits an empty rates table.
var ErrNoData = errors.New("no rates in database")

// Rate is one stored exchange-rate quote relative to the base currency.
// Rows from a single fetch share a timestamp and a date.
type Rate struct {
	Currency  string
	Rate      float64
	Timestamp int64
	Date      string
}

// LatestRates is the newest batch of quotes in the store.
type LatestRates struct {
	Date  string
	Rates map[string]float64
}

// RateStore persists exchange rates keyed by (currency, timestamp).
// It is the only writer to the exchange_rates table.
type RateStore struct {
	db *sql.DB
}

func NewRateStore(db *sql.DB) *RateStore {
	return &RateStore{db: db}
}

// Init creates the exchange_rates table. Safe to call on every startup.
func (s *RateStore) Init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS exchange_rates (
			currency TEXT,
			rate REAL,
			timestamp INTEGER,
			date TEXT,
			PRIMARY KEY (currency, timestamp)
		)
	`)
	if err != nil {
		return fmt.Errorf("init exchange_rates schema: %w", err)
	}
	return nil
}

// Upsert writes a batch of rates in one transaction. A row sharing the same
// (currency, timestamp) key is replaced, so re-applying the same fetch is a
// no-op rather than a duplicate.
func (s *RateStore) Upsert(rates []Rate) error {
	if len(rates) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO exchange_rates (currency, rate, timestamp, date) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()
	for _, r := range rates {
		if _, err := stmt.Exec(r.Currency, r.Rate, r.Timestamp, r.Date); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert rate %s@%d: %w", r.Currency, r.Timestamp, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// Latest returns all quotes at the newest stored timestamp, filtered to
// symbols when any are given. Returns ErrNoData for an empty store.
func (s *RateStore) Latest(symbols ...string) (LatestRates, error) {
	var ts sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(timestamp) FROM exchange_rates`).Scan(&ts); err != nil {
		return LatestRates{}, fmt.Errorf("query max timestamp: %w", err)
	}
	if !ts.Valid {
		return LatestRates{}, ErrNoData
	}

	query := `SELECT currency, rate, date FROM exchange_rates WHERE timestamp = ?`
	args := []any{ts.Int64}
	if len(symbols) > 0 {
		query += ` AND currency IN (?` + strings.Repeat(",?", len(symbols)-1) + `)`
		for _, sym := range symbols {
			args = append(args, sym)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return LatestRates{}, fmt.Errorf("query latest rates: %w", err)
	}
	defer rows.Close()

	out := LatestRates{Rates: make(map[string]float64)}
	for rows.Next() {
		var currency, date string
		var rate float64
		if err := rows.Scan(&currency, &rate, &date); err != nil {
			return LatestRates{}, fmt.Errorf("scan rate row: %w", err)
		}
		out.Rates[currency] = rate
		out.Date = date
	}
	if err := rows.Err(); err != nil {
		return LatestRates{}, fmt.Errorf("iterate rates: %w", err)
	}
	if out.Date == "" {
		// Rows exist at the timestamp but none matched the symbol filter;
		// pick up the shared date so callers can still report it.
		if err := s.db.QueryRow(`SELECT date FROM exchange_rates WHERE timestamp = ? LIMIT 1`, ts.Int64).Scan(&out.Date); err != nil {
			return LatestRates{}, fmt.Errorf("query batch date: %w", err)
		}
	}
	return out, nil
}
