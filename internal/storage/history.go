package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// QueryRecord is one stored (query, response) pair with its dedup counter.
type QueryRecord struct {
	ID         int64
	Query      string
	Response   string
	ToolName   string
	Timestamp  int64
	Date       string
	QueryCount int
}

// HistoryStore persists the query/response history. It is the only writer to
// the query_history table; cache policy (fuzzy matching, TTL) lives above it.
type HistoryStore struct {
	db *sql.DB
}

func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Init creates the query_history table and the exact-match dedup index.
// Safe to call on every startup.
func (s *HistoryStore) Init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS query_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT,
			response TEXT,
			tool_name TEXT,
			timestamp INTEGER,
			date TEXT,
			query_count INTEGER DEFAULT 1
		);
		CREATE INDEX IF NOT EXISTS idx_query ON query_history (query);
	`)
	if err != nil {
		return fmt.Errorf("init query_history schema: %w", err)
	}
	return nil
}

// Store records a query/response pair. An existing row with the exact same
// query text newer than dedupCutoff gets its counter bumped and its
// timestamp/date refreshed in place; otherwise a new row is inserted with
// count 1. The read and the write share one immediate transaction so two
// concurrent stores of the same query cannot lose an increment.
func (s *HistoryStore) Store(query, response, toolName string, now time.Time, dedupCutoff int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin store: %w", err)
	}

	var id int64
	err = tx.QueryRow(
		`SELECT id FROM query_history WHERE query = ? AND timestamp > ? ORDER BY timestamp DESC LIMIT 1`,
		query, dedupCutoff,
	).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		_, err = tx.Exec(
			`INSERT INTO query_history (query, response, tool_name, timestamp, date, query_count) VALUES (?, ?, ?, ?, ?, 1)`,
			query, response, toolName, now.Unix(), now.Format("2006-01-02"),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert query row: %w", err)
		}
	case err != nil:
		tx.Rollback()
		return fmt.Errorf("find existing query: %w", err)
	default:
		if err := touchTx(tx, id, now); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit store: %w", err)
	}
	return nil
}

// Touch bumps the counter and refreshes timestamp/date of an existing row.
// The relative increment is atomic per row.
func (s *HistoryStore) Touch(id int64, now time.Time) error {
	_, err := s.db.Exec(
		`UPDATE query_history SET query_count = query_count + 1, timestamp = ?, date = ? WHERE id = ?`,
		now.Unix(), now.Format("2006-01-02"), id,
	)
	if err != nil {
		return fmt.Errorf("touch query row %d: %w", id, err)
	}
	return nil
}

// RecentSince returns rows with timestamp strictly newer than since, newest
// first. Used by the fuzzy cache lookup.
func (s *HistoryStore) RecentSince(since int64) ([]QueryRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, query, response, tool_name, timestamp, date, query_count FROM query_history WHERE timestamp > ? ORDER BY timestamp DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent history: %w", err)
	}
	defer rows.Close()

	var out []QueryRecord
	for rows.Next() {
		var r QueryRecord
		if err := rows.Scan(&r.ID, &r.Query, &r.Response, &r.ToolName, &r.Timestamp, &r.Date, &r.QueryCount); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

// DeleteOlderThan removes rows with timestamp older than cutoff and reports
// how many went away.
func (s *HistoryStore) DeleteOlderThan(cutoff int64) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM query_history WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted history: %w", err)
	}
	return n, nil
}

func touchTx(tx *sql.Tx, id int64, now time.Time) error {
	_, err := tx.Exec(
		`UPDATE query_history SET query_count = query_count + 1, timestamp = ?, date = ? WHERE id = ?`,
		now.Unix(), now.Format("2006-01-02"), id,
	)
	if err != nil {
		return fmt.Errorf("touch query row %d: %w", id, err)
	}
	return nil
}
