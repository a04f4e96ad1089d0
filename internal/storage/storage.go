// Package storage provides SQLite-backed persistence for analyzed calendar
// events and sent advisories.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spendcal/spendcal/internal/models"
	_ "modernc.org/sqlite"
)

// Storage wraps a SQLite database for all persistence operations.
type Storage struct {
	db        *sql.DB
	maxEvents int
}

// New opens or creates the SQLite database at dbPath.
// An empty dbPath defaults to $TMPDIR/spendcal/data.db.
func New(maxEvents int, dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "spendcal", "data.db")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	s := &Storage{db: db, maxEvents: maxEvents}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id                   TEXT PRIMARY KEY,
			title                TEXT NOT NULL DEFAULT '',
			description          TEXT NOT NULL DEFAULT '',
			location             TEXT NOT NULL DEFAULT '',
			start_time           INTEGER NOT NULL DEFAULT 0,
			end_time             INTEGER NOT NULL DEFAULT 0,
			category             TEXT NOT NULL,
			spending_probability REAL NOT NULL,
			range_min            REAL NOT NULL,
			range_max            REAL NOT NULL,
			confidence           REAL NOT NULL,
			matched_keywords     TEXT NOT NULL DEFAULT '[]',
			spending_categories  TEXT NOT NULL DEFAULT '[]',
			synced_at            INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_time)`,
		`CREATE TABLE IF NOT EXISTS advisories (
			id         TEXT PRIMARY KEY,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			message    TEXT NOT NULL,
			priority   TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_advisories_created_at ON advisories(created_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// UpsertEvent inserts or replaces an event together with its analysis.
// Re-synced events overwrite their previous row, so a re-classification after
// a pattern-table change takes effect on the next sync.
func (s *Storage) UpsertEvent(event *models.CalendarEvent, analysis *models.EventAnalysis) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}
	if err := analysis.Validate(); err != nil {
		return fmt.Errorf("invalid analysis: %w", err)
	}

	keywordsJSON, err := json.Marshal(analysis.MatchedKeywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}
	categoriesJSON, err := json.Marshal(analysis.SpendingCategories)
	if err != nil {
		return fmt.Errorf("failed to marshal spending categories: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO events
			(id, title, description, location, start_time, end_time, category,
			 spending_probability, range_min, range_max, confidence,
			 matched_keywords, spending_categories, synced_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		event.ID, event.Title, event.Description, event.Location,
		storeTime(event.Start), storeTime(event.End),
		string(analysis.Category), analysis.SpendingProbability,
		analysis.ExpectedRange.Min, analysis.ExpectedRange.Max, analysis.Confidence,
		string(keywordsJSON), string(categoriesJSON),
		time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert event: %w", err)
	}
	return nil
}

// GetEvent retrieves a single analyzed event by ID.
func (s *Storage) GetEvent(id string) (*models.AnalyzedEvent, error) {
	row := s.db.QueryRow(`SELECT `+eventCols+` FROM events WHERE id = ?`, id)
	ae, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return ae, nil
}

// EventsInRange returns analyzed events with a start time in [from, to],
// ordered by start time ascending.
func (s *Storage) EventsInRange(from, to time.Time) ([]models.AnalyzedEvent, error) {
	rows, err := s.db.Query(`
		SELECT `+eventCols+` FROM events
		WHERE start_time >= ? AND start_time <= ?
		ORDER BY start_time ASC`,
		storeTime(from), storeTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	return collectEvents(rows)
}

// AllEvents returns every stored analyzed event ordered by start time.
func (s *Storage) AllEvents() ([]models.AnalyzedEvent, error) {
	rows, err := s.db.Query(`SELECT ` + eventCols + ` FROM events ORDER BY start_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	return collectEvents(rows)
}

// RotateEvents keeps at most maxEvents newest events by start time.
func (s *Storage) RotateEvents() error {
	_, err := s.db.Exec(`
		DELETE FROM events WHERE id NOT IN (
			SELECT id FROM events ORDER BY start_time DESC LIMIT ?
		)`, s.maxEvents)
	if err != nil {
		return fmt.Errorf("failed to rotate events: %w", err)
	}
	return nil
}

// AddAdvisory records a sent advisory.
func (s *Storage) AddAdvisory(n *models.Notification) error {
	_, err := s.db.Exec(`
		INSERT INTO advisories (id, type, title, message, priority, created_at)
		VALUES (?,?,?,?,?,?)`,
		n.ID, n.Type, n.Title, n.Message, n.Priority, n.Timestamp.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert advisory: %w", err)
	}
	return nil
}

// RecentAdvisories returns the most recent k advisories, newest first.
func (s *Storage) RecentAdvisories(k int) ([]models.Notification, error) {
	rows, err := s.db.Query(`
		SELECT id, type, title, message, priority, created_at
		FROM advisories ORDER BY created_at DESC LIMIT ?`, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query advisories: %w", err)
	}
	defer rows.Close()

	var advisories []models.Notification
	for rows.Next() {
		var n models.Notification
		var createdAtNano int64
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.Priority, &createdAtNano); err != nil {
			return nil, fmt.Errorf("failed to scan advisory: %w", err)
		}
		n.Timestamp = time.Unix(0, createdAtNano)
		advisories = append(advisories, n)
	}
	return advisories, rows.Err()
}

const eventCols = `id, title, description, location, start_time, end_time, category,
	spending_probability, range_min, range_max, confidence,
	matched_keywords, spending_categories`

func collectEvents(rows *sql.Rows) ([]models.AnalyzedEvent, error) {
	defer rows.Close()
	events := []models.AnalyzedEvent{}
	for rows.Next() {
		ae, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *ae)
	}
	return events, rows.Err()
}

func scanEvent(scan func(...any) error) (*models.AnalyzedEvent, error) {
	var ae models.AnalyzedEvent
	var startNano, endNano int64
	var category, keywordsJSON, categoriesJSON string

	err := scan(
		&ae.Event.ID, &ae.Event.Title, &ae.Event.Description, &ae.Event.Location,
		&startNano, &endNano, &category,
		&ae.Analysis.SpendingProbability,
		&ae.Analysis.ExpectedRange.Min, &ae.Analysis.ExpectedRange.Max,
		&ae.Analysis.Confidence,
		&keywordsJSON, &categoriesJSON,
	)
	if err != nil {
		return nil, err
	}

	ae.Event.Start = loadTime(startNano)
	ae.Event.End = loadTime(endNano)
	ae.Analysis.Category = models.Category(category)
	if err := json.Unmarshal([]byte(keywordsJSON), &ae.Analysis.MatchedKeywords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(categoriesJSON), &ae.Analysis.SpendingCategories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal spending categories: %w", err)
	}
	return &ae, nil
}

// Zero times round-trip as 0 so "no timestamp" survives persistence.
func storeTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func loadTime(nano int64) time.Time {
	if nano == 0 {
		return time.Time{}
	}
	return time.Unix(0, nano)
}
