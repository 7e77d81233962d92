// Package draft persists the create-flow work in progress, so an event
// being set up survives quitting the program or losing the network
// before the room is registered.
package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quorum-sh/quorum/internal/schedule"
)

// schemaVersion guards the payload format. A draft written by a
// different version is discarded rather than half-parsed.
const schemaVersion = 1

// Store is the single-draft SQLite store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening draft store: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to draft store: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS drafts (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			version    INTEGER NOT NULL,
			payload    TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating drafts table: %w", err)
	}
	return nil
}

// record is the stored JSON shape of a draft.
type record struct {
	EventName  string   `json:"event_name"`
	DateMode   string   `json:"date_mode"`
	Dates      []string `json:"dates,omitempty"`
	Weekdays   []int    `json:"weekdays,omitempty"`
	SlotLength int      `json:"slot_length"`
	FromHour   int      `json:"from_hour"`
	ToHour     int      `json:"to_hour"`
	Schedule   [][]bool `json:"schedule"`
}

const storedDateLayout = "2006-01-02"

func newRecord(d *schedule.Data) record {
	rec := record{
		EventName:  d.EventName,
		DateMode:   d.Dates.Mode().String(),
		SlotLength: d.SlotLength,
		FromHour:   d.TimeRange.From.Hour24(),
		ToHour:     d.TimeRange.To.Hour24(),
		Schedule:   d.UserSchedule,
	}
	switch d.Dates.Mode() {
	case schedule.ExplicitDates:
		for _, date := range d.Dates.Dates() {
			rec.Dates = append(rec.Dates, date.Format(storedDateLayout))
		}
	case schedule.WeekdayPattern:
		rec.Weekdays = d.Dates.Weekdays()
	}
	return rec
}

func (rec record) scheduleData() (*schedule.Data, error) {
	d := &schedule.Data{
		EventName:  rec.EventName,
		SlotLength: rec.SlotLength,
		TimeRange: schedule.TimeWindow{
			From: schedule.FromHour24(rec.FromHour),
			To:   schedule.FromHour24(rec.ToHour),
		},
		UserSchedule:  rec.Schedule,
		AbsentReasons: []*string{nil},
	}
	switch rec.DateMode {
	case schedule.WeekdayPattern.String():
		sel, err := schedule.NewWeekdayPattern(rec.Weekdays)
		if err != nil {
			return nil, fmt.Errorf("stored weekdays: %w", err)
		}
		d.Dates = sel
	default:
		dates := make([]time.Time, 0, len(rec.Dates))
		for _, raw := range rec.Dates {
			parsed, err := time.Parse(storedDateLayout, raw)
			if err != nil {
				return nil, fmt.Errorf("stored date %q: %w", raw, err)
			}
			dates = append(dates, parsed)
		}
		d.Dates = schedule.NewExplicitDates(dates)
	}
	d.Reshape()
	return d, nil
}

// Save stores d as the draft, replacing any previous one.
func (s *Store) Save(ctx context.Context, d *schedule.Data) error {
	payload, err := json.Marshal(newRecord(d))
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}

	query := `
		INSERT INTO drafts (id, version, payload, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET version=excluded.version,
			payload=excluded.payload, updated_at=excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query,
		schemaVersion, string(payload), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

// Load returns the stored draft, or nil when there is none. A draft from
// an incompatible schema version is treated as absent.
func (s *Store) Load(ctx context.Context) (*schedule.Data, error) {
	var (
		version int
		payload string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT version, payload FROM drafts WHERE id = 1`,
	).Scan(&version, &payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying draft: %w", err)
	}
	if version != schemaVersion {
		return nil, nil
	}

	var rec record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, fmt.Errorf("decoding draft: %w", err)
	}
	return rec.scheduleData()
}

// Clear removes the draft, typically after a successful room creation.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = 1`); err != nil {
		return fmt.Errorf("clearing draft: %w", err)
	}
	return nil
}
