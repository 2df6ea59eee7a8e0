package review

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a review item does not exist.
var ErrNotFound = errors.New("review item not found")

// Item is a single concept tracked by the scheduler.
type Item struct {
	ID         string    `json:"id"`
	Concept    string    `json:"concept"`
	Notes      string    `json:"notes"`
	Quality    int       `json:"last_quality"`
	Reviews    int       `json:"reviews"`
	NextDue    time.Time `json:"next_due"`
	CreatedAt  time.Time `json:"created_at"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// Store persists review items in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the database at the given path.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL keeps readers unblocked while the daemon writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS review_items (
			id          TEXT PRIMARY KEY,
			concept     TEXT NOT NULL,
			notes       TEXT NOT NULL DEFAULT '',
			quality     INTEGER NOT NULL DEFAULT 0,
			reviews     INTEGER NOT NULL DEFAULT 0,
			next_due    DATETIME NOT NULL,
			created_at  DATETIME NOT NULL,
			reviewed_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_review_items_next_due
			ON review_items(next_due);
	`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records a new concept. The first review is due tomorrow.
func (s *Store) Add(concept, notes string, now time.Time) (*Item, error) {
	item := &Item{
		ID:         uuid.NewString(),
		Concept:    concept,
		Notes:      notes,
		NextDue:    now.AddDate(0, 0, 1),
		CreatedAt:  now,
		ReviewedAt: now,
	}
	_, err := s.db.Exec(
		`INSERT INTO review_items (id, concept, notes, quality, reviews, next_due, created_at, reviewed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Concept, item.Notes, item.Quality, item.Reviews,
		item.NextDue, item.CreatedAt, item.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Grade applies a recall grade to an item and reschedules it.
func (s *Store) Grade(id string, quality Quality, now time.Time) (*Item, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	item.Quality = int(quality.Clamp())
	item.Reviews++
	item.ReviewedAt = now
	item.NextDue = NextDue(now, quality)

	_, err = s.db.Exec(
		`UPDATE review_items SET quality = ?, reviews = ?, next_due = ?, reviewed_at = ?
		 WHERE id = ?`,
		item.Quality, item.Reviews, item.NextDue, item.ReviewedAt, item.ID,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Get retrieves a single item by ID.
func (s *Store) Get(id string) (*Item, error) {
	row := s.db.QueryRow(
		`SELECT id, concept, notes, quality, reviews, next_due, created_at, reviewed_at
		 FROM review_items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return item, err
}

// Due lists items whose next review is at or before now, oldest first.
func (s *Store) Due(now time.Time) ([]*Item, error) {
	return s.query(
		`SELECT id, concept, notes, quality, reviews, next_due, created_at, reviewed_at
		 FROM review_items WHERE next_due <= ? ORDER BY next_due ASC`, now,
	)
}

// List returns all items ordered by next due date.
func (s *Store) List() ([]*Item, error) {
	return s.query(
		`SELECT id, concept, notes, quality, reviews, next_due, created_at, reviewed_at
		 FROM review_items ORDER BY next_due ASC`,
	)
}

func (s *Store) query(q string, args ...any) ([]*Item, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*Item, error) {
	var item Item
	err := row.Scan(
		&item.ID, &item.Concept, &item.Notes, &item.Quality, &item.Reviews,
		&item.NextDue, &item.CreatedAt, &item.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
