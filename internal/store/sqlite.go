package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the default persisted backend, a single local database
// file. The driver is pure Go, so the bot stays cross-compilable.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS seen (
	id       TEXT PRIMARY KEY,
	title    TEXT,
	link     TEXT,
	category TEXT,
	ts       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS seen_link (
	link TEXT PRIMARY KEY,
	ts   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS recent_title (
	key TEXT PRIMARY KEY,
	ts  INTEGER NOT NULL
);
`

// OpenSQLite opens (creating if needed) the dedup database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite %s: %v", ErrPersistence, path, err)
	}
	// The store is only ever touched by the single active run.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init schema: %v", ErrPersistence, err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) SeenID(id string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM seen WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: check seen id: %v", ErrPersistence, err)
	}
	return true, nil
}

func (s *SQLiteStore) MarkSeen(rec Record) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO seen (id, title, link, category, ts) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Link, rec.Category, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: mark seen: %v", ErrPersistence, err)
	}
	return nil
}

func (s *SQLiteStore) LinkSeen(links ...string) (bool, error) {
	for _, link := range links {
		if link == "" {
			continue
		}
		var one int
		err := s.db.QueryRow(`SELECT 1 FROM seen_link WHERE link = ?`, link).Scan(&one)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("%w: check seen link: %v", ErrPersistence, err)
		}
		return true, nil
	}
	return false, nil
}

func (s *SQLiteStore) MarkLinks(links ...string) error {
	for _, link := range links {
		if link == "" {
			continue
		}
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO seen_link (link, ts) VALUES (?, ?)`,
			link, s.now().Unix(),
		)
		if err != nil {
			return fmt.Errorf("%w: mark link: %v", ErrPersistence, err)
		}
	}
	return nil
}

func (s *SQLiteStore) TitleSeen(key string, ttl time.Duration) (bool, error) {
	var ts int64
	err := s.db.QueryRow(`SELECT ts FROM recent_title WHERE key = ?`, key).Scan(&ts)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: check recent title: %v", ErrPersistence, err)
	}
	// Logical expiry: old rows stop counting but are never deleted here.
	return s.now().Sub(time.Unix(ts, 0)) <= ttl, nil
}

func (s *SQLiteStore) MarkTitle(key string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO recent_title (key, ts) VALUES (?, ?)`,
		key, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: mark title: %v", ErrPersistence, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
