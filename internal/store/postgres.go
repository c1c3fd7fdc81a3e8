package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore keeps the dedup record in PostgreSQL for deployments where
// the bot runs on a host without durable local disk (CI runners). Selected
// by DATABASE_URL; same namespaces and semantics as SQLiteStore.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS seen (
	id       TEXT PRIMARY KEY,
	title    TEXT,
	link     TEXT,
	category TEXT,
	ts       BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS seen_link (
	link TEXT PRIMARY KEY,
	ts   BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS recent_title (
	key TEXT PRIMARY KEY,
	ts  BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_seen_ts ON seen(ts);
`

// OpenPostgres connects and initializes the schema.
func OpenPostgres(connString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("%w: open postgres: %v", ErrPersistence, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", ErrPersistence, err)
	}
	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init schema: %v", ErrPersistence, err)
	}
	return &PostgresStore{db: db, now: time.Now}, nil
}

func (s *PostgresStore) SeenID(id string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM seen WHERE id = $1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: check seen id: %v", ErrPersistence, err)
	}
	return true, nil
}

func (s *PostgresStore) MarkSeen(rec Record) error {
	_, err := s.db.Exec(
		`INSERT INTO seen (id, title, link, category, ts) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.Title, rec.Link, rec.Category, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: mark seen: %v", ErrPersistence, err)
	}
	return nil
}

func (s *PostgresStore) LinkSeen(links ...string) (bool, error) {
	for _, link := range links {
		if link == "" {
			continue
		}
		var one int
		err := s.db.QueryRow(`SELECT 1 FROM seen_link WHERE link = $1`, link).Scan(&one)
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

func (s *PostgresStore) MarkLinks(links ...string) error {
	for _, link := range links {
		if link == "" {
			continue
		}
		_, err := s.db.Exec(
			`INSERT INTO seen_link (link, ts) VALUES ($1, $2) ON CONFLICT (link) DO NOTHING`,
			link, s.now().Unix(),
		)
		if err != nil {
			return fmt.Errorf("%w: mark link: %v", ErrPersistence, err)
		}
	}
	return nil
}

func (s *PostgresStore) TitleSeen(key string, ttl time.Duration) (bool, error) {
	var ts int64
	err := s.db.QueryRow(`SELECT ts FROM recent_title WHERE key = $1`, key).Scan(&ts)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: check recent title: %v", ErrPersistence, err)
	}
	return s.now().Sub(time.Unix(ts, 0)) <= ttl, nil
}

func (s *PostgresStore) MarkTitle(key string) error {
	_, err := s.db.Exec(
		`INSERT INTO recent_title (key, ts) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`,
		key, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: mark title: %v", ErrPersistence, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
