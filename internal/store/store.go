// Package store persists the dedup record of previously dispatched items in
// three independent insert-if-absent namespaces: seen (by stable id),
// seen_link (by normalized/primary link) and recent_title (by
// publisher-qualified title fingerprint, logically expired by TTL at read
// time).
package store

import (
	"errors"
	"time"
)

// ErrPersistence marks the store as unreadable or unwritable. Continuing a
// run without reliable dedup tracking risks duplicate floods, so callers
// treat it as fatal.
var ErrPersistence = errors.New("dedup store unavailable")

// Record is one dispatched item as remembered in the seen namespace.
type Record struct {
	ID       string
	Title    string
	Link     string
	Category string
}

// Store is the persisted dedup record. All writes are insert-if-absent, so
// re-recording the same item is safe.
type Store interface {
	// SeenID reports whether the stable item id was already dispatched.
	SeenID(id string) (bool, error)
	// MarkSeen records a dispatched item in the seen namespace.
	MarkSeen(rec Record) error
	// LinkSeen reports whether any of the given links was already dispatched.
	LinkSeen(links ...string) (bool, error)
	// MarkLinks records links in the seen_link namespace.
	MarkLinks(links ...string) error
	// TitleSeen reports whether the title key was recorded within the TTL
	// window. Expired entries are retained but no longer count.
	TitleSeen(key string, ttl time.Duration) (bool, error)
	// MarkTitle records a title key in the recent_title namespace.
	MarkTitle(key string) error
	Close() error
}
