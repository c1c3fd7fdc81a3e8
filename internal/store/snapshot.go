package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// LinkSnapshot mirrors the seen_link namespace into a flat JSON file so the
// set of known links survives a lost or rotated database. Best effort: the
// snapshot never gates dispatch decisions by itself, the Store does.
type LinkSnapshot struct {
	path  string
	mu    sync.Mutex
	links map[string]struct{}
}

// NewLinkSnapshot creates a snapshot bound to path. Call Load before use.
func NewLinkSnapshot(path string) *LinkSnapshot {
	return &LinkSnapshot{path: path, links: make(map[string]struct{})}
}

// Load reads the snapshot file. A missing file is an empty snapshot; a
// corrupt file is renamed aside for diagnosis and treated as empty.
func (s *LinkSnapshot) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read link snapshot: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var links []string
	if err := json.Unmarshal(data, &links); err != nil {
		_ = os.WriteFile(s.path+".broken", data, 0644)
		return nil
	}
	for _, l := range links {
		s.links[l] = struct{}{}
	}
	return nil
}

// Add records links in memory; Save flushes them to disk.
func (s *LinkSnapshot) Add(links ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range links {
		if l != "" {
			s.links[l] = struct{}{}
		}
	}
}

// Contains reports whether link is in the snapshot.
func (s *LinkSnapshot) Contains(link string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.links[link]
	return ok
}

// Save writes the snapshot atomically via a temp file and rename.
func (s *LinkSnapshot) Save() error {
	s.mu.Lock()
	links := make([]string, 0, len(s.links))
	for l := range s.links {
		links = append(links, l)
	}
	s.mu.Unlock()
	sort.Strings(links)

	data, err := json.MarshalIndent(links, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal link snapshot: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}
