// Package dedup derives the comparison keys used to detect a story that was
// already dispatched: title fingerprints, the stable item id and the
// run-scoped seen sets.
package dedup

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
	"time"
	"unicode"
)

// LooseFingerprint lowercases the title and collapses every non-letter,
// non-digit run to a single space. Cheap, order-preserving; used for
// within-run duplicate detection.
func LooseFingerprint(title string) string {
	return strings.Join(tokens(title), " ")
}

// AggressiveFingerprint additionally drops tokens of length <= 2 and purely
// numeric tokens, then deduplicates and sorts the rest. The result survives
// word reordering, punctuation edits and small qualifier changes, so a
// republished story collides with its first appearance across runs.
func AggressiveFingerprint(title string) string {
	seen := map[string]struct{}{}
	var kept []string
	for _, tok := range tokens(title) {
		if len([]rune(tok)) <= 2 || isNumeric(tok) {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		kept = append(kept, tok)
	}
	sort.Strings(kept)
	return strings.Join(kept, " ")
}

// TitleKey scopes a fingerprint by publisher so two outlets covering the same
// topic with similar phrasing are not treated as duplicates of each other.
func TitleKey(publisher, fingerprint string) string {
	return publisher + "::" + fingerprint
}

func tokens(s string) []string {
	s = strings.ToLower(s)
	runes := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			runes = append(runes, r)
		} else {
			runes = append(runes, ' ')
		}
	}
	return strings.Fields(string(runes))
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return s != ""
}

// StableID derives the persisted dedup id for an item: SHA-1 of the primary
// link plus the entry timestamp, falling back to the raw feed id, then the
// title, when no link is available.
func StableID(primaryLink string, published time.Time, rawID, title string) string {
	var base string
	switch {
	case primaryLink != "":
		base = primaryLink + "|" + published.UTC().Format(time.RFC3339)
	case rawID != "":
		base = rawID
	default:
		base = title
	}
	h := sha1.Sum([]byte(base))
	return hex.EncodeToString(h[:])
}
