// Package relevance implements the two-tier keyword gate that decides
// whether an item is topically in scope.
package relevance

import (
	"regexp"
	"strings"
	"sync"
)

// Filter keeps compiled whole-word matchers for a core and an extended
// keyword set. The core set is the narrow anchor (platform names, prominent
// figures); an item whose title misses the core set is rejected outright.
// The extended set adds topical breadth once narrow relevance is established;
// an empty extended set passes trivially.
type Filter struct {
	core     []*regexp.Regexp
	extended []*regexp.Regexp
}

var (
	matcherMu    sync.Mutex
	matcherCache = map[string]*regexp.Regexp{}
)

// compileKeyword builds a case-insensitive whole-word matcher. Word
// boundaries are non-letter, non-digit runes (or string edges), so "ban"
// matches "ban hammer" but not "bandwidth". \b is ASCII-biased, so the
// boundary classes are spelled out to cover Turkish letters.
func compileKeyword(k string) *regexp.Regexp {
	matcherMu.Lock()
	defer matcherMu.Unlock()
	if re, ok := matcherCache[k]; ok {
		return re
	}
	re := regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])` + regexp.QuoteMeta(k) + `($|[^\p{L}\p{N}])`)
	matcherCache[k] = re
	return re
}

// NewFilter compiles both keyword sets. Blank keywords are dropped.
func NewFilter(core, extended []string) *Filter {
	return &Filter{
		core:     compileAll(core),
		extended: compileAll(extended),
	}
}

func compileAll(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		out = append(out, compileKeyword(w))
	}
	return out
}

// MatchesCore reports whether the title contains at least one whole-word
// match from the core set.
func (f *Filter) MatchesCore(title string) bool {
	return matchAny(title, f.core)
}

// MatchesExtended reports whether text contains at least one whole-word match
// from the extended set. Trivially true when the extended set is empty.
func (f *Filter) MatchesExtended(text string) bool {
	if len(f.extended) == 0 {
		return true
	}
	return matchAny(text, f.extended)
}

// Relevant applies both gates against the title only.
func (f *Filter) Relevant(title string) bool {
	return f.MatchesCore(title) && f.MatchesExtended(title)
}

func matchAny(text string, matchers []*regexp.Regexp) bool {
	if text == "" {
		return false
	}
	for _, re := range matchers {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
