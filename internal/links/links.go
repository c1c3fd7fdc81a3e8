// Package links canonicalizes article URLs so that the same story syndicated
// under different tracking/short URLs compares equal.
package links

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParams are query keys stripped during normalization (campaign/click
// identifiers that vary per syndication without changing the target page).
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"si":           {},
	"fbclid":       {},
	"gclid":        {},
	"ref":          {},
	"igshid":       {},
	"mc_cid":       {},
	"mc_eid":       {},
	"cmpid":        {},
	"ocid":         {},
}

// Normalize returns a stable comparison key for raw. It forces https for web
// schemes, lowercases the host, strips tracking query parameters, sorts the
// remaining parameters, drops the fragment, collapses duplicate path
// separators and strips a single trailing slash (except for the root path).
// On parse failure the input is returned unchanged: a malformed URL must
// never block a pipeline run. Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		u.Scheme = "https"
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if _, drop := trackingParams[strings.ToLower(key)]; drop {
				q.Del(key)
			}
		}
		u.RawQuery = encodeSorted(q)
	}

	path := u.EscapedPath()
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	// Keep Path/RawPath a consistent pair so String() emits the escaped
	// form verbatim instead of re-escaping it.
	u.RawPath = path
	if unesc, err := url.PathUnescape(path); err == nil {
		u.Path = unesc
	} else {
		u.Path = path
	}

	return u.String()
}

// encodeSorted serializes query values with keys in lexical order so that
// parameter order never affects the comparison key.
func encodeSorted(q url.Values) string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range q[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// Host returns the lowercased host of raw, or "" if it cannot be parsed.
func Host(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// Publisher resolves the display name of the outlet behind raw using the
// configured host table, falling back to the bare host without "www.".
func Publisher(raw string, names map[string]string) string {
	host := Host(raw)
	if host == "" {
		return "unknown"
	}
	if name, ok := names[host]; ok {
		return name
	}
	if name, ok := names[strings.TrimPrefix(host, "www.")]; ok {
		return name
	}
	return strings.TrimPrefix(host, "www.")
}
