// Package normalize holds the two name canonicalization conventions used by
// the match engine. They are deliberately distinct, named functions:
//
//   - ForQuery is the runtime convention applied to incoming customer names
//     (space-delimited).
//   - ForStorageKey is the record-creation convention that produces the
//     unique normalizedName column (underscore-delimited, location-suffixed).
//
// The orchestrator reconciles the two before an exact-key lookup by passing
// the query normalization through ForStorageKey. Call sites must never rely
// on the formats agreeing by accident.
package normalize

import "strings"

var honorifics = map[string]struct{}{
	"mr":  {},
	"mrs": {},
	"ms":  {},
	"dr":  {},
}

// ForQuery canonicalizes a raw display name for matching: lowercase, a single
// leading honorific stripped, punctuation removed, whitespace collapsed.
// Empty input returns "" and the function never fails. It is idempotent:
// ForQuery(ForQuery(s)) == ForQuery(s).
func ForQuery(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	s = stripHonorific(s)

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// stripHonorific drops one leading honorific, written either as a bare
// whitespace-delimited token ("dr jane") or with a trailing period and
// optional whitespace ("dr. jane", "dr.jane").
func stripHonorific(s string) string {
	for h := range honorifics {
		if strings.HasPrefix(s, h+".") {
			return strings.TrimSpace(s[len(h)+1:])
		}
	}

	if idx := strings.IndexAny(s, " \t"); idx >= 0 {
		if _, ok := honorifics[s[:idx]]; ok {
			return strings.TrimSpace(s[idx+1:])
		}
	}
	return s
}

// ForStorageKey builds the stored normalizedName key: each non-empty part is
// lowercased with whitespace runs replaced by a single underscore, then the
// parts are joined with underscores. Typical parts: full name, city, state.
func ForStorageKey(parts ...string) string {
	keyed := make([]string, 0, len(parts))
	for _, part := range parts {
		p := strings.ToLower(strings.TrimSpace(part))
		if p == "" {
			continue
		}
		keyed = append(keyed, strings.Join(strings.Fields(p), "_"))
	}
	return strings.Join(keyed, "_")
}
