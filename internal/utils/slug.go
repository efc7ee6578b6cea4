package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MakeSlug derives a URL-safe identifier from a display text and an owner name,
// e.g. MakeSlug("My Title!", "bob") == "my-title-bob".
func MakeSlug(primary, secondary string) string {
	return joinSegments(Slugify(primary), Slugify(secondary))
}

// Slugify lowercases s, folds it to ASCII and collapses every run of
// characters outside [a-z0-9] into a single hyphen. Leading and trailing
// hyphens are trimmed.
func Slugify(s string) string {
	// transform.Chain keeps internal state, so it is built per call.
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

func joinSegments(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "-")
}
