package session

import (
	"regexp"
	"strings"
)

var (
	dateSuffixRe   = regexp.MustCompile(`-\d{8}$`)
	versionPairRe  = regexp.MustCompile(`-(\d+)-(\d+)`)
	claudeFamilyRe = regexp.MustCompile(`claude-(opus|sonnet|haiku)-(\d+)-(\d+)`)
	gptFamilyRe    = regexp.MustCompile(`gpt-(\d+)-(\d+)`)
	kimiFamilyRe   = regexp.MustCompile(`kimi-k-(\d+)`)
)

// CanonicalModelID resolves a raw model identifier to its canonical form.
// Namespaced identifiers ("vendor/model") are lower-cased and kept whole;
// flat identifiers go through NormalizeModelID. An empty identifier maps
// to "unknown".
func CanonicalModelID(raw string) string {
	if raw == "" {
		return "unknown"
	}
	if strings.Contains(raw, "/") {
		return strings.ToLower(raw)
	}
	return NormalizeModelID(raw)
}

// NormalizeModelID canonicalizes a flat model identifier for pricing
// lookup: lower-case, strip an 8-digit date suffix, convert -X-Y version
// suffixes to -X.Y, then apply family-specific dotting rules. The
// transformation is idempotent.
func NormalizeModelID(id string) string {
	id = strings.ToLower(id)
	id = dateSuffixRe.ReplaceAllString(id, "")
	id = dotVersionPairs(id)
	id = claudeFamilyRe.ReplaceAllString(id, "claude-$1-$2.$3")
	id = gptFamilyRe.ReplaceAllString(id, "gpt-$1.$2")
	id = kimiFamilyRe.ReplaceAllString(id, "kimi-k$1")
	return id
}

// dotVersionPairs rewrites each -X-Y integer pair as -X.Y, except when the
// pair is immediately followed by a dot (an already-dotted version would be
// corrupted by a second rewrite).
func dotVersionPairs(s string) string {
	matches := versionPairRe.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if m[1] < len(s) && s[m[1]] == '.' {
			continue
		}
		b.WriteString(s[last:m[0]])
		b.WriteByte('-')
		b.WriteString(s[m[2]:m[3]])
		b.WriteByte('.')
		b.WriteString(s[m[4]:m[5]])
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
