package allowlist

import (
	"strings"
	"unicode"
)

const wildcard = "*"

// Pattern is a compiled receiver pattern. A '*' matches any run of
// characters, including none; every other character matches itself.
// Matching covers the whole candidate and ignores case.
type Pattern struct {
	raw      string
	segments []string // uppercased literal text between wildcards
}

// CompilePattern case-maps the pattern once and splits it on wildcards.
func CompilePattern(raw string) *Pattern {
	return &Pattern{
		raw:      raw,
		segments: strings.Split(fold(raw), wildcard),
	}
}

// String returns the pattern as configured.
func (p *Pattern) String() string {
	return p.raw
}

// Match reports whether candidate matches the pattern start to end.
func (p *Pattern) Match(candidate string) bool {
	s := fold(candidate)

	if len(p.segments) == 1 {
		return s == p.segments[0]
	}

	head := p.segments[0]
	if !strings.HasPrefix(s, head) {
		return false
	}
	s = s[len(head):]

	last := len(p.segments) - 1
	for _, mid := range p.segments[1:last] {
		if mid == "" {
			continue
		}
		i := strings.Index(s, mid)
		if i < 0 {
			return false
		}
		s = s[i+len(mid):]
	}

	return strings.HasSuffix(s, p.segments[last])
}

// fold maps every rune to its simple uppercase form. The mapping is one rune
// to one rune and locale independent, so "ß" never equals "ss" and the
// Kelvin sign never equals "k".
func fold(s string) string {
	return strings.Map(unicode.ToUpper, s)
}
