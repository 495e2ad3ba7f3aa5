package jsonrepair

import (
	"regexp"
	"strings"
)

var (
	leadingFence  = regexp.MustCompile("(?i)^\\s*```(?:json)?[ \\t]*\\r?\\n?")
	trailingFence = regexp.MustCompile("\\r?\\n?[ \\t]*```\\s*$")

	typographicQuotes = strings.NewReplacer(
		"\u201c", `"`,
		"\u201d", `"`,
		"\u201e", `"`,
		"\u201f", `"`,
		"\u2018", `'`,
		"\u2019", `'`,
	)
)

// Normalize replaces typographic quotes with straight ones, strips a single
// leading and trailing markdown code fence (optionally tagged json), and
// trims surrounding whitespace.
func Normalize(text string) string {
	out := typographicQuotes.Replace(text)
	out = strings.TrimPrefix(out, "\ufeff")
	out = leadingFence.ReplaceAllString(out, "")
	out = trailingFence.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}
