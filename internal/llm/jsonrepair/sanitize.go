package jsonrepair

import "regexp"

// maxSanitizePasses bounds the fixed-point loop over the quote rewrites.
// Adjacent single-quoted array elements share a delimiter, so one regex pass
// only rewrites every other element.
const maxSanitizePasses = 4

var (
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)

	// A single-quoted body: anything but a quote or backslash, or an escape pair.
	singleQuotedKey   = regexp.MustCompile(`([{,]\s*)'((?:[^'\\]|\\.)*)'(\s*:)`)
	singleQuotedValue = regexp.MustCompile(`(:\s*)'((?:[^'\\]|\\.)*)'`)
	singleQuotedItem  = regexp.MustCompile(`([\[,]\s*)'((?:[^'\\]|\\.)*)'(\s*[,\]])`)
)

// Sanitize rewrites the loose JSON dialect models commonly emit: trailing
// commas before a closer, single-quoted keys, and single-quoted string values
// and array items.
//
// The rewrite is a lexical heuristic and does not know whether it is inside a
// double-quoted string. Text such as "he said: 'no'" inside a valid string is
// rewritten too, which corrupts the document.
func Sanitize(s string) string {
	out := trailingComma.ReplaceAllString(s, "$1")
	for range maxSanitizePasses {
		next := singleQuotedKey.ReplaceAllString(out, `$1"$2"$3`)
		next = singleQuotedValue.ReplaceAllString(next, `$1"$2"`)
		next = singleQuotedItem.ReplaceAllString(next, `$1"$2"$3`)
		if next == out {
			break
		}
		out = next
	}
	return out
}
