package jsonrepair

import "strings"

// firstOpener returns the index of the first '{' or '[' in s, or -1.
func firstOpener(s string) int {
	return strings.IndexAny(s, "{[")
}

func closerFor(opener byte) byte {
	if opener == '{' {
		return '}'
	}
	return ']'
}

// Extract returns the first balanced object or array span in s.
//
// The scan starts at the first opener and counts only that bracket type,
// ignoring brackets inside double-quoted strings (backslash escapes honored).
// It returns ErrNoJSON when there is no opener and ErrIncompleteJSON when
// the opener is never closed.
func Extract(s string) (string, error) {
	start := firstOpener(s)
	if start < 0 {
		return "", ErrNoJSON
	}

	opener := s[start]
	closer := closerFor(opener)

	var (
		depth    int
		inString bool
		escaped  bool
	)
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", ErrIncompleteJSON
}
