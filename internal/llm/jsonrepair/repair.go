package jsonrepair

import "strings"

// Repair rebuilds a truncated or mis-nested document starting at the first
// opener in s. It replays every character while keeping a stack of expected
// closers: closers that do not match the top of the stack are dropped, an
// unterminated string is closed, and the remaining closers are appended
// innermost first. Replay stops as soon as the outermost value is closed.
// The boolean is false when s holds no opener.
func Repair(s string) (string, bool) {
	start := firstOpener(s)
	if start < 0 {
		return "", false
	}

	var (
		b        strings.Builder
		stack    []byte
		inString bool
		escaped  bool
	)
	b.Grow(len(s) - start + 8)

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
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
			b.WriteByte(c)
		case '{', '[':
			stack = append(stack, closerFor(c))
			b.WriteByte(c)
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				continue
			}
			stack = stack[:len(stack)-1]
			b.WriteByte(c)
			if len(stack) == 0 {
				return b.String(), true
			}
		default:
			b.WriteByte(c)
		}
	}

	if inString {
		if escaped {
			// A dangling backslash would escape the closing quote.
			out := b.String()
			b.Reset()
			b.WriteString(out[:len(out)-1])
		}
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String(), true
}
