package visualization

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
)

// checker walks a decoded JSON payload and accumulates human-readable issues.
// Every accessor records an issue and reports false when the value is missing
// or has the wrong shape, so callers can keep going.
type checker struct {
	issues []string
}

func (c *checker) addf(format string, args ...any) {
	c.issues = append(c.issues, fmt.Sprintf(format, args...))
}

func join(path, key string) string { return path + "." + key }

func index(path string, i int) string { return fmt.Sprintf("%s[%d]", path, i) }

// object returns obj[key] as an object.
func (c *checker) object(obj map[string]any, path, key string) (map[string]any, bool) {
	v, ok := obj[key]
	if !ok {
		c.addf("%s is required", join(path, key))
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		c.addf("%s must be an object", join(path, key))
		return nil, false
	}
	return m, true
}

// list returns obj[key] as an array with at least minLen elements. A short
// array is still returned so its elements can be checked.
func (c *checker) list(obj map[string]any, path, key string, minLen int) ([]any, bool) {
	return c.listValue(obj[key], join(path, key), minLen, hasKey(obj, key))
}

func (c *checker) listValue(v any, path string, minLen int, present bool) ([]any, bool) {
	if !present {
		c.addf("%s is required", path)
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		c.addf("%s must be an array", path)
		return nil, false
	}
	if len(items) < minLen {
		c.addf("%s must have at least %d items, got %d", path, minLen, len(items))
	}
	return items, true
}

// element returns items[i] as an object.
func (c *checker) element(items []any, path string, i int) (map[string]any, bool) {
	m, ok := items[i].(map[string]any)
	if !ok {
		c.addf("%s must be an object", index(path, i))
		return nil, false
	}
	return m, true
}

// text checks that obj[key] is a non-blank string.
func (c *checker) text(obj map[string]any, path, key string) (string, bool) {
	s, ok := obj[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		c.addf("%s must be a non-empty string", join(path, key))
		return "", false
	}
	return s, true
}

// number checks that obj[key] is a finite number.
func (c *checker) number(obj map[string]any, path, key string) (float64, bool) {
	f, ok := toFloat(obj[key])
	if !ok {
		c.addf("%s must be a number", join(path, key))
		return 0, false
	}
	return f, true
}

// unit checks that obj[key] is a number in [0, 1].
func (c *checker) unit(obj map[string]any, path, key string) (float64, bool) {
	f, ok := toFloat(obj[key])
	if !ok || f < 0 || f > 1 {
		c.addf("%s must be a number in [0, 1]", join(path, key))
		return 0, false
	}
	return f, true
}

// count checks that obj[key] is an integer no smaller than minValue.
func (c *checker) count(obj map[string]any, path, key string, minValue int) (int, bool) {
	f, ok := toFloat(obj[key])
	if !ok || f != math.Trunc(f) || f < float64(minValue) {
		c.addf("%s must be an integer >= %d", join(path, key), minValue)
		return 0, false
	}
	return int(f), true
}

// oneOf checks that obj[key] is one of allowed.
func (c *checker) oneOf(obj map[string]any, path, key string, allowed []string) (string, bool) {
	s, ok := obj[key].(string)
	if !ok || !slices.Contains(allowed, s) {
		c.addf("%s must be one of %s", join(path, key), strings.Join(allowed, ", "))
		return "", false
	}
	return s, true
}

// exactKeys checks that obj has exactly the keys in want, reporting each
// missing and unexpected key.
func (c *checker) exactKeys(obj map[string]any, path string, want []string) {
	for _, k := range want {
		if !hasKey(obj, k) {
			c.addf("%s is missing %q", path, k)
		}
	}
	var extra []string
	for k := range obj {
		if !slices.Contains(want, k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		c.addf("%s has unexpected key %q; want exactly %s", path, k, strings.Join(want, ", "))
	}
}

// stringList checks that v is an array of at least minLen non-blank strings.
func (c *checker) stringList(v any, path string, minLen int, present bool) {
	items, ok := c.listValue(v, path, minLen, present)
	if !ok {
		return
	}
	for i, item := range items {
		if s, ok := item.(string); !ok || strings.TrimSpace(s) == "" {
			c.addf("%s must be a non-empty string", index(path, i))
		}
	}
}

func hasKey(obj map[string]any, key string) bool {
	_, ok := obj[key]
	return ok
}

// toFloat accepts the numeric forms a payload may carry: float64 from
// encoding/json, json.Number, and Go integers from hand-built maps.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
