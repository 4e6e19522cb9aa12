// Package matching reconciles recommendation candidates with the post catalog
// and normalizes their scores and overlap keywords into one display-ready
// shape. Everything here is pure: no I/O, no globals, no mutation of inputs.
package matching

import (
	"fmt"
	"strings"
)

// overlapTextKeys is the precedence order for extracting display text from a
// keyword object.
var overlapTextKeys = []string{"label", "value", "name"}

// NormalizeOverlap converts a raw overlap value into an ordered list of
// trimmed, non-empty display strings. The value may be absent, a single
// string, a single keyword object, or an array mixing any of the above.
// Order is preserved and duplicates are passed through as-is.
func NormalizeOverlap(value interface{}) []string {
	if value == nil {
		return nil
	}

	var items []interface{}
	switch v := value.(type) {
	case []interface{}:
		items = v
	case []string:
		items = make([]interface{}, len(v))
		for i, s := range v {
			items[i] = s
		}
	default:
		items = []interface{}{v}
	}

	var result []string
	for _, item := range items {
		text := strings.TrimSpace(overlapText(item))
		if text == "" {
			continue
		}
		result = append(result, text)
	}

	return result
}

// JoinOverlap normalizes the raw overlap value and joins it with ", ". The
// second return value reports whether anything survived normalization;
// callers use it to skip rendering the keywords section entirely rather than
// showing an empty string.
func JoinOverlap(value interface{}) (string, bool) {
	keywords := NormalizeOverlap(value)
	if len(keywords) == 0 {
		return "", false
	}

	return strings.Join(keywords, ", "), true
}

func overlapText(item interface{}) string {
	switch v := item.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]interface{}:
		for _, key := range overlapTextKeys {
			if text, ok := v[key].(string); ok {
				return text
			}
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
