package normalize

import (
	"encoding/json"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips markup from user-authored text. Backend payloads are
// untrusted; the strict policy removes every tag. Entities are unescaped
// afterwards so sanitizing is idempotent.
var textPolicy = bluemonday.StrictPolicy()

func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// lookup walks a dot-separated path through nested maps. A numeric
// segment indexes into a slice, so "medias.0.url" reaches the first
// element of a medias array.
func lookup(m map[string]any, path string) (any, bool) {
	var cur any = m
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok || v == nil {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// firstString returns the first path that resolves to a non-empty string.
func firstString(m map[string]any, paths ...string) (string, bool) {
	for _, p := range paths {
		v, ok := lookup(m, p)
		if !ok {
			continue
		}
		if s, ok := asString(v); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// firstInt returns the first path that resolves to a finite integer.
func firstInt(m map[string]any, paths ...string) (int64, bool) {
	for _, p := range paths {
		v, ok := lookup(m, p)
		if !ok {
			continue
		}
		if n, ok := asInt64(v); ok {
			return n, true
		}
	}
	return 0, false
}

// firstBool returns the truthiness of the first path present. Mirrors
// the loose flags the backend sends: booleans, numbers, and "1"/"true"
// strings all count.
func firstBool(m map[string]any, paths ...string) (bool, bool) {
	for _, p := range paths {
		v, ok := lookup(m, p)
		if !ok {
			continue
		}
		return truthy(v), true
	}
	return false, false
}

// subMap returns the first path that resolves to an object.
func subMap(m map[string]any, paths ...string) (map[string]any, bool) {
	for _, p := range paths {
		v, ok := lookup(m, p)
		if !ok {
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			return sub, true
		}
	}
	return nil, false
}

// subSlice returns the first path that resolves to a non-empty array.
func subSlice(m map[string]any, paths ...string) ([]any, bool) {
	for _, p := range paths {
		v, ok := lookup(m, p)
		if !ok {
			continue
		}
		if arr, ok := v.([]any); ok && len(arr) > 0 {
			return arr, true
		}
	}
	return nil, false
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10), true
		}
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return "", false
	}
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
		return 0, false
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s != "" && s != "0" && s != "false" && s != "null"
	default:
		return v != nil
	}
}
