package formdata

import (
	"sort"
	"strconv"
	"strings"
)

// Map returns the object stored under key, or nil.
func Map(node map[string]any, key string) map[string]any {
	if node == nil {
		return nil
	}
	m, _ := node[key].(map[string]any)
	return m
}

// Path walks dotted object keys.
func Path(node map[string]any, path string) map[string]any {
	for _, key := range strings.Split(path, ".") {
		node = Map(node, key)
		if node == nil {
			return nil
		}
	}
	return node
}

func String(node map[string]any, key string) string {
	if node == nil {
		return ""
	}
	s, _ := node[key].(string)
	return s
}

// List returns the array under key. An object with numeric keys, as
// produced by dotted input such as "education.0.level", is read in numeric
// key order so both spellings reach the same rows.
func List(node map[string]any, key string) []map[string]any {
	if node == nil {
		return nil
	}
	var out []map[string]any
	switch v := node[key].(type) {
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
	case map[string]any:
		indices := make([]int, 0, len(v))
		byIndex := map[int]map[string]any{}
		for k, item := range v {
			m, ok := item.(map[string]any)
			if !ok || !isDigits(k) {
				continue
			}
			n, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			indices = append(indices, n)
			byIndex[n] = m
		}
		sort.Ints(indices)
		for _, n := range indices {
			out = append(out, byIndex[n])
		}
	}
	return out
}
