// Package formdata rebuilds nested objects from flat multipart keys.
//
// One grammar covers both spellings used by clients:
//
//	generalInfo.firstName          -> {generalInfo: {firstName}}
//	employeeInfo.employee1[0].name -> {employeeInfo: {employee1: [{name}]}}
//
// A numeric segment inside brackets is an array index. A numeric segment
// written with a dot stays an object key, so "a.0.b" yields {a: {"0": {b}}}.
package formdata

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MaxIndex bounds bracket indices so a single key cannot allocate a huge
// slice.
const MaxIndex = 255

type segment struct {
	key   string
	index int
	isIdx bool
}

// Clean trims keys and values and keeps the first value of repeated keys.
// Empty keys are dropped.
func Clean(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, vals := range values {
		key = strings.TrimSpace(key)
		if key == "" || len(vals) == 0 {
			continue
		}
		if _, seen := out[key]; seen {
			continue
		}
		out[key] = strings.TrimSpace(vals[0])
	}
	return out
}

// Parse converts flat keys into a tree of map[string]any, []any and string
// leaves. When a key is both a leaf and a parent ("a" and "a.b"), the nested
// value wins regardless of input order.
func Parse(flat map[string]string) (map[string]any, error) {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	root := map[string]any{}
	for _, key := range keys {
		segs, err := splitKey(key)
		if err != nil {
			return nil, err
		}
		if segs[0].isIdx {
			return nil, fmt.Errorf("%w: %q", ErrMalformedKey, key)
		}
		root = assign(root, segs, flat[key]).(map[string]any)
	}
	return root, nil
}

func splitKey(key string) ([]segment, error) {
	var segs []segment
	for _, part := range strings.Split(key, ".") {
		name, rest, hasBracket := strings.Cut(part, "[")
		if name == "" && (!hasBracket || len(segs) == 0) {
			return nil, fmt.Errorf("%w: %q", ErrMalformedKey, key)
		}
		if name != "" {
			segs = append(segs, segment{key: name})
		}
		if !hasBracket {
			continue
		}
		rest = "[" + rest
		for rest != "" {
			if rest[0] != '[' {
				return nil, fmt.Errorf("%w: %q", ErrMalformedKey, key)
			}
			end := strings.IndexByte(rest, ']')
			if end <= 1 {
				return nil, fmt.Errorf("%w: %q", ErrMalformedKey, key)
			}
			inner := rest[1:end]
			rest = rest[end+1:]
			if n, err := strconv.Atoi(inner); err == nil && n >= 0 && isDigits(inner) {
				if n > MaxIndex {
					return nil, fmt.Errorf("%w: index %d exceeds %d in %q", ErrMalformedKey, n, MaxIndex, key)
				}
				segs = append(segs, segment{index: n, isIdx: true})
				continue
			}
			segs = append(segs, segment{key: inner})
		}
	}
	return segs, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// assign writes value at segs below node and returns the possibly replaced
// node.
func assign(node any, segs []segment, value string) any {
	if len(segs) == 0 {
		switch node.(type) {
		case map[string]any, []any:
			return node
		}
		return value
	}
	seg := segs[0]
	if seg.isIdx {
		list, ok := node.([]any)
		if !ok {
			list = nil
		}
		for len(list) <= seg.index {
			list = append(list, nil)
		}
		list[seg.index] = assign(list[seg.index], segs[1:], value)
		return list
	}
	obj, ok := node.(map[string]any)
	if !ok {
		obj = map[string]any{}
	}
	obj[seg.key] = assign(obj[seg.key], segs[1:], value)
	return obj
}
