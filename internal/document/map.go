// Package document reads and writes project configuration documents.
//
// A document is an ordered YAML mapping. Key order survives a load/save
// round trip so hand-edited configuration files stay readable.
package document

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Map is an insertion-ordered mapping of string keys to document values.
//
// Values are one of string, bool, int, float64, nil, []any or *Map.
// Save additionally accepts other integer and float widths, []string and
// map[string]any (emitted with sorted keys).
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in document order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key. An existing key keeps its position.
func (m *Map) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	if m == nil {
		return false
	}
	if _, exists := m.values[key]; !exists {
		return false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a deep copy of m. Nested maps and sequences are copied.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := &Map{
		keys:   append([]string(nil), m.keys...),
		values: make(map[string]any, len(m.values)),
	}
	for k, v := range m.values {
		out.values[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// GetPath looks up a dot-separated path such as "testing.coverage".
func (m *Map) GetPath(path string) (any, bool) {
	parts := strings.Split(path, ".")
	cur := m
	for i, part := range parts {
		v, ok := cur.Get(part)
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(*Map)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// SetPath stores value at a dot-separated path. Missing intermediate maps are
// created and non-map intermediates are replaced.
func (m *Map) SetPath(path string, value any) {
	parts := strings.Split(path, ".")
	cur := m
	for _, part := range parts[:len(parts)-1] {
		v, _ := cur.Get(part)
		next, ok := v.(*Map)
		if !ok {
			next = NewMap()
			cur.Set(part, next)
		}
		cur = next
	}
	cur.Set(parts[len(parts)-1], value)
}

// DeletePath removes the value at a dot-separated path and reports whether
// anything was removed. Missing parents are not an error.
func (m *Map) DeletePath(path string) bool {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return m.Delete(path)
	}
	parent, ok := m.GetPath(path[:idx])
	if !ok {
		return false
	}
	pm, ok := parent.(*Map)
	if !ok {
		return false
	}
	return pm.Delete(path[idx+1:])
}

// Strings returns the string entries of the sequence at path. Non-string
// entries are skipped; a missing path or non-sequence value yields nil.
func (m *Map) Strings(path string) []string {
	v, ok := m.GetPath(path)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// MarshalJSON encodes m as a JSON object with keys in document order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
