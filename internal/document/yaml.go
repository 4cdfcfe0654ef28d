package document

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
)

const (
	tagStr   = "!!str"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagBool  = "!!bool"
	tagNull  = "!!null"
	tagMerge = "!!merge"
)

// Load reads and parses the document at path.
// Any read or parse failure is returned as a ConfigLoadError.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dsberrors.ConfigLoadError(err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, dsberrors.ConfigLoadError(fmt.Errorf("parse %s: %w", path, err))
	}
	return m, nil
}

// Save serializes m and writes it to path, replacing any existing file.
// Any serialization or write failure is returned as a ConfigSaveError.
func Save(path string, m *Map) error {
	data, err := Marshal(m)
	if err != nil {
		return dsberrors.ConfigSaveError(fmt.Errorf("encode %s: %w", path, err))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return dsberrors.ConfigSaveError(err)
	}
	return nil
}

// Parse decodes a YAML document whose root is a mapping.
// An empty or null document yields an empty Map.
func Parse(data []byte) (*Map, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return NewMap(), nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == tagNull {
		return NewMap(), nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: document root must be a mapping", root.Line)
	}

	v, err := decodeNode(root)
	if err != nil {
		return nil, err
	}
	return v.(*Map), nil
}

// Marshal encodes m as YAML with two-space indentation.
func Marshal(m *Map) ([]byte, error) {
	if m == nil {
		m = NewMap()
	}
	node, err := encodeValue(m)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalYAML lets a Map be decoded as part of a larger YAML value.
func (m *Map) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", value.Line)
	}
	v, err := decodeNode(value)
	if err != nil {
		return err
	}
	*m = *v.(*Map)
	return nil
}

// MarshalYAML lets a Map be encoded as part of a larger YAML value.
func (m *Map) MarshalYAML() (any, error) {
	return encodeValue(m)
}

func decodeNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return decodeNode(n.Content[0])
	case yaml.AliasNode:
		return decodeNode(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := decodeNode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		return decodeMapping(n)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		if u, ok := v.(uint64); ok && u <= math.MaxInt64 {
			return int(u), nil
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func decodeMapping(n *yaml.Node) (*Map, error) {
	m := NewMap()
	var merged []*Map

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
		}

		if k.ShortTag() == tagMerge {
			sources, err := mergeSources(v)
			if err != nil {
				return nil, err
			}
			merged = append(merged, sources...)
			continue
		}

		val, err := decodeNode(v)
		if err != nil {
			return nil, err
		}
		m.Set(k.Value, val)
	}

	// Explicit keys win over merged ones.
	for _, src := range merged {
		for _, key := range src.keys {
			if _, exists := m.values[key]; !exists {
				m.Set(key, cloneValue(src.values[key]))
			}
		}
	}
	return m, nil
}

func mergeSources(v *yaml.Node) ([]*Map, error) {
	val, err := decodeNode(v)
	if err != nil {
		return nil, err
	}
	switch t := val.(type) {
	case *Map:
		return []*Map{t}, nil
	case []any:
		out := make([]*Map, 0, len(t))
		for _, item := range t {
			mm, ok := item.(*Map)
			if !ok {
				return nil, fmt.Errorf("line %d: merge sequence must contain mappings", v.Line)
			}
			out = append(out, mm)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: merge value must be a mapping", v.Line)
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func encodeValue(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil:
		return scalar(tagNull, "null"), nil
	case *Map:
		if t == nil {
			return scalar(tagNull, "null"), nil
		}
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range t.keys {
			val, err := encodeValue(t.values[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			node.Content = append(node.Content, scalar(tagStr, k), val)
		}
		return node, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			m.Set(k, t[k])
		}
		return encodeValue(m)
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, item := range t {
			val, err := encodeValue(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			node.Content = append(node.Content, val)
		}
		return node, nil
	case []string:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			node.Content = append(node.Content, scalar(tagStr, item))
		}
		return node, nil
	case string:
		return scalar(tagStr, t), nil
	case bool:
		return scalar(tagBool, strconv.FormatBool(t)), nil
	case int:
		return scalar(tagInt, strconv.FormatInt(int64(t), 10)), nil
	case int8:
		return scalar(tagInt, strconv.FormatInt(int64(t), 10)), nil
	case int16:
		return scalar(tagInt, strconv.FormatInt(int64(t), 10)), nil
	case int32:
		return scalar(tagInt, strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return scalar(tagInt, strconv.FormatInt(t, 10)), nil
	case uint:
		return scalar(tagInt, strconv.FormatUint(uint64(t), 10)), nil
	case uint8:
		return scalar(tagInt, strconv.FormatUint(uint64(t), 10)), nil
	case uint16:
		return scalar(tagInt, strconv.FormatUint(uint64(t), 10)), nil
	case uint32:
		return scalar(tagInt, strconv.FormatUint(uint64(t), 10)), nil
	case uint64:
		return scalar(tagInt, strconv.FormatUint(t, 10)), nil
	case float32:
		return scalar(tagFloat, formatFloat(float64(t), 32)), nil
	case float64:
		return scalar(tagFloat, formatFloat(t, 64)), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// formatFloat renders f so that it decodes back as a float, never an int.
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
