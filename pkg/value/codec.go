package value

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

var (
	_ json.Marshaler   = Value{}
	_ json.Unmarshaler = (*Value)(nil)
	_ yaml.Unmarshaler = (*Value)(nil)
)

func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindString:
		out, err := json.Marshal(v.str)
		if err != nil {
			return errors.Errorf("marshaling string: %w", err)
		}
		buf.Write(out)
	case KindNumber:
		buf.WriteString(FormatNumber(v.num))
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, k := range v.m.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return errors.Errorf("marshaling key %q: %w", k, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := v.m.values[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// UnmarshalJSON decodes any JSON document, keeping object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	out, err := decodeJSON(dec)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func decodeJSON(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Null(), errors.New("unexpected end of json input")
		}
		return Null(), errors.Errorf("reading json token: %w", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Null(), errors.Errorf("reading json object key: %w", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return Null(), errors.Errorf("unexpected json object key %v", keyTok)
				}
				item, err := decodeJSON(dec)
				if err != nil {
					return Null(), err
				}
				m.Set(key, item)
			}
			if _, err := dec.Token(); err != nil {
				return Null(), errors.Errorf("closing json object: %w", err)
			}
			return FromMap(m), nil
		case '[':
			items := make([]Value, 0)
			for dec.More() {
				item, err := decodeJSON(dec)
				if err != nil {
					return Null(), err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Null(), errors.Errorf("closing json array: %w", err)
			}
			return List(items...), nil
		default:
			return Null(), errors.Errorf("unexpected json delimiter %q", t)
		}
	default:
		return FromAny(t), nil
	}
}

// UnmarshalYAML decodes a yaml node, keeping mapping key order.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	out, err := fromYAMLNode(node)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func fromYAMLNode(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return fromYAMLNode(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return Null(), nil
		}
		return fromYAMLNode(node.Alias)
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			item, err := fromYAMLNode(node.Content[i+1])
			if err != nil {
				return Null(), err
			}
			m.Set(node.Content[i].Value, item)
		}
		return FromMap(m), nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := fromYAMLNode(child)
			if err != nil {
				return Null(), err
			}
			items = append(items, item)
		}
		return List(items...), nil
	case yaml.ScalarNode:
		var raw any
		if err := node.Decode(&raw); err != nil {
			return Null(), errors.Errorf("decoding yaml scalar at line %d: %w", node.Line, err)
		}
		return FromAny(raw), nil
	default:
		return Null(), errors.Errorf("unsupported yaml node kind %d", node.Kind)
	}
}
