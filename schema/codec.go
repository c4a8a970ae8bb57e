package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// ErrMalformed is returned when a persisted schema cannot be decoded.
var ErrMalformed = errors.New("malformed schema")

// Format is a persisted schema encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat parses a format name. The empty string means JSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unknown schema format %q", name)
	}
}

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".msgpack", ".mp":
		return FormatMsgpack
	default:
		return FormatJSON
	}
}

// Encode flattens s and serializes the flat form.
func Encode(s *Schema, f Format) ([]byte, error) {
	flat := Flatten(s)

	switch f {
	case FormatJSON, "":
		return json.MarshalIndent(flat, "", "  ")
	case FormatYAML:
		return yaml.Marshal(flat)
	case FormatMsgpack:
		return msgpack.Marshal(flat)
	default:
		return nil, fmt.Errorf("unknown schema format %q", f)
	}
}

// Decode parses a flat schema without resolving its placeholders.
func Decode(data []byte, f Format) (*Schema, error) {
	s := New()

	var err error

	switch f {
	case FormatJSON, "":
		err = json.Unmarshal(data, s)
	case FormatYAML:
		err = yaml.Unmarshal(data, s)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, s)
	default:
		return nil, fmt.Errorf("unknown schema format %q", f)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if err := validate(s); err != nil {
		return nil, err
	}

	return s, nil
}

// Load decodes a flat schema and resolves its placeholders.
// Malformed input fails closed: no partial schema is returned.
func Load(data []byte, f Format) (*Schema, error) {
	s, err := Decode(data, f)
	if err != nil {
		return nil, err
	}

	return Resolve(s), nil
}

// LoadFile reads and loads a persisted schema; the format follows the extension.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	s, err := Load(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load schema file %s: %w", path, err)
	}

	return s, nil
}

// WriteFile encodes s and writes it to path.
func WriteFile(s *Schema, path string, f Format) error {
	data, err := Encode(s, f)
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write schema file %s: %w", path, err)
	}

	return nil
}

// validate rejects entries that cannot come from Flatten.
func validate(s *Schema) error {
	var err error

	for _, k := range s.keys {
		if s.types[k] == nil {
			return fmt.Errorf("%w: entry %q is empty", ErrMalformed, k)
		}
	}

	Walk(s, func(t *Type, slot Slot) *Type {
		if err != nil || t.IsPlaceholder() {
			return t
		}

		if !t.Kind.Valid() {
			where := slot.Key
			if slot.Owner != nil {
				where = slot.Owner.FQN() + "." + slot.Key
			}

			err = fmt.Errorf("%w: %s: unknown kind %q", ErrMalformed, where, t.Kind)
		}

		return t
	})

	return err
}

// MarshalJSON encodes the mapping as a JSON object in key order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(s.types[k])
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", k, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping its key order.
func (s *Schema) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected key, got %v", tok)
		}

		var t *Type
		if err := dec.Decode(&t); err != nil {
			return fmt.Errorf("type %s: %w", key, err)
		}

		s.Put(key, t)
	}

	_, err = dec.Token()

	return err
}

// MarshalYAML encodes the mapping as a YAML mapping in key order.
func (s *Schema) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, k := range s.keys {
		var val yaml.Node
		if err := val.Encode(s.types[k]); err != nil {
			return nil, fmt.Errorf("type %s: %w", k, err)
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}

	return node, nil
}

// UnmarshalYAML decodes a YAML mapping keeping its key order.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]

		var t *Type
		if err := val.Decode(&t); err != nil {
			return fmt.Errorf("type %s: %w", key.Value, err)
		}

		s.Put(key.Value, t)
	}

	return nil
}

// EncodeMsgpack encodes the mapping as a MessagePack map in key order.
func (s *Schema) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(s.keys)); err != nil {
		return err
	}

	for _, k := range s.keys {
		if err := enc.EncodeString(k); err != nil {
			return err
		}

		if err := enc.Encode(s.types[k]); err != nil {
			return fmt.Errorf("type %s: %w", k, err)
		}
	}

	return nil
}

// DecodeMsgpack decodes a MessagePack map keeping its key order.
func (s *Schema) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return err
		}

		var t *Type
		if err := dec.Decode(&t); err != nil {
			return fmt.Errorf("type %s: %w", key, err)
		}

		s.Put(key, t)
	}

	return nil
}
