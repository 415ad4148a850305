package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// field is one key of a JSON object, kept as raw JSON so that keys this
// package does not model survive a load/save cycle untouched.
type field struct {
	Key   string
	Value json.RawMessage
}

// object is a JSON object in document order.
type object []field

// decodeObject reads a JSON object while keeping its key order.
func decodeObject(data []byte) (object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var obj object
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		obj = append(obj, field{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON object")
	}
	return obj, nil
}

// get returns the raw value stored under key.
func (o object) get(key string) (json.RawMessage, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// has reports whether key is present.
func (o object) has(key string) bool {
	_, ok := o.get(key)
	return ok
}

// encode writes the object, replacing the values of keys found in
// overrides and appending override keys the object does not hold yet
// in the order given by order.
func (o object) encode(overrides map[string]any, order []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	written := make(map[string]bool, len(o))
	first := true
	write := func(key string, value []byte) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := marshalNoEscape(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	for _, f := range o {
		value := []byte(f.Value)
		if override, ok := overrides[f.Key]; ok {
			encoded, err := marshalNoEscape(override)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", f.Key, err)
			}
			value = encoded
		}
		if err := write(f.Key, value); err != nil {
			return nil, err
		}
		written[f.Key] = true
	}

	for _, key := range order {
		override, ok := overrides[key]
		if !ok || written[key] {
			continue
		}
		encoded, err := marshalNoEscape(override)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		if err := write(key, encoded); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalNoEscape encodes v without HTML escaping, so changelog text such
// as "<br>" is stored as written.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// unmarshalString decodes a raw value that must be a JSON string.
func unmarshalString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("expected string, got %s", raw)
	}
	return s, nil
}
