package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// ErrNotObject is returned when a catalog file's top-level JSON value is not an object.
var ErrNotObject = errors.New("top-level JSON value is not an object")

// ErrInvalidUTF8 is returned for input that is not valid UTF-8. The decoder
// would otherwise replace bad bytes in keys with U+FFFD and rename entries.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// Document is a JSON object that remembers the order of its top-level keys.
// Values are kept as raw JSON so entries that are never touched are written
// back with their original tokens.
type Document struct {
	keys   []string
	values map[string]json.RawMessage
}

// New returns an empty document.
func New() *Document {
	return &Document{values: make(map[string]json.RawMessage)}
}

// Load reads and parses a catalog file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a JSON object, preserving key order. A key that appears more
// than once keeps its first position and its last value.
func Parse(data []byte) (*Document, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	doc := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding %q: %w", key, err)
		}
		doc.Set(key, raw)
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.New("unexpected data after top-level object")
		}
		return nil, err
	}

	return doc, nil
}

// Len returns the number of top-level keys.
func (d *Document) Len() int {
	return len(d.keys)
}

// Keys returns all top-level keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// ModelKeys returns the keys that name models, skipping reserved metadata keys.
func (d *Document) ModelKeys() []string {
	keys := make([]string, 0, len(d.keys))
	for _, k := range d.keys {
		if !IsReserved(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Get returns the raw value stored under key.
func (d *Document) Get(key string) (json.RawMessage, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Set stores raw under key. Existing keys keep their position; new keys are
// appended after all existing ones.
func (d *Document) Set(key string, raw json.RawMessage) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = raw
}

// SetValue marshals v and stores it under key with the same ordering rules as Set.
func (d *Document) SetValue(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %q: %w", key, err)
	}
	d.Set(key, raw)
	return nil
}

// Clone returns a deep copy that can be modified without affecting d.
func (d *Document) Clone() *Document {
	c := &Document{
		keys:   make([]string, len(d.keys)),
		values: make(map[string]json.RawMessage, len(d.values)),
	}
	copy(c.keys, d.keys)
	for k, v := range d.values {
		c.values[k] = append(json.RawMessage(nil), v...)
	}
	return c
}
