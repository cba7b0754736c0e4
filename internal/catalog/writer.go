package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const indent = "  "

// Encode serializes the document with two-space indentation and a trailing
// newline. Keys are written in document order.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer

	if len(d.keys) == 0 {
		buf.WriteString("{}\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("{\n")
	for i, key := range d.keys {
		k, err := encodeKey(key)
		if err != nil {
			return nil, err
		}
		buf.WriteString(indent)
		buf.WriteString(k)
		buf.WriteString(": ")

		if err := writeValue(&buf, d.values[key]); err != nil {
			return nil, fmt.Errorf("encoding %q: %w", key, err)
		}
		if i < len(d.keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")

	return buf.Bytes(), nil
}

// Write encodes the document and overwrites path with it.
func Write(path string, d *Document) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// writeValue re-indents raw so it nests one level below the top-level object.
func writeValue(buf *bytes.Buffer, raw json.RawMessage) error {
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return err
	}
	return json.Indent(buf, compact.Bytes(), indent, indent)
}

func encodeKey(key string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(key); err != nil {
		return "", fmt.Errorf("encoding key %q: %w", key, err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
