package repo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// mergeFields applies $set semantics to a JSON object: each field replaces the
// top-level member of the same name.
func mergeFields(doc []byte, fields map[string]any) ([]byte, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(doc, &members); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if members == nil {
		members = make(map[string]json.RawMessage, len(fields))
	}

	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode field %s: %w", k, err)
		}
		members[k] = raw
	}

	return json.Marshal(members)
}

// decodeAll decodes a list of JSON documents into out, a pointer to a slice.
func decodeAll(docs [][]byte, out any) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, d := range docs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(d)
	}
	buf.WriteByte(']')

	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("decode documents: %w", err)
	}
	return nil
}
