package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldError is a single field-level failure.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors is an ordered field to message set. It encodes as a JSON
// object whose keys keep their order.
type FieldErrors []FieldError

// Get returns the message recorded for field.
func (fe FieldErrors) Get(field string) (string, bool) {
	for _, e := range fe {
		if e.Field == field {
			return e.Message, true
		}
	}
	return "", false
}

// Fields returns the failing field names in order.
func (fe FieldErrors) Fields() []string {
	names := make([]string, len(fe))
	for i, e := range fe {
		names[i] = e.Field
	}
	return names
}

func (fe FieldErrors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range fe {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Field)
		if err != nil {
			return nil, err
		}
		msg, err := json.Marshal(e.Message)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(msg)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (fe *FieldErrors) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*fe = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("field errors: expected object, got %v", tok)
	}

	out := FieldErrors{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("field errors: expected string key, got %v", keyTok)
		}
		var msg string
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("field errors: value for %q: %w", key, err)
		}
		out = append(out, FieldError{Field: key, Message: msg})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*fe = out
	return nil
}
