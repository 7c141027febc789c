package json

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// ErrEmptyDocument is returned for input without any JSON value.
var ErrEmptyDocument = errors.New("empty JSON document")

// DecodeDocument decodes exactly one JSON value. Numbers are kept as
// json.Number so integer checks of the schema stay exact.
func DecodeDocument(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, errors.WithMessage(err, "invalid JSON document")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON document: unexpected data after top-level value")
	}
	return doc, nil
}

// DecodeDocuments decodes a validation target. A top-level array yields its
// elements in order; any other value is a single document.
func DecodeDocuments(data []byte) ([]any, error) {
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	if list, ok := doc.([]any); ok {
		return list, nil
	}
	return []any{doc}, nil
}

// Encode returns the compact JSON form of a decoded document.
func Encode(doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
