package richtext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedDocument is returned when stored content cannot be turned into
// a document tree.
var ErrMalformedDocument = errors.New("malformed document")

// Decode normalizes a stored content value into a Document. It accepts the
// serialized form (string, []byte, json.RawMessage, possibly a JSON string
// wrapping the serialized document) or an already structured value.
func Decode(v any) (*Document, error) {
	var raw []byte
	switch t := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: no content", ErrMalformedDocument)
	case *Document:
		return checkRoot(t)
	case Document:
		return checkRoot(&t)
	case string:
		raw = []byte(t)
	case []byte:
		raw = t
	case json.RawMessage:
		raw = t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		raw = b
	}
	return decodeBytes(raw, true)
}

func decodeBytes(raw []byte, unwrap bool) (*Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: no content", ErrMalformedDocument)
	}
	// The CMS may hand back the serialized document as a JSON string.
	if raw[0] == '"' && unwrap {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return decodeBytes([]byte(inner), false)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return checkRoot(&doc)
}

// checkRoot validates the root node. A root without a type is accepted and
// returned as a normalized copy; the input is never modified.
func checkRoot(doc *Document) (*Document, error) {
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("%w: missing root", ErrMalformedDocument)
	}
	switch doc.Root.Type {
	case "":
		root := *doc.Root
		root.Kind, root.Type = KindRoot, "root"
		return &Document{Root: &root}, nil
	case "root":
	default:
		return nil, fmt.Errorf("%w: root has type %q", ErrMalformedDocument, doc.Root.Type)
	}
	return doc, nil
}

// Encode serializes a document in the editor's storage format.
func Encode(doc *Document) ([]byte, error) {
	doc, err := checkRoot(doc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
