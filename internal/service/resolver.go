package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/cloo-solutions/faqd/internal/domain"
)

// ResolveContent interprets an archive payload. Bytes that hold exactly one JSON
// value resolve to structured content; anything else, including empty input,
// resolves to the decoded text with invalid UTF-8 replaced by U+FFFD.
// It never fails.
func ResolveContent(data []byte) domain.FileContent {
	if v, ok := decodeJSON(data); ok {
		return domain.StructuredContent(v)
	}
	return domain.OpaqueContent(strings.ToValidUTF8(string(data), "\uFFFD"))
}

func decodeJSON(data []byte) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	// Keep numbers verbatim so large integers survive re-encoding
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return v, true
}
