package domain

import "time"

// ArchiveFile describes a document held by the external document archive.
type ArchiveFile struct {
	ID           string
	CollectionID string
	Filename     string
	Bytes        int64
	ContentType  string
	Status       string
	Purpose      string
	CreatedAt    time.Time
}

// ArchiveFilePage is one page of a collection listing.
type ArchiveFilePage struct {
	Files   []*ArchiveFile
	HasMore bool
	LastID  string
}

// ContentKind tags how a file payload was resolved.
type ContentKind string

const (
	ContentKindStructured ContentKind = "structured"
	ContentKindOpaque     ContentKind = "opaque"
)

// FileContent is the resolved payload of an archive file: either a parsed
// structured value or the raw decoded text. Exactly one of the two is meaningful,
// selected by Kind.
type FileContent struct {
	Kind       ContentKind
	Structured any
	Text       string
}

// StructuredContent wraps a successfully parsed payload.
func StructuredContent(v any) FileContent {
	return FileContent{Kind: ContentKindStructured, Structured: v}
}

// OpaqueContent wraps a payload that did not parse.
func OpaqueContent(text string) FileContent {
	return FileContent{Kind: ContentKindOpaque, Text: text}
}

// IsStructured reports whether the payload parsed cleanly.
func (c FileContent) IsStructured() bool {
	return c.Kind == ContentKindStructured
}

// Value returns the parsed structure for structured content and the text otherwise.
func (c FileContent) Value() any {
	if c.IsStructured() {
		return c.Structured
	}
	return c.Text
}

// ArchiveDocument is an archive file together with its resolved content.
type ArchiveDocument struct {
	File    *ArchiveFile
	Content FileContent
}
