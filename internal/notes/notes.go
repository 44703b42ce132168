// Package notes assembles fetched source texts into the single labeled blob
// fed to the synthesizer.
package notes

import (
	"strings"
	"unicode/utf8"
)

// DefaultClipLimit bounds the characters kept per source in the notes
// bundle.
const DefaultClipLimit = 4000

// TruncationMarker is appended whenever Clip shortens its input.
const TruncationMarker = "\n...[truncated]"

// Clip returns s unchanged when it fits within n characters, otherwise the
// first n characters followed by the truncation marker. Cuts always land on
// a rune boundary so clipped text stays valid UTF-8.
func Clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + TruncationMarker
}

// Document is the text fetched for one source, clipped for notes assembly.
type Document struct {
	SourceURL string
	Text      string
	Truncated bool
}

// NewDocument clips text to limit and records whether clipping happened.
func NewDocument(sourceURL, text string, limit int) Document {
	if limit <= 0 {
		limit = DefaultClipLimit
	}
	return Document{
		SourceURL: sourceURL,
		Text:      Clip(text, limit),
		Truncated: utf8.RuneCountInString(text) > limit,
	}
}

// Bundle joins documents into the notes blob: each block is headed by its
// source URL and blocks are separated by blank lines. Order follows the
// input slice, which the orchestrator keeps aligned with source order.
func Bundle(docs []Document) string {
	blocks := make([]string, 0, len(docs))
	for _, d := range docs {
		blocks = append(blocks, "# "+d.SourceURL+"\n"+d.Text)
	}
	return strings.Join(blocks, "\n\n")
}
