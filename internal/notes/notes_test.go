package notes

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClip_ShortInputUnchanged(t *testing.T) {
	in := "short text"
	if got := Clip(in, 100); got != in {
		t.Fatalf("expected input unchanged, got %q", got)
	}
}

func TestClip_LongInputBounded(t *testing.T) {
	in := strings.Repeat("a", 500)
	got := Clip(in, 100)
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Fatalf("missing truncation marker: %q", got[len(got)-30:])
	}
	if len(got) > 100+len(TruncationMarker) {
		t.Fatalf("clip exceeded bound: %d", len(got))
	}
}

func TestClip_MultiByteInput(t *testing.T) {
	// 3000 characters of two-byte runes: fits a 4001-character limit even
	// though the byte length is larger.
	in := strings.Repeat("é", 3000)
	if got := Clip(in, 4001); got != in {
		t.Fatalf("multi-byte input clipped despite fitting the character limit")
	}

	got := Clip(in, 100)
	if !utf8.ValidString(got) {
		t.Fatalf("clip produced invalid UTF-8 at the cut")
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Fatalf("missing truncation marker: %q", got)
	}
	kept := strings.TrimSuffix(got, TruncationMarker)
	if utf8.RuneCountInString(kept) != 100 {
		t.Fatalf("expected 100 characters kept, got %d", utf8.RuneCountInString(kept))
	}
}

func TestClip_ExactBoundary(t *testing.T) {
	in := strings.Repeat("b", 100)
	if got := Clip(in, 100); got != in {
		t.Fatalf("boundary input should be unchanged")
	}
}

func TestNewDocument_RecordsTruncation(t *testing.T) {
	d := NewDocument("https://a.example/", strings.Repeat("x", 50), 10)
	if !d.Truncated {
		t.Fatal("expected truncated document")
	}
	d = NewDocument("https://a.example/", "tiny", 10)
	if d.Truncated {
		t.Fatal("expected untruncated document")
	}
}

func TestBundle_HeadersAndOrder(t *testing.T) {
	docs := []Document{
		{SourceURL: "https://a.example/", Text: "alpha"},
		{SourceURL: "https://b.example/", Text: "beta"},
	}
	got := Bundle(docs)
	want := "# https://a.example/\nalpha\n\n# https://b.example/\nbeta"
	if got != want {
		t.Fatalf("unexpected bundle:\n%q", got)
	}
}
