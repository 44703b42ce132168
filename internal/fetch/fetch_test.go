package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const articlePage = `<html><head><title>PFAS brief</title></head><body>
<article>
<h1>PFAS in drinking water</h1>
<p>Granular activated carbon removes PFAS through adsorption. Empty bed contact
time drives sizing, and media replacement dominates operating cost over the
asset lifetime for most municipal installations.</p>
<p>Ion exchange resins offer higher selectivity for short-chain compounds but
carry a higher unit price and a disposal burden for spent media.</p>
</article>
<nav>Home | Products | Contact</nav>
</body></html>`

func TestText_ExtractsArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "Mozilla/5.0") {
			t.Fatalf("expected browser user agent, got %q", ua)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	c := &Client{HTTPClient: srv.Client(), Timeout: 5 * time.Second}
	got := c.Text(context.Background(), srv.URL)
	if !strings.Contains(got, "adsorption") {
		t.Fatalf("article text missing: %q", got)
	}
	if strings.Contains(got, "<p>") {
		t.Fatalf("markup leaked into extracted text: %q", got)
	}
}

func TestText_BadStatusBecomesMarker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := &Client{HTTPClient: srv.Client(), Timeout: 5 * time.Second}
	got := c.Text(context.Background(), srv.URL)
	if !strings.HasPrefix(got, "[Fetch error for "+srv.URL) {
		t.Fatalf("expected fetch error marker, got %q", got)
	}
	if !strings.Contains(got, "403") {
		t.Fatalf("expected status in marker, got %q", got)
	}
}

func TestText_UnreachableHostBecomesMarker(t *testing.T) {
	c := &Client{Timeout: time.Second}
	got := c.Text(context.Background(), "http://127.0.0.1:1/nope")
	if !strings.HasPrefix(got, "[Fetch error for ") {
		t.Fatalf("expected fetch error marker, got %q", got)
	}
}

func TestIsPDF(t *testing.T) {
	cases := []struct {
		contentType string
		url         string
		want        bool
	}{
		{"application/pdf", "https://a.example/doc", true},
		{"APPLICATION/PDF; charset=binary", "https://a.example/doc", true},
		{"text/html", "https://a.example/report.PDF", true},
		{"text/html", "https://a.example/report.pdf?dl=1", true},
		{"text/html", "https://a.example/page", false},
		{"", "https://a.example/pdf-guide", false},
	}
	for _, tc := range cases {
		if got := IsPDF(tc.contentType, tc.url); got != tc.want {
			t.Errorf("IsPDF(%q, %q) = %v, want %v", tc.contentType, tc.url, got, tc.want)
		}
	}
}

func TestHTMLText_RawFallback(t *testing.T) {
	// A page with no extractable prose falls back to the clipped raw body.
	body := []byte("just plain bytes, no markup at all")
	got := htmlText("https://a.example/x", body)
	if got == "" {
		t.Fatal("expected non-empty fallback text")
	}
	long := []byte("<x>" + strings.Repeat("z", 3*rawFallbackLimit))
	if got := htmlText("https://a.example/x", long); len(got) > 3*rawFallbackLimit {
		t.Fatalf("raw fallback not bounded: %d", len(got))
	}
}

func TestContentStreamText(t *testing.T) {
	stream := []byte("BT /F1 12 Tf (Hello) Tj (world \\(PFAS\\)) Tj ET")
	got := contentStreamText(stream)
	if !strings.Contains(got, "Hello") || !strings.Contains(got, "world (PFAS)") {
		t.Fatalf("unexpected stream text: %q", got)
	}
}
