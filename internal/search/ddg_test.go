package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const liteResultsPage = `<html><body><table>
<tr><td>1.</td><td>
<a rel="nofollow" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fepa.example%2Fpfas" class="result-link">EPA PFAS rule</a>
</td></tr>
<tr><td>2.</td><td>
<a rel="nofollow" href="https://who.example/guidelines" class="result-link">WHO guidelines</a>
</td></tr>
<tr><td></td><td><a href="/settings" class="nav-link">settings</a></td></tr>
</table></body></html>`

func TestDuckDuckGo_Search_ParsesLitePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("q") != "pfas" || r.PostForm.Get("kl") != "us-en" {
			t.Fatalf("unexpected form: %v", r.PostForm)
		}
		_, _ = w.Write([]byte(liteResultsPage))
	}))
	defer srv.Close()

	d := &DuckDuckGo{BaseURL: srv.URL, HTTPClient: srv.Client(), Gate: NopGate{}}
	got, err := d.Search(context.Background(), "pfas", 5)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hits, got %d: %+v", len(got), got)
	}
	if got[0].URL != "https://epa.example/pfas" {
		t.Fatalf("redirect not unwrapped: %q", got[0].URL)
	}
	if got[0].Title != "EPA PFAS rule" {
		t.Fatalf("unexpected title: %q", got[0].Title)
	}
	if got[1].URL != "https://who.example/guidelines" {
		t.Fatalf("unexpected second url: %q", got[1].URL)
	}
}

func TestDuckDuckGo_Search_CapsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(liteResultsPage))
	}))
	defer srv.Close()

	d := &DuckDuckGo{BaseURL: srv.URL, HTTPClient: srv.Client(), Gate: NopGate{}}
	got, err := d.Search(context.Background(), "pfas", 100)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) > ddgMaxResults {
		t.Fatalf("limit not capped: %d", len(got))
	}
}

func TestIntervalGate_FirstCallImmediate(t *testing.T) {
	g := NewIntervalGate(1)
	if err := g.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
