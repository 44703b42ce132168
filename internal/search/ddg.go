package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const defaultDDGURL = "https://lite.duckduckgo.com/lite/"

// Secondary-provider limits are deliberately small: the lite backend starts
// returning anomaly pages when hammered, so we never ask for more than this.
const ddgMaxResults = 5

// DuckDuckGo implements Provider against the keyless DuckDuckGo lite
// backend. Requests pass through the shared Gate so that all concurrent
// pipeline runs in the process stay under the upstream rate limit.
type DuckDuckGo struct {
	BaseURL    string // defaults to the lite endpoint
	UserAgent  string
	HTTPClient *http.Client
	Gate       Gate
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if limit <= 0 || limit > ddgMaxResults {
		limit = ddgMaxResults
	}
	if d.Gate != nil {
		if err := d.Gate.Wait(ctx); err != nil {
			return nil, err
		}
	}
	endpoint := d.BaseURL
	if endpoint == "" {
		endpoint = defaultDDGURL
	}
	form := url.Values{}
	form.Set("q", query)
	form.Set("kl", "us-en") // fixed region
	form.Set("kp", "-1")    // moderate safe-search
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}

	hc := d.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("duckduckgo status: %d", resp.StatusCode)
	}
	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}
	out := collectResultLinks(doc, limit)
	return out, nil
}

// collectResultLinks walks the lite results page and gathers anchors marked
// as result links, resolving DDG redirect wrappers to the target URL.
func collectResultLinks(root *html.Node, limit int) []Hit {
	out := make([]Hit, 0, limit)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(out) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result-link") {
			href := attr(n, "href")
			if u := resolveRedirect(href); u != "" {
				out = append(out, Hit{Title: strings.TrimSpace(nodeText(n)), URL: u})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// resolveRedirect unwraps //duckduckgo.com/l/?uddg=<encoded> links; plain
// http(s) links pass through unchanged.
func resolveRedirect(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			if decoded, err := url.QueryUnescape(target); err == nil {
				href = decoded
			} else {
				href = target
			}
		}
	}
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return ""
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
