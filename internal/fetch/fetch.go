// Package fetch retrieves a source URL and turns it into plain text for
// notes assembly. Failures never escape as errors: they are encoded as
// inline markers so one bad source cannot stop a pipeline run.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"

	"github.com/aletho/quaero/internal/extract"
)

// DefaultTimeout bounds a single source fetch.
const DefaultTimeout = 25 * time.Second

// rawFallbackLimit caps the raw-body fallback when no extractor yields text.
const rawFallbackLimit = 8000

// browserUA avoids the bot blocks that a default Go user agent attracts.
const browserUA = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

// Client fetches URLs and extracts normalized plain text.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	Timeout    time.Duration
}

// Text fetches url and returns extracted plain text. It never fails: any
// error is converted to an inline "[Fetch error for <url>: <reason>]"
// marker that flows into the notes bundle.
func (c *Client) Text(ctx context.Context, rawURL string) string {
	text, err := c.fetch(ctx, rawURL)
	if err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("fetch failed; continuing with error marker")
		return fmt.Sprintf("[Fetch error for %s: %v]", rawURL, err)
	}
	return text
}

func (c *Client) fetch(ctx context.Context, rawURL string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	ua := c.UserAgent
	if ua == "" {
		ua = browserUA
	}
	req.Header.Set("User-Agent", ua)

	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if IsPDF(resp.Header.Get("Content-Type"), rawURL) {
		return pdfText(body)
	}
	return htmlText(rawURL, body), nil
}

// IsPDF classifies a response as PDF when the content-type mentions pdf or
// the URL path ends in ".pdf", case-insensitively.
func IsPDF(contentType, rawURL string) bool {
	if strings.Contains(strings.ToLower(contentType), "pdf") {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}

// htmlText runs the extraction chain: readability first, then the plain
// HTML walker, then the first rawFallbackLimit bytes of the body.
func htmlText(rawURL string, body []byte) string {
	if pageURL, err := url.Parse(rawURL); err == nil {
		if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
			if t := strings.TrimSpace(article.TextContent); t != "" {
				return t
			}
		}
	}
	if t := strings.TrimSpace(extract.Text(body)); t != "" {
		return t
	}
	raw := string(body)
	if len(raw) > rawFallbackLimit {
		raw = raw[:rawFallbackLimit]
	}
	return raw
}
