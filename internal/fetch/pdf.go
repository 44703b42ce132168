package fetch

import (
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfText extracts text from PDF bytes page by page. The bytes are staged in
// a temporary file that is removed on every exit path. A page that fails to
// extract contributes an empty string; only a document-level failure is an
// error.
func pdfText(data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "quaero-*.pdf")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		return "", err
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	pageCount, err := api.PageCount(tmp, conf)
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, pageCount)
	for p := 1; p <= pageCount; p++ {
		if _, err := tmp.Seek(0, io.SeekStart); err != nil {
			pages = append(pages, "")
			continue
		}
		r, err := api.ExtractPageContent(tmp, p, conf)
		if err != nil || r == nil {
			pages = append(pages, "")
			continue
		}
		raw, err := io.ReadAll(r)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, contentStreamText(raw))
	}
	return strings.Join(pages, "\n"), nil
}

// contentStreamText scrapes literal strings out of a decoded PDF content
// stream. Extraction fidelity is best-effort: operators and positioning are
// ignored, only the show-text string payloads are kept.
func contentStreamText(stream []byte) string {
	var b strings.Builder
	depth := 0
	escaped := false
	for i := 0; i < len(stream); i++ {
		c := stream[i]
		if depth == 0 {
			if c == '(' {
				depth = 1
			}
			continue
		}
		if escaped {
			switch c {
			case 'n':
				b.WriteByte('\n')
			case 't', 'r':
				b.WriteByte(' ')
			case '(', ')', '\\':
				b.WriteByte(c)
			}
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '(':
			depth++
			b.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	return strings.TrimSpace(b.String())
}
