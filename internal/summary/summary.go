// Package summary provides the extractive last-resort summarizer used when
// the remote model is unavailable. It depends on nothing outside the
// standard library and never fails.
package summary

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxSentences is the bullet budget when the caller has no opinion.
const DefaultMaxSentences = 7

// NoContent is returned for input with no sentences at all.
const NoContent = "(no content)"

// maxScanSentences bounds work on very large notes blobs.
const maxScanSentences = 400

// Domain vocabulary for scoring. Sentences mentioning treatment, limits, or
// cost terms are favored over boilerplate.
var keywords = map[string]struct{}{
	"pfas": {}, "pfoa": {}, "pfos": {}, "limit": {}, "standard": {},
	"guideline": {}, "gac": {}, "ion": {}, "exchange": {}, "ebct": {},
	"ro": {}, "cost": {}, "costs": {}, "treatment": {}, "drinking": {},
	"water": {}, "regulation": {}, "epa": {}, "who": {}, "eu": {},
	"uk": {}, "compare": {}, "design": {}, "table": {},
}

var wordRe = regexp.MustCompile(`[A-Za-z0-9_]+`)

type scored struct {
	score float64
	index int
	text  string
}

// Summarize picks the highest-scoring sentences from notes and renders them
// as a bulleted digest in original document order.
func Summarize(notesText string, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	if strings.TrimSpace(notesText) == "" {
		return NoContent
	}
	sentences := splitSentences(notesText)
	if len(sentences) == 0 {
		return NoContent
	}
	if len(sentences) > maxScanSentences {
		sentences = sentences[:maxScanSentences]
	}

	candidates := make([]scored, 0, len(sentences))
	for i, s := range sentences {
		words := wordRe.FindAllString(strings.ToLower(s), -1)
		if len(words) == 0 {
			continue
		}
		kw := 0
		for _, w := range words {
			if _, ok := keywords[w]; ok {
				kw++
			}
		}
		score := float64(kw) + minF(float64(len(s))/120.0, 1.5)
		if i < 5 {
			// lede bias: openings tend to carry the thesis
			score += 1.0
		}
		candidates = append(candidates, scored{score: score, index: i, text: strings.TrimSpace(s)})
	}
	if len(candidates) == 0 {
		return Clip400(sentences[0])
	}

	// Highest score first; ties resolve to earlier sentences.
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].index < candidates[b].index
	})
	if len(candidates) > maxSentences {
		candidates = candidates[:maxSentences]
	}
	// Back into document order for readability.
	sort.Slice(candidates, func(a, b int) bool { return candidates[a].index < candidates[b].index })

	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		lines = append(lines, c.text)
	}
	return "• " + strings.Join(lines, "\n• ")
}

// Clip400 bounds a raw sentence used as a degenerate summary. The cut is
// made in characters so multi-byte text survives intact.
func Clip400(s string) string {
	runes := []rune(s)
	if len(runes) <= 400 {
		return s
	}
	return string(runes[:400])
}

// splitSentences breaks text on sentence-ending punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func splitSentences(s string) []string {
	var out []string
	start := 0
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// consume a run of terminators, then require whitespace
		j := i
		for j+1 < len(runes) && (runes[j+1] == '.' || runes[j+1] == '!' || runes[j+1] == '?') {
			j++
		}
		if j+1 < len(runes) && isSpace(runes[j+1]) {
			out = append(out, string(runes[start:j+1]))
			k := j + 1
			for k < len(runes) && isSpace(runes[k]) {
				k++
			}
			start = k
			i = k - 1
			continue
		}
		i = j
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
