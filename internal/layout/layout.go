// Package layout reconstructs page text from positioned spans, preserving
// horizontal alignment and bold/italic emphasis as in-band markers.
package layout

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dvigh8/10k-parser/internal/render"
)

// PageBreak separates pages in the full-document text artifact.
const PageBreak = "\n\n======= Page Break =======\n\n"

const (
	// Vertical bucket size: baselines within the same 5-unit bucket are
	// treated as one line, absorbing sub-pixel jitter.
	lineTolerance = 5.0
	// Approximate glyph width used to convert horizontal gaps to spaces.
	glyphWidth = 4.0
)

// Page is the reconstructed text of one 1-indexed page.
type Page struct {
	Number int
	Text   string
}

type placed struct {
	x, y float64
	text string
}

// Pages reconstructs text for pages 1..pageCount from the given spans.
// Pages without spans yield an empty text block. If pageCount is zero, the
// highest page number seen in spans is used.
func Pages(spans []render.Span, pageCount int) []Page {
	byPage := make(map[int][]placed)
	for _, s := range spans {
		text := s.Text
		if s.Bold {
			text = "**" + text + "**"
		}
		if s.Italic {
			text = "*" + text + "*"
		}
		byPage[s.Page] = append(byPage[s.Page], placed{x: s.BBox.X0, y: s.BBox.Y0, text: text})
		if s.Page > pageCount {
			pageCount = s.Page
		}
	}

	pages := make([]Page, 0, pageCount)
	for n := 1; n <= pageCount; n++ {
		pages = append(pages, Page{Number: n, Text: pageText(byPage[n])})
	}
	return pages
}

func pageText(items []placed) string {
	if len(items) == 0 {
		return ""
	}

	lines := make(map[float64][]placed)
	for _, it := range items {
		key := math.Round(it.y/lineTolerance) * lineTolerance
		lines[key] = append(lines[key], it)
	}

	keys := make([]float64, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	var out []string
	for _, k := range keys {
		line := lines[k]
		sort.SliceStable(line, func(i, j int) bool { return line[i].x < line[j].x })

		var b strings.Builder
		prevEnd := 0.0
		for _, it := range line {
			// One-space floor keeps adjacent tokens from merging.
			spaces := int((it.x - prevEnd) / glyphWidth)
			if spaces < 1 {
				spaces = 1
			}
			b.WriteString(strings.Repeat(" ", spaces))
			b.WriteString(it.text)
			prevEnd = it.x + float64(utf8.RuneCountInString(it.text))*glyphWidth
		}
		out = append(out, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(out, "\n")
}

// Join concatenates page texts in document order with the page-break
// delimiter.
func Join(pages []Page) string {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, PageBreak)
}

// Split is the inverse of Join over the persisted full-text artifact.
func Split(full string) []string {
	return strings.Split(full, PageBreak)
}

// Clean drops digit-only lines (bare page numbers) and "Table of Contents"
// navigation lines. Applied to index and section windows, never to the
// persisted full text.
func Clean(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if s := strings.ReplaceAll(line, " ", ""); s != "" && isDigits(s) {
			continue
		}
		if strings.TrimSpace(line) == "Table of Contents" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
