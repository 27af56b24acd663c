package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFRenderer renders PDF files into spans using ledongthuc/pdf.
type PDFRenderer struct{}

const (
	// Fragments whose baselines differ by less than this are merged
	// candidates for the same run.
	baselineEpsilon = 2.0
	// Horizontal gap below this fraction of the font size joins two
	// fragments into one word run.
	wordGapFraction = 0.3
	// Fallback page height (US Letter) when the MediaBox is unusable.
	defaultPageHeight = 792.0
)

func (PDFRenderer) PageCount(path string) (int, error) {
	f, r, err := pdflib.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	return r.NumPage(), nil
}

func (PDFRenderer) Spans(path string, start, end int) (spans []Span, err error) {
	// The pdf library panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	if start < 0 {
		start = 0
	}
	if end > r.NumPage() {
		end = r.NumPage()
	}
	for i := start; i < end; i++ {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		spans = append(spans, pageSpans(page, i+1)...)
	}
	return spans, nil
}

func pageSpans(page pdflib.Page, pageNum int) []Span {
	content := page.Content()
	if len(content.Text) == 0 {
		return nil
	}
	return mergeRuns(content.Text, pageHeight(page), pageNum)
}

// mergeRuns converts raw text fragments (often single glyphs) into word runs
// with style flags and top-origin coordinates.
func mergeRuns(text []pdflib.Text, height float64, pageNum int) []Span {
	frags := make([]pdflib.Text, len(text))
	copy(frags, text)
	sort.SliceStable(frags, func(i, j int) bool {
		yi, yj := height-frags[i].Y, height-frags[j].Y
		if math.Abs(yi-yj) > baselineEpsilon {
			return yi < yj
		}
		return frags[i].X < frags[j].X
	})

	var spans []Span
	var cur *Span
	var curBaseline, curEnd float64

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.TrimRight(cur.Text, " ")
		if strings.TrimSpace(cur.Text) != "" {
			spans = append(spans, *cur)
		}
		cur = nil
	}

	for _, t := range frags {
		if t.S == "" {
			continue
		}
		y := height - t.Y
		bold := strings.Contains(t.Font, "Bold")
		italic := strings.Contains(t.Font, "Italic")

		gapLimit := t.FontSize * wordGapFraction
		if gapLimit < 1 {
			gapLimit = 1
		}
		sameRun := cur != nil &&
			cur.Bold == bold && cur.Italic == italic &&
			cur.FontSize == t.FontSize &&
			math.Abs(y-curBaseline) <= baselineEpsilon &&
			t.X >= curEnd-1 && t.X-curEnd <= gapLimit

		if sameRun {
			cur.Text += t.S
			curEnd = t.X + t.W
			cur.BBox.X1 = curEnd
			continue
		}

		flush()
		if strings.TrimSpace(t.S) == "" {
			continue // don't start a run on whitespace
		}
		cur = &Span{
			Page:     pageNum,
			Text:     t.S,
			FontSize: t.FontSize,
			Bold:     bold,
			Italic:   italic,
			BBox:     BBox{X0: t.X, Y0: y - t.FontSize, X1: t.X + t.W, Y1: y},
		}
		curBaseline = y
		curEnd = t.X + t.W
	}
	flush()
	return spans
}

// pageHeight resolves the page's MediaBox height. The MediaBox attribute is
// inheritable, so the page-tree Parent chain is walked before giving up.
func pageHeight(page pdflib.Page) float64 {
	v := page.V
	for depth := 0; depth < 16 && !v.IsNull(); depth++ {
		mb := v.Key("MediaBox")
		if mb.Len() == 4 {
			if h := mb.Index(3).Float64() - mb.Index(1).Float64(); h > 0 {
				return h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageHeight
}
