package layout

import (
	"strings"
	"testing"

	"github.com/dvigh8/10k-parser/internal/render"
)

func span(page int, text string, x, y float64) render.Span {
	return render.Span{Page: page, Text: text, BBox: render.BBox{X0: x, Y0: y}}
}

func TestPages_LineClusteringAbsorbsBaselineJitter(t *testing.T) {
	// Two spans whose vertical positions differ by sub-line jitter must land
	// on the same line, ordered by x.
	spans := []render.Span{
		span(1, "World", 60, 102),
		span(1, "Hello", 10, 100),
	}
	pages := Pages(spans, 1)

	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	lines := strings.Split(pages[0].Text, "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), pages[0].Text)
	}
	// Hello at x=10: int(10/4)=2 spaces. World at x=60 after
	// prevEnd=10+5*4=30: int(30/4)=7 spaces.
	want := "  Hello" + strings.Repeat(" ", 7) + "World"
	if lines[0] != want {
		t.Errorf("expected line %q, got %q", want, lines[0])
	}
}

func TestPages_SeparateLines(t *testing.T) {
	spans := []render.Span{
		span(1, "second", 10, 120),
		span(1, "first", 10, 100),
	}
	pages := Pages(spans, 1)

	lines := strings.Split(pages[0].Text, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), pages[0].Text)
	}
	if !strings.Contains(lines[0], "first") || !strings.Contains(lines[1], "second") {
		t.Errorf("lines out of vertical order: %q", pages[0].Text)
	}
}

func TestPages_OneSpaceFloor(t *testing.T) {
	// Overlapping spans must still be separated by at least one space.
	spans := []render.Span{
		span(1, "abc", 10, 100),
		span(1, "def", 12, 100),
	}
	pages := Pages(spans, 1)

	if !strings.Contains(pages[0].Text, "abc def") {
		t.Errorf("expected one-space separation, got %q", pages[0].Text)
	}
}

func TestPages_EmphasisMarkers(t *testing.T) {
	spans := []render.Span{
		{Page: 1, Text: "ITEM 1.", Bold: true, BBox: render.BBox{X0: 10, Y0: 100}},
		{Page: 1, Text: "see note", Italic: true, BBox: render.BBox{X0: 10, Y0: 120}},
		{Page: 1, Text: "both", Bold: true, Italic: true, BBox: render.BBox{X0: 10, Y0: 140}},
	}
	pages := Pages(spans, 1)

	text := pages[0].Text
	if !strings.Contains(text, "**ITEM 1.**") {
		t.Errorf("expected bold markers, got %q", text)
	}
	if !strings.Contains(text, "*see note*") {
		t.Errorf("expected italic markers, got %q", text)
	}
	if !strings.Contains(text, "***both***") {
		t.Errorf("expected nested markers for bold italic, got %q", text)
	}
}

func TestPages_EmptyPageYieldsEmptyBlock(t *testing.T) {
	spans := []render.Span{
		span(1, "one", 10, 100),
		span(3, "three", 10, 100),
	}
	pages := Pages(spans, 3)

	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	if pages[1].Number != 2 || pages[1].Text != "" {
		t.Errorf("expected empty page 2, got number=%d text=%q", pages[1].Number, pages[1].Text)
	}
}

func TestJoinSplit_Roundtrip(t *testing.T) {
	pages := []Page{
		{Number: 1, Text: "page one"},
		{Number: 2, Text: "page two"},
		{Number: 3, Text: ""},
	}
	full := Join(pages)

	if !strings.Contains(full, PageBreak) {
		t.Fatalf("expected page break delimiter in full text")
	}
	parts := Split(full)
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if parts[0] != "page one" || parts[1] != "page two" || parts[2] != "" {
		t.Errorf("roundtrip mismatch: %q", parts)
	}
}

func TestClean(t *testing.T) {
	in := "real content\n  42  \nTable of Contents\n 1 2 3 \nmore content"
	got := Clean(in)

	if strings.Contains(got, "42") {
		t.Errorf("digit-only line survived: %q", got)
	}
	if strings.Contains(got, "Table of Contents") {
		t.Errorf("navigation line survived: %q", got)
	}
	if !strings.Contains(got, "real content") || !strings.Contains(got, "more content") {
		t.Errorf("content lines dropped: %q", got)
	}
}

func TestClean_KeepsLinesWithMixedContent(t *testing.T) {
	in := "Item 1. Business 5"
	if got := Clean(in); got != in {
		t.Errorf("mixed text/digit line changed: %q", got)
	}
}
