// Package render is the span source for the extraction core: it turns a
// rendered filing into positioned, style-annotated text fragments. The rest
// of the core only ever sees Spans, never raw document bytes.
package render

// BBox is a fragment's bounding box in page coordinates, top-left origin.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Span is one styled text run from a rendered page. Spans are ephemeral:
// they are consumed by layout reconstruction and not retained.
type Span struct {
	Page     int // 1-indexed
	Text     string
	FontSize float64
	Bold     bool
	Italic   bool
	BBox     BBox
}

// Renderer yields spans for a document and page range.
type Renderer interface {
	// PageCount returns the total number of pages in the document.
	PageCount(path string) (int, error)
	// Spans returns spans for pages [start, end), zero-based. Span.Page is
	// the 1-indexed page number. A page with no text yields no spans.
	Spans(path string, start, end int) ([]Span, error)
}
