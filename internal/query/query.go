// Package query implements the consumer contract over published artifacts:
// metadata, section and financial-table views. Text fields are reduced to
// ASCII and numeric values are rendered as strings so downstream consumers
// never see NaN.
package query

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode"

	"github.com/avast/retry-go/v4"
	"github.com/yuin/goldmark"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/dvigh8/10k-parser/internal/artifact"
	"github.com/dvigh8/10k-parser/internal/fintab"
	"github.com/dvigh8/10k-parser/internal/index"
	"github.com/dvigh8/10k-parser/internal/layout"
)

// Metadata is the document-level view.
type Metadata struct {
	PageCount      int    `json:"num_pages"`
	Preview        string `json:"preview"`
	Filename       string `json:"filename"`
	FiscalYearDate string `json:"fiscal_year_date"`
}

// Section is one extracted item with emphasis markers intact.
type Section struct {
	ItemKey string `json:"item_key"`
	Content string `json:"content"`
}

// Table is one financial statement with rows rendered for consumers.
type Table struct {
	StatementName string              `json:"statement"`
	Unit          string              `json:"unit"`
	Rows          []map[string]string `json:"data"`
}

var nonASCII = runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
}))

func stripNonASCII(s string) string {
	out, _, err := transform.String(nonASCII, s)
	if err != nil {
		return s
	}
	return out
}

// GetMetadata builds the metadata view from the index and full-text
// artifacts. The preview is the cleaned first reconstructed page.
func GetMetadata(s *artifact.Store) (Metadata, error) {
	info, err := s.ReadInfo()
	if err != nil {
		return Metadata{}, err
	}
	full, err := s.ReadFullText()
	if err != nil {
		return Metadata{}, err
	}
	preview := ""
	if pages := layout.Split(full); len(pages) > 0 {
		preview = layout.Clean(pages[0])
	}
	return Metadata{
		PageCount:      info.Metadata.Length,
		Preview:        stripNonASCII(preview),
		Filename:       info.Metadata.FileName,
		FiscalYearDate: info.Metadata.FiscalYearDate,
	}, nil
}

// GetSection reads one item's section artifact.
func GetSection(s *artifact.Store, itemKey string) (Section, error) {
	text, err := s.ReadSection(itemKey)
	if err != nil {
		return Section{}, err
	}
	return Section{ItemKey: itemKey, Content: stripNonASCII(text)}, nil
}

// SectionHTML renders emphasis-marked section text to HTML. The in-band
// markers are Markdown emphasis, so this is a plain Markdown conversion.
func SectionHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render section html: %w", err)
	}
	return buf.String(), nil
}

// GetTables extracts financial statements from the full-text artifact and
// renders them for consumers: one map per row, label under "Category", one
// entry per detected column, missing or NaN values as empty strings.
func GetTables(s *artifact.Store) ([]Table, error) {
	full, err := s.ReadFullText()
	if err != nil {
		return nil, err
	}

	statements := fintab.Extract(full)
	tables := make([]Table, 0, len(statements))
	for _, st := range statements {
		t := Table{
			StatementName: stripNonASCII(st.Name),
			Unit:          stripNonASCII(st.Unit),
			Rows:          make([]map[string]string, 0, len(st.Rows)),
		}
		for _, row := range st.Rows {
			r := map[string]string{"Category": stripNonASCII(row.Label)}
			for _, col := range st.Columns {
				r[col] = formatValue(row.Values, col)
			}
			// Columns beyond the detected years keep their positional names.
			for col := range row.Values {
				if _, ok := r[col]; !ok {
					r[col] = formatValue(row.Values, col)
				}
			}
			t.Rows = append(t.Rows, r)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func formatValue(values map[string]float64, col string) string {
	v, ok := values[col]
	if !ok || math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WaitInfo polls for the index artifact until it is published or the timeout
// elapses. The pipeline publishes artifacts atomically, so a successful read
// here is always a complete artifact.
func WaitInfo(ctx context.Context, s *artifact.Store, timeout time.Duration) (*index.Info, error) {
	deadline, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return retry.DoWithData(
		func() (*index.Info, error) { return s.ReadInfo() },
		retry.Context(deadline),
		retry.Attempts(0), // until context deadline
		retry.Delay(100*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}
