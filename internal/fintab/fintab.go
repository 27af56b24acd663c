// Package fintab recovers numeric financial-statement tables from the
// reconstructed full text of a filing.
package fintab

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dvigh8/10k-parser/internal/layout"
	"github.com/dvigh8/10k-parser/internal/patterns"
)

// Row is one table row: a label and one value per detected column.
type Row struct {
	Label  string
	Values map[string]float64
}

// Statement is one recovered financial statement. Rows may be empty when a
// statement was located but none of its lines parsed as numeric rows.
type Statement struct {
	Name    string
	PageRef string // the filing's internal "F-n" page reference
	Unit    string
	Columns []string // detected year columns, in page order
	Rows    []Row
}

var whitespace = regexp.MustCompile(`\s+`)

// statementRe matches a known statement name followed later by an F-page
// reference, built from the configured statement name list.
var statementRe = regexp.MustCompile(
	"(" + strings.Join(patterns.Default.StatementNames, "|") + ").*?(" + patterns.Default.PageRef + ")",
)

// Extract finds financial statements referenced in the filing and parses
// their tables. fullText is the persisted full document, pages joined by the
// page-break delimiter. The result preserves first-seen order; repeated
// (name, page-ref) pairs are deduplicated.
func Extract(fullText string) []Statement {
	normalized := whitespace.ReplaceAllString(fullText, " ")
	matches := statementRe.FindAllStringSubmatch(normalized, -1)

	seen := make(map[[2]string]bool)
	pages := layout.Split(fullText)

	var statements []Statement
	for _, m := range matches {
		key := [2]string{m[1], m[2]}
		if seen[key] {
			continue
		}
		seen[key] = true

		st := Statement{Name: m[1], PageRef: m[2], Unit: "Unknown unit"}
		if page := findPage(pages, m[2]); page != "" {
			st.Unit, st.Columns, st.Rows = parseTable(page)
		}
		statements = append(statements, st)
	}
	return statements
}

// findPage returns the original (non-normalized) page whose text ends with
// the given F-page reference.
func findPage(pages []string, pageRef string) string {
	for _, p := range pages {
		if strings.HasSuffix(strings.TrimSpace(p), pageRef) {
			return p
		}
	}
	return ""
}

// parseTable recovers unit, year columns and numeric rows from one page.
// Malformed tokens degrade to skipping the row, never aborting the rest.
func parseTable(text string) (unit string, columns []string, rows []Row) {
	text = strings.ReplaceAll(text, "$", " ")

	unit = "Unknown unit"
	if m := patterns.Default.UnitLabel.FindStringSubmatch(text); m != nil {
		unit = m[1]
	}

	for _, m := range patterns.Default.YearColumn.FindAllStringSubmatch(text, -1) {
		columns = append(columns, m[1])
	}

	for _, m := range patterns.Default.TableRow.FindAllStringSubmatch(text, -1) {
		values := make(map[string]float64)
		ok := true
		col := 0
		for _, tok := range m[2:] {
			if tok == "" {
				continue
			}
			v, err := parseNumber(tok)
			if err != nil {
				ok = false
				break
			}
			values[columnName(columns, col)] = v
			col++
		}
		if !ok || len(values) == 0 {
			continue
		}
		rows = append(rows, Row{Label: strings.TrimSpace(m[1]), Values: values})
	}
	return unit, columns, rows
}

// columnName maps the i-th value to its detected year column, falling back
// to a positional name when the row has more values than detected columns.
func columnName(columns []string, i int) string {
	if i < len(columns) {
		return columns[i]
	}
	return fmt.Sprintf("col%d", i+1)
}

// parseNumber converts a table token: thousands separators are stripped and
// parenthesized values become negatives.
func parseNumber(tok string) (float64, error) {
	tok = strings.ReplaceAll(tok, ",", "")
	tok = strings.ReplaceAll(tok, "(", "-")
	tok = strings.ReplaceAll(tok, ")", "")
	tok = strings.TrimSpace(tok)
	return strconv.ParseFloat(tok, 64)
}
