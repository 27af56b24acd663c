// Package index locates a 10-K filing's table of contents and parses it into
// a structural index of Items with page ranges.
package index

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dvigh8/10k-parser/internal/layout"
	"github.com/dvigh8/10k-parser/internal/patterns"
)

// ErrNotFound means no page in the scanned window looked like the filing's
// table of contents. This is fatal for the document: no section or table
// work can proceed without an index.
var ErrNotFound = errors.New("index not found")

// DefaultScanPages is how many leading pages are searched for the index.
const DefaultScanPages = 10

// Entry is one Item in the filing's structural index. Pages are the
// zero-based positions declared by the filing itself.
type Entry struct {
	Description string `json:"description"`
	StartPage   int    `json:"start_page"`
	EndPage     int    `json:"end_page"`
	Part        string `json:"part"`
}

// Metadata is document-level information extracted alongside the index.
type Metadata struct {
	FiscalYearDate string `json:"fiscal_year_date"`
	FileName       string `json:"file_name"`
	Length         int    `json:"length"`
}

// Info is the persisted index artifact: the item index plus metadata.
type Info struct {
	Index    map[string]Entry `json:"index"`
	Metadata Metadata         `json:"metadata"`
}

// Build scans the first min(scanPages, len(pages)) reconstructed pages for
// the table of contents and parses it. pages are raw reconstructed page
// texts in document order; fileName and totalPages go into the metadata.
func Build(pages []string, fileName string, totalPages, scanPages int) (*Info, error) {
	if scanPages <= 0 {
		scanPages = DefaultScanPages
	}
	if scanPages > len(pages) {
		scanPages = len(pages)
	}

	var indexText, fiscalYearDate string
	found := false
	for i := 0; i < scanPages; i++ {
		// Bold markers become spaces so they can't split marker phrases.
		text := strings.ReplaceAll(layout.Clean(pages[i]), "**", " ")
		if !strings.Contains(text, "PART I") || !strings.Contains(text, "Item 1.") {
			continue
		}
		indexText = text
		fiscalYearDate = findFiscalYear(text)
		found = true
		break
	}
	if !found {
		return nil, fmt.Errorf("first %d pages: %w", scanPages, ErrNotFound)
	}

	return &Info{
		Index: parseEntries(indexText),
		Metadata: Metadata{
			FiscalYearDate: fiscalYearDate,
			FileName:       fileName,
			Length:         totalPages,
		},
	}, nil
}

// findFiscalYear runs the ordered fiscal-year patterns and returns the first
// match, or "" when none applies.
func findFiscalYear(text string) string {
	for _, p := range patterns.Default.FiscalYear {
		if m := p.Re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// parseEntries reads the index page line by line. A part marker opens a new
// current-part context; item lines become entries attached to it.
func parseEntries(text string) map[string]Entry {
	entries := make(map[string]Entry)
	currentPart := ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if patterns.Default.PartMarker.MatchString(line) {
			currentPart = line
			continue
		}
		m := patterns.Default.ItemLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		page := atoi(m[3])
		entries["Item "+m[1]] = Entry{
			Description: strings.TrimSpace(m[2]),
			StartPage:   page,
			EndPage:     page,
			Part:        currentPart,
		}
	}

	computeEndPages(entries)
	return entries
}

// computeEndPages extends each entry's end page to its successor. Adjacent
// entries in the same part share the boundary page, since a section usually
// runs onto the page where the next heading appears; across parts the
// earlier entry stops one page short unless both start on the same page.
func computeEndPages(entries map[string]Entry) {
	keys := Keys(entries)
	for i := 0; i+1 < len(keys); i++ {
		cur, next := entries[keys[i]], entries[keys[i+1]]
		if next.StartPage <= cur.StartPage {
			continue
		}
		if cur.Part == next.Part {
			cur.EndPage = next.StartPage
		} else {
			cur.EndPage = next.StartPage - 1
		}
		entries[keys[i]] = cur
	}
}

// Keys orders item keys by start page, breaking ties by item number and
// letter suffix so iteration over an index is deterministic.
func Keys(entries map[string]Entry) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := entries[keys[i]], entries[keys[j]]
		if a.StartPage != b.StartPage {
			return a.StartPage < b.StartPage
		}
		ni, si := splitItemKey(keys[i])
		nj, sj := splitItemKey(keys[j])
		if ni != nj {
			return ni < nj
		}
		return si < sj
	})
	return keys
}

// splitItemKey breaks "Item 1A" into (1, "A").
func splitItemKey(key string) (int, string) {
	rest := strings.TrimPrefix(key, "Item ")
	num := 0
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		num = num*10 + int(rest[i]-'0')
		i++
	}
	return num, rest[i:]
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
