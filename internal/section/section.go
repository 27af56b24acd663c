// Package section slices the reconstructed filing text into per-Item
// sections using the structural index and in-text emphasis-marked headings.
package section

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dvigh8/10k-parser/internal/index"
	"github.com/dvigh8/10k-parser/internal/layout"
	"github.com/dvigh8/10k-parser/internal/patterns"
)

// ErrStartMarker means the item's emphasis-marked heading was not found in
// its page window. Recoverable: the caller logs, skips the item, and keeps
// going with the rest of the batch.
var ErrStartMarker = errors.New("section start marker not found")

// The index declares zero-based page positions while reconstructed pages are
// addressed one-based; these offsets compensate. The extra trailing page
// catches sections that run onto the page carrying the next heading. Tunable,
// but the values must move together with the index's end-page overlap rule.
const (
	windowStartOffset = 1
	windowEndOffset   = 2
)

// Extract returns the text of one item: from its emphasis-marked heading up
// to (not including) the next item heading, or to the end of the page window
// for the terminal item. pages are raw reconstructed page texts in document
// order.
func Extract(pages []string, itemKey string, e index.Entry) (string, error) {
	start := e.StartPage + windowStartOffset
	end := e.EndPage + windowEndOffset // exclusive
	if start < 0 {
		start = 0
	}
	if end > len(pages) {
		end = len(pages)
	}
	if start >= end {
		return "", fmt.Errorf("%s: page window [%d, %d) is empty: %w", itemKey, start, end, ErrStartMarker)
	}

	window := make([]string, 0, end-start)
	for _, p := range pages[start:end] {
		window = append(window, layout.Clean(p))
	}
	text := strings.Join(window, "\n")

	startRe, err := regexp.Compile(`\*\*` + regexp.QuoteMeta(strings.ToUpper(itemKey)) + `\.`)
	if err != nil {
		return "", fmt.Errorf("%s: compile start marker: %w", itemKey, err)
	}
	loc := startRe.FindStringIndex(text)
	if loc == nil {
		return "", fmt.Errorf("%s: %w", itemKey, ErrStartMarker)
	}

	rest := text[loc[1]:]
	if next := patterns.Default.ItemHeading.FindStringIndex(rest); next != nil {
		return text[loc[0] : loc[1]+next[0]], nil
	}
	// Terminal item: runs to the end of the window.
	return text[loc[0]:], nil
}
