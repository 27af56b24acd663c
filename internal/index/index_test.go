package index

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuild_SyntheticIndexPage(t *testing.T) {
	pages := []string{
		"**PART I**\nItem 1. Business 5\nItem 1A. Risk Factors 8",
	}
	info, err := Build(pages, "filing.pdf", 30, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e1, ok := info.Index["Item 1"]
	if !ok {
		t.Fatal("expected entry for Item 1")
	}
	if e1.StartPage != 5 {
		t.Errorf("Item 1 start: expected 5, got %d", e1.StartPage)
	}
	if e1.EndPage != 8 {
		t.Errorf("Item 1 end: expected inclusive overlap 8, got %d", e1.EndPage)
	}
	if e1.Description != "Business" {
		t.Errorf("Item 1 description: expected %q, got %q", "Business", e1.Description)
	}
	if e1.Part != "PART I" {
		t.Errorf("Item 1 part: expected %q, got %q", "PART I", e1.Part)
	}

	e1a, ok := info.Index["Item 1A"]
	if !ok {
		t.Fatal("expected entry for Item 1A")
	}
	if e1a.StartPage != 8 || e1a.EndPage != 8 {
		t.Errorf("Item 1A pages: expected start=end=8, got %d..%d", e1a.StartPage, e1a.EndPage)
	}
}

func TestBuild_CrossPartEndPageTrimmedByOne(t *testing.T) {
	pages := []string{
		"**PART I**\nItem 1. Business 5\n**PART II**\nItem 5. Market 20",
	}
	info, err := Build(pages, "filing.pdf", 40, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := info.Index["Item 1"].EndPage; got != 19 {
		t.Errorf("cross-part end page: expected 19, got %d", got)
	}
}

func TestBuild_CrossPartSameStartPageNotTrimmed(t *testing.T) {
	pages := []string{
		"**PART I**\nItem 4. Mine Safety 12\n**PART II**\nItem 5. Market 12",
	}
	info, err := Build(pages, "filing.pdf", 40, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Start pages coincide, so the earlier entry keeps its own page.
	if got := info.Index["Item 4"].EndPage; got != 12 {
		t.Errorf("same-start cross-part end page: expected 12, got %d", got)
	}
}

func TestBuild_FiscalYearDate(t *testing.T) {
	pages := []string{
		"For the Fiscal Year Ended December 31, 2023\n**PART I**\nItem 1. Business 5",
	}
	info, err := Build(pages, "filing.pdf", 30, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "For the Fiscal Year Ended December 31, 2023"
	if info.Metadata.FiscalYearDate != want {
		t.Errorf("fiscal year: expected %q, got %q", want, info.Metadata.FiscalYearDate)
	}
}

func TestBuild_FiscalYearAbsent(t *testing.T) {
	pages := []string{
		"**PART I**\nItem 1. Business 5",
	}
	info, err := Build(pages, "filing.pdf", 30, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Metadata.FiscalYearDate != "" {
		t.Errorf("expected empty fiscal year, got %q", info.Metadata.FiscalYearDate)
	}
}

func TestBuild_IndexNotFoundIsFatal(t *testing.T) {
	pages := []string{"cover page", "some prose", "more prose"}
	_, err := Build(pages, "filing.pdf", 3, 10)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBuild_ScanWindowIsBounded(t *testing.T) {
	// The index page sits just past the scan window and must not be found.
	pages := make([]string, 11)
	for i := range pages {
		pages[i] = "filler"
	}
	pages[10] = "**PART I**\nItem 1. Business 5"

	if _, err := Build(pages, "filing.pdf", 11, 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for index outside scan window, got %v", err)
	}

	// Widening the window finds it.
	if _, err := Build(pages, "filing.pdf", 11, 11); err != nil {
		t.Fatalf("unexpected error with widened window: %v", err)
	}
}

func TestBuild_ScansOnlyUntilIndexPageFound(t *testing.T) {
	// A later page that also looks like an index must not override the first.
	pages := []string{
		"**PART I**\nItem 1. Business 5",
		"**PART I**\nItem 1. Business 99",
	}
	info, err := Build(pages, "filing.pdf", 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := info.Index["Item 1"].StartPage; got != 5 {
		t.Errorf("expected first index page to win, got start=%d", got)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	pages := []string{
		"For the Year Ended June 30, 2022\n**PART I**\nItem 1. Business 5\nItem 1A. Risk Factors 8\n**PART II**\nItem 5. Market 20",
	}
	a, err := Build(pages, "filing.pdf", 40, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Build(pages, "filing.pdf", 40, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected identical results, got %+v vs %+v", a, b)
	}
}

func TestBuild_Metadata(t *testing.T) {
	pages := []string{"**PART I**\nItem 1. Business 5"}
	info, err := Build(pages, "acme-10k.pdf", 87, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Metadata.FileName != "acme-10k.pdf" {
		t.Errorf("file name: got %q", info.Metadata.FileName)
	}
	if info.Metadata.Length != 87 {
		t.Errorf("length: expected 87, got %d", info.Metadata.Length)
	}
}

func TestKeys_DeterministicOrder(t *testing.T) {
	entries := map[string]Entry{
		"Item 2":  {StartPage: 20},
		"Item 1":  {StartPage: 5},
		"Item 1A": {StartPage: 8},
		"Item 1B": {StartPage: 8},
	}
	want := []string{"Item 1", "Item 1A", "Item 1B", "Item 2"}
	if got := Keys(entries); !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}
