// Package patterns holds the heuristic regex tables used across the
// extraction core as ordered, data-driven lists with explicit precedence.
// The tables live in an embedded YAML file so each pattern can be tuned and
// unit-tested on its own.
package patterns

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed patterns.yaml
var raw []byte

// Named is one pattern in an ordered list.
type Named struct {
	Name string
	Re   *regexp.Regexp
}

// Set is the compiled pattern table.
type Set struct {
	FiscalYear     []Named // ordered, first match wins
	PartMarker     *regexp.Regexp
	ItemLine       *regexp.Regexp
	ItemHeading    *regexp.Regexp
	StatementNames []string
	PageRef        string
	UnitLabel      *regexp.Regexp
	YearColumn     *regexp.Regexp
	TableRow       *regexp.Regexp
}

type file struct {
	FiscalYear []struct {
		Name    string `yaml:"name"`
		Pattern string `yaml:"pattern"`
	} `yaml:"fiscal_year"`
	PartMarker     string   `yaml:"part_marker"`
	ItemLine       string   `yaml:"item_line"`
	ItemHeading    string   `yaml:"item_heading"`
	StatementNames []string `yaml:"statement_names"`
	PageRef        string   `yaml:"page_ref"`
	UnitLabel      string   `yaml:"unit_label"`
	YearColumn     string   `yaml:"year_column"`
	TableRow       string   `yaml:"table_row"`
}

// Default is the compiled embedded table.
var Default = mustLoad()

func mustLoad() *Set {
	s, err := Load(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// Load parses and compiles a pattern table.
func Load(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse patterns: %w", err)
	}

	s := &Set{
		StatementNames: f.StatementNames,
		PageRef:        f.PageRef,
	}
	for _, p := range f.FiscalYear {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile fiscal_year %q: %w", p.Name, err)
		}
		s.FiscalYear = append(s.FiscalYear, Named{Name: p.Name, Re: re})
	}

	var err error
	compile := func(name, expr string) *regexp.Regexp {
		if err != nil {
			return nil
		}
		re, cerr := regexp.Compile(expr)
		if cerr != nil {
			err = fmt.Errorf("compile %s: %w", name, cerr)
		}
		return re
	}
	s.PartMarker = compile("part_marker", f.PartMarker)
	s.ItemLine = compile("item_line", f.ItemLine)
	s.ItemHeading = compile("item_heading", f.ItemHeading)
	s.UnitLabel = compile("unit_label", f.UnitLabel)
	s.YearColumn = compile("year_column", f.YearColumn)
	s.TableRow = compile("table_row", "(?m)"+f.TableRow)
	if err != nil {
		return nil, err
	}
	if len(s.FiscalYear) == 0 {
		return nil, fmt.Errorf("patterns: no fiscal_year patterns defined")
	}
	if len(s.StatementNames) == 0 {
		return nil, fmt.Errorf("patterns: no statement_names defined")
	}
	return s, nil
}
