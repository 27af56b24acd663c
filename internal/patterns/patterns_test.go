package patterns

import "testing"

func TestFiscalYearPatterns_Precedence(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"For the Fiscal Year Ended December 31, 2023", "year_ended"},
		{"Year Ended June 30, 2022", "year_ended"},
		{"FISCAL YEAR ENDED DECEMBER 31, 2023", "year_ended"}, // case-insensitive first pattern wins
		{"For the Year Ended March 31 2021", "year_ended"},
	}
	for _, tt := range tests {
		matched := ""
		for _, p := range Default.FiscalYear {
			if p.Re.MatchString(tt.text) {
				matched = p.Name
				break
			}
		}
		if matched != tt.want {
			t.Errorf("text %q: expected pattern %q, got %q", tt.text, tt.want, matched)
		}
	}
}

func TestFiscalYearPatterns_NoMatch(t *testing.T) {
	for _, p := range Default.FiscalYear {
		if p.Re.MatchString("Quarter Ended December 31, 2023") {
			t.Errorf("pattern %q matched a quarterly period", p.Name)
		}
	}
}

func TestPartMarker(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"PART I", true},
		{"PART II", true},
		{"PART IV", true},
		{"PARTY TIME", false},
		{"part i", false},
		{"Item 1. Business 5", false},
	}
	for _, tt := range tests {
		if got := Default.PartMarker.MatchString(tt.line); got != tt.want {
			t.Errorf("part marker on %q: expected %v, got %v", tt.line, tt.want, got)
		}
	}
}

func TestItemLine(t *testing.T) {
	m := Default.ItemLine.FindStringSubmatch("Item 1A. Risk Factors 8")
	if m == nil {
		t.Fatal("expected item line to match")
	}
	if m[1] != "1A" || m[2] != "Risk Factors" || m[3] != "8" {
		t.Errorf("unexpected groups: %q", m[1:])
	}

	if Default.ItemLine.MatchString("Item 1A. Risk Factors") {
		t.Error("item line without a page number should not match")
	}
}

func TestItemHeading(t *testing.T) {
	if !Default.ItemHeading.MatchString("text **ITEM 7. MANAGEMENT'S DISCUSSION**") {
		t.Error("expected emphasis-marked heading to match")
	}
	if Default.ItemHeading.MatchString("ITEM 7. MANAGEMENT'S DISCUSSION") {
		t.Error("unmarked heading should not match")
	}
}

func TestYearColumn(t *testing.T) {
	got := Default.YearColumn.FindAllStringSubmatch("**2023** **2022**", -1)
	if len(got) != 2 || got[0][1] != "2023" || got[1][1] != "2022" {
		t.Errorf("unexpected year columns: %v", got)
	}
}

func TestTableRow(t *testing.T) {
	m := Default.TableRow.FindStringSubmatch("Total assets 1,234 (567)")
	if m == nil {
		t.Fatal("expected row to match")
	}
	if m[2] != "1,234" || m[3] != "(567)" || m[4] != "" {
		t.Errorf("unexpected groups: %q", m[1:])
	}

	if Default.TableRow.MatchString("Notes to Financial Statements") {
		t.Error("prose line should not match as a table row")
	}
}

func TestLoad_RejectsEmptyTables(t *testing.T) {
	if _, err := Load([]byte("part_marker: 'x'")); err == nil {
		t.Error("expected error for pattern file without fiscal_year entries")
	}
}
