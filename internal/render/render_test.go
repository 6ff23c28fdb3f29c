package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/evalcard/internal/codec"
	"github.com/dshills/evalcard/internal/fixtures"
	"github.com/dshills/evalcard/internal/registry"
	"github.com/dshills/evalcard/internal/schema"
)

var reg = registry.Default()

func sampleDocument(t *testing.T) *schema.Document {
	t.Helper()
	doc, err := codec.DecodeFile("../../testdata/public/evaluations/example-model.json")
	if err != nil {
		t.Fatalf("DecodeFile error: %v", err)
	}
	return doc
}

func TestRenderJSON_RoundTrip(t *testing.T) {
	doc := sampleDocument(t)
	b, err := RenderJSON(doc)
	if err != nil {
		t.Fatalf("RenderJSON error: %v", err)
	}
	got, err := codec.Decode(b)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got.ID != doc.ID {
		t.Errorf("id mismatch: got %q, want %q", got.ID, doc.ID)
	}
	if len(got.SelectedCategories) != len(doc.SelectedCategories) {
		t.Errorf("selected count mismatch: got %d, want %d", len(got.SelectedCategories), len(doc.SelectedCategories))
	}
	if got.OverallStats.CompletenessScore != doc.OverallStats.CompletenessScore {
		t.Errorf("completeness mismatch: got %v, want %v", got.OverallStats.CompletenessScore, doc.OverallStats.CompletenessScore)
	}
	if !strings.HasSuffix(string(b), "}\n") {
		t.Error("expected a single trailing newline")
	}
}

func TestRenderJSON_NilDocument(t *testing.T) {
	if _, err := RenderJSON(nil); err == nil {
		t.Error("expected error for nil document, got nil")
	}
}

func TestRenderMarkdown_Summary(t *testing.T) {
	md := RenderMarkdown(sampleDocument(t), reg)
	wants := []string{
		"## Evaluation Card: Example Model",
		"**Provider:** Example Org",
		"**Completeness:** 50.0/100 (insufficient)",
		"**Applicable categories:** 2 (capability 1, risk 1)",
		"- **adequate:** Language & Communication",
		"- **insufficient:** Harmful Content Generation",
	}
	for _, w := range wants {
		if !strings.Contains(md, w) {
			t.Errorf("markdown missing %q", w)
		}
	}
}

func TestRenderMarkdown_ScoreTable(t *testing.T) {
	md := RenderMarkdown(sampleDocument(t), reg)
	lang := "| Language & Communication | capability | 3 | 3 | 6 | adequate |"
	harm := "| Harmful Content Generation | risk | 0 | 1 | 1 | insufficient |"
	if !strings.Contains(md, lang) {
		t.Errorf("markdown missing row %q", lang)
	}
	if !strings.Contains(md, harm) {
		t.Errorf("markdown missing row %q", harm)
	}
	if strings.Index(md, lang) > strings.Index(md, harm) {
		t.Error("score rows should be sorted by total, highest first")
	}
}

func TestRenderMarkdown_AnswersAndSources(t *testing.T) {
	md := RenderMarkdown(sampleDocument(t), reg)
	wants := []string{
		"### Language & Communication",
		"No standard adopted yet.",
		"| yes, no |",
		"**Sources for A1:**",
		"- [External] MMLU 5-shot (<https://example.org/mmlu>), score 81.2",
		"  - benchmarkName: MMLU",
		"**Additional aspects:** Evaluated in English only.",
	}
	for _, w := range wants {
		if !strings.Contains(md, w) {
			t.Errorf("markdown missing %q", w)
		}
	}
}

func TestRenderMarkdown_RecomputesStaleStats(t *testing.T) {
	doc := sampleDocument(t)
	doc.OverallStats.CompletenessScore = 99
	md := RenderMarkdown(doc, reg)
	if strings.Contains(md, "99.0/100") {
		t.Error("markdown used the stored completeness instead of recomputing")
	}
}

func TestRenderMarkdown_EscapesPipes(t *testing.T) {
	doc := sampleDocument(t)
	doc.SystemName = "before|after"
	md := RenderMarkdown(doc, reg)
	if !strings.Contains(md, `before\|after`) {
		t.Error("pipe in system name not escaped")
	}
}

func TestRenderMarkdown_NilDocument(t *testing.T) {
	if got := RenderMarkdown(nil, reg); got != "" {
		t.Errorf("expected empty string for nil document, got %q", got)
	}
}

func TestRenderTerminal(t *testing.T) {
	out, err := RenderTerminal("# Title\n\nhello world\n", 40, "notty")
	if err != nil {
		t.Fatalf("RenderTerminal error: %v", err)
	}
	if !strings.Contains(out, "hello world") {
		t.Errorf("terminal output missing paragraph text: %q", out)
	}
}

func TestRenderTerminal_UnknownStyle(t *testing.T) {
	if _, err := RenderTerminal("x", 40, "no-such-style"); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWorkbook(sampleDocument(t), reg, &buf); err != nil {
		t.Fatalf("WriteWorkbook error: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader error: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != SummarySheet || sheets[1] != AnswersSheet {
		t.Fatalf("sheets = %v", sheets)
	}
	if v, _ := f.GetCellValue(SummarySheet, "B1"); v != "Example Model" {
		t.Errorf("Summary!B1 = %q", v)
	}
	if v, _ := f.GetCellValue(SummarySheet, "B8"); v != "50" {
		t.Errorf("Summary!B8 (completeness) = %q", v)
	}
	if v, _ := f.GetCellValue(SummarySheet, "A11"); v != "Category" {
		t.Errorf("Summary!A11 = %q, want header", v)
	}
	if v, _ := f.GetCellValue(SummarySheet, "E12"); v != "6" {
		t.Errorf("Summary!E12 (top total) = %q", v)
	}

	rows, err := f.GetRows(AnswersSheet)
	if err != nil {
		t.Fatalf("GetRows error: %v", err)
	}
	if len(rows) != 25 {
		t.Fatalf("answer rows = %d, want header + 2x12", len(rows))
	}
	if rows[1][0] != "Language & Communication" || rows[1][1] != "A1" || rows[1][3] != "yes" {
		t.Errorf("first answer row = %v", rows[1])
	}
	if rows[23][1] != "B5" || rows[23][3] != "yes, no" {
		t.Errorf("merged answer row = %v", rows[23])
	}
}

func TestWriteWorkbook_NilDocument(t *testing.T) {
	if err := WriteWorkbook(nil, reg, &bytes.Buffer{}); err == nil {
		t.Error("expected error for nil document")
	}
}

func TestRenderCards(t *testing.T) {
	md := RenderCards([]fixtures.Card{{
		ID:                   "eval-1",
		SystemName:           "A|B",
		Provider:             "Org",
		CompletedDate:        "2024-01-02",
		ApplicableCategories: 3,
		CompletedCategories:  2,
		CompletenessScore:    62.5,
		Status:               schema.StatusWeak,
	}})
	want := `| eval-1 | A\|B | Org | 2024-01-02 | 2/3 | 62.5 | weak |`
	if !strings.Contains(md, want) {
		t.Errorf("cards table missing row %q:\n%s", want, md)
	}
	if got := RenderCards(nil); got != "No evaluations found.\n" {
		t.Errorf("RenderCards(nil) = %q", got)
	}
}

func TestMdEscape(t *testing.T) {
	cases := []struct{ in, want string }{
		{"no pipes", "no pipes"},
		{"a|b", `a\|b`},
		{"a|b|c", `a\|b\|c`},
		{"line\nbreak", "line break"},
		{"", ""},
	}
	for _, c := range cases {
		got := mdEscape(c.in)
		if got != c.want {
			t.Errorf("mdEscape(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
