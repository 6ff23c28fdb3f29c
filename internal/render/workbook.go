package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/evalcard/internal/aggregate"
	"github.com/dshills/evalcard/internal/registry"
	"github.com/dshills/evalcard/internal/schema"
)

// Sheet names of the exported workbook.
const (
	SummarySheet = "Summary"
	AnswersSheet = "Answers"
)

var (
	summaryHeaders = []string{"Category", "Type", "Benchmark", "Process", "Total", "Status"}
	answerHeaders  = []string{"Category", "Question", "Section", "Answer", "Explanation", "Sources"}
)

// WriteWorkbook writes the card as an xlsx workbook to w. The Summary sheet
// holds the card header and one row per selected category; the Answers sheet
// holds one row per category and question.
func WriteWorkbook(doc *schema.Document, reg *registry.Registry, w io.Writer) error {
	if doc == nil {
		return fmt.Errorf("render: nil document")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("render: workbook: %w", err)
	}
	if _, err := f.NewSheet(AnswersSheet); err != nil {
		return fmt.Errorf("render: workbook: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("render: workbook: %w", err)
	}

	scores, stats := aggregate.Rescore(doc, reg)
	dash := aggregate.Breakdown(doc.SelectedCategories, scores, reg)

	header := [][]any{
		{"System", doc.SystemName},
		{"Provider", doc.Provider},
		{"Version", doc.Version},
		{"Modality", doc.Modality},
		{"Deployment context", doc.DeploymentContext},
		{"Evaluator", doc.Evaluator},
		{"Evaluation date", doc.EvaluationDate},
		{"Completeness", stats.CompletenessScore},
		{"Applicable categories", stats.TotalApplicable},
	}
	row := 1
	for _, r := range header {
		if err := writeRow(f, SummarySheet, row, r); err != nil {
			return err
		}
		row++
	}
	row++
	if err := writeHeader(f, SummarySheet, row, summaryHeaders, bold); err != nil {
		return err
	}
	for _, r := range dash.Rows {
		row++
		if err := writeRow(f, SummarySheet, row, []any{r.Name, string(r.Type), r.BenchmarkScore, r.ProcessScore, r.TotalScore, string(r.Status)}); err != nil {
			return err
		}
	}

	if err := writeHeader(f, AnswersSheet, 1, answerHeaders, bold); err != nil {
		return err
	}
	row = 1
	for _, id := range doc.SelectedCategories {
		e, ok := doc.CategoryEvaluations[id]
		if !ok {
			continue
		}
		name := id
		if c, ok := reg.Category(id); ok {
			name = c.Name
		}
		for _, q := range reg.Questions() {
			row++
			a := e.Answers(q.Section)[q.ID]
			if err := writeRow(f, AnswersSheet, row, []any{
				name, q.ID, string(q.Section), a.String(), e.NAExplanations[q.ID], sourceSummary(e.Sources(q.Section)[q.ID]),
			}); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("render: workbook write: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, row int, headers []string, style int) error {
	vals := make([]any, len(headers))
	for i, h := range headers {
		vals[i] = h
	}
	if err := writeRow(f, sheet, row, vals); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(headers), row)
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("render: workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, vals []any) error {
	for c, v := range vals {
		cell, err := excelize.CoordinatesToCellName(c+1, row)
		if err != nil {
			return fmt.Errorf("render: workbook: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("render: workbook: %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// sourceSummary joins source descriptions and URLs into one cell.
func sourceSummary(sources []schema.Source) string {
	parts := make([]string, 0, len(sources))
	for _, s := range sources {
		p := s.Description
		if s.URL != "" {
			p = strings.TrimSpace(p + " " + s.URL)
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, "; ")
}
