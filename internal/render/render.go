// Package render produces output from a decoded evaluation card.
package render

import (
	"fmt"
	"strings"

	"github.com/dshills/evalcard/internal/aggregate"
	"github.com/dshills/evalcard/internal/codec"
	"github.com/dshills/evalcard/internal/registry"
	"github.com/dshills/evalcard/internal/schema"
)

// RenderJSON produces the canonical JSON form of the card. The output
// decodes back to an equal document.
func RenderJSON(doc *schema.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("render: nil document")
	}
	b, err := codec.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render: json marshal: %w", err)
	}
	return b, nil
}

// RenderMarkdown produces a GitHub-flavoured Markdown report of the card.
// Category scores and statistics are recomputed from the answers, so the
// report never shows stale numbers from the stored overallStats.
func RenderMarkdown(doc *schema.Document, reg *registry.Registry) string {
	if doc == nil {
		return ""
	}
	scores, stats := aggregate.Rescore(doc, reg)
	dash := aggregate.Breakdown(doc.SelectedCategories, scores, reg)

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Evaluation Card: %s\n\n", mdEscape(doc.SystemName))
	fmt.Fprintf(&sb, "**Provider:** %s  \n", mdEscape(doc.Provider))
	fmt.Fprintf(&sb, "**Version:** %s  \n", mdEscape(doc.Version))
	fmt.Fprintf(&sb, "**Modality:** %s  \n", mdEscape(doc.Modality))
	fmt.Fprintf(&sb, "**Deployment context:** %s  \n", mdEscape(doc.DeploymentContext))
	fmt.Fprintf(&sb, "**Evaluator:** %s  \n", mdEscape(doc.Evaluator))
	fmt.Fprintf(&sb, "**Evaluation date:** %s\n\n", mdEscape(doc.EvaluationDate))

	sb.WriteString("## Overall\n\n")
	fmt.Fprintf(&sb, "**Completeness:** %.1f/100 (%s)  \n", stats.CompletenessScore, aggregate.CardStatus(stats.CompletenessScore))
	fmt.Fprintf(&sb, "**Applicable categories:** %d (capability %d, risk %d)  \n",
		stats.TotalApplicable, stats.CapabilityApplicable, stats.RiskApplicable)
	fmt.Fprintf(&sb, "**Evaluated:** %d of %d\n\n", dash.Evaluated, dash.TotalCategories)
	for _, st := range schema.Bands {
		ids := stats.ByStatus(st)
		if len(ids) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "- **%s:** %s\n", st, strings.Join(categoryNames(ids, reg), ", "))
	}
	sb.WriteString("\n")

	if len(dash.Rows) > 0 {
		sb.WriteString("## Category Scores\n\n")
		sb.WriteString("| Category | Type | Benchmark | Process | Total | Status |\n")
		sb.WriteString("|---|---|---|---|---|---|\n")
		for _, r := range dash.Rows {
			fmt.Fprintf(&sb, "| %s | %s | %d | %d | %d | %s |\n",
				mdEscape(r.Name), r.Type, r.BenchmarkScore, r.ProcessScore, r.TotalScore, r.Status)
		}
		sb.WriteString("\n")
	}

	for _, id := range doc.SelectedCategories {
		e, ok := doc.CategoryEvaluations[id]
		if !ok {
			continue
		}
		writeCategory(&sb, id, e, reg)
	}
	return sb.String()
}

// writeCategory renders the answers, explanations and sources of one category.
func writeCategory(sb *strings.Builder, id string, e schema.CategoryEvaluation, reg *registry.Registry) {
	name := id
	if c, ok := reg.Category(id); ok {
		name = c.Name
	}
	fmt.Fprintf(sb, "### %s\n\n", mdEscape(name))
	sb.WriteString("| ID | Question | Answer | Notes |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, q := range reg.Questions() {
		a := e.Answers(q.Section)[q.ID]
		answer := a.String()
		if a.Empty() {
			answer = "-"
		}
		fmt.Fprintf(sb, "| %s | %s | %s | %s |\n", q.ID, mdEscape(q.Text), answer, mdEscape(e.NAExplanations[q.ID]))
	}
	sb.WriteString("\n")

	for _, q := range reg.Questions() {
		writeSources(sb, q.ID, e.Sources(q.Section)[q.ID], reg)
	}
	if strings.TrimSpace(e.AdditionalAspects) != "" {
		fmt.Fprintf(sb, "**Additional aspects:** %s\n\n", mdEscape(e.AdditionalAspects))
	}
}

// writeSources renders the evidence list of one question into sb.
func writeSources(sb *strings.Builder, qid string, sources []schema.Source, reg *registry.Registry) {
	if len(sources) == 0 {
		return
	}
	fmt.Fprintf(sb, "**Sources for %s:**\n\n", qid)
	for _, s := range sources {
		fmt.Fprintf(sb, "- [%s] %s", registry.SourceTypeLabel(s.SourceType), mdEscape(s.Description))
		if s.URL != "" {
			fmt.Fprintf(sb, " (<%s>)", s.URL)
		}
		if s.Score != nil {
			fmt.Fprintf(sb, ", score %s", mdEscape(*s.Score))
		}
		sb.WriteString("\n")
		for _, k := range s.DetailKeys() {
			label := k
			if f, ok := reg.Field(qid, k); ok {
				label = f.Label
			}
			fmt.Fprintf(sb, "  - %s: %s\n", label, mdEscape(s.Detail(k)))
		}
	}
	sb.WriteString("\n")
}

func categoryNames(ids []string, reg *registry.Registry) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id
		if c, ok := reg.Category(id); ok {
			out[i] = c.Name
		}
	}
	return out
}

// mdEscape replaces characters that would break Markdown table cells.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
