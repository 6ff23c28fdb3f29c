// Package scoring provides the deterministic scoring and status
// classification of a single evaluated category. No I/O happens here.
package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/evalcard/internal/registry"
	"github.com/dshills/evalcard/internal/schema"
)

// Status thresholds, as a fraction of applicable questions answered yes.
const (
	strongRatio   = 0.8
	adequateRatio = 0.6
	weakRatio     = 0.4
)

// Score computes the category score from the two answer maps. Entries keyed
// by ids that are not canonical questions of the respective section are
// ignored; the maps are never modified.
func Score(benchmark, process map[string]schema.Answer, reg *registry.Registry) schema.CategoryScore {
	b := countYes(benchmark, schema.SectionBenchmark, reg)
	p := countYes(process, schema.SectionProcess, reg)
	total := b + p
	return schema.CategoryScore{
		BenchmarkScore: b,
		ProcessScore:   p,
		TotalScore:     total,
		Status:         Classify(total, Applicable(benchmark, process, reg)),
	}
}

// ScoreEvaluation is Score over a CategoryEvaluation.
func ScoreEvaluation(e schema.CategoryEvaluation, reg *registry.Registry) schema.CategoryScore {
	return Score(e.BenchmarkAnswers, e.ProcessAnswers, reg)
}

// Applicable counts the known-question answers that are not "na".
func Applicable(benchmark, process map[string]schema.Answer, reg *registry.Registry) int {
	n := 0
	for id, a := range benchmark {
		if reg.IsBenchmark(id) && a.Applicable() {
			n++
		}
	}
	for id, a := range process {
		if reg.IsProcess(id) && a.Applicable() {
			n++
		}
	}
	return n
}

func countYes(answers map[string]schema.Answer, sec schema.Section, reg *registry.Registry) int {
	n := 0
	for id, a := range answers {
		if reg.SectionOf(id) == sec && a.IsYes() {
			n++
		}
	}
	return n
}

// Classify maps a total score to a status band using the share of applicable
// questions answered yes. With nothing applicable the ratio is 0.
//
//	ratio >= 0.8 → strong
//	ratio >= 0.6 → adequate
//	ratio >= 0.4 → weak
//	otherwise    → insufficient
func Classify(totalScore, applicable int) schema.Status {
	denom := applicable
	if denom < 1 {
		denom = 1
	}
	ratio := float64(totalScore) / float64(denom)
	if applicable == 0 {
		ratio = 0
	}
	switch {
	case ratio >= strongRatio:
		return schema.StatusStrong
	case ratio >= adequateRatio:
		return schema.StatusAdequate
	case ratio >= weakRatio:
		return schema.StatusWeak
	default:
		return schema.StatusInsufficient
	}
}

// StatusOrdinal returns the numeric ordinal for a status, higher is better.
// strong=4, adequate=3, weak=2, insufficient=1, not-evaluated=0.
// The ordinal doubles as the completeness weight of the status.
func StatusOrdinal(s schema.Status) int {
	switch s {
	case schema.StatusStrong:
		return 4
	case schema.StatusAdequate:
		return 3
	case schema.StatusWeak:
		return 2
	case schema.StatusInsufficient:
		return 1
	default:
		return 0
	}
}

// IncompleteError reports why a category cannot be saved yet.
type IncompleteError struct {
	// Missing lists questions without an answer.
	Missing []string
	// Unexplained lists "na" answers without an explanation.
	Unexplained []string
}

func (e *IncompleteError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "unanswered: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexplained) > 0 {
		parts = append(parts, "missing na explanation: "+strings.Join(e.Unexplained, ", "))
	}
	return fmt.Sprintf("scoring: category incomplete (%s)", strings.Join(parts, "; "))
}

// CheckComplete returns nil when every canonical question has an answer and
// every "na" answer carries a non-blank explanation, and an *IncompleteError
// otherwise.
func CheckComplete(e schema.CategoryEvaluation, reg *registry.Registry) error {
	var missing, unexplained []string
	for _, q := range reg.Questions() {
		a := e.Answers(q.Section)[q.ID]
		if a.Empty() {
			missing = append(missing, q.ID)
			continue
		}
		if a.OnlyNA() && strings.TrimSpace(e.NAExplanations[q.ID]) == "" {
			unexplained = append(unexplained, q.ID)
		}
	}
	if len(missing) == 0 && len(unexplained) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(unexplained)
	return &IncompleteError{Missing: missing, Unexplained: unexplained}
}

// IsComplete reports whether CheckComplete passes.
func IsComplete(e schema.CategoryEvaluation, reg *registry.Registry) bool {
	return CheckComplete(e, reg) == nil
}
