// Package aggregate rolls per-category scores up into document-level
// statistics and the dashboard breakdown.
package aggregate

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/dshills/evalcard/internal/registry"
	"github.com/dshills/evalcard/internal/schema"
	"github.com/dshills/evalcard/internal/scoring"
)

// maxWeight is the completeness weight of a strong category.
const maxWeight = 4

// Aggregate computes the overall statistics for the selected categories.
// Status lists follow the order of selected; ids that are unknown to the
// registry, repeated, or have no score are left out of them.
func Aggregate(selected []string, scores map[string]schema.CategoryScore, reg *registry.Registry) schema.OverallStats {
	out := schema.OverallStats{
		StrongCategories:       []string{},
		AdequateCategories:     []string{},
		WeakCategories:         []string{},
		InsufficientCategories: []string{},
	}

	var capWeight, riskWeight float64
	for _, id := range dedupe(selected) {
		c, ok := reg.Category(id)
		if !ok {
			continue
		}
		score, scored := scores[id]
		w := 0.0
		if scored {
			w = float64(scoring.StatusOrdinal(score.Status))
		}
		switch c.Type {
		case schema.TypeCapability:
			out.CapabilityApplicable++
			capWeight += w
		case schema.TypeRisk:
			out.RiskApplicable++
			riskWeight += w
		}
		if !scored {
			continue
		}
		switch score.Status {
		case schema.StatusStrong:
			out.StrongCategories = append(out.StrongCategories, id)
		case schema.StatusAdequate:
			out.AdequateCategories = append(out.AdequateCategories, id)
		case schema.StatusWeak:
			out.WeakCategories = append(out.WeakCategories, id)
		case schema.StatusInsufficient:
			out.InsufficientCategories = append(out.InsufficientCategories, id)
		}
	}
	out.TotalApplicable = out.CapabilityApplicable + out.RiskApplicable

	var subsetScores, subsetCounts []float64
	if out.CapabilityApplicable > 0 {
		subsetScores = append(subsetScores, SubsetScore(capWeight, out.CapabilityApplicable))
		subsetCounts = append(subsetCounts, float64(out.CapabilityApplicable))
	}
	if out.RiskApplicable > 0 {
		subsetScores = append(subsetScores, SubsetScore(riskWeight, out.RiskApplicable))
		subsetCounts = append(subsetCounts, float64(out.RiskApplicable))
	}
	if len(subsetScores) > 0 {
		out.CompletenessScore = finite(stat.Mean(subsetScores, subsetCounts))
	}
	return out
}

// Rescore recomputes every category score of a document from its answers and
// rebuilds the overall statistics, completeness rounded to one decimal.
// Unmodelled keys of the stored statistics are carried over.
// Evaluations of categories that are not selected are not scored.
func Rescore(doc *schema.Document, reg *registry.Registry) (map[string]schema.CategoryScore, schema.OverallStats) {
	scores := make(map[string]schema.CategoryScore, len(doc.CategoryEvaluations))
	for _, id := range doc.SelectedCategories {
		if e, ok := doc.CategoryEvaluations[id]; ok {
			scores[id] = scoring.ScoreEvaluation(e, reg)
		}
	}
	stats := Aggregate(doc.SelectedCategories, scores, reg)
	stats.CompletenessScore = RoundScore(stats.CompletenessScore)
	stats.Extra = doc.OverallStats.Extra
	return scores, stats
}

// SubsetScore normalises a summed status weight to 0–100.
func SubsetScore(weight float64, applicable int) float64 {
	if applicable <= 0 {
		return 0
	}
	return finite(weight / float64(applicable*maxWeight) * 100)
}

// CardStatus bands a completeness score for the listing cards.
func CardStatus(completeness float64) schema.Status {
	switch {
	case completeness >= 85:
		return schema.StatusStrong
	case completeness >= 70:
		return schema.StatusAdequate
	case completeness >= 55:
		return schema.StatusWeak
	default:
		return schema.StatusInsufficient
	}
}

// RoundScore rounds to one decimal place. Non-finite input yields 0.
func RoundScore(x float64) float64 {
	return finite(math.Round(finite(x)*10) / 10)
}

// Row is one bar of the category score chart.
type Row struct {
	CategoryID     string
	Name           string
	Type           schema.CategoryType
	BenchmarkScore int
	ProcessScore   int
	TotalScore     int
	Status         schema.Status
}

// Dashboard is the results breakdown shown after all categories are saved.
type Dashboard struct {
	TotalCategories int
	Evaluated       int
	Counts          map[schema.Status]int
	// Mean total score per type and overall, over evaluated categories only.
	CapabilityMean float64
	RiskMean       float64
	OverallMean    float64
	// Rows is sorted by total score, highest first.
	Rows []Row
}

// Breakdown computes the dashboard for the selected categories.
func Breakdown(selected []string, scores map[string]schema.CategoryScore, reg *registry.Registry) Dashboard {
	d := Dashboard{Counts: map[schema.Status]int{}}
	var capTotals, riskTotals, allTotals []float64
	for _, id := range dedupe(selected) {
		c, ok := reg.Category(id)
		if !ok {
			continue
		}
		d.TotalCategories++
		score, scored := scores[id]
		row := Row{CategoryID: id, Name: c.Name, Type: c.Type, Status: schema.StatusNotEvaluated}
		if scored {
			d.Evaluated++
			d.Counts[score.Status]++
			row.BenchmarkScore = score.BenchmarkScore
			row.ProcessScore = score.ProcessScore
			row.TotalScore = score.TotalScore
			row.Status = score.Status
			total := float64(score.TotalScore)
			allTotals = append(allTotals, total)
			if c.Type == schema.TypeCapability {
				capTotals = append(capTotals, total)
			} else {
				riskTotals = append(riskTotals, total)
			}
		}
		d.Rows = append(d.Rows, row)
	}
	sort.SliceStable(d.Rows, func(i, j int) bool {
		return d.Rows[i].TotalScore > d.Rows[j].TotalScore
	})
	d.CapabilityMean = mean(capTotals)
	d.RiskMean = mean(riskTotals)
	d.OverallMean = mean(allTotals)
	return d
}

// mean returns 0 for empty input rather than an error.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m, err := stats.Mean(xs)
	if err != nil {
		return 0
	}
	return finite(m)
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
