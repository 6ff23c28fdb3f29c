// Package verdict provides deterministic local logic for scoring a review
// and determining its verdict. No LLM calls are made here.
package verdict

import (
	"fmt"
	"strings"

	"github.com/dshills/evalcard/internal/schema"
)

// ComputeScore calculates the review score from finding counts.
// Start at 100; subtract 20 per CRITICAL, 7 per WARN, 2 per INFO; clamp to [0, 100].
func ComputeScore(criticalCount, warnCount, infoCount int) int {
	score := 100 - (criticalCount * 20) - (warnCount * 7) - (infoCount * 2)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// VerdictOrdinal returns the numeric ordinal for a verdict, used to compare
// severity order. CLEAN=0, NEEDS_ATTENTION=1, BLOCKING=2.
// Used by --fail-on comparison: exit 2 if VerdictOrdinal(actual) >= VerdictOrdinal(threshold).
func VerdictOrdinal(v schema.Verdict) int {
	switch v {
	case schema.VerdictClean:
		return 0
	case schema.VerdictNeedsAttention:
		return 1
	case schema.VerdictBlocking:
		return 2
	default:
		return -1
	}
}

// Parse converts a --fail-on value into a Verdict. Matching is case-insensitive
// and accepts dashes in place of underscores.
func Parse(s string) (schema.Verdict, error) {
	v := schema.Verdict(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if VerdictOrdinal(v) < 0 {
		return "", fmt.Errorf("verdict: unknown verdict %q (want clean, needs-attention or blocking)", s)
	}
	return v, nil
}

// DetermineVerdict applies the verdict rules to a set of findings and the
// card's recomputed statistics.
//
// Rules (in order of precedence):
//  1. Any CRITICAL finding → BLOCKING
//  2. Any WARN finding → NEEDS_ATTENTION
//  3. Any selected category in the insufficient band → NEEDS_ATTENTION
//  4. Otherwise → CLEAN
func DetermineVerdict(findings []schema.Finding, stats schema.OverallStats) schema.Verdict {
	critical, warn, _ := CountSeverities(findings)
	switch {
	case critical > 0:
		return schema.VerdictBlocking
	case warn > 0:
		return schema.VerdictNeedsAttention
	case len(stats.InsufficientCategories) > 0:
		return schema.VerdictNeedsAttention
	}
	return schema.VerdictClean
}

// CountSeverities returns the count of findings at each severity level.
func CountSeverities(findings []schema.Finding) (critical, warn, info int) {
	for _, f := range findings {
		switch f.Severity {
		case schema.SeverityCritical:
			critical++
		case schema.SeverityWarn:
			warn++
		case schema.SeverityInfo:
			info++
		}
	}
	return
}

// EscalateSeverity escalates the severity of a finding in strict mode.
// In strict mode: INFO → WARN, WARN → CRITICAL; CRITICAL is unchanged.
// Outside strict mode: no change.
func EscalateSeverity(f schema.Finding, strict bool) schema.Finding {
	if !strict {
		return f
	}
	switch f.Severity {
	case schema.SeverityInfo:
		f.Severity = schema.SeverityWarn
	case schema.SeverityWarn:
		f.Severity = schema.SeverityCritical
	}
	return f
}

// Apply escalates findings when strict is set, then fills in the review's
// score and verdict.
func Apply(r *schema.Review, stats schema.OverallStats, strict bool) {
	for i := range r.Findings {
		r.Findings[i] = EscalateSeverity(r.Findings[i], strict)
	}
	c, w, i := CountSeverities(r.Findings)
	r.Score = ComputeScore(c, w, i)
	r.Verdict = DetermineVerdict(r.Findings, stats)
}
