package verdict

import (
	"testing"

	"github.com/dshills/evalcard/internal/schema"
)

func TestComputeScore(t *testing.T) {
	cases := []struct {
		crit, warn, info int
		want             int
	}{
		{0, 0, 0, 100},
		{1, 0, 0, 80},  // 100 - 20
		{0, 1, 0, 93},  // 100 - 7
		{0, 0, 1, 98},  // 100 - 2
		{5, 0, 0, 0},   // clamped at 0
		{1, 1, 1, 71},  // 100 - 20 - 7 - 2
		{0, 0, 51, 0},  // 100 - 102 = -2, clamped to 0
	}
	for _, c := range cases {
		got := ComputeScore(c.crit, c.warn, c.info)
		if got != c.want {
			t.Errorf("ComputeScore(%d, %d, %d) = %d, want %d", c.crit, c.warn, c.info, got, c.want)
		}
	}
}

func TestVerdictOrdinal(t *testing.T) {
	ordinals := []struct {
		v schema.Verdict
		o int
	}{
		{schema.VerdictClean, 0},
		{schema.VerdictNeedsAttention, 1},
		{schema.VerdictBlocking, 2},
	}
	for i := 1; i < len(ordinals); i++ {
		prev := ordinals[i-1]
		curr := ordinals[i]
		if VerdictOrdinal(prev.v) >= VerdictOrdinal(curr.v) {
			t.Errorf("VerdictOrdinal(%q) >= VerdictOrdinal(%q): not strictly ascending",
				prev.v, curr.v)
		}
		if VerdictOrdinal(curr.v) != curr.o {
			t.Errorf("VerdictOrdinal(%q) = %d, want %d", curr.v, VerdictOrdinal(curr.v), curr.o)
		}
	}
}

func TestVerdictOrdinal_Unknown(t *testing.T) {
	if got := VerdictOrdinal("UNKNOWN"); got != -1 {
		t.Errorf("VerdictOrdinal(UNKNOWN) = %d, want -1", got)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want schema.Verdict
		ok   bool
	}{
		{"clean", schema.VerdictClean, true},
		{"needs-attention", schema.VerdictNeedsAttention, true},
		{"NEEDS_ATTENTION", schema.VerdictNeedsAttention, true},
		{" Blocking ", schema.VerdictBlocking, true},
		{"violation", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if (err == nil) != c.ok {
			t.Errorf("Parse(%q) err = %v, want ok=%v", c.in, err, c.ok)
			continue
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDetermineVerdict(t *testing.T) {
	crit := schema.Finding{Category: "bias-fairness", Severity: schema.SeverityCritical, Message: "x"}
	warn := schema.Finding{Category: "bias-fairness", Severity: schema.SeverityWarn, Message: "x"}
	info := schema.Finding{Category: "bias-fairness", Severity: schema.SeverityInfo, Message: "x"}
	weak := schema.OverallStats{InsufficientCategories: []string{"bias-fairness"}}

	cases := []struct {
		name     string
		findings []schema.Finding
		stats    schema.OverallStats
		want     schema.Verdict
	}{
		{"critical wins", []schema.Finding{info, warn, crit}, schema.OverallStats{}, schema.VerdictBlocking},
		{"warn", []schema.Finding{info, warn}, schema.OverallStats{}, schema.VerdictNeedsAttention},
		{"insufficient category", []schema.Finding{info}, weak, schema.VerdictNeedsAttention},
		{"info only", []schema.Finding{info}, schema.OverallStats{}, schema.VerdictClean},
		{"nothing", nil, schema.OverallStats{}, schema.VerdictClean},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DetermineVerdict(c.findings, c.stats); got != c.want {
				t.Errorf("DetermineVerdict = %q, want %q", got, c.want)
			}
		})
	}
}

func TestCountSeverities(t *testing.T) {
	findings := []schema.Finding{
		{Severity: schema.SeverityCritical},
		{Severity: schema.SeverityWarn},
		{Severity: schema.SeverityWarn},
		{Severity: schema.SeverityInfo},
		{Severity: schema.SeverityInfo},
		{Severity: schema.SeverityInfo},
	}
	c, w, i := CountSeverities(findings)
	if c != 1 || w != 2 || i != 3 {
		t.Errorf("CountSeverities = (%d, %d, %d), want (1, 2, 3)", c, w, i)
	}
}

func TestEscalateSeverity(t *testing.T) {
	cases := []struct {
		in     schema.Severity
		strict bool
		want   schema.Severity
	}{
		{schema.SeverityInfo, true, schema.SeverityWarn},
		{schema.SeverityWarn, true, schema.SeverityCritical},
		{schema.SeverityCritical, true, schema.SeverityCritical},
		{schema.SeverityInfo, false, schema.SeverityInfo},
		{schema.SeverityWarn, false, schema.SeverityWarn},
	}
	for _, c := range cases {
		got := EscalateSeverity(schema.Finding{Severity: c.in}, c.strict)
		if got.Severity != c.want {
			t.Errorf("EscalateSeverity(%s, strict=%v) = %s, want %s", c.in, c.strict, got.Severity, c.want)
		}
	}
}

func TestApply(t *testing.T) {
	r := &schema.Review{Findings: []schema.Finding{
		{Category: "bias-fairness", Severity: schema.SeverityInfo, Message: "a"},
		{Category: "bias-fairness", Severity: schema.SeverityWarn, Message: "b"},
	}}
	Apply(r, schema.OverallStats{}, false)
	if r.Score != 91 || r.Verdict != schema.VerdictNeedsAttention {
		t.Errorf("lenient Apply: score %d verdict %s, want 91 NEEDS_ATTENTION", r.Score, r.Verdict)
	}

	Apply(r, schema.OverallStats{}, true)
	if r.Findings[0].Severity != schema.SeverityWarn || r.Findings[1].Severity != schema.SeverityCritical {
		t.Errorf("strict Apply findings = %+v", r.Findings)
	}
	if r.Score != 73 || r.Verdict != schema.VerdictBlocking {
		t.Errorf("strict Apply: score %d verdict %s, want 73 BLOCKING", r.Score, r.Verdict)
	}
}
