// Package schema defines the canonical data types of the evaluation card
// JSON format.
package schema

// CategoryType splits categories into capability and risk dimensions.
type CategoryType string

const (
	TypeCapability CategoryType = "capability"
	TypeRisk       CategoryType = "risk"
)

// Section identifies the question block an answer belongs to.
type Section string

const (
	SectionBenchmark Section = "benchmark"
	SectionProcess   Section = "process"
)

// SourceType classifies who produced a piece of evidence.
type SourceType string

const (
	SourceInternal    SourceType = "internal"
	SourceExternal    SourceType = "external"
	SourceCooperative SourceType = "cooperative"
)

// Status is the qualitative band assigned to an evaluated category.
type Status string

const (
	StatusStrong       Status = "strong"
	StatusAdequate     Status = "adequate"
	StatusWeak         Status = "weak"
	StatusInsufficient Status = "insufficient"
	StatusNotEvaluated Status = "not-evaluated"
)

// Bands lists the four scored statuses from best to worst.
var Bands = []Status{StatusStrong, StatusAdequate, StatusWeak, StatusInsufficient}

// CategoryScore is derived from a category's answers and never edited directly.
type CategoryScore struct {
	BenchmarkScore int    `json:"benchmarkScore"`
	ProcessScore   int    `json:"processScore"`
	TotalScore     int    `json:"totalScore"`
	Status         Status `json:"status"`
}

// CategoryEvaluation holds everything collected for one category. Maps are
// keyed by question id.
type CategoryEvaluation struct {
	BenchmarkAnswers  map[string]Answer   `json:"benchmarkAnswers"`
	ProcessAnswers    map[string]Answer   `json:"processAnswers"`
	BenchmarkSources  map[string][]Source `json:"benchmarkSources"`
	ProcessSources    map[string][]Source `json:"processSources"`
	AdditionalAspects string              `json:"additionalAspects"`
	// NAExplanations carries the justification for every "na" answer.
	NAExplanations map[string]string `json:"naExplanations,omitempty"`

	// Extra keeps keys this version does not model (older exports wrote
	// the category score here), verbatim.
	Extra map[string][]byte `json:"-"`
}

// NewCategoryEvaluation returns an evaluation with all maps allocated.
func NewCategoryEvaluation() CategoryEvaluation {
	return CategoryEvaluation{
		BenchmarkAnswers: map[string]Answer{},
		ProcessAnswers:   map[string]Answer{},
		BenchmarkSources: map[string][]Source{},
		ProcessSources:   map[string][]Source{},
	}
}

// Clone returns a copy that shares no maps or slices with e.
func (e CategoryEvaluation) Clone() CategoryEvaluation {
	out := CategoryEvaluation{
		BenchmarkAnswers:  cloneAnswers(e.BenchmarkAnswers),
		ProcessAnswers:    cloneAnswers(e.ProcessAnswers),
		BenchmarkSources:  cloneSources(e.BenchmarkSources),
		ProcessSources:    cloneSources(e.ProcessSources),
		AdditionalAspects: e.AdditionalAspects,
		Extra:             cloneExtra(e.Extra),
	}
	if e.NAExplanations != nil {
		out.NAExplanations = make(map[string]string, len(e.NAExplanations))
		for k, v := range e.NAExplanations {
			out.NAExplanations[k] = v
		}
	}
	return out
}

func cloneExtra(m map[string][]byte) map[string][]byte {
	if m == nil {
		return nil
	}
	out := make(map[string][]byte, len(m))
	for k, v := range m {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

func cloneAnswers(m map[string]Answer) map[string]Answer {
	out := make(map[string]Answer, len(m))
	for k, v := range m {
		out[k] = append(Answer(nil), v...)
	}
	return out
}

func cloneSources(m map[string][]Source) map[string][]Source {
	out := make(map[string][]Source, len(m))
	for k, list := range m {
		cp := make([]Source, len(list))
		for i, s := range list {
			cp[i] = s.Clone()
		}
		out[k] = cp
	}
	return out
}

// Answers returns the answer map for a section.
func (e CategoryEvaluation) Answers(sec Section) map[string]Answer {
	if sec == SectionBenchmark {
		return e.BenchmarkAnswers
	}
	return e.ProcessAnswers
}

// Sources returns the source map for a section.
func (e CategoryEvaluation) Sources(sec Section) map[string][]Source {
	if sec == SectionBenchmark {
		return e.BenchmarkSources
	}
	return e.ProcessSources
}

// OverallStats summarizes all category scores of a document.
type OverallStats struct {
	CompletenessScore      float64  `json:"completenessScore"`
	TotalApplicable        int      `json:"totalApplicable"`
	CapabilityApplicable   int      `json:"capabilityApplicable"`
	RiskApplicable         int      `json:"riskApplicable"`
	StrongCategories       []string `json:"strongCategories"`
	AdequateCategories     []string `json:"adequateCategories"`
	WeakCategories         []string `json:"weakCategories"`
	InsufficientCategories []string `json:"insufficientCategories"`

	// Extra keeps keys this version does not model, verbatim.
	Extra map[string][]byte `json:"-"`
}

// ByStatus returns the category list recorded for a status band.
func (s OverallStats) ByStatus(st Status) []string {
	switch st {
	case StatusStrong:
		return s.StrongCategories
	case StatusAdequate:
		return s.AdequateCategories
	case StatusWeak:
		return s.WeakCategories
	case StatusInsufficient:
		return s.InsufficientCategories
	}
	return nil
}

// SystemInfo is the first wizard step: what is being evaluated.
type SystemInfo struct {
	Name               string   `json:"name" yaml:"name"`
	URL                string   `json:"url,omitempty" yaml:"url"`
	Version            string   `json:"version,omitempty" yaml:"version"`
	Provider           string   `json:"provider" yaml:"provider"`
	SystemTypes        []string `json:"systemTypes" yaml:"systemTypes"`
	DeploymentContexts []string `json:"deploymentContexts" yaml:"deploymentContexts"`
	Modality           string   `json:"modality,omitempty" yaml:"modality"`
}

// Document is the persisted evaluation card.
type Document struct {
	ID                  string                        `json:"id"`
	SystemName          string                        `json:"systemName"`
	Provider            string                        `json:"provider"`
	Version             string                        `json:"version"`
	DeploymentContext   string                        `json:"deploymentContext"`
	Evaluator           string                        `json:"evaluator"`
	Modality            string                        `json:"modality"`
	EvaluationDate      string                        `json:"evaluationDate"`
	SelectedCategories  []string                      `json:"selectedCategories"`
	CategoryEvaluations map[string]CategoryEvaluation `json:"categoryEvaluations"`
	OverallStats        OverallStats                  `json:"overallStats"`

	// Extra keeps top-level keys this version does not know about, verbatim.
	Extra map[string][]byte `json:"-"`
	// defaulted lists the top-level fields the decoder had to fill in.
	defaulted []string
}

// Defaulted reports which top-level fields were missing or unusable when
// the document was decoded.
func (d *Document) Defaulted() []string {
	return d.defaulted
}

// MarkDefaulted records a field the decoder substituted a default for.
func (d *Document) MarkDefaulted(field string) {
	d.defaulted = append(d.defaulted, field)
}

// Severity grades a review finding.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarn     Severity = "WARN"
	SeverityCritical Severity = "CRITICAL"
)

// Finding is one advisory observation about a card.
type Finding struct {
	Category string   `json:"category"`
	Question string   `json:"question,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Verdict is the overall outcome of a review.
type Verdict string

const (
	VerdictClean          Verdict = "CLEAN"
	VerdictNeedsAttention Verdict = "NEEDS_ATTENTION"
	VerdictBlocking       Verdict = "BLOCKING"
)

// Review is the advisory output of an assisted card review.
type Review struct {
	DocumentID string    `json:"documentId"`
	Profile    string    `json:"profile,omitempty"`
	Verdict    Verdict   `json:"verdict,omitempty"`
	Score      int       `json:"score"`
	Summary    string    `json:"summary"`
	Findings   []Finding `json:"findings"`
	Meta       Meta      `json:"meta"`
}

// Meta records information about the LLM call.
type Meta struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}
