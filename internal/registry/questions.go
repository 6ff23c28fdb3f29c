package registry

import "github.com/dshills/evalcard/internal/schema"

var benchmarkQuestions = []Question{
	{
		ID:      "A1",
		Section: schema.SectionBenchmark,
		Text:    "Has the system been run on recognized, category-specific benchmarks?",
		Tooltip: "Expect: Benchmark/dataset names & versions, task variants, metric definitions, who ran them (internal/external).",
	},
	{
		ID:           "A2",
		Section:      schema.SectionBenchmark,
		Text:         "Does the system meet pre-set quantitative thresholds for acceptable performance under applicable regulations?",
		Tooltip:      "Expect: Numeric scores vs. regulatory/compliance thresholds (e.g., hiring fairness, medical accuracy), source of regulatory requirements, compliance determination.",
		CustomFields: []string{"thresholds", "regulatorySource", "complianceStatus"},
	},
	{
		ID:           "A3",
		Section:      schema.SectionBenchmark,
		Text:         "How does performance compare to baselines, SOTA, previous versions, and other comparable systems?",
		Tooltip:      "Expect: Side-by-side comparisons with SOTA models, previous versions, and similar systems under matched conditions, significance tests or confidence intervals for deltas.",
		CustomFields: []string{"comparativeScores", "comparisonTargets", "significance"},
	},
	{
		ID:           "A4",
		Section:      schema.SectionBenchmark,
		Text:         "How does the system perform under adversarial inputs, extreme loads, distribution shift?",
		Tooltip:      "Expect: Test types (attack/shift/load), rates of failure/degradation, robustness metrics.",
		CustomFields: []string{"testTypes", "failureRates", "robustnessMetrics"},
	},
	{
		ID:           "A5",
		Section:      schema.SectionBenchmark,
		Text:         "Is performance measured in the wild with automated monitors?",
		Tooltip:      "Expect: Live metrics tracked (e.g., error rates, drift, latency), sampling cadence, alert thresholds.",
		CustomFields: []string{"liveMetrics", "samplingCadence", "alertThresholds"},
	},
	{
		ID:           "A6",
		Section:      schema.SectionBenchmark,
		Text:         "Have you quantified train–test overlap or leakage risks that could inflate results?",
		Tooltip:      "Expect: Procedure (e.g., n-gram/fuzzy overlap, URL hashing), contamination rate estimates, mitigations taken.",
		CustomFields: []string{"procedure", "contaminationRate", "mitigations"},
	},
}

var processQuestions = []Question{
	{
		ID:           "B1",
		Section:      schema.SectionProcess,
		Text:         "What capability/risk claims is this category evaluating and why it's applicable?",
		Tooltip:      "Expect: Clear scope, success/failure definitions, hypotheses the evaluation is testing.",
		CustomFields: []string{"scope", "successFailureDefinitions", "hypotheses"},
	},
	{
		ID:           "B2",
		Section:      schema.SectionProcess,
		Text:         "Can others reproduce the results?",
		Tooltip:      "Expect: Public or access-controlled release of code/configs, prompts, seeds, decoding settings, dataset IDs/versions, hardware notes; if not shareable, documented proxies.",
		CustomFields: []string{"replicationPackage", "accessLevel", "proxies"},
	},
	{
		ID:           "B3",
		Section:      schema.SectionProcess,
		Text:         "Have domain experts/affected users reviewed interpretations of results?",
		Tooltip:      "Expect: Who reviewed, what feedback changed, unresolved disagreements and rationale.",
		CustomFields: []string{"reviewers", "feedbackChanges", "disagreements"},
	},
	{
		ID:           "B4",
		Section:      schema.SectionProcess,
		Text:         "Do figures communicate results without distortion and with uncertainty/context?",
		Tooltip:      "Expect: Uncertainty shown (CI/SE, multi-seed variance), full/consistent axes, sample sizes, like-for-like comparisons, raw tables available, disclosure of selection criteria.",
		CustomFields: []string{"uncertaintyDisclosure", "axesConsistency", "sampleSizes", "selectionCriteria"},
	},
	{
		ID:           "B5",
		Section:      schema.SectionProcess,
		Text:         "Standards & Compliance Alignment - Are evaluation practices aligned with relevant organizational, industry, or regulatory standards?",
		Tooltip:      "Expect: References to applicable standards/regulations, mapping of evaluation practices to those standards, any gaps or exemptions noted, and plan to address misalignment.",
		CustomFields: []string{"standardsReferenced", "alignmentSummary"},
	},
	{
		ID:           "B6",
		Section:      schema.SectionProcess,
		Text:         "Is there a process to re-run/adapt evals as models, data, or risks change, including mitigation and retest procedures?",
		Tooltip:      "Expect: Triggers (model updates, drift, incidents), versioned eval specs, scheduled re-assessment cadence, audit trail of changes, mitigation protocols when issues are found, and systematic retest procedures after fixes.",
		CustomFields: []string{"triggers", "versionedSpecs", "auditTrail", "mitigationProtocols", "retestProcedures"},
	},
}

// legacyQuestionIDs were retired from the process section; fixtures that
// still carry them need the migration utility.
var legacyQuestionIDs = []string{"B7", "B8"}

// fieldKey addresses one custom field of one question.
type fieldKey struct {
	question string
	key      string
}

// fields is the static custom field table.
var fields = map[fieldKey]Field{
	{"A2", "thresholds"}:       {Label: "Thresholds", Placeholder: "e.g., accuracy ≥ 0.95 on the regulated task"},
	{"A2", "regulatorySource"}: {Label: "Regulatory source", Placeholder: "e.g., EEOC four-fifths rule, FDA guidance"},
	{"A2", "complianceStatus"}: {Label: "Compliance status", Placeholder: "Meets / partially meets / does not meet"},

	{"A3", "comparativeScores"}: {Label: "Comparative scores", Placeholder: "Scores for this system and each comparison target"},
	{"A3", "comparisonTargets"}: {Label: "Comparison targets", Placeholder: "Baselines, SOTA models, previous versions"},
	{"A3", "significance"}:      {Label: "Significance", Placeholder: "Significance tests or confidence intervals for deltas"},

	{"A4", "testTypes"}:         {Label: "Test types", Placeholder: "Adversarial attacks, distribution shift, load tests"},
	{"A4", "failureRates"}:      {Label: "Failure rates", Placeholder: "Observed failure or degradation rates"},
	{"A4", "robustnessMetrics"}: {Label: "Robustness metrics", Placeholder: "e.g., robust accuracy, attack success rate"},

	{"A5", "liveMetrics"}:     {Label: "Live metrics", Placeholder: "Error rates, drift, latency tracked in production"},
	{"A5", "samplingCadence"}: {Label: "Sampling cadence", Placeholder: "e.g., hourly, daily, per release"},
	{"A5", "alertThresholds"}: {Label: "Alert thresholds", Placeholder: "Values that trigger an alert"},

	{"A6", "procedure"}:         {Label: "Procedure", Placeholder: "n-gram/fuzzy overlap, URL hashing, ..."},
	{"A6", "contaminationRate"}: {Label: "Contamination rate", Placeholder: "Estimated share of overlapping items"},
	{"A6", "mitigations"}:       {Label: "Mitigations", Placeholder: "Deduplication, held-out sets, canaries"},

	{"B1", "scope"}:                     {Label: "Scope", Placeholder: "What the evaluation covers and excludes"},
	{"B1", "successFailureDefinitions"}: {Label: "Success/failure definitions", Placeholder: "What counts as passing or failing"},
	{"B1", "hypotheses"}:                {Label: "Hypotheses", Placeholder: "Claims the evaluation is testing"},

	{"B2", "replicationPackage"}: {Label: "Replication package", Placeholder: "Code, configs, prompts, seeds, dataset versions"},
	{"B2", "accessLevel"}:        {Label: "Access level", Placeholder: "Public / access-controlled / internal only"},
	{"B2", "proxies"}:            {Label: "Proxies", Placeholder: "Documented proxies when artifacts cannot be shared"},

	{"B3", "reviewers"}:       {Label: "Reviewers", Placeholder: "Domain experts or affected users involved"},
	{"B3", "feedbackChanges"}: {Label: "Feedback changes", Placeholder: "What changed because of the review"},
	{"B3", "disagreements"}:   {Label: "Disagreements", Placeholder: "Unresolved disagreements and rationale"},

	{"B4", "uncertaintyDisclosure"}: {Label: "Uncertainty disclosure", Placeholder: "CI/SE, multi-seed variance"},
	{"B4", "axesConsistency"}:       {Label: "Axes consistency", Placeholder: "Full and consistent axes across figures"},
	{"B4", "sampleSizes"}:           {Label: "Sample sizes", Placeholder: "n per condition"},
	{"B4", "selectionCriteria"}:     {Label: "Selection criteria", Placeholder: "How reported results were selected"},

	{"B5", "standardsReferenced"}: {Label: "Standards referenced", Placeholder: "e.g., ISO/IEC 42001, NIST AI RMF, EU AI Act"},
	{"B5", "alignmentSummary"}:    {Label: "Alignment summary", Placeholder: "Mapping of practices to standards, gaps, exemptions"},

	{"B6", "triggers"}:            {Label: "Triggers", Placeholder: "Model updates, drift, incidents"},
	{"B6", "versionedSpecs"}:      {Label: "Versioned specs", Placeholder: "Where versioned eval specs live"},
	{"B6", "auditTrail"}:          {Label: "Audit trail", Placeholder: "How changes to evals are recorded"},
	{"B6", "mitigationProtocols"}: {Label: "Mitigation protocols", Placeholder: "What happens when an issue is found"},
	{"B6", "retestProcedures"}:    {Label: "Retest procedures", Placeholder: "How fixes are verified"},
}

var sourceTypes = []SourceTypeInfo{
	{
		Type:        schema.SourceInternal,
		Label:       "Internal",
		Description: "Evaluations conducted by the organization developing or deploying the AI system using internal resources, teams, and methodologies.",
	},
	{
		Type:        schema.SourceExternal,
		Label:       "External",
		Description: "Independent evaluations conducted by third-party organizations, academic institutions, or external auditors without direct involvement from the developing organization.",
	},
	{
		Type:        schema.SourceCooperative,
		Label:       "Cooperative",
		Description: "Collaborative evaluations involving multiple stakeholders, including the developing organization, external experts, affected communities, and regulatory bodies working together.",
	},
}

var systemTypes = []string{
	"Text-to-Text (e.g., chatbots, language models)",
	"Text-to-Image (e.g., image generation)",
	"Image-to-Text (e.g., image captioning, OCR)",
	"Image-to-Image (e.g., image editing, style transfer)",
	"Audio/Speech (e.g., speech recognition, text-to-speech)",
	"Video (e.g., video generation, analysis)",
	"Multimodal",
	"Robotic/Embodied AI",
	"Other",
}

var deploymentContexts = []string{
	"Research/Academic",
	"Internal/Enterprise Use",
	"Public/Consumer-Facing",
	"High-Risk Applications",
	"Other",
}

// AdditionalAspects describes the unscored free-text section of each category.
var AdditionalAspects = Section{
	ID:    "C",
	Title: "Additional Evaluation Aspects",
	Description: "Document any other evaluation aspects for this category that may not have been captured by the " +
		"structured questions above. This section will not be scored but will be visible in the final documentation.",
}
