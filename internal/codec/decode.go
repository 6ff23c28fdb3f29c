package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/dshills/evalcard/internal/schema"
)

// Unknown is the placeholder for missing descriptive fields.
const Unknown = "Unknown"

// ErrMalformed is returned for input that is not a JSON object.
var ErrMalformed = errors.New("codec: malformed document")

// knownKeys are the top-level keys the Document type models.
var knownKeys = map[string]bool{
	"id": true, "systemName": true, "provider": true, "version": true,
	"deploymentContext": true, "evaluator": true, "modality": true,
	"evaluationDate": true, "selectedCategories": true,
	"categoryEvaluations": true, "overallStats": true,
}

// knownEvaluationKeys are the keys CategoryEvaluation models.
var knownEvaluationKeys = map[string]bool{
	"benchmarkAnswers": true, "processAnswers": true,
	"benchmarkSources": true, "processSources": true,
	"additionalAspects": true, "naExplanations": true,
}

// knownStatsKeys are the keys OverallStats models.
var knownStatsKeys = map[string]bool{
	"completenessScore": true, "totalApplicable": true,
	"capabilityApplicable": true, "riskApplicable": true,
	"strongCategories": true, "adequateCategories": true,
	"weakCategories": true, "insufficientCategories": true,
}

// Decode parses a persisted record. Only a syntactically invalid document
// or a non-object root is an error; every missing or mistyped field is
// replaced by a safe default and reported by doc.Defaulted().
func Decode(raw []byte) (*schema.Document, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: root is not an object", ErrMalformed)
	}

	doc := &schema.Document{}
	str := func(field string, dst *string) {
		v := root.Get(EscapeKey(field))
		if v.Type != gjson.String {
			*dst = Unknown
			doc.MarkDefaulted(field)
			return
		}
		*dst = v.String()
	}
	str("id", &doc.ID)
	str("systemName", &doc.SystemName)
	str("provider", &doc.Provider)
	str("version", &doc.Version)
	str("deploymentContext", &doc.DeploymentContext)
	str("evaluator", &doc.Evaluator)
	str("modality", &doc.Modality)
	str("evaluationDate", &doc.EvaluationDate)

	sel := root.Get("selectedCategories")
	doc.SelectedCategories = stringList(sel)
	if !sel.IsArray() {
		doc.MarkDefaulted("selectedCategories")
	}

	doc.CategoryEvaluations = map[string]schema.CategoryEvaluation{}
	evals := root.Get("categoryEvaluations")
	if evals.IsObject() {
		evals.ForEach(func(k, v gjson.Result) bool {
			doc.CategoryEvaluations[k.String()] = decodeEvaluation(v)
			return true
		})
	} else {
		doc.MarkDefaulted("categoryEvaluations")
	}

	stats := root.Get("overallStats")
	doc.OverallStats = decodeStats(stats)
	if !stats.IsObject() {
		doc.MarkDefaulted("overallStats")
	}

	doc.Extra = extraKeys(root, knownKeys)
	return doc, nil
}

// extraKeys returns the raw values of the object keys not listed in known,
// or nil when there are none.
func extraKeys(obj gjson.Result, known map[string]bool) map[string][]byte {
	if !obj.IsObject() {
		return nil
	}
	var out map[string][]byte
	obj.ForEach(func(k, v gjson.Result) bool {
		if !known[k.String()] {
			if out == nil {
				out = map[string][]byte{}
			}
			out[k.String()] = []byte(v.Raw)
		}
		return true
	})
	return out
}

// DecodeFile reads and decodes one record.
func DecodeFile(path string) (*schema.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("codec: read %s: %w", path, err)
	}
	doc, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("codec: decode %s: %w", path, err)
	}
	return doc, nil
}

func decodeEvaluation(v gjson.Result) schema.CategoryEvaluation {
	e := schema.NewCategoryEvaluation()
	e.BenchmarkAnswers = decodeAnswers(v.Get("benchmarkAnswers"))
	e.ProcessAnswers = decodeAnswers(v.Get("processAnswers"))
	e.BenchmarkSources = decodeSources(v.Get("benchmarkSources"))
	e.ProcessSources = decodeSources(v.Get("processSources"))
	if aspects := v.Get("additionalAspects"); aspects.Type == gjson.String {
		e.AdditionalAspects = aspects.String()
	}
	if na := v.Get("naExplanations"); na.IsObject() {
		e.NAExplanations = map[string]string{}
		na.ForEach(func(k, v gjson.Result) bool {
			if v.Type == gjson.String {
				e.NAExplanations[k.String()] = v.String()
			}
			return true
		})
	}
	e.Extra = extraKeys(v, knownEvaluationKeys)
	return e
}

// decodeAnswers accepts single-choice strings and merged choice arrays.
// Values of any other type are dropped.
func decodeAnswers(v gjson.Result) map[string]schema.Answer {
	out := map[string]schema.Answer{}
	if !v.IsObject() {
		return out
	}
	v.ForEach(func(k, a gjson.Result) bool {
		switch {
		case a.Type == gjson.String:
			if a.String() == "" {
				out[k.String()] = schema.Answer{}
			} else {
				out[k.String()] = schema.Single(schema.Choice(a.String()))
			}
		case a.IsArray():
			ans := schema.Answer{}
			for _, c := range a.Array() {
				if c.Type == gjson.String {
					ans = append(ans, schema.Choice(c.String()))
				}
			}
			out[k.String()] = ans
		}
		return true
	})
	return out
}

// decodeSources accepts a list per question; a lone source object is
// treated as a one-element list.
func decodeSources(v gjson.Result) map[string][]schema.Source {
	out := map[string][]schema.Source{}
	if !v.IsObject() {
		return out
	}
	v.ForEach(func(k, list gjson.Result) bool {
		var items []gjson.Result
		switch {
		case list.IsArray():
			items = list.Array()
		case list.IsObject():
			items = []gjson.Result{list}
		default:
			return true
		}
		srcs := make([]schema.Source, 0, len(items))
		for _, it := range items {
			if !it.IsObject() {
				continue
			}
			var s schema.Source
			if err := json.Unmarshal([]byte(it.Raw), &s); err != nil {
				continue
			}
			srcs = append(srcs, s)
		}
		out[k.String()] = srcs
		return true
	})
	return out
}

func decodeStats(v gjson.Result) schema.OverallStats {
	return schema.OverallStats{
		CompletenessScore:      number(v.Get("completenessScore")),
		TotalApplicable:        int(number(v.Get("totalApplicable"))),
		CapabilityApplicable:   int(number(v.Get("capabilityApplicable"))),
		RiskApplicable:         int(number(v.Get("riskApplicable"))),
		StrongCategories:       stringList(v.Get("strongCategories")),
		AdequateCategories:     stringList(v.Get("adequateCategories")),
		WeakCategories:         stringList(v.Get("weakCategories")),
		InsufficientCategories: stringList(v.Get("insufficientCategories")),
		Extra:                  extraKeys(v, knownStatsKeys),
	}
}

// number returns 0 for anything that is not a JSON number.
func number(v gjson.Result) float64 {
	if v.Type != gjson.Number {
		return 0
	}
	return v.Float()
}

func stringList(v gjson.Result) []string {
	out := []string{}
	if !v.IsArray() {
		return out
	}
	for _, s := range v.Array() {
		if s.Type == gjson.String {
			out = append(out, s.String())
		}
	}
	return out
}
