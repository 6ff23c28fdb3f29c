package codec

import (
	"fmt"
	"sort"

	"github.com/dshills/evalcard/internal/registry"
	"github.com/dshills/evalcard/internal/schema"
)

// Check verifies the structural invariants of a document against the
// registry and returns one message per problem. A nil result means valid.
func Check(doc *schema.Document, reg *registry.Registry) []string {
	var errs []string
	selected := make(map[string]bool, len(doc.SelectedCategories))
	for _, id := range doc.SelectedCategories {
		if selected[id] {
			errs = append(errs, fmt.Sprintf("selectedCategories: duplicate id %q", id))
			continue
		}
		selected[id] = true
		if !reg.HasCategory(id) {
			errs = append(errs, fmt.Sprintf("selectedCategories: unknown category %q", id))
		}
	}

	for _, id := range sortedKeys(doc.CategoryEvaluations) {
		if !selected[id] {
			errs = append(errs, fmt.Sprintf("categoryEvaluations.%s: category is not selected", id))
		}
		e := doc.CategoryEvaluations[id]
		for _, sec := range []schema.Section{schema.SectionBenchmark, schema.SectionProcess} {
			answers := e.Answers(sec)
			for _, qid := range sortedKeys(answers) {
				for _, c := range answers[qid] {
					if c != "" && !c.Valid() {
						errs = append(errs, fmt.Sprintf("categoryEvaluations.%s.%sAnswers.%s: invalid choice %q", id, sec, qid, c))
					}
				}
			}
		}
	}
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
