// Package registry holds the compiled-in evaluation categories, questions and
// field metadata. The tables are read-only and are validated once when the
// package is initialised.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/evalcard/internal/schema"
)

// Category is one evaluation dimension.
type Category struct {
	ID          string
	Name        string
	Type        schema.CategoryType
	Description string
	// Guidance is the detailed benchmark and focus guidance shown to evaluators.
	Guidance string
}

// Question is one fixed benchmark or process question.
type Question struct {
	ID      string
	Section schema.Section
	Text    string
	Tooltip string
	// CustomFields lists the structured source fields in display order.
	CustomFields []string
}

// Field is the display metadata for one custom field of a question.
type Field struct {
	Label       string
	Placeholder string
}

// SourceTypeInfo labels a source type for display.
type SourceTypeInfo struct {
	Type        schema.SourceType
	Label       string
	Description string
}

// Section describes a free-form part of the questionnaire.
type Section struct {
	ID          string
	Title       string
	Description string
}

// Registry is an indexed view over the static tables.
type Registry struct {
	categories []Category
	benchmark  []Question
	process    []Question
	fields     map[fieldKey]Field

	byCategory map[string]int
	byQuestion map[string]Question
}

var defaultRegistry = mustBuild(categories, benchmarkQuestions, processQuestions, fields)

// Default returns the compiled-in registry.
func Default() *Registry {
	return defaultRegistry
}

func mustBuild(cats []Category, bench, proc []Question, meta map[fieldKey]Field) *Registry {
	r, err := build(cats, bench, proc, meta)
	if err != nil {
		panic(err)
	}
	return r
}

func build(cats []Category, bench, proc []Question, meta map[fieldKey]Field) (*Registry, error) {
	r := &Registry{
		categories: cats,
		benchmark:  bench,
		process:    proc,
		fields:     meta,
		byCategory: make(map[string]int, len(cats)),
		byQuestion: make(map[string]Question, len(bench)+len(proc)),
	}
	for i, c := range cats {
		if _, dup := r.byCategory[c.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate category id %q", c.ID)
		}
		r.byCategory[c.ID] = i
	}
	for _, q := range append(append([]Question{}, bench...), proc...) {
		if _, dup := r.byQuestion[q.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate question id %q", q.ID)
		}
		r.byQuestion[q.ID] = q
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the custom field table against the question table in both
// directions, and that every question sits in the section its list implies.
func (r *Registry) Validate() error {
	var problems []string
	for _, q := range r.benchmark {
		if q.Section != schema.SectionBenchmark {
			problems = append(problems, fmt.Sprintf("question %s: listed as benchmark but section is %q", q.ID, q.Section))
		}
	}
	for _, q := range r.process {
		if q.Section != schema.SectionProcess {
			problems = append(problems, fmt.Sprintf("question %s: listed as process but section is %q", q.ID, q.Section))
		}
	}
	for _, q := range r.Questions() {
		for _, k := range q.CustomFields {
			if _, ok := r.fields[fieldKey{q.ID, k}]; !ok {
				problems = append(problems, fmt.Sprintf("question %s: custom field %q has no metadata", q.ID, k))
			}
		}
	}
	for fk := range r.fields {
		q, ok := r.byQuestion[fk.question]
		if !ok {
			problems = append(problems, fmt.Sprintf("field %s.%s: unknown question", fk.question, fk.key))
			continue
		}
		if !containsString(q.CustomFields, fk.key) {
			problems = append(problems, fmt.Sprintf("field %s.%s: not a custom field of the question", fk.question, fk.key))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("registry: invalid tables: %s", strings.Join(problems, "; "))
}

// Categories returns the categories of the given type in display order. An
// empty type returns all of them.
func (r *Registry) Categories(t schema.CategoryType) []Category {
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		if t == "" || c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Category looks up a category by id.
func (r *Registry) Category(id string) (Category, bool) {
	i, ok := r.byCategory[id]
	if !ok {
		return Category{}, false
	}
	return r.categories[i], true
}

// HasCategory reports whether id names a registered category.
func (r *Registry) HasCategory(id string) bool {
	_, ok := r.byCategory[id]
	return ok
}

// Question looks up a canonical question by id.
func (r *Registry) Question(id string) (Question, bool) {
	q, ok := r.byQuestion[id]
	return q, ok
}

// Questions returns all canonical questions, benchmark first.
func (r *Registry) Questions() []Question {
	out := make([]Question, 0, len(r.benchmark)+len(r.process))
	out = append(out, r.benchmark...)
	return append(out, r.process...)
}

// SectionQuestions returns the questions of one section in display order.
func (r *Registry) SectionQuestions(sec schema.Section) []Question {
	if sec == schema.SectionBenchmark {
		return r.benchmark
	}
	return r.process
}

// Field returns the metadata for a custom field of a question.
func (r *Registry) Field(questionID, key string) (Field, bool) {
	f, ok := r.fields[fieldKey{questionID, key}]
	return f, ok
}

// AllowedQuestionIDs returns the canonical question ids, benchmark first.
func (r *Registry) AllowedQuestionIDs() []string {
	qs := r.Questions()
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return ids
}

// IsAllowed reports whether id is a canonical question id.
func (r *Registry) IsAllowed(id string) bool {
	_, ok := r.byQuestion[id]
	return ok
}

// IsBenchmark reports whether id is a canonical benchmark question.
func (r *Registry) IsBenchmark(id string) bool {
	return r.SectionOf(id) == schema.SectionBenchmark
}

// IsProcess reports whether id is a canonical process question.
func (r *Registry) IsProcess(id string) bool {
	return r.SectionOf(id) == schema.SectionProcess
}

// SectionOf returns the section of a canonical question, or "" when unknown.
func (r *Registry) SectionOf(id string) schema.Section {
	q, ok := r.byQuestion[id]
	if !ok {
		return ""
	}
	return q.Section
}

// IsLegacy reports whether id is a retired process question id.
func IsLegacy(id string) bool {
	return containsString(legacyQuestionIDs, id)
}

// SourceTypes returns the source type labels in display order.
func SourceTypes() []SourceTypeInfo {
	return append([]SourceTypeInfo(nil), sourceTypes...)
}

// SourceTypeLabel returns the display label for t, or t itself when unknown.
func SourceTypeLabel(t schema.SourceType) string {
	for _, st := range sourceTypes {
		if st.Type == t {
			return st.Label
		}
	}
	return string(t)
}

// SystemTypes returns the system type options offered in the first wizard step.
func SystemTypes() []string {
	return append([]string(nil), systemTypes...)
}

// DeploymentContexts returns the deployment context options.
func DeploymentContexts() []string {
	return append([]string(nil), deploymentContexts...)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
