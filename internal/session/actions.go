package session

import (
	"fmt"

	"github.com/dshills/evalcard/internal/registry"
	"github.com/dshills/evalcard/internal/schema"
	"github.com/dshills/evalcard/internal/scoring"
)

// Action is one user interaction with the wizard.
type Action interface {
	name() string
	apply(s State, reg *registry.Registry) (State, error)
}

// Reduce applies a to s and returns the resulting state. On error the
// returned state is s unchanged.
func Reduce(s State, a Action, reg *registry.Registry) (State, error) {
	next, err := a.apply(s.clone(), reg)
	if err != nil {
		return s, err
	}
	return next, nil
}

// SubmitSystemInfo completes the first step.
type SubmitSystemInfo struct {
	Info schema.SystemInfo
}

func (SubmitSystemInfo) name() string { return "submit system info" }

func (a SubmitSystemInfo) apply(s State, _ *registry.Registry) (State, error) {
	switch {
	case blank(a.Info.Name):
		return s, reject(a.name(), "system name is required")
	case blank(a.Info.Provider):
		return s, reject(a.name(), "provider is required")
	case len(a.Info.SystemTypes) == 0:
		return s, reject(a.name(), "at least one system type is required")
	case len(a.Info.DeploymentContexts) == 0:
		return s, reject(a.name(), "at least one deployment context is required")
	}
	info := a.Info
	info.SystemTypes = append([]string(nil), a.Info.SystemTypes...)
	info.DeploymentContexts = append([]string(nil), a.Info.DeploymentContexts...)
	s.SystemInfo = &info
	if s.Step == StepSystemInfo {
		s.Step = StepCategories
	}
	return s, nil
}

// SelectCategories sets the categories to evaluate. Work on categories that
// remain selected is kept; everything else is dropped.
type SelectCategories struct {
	IDs []string
}

func (SelectCategories) name() string { return "select categories" }

func (a SelectCategories) apply(s State, reg *registry.Registry) (State, error) {
	if s.SystemInfo == nil {
		return s, reject(a.name(), "system info has not been submitted")
	}
	seen := map[string]bool{}
	var ids []string
	for _, id := range a.IDs {
		if !reg.HasCategory(id) {
			return s, reject(a.name(), "unknown category %q", id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return s, reject(a.name(), "select at least one category")
	}
	for id := range s.Drafts {
		if !seen[id] {
			delete(s.Drafts, id)
		}
	}
	for id := range s.Saved {
		if !seen[id] {
			delete(s.Saved, id)
			delete(s.Scores, id)
		}
	}
	s.Selected = ids
	s.Step = StepEvaluation
	s.Current = 0
	if i := s.nextUnsaved(-1); i >= 0 {
		s.Current = i
	}
	return s, nil
}

// SetAnswer records a choice for a question of a category. An empty Category
// means the current one.
type SetAnswer struct {
	Category   string
	QuestionID string
	Choice     schema.Choice
}

func (SetAnswer) name() string { return "set answer" }

func (a SetAnswer) apply(s State, reg *registry.Registry) (State, error) {
	cat, err := s.editable(a.name(), a.Category)
	if err != nil {
		return s, err
	}
	sec := reg.SectionOf(a.QuestionID)
	if sec == "" {
		return s, reject(a.name(), "unknown question %q", a.QuestionID)
	}
	if !a.Choice.Valid() {
		return s, reject(a.name(), "invalid choice %q", a.Choice)
	}
	e := s.Evaluation(cat).Clone()
	prev := e.Answers(sec)[a.QuestionID]
	e.Answers(sec)[a.QuestionID] = schema.Single(a.Choice)
	if prev.IsYes() && a.Choice != schema.Yes {
		delete(e.Sources(sec), a.QuestionID)
	}
	if prev.Has(schema.NotApplicable) && a.Choice != schema.NotApplicable {
		delete(e.NAExplanations, a.QuestionID)
	}
	s.Drafts[cat] = e
	return s, nil
}

// Explain sets the justification of a "na" answer.
type Explain struct {
	Category   string
	QuestionID string
	Text       string
}

func (Explain) name() string { return "explain" }

func (a Explain) apply(s State, reg *registry.Registry) (State, error) {
	cat, err := s.editable(a.name(), a.Category)
	if err != nil {
		return s, err
	}
	sec := reg.SectionOf(a.QuestionID)
	if sec == "" {
		return s, reject(a.name(), "unknown question %q", a.QuestionID)
	}
	e := s.Evaluation(cat).Clone()
	if !e.Answers(sec)[a.QuestionID].OnlyNA() {
		return s, reject(a.name(), "question %s is not answered na", a.QuestionID)
	}
	if e.NAExplanations == nil {
		e.NAExplanations = map[string]string{}
	}
	e.NAExplanations[a.QuestionID] = a.Text
	s.Drafts[cat] = e
	return s, nil
}

// AddSource attaches evidence to a question answered yes.
type AddSource struct {
	Category   string
	QuestionID string
	Source     schema.Source
}

func (AddSource) name() string { return "add source" }

func (a AddSource) apply(s State, reg *registry.Registry) (State, error) {
	cat, sec, e, err := s.sourceTarget(a.name(), a.Category, a.QuestionID, reg)
	if err != nil {
		return s, err
	}
	src := a.Source.Clone()
	if src.ID == "" {
		src.ID = NewSourceID()
	}
	if src.SourceType == "" {
		src.SourceType = schema.SourceInternal
	}
	if err := checkSourceType(a.name(), src.SourceType); err != nil {
		return s, err
	}
	for _, existing := range e.Sources(sec)[a.QuestionID] {
		if existing.ID == src.ID {
			return s, reject(a.name(), "source %s already exists", src.ID)
		}
	}
	e.Sources(sec)[a.QuestionID] = append(e.Sources(sec)[a.QuestionID], src)
	s.Drafts[cat] = e
	return s, nil
}

// UpdateSource replaces the source with the same id.
type UpdateSource struct {
	Category   string
	QuestionID string
	Source     schema.Source
}

func (UpdateSource) name() string { return "update source" }

func (a UpdateSource) apply(s State, reg *registry.Registry) (State, error) {
	cat, sec, e, err := s.sourceTarget(a.name(), a.Category, a.QuestionID, reg)
	if err != nil {
		return s, err
	}
	if err := checkSourceType(a.name(), a.Source.SourceType); err != nil {
		return s, err
	}
	list := e.Sources(sec)[a.QuestionID]
	for i := range list {
		if list[i].ID == a.Source.ID {
			list[i] = a.Source.Clone()
			s.Drafts[cat] = e
			return s, nil
		}
	}
	return s, reject(a.name(), "source %q not found on %s", a.Source.ID, a.QuestionID)
}

// RemoveSource deletes a source by id.
type RemoveSource struct {
	Category   string
	QuestionID string
	SourceID   string
}

func (RemoveSource) name() string { return "remove source" }

func (a RemoveSource) apply(s State, reg *registry.Registry) (State, error) {
	cat, err := s.editable(a.name(), a.Category)
	if err != nil {
		return s, err
	}
	sec := reg.SectionOf(a.QuestionID)
	if sec == "" {
		return s, reject(a.name(), "unknown question %q", a.QuestionID)
	}
	e := s.Evaluation(cat).Clone()
	list := e.Sources(sec)[a.QuestionID]
	for i := range list {
		if list[i].ID != a.SourceID {
			continue
		}
		list = append(list[:i], list[i+1:]...)
		if len(list) == 0 {
			delete(e.Sources(sec), a.QuestionID)
		} else {
			e.Sources(sec)[a.QuestionID] = list
		}
		s.Drafts[cat] = e
		return s, nil
	}
	return s, reject(a.name(), "source %q not found on %s", a.SourceID, a.QuestionID)
}

// SetAdditionalAspects sets the unscored free-text section.
type SetAdditionalAspects struct {
	Category string
	Text     string
}

func (SetAdditionalAspects) name() string { return "set additional aspects" }

func (a SetAdditionalAspects) apply(s State, _ *registry.Registry) (State, error) {
	cat, err := s.editable(a.name(), a.Category)
	if err != nil {
		return s, err
	}
	e := s.Evaluation(cat).Clone()
	e.AdditionalAspects = a.Text
	s.Drafts[cat] = e
	return s, nil
}

// SaveCategory freezes the current category, records its score and moves on
// to the next unsaved category, or to the results when none is left.
type SaveCategory struct{}

func (SaveCategory) name() string { return "save category" }

func (a SaveCategory) apply(s State, reg *registry.Registry) (State, error) {
	if s.Step != StepEvaluation {
		return s, reject(a.name(), "not on the evaluation step")
	}
	cat := s.CurrentCategory()
	e := s.Evaluation(cat)
	if err := scoring.CheckComplete(e, reg); err != nil {
		return s, fmt.Errorf("session: save category %s: %w", cat, err)
	}
	s.Saved[cat] = e.Clone()
	delete(s.Drafts, cat)
	s.Scores[cat] = scoring.ScoreEvaluation(e, reg)
	if i := s.nextUnsaved(s.Current); i >= 0 {
		s.Current = i
		return s, nil
	}
	s.Step = StepResults
	return s, nil
}

// Next moves to the following category once the current one is saved.
type Next struct{}

func (Next) name() string { return "next" }

func (a Next) apply(s State, _ *registry.Registry) (State, error) {
	if s.Step != StepEvaluation {
		return s, reject(a.name(), "not on the evaluation step")
	}
	if !s.IsSaved(s.CurrentCategory()) {
		return s, reject(a.name(), "category %s has not been saved", s.CurrentCategory())
	}
	if s.Current+1 < len(s.Selected) {
		s.Current++
		return s, nil
	}
	if !s.AllSaved() {
		return s, reject(a.name(), "not all categories have been saved")
	}
	s.Step = StepResults
	return s, nil
}

// Previous steps back one category or one page.
type Previous struct{}

func (Previous) name() string { return "previous" }

func (a Previous) apply(s State, _ *registry.Registry) (State, error) {
	switch s.Step {
	case StepCategories:
		s.Step = StepSystemInfo
	case StepEvaluation:
		if s.Current > 0 {
			s.Current--
		} else {
			s.Step = StepCategories
		}
	case StepResults:
		s.Step = StepEvaluation
		s.Current = len(s.Selected) - 1
	default:
		return s, reject(a.name(), "already on the first step")
	}
	return s, nil
}

// Focus jumps to a selected category.
type Focus struct {
	Category string
}

func (Focus) name() string { return "focus" }

func (a Focus) apply(s State, _ *registry.Registry) (State, error) {
	for i, id := range s.Selected {
		if id == a.Category {
			s.Step = StepEvaluation
			s.Current = i
			return s, nil
		}
	}
	return s, reject(a.name(), "category %q is not selected", a.Category)
}

// editable resolves the target category of an edit action.
func (s State) editable(action, cat string) (string, error) {
	if s.Step != StepEvaluation {
		return "", reject(action, "not on the evaluation step")
	}
	if cat == "" {
		cat = s.CurrentCategory()
	}
	for _, id := range s.Selected {
		if id == cat {
			return cat, nil
		}
	}
	return "", reject(action, "category %q is not selected", cat)
}

func (s State) sourceTarget(action, cat, qid string, reg *registry.Registry) (string, schema.Section, schema.CategoryEvaluation, error) {
	cat, err := s.editable(action, cat)
	if err != nil {
		return "", "", schema.CategoryEvaluation{}, err
	}
	sec := reg.SectionOf(qid)
	if sec == "" {
		return "", "", schema.CategoryEvaluation{}, reject(action, "unknown question %q", qid)
	}
	e := s.Evaluation(cat).Clone()
	if !e.Answers(sec)[qid].IsYes() {
		return "", "", schema.CategoryEvaluation{}, reject(action, "question %s is not answered yes", qid)
	}
	return cat, sec, e, nil
}

// nextUnsaved returns the first unsaved index after from, wrapping around,
// or -1 when every category is saved.
func (s State) nextUnsaved(from int) int {
	n := len(s.Selected)
	for step := 1; step <= n; step++ {
		i := (from + step) % n
		if i < 0 {
			i += n
		}
		if !s.IsSaved(s.Selected[i]) {
			return i
		}
	}
	return -1
}

func checkSourceType(action string, t schema.SourceType) error {
	switch t {
	case schema.SourceInternal, schema.SourceExternal, schema.SourceCooperative:
		return nil
	}
	return reject(action, "unknown source type %q", t)
}
