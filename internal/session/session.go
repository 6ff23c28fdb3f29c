// Package session models the evaluation wizard as an immutable state value
// and a reducer. Every action yields a new State; the input is never mutated.
package session

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/evalcard/internal/registry"
	"github.com/dshills/evalcard/internal/schema"
	"github.com/dshills/evalcard/internal/scoring"
)

// Step is a wizard page.
type Step string

const (
	StepSystemInfo Step = "system-info"
	StepCategories Step = "categories"
	StepEvaluation Step = "evaluation"
	StepResults    Step = "results"
)

// NewSourceID generates ids for sources added without one. Tests may replace it.
var NewSourceID = func() string { return uuid.NewString() }

// State is one snapshot of the wizard.
type State struct {
	Step       Step
	SystemInfo *schema.SystemInfo
	Selected   []string
	// Current indexes Selected while on the evaluation step.
	Current int
	// Drafts hold categories being edited; Saved hold frozen ones.
	Drafts map[string]schema.CategoryEvaluation
	Saved  map[string]schema.CategoryEvaluation
	Scores map[string]schema.CategoryScore
}

// New returns the initial state.
func New() State {
	return State{
		Step:   StepSystemInfo,
		Drafts: map[string]schema.CategoryEvaluation{},
		Saved:  map[string]schema.CategoryEvaluation{},
		Scores: map[string]schema.CategoryScore{},
	}
}

// CurrentCategory returns the category being evaluated, or "".
func (s State) CurrentCategory() string {
	if s.Current < 0 || s.Current >= len(s.Selected) {
		return ""
	}
	return s.Selected[s.Current]
}

// Evaluation returns the working copy of a category: its draft, else its
// saved evaluation, else an empty one.
func (s State) Evaluation(id string) schema.CategoryEvaluation {
	if e, ok := s.Drafts[id]; ok {
		return e
	}
	if e, ok := s.Saved[id]; ok {
		return e
	}
	return schema.NewCategoryEvaluation()
}

// IsSaved reports whether a category has been saved.
func (s State) IsSaved(id string) bool {
	_, ok := s.Saved[id]
	return ok
}

// AllSaved reports whether every selected category has been saved.
func (s State) AllSaved() bool {
	if len(s.Selected) == 0 {
		return false
	}
	for _, id := range s.Selected {
		if !s.IsSaved(id) {
			return false
		}
	}
	return true
}

// Progress returns the completion percentage shown in the wizard header.
func Progress(s State) float64 {
	switch s.Step {
	case StepSystemInfo:
		return 10
	case StepCategories:
		return 25
	case StepEvaluation:
		if len(s.Selected) == 0 {
			return 25
		}
		done := 0
		for _, id := range s.Selected {
			if s.IsSaved(id) {
				done++
			}
		}
		return 25 + 65*float64(done)/float64(len(s.Selected))
	case StepResults:
		return 100
	}
	return 0
}

// Preview scores the working copy of a category without saving it.
func Preview(s State, id string, reg *registry.Registry) schema.CategoryScore {
	return scoring.ScoreEvaluation(s.Evaluation(id), reg)
}

// ActionError reports an action that is not valid in the current state.
type ActionError struct {
	Action string
	Reason string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("session: %s: %s", e.Action, e.Reason)
}

func reject(action, format string, args ...any) error {
	return &ActionError{Action: action, Reason: fmt.Sprintf(format, args...)}
}

// clone copies the top-level containers so that writes to the result never
// reach s. Category evaluations are cloned separately when edited.
func (s State) clone() State {
	out := s
	out.Selected = append([]string(nil), s.Selected...)
	out.Drafts = make(map[string]schema.CategoryEvaluation, len(s.Drafts))
	for k, v := range s.Drafts {
		out.Drafts[k] = v
	}
	out.Saved = make(map[string]schema.CategoryEvaluation, len(s.Saved))
	for k, v := range s.Saved {
		out.Saved[k] = v
	}
	out.Scores = make(map[string]schema.CategoryScore, len(s.Scores))
	for k, v := range s.Scores {
		out.Scores[k] = v
	}
	if s.SystemInfo != nil {
		info := *s.SystemInfo
		info.SystemTypes = append([]string(nil), info.SystemTypes...)
		info.DeploymentContexts = append([]string(nil), info.DeploymentContexts...)
		out.SystemInfo = &info
	}
	return out
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
