package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/evalcard/internal/registry"
	"github.com/dshills/evalcard/internal/schema"
)

// Script is a declarative wizard session, written as YAML or JSON.
//
//	systemInfo:
//	  name: Example Model
//	  provider: Example Org
//	  systemTypes: ["Multimodal"]
//	  deploymentContexts: ["Research/Academic"]
//	categories:
//	  - id: language-communication
//	    answers: {A1: yes, A2: na, ...}
//	    explanations: {A2: no applicable regulation}
//	    sources:
//	      A1:
//	        - url: https://example.org/report
//	          description: MMLU results
//	          sourceType: external
//	          benchmarkName: MMLU
//	    additionalAspects: free text
type Script struct {
	SystemInfo schema.SystemInfo `yaml:"systemInfo"`
	Categories []ScriptCategory  `yaml:"categories"`
}

// ScriptCategory holds the inputs for one category.
type ScriptCategory struct {
	ID                string                    `yaml:"id"`
	Answers           map[string]string         `yaml:"answers"`
	Explanations      map[string]string         `yaml:"explanations"`
	Sources           map[string][]ScriptSource `yaml:"sources"`
	AdditionalAspects string                    `yaml:"additionalAspects"`
}

// ScriptSource is a source entry. Keys other than the fixed ones become
// section-specific details.
type ScriptSource struct {
	ID          string         `yaml:"id"`
	URL         string         `yaml:"url"`
	Description string         `yaml:"description"`
	SourceType  string         `yaml:"sourceType"`
	Score       *string        `yaml:"score"`
	Details     map[string]any `yaml:",inline"`
}

// LoadScript reads a session script. JSON input is accepted as YAML.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("session: read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a session script.
func ParseScript(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("session: parse script: %w", err)
	}
	return &sc, nil
}

// Replay drives a fresh session through every step of the script and
// returns the final state. Answers are applied in registry question order.
func Replay(sc *Script, reg *registry.Registry) (State, error) {
	s := New()
	var err error
	apply := func(a Action) error {
		s, err = Reduce(s, a, reg)
		return err
	}

	if err := apply(SubmitSystemInfo{Info: sc.SystemInfo}); err != nil {
		return s, err
	}
	ids := make([]string, len(sc.Categories))
	for i, c := range sc.Categories {
		ids[i] = c.ID
	}
	if err := apply(SelectCategories{IDs: ids}); err != nil {
		return s, err
	}

	for _, c := range sc.Categories {
		if s.IsSaved(c.ID) {
			return s, fmt.Errorf("session: replay: category %s listed twice", c.ID)
		}
		if err := apply(Focus{Category: c.ID}); err != nil {
			return s, err
		}
		for _, q := range reg.Questions() {
			raw, ok := c.Answers[q.ID]
			if !ok {
				continue
			}
			choice, err := schema.ParseChoice(raw)
			if err != nil {
				return s, fmt.Errorf("session: replay: %s/%s: %w", c.ID, q.ID, err)
			}
			if err := apply(SetAnswer{QuestionID: q.ID, Choice: choice}); err != nil {
				return s, err
			}
			if text, ok := c.Explanations[q.ID]; ok && choice == schema.NotApplicable {
				if err := apply(Explain{QuestionID: q.ID, Text: text}); err != nil {
					return s, err
				}
			}
			for _, src := range c.Sources[q.ID] {
				if err := apply(AddSource{QuestionID: q.ID, Source: src.toSource()}); err != nil {
					return s, err
				}
			}
		}
		for qid := range c.Answers {
			if !reg.IsAllowed(qid) {
				return s, fmt.Errorf("session: replay: %s: unknown question %q", c.ID, qid)
			}
		}
		if c.AdditionalAspects != "" {
			if err := apply(SetAdditionalAspects{Text: c.AdditionalAspects}); err != nil {
				return s, err
			}
		}
		if err := apply(SaveCategory{}); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (ss ScriptSource) toSource() schema.Source {
	src := schema.Source{
		ID:          ss.ID,
		URL:         ss.URL,
		Description: ss.Description,
		SourceType:  schema.SourceType(ss.SourceType),
		Score:       ss.Score,
	}
	if len(ss.Details) > 0 {
		src.Details = make(map[string]any, len(ss.Details))
		for k, v := range ss.Details {
			src.Details[k] = v
		}
	}
	return src
}
