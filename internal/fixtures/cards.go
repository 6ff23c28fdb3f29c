package fixtures

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/evalcard/internal/aggregate"
	"github.com/dshills/evalcard/internal/codec"
	"github.com/dshills/evalcard/internal/registry"
	"github.com/dshills/evalcard/internal/schema"
)

// Tally counts the categories of one type per status band.
type Tally struct {
	Applicable int                        `json:"totalApplicable"`
	Counts     map[schema.Status]int      `json:"counts"`
	ByStatus   map[schema.Status][]string `json:"categories"`
}

// Card is the listing summary of one record. Scores are recomputed from the
// record's answers, so every card uses the same status rule.
type Card struct {
	ID                   string        `json:"id"`
	SystemName           string        `json:"systemName"`
	Provider             string        `json:"provider"`
	Modality             string        `json:"modality"`
	CompletedDate        string        `json:"completedDate"`
	ApplicableCategories int           `json:"applicableCategories"`
	CompletedCategories  int           `json:"completedCategories"`
	CompletenessScore    float64       `json:"completenessScore"`
	Status               schema.Status `json:"status"`
	Capability           Tally         `json:"capabilityEval"`
	Risk                 Tally         `json:"riskEval"`
	File                 string        `json:"file"`
}

// Cards builds one card per decodable record, in listing order. Records that
// cannot be read or decoded are skipped.
func Cards(root string, dirs []string, reg *registry.Registry, logger *zap.Logger) []Card {
	if logger == nil {
		logger = zap.NewNop()
	}
	var cards []Card
	for _, f := range ListFiles(root, dirs) {
		doc, err := codec.DecodeFile(f.Path)
		if err != nil {
			logger.Debug("skipping record", zap.String("file", f.Rel), zap.Error(err))
			continue
		}
		cards = append(cards, NewCard(doc, f.Rel, reg))
	}
	return cards
}

// NewCard summarises a decoded record.
func NewCard(doc *schema.Document, file string, reg *registry.Registry) Card {
	scores, stats := aggregate.Rescore(doc, reg)
	c := Card{
		ID:                   doc.ID,
		SystemName:           doc.SystemName,
		Provider:             doc.Provider,
		Modality:             doc.Modality,
		CompletedDate:        doc.EvaluationDate,
		ApplicableCategories: stats.TotalApplicable,
		CompletedCategories:  len(scores),
		CompletenessScore:    stats.CompletenessScore,
		Status:               aggregate.CardStatus(stats.CompletenessScore),
		Capability:           newTally(),
		Risk:                 newTally(),
		File:                 file,
	}
	c.Capability.Applicable = stats.CapabilityApplicable
	c.Risk.Applicable = stats.RiskApplicable
	for _, st := range schema.Bands {
		for _, id := range stats.ByStatus(st) {
			cat, _ := reg.Category(id)
			t := &c.Capability
			if cat.Type == schema.TypeRisk {
				t = &c.Risk
			}
			t.Counts[st]++
			t.ByStatus[st] = append(t.ByStatus[st], cat.Name)
		}
	}
	return c
}

func newTally() Tally {
	t := Tally{Counts: map[schema.Status]int{}, ByStatus: map[schema.Status][]string{}}
	for _, st := range schema.Bands {
		t.Counts[st] = 0
		t.ByStatus[st] = []string{}
	}
	return t
}

// Find returns the first record, in listing order, whose id matches.
// Unreadable records are skipped.
func Find(root string, dirs []string, id string, logger *zap.Logger) (*schema.Document, File, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, f := range ListFiles(root, dirs) {
		doc, err := codec.DecodeFile(f.Path)
		if err != nil {
			logger.Debug("skipping record", zap.String("file", f.Rel), zap.Error(err))
			continue
		}
		if doc.ID == id {
			return doc, f, nil
		}
	}
	return nil, File{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}
