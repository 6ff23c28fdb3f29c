package fixtures

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/evalcard/internal/registry"
	"github.com/dshills/evalcard/internal/schema"
)

var (
	reg  = registry.Default()
	root = filepath.Join("..", "..", "testdata")
)

func TestListFiles(t *testing.T) {
	files := ListFiles(root, DefaultDirs)
	var rels []string
	for _, f := range files {
		rels = append(rels, f.Rel)
	}
	want := []string{
		"public/evaluations/example-model.json",
		"public/evaluations/fraud-detector.json",
		"data/evaluations/broken.json",
		"data/evaluations/legacy-chatbot.json",
	}
	if diff := cmp.Diff(want, rels); diff != "" {
		t.Errorf("ListFiles mismatch (-want +got):\n%s", diff)
	}
}

func TestListFiles_MissingDirs(t *testing.T) {
	assert.Empty(t, ListFiles(t.TempDir(), DefaultDirs))
}

func TestValidate(t *testing.T) {
	results := Validate(root, DefaultDirs, reg, nil)
	require.Len(t, results, 4)

	assert.True(t, results[0].Clean(), "example-model: %+v", results[0])
	assert.Equal(t, map[string][]string{"bias-fairness": {"B7", "B8"}}, results[1].Unexpected)
	assert.Equal(t, "invalid json", results[2].Error)
	assert.True(t, results[3].Clean())
}

func TestValidate_DoesNotModify(t *testing.T) {
	path := filepath.Join(root, "public", "evaluations", "fraud-detector.json")
	before, err := os.ReadFile(path)
	require.NoError(t, err)
	Validate(root, DefaultDirs, reg, nil)
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestValidate_DedupesPerCategory(t *testing.T) {
	dir := t.TempDir()
	body := `{"categoryEvaluations":{
		"metacognition":{"benchmarkAnswers":{"A7":"yes"},"processAnswers":{"B7":"yes","A7":"no"},"processSources":{"B7":[]}},
		"value-chain":{"processAnswers":{"B1":"yes"}}
	}}`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data", "evaluations"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "evaluations", "x.json"), []byte(body), 0o644))

	results := Validate(dir, DefaultDirs, reg, nil)
	require.Len(t, results, 1)
	assert.Equal(t, map[string][]string{"metacognition": {"A7", "B7"}}, results[0].Unexpected)
}

func TestValidationResult_JSON(t *testing.T) {
	b, err := json.Marshal([]ValidationResult{
		{File: "a.json"},
		{File: "b.json", Unexpected: map[string][]string{"x": {"B8"}}},
		{File: "c.json", Error: "invalid json"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"file":"a.json","unexpected":{}},
		{"file":"b.json","unexpected":{"x":["B8"]}},
		{"file":"c.json","error":"invalid json"}
	]`, string(b))
}

func TestCards(t *testing.T) {
	cards := Cards(root, DefaultDirs, reg, nil)
	require.Len(t, cards, 3, "the broken record is skipped")

	byID := map[string]Card{}
	for _, c := range cards {
		byID[c.ID] = c
	}

	fraud := byID["eval-1717000000000"]
	assert.Equal(t, "Fraud Detector", fraud.SystemName)
	assert.Equal(t, 62.5, fraud.CompletenessScore)
	assert.Equal(t, schema.StatusWeak, fraud.Status)
	assert.Equal(t, 2, fraud.Risk.Applicable)
	assert.Equal(t, 0, fraud.Capability.Applicable)
	assert.Equal(t, 1, fraud.Risk.Counts[schema.StatusStrong])
	assert.Equal(t, []string{"Bias & Fairness"}, fraud.Risk.ByStatus[schema.StatusStrong])

	example := byID["eval-1718000000000"]
	assert.Equal(t, 50.0, example.CompletenessScore)
	assert.Equal(t, schema.StatusInsufficient, example.Status)
	assert.Equal(t, 2, example.CompletedCategories)

	legacy := byID["eval-1700000000000"]
	assert.Equal(t, "Unknown", legacy.Provider)
	assert.Equal(t, 25.0, legacy.CompletenessScore)
}

func TestFind(t *testing.T) {
	doc, f, err := Find(root, DefaultDirs, "eval-1717000000000", nil)
	require.NoError(t, err)
	assert.Equal(t, "Fraud Detector", doc.SystemName)
	assert.Equal(t, "public/evaluations/fraud-detector.json", f.Rel)

	_, _, err = Find(root, DefaultDirs, "eval-none", nil)
	assert.True(t, errors.Is(err, ErrNotFound))
}
