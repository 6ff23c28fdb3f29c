package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/evalcard/internal/codec"
	"github.com/dshills/evalcard/internal/config"
	"github.com/dshills/evalcard/internal/llm"
)

const mockReview = `{
  "summary": "Fairness evidence is strong; privacy work is thin.",
  "findings": [
    {"category":"privacy-data","question":"B2","severity":"WARN","message":"No privacy risk assessment is cited."}
  ]
}`

// mockMultiProvider returns successive responses from a list.
type mockMultiProvider struct {
	responses []string
	idx       int
}

func (m *mockMultiProvider) Complete(ctx context.Context, system, user string, maxTokens int, temp float64) (string, error) {
	if m.idx >= len(m.responses) {
		return "", fmt.Errorf("mock: no more responses")
	}
	r := m.responses[m.idx]
	m.idx++
	return r, nil
}

// errorProvider always returns an error from Complete.
type errorProvider struct{}

func (e *errorProvider) Complete(ctx context.Context, system, user string, maxTokens int, temp float64) (string, error) {
	return "", fmt.Errorf("simulated API error")
}

func injectProvider(t *testing.T, p llm.Provider) {
	t.Helper()
	orig := llm.NewProvider
	llm.NewProvider = func(_, _ string) (llm.Provider, error) { return p, nil }
	t.Cleanup(func() { llm.NewProvider = orig })
}

// workspace copies the shared record fixtures into a temporary root.
func workspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.CopyFS(root, os.DirFS("../../testdata")); err != nil {
		t.Fatalf("copy testdata: %v", err)
	}
	return root
}

// run executes the root command with a fresh app and returns its stdout.
func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{config.EnvRoot, config.EnvEvaluator, config.EnvProvider, config.EnvModel, config.EnvTemperature, config.EnvProfile} {
		t.Setenv(k, "")
	}
	cmd := newRootCmd(&app{logger: zap.NewNop()})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--root", root}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func decodeJSON(t *testing.T, s string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(s), v); err != nil {
		t.Fatalf("parse output JSON: %v\n%s", err, s)
	}
}

type validateEntry struct {
	File       string              `json:"file"`
	Unexpected map[string][]string `json:"unexpected"`
	Error      string              `json:"error"`
}

func TestValidate(t *testing.T) {
	root := workspace(t)
	out, err := run(t, root, "validate")
	if code := exitCode(err); code != 0 {
		t.Fatalf("expected exit 0, got %d: %v", code, err)
	}
	var got []validateEntry
	decodeJSON(t, out, &got)
	if len(got) != 4 {
		t.Fatalf("got %d results, want 4", len(got))
	}
	if got[1].File != "public/evaluations/fraud-detector.json" {
		t.Errorf("results[1].File = %q", got[1].File)
	}
	if ids := got[1].Unexpected["bias-fairness"]; len(ids) != 2 || ids[0] != "B7" || ids[1] != "B8" {
		t.Errorf("fraud-detector unexpected = %v", got[1].Unexpected)
	}
	if got[2].Error != "invalid json" {
		t.Errorf("broken.json error = %q", got[2].Error)
	}
}

type migrateEntry struct {
	File    string `json:"file"`
	Changed bool   `json:"changed"`
	Changes []struct {
		Category string `json:"category"`
		Section  string `json:"section"`
	} `json:"changes"`
	Error string `json:"error"`
}

func TestMigrate_ThenValidate(t *testing.T) {
	root := workspace(t)
	out, err := run(t, root, "migrate")
	if code := exitCode(err); code != 0 {
		t.Fatalf("expected exit 0, got %d: %v", code, err)
	}
	var first []migrateEntry
	decodeJSON(t, out, &first)
	if len(first) != 4 {
		t.Fatalf("got %d results, want 4", len(first))
	}
	if first[0].Changed {
		t.Error("example-model has no B8 and should not change")
	}
	if !first[1].Changed || len(first[1].Changes) != 2 {
		t.Errorf("fraud-detector result = %+v", first[1])
	}
	if first[2].Error != "invalid json" {
		t.Errorf("broken.json error = %q", first[2].Error)
	}

	raw, err := os.ReadFile(filepath.Join(root, "public/evaluations/fraud-detector.json"))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := codec.Decode(raw)
	if err != nil {
		t.Fatalf("migrated file does not decode: %v", err)
	}
	bias := doc.CategoryEvaluations["bias-fairness"]
	if got := bias.ProcessAnswers["B5"].String(); got != "yes, no" {
		t.Errorf("B5 after merge = %q", got)
	}
	if _, ok := bias.ProcessAnswers["B8"]; ok {
		t.Error("B8 answer still present")
	}
	if len(bias.ProcessSources["B5"]) != 1 {
		t.Errorf("B5 sources = %v", bias.ProcessSources["B5"])
	}

	out, err = run(t, root, "validate")
	if err != nil {
		t.Fatal(err)
	}
	var v []validateEntry
	decodeJSON(t, out, &v)
	if ids := v[1].Unexpected["bias-fairness"]; len(ids) != 1 || ids[0] != "B7" {
		t.Errorf("after migration unexpected = %v", v[1].Unexpected)
	}

	out, err = run(t, root, "migrate")
	if err != nil {
		t.Fatal(err)
	}
	var second []migrateEntry
	decodeJSON(t, out, &second)
	for _, r := range second {
		if r.Changed {
			t.Errorf("%s changed on second run", r.File)
		}
	}
}

func TestList(t *testing.T) {
	root := workspace(t)
	out, err := run(t, root, "list")
	if err != nil {
		t.Fatal(err)
	}
	var cards []struct {
		ID                string  `json:"id"`
		CompletenessScore float64 `json:"completenessScore"`
		Status            string  `json:"status"`
	}
	decodeJSON(t, out, &cards)
	if len(cards) != 3 {
		t.Fatalf("got %d cards, want 3", len(cards))
	}

	md, err := run(t, root, "list", "--format", "markdown")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md, "| eval-1717000000000 | Fraud Detector | Acme Bank | 2024-05-29 | 2/2 | 62.5 | weak |") {
		t.Errorf("markdown listing missing fraud detector row:\n%s", md)
	}

	_, err = run(t, root, "list", "--format", "xml")
	if code := exitCode(err); code != exitCodeBadInput {
		t.Errorf("expected exit %d for unknown format, got %d", exitCodeBadInput, code)
	}
}

func TestList_EmptyRoot(t *testing.T) {
	out, err := run(t, t.TempDir(), "list")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("empty listing = %q", out)
	}
}

func TestShow(t *testing.T) {
	root := workspace(t)
	out, err := run(t, root, "show", "eval-1718000000000", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := codec.Decode([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if doc.SystemName != "Example Model" {
		t.Errorf("SystemName = %q", doc.SystemName)
	}

	md, err := run(t, root, "show", "eval-1718000000000")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md, "## Evaluation Card: Example Model") {
		t.Errorf("markdown detail missing heading:\n%s", md)
	}
}

func TestShow_NotFound(t *testing.T) {
	_, err := run(t, workspace(t), "show", "eval-none")
	if err == nil || err.Error() != "evaluation eval-none not found" {
		t.Fatalf("err = %v", err)
	}
	if code := exitCode(err); code != exitCodeError {
		t.Errorf("expected exit %d, got %d", exitCodeError, code)
	}
}

func TestBuild(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2024, 6, 11, 4, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	root := workspace(t)
	outDir := filepath.Join(t.TempDir(), "cards")
	out, err := run(t, root, "build", filepath.Join(root, "sessions", "example-model.yaml"), "--out", outDir)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	path := strings.TrimSpace(out)
	if path != filepath.Join(outDir, "eval-1718080200000.json") {
		t.Errorf("written path = %q", path)
	}
	doc, err := codec.DecodeFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Defaulted()) != 0 {
		t.Errorf("freshly built card has defaulted fields: %v", doc.Defaulted())
	}
	if doc.OverallStats.CompletenessScore != 50 {
		t.Errorf("completeness = %v, want 50", doc.OverallStats.CompletenessScore)
	}
	if doc.EvaluationDate != "2024-06-11" || doc.Evaluator != "Current User" {
		t.Errorf("date/evaluator = %q/%q", doc.EvaluationDate, doc.Evaluator)
	}
}

func TestBuild_BadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	body := "systemInfo: {name: M, provider: P, systemTypes: [Other], deploymentContexts: [Other]}\n" +
		"categories:\n  - id: metacognition\n    answers: {A1: maybe}\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, t.TempDir(), "build", path)
	if code := exitCode(err); code != exitCodeBadInput {
		t.Errorf("expected exit %d, got %d: %v", exitCodeBadInput, code, err)
	}
}

func TestRescore(t *testing.T) {
	root := workspace(t)
	file := filepath.Join(root, "data/evaluations/legacy-chatbot.json")
	out, err := run(t, root, "rescore", file)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := codec.Decode([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if doc.OverallStats.CompletenessScore != 25 {
		t.Errorf("completeness = %v, want 25", doc.OverallStats.CompletenessScore)
	}
	if doc.Provider != "Unknown" {
		t.Errorf("provider = %q", doc.Provider)
	}

	if _, err := run(t, root, "rescore", "--write", file); err != nil {
		t.Fatal(err)
	}
	written, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(written) != out {
		t.Error("--write should store the same output that is printed")
	}
}

func TestRescore_WriteKeepsUnknownKeys(t *testing.T) {
	root := workspace(t)
	file := filepath.Join(root, "data/evaluations/scored.json")
	body := `{"id":"eval-9","systemName":"S","provider":"P","version":"1","deploymentContext":"D",` +
		`"evaluator":"E","modality":"M","evaluationDate":"2024-01-01","selectedCategories":["metacognition"],` +
		`"categoryEvaluations":{"metacognition":{"benchmarkAnswers":{"A1":"yes"},"processAnswers":{},` +
		`"benchmarkSources":{},"processSources":{},"additionalAspects":"","totalScore":1,"status":"strong"}},` +
		`"overallStats":{"completenessScore":0,"notes":"keep"}}`
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, root, "rescore", "--write", file); err != nil {
		t.Fatal(err)
	}
	written, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		CategoryEvaluations map[string]map[string]any `json:"categoryEvaluations"`
		OverallStats        map[string]any            `json:"overallStats"`
	}
	decodeJSON(t, string(written), &got)
	eval := got.CategoryEvaluations["metacognition"]
	if eval["status"] != "strong" || eval["totalScore"] != 1.0 {
		t.Errorf("category keys lost: %v", eval)
	}
	if got.OverallStats["notes"] != "keep" {
		t.Errorf("overallStats.notes lost: %v", got.OverallStats)
	}
}

func TestRescore_Malformed(t *testing.T) {
	root := workspace(t)
	_, err := run(t, root, "rescore", filepath.Join(root, "data/evaluations/broken.json"))
	if code := exitCode(err); code != exitCodeBadInput {
		t.Errorf("expected exit %d, got %d: %v", exitCodeBadInput, code, err)
	}
}

func TestExport(t *testing.T) {
	root := workspace(t)
	path := filepath.Join(t.TempDir(), "card.xlsx")
	if _, err := run(t, root, "export", "eval-1717000000000", "--out", path); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("PK")) {
		t.Error("workbook is not a zip container")
	}
}

func TestCategories(t *testing.T) {
	out, err := run(t, t.TempDir(), "categories", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var all []map[string]string
	decodeJSON(t, out, &all)
	if len(all) != 20 {
		t.Errorf("got %d categories, want 20", len(all))
	}

	out, err = run(t, t.TempDir(), "categories", "--type", "risk", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var risk []map[string]string
	decodeJSON(t, out, &risk)
	if len(risk) != 11 {
		t.Errorf("got %d risk categories, want 11", len(risk))
	}

	md, err := run(t, t.TempDir(), "categories")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md, "| bias-fairness | Bias & Fairness | risk |") || !strings.Contains(md, "| B6 | process |") {
		t.Errorf("markdown registry incomplete:\n%s", md)
	}

	_, err = run(t, t.TempDir(), "categories", "--type", "other")
	if code := exitCode(err); code != exitCodeBadInput {
		t.Errorf("expected exit %d, got %d", exitCodeBadInput, code)
	}
}

func TestReview(t *testing.T) {
	injectProvider(t, &mockMultiProvider{responses: []string{mockReview}})
	out, err := run(t, workspace(t), "review", "eval-1717000000000", "--model", "mock")
	if code := exitCode(err); code != 0 {
		t.Fatalf("expected exit 0, got %d: %v", code, err)
	}
	var review struct {
		DocumentID string `json:"documentId"`
		Profile    string `json:"profile"`
		Verdict    string `json:"verdict"`
		Score      int    `json:"score"`
		Findings   []struct {
			Category string `json:"category"`
			Severity string `json:"severity"`
		} `json:"findings"`
		Meta struct {
			Model string `json:"model"`
		} `json:"meta"`
	}
	decodeJSON(t, out, &review)
	if review.DocumentID != "eval-1717000000000" || review.Meta.Model != "mock" {
		t.Errorf("review header = %+v", review)
	}
	if len(review.Findings) != 1 || review.Findings[0].Category != "privacy-data" {
		t.Errorf("findings = %+v", review.Findings)
	}
	if review.Profile != "general" || review.Verdict != "NEEDS_ATTENTION" || review.Score != 93 {
		t.Errorf("profile %q verdict %q score %d, want general NEEDS_ATTENTION 93", review.Profile, review.Verdict, review.Score)
	}
}

func TestReview_StrictProfileFailOn_ExitsTwo(t *testing.T) {
	injectProvider(t, &mockMultiProvider{responses: []string{mockReview}})
	out, err := run(t, workspace(t), "review", "eval-1717000000000", "--profile", "high-risk", "--fail-on", "blocking")
	if code := exitCode(err); code != exitCodeFailOn {
		t.Fatalf("expected exit %d (failOn), got %d: %v", exitCodeFailOn, code, err)
	}
	var review struct {
		Verdict  string `json:"verdict"`
		Score    int    `json:"score"`
		Findings []struct {
			Severity string `json:"severity"`
		} `json:"findings"`
	}
	decodeJSON(t, out, &review)
	if review.Verdict != "BLOCKING" || review.Score != 80 {
		t.Errorf("verdict %q score %d, want BLOCKING 80", review.Verdict, review.Score)
	}
	if len(review.Findings) != 1 || review.Findings[0].Severity != "CRITICAL" {
		t.Errorf("strict profile should escalate WARN to CRITICAL: %+v", review.Findings)
	}
}

func TestReview_FailOnNotReached(t *testing.T) {
	injectProvider(t, &mockMultiProvider{responses: []string{mockReview}})
	_, err := run(t, workspace(t), "review", "eval-1717000000000", "--fail-on", "blocking")
	if code := exitCode(err); code != 0 {
		t.Errorf("expected exit 0, got %d: %v", code, err)
	}
}

func TestReview_BadFlags_ExitThree(t *testing.T) {
	cases := [][]string{
		{"--profile", "lenient"},
		{"--fail-on", "violation"},
	}
	for _, flags := range cases {
		injectProvider(t, &mockMultiProvider{responses: []string{mockReview}})
		args := append([]string{"review", "eval-1717000000000"}, flags...)
		_, err := run(t, workspace(t), args...)
		if code := exitCode(err); code != exitCodeBadInput {
			t.Errorf("%v: expected exit %d, got %d: %v", flags, exitCodeBadInput, code, err)
		}
	}
}

func TestReview_InvalidOutput_ExitsFive(t *testing.T) {
	injectProvider(t, &mockMultiProvider{responses: []string{"not json at all", "still not json"}})
	_, err := run(t, workspace(t), "review", "eval-1717000000000")
	if code := exitCode(err); code != exitCodeBadOutput {
		t.Errorf("expected exit %d (bad output), got %d: %v", exitCodeBadOutput, code, err)
	}
}

func TestReview_ProviderError_ExitsFour(t *testing.T) {
	injectProvider(t, &errorProvider{})
	_, err := run(t, workspace(t), "review", "eval-1717000000000")
	if code := exitCode(err); code != exitCodeAPIError {
		t.Errorf("expected exit %d (API error), got %d: %v", exitCodeAPIError, code, err)
	}
}

func TestConfigFileRoot(t *testing.T) {
	root := workspace(t)
	cfgPath := filepath.Join(t.TempDir(), "evalcard.yaml")
	if err := os.WriteFile(cfgPath, []byte("root: "+root+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{config.EnvRoot, config.EnvEvaluator, config.EnvProvider, config.EnvModel, config.EnvTemperature, config.EnvProfile} {
		t.Setenv(k, "")
	}
	cmd := newRootCmd(&app{logger: zap.NewNop()})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "show", "eval-1717000000000", "--format", "json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("root from config file not used: %v", err)
	}
}
