// Package llm handles LLM provider communication, review prompt
// construction, response validation, and the single repair attempt.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/dshills/evalcard/internal/profile"
	"github.com/dshills/evalcard/internal/registry"
	"github.com/dshills/evalcard/internal/schema"
	"github.com/dshills/evalcard/internal/scoring"
)

// ErrInvalidModelOutput is returned when both the initial and repair LLM
// responses fail validation.
var ErrInvalidModelOutput = errors.New("llm: invalid model output after repair attempt")

// ErrTruncated is returned by a provider whose reply stopped at the token
// limit. Raising llm.max_tokens is the fix.
var ErrTruncated = errors.New("review reply truncated at max tokens")

// Provider is the interface for LLM backends.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// NewProvider is the factory for creating LLM providers. It is a package-level
// variable so tests can replace it with a mock without modifying the call site.
// Tests must restore the original value; use t.Cleanup to do so safely.
var NewProvider func(providerName, model string) (Provider, error) = defaultNewProvider

// DefaultModels maps each provider to the model used when none is configured.
var DefaultModels = map[string]string{
	"anthropic": "claude-sonnet-4-5",
	"openai":    "gpt-4o",
	"google":    "gemini-1.5-pro",
}

// Options configures a Review call.
type Options struct {
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float64
	// Profile adds review guidance to the system prompt. The zero value
	// reviews with the base prompt only.
	Profile profile.Profile
	// Debug logs both prompts at debug level.
	Debug  bool
	Logger *zap.Logger
}

// ValidationError records a single validation failure on an LLM response.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// Review asks the model for advisory findings about a card. The card's
// scores are never changed. One repair attempt is made when the response
// cannot be parsed.
func Review(ctx context.Context, doc *schema.Document, reg *registry.Registry, opts Options) (*schema.Review, error) {
	if doc == nil {
		return nil, fmt.Errorf("llm: nil document")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	provName := strings.ToLower(opts.Provider)
	if provName == "" {
		provName = "anthropic"
	}
	model := opts.Model
	if model == "" {
		model = DefaultModels[provName]
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}

	provider, err := NewProvider(provName, model)
	if err != nil {
		return nil, fmt.Errorf("llm: create provider: %w", err)
	}

	sysPrompt := buildSystemPrompt(opts.Profile)
	userPrompt := buildUserPrompt(doc, reg)
	if opts.Debug {
		logger.Debug("review prompts", zap.String("system", sysPrompt), zap.String("user", userPrompt))
	}

	raw, err := provider.Complete(ctx, sysPrompt, userPrompt, opts.MaxTokens, opts.Temperature)
	if err != nil {
		return nil, fmt.Errorf("llm: complete: %w", err)
	}

	review, errs := ValidateResponse(raw, doc, reg)
	if review == nil || needsRepair(errs) {
		repairPrompt := buildRepairPrompt(userPrompt, raw, errs)
		raw2, err := provider.Complete(ctx, sysPrompt, repairPrompt, opts.MaxTokens, opts.Temperature)
		if err != nil {
			return nil, fmt.Errorf("llm: repair complete: %w", err)
		}
		review, errs = ValidateResponse(raw2, doc, reg)
		if review == nil || needsRepair(errs) {
			return nil, ErrInvalidModelOutput
		}
	}
	for _, e := range errs {
		logger.Warn("review finding adjusted", zap.String("field", e.Field), zap.String("reason", e.Message))
	}

	review.DocumentID = doc.ID
	review.Profile = opts.Profile.Name
	review.Meta = schema.Meta{Model: model, Temperature: opts.Temperature}
	return review, nil
}

// needsRepair returns true when validation errors include a parse or
// required-field failure that requires a retry.
func needsRepair(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Field == "json_parse" || e.Field == "required_field" {
			return true
		}
	}
	return false
}

// fenceRe matches a markdown code fence block (``` or ~~~) with an optional
// language tag and captures the content between the fences.
var fenceRe = regexp.MustCompile("(?s)^(?:`{3}|~{3})[^\\n]*\\n(.*?)(?:`{3}|~{3})\\s*$")

// openFenceRe matches only an opening fence line, as left by a truncated
// response.
var openFenceRe = regexp.MustCompile("^(?:`{3}|~{3})[^\\n]*\\n")

// stripMarkdownFences removes leading/trailing markdown code fences that LLMs
// sometimes wrap around JSON output.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if loc := openFenceRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}

// invalidJSONEscapeRe matches a backslash followed by a character that is not
// a valid JSON string escape.
var invalidJSONEscapeRe = regexp.MustCompile(`\\([^"\\/bfnrtu])`)

func fixInvalidJSONEscapes(s string) string {
	return invalidJSONEscapeRe.ReplaceAllString(s, `\\$1`)
}

// reviewResponse is the payload the model is asked to produce.
type reviewResponse struct {
	Summary  string           `json:"summary"`
	Findings []schema.Finding `json:"findings"`
}

var validSeverity = map[schema.Severity]bool{
	schema.SeverityInfo:     true,
	schema.SeverityWarn:     true,
	schema.SeverityCritical: true,
}

// ValidateResponse parses and validates the raw LLM response against the
// card it reviews. A nil review is returned only on parse failure or a
// missing findings list. Findings that name a category outside the card's
// selection, carry an unknown severity or have no message are dropped; a
// question id outside the canonical set is cleared. Each adjustment is
// recorded as a ValidationError.
func ValidateResponse(raw string, doc *schema.Document, reg *registry.Registry) (*schema.Review, []ValidationError) {
	var errs []ValidationError
	raw = stripMarkdownFences(raw)

	var resp reviewResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		if err2 := json.Unmarshal([]byte(fixInvalidJSONEscapes(raw)), &resp); err2 != nil {
			return nil, append(errs, ValidationError{Field: "json_parse", Message: err.Error()})
		}
	}
	if resp.Findings == nil {
		return nil, append(errs, ValidationError{Field: "required_field", Message: "findings is missing"})
	}

	selected := make(map[string]bool, len(doc.SelectedCategories))
	for _, id := range doc.SelectedCategories {
		selected[id] = true
	}
	kept := make([]schema.Finding, 0, len(resp.Findings))
	for i, f := range resp.Findings {
		f.Severity = schema.Severity(strings.ToUpper(string(f.Severity)))
		f.Message = strings.TrimSpace(f.Message)
		switch {
		case !selected[f.Category]:
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("findings[%d].category", i),
				Message: fmt.Sprintf("category %q is not selected on this card; finding dropped", f.Category),
			})
			continue
		case !validSeverity[f.Severity]:
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("findings[%d].severity", i),
				Message: fmt.Sprintf("invalid severity %q; finding dropped", f.Severity),
			})
			continue
		case f.Message == "":
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("findings[%d].message", i),
				Message: "empty message; finding dropped",
			})
			continue
		}
		if f.Question != "" && !reg.IsAllowed(f.Question) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("findings[%d].question", i),
				Message: fmt.Sprintf("unknown question %q cleared", f.Question),
			})
			f.Question = ""
		}
		kept = append(kept, f)
	}
	return &schema.Review{Summary: strings.TrimSpace(resp.Summary), Findings: kept}, errs
}

func buildSystemPrompt(prof profile.Profile) string {
	var sb strings.Builder
	sb.WriteString("You review AI evaluation cards for internal consistency and evidence quality.\n\n")
	sb.WriteString("Output ONLY valid JSON conforming to the schema below. " +
		"No prose, no markdown, no explanation outside the JSON.\n\n")
	sb.WriteString("Only refer to category ids listed under SELECTED CATEGORIES and question ids " +
		"A1-A6 or B1-B6. Base findings on the answers, explanations and source descriptions given; " +
		"do not assume the content of any URL.\n\n")
	sb.WriteString("Typical findings: a yes answer without sources, an na explanation that does not " +
		"justify non-applicability, sources that do not match the question, or scores that look " +
		"inconsistent with the additional aspects.\n\n")
	if prof.SystemPromptAddendum != "" {
		sb.WriteString(prof.SystemPromptAddendum)
		sb.WriteString("\n\n")
	}
	sb.WriteString(outputSchema)
	return sb.String()
}

// outputSchema is the JSON shape shown to the LLM.
const outputSchema = `Output schema (JSON only):
{
  "summary": "one paragraph overall assessment",
  "findings": [
    {
      "category": "<selected category id>",
      "question": "<A1-A6|B1-B6, or empty for the whole category>",
      "severity": "INFO|WARN|CRITICAL",
      "message": "..."
    }
  ]
}
`

func buildUserPrompt(doc *schema.Document, reg *registry.Registry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CARD: %s by %s (version %s)\n", doc.SystemName, doc.Provider, doc.Version)
	fmt.Fprintf(&sb, "Modality: %s\nDeployment context: %s\n", doc.Modality, doc.DeploymentContext)

	sb.WriteString("\nSELECTED CATEGORIES:\n")
	for _, id := range doc.SelectedCategories {
		c, ok := reg.Category(id)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "\n[%s] %s (%s)\n", id, c.Name, c.Type)
		e, ok := doc.CategoryEvaluations[id]
		if !ok {
			sb.WriteString("  not evaluated\n")
			continue
		}
		score := scoring.ScoreEvaluation(e, reg)
		fmt.Fprintf(&sb, "  score: benchmark %d, process %d, total %d, status %s\n",
			score.BenchmarkScore, score.ProcessScore, score.TotalScore, score.Status)
		for _, q := range reg.Questions() {
			a := e.Answers(q.Section)[q.ID]
			answer := a.String()
			if a.Empty() {
				answer = "unanswered"
			}
			fmt.Fprintf(&sb, "  %s %s: %s\n", q.ID, answer, q.Text)
			if exp := strings.TrimSpace(e.NAExplanations[q.ID]); exp != "" {
				fmt.Fprintf(&sb, "    na explanation: %s\n", exp)
			}
			for _, s := range e.Sources(q.Section)[q.ID] {
				fmt.Fprintf(&sb, "    source (%s): %s\n", s.SourceType, s.Description)
			}
		}
		if aspects := strings.TrimSpace(e.AdditionalAspects); aspects != "" {
			fmt.Fprintf(&sb, "  additional aspects: %s\n", aspects)
		}
	}
	sb.WriteString("\nProduce the JSON review now.")
	return sb.String()
}

// buildRepairPrompt constructs the repair message. It includes the original
// user prompt and the previous invalid response so the LLM has full context.
func buildRepairPrompt(originalUserPrompt, previousResponse string, errs []ValidationError) string {
	var sb strings.Builder
	sb.WriteString(originalUserPrompt)
	sb.WriteString("\n\nYour previous response was:\n")
	sb.WriteString(previousResponse)
	sb.WriteString("\n\nThat response was invalid. Errors:\n")
	for _, e := range errs {
		fmt.Fprintf(&sb, "  - %s\n", e.Error())
	}
	sb.WriteString("\nPlease output only the corrected JSON conforming to the schema. Do not repeat the error.")
	return sb.String()
}

// defaultNewProvider dispatches to the appropriate provider implementation.
func defaultNewProvider(providerName, model string) (Provider, error) {
	switch strings.ToLower(providerName) {
	case "anthropic", "":
		return newAnthropicProvider(model)
	case "openai":
		return newOpenAIProvider(model)
	case "google":
		return newGoogleProvider(model)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", providerName)
	}
}

// anthropicProvider implements Provider using the Anthropic SDK.
type anthropicProvider struct {
	client anthropic.Client
	model  string
}

func newAnthropicProvider(model string) (Provider, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("llm: ANTHROPIC_API_KEY environment variable not set")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &anthropicProvider{client: client, model: model}, nil
}

func (p *anthropicProvider) Complete(
	ctx context.Context,
	systemPrompt, userPrompt string,
	maxTokens int,
	temperature float64,
) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: messages.new: %w", err)
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("anthropic: response contained no text content blocks")
	}
	return strings.Join(parts, ""), nil
}
