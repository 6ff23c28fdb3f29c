package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/evalcard/internal/aggregate"
	"github.com/dshills/evalcard/internal/codec"
	"github.com/dshills/evalcard/internal/fixtures"
	"github.com/dshills/evalcard/internal/llm"
	"github.com/dshills/evalcard/internal/migrate"
	"github.com/dshills/evalcard/internal/profile"
	"github.com/dshills/evalcard/internal/render"
	"github.com/dshills/evalcard/internal/schema"
	"github.com/dshills/evalcard/internal/session"
	"github.com/dshills/evalcard/internal/verdict"
)

// now is the clock used for new document ids; tests replace it.
var now = time.Now

// writeJSON writes v as indented JSON without HTML escaping.
func writeJSON(cmd *cobra.Command, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return writeOut(cmd, codec.Indent(buf.Bytes()))
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Fold the retired question B8 into B5 in every record file",
		Long: `Rewrites every *.json record under the configured directories so that
process answers and sources stored under B8 move to B5. Files are only
written when they change. Prints one result per file as a JSON array;
per-file failures are reported in-band and never change the exit status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd, migrate.Run(a.cfg.Root, a.cfg.Dirs, a.logger))
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report question ids outside A1-A6 and B1-B6 in every record file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd, fixtures.Validate(a.cfg.Root, a.cfg.Dirs, a.reg, a.logger))
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the evaluation cards under the record directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cards := fixtures.Cards(a.cfg.Root, a.cfg.Dirs, a.reg, a.logger)
			switch format {
			case "json":
				if cards == nil {
					cards = []fixtures.Card{}
				}
				return writeJSON(cmd, cards)
			case "markdown":
				return writeOut(cmd, []byte(render.RenderCards(cards)))
			default:
				return withCode(exitCodeBadInput, fmt.Errorf("unknown format %q", format))
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json|markdown")
	return cmd
}

// find looks a record up by id and maps a miss to a user-facing error.
func (a *app) find(id string) (*schema.Document, fixtures.File, error) {
	doc, f, err := fixtures.Find(a.cfg.Root, a.cfg.Dirs, id, a.logger)
	if errors.Is(err, fixtures.ErrNotFound) {
		return nil, f, fmt.Errorf("evaluation %s not found", id)
	}
	return doc, f, err
}

func newShowCmd(a *app) *cobra.Command {
	var (
		format string
		width  int
	)
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one evaluation card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, f, err := a.find(args[0])
			if err != nil {
				return err
			}
			a.logger.Debug("record found", zap.String("file", f.Rel))
			switch format {
			case "json":
				b, err := render.RenderJSON(doc)
				if err != nil {
					return err
				}
				return writeOut(cmd, b)
			case "markdown":
				return writeOut(cmd, []byte(render.RenderMarkdown(doc, a.reg)))
			case "terminal":
				out, err := render.RenderTerminal(render.RenderMarkdown(doc, a.reg), width, "")
				if err != nil {
					return err
				}
				return writeOut(cmd, []byte(out))
			default:
				return withCode(exitCodeBadInput, fmt.Errorf("unknown format %q", format))
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: json|markdown|terminal")
	cmd.Flags().IntVar(&width, "width", 100, "word wrap width for terminal output")
	return cmd
}

func newBuildCmd(a *app) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "build <session-file>",
		Short: "Replay a session script and write the resulting card",
		Long: `Replays a YAML or JSON session script through the wizard, then encodes
the saved categories into a card written as <out>/<id>.json. The path of
the written file is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := session.LoadScript(args[0])
			if err != nil {
				return withCode(exitCodeBadInput, err)
			}
			state, err := session.Replay(sc, a.reg)
			if err != nil {
				return withCode(exitCodeBadInput, err)
			}
			doc, err := codec.Encode(state, a.reg, codec.EncodeOptions{Clock: now, Evaluator: a.cfg.Evaluator})
			if err != nil {
				return withCode(exitCodeBadInput, err)
			}
			for _, issue := range codec.Check(doc, a.reg) {
				a.logger.Warn("card issue", zap.String("issue", issue))
			}
			b, err := codec.Marshal(doc)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = a.cfg.Root
				if len(a.cfg.Dirs) > 0 {
					outDir = filepath.Join(a.cfg.Root, a.cfg.Dirs[0])
				}
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("build: %w", err)
			}
			path := filepath.Join(outDir, doc.ID+".json")
			if err := os.WriteFile(path, b, 0o644); err != nil {
				return fmt.Errorf("build: %w", err)
			}
			a.logger.Info("card written", zap.String("file", path), zap.Float64("completeness", doc.OverallStats.CompletenessScore))
			return writeOut(cmd, []byte(path+"\n"))
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: the first record directory)")
	return cmd
}

func newRescoreCmd(a *app) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "rescore <file>",
		Short: "Recompute overallStats of a card from its answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := codec.DecodeFile(args[0])
			if err != nil {
				return withCode(exitCodeBadInput, err)
			}
			if d := doc.Defaulted(); len(d) > 0 {
				a.logger.Info("legacy fields defaulted", zap.String("file", args[0]), zap.Strings("fields", d))
			}
			for _, issue := range codec.Check(doc, a.reg) {
				a.logger.Warn("card issue", zap.String("file", args[0]), zap.String("issue", issue))
			}
			_, doc.OverallStats = aggregate.Rescore(doc, a.reg)
			b, err := codec.Marshal(doc)
			if err != nil {
				return err
			}
			if !write {
				return writeOut(cmd, b)
			}
			info, err := os.Stat(args[0])
			if err != nil {
				return fmt.Errorf("rescore: %w", err)
			}
			if err := os.WriteFile(args[0], b, info.Mode().Perm()); err != nil {
				return fmt.Errorf("rescore: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file instead of printing")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a card as an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = args[0] + ".xlsx"
			}
			doc, _, err := a.find(args[0])
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if err := render.WriteWorkbook(doc, a.reg, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			return writeOut(cmd, []byte(out+"\n"))
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: <id>.xlsx)")
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	var (
		typ    string
		format string
	)
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Print the evaluation categories and questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := schema.CategoryType(typ)
			if t != "" && t != schema.TypeCapability && t != schema.TypeRisk {
				return withCode(exitCodeBadInput, fmt.Errorf("unknown category type %q", typ))
			}
			cats := a.reg.Categories(t)
			if format == "json" {
				type entry struct {
					ID          string              `json:"id"`
					Name        string              `json:"name"`
					Type        schema.CategoryType `json:"type"`
					Description string              `json:"description"`
				}
				out := make([]entry, len(cats))
				for i, c := range cats {
					out[i] = entry{c.ID, c.Name, c.Type, c.Description}
				}
				return writeJSON(cmd, out)
			}
			var sb strings.Builder
			sb.WriteString("| ID | Name | Type |\n|---|---|---|\n")
			for _, c := range cats {
				fmt.Fprintf(&sb, "| %s | %s | %s |\n", c.ID, c.Name, c.Type)
			}
			sb.WriteString("\n| Question | Section | Text |\n|---|---|---|\n")
			for _, q := range a.reg.Questions() {
				fmt.Fprintf(&sb, "| %s | %s | %s |\n", q.ID, q.Section, q.Text)
			}
			return writeOut(cmd, []byte(sb.String()))
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "only list capability or risk categories")
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: json|markdown")
	return cmd
}

func newReviewCmd(a *app) *cobra.Command {
	var (
		provider    string
		model       string
		profileName string
		failOn      string
		debug       bool
	)
	cmd := &cobra.Command{
		Use:   "review <id>",
		Short: "Ask an LLM for advisory findings about a card",
		Long: `Sends the card's answers, explanations and source descriptions to the
configured LLM provider and prints its findings as JSON, together with a
locally computed score and verdict. Source URLs are never fetched and card
scores are never changed.

Exit codes: 2 when the verdict reaches --fail-on, 3 for an unknown profile
or verdict, 4 when the provider call fails, 5 when the model output is
still invalid after one repair attempt.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("profile") {
				profileName = a.cfg.LLM.Profile
			}
			prof, err := profile.Load(profileName)
			if err != nil {
				return withCode(exitCodeBadInput, err)
			}
			var threshold schema.Verdict
			if failOn != "" {
				if threshold, err = verdict.Parse(failOn); err != nil {
					return withCode(exitCodeBadInput, err)
				}
			}

			doc, _, err := a.find(args[0])
			if err != nil {
				return err
			}
			opts := llm.Options{
				Provider:    a.cfg.LLM.Provider,
				Model:       a.cfg.LLM.Model,
				MaxTokens:   a.cfg.LLM.MaxTokens,
				Temperature: a.cfg.LLM.Temperature,
				Profile:     prof,
				Debug:       debug,
				Logger:      a.logger,
			}
			if cmd.Flags().Changed("provider") {
				opts.Provider = provider
				if !cmd.Flags().Changed("model") {
					opts.Model = ""
				}
			}
			if cmd.Flags().Changed("model") {
				opts.Model = model
			}
			review, err := llm.Review(cmd.Context(), doc, a.reg, opts)
			switch {
			case errors.Is(err, llm.ErrInvalidModelOutput):
				return withCode(exitCodeBadOutput, err)
			case err != nil:
				return withCode(exitCodeAPIError, err)
			}

			_, stats := aggregate.Rescore(doc, a.reg)
			verdict.Apply(review, stats, prof.StrictSeverity)
			a.logger.Debug("review complete",
				zap.String("id", doc.ID),
				zap.String("profile", prof.Name),
				zap.String("verdict", string(review.Verdict)),
				zap.Int("score", review.Score))

			if err := writeJSON(cmd, review); err != nil {
				return err
			}
			if threshold != "" && verdict.VerdictOrdinal(review.Verdict) >= verdict.VerdictOrdinal(threshold) {
				return withCode(exitCodeFailOn, fmt.Errorf("review verdict %s reached --fail-on %s", review.Verdict, threshold))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: anthropic|openai|google")
	cmd.Flags().StringVar(&model, "model", "", "model name (default depends on the provider)")
	cmd.Flags().StringVar(&profileName, "profile", "general", "review profile: "+strings.Join(profile.Names, "|"))
	cmd.Flags().StringVar(&failOn, "fail-on", "", "exit 2 when the verdict is at least: clean|needs-attention|blocking")
	cmd.Flags().BoolVar(&debug, "debug", false, "log prompts at debug level")
	return cmd
}
