// Package codec converts between wizard state, the in-memory Document and
// the persisted JSON record.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/evalcard/internal/aggregate"
	"github.com/dshills/evalcard/internal/registry"
	"github.com/dshills/evalcard/internal/schema"
	"github.com/dshills/evalcard/internal/session"
)

// DefaultEvaluator is written when no evaluator name is configured.
const DefaultEvaluator = "Current User"

// ErrNotReady is returned when the session lacks system info or categories.
var ErrNotReady = errors.New("codec: session not ready for export")

// EncodeOptions controls the fields Encode derives from its environment.
type EncodeOptions struct {
	// Clock defaults to time.Now.
	Clock     func() time.Time
	Evaluator string
}

// Encode builds the exported document from a session. Only saved categories
// are written; their scores come from the session.
func Encode(s session.State, reg *registry.Registry, opts EncodeOptions) (*schema.Document, error) {
	if s.SystemInfo == nil || len(s.Selected) == 0 {
		return nil, ErrNotReady
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	info := s.SystemInfo

	doc := &schema.Document{
		ID:                  fmt.Sprintf("eval-%d", now.UnixMilli()),
		SystemName:          info.Name,
		Provider:            info.Provider,
		Version:             firstNonBlank(info.Version, info.URL, "1.0"),
		DeploymentContext:   firstNonBlank(strings.Join(info.DeploymentContexts, ", "), "Production"),
		Evaluator:           firstNonBlank(opts.Evaluator, DefaultEvaluator),
		Modality:            firstNonBlank(info.Modality, strings.Join(info.SystemTypes, ", "), "Unknown"),
		EvaluationDate:      now.UTC().Format(time.DateOnly),
		SelectedCategories:  append([]string{}, s.Selected...),
		CategoryEvaluations: make(map[string]schema.CategoryEvaluation, len(s.Saved)),
	}
	for _, id := range s.Selected {
		if e, ok := s.Saved[id]; ok {
			doc.CategoryEvaluations[id] = e.Clone()
		}
	}
	doc.OverallStats = aggregate.Aggregate(doc.SelectedCategories, s.Scores, reg)
	doc.OverallStats.CompletenessScore = aggregate.RoundScore(doc.OverallStats.CompletenessScore)
	return doc, nil
}

// Marshal renders a document as two-space indented JSON with a trailing
// newline. Unknown keys kept by Decode, at the top level, inside each
// category evaluation and inside overallStats, are written back.
func Marshal(doc *schema.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("codec: marshal: %w", err)
	}
	out := bytes.TrimSpace(buf.Bytes())

	var err error
	if out, err = setExtra(out, "", doc.Extra); err != nil {
		return nil, err
	}
	for _, id := range sortedKeys(doc.CategoryEvaluations) {
		prefix := "categoryEvaluations." + EscapeKey(id) + "."
		if out, err = setExtra(out, prefix, doc.CategoryEvaluations[id].Extra); err != nil {
			return nil, err
		}
	}
	if out, err = setExtra(out, "overallStats.", doc.OverallStats.Extra); err != nil {
		return nil, err
	}
	return Indent(out), nil
}

// setExtra writes each raw value under prefix+key, in key order.
func setExtra(out []byte, prefix string, extra map[string][]byte) ([]byte, error) {
	for _, k := range sortedKeys(extra) {
		var err error
		out, err = sjson.SetRawBytes(out, prefix+EscapeKey(k), extra[k])
		if err != nil {
			return nil, fmt.Errorf("codec: marshal: extra key %q: %w", prefix+k, err)
		}
	}
	return out, nil
}

// Indent re-indents JSON with two spaces, one array element per line, and a
// single trailing newline.
func Indent(raw []byte) []byte {
	out := pretty.PrettyOptions(raw, &pretty.Options{Indent: "  "})
	return append(bytes.TrimRight(out, "\n"), '\n')
}

// EscapeKey escapes a literal object key for use as a gjson/sjson path.
func EscapeKey(k string) string {
	var b strings.Builder
	for _, r := range k {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
