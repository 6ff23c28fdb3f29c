// Package migrate rewrites persisted records that still carry the retired
// process question B8, folding it into B5.
package migrate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/dshills/evalcard/internal/codec"
	"github.com/dshills/evalcard/internal/fixtures"
)

const (
	// From is the retired question id.
	From = "B8"
	// To is the question that absorbs it.
	To = "B5"
)

var errInvalidJSON = errors.New("invalid json")

// sections are the per-category maps that can hold From.
var sections = []string{"processAnswers", "processSources"}

// Change records one moved key.
type Change struct {
	Category string `json:"category"`
	Section  string `json:"section"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// Result is the outcome for one file.
type Result struct {
	File    string
	Changed bool
	Changes []Change
	Error   string
}

// MarshalJSON writes {file, changed, changes} or, on failure, {file, error}.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(struct {
			File  string `json:"file"`
			Error string `json:"error"`
		}{r.File, r.Error})
	}
	changes := r.Changes
	if changes == nil {
		changes = []Change{}
	}
	return json.Marshal(struct {
		File    string   `json:"file"`
		Changed bool     `json:"changed"`
		Changes []Change `json:"changes"`
	}{r.File, r.Changed, changes})
}

// Run migrates every record under root. Files are rewritten only when they
// change, so a second run reports no changes. Per-file failures are
// reported in the results and never stop the batch.
func Run(root string, dirs []string, logger *zap.Logger) []Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	files := fixtures.ListFiles(root, dirs)
	results := make([]Result, 0, len(files))
	for _, f := range files {
		r := migrateFile(f)
		switch {
		case r.Error != "":
			logger.Warn("migration skipped file", zap.String("file", f.Rel), zap.String("error", r.Error))
		case r.Changed:
			logger.Info("migrated file", zap.String("file", f.Rel), zap.Int("changes", len(r.Changes)))
		default:
			logger.Debug("file already migrated", zap.String("file", f.Rel))
		}
		results = append(results, r)
	}
	return results
}

func migrateFile(f fixtures.File) Result {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return Result{File: f.Rel, Error: "unreadable file"}
	}
	out, changes, err := Migrate(raw)
	if err != nil {
		return Result{File: f.Rel, Error: err.Error()}
	}
	if len(changes) == 0 {
		return Result{File: f.Rel}
	}
	info, err := os.Stat(f.Path)
	if err != nil {
		return Result{File: f.Rel, Error: "unreadable file"}
	}
	if err := os.WriteFile(f.Path, out, info.Mode().Perm()); err != nil {
		return Result{File: f.Rel, Error: fmt.Sprintf("write failed: %v", err)}
	}
	return Result{File: f.Rel, Changed: true, Changes: changes}
}

// Migrate applies the B8 fold to one record. When nothing changes the input
// is returned as is; otherwise the result is re-indented with two spaces.
// Keys that are not touched keep their order.
func Migrate(raw []byte) ([]byte, []Change, error) {
	if !gjson.ValidBytes(raw) {
		return nil, nil, errInvalidJSON
	}
	var cats []string
	gjson.GetBytes(raw, "categoryEvaluations").ForEach(func(k, v gjson.Result) bool {
		if v.IsObject() {
			cats = append(cats, k.String())
		}
		return true
	})

	var changes []Change
	out := raw
	for _, cat := range cats {
		for _, sec := range sections {
			base := "categoryEvaluations." + codec.EscapeKey(cat) + "." + sec
			m := gjson.GetBytes(out, base)
			if !m.IsObject() {
				continue
			}
			incoming := m.Get(From)
			if !incoming.Exists() {
				continue
			}
			value := incoming.Raw
			if existing := m.Get(To); existing.Exists() {
				merged, err := merge(existing, incoming)
				if err != nil {
					return nil, nil, fmt.Errorf("%s.%s: %w", cat, sec, err)
				}
				value = merged
			}
			var err error
			if out, err = sjson.SetRawBytes(out, base+"."+To, []byte(value)); err != nil {
				return nil, nil, fmt.Errorf("%s.%s: %w", cat, sec, err)
			}
			if out, err = sjson.DeleteBytes(out, base+"."+From); err != nil {
				return nil, nil, fmt.Errorf("%s.%s: %w", cat, sec, err)
			}
			changes = append(changes, Change{Category: cat, Section: sec, From: From, To: To})
		}
	}
	if len(changes) == 0 {
		return raw, nil, nil
	}
	return codec.Indent(out), changes, nil
}

// merge concatenates the target and incoming values into one list, keeping
// the first occurrence of structurally equal items. A non-array value counts
// as a one-item list; a null incoming value adds nothing.
func merge(existing, incoming gjson.Result) (string, error) {
	seen := map[string]bool{}
	var items []string
	add := func(v gjson.Result) error {
		key, err := canonical(v.Raw)
		if err != nil {
			return err
		}
		if seen[key] {
			return nil
		}
		seen[key] = true
		items = append(items, v.Raw)
		return nil
	}
	for _, v := range listOf(existing, true) {
		if err := add(v); err != nil {
			return "", err
		}
	}
	for _, v := range listOf(incoming, false) {
		if err := add(v); err != nil {
			return "", err
		}
	}
	return "[" + strings.Join(items, ",") + "]", nil
}

func listOf(v gjson.Result, keepNull bool) []gjson.Result {
	switch {
	case v.IsArray():
		return v.Array()
	case v.Type == gjson.Null && !keepNull:
		return nil
	default:
		return []gjson.Result{v}
	}
}

// canonical renders a JSON value with sorted object keys so that equal
// structures compare equal regardless of key order. Numbers keep their
// literal text, so integers beyond float64 precision stay distinct.
func canonical(raw string) (string, error) {
	var v any
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
