// Package fixtures reads the directories of persisted evaluation records:
// it lists them, checks them for retired question ids, and builds the
// listing and detail views.
package fixtures

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/dshills/evalcard/internal/registry"
)

// DefaultDirs are the record directories, relative to the project root.
var DefaultDirs = []string{"public/evaluations", "data/evaluations"}

// ErrNotFound is returned by Find when no record has the requested id.
var ErrNotFound = errors.New("fixtures: evaluation not found")

// File is one record file found under a root.
type File struct {
	// Path is the location on disk.
	Path string
	// Rel is Path relative to the root, used in reports.
	Rel string
}

// ListFiles returns the *.json files of each directory under root, in
// directory order and then by name. Missing or unreadable directories
// contribute nothing.
func ListFiles(root string, dirs []string) []File {
	var out []File
	for _, dir := range dirs {
		entries, err := os.ReadDir(filepath.Join(root, dir))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			rel := filepath.Join(dir, e.Name())
			out = append(out, File{Path: filepath.Join(root, rel), Rel: filepath.ToSlash(rel)})
		}
	}
	return out
}

// ValidationResult reports the disallowed question ids found in one file.
type ValidationResult struct {
	File string
	// Unexpected maps category id to offending question ids, first-seen order.
	Unexpected map[string][]string
	Error      string
}

// Clean reports whether the file parsed and holds only canonical ids.
func (r ValidationResult) Clean() bool {
	return r.Error == "" && len(r.Unexpected) == 0
}

// MarshalJSON writes {file, unexpected} or, for unreadable files, {file, error}.
func (r ValidationResult) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(struct {
			File  string `json:"file"`
			Error string `json:"error"`
		}{r.File, r.Error})
	}
	unexpected := r.Unexpected
	if unexpected == nil {
		unexpected = map[string][]string{}
	}
	return json.Marshal(struct {
		File       string              `json:"file"`
		Unexpected map[string][]string `json:"unexpected"`
	}{r.File, unexpected})
}

// idSections are the per-category maps whose keys are question ids.
var idSections = []string{"benchmarkAnswers", "processAnswers", "processSources"}

// Validate scans every record and reports question ids outside the
// canonical set. Files are never modified.
func Validate(root string, dirs []string, reg *registry.Registry, logger *zap.Logger) []ValidationResult {
	if logger == nil {
		logger = zap.NewNop()
	}
	files := ListFiles(root, dirs)
	results := make([]ValidationResult, 0, len(files))
	for _, f := range files {
		r := validateFile(f, reg)
		if r.Error != "" {
			logger.Warn("fixture unreadable", zap.String("file", f.Rel), zap.String("error", r.Error))
		} else if len(r.Unexpected) > 0 {
			logger.Info("fixture has unexpected question ids", zap.String("file", f.Rel), zap.Int("categories", len(r.Unexpected)))
		}
		results = append(results, r)
	}
	return results
}

func validateFile(f File, reg *registry.Registry) ValidationResult {
	r := ValidationResult{File: f.Rel, Unexpected: map[string][]string{}}
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return ValidationResult{File: f.Rel, Error: "unreadable file"}
	}
	if !gjson.ValidBytes(raw) {
		return ValidationResult{File: f.Rel, Error: "invalid json"}
	}
	gjson.GetBytes(raw, "categoryEvaluations").ForEach(func(cat, body gjson.Result) bool {
		seen := map[string]bool{}
		var bad []string
		for _, sec := range idSections {
			body.Get(sec).ForEach(func(qid, _ gjson.Result) bool {
				id := qid.String()
				if !reg.IsAllowed(id) && !seen[id] {
					seen[id] = true
					bad = append(bad, id)
				}
				return true
			})
		}
		if len(bad) > 0 {
			r.Unexpected[cat.String()] = bad
		}
		return true
	})
	return r
}
