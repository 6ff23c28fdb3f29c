package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Source is an evidence citation attached to a question answered yes.
// Section-specific structured fields (benchmarkName, version, metrics,
// documentType, ...) live in Details and are written inline.
type Source struct {
	ID          string
	URL         string
	Description string
	SourceType  SourceType
	// Score is optional; nil means the key is absent.
	Score   *string
	Details map[string]any

	// numericID and numericScore record that the decoded record stored the
	// value as a JSON number; it is written back as one while unchanged.
	numericID    bool
	numericScore bool
}

var sourceKeys = map[string]bool{
	"id": true, "url": true, "description": true, "sourceType": true, "score": true,
}

// StringPtr is a convenience for optional string fields.
func StringPtr(s string) *string { return &s }

// Detail returns a detail field rendered as a string, or "".
func (s Source) Detail(key string) string {
	v, ok := s.Details[key]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// DetailKeys returns the detail field names in sorted order.
func (s Source) DetailKeys() []string {
	keys := make([]string, 0, len(s.Details))
	for k := range s.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep-enough copy for immutable updates.
func (s Source) Clone() Source {
	out := s
	if s.Score != nil {
		out.Score = StringPtr(*s.Score)
	}
	if s.Details != nil {
		out.Details = make(map[string]any, len(s.Details))
		for k, v := range s.Details {
			out.Details[k] = v
		}
	}
	return out
}

// MarshalJSON flattens Details next to the fixed fields.
func (s Source) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(s.Details)+5)
	for k, v := range s.Details {
		if sourceKeys[k] {
			continue
		}
		m[k] = v
	}
	m["id"] = scalar(s.ID, s.numericID)
	m["url"] = s.URL
	m["description"] = s.Description
	m["sourceType"] = s.SourceType
	if s.Score != nil {
		m["score"] = scalar(*s.Score, s.numericScore)
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads the fixed fields and keeps everything else in Details.
func (s *Source) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("schema: source: %w", err)
	}
	out := Source{}
	for k, v := range raw {
		switch k {
		case "id":
			out.ID = stringOf(v)
			_, out.numericID = v.(json.Number)
		case "url":
			out.URL = stringOf(v)
		case "description":
			out.Description = stringOf(v)
		case "sourceType":
			out.SourceType = SourceType(stringOf(v))
		case "score":
			if v != nil {
				out.Score = StringPtr(stringOf(v))
				_, out.numericScore = v.(json.Number)
			}
		default:
			if out.Details == nil {
				out.Details = map[string]any{}
			}
			out.Details[k] = v
		}
	}
	*s = out
	return nil
}

// scalar writes a value that was decoded from a JSON number back as that
// number, provided it is still a JSON number literal.
func scalar(v string, numeric bool) any {
	if numeric && v != "" && (v[0] == '-' || (v[0] >= '0' && v[0] <= '9')) && json.Valid([]byte(v)) {
		return json.Number(v)
	}
	return v
}

// stringOf renders scalar JSON values as strings; older records stored ids
// and scores as numbers.
func stringOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
