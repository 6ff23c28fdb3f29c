package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Choice is a single response to a question.
type Choice string

const (
	Yes           Choice = "yes"
	No            Choice = "no"
	NotApplicable Choice = "na"
)

// Valid reports whether c is one of the three recognised choices.
func (c Choice) Valid() bool {
	switch c {
	case Yes, No, NotApplicable:
		return true
	}
	return false
}

// ParseChoice converts a string to a Choice constant.
func ParseChoice(s string) (Choice, error) {
	c := Choice(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("schema: unknown choice %q", s)
	}
	return c, nil
}

// Answer is the recorded response to one question. It normally holds one
// choice and serializes as a JSON string. Records rewritten by the fixture
// migration can hold several merged choices, serialized as a JSON array.
type Answer []Choice

// Single returns an answer holding exactly c.
func Single(c Choice) Answer {
	return Answer{c}
}

// IsYes reports whether any recorded choice is yes.
func (a Answer) IsYes() bool {
	return a.Has(Yes)
}

// Has reports whether c is among the recorded choices.
func (a Answer) Has(c Choice) bool {
	for _, v := range a {
		if v == c {
			return true
		}
	}
	return false
}

// Applicable reports whether any recorded choice is something other than na.
func (a Answer) Applicable() bool {
	for _, v := range a {
		if strings.TrimSpace(string(v)) != "" && v != NotApplicable {
			return true
		}
	}
	return false
}

// Empty reports whether the answer holds no non-blank choice.
func (a Answer) Empty() bool {
	for _, v := range a {
		if strings.TrimSpace(string(v)) != "" {
			return false
		}
	}
	return true
}

// OnlyNA reports whether the answer is a plain "not applicable".
func (a Answer) OnlyNA() bool {
	return !a.Empty() && !a.Applicable()
}

// String joins the choices for display.
func (a Answer) String() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// MarshalJSON writes a single choice as a string and merged choices as an array.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch len(a) {
	case 0:
		return []byte(`""`), nil
	case 1:
		return json.Marshal(string(a[0]))
	}
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = string(v)
	}
	return json.Marshal(parts)
}

// UnmarshalJSON accepts either a string or an array of strings.
func (a *Answer) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = nil
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var parts []string
		if err := json.Unmarshal(b, &parts); err != nil {
			return fmt.Errorf("schema: answer: %w", err)
		}
		out := make(Answer, 0, len(parts))
		for _, p := range parts {
			out = append(out, Choice(p))
		}
		*a = out
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("schema: answer: %w", err)
	}
	if s == "" {
		*a = Answer{}
		return nil
	}
	*a = Answer{Choice(s)}
	return nil
}
