// Package profile defines review profiles that modulate the LLM prompt used
// for assisted card review. Each profile provides a SystemPromptAddendum that
// is appended to the system prompt sent to the LLM.
package profile

import "fmt"

// Profile describes a review strategy.
type Profile struct {
	Name                 string
	Description          string
	SystemPromptAddendum string
	// StrictSeverity, when true, causes all review findings to be escalated
	// one severity level before the verdict is computed (WARN→CRITICAL, INFO→WARN).
	StrictSeverity bool
}

// builtins is the registry of built-in profiles keyed by name.
var builtins = map[string]Profile{
	"general": {
		Name:        "general",
		Description: "Default profile; weighs every category and question equally.",
		SystemPromptAddendum: "Review every selected category with equal weight. When an answer " +
			"and its evidence disagree, say so in the message rather than guessing which is right.",
		StrictSeverity: false,
	},
	"high-risk": {
		Name:        "high-risk",
		Description: "High-risk deployment; demands external evidence for every risk category.",
		SystemPromptAddendum: "This system is deployed in a high-risk context. For risk categories, " +
			"treat a yes answer backed only by internal sources as WARN and an unanswered or " +
			"unexplained na process question as CRITICAL. Flag any risk category whose status is " +
			"weak or insufficient as CRITICAL.",
		StrictSeverity: true,
	},
	"regulatory": {
		Name:        "regulatory",
		Description: "Regulatory readiness; focuses on thresholds, documentation and audits.",
		SystemPromptAddendum: "Focus on regulatory readiness. Question A2 (regulatory thresholds) " +
			"and the process questions B1-B6 carry the most weight. An na answer on A2 needs a " +
			"concrete reason no regulation applies; anything weaker is CRITICAL. Missing audit or " +
			"documentation sources on a yes process answer are WARN.",
		StrictSeverity: true,
	},
	"research": {
		Name:        "research",
		Description: "Research preview; tolerates gaps in process maturity.",
		SystemPromptAddendum: "This system is a research preview. Gaps in process questions B1-B6 " +
			"are expected and should be reported as INFO. Reserve WARN and CRITICAL for benchmark " +
			"claims that lack any supporting source.",
		StrictSeverity: false,
	},
}

// Names lists the built-in profile names in display order.
var Names = []string{"general", "high-risk", "regulatory", "research"}

// Load returns the named built-in profile or an error if the name is unknown.
func Load(name string) (Profile, error) {
	p, ok := builtins[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile: unknown profile %q (available: general, high-risk, regulatory, research)", name)
	}
	return p, nil
}
