package render

import (
	"fmt"
	"strings"

	"github.com/dshills/evalcard/internal/fixtures"
)

// RenderCards produces a Markdown table of listing cards.
func RenderCards(cards []fixtures.Card) string {
	if len(cards) == 0 {
		return "No evaluations found.\n"
	}
	var sb strings.Builder
	sb.WriteString("| ID | System | Provider | Date | Completed | Completeness | Status |\n")
	sb.WriteString("|---|---|---|---|---|---|---|\n")
	for _, c := range cards {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %d/%d | %.1f | %s |\n",
			c.ID, mdEscape(c.SystemName), mdEscape(c.Provider), c.CompletedDate,
			c.CompletedCategories, c.ApplicableCategories, c.CompletenessScore, c.Status)
	}
	return sb.String()
}
