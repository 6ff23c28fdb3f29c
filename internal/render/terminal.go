package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// RenderTerminal styles Markdown for a terminal. An empty style picks a
// light or dark theme from the terminal background; otherwise style names a
// glamour standard style such as "dark" or "notty".
func RenderTerminal(markdown string, width int, style string) (string, error) {
	if width <= 0 {
		width = 80
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("render: terminal: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render: terminal: %w", err)
	}
	return out, nil
}
