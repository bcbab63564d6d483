package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"arcview/internal/grid"
)

func helpMarkdown() string {
	var b strings.Builder
	b.WriteString("# arcview\n\n")
	b.WriteString("Study the examples, then draw the output for the test input and submit it.\n\n")
	b.WriteString("## Drawing\n\n")
	b.WriteString("- Press and drag on the right-hand grid of the **Test** tab to paint with the selected color.\n")
	b.WriteString("- `s` toggles **stamp** mode: the test input follows the pointer and a click places it, clipped at the edges.\n")
	b.WriteString("- `c` copies the test input onto your grid where the shapes overlap; `S` resizes it to fit instead.\n")
	b.WriteString("- `x` clears your grid, `r` reveals the answer, `enter` submits.\n\n")
	b.WriteString("## Navigation\n\n")
	b.WriteString("| Key | Action |\n|---|---|\n")
	b.WriteString("| `tab`, `e`, `t` | switch tabs |\n")
	b.WriteString("| `h` `l` / `←` `→` | previous / next example |\n")
	b.WriteString("| `p` `n` | previous / next puzzle |\n")
	b.WriteString("| `[` `]` | back / forward through visited puzzles |\n")
	b.WriteString("| `<` `>` | scroll wide grids |\n")
	b.WriteString("| `k` `j` / wheel | scroll tall grids |\n")
	b.WriteString("| `q` | quit |\n\n")
	b.WriteString("## Palette\n\n")
	b.WriteString("| Key | Color |\n|---|---|\n")
	for _, c := range grid.Palette {
		fmt.Fprintf(&b, "| `%d` | %s |\n", c.Index, c.Name)
	}
	return b.String()
}

func renderHelp(width int) string {
	md := helpMarkdown()
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(20, width)),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
