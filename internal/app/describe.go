package app

import (
	"fmt"
	"sort"
	"strings"

	"arcview/internal/grid"
	"arcview/internal/puzzles"
)

// DescribeDocument renders a markdown summary of a puzzle: every grid's
// size, the colors it uses, and what the examples share about sizing.
func DescribeDocument(doc *puzzles.Document) string {
	if doc == nil {
		return "No puzzle to describe."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Puzzle %s\n\n", doc.ID)
	b.WriteString("## Examples\n\n")
	writeExampleTable(&b, "train", doc.Train)
	b.WriteString("\n## Test\n\n")
	writeExampleTable(&b, "test", doc.Test)

	hints := sizeHints(doc.Train)
	if palette := newColors(doc.Train); palette != "" {
		hints = append(hints, palette)
	}
	if len(hints) > 0 {
		b.WriteString("\n## Patterns\n\n")
		for _, h := range hints {
			b.WriteString("- " + h + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func writeExampleTable(b *strings.Builder, label string, examples []puzzles.Example) {
	b.WriteString("| # | input | output | input colors | output colors |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for i, ex := range examples {
		fmt.Fprintf(b, "| %s %d | %s | %s | %s | %s |\n",
			label, i+1, dims(ex.Input), dims(ex.Output),
			strings.Join(colorNames(ex.Input), ", "), strings.Join(colorNames(ex.Output), ", "))
	}
}

func dims(g *grid.Grid) string {
	if g == nil {
		return "-"
	}
	return fmt.Sprintf("%dx%d", g.RowCount(), g.ColCount())
}

func colorsUsed(g *grid.Grid) []int {
	if g == nil {
		return nil
	}
	seen := map[int]bool{}
	for _, row := range g.Rows() {
		for _, v := range row {
			seen[v] = true
		}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func colorNames(g *grid.Grid) []string {
	used := colorsUsed(g)
	out := make([]string, 0, len(used))
	for _, v := range used {
		out = append(out, grid.ColorAt(v).Name)
	}
	return out
}

// sizeHints reports a size relation that holds for every training example.
func sizeHints(train []puzzles.Example) []string {
	if len(train) == 0 {
		return nil
	}
	same, constant := true, true
	ratioR, ratioC, scaled := 0, 0, true
	first := train[0].Output
	for i, ex := range train {
		in, out := ex.Input, ex.Output
		if !in.SameShape(out) {
			same = false
		}
		if !out.SameShape(first) {
			constant = false
		}
		if out.RowCount()%in.RowCount() != 0 || out.ColCount()%in.ColCount() != 0 {
			scaled = false
			continue
		}
		r, c := out.RowCount()/in.RowCount(), out.ColCount()/in.ColCount()
		if i == 0 {
			ratioR, ratioC = r, c
		} else if r != ratioR || c != ratioC {
			scaled = false
		}
	}
	switch {
	case same:
		return []string{"Every output has the same size as its input."}
	case scaled && (ratioR > 1 || ratioC > 1):
		return []string{fmt.Sprintf("Every output is the input size scaled by %dx%d.", ratioR, ratioC)}
	case constant:
		return []string{fmt.Sprintf("Every output is %s regardless of the input size.", dims(first))}
	}
	return []string{"Output sizes vary between examples."}
}

// newColors names colors that appear in outputs but never in the matching
// input, across all training examples.
func newColors(train []puzzles.Example) string {
	added := map[int]bool{}
	for _, ex := range train {
		in := map[int]bool{}
		for _, v := range colorsUsed(ex.Input) {
			in[v] = true
		}
		for _, v := range colorsUsed(ex.Output) {
			if !in[v] {
				added[v] = true
			}
		}
	}
	if len(added) == 0 {
		return ""
	}
	vals := make([]int, 0, len(added))
	for v := range added {
		vals = append(vals, v)
	}
	sort.Ints(vals)
	names := make([]string, 0, len(vals))
	for _, v := range vals {
		names = append(names, grid.ColorAt(v).Name)
	}
	return "Outputs introduce " + strings.Join(names, ", ") + "."
}
