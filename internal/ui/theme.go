package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"arcview/internal/grid"
)

type Theme struct {
	Header      lipgloss.Style
	Status      lipgloss.Style
	Tab         lipgloss.Style
	TabActive   lipgloss.Style
	PanelTitle  lipgloss.Style
	PanelBorder lipgloss.Style
	PanelBody   lipgloss.Style
	Overlay     lipgloss.Style
	Accent      lipgloss.Style
	Pass        lipgloss.Style
	Fail        lipgloss.Style
	Pending     lipgloss.Style
	Muted       lipgloss.Style

	// Cells holds one background style per palette index.
	Cells [grid.MaxColor + 1]lipgloss.Style
	// Ghosts draw stamp preview cells in the patch color.
	Ghosts [grid.MaxColor + 1]lipgloss.Style
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "retro_terminal":
		return retroTerminalTheme()
	default:
		return studioTheme()
	}
}

func paletteCells() [grid.MaxColor + 1]lipgloss.Style {
	var out [grid.MaxColor + 1]lipgloss.Style
	for i, c := range grid.Palette {
		bg := lipgloss.Color(c.Hex)
		out[i] = lipgloss.NewStyle().Background(bg).Foreground(contrast(c.Index))
	}
	return out
}

func paletteGhosts() [grid.MaxColor + 1]lipgloss.Style {
	var out [grid.MaxColor + 1]lipgloss.Style
	for i, c := range grid.Palette {
		out[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex)).Background(lipgloss.Color("#1B1B1B"))
	}
	return out
}

// contrast picks a digit color readable on the palette background.
func contrast(idx int) color.Color {
	switch idx {
	case 0, 1, 2, 9:
		return lipgloss.Color("#F4F6FA")
	default:
		return lipgloss.Color("#0E1420")
	}
}

func studioTheme() Theme {
	ink := lipgloss.Color("#0E1420")
	slate := lipgloss.Color("#1B2740")
	powder := lipgloss.Color("#EAF2FF")
	blue := lipgloss.Color("#5EEBFF")
	border := lipgloss.Color("#4B5F8A")

	return Theme{
		Header: lipgloss.NewStyle().
			Background(ink).
			Foreground(powder).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Background(slate).
			Foreground(powder).
			Padding(0, 1),
		Tab:         lipgloss.NewStyle().Foreground(lipgloss.Color("#9CAAC6")).Padding(0, 1),
		TabActive:   lipgloss.NewStyle().Foreground(ink).Background(blue).Bold(true).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(blue).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(border),
		PanelBody:   lipgloss.NewStyle().Foreground(powder),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(1, 2),
		Accent:  lipgloss.NewStyle().Foreground(blue).Bold(true),
		Pass:    lipgloss.NewStyle().Foreground(lipgloss.Color("#67F0A8")).Bold(true),
		Fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6F91")).Bold(true),
		Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC857")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#9CAAC6")),
		Cells:   paletteCells(),
		Ghosts:  paletteGhosts(),
	}
}

func retroTerminalTheme() Theme {
	lime := lipgloss.Color("#9CF5A2")
	amber := lipgloss.Color("#E5D47A")
	deep := lipgloss.Color("#07150A")
	forest := lipgloss.Color("#12301A")
	glow := lipgloss.Color("#C5F7C4")

	return Theme{
		Header:      lipgloss.NewStyle().Background(deep).Foreground(glow).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(forest).Foreground(glow).Padding(0, 1),
		Tab:         lipgloss.NewStyle().Foreground(lipgloss.Color("#73A17A")).Padding(0, 1),
		TabActive:   lipgloss.NewStyle().Foreground(deep).Background(amber).Bold(true).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(amber).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(forest),
		PanelBody:   lipgloss.NewStyle().Foreground(glow),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(amber).
			Padding(1, 2),
		Accent:  lipgloss.NewStyle().Foreground(lime).Bold(true),
		Pass:    lipgloss.NewStyle().Foreground(lime).Bold(true),
		Fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		Pending: lipgloss.NewStyle().Foreground(amber),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#73A17A")),
		Cells:   paletteCells(),
		Ghosts:  paletteGhosts(),
	}
}

func normalizeStyleVariant(v string) string {
	switch v {
	case "studio", "retro_terminal":
		return v
	default:
		return "studio"
	}
}
