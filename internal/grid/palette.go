package grid

// Color is one fixed palette entry. Puzzle data encodes meaning only via
// the index, so the order here is part of the document contract.
type Color struct {
	Index int
	Name  string
	Hex   string
}

var Palette = [MaxColor + 1]Color{
	{0, "black", "#000000"},
	{1, "blue", "#0000ff"},
	{2, "red", "#ff0000"},
	{3, "green", "#00ff00"},
	{4, "yellow", "#ffff00"},
	{5, "grey", "#808080"},
	{6, "pink", "#ff69b4"},
	{7, "orange", "#ffa500"},
	{8, "cyan", "#00ffff"},
	{9, "brown", "#a52a2a"},
}

func ValidColor(v int) bool { return v >= 0 && v <= MaxColor }

// ColorAt returns the palette entry for v, falling back to black.
func ColorAt(v int) Color {
	if !ValidColor(v) {
		return Palette[0]
	}
	return Palette[v]
}
