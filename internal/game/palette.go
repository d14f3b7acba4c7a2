package game

// PaletteColor is a selectable cannon color: the name players pick by and
// the hex the renderers draw with.
type PaletteColor struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Palette is the full list of cannon colors.
var Palette = []PaletteColor{
	{Name: "blue", Hex: "#3399ff"},
	{Name: "red", Hex: "#ff3333"},
	{Name: "green", Hex: "#33cc33"},
	{Name: "gold", Hex: "#ffcc00"},
	{Name: "purple", Hex: "#aa44ff"},
	{Name: "orange", Hex: "#ff8833"},
	{Name: "white", Hex: "#f0f0f0"},
}

// PaletteMap provides O(1) lookup by color name.
var PaletteMap map[string]PaletteColor

func init() {
	PaletteMap = make(map[string]PaletteColor, len(Palette))
	for _, c := range Palette {
		PaletteMap[c.Name] = c
	}
}
