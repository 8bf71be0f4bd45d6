package render

// Font stacks are written without quotes so they survive attribute escaping
var fontStacks = map[string]string{
	"MODERN_SANS":    "Helvetica Neue, Arial Nova, Nimbus Sans, Arial, sans-serif",
	"BOOK_SANS":      "Optima, Candara, Noto Sans, source-sans-pro, sans-serif",
	"ORGANIC_SANS":   "Seravek, Gill Sans Nova, Ubuntu, Calibri, DejaVu Sans, source-sans-pro, sans-serif",
	"GEOMETRIC_SANS": "Avenir, Avenir Next LT Pro, Montserrat, Corbel, URW Gothic, source-sans-pro, sans-serif",
	"HEAVY_SANS":     "Bahnschrift, DIN Alternate, Franklin Gothic Medium, Nimbus Sans Narrow, sans-serif-condensed, sans-serif",
	"ROUNDED_SANS":   "ui-rounded, Hiragino Maru Gothic ProN, Quicksand, Comfortaa, Manjari, Arial Rounded MT Bold, Calibri, source-sans-pro, sans-serif",
	"MODERN_SERIF":   "Charter, Bitstream Charter, Sitka Text, Cambria, serif",
	"BOOK_SERIF":     "Iowan Old Style, Palatino Linotype, URW Palladio L, P052, serif",
	"MONOSPACE":      "Nimbus Mono PS, Courier New, Cutive Mono, monospace",
}

// FontStack resolves a font family preset to a CSS font stack. Anything that
// is not a preset is returned unchanged.
func FontStack(family string) string {
	if stack, ok := fontStacks[family]; ok {
		return stack
	}
	return family
}
