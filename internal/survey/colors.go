package survey

const (
	minColors    = 2
	maxColors    = 5
	defaultColor = "#000000"
)

// NormalizeColors clamps count into [2,5] and resizes colors to match,
// padding new slots with black. Existing selections are preserved.
func NormalizeColors(count int, colors []string) (int, []string) {
	if count < minColors {
		count = minColors
	}
	if count > maxColors {
		count = maxColors
	}
	out := make([]string, count)
	for i := range out {
		if i < len(colors) && colors[i] != "" {
			out[i] = colors[i]
		} else {
			out[i] = defaultColor
		}
	}
	return count, out
}

// BuildAnswers assembles the survey answer map in submission shape. The
// color theme answer is a plain list of hex strings; the count is implied
// by its length, which is what the API expects.
func BuildAnswers(raw map[string]any, colorCount int, colors []string) map[string]any {
	answers := make(map[string]any, len(raw)+1)
	for k, v := range raw {
		answers[k] = v
	}
	_, cs := NormalizeColors(colorCount, colors)
	answers["color_theme"] = cs
	return answers
}
