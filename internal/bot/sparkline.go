package bot

import "strings"

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a block-character chart. A flat series
// renders at mid height.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var b strings.Builder
	if max == min {
		for range values {
			b.WriteRune(sparkTicks[len(sparkTicks)/2])
		}
		return b.String()
	}

	span := max - min
	for _, v := range values {
		idx := int((v - min) / span * float64(len(sparkTicks)-1))
		b.WriteRune(sparkTicks[idx])
	}
	return b.String()
}
