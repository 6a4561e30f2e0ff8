package stats

import "strings"

// Renderer holds the glyphs used for marked and unmarked buckets.
type Renderer struct {
	Inside  string
	Outside string
}

var (
	// DefaultRenderer draws with box glyphs.
	DefaultRenderer = Renderer{Inside: "■", Outside: "□"}

	// ASCIIRenderer is for terminals and logs that cannot show box glyphs.
	ASCIIRenderer = Renderer{Inside: "#", Outside: "."}
)

// RenderInterval renders iv with DefaultRenderer.
func RenderInterval(iv Interval, domainLow, domainHigh float64, resolution int) string {
	return DefaultRenderer.Render(iv, domainLow, domainHigh, resolution)
}

// Render splits [domainLow, domainHigh) into resolution equal buckets and
// marks a bucket when its lower edge lies in [iv.Low, iv.High). If no
// bucket has been marked yet, the first bucket whose upper edge passes
// iv.High is marked as well, so an interval narrower than a bucket still
// shows up. A resolution below 1 renders nothing.
func (r Renderer) Render(iv Interval, domainLow, domainHigh float64, resolution int) string {
	if resolution < 1 {
		return ""
	}

	step := (domainHigh - domainLow) / float64(resolution)
	var b strings.Builder
	marked := false
	for i := 0; i < resolution; i++ {
		lower := domainLow + float64(i)*step
		upper := lower + step
		if (lower >= iv.Low && lower < iv.High) || (!marked && upper > iv.High) {
			b.WriteString(r.Inside)
			marked = true
			continue
		}
		b.WriteString(r.Outside)
	}
	return b.String()
}
