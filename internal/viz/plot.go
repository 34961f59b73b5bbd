package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gyroint/internal/dynamo"
)

// Plot charts the finite prefix of data. A run poisoned by NaN is cut at the
// first bad tick and the caption says so.
func Plot(data []float64, caption string, height, width int) string {
	series := dynamo.Series(data)
	if bad := series.FirstInvalid(); bad >= 0 {
		series = series[:bad]
		caption = fmt.Sprintf("%s (non-finite from tick %d)", caption, bad)
	}
	if len(series) == 0 {
		return caption + ": no finite data"
	}

	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Summary renders key/value metadata with metrics sorted by name.
func Summary(title string, fields [][2]string, metrics map[string]float64) string {
	var s strings.Builder
	s.WriteString(HeaderStyle.Render(title) + "\n")
	for _, f := range fields {
		s.WriteString(Field(f[0], f[1]) + "\n")
	}

	if len(metrics) > 0 {
		names := make([]string, 0, len(metrics))
		for name := range metrics {
			names = append(names, name)
		}
		sort.Strings(names)

		s.WriteString("\nmetrics\n")
		for _, name := range names {
			s.WriteString(Field("  "+name, fmt.Sprintf("%.6g", metrics[name])) + "\n")
		}
	}
	return PanelStyle.Render(strings.TrimRight(s.String(), "\n"))
}
