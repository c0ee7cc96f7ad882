package viz

import (
	"github.com/guptarohit/asciigraph"
)

// Plot renders one or more equally long series as an ascii chart.
func Plot(caption string, width, height int, series ...[]float64) string {
	if len(series) == 0 || len(series[0]) == 0 {
		return ""
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	}
	if len(series) == 1 {
		return asciigraph.Plot(series[0], opts...)
	}
	colors := []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Yellow, asciigraph.Magenta, asciigraph.Green}
	used := make([]asciigraph.AnsiColor, len(series))
	for i := range series {
		used[i] = colors[i%len(colors)]
	}
	opts = append(opts, asciigraph.SeriesColors(used...))
	return asciigraph.PlotMany(series, opts...)
}
