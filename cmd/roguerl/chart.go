package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// writeChart renders per-episode shaped return and steps as an HTML page.
func writeChart(path string, results []episodeResult) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "episode returns",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	episodes := make([]string, 0, len(results))
	returns := make([]opts.LineData, 0, len(results))
	steps := make([]opts.LineData, 0, len(results))
	depths := make([]opts.LineData, 0, len(results))
	for _, r := range results {
		episodes = append(episodes, fmt.Sprintf("%d", r.episode))
		returns = append(returns, opts.LineData{Value: r.shaped})
		steps = append(steps, opts.LineData{Value: r.steps})
		depths = append(depths, opts.LineData{Value: r.depth})
	}
	line.SetXAxis(episodes).
		AddSeries("shaped return", returns).
		AddSeries("steps", steps).
		AddSeries("deepest level", depths)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(f)
}
