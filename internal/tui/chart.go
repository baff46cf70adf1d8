package tui

import (
	"github.com/mum4k/termdash/cell"

	"github.com/Prajwal-Prathiksh/power-monitor/internal/widgets"
)

var (
	// #1E90FF and #FF4500.
	levelColor = cell.ColorRGB24(0x1E, 0x90, 0xFF)
	usedColor  = cell.ColorRGB24(0xFF, 0x45, 0x00)
)

// CreateChartWidget creates the stacked battery level chart. windowSize sets
// the initial x range so the axes are right before the first tick.
func CreateChartWidget(windowSize int) *widgets.StackedBarChart {
	bc := widgets.NewStackedBarChart(
		widgets.ChartTitle("Battery Level Analysis"),
		widgets.AxisLabels("Time (s)", "Percentage (%)"),
		widgets.SeriesStyle(
			"Current Battery Level", levelColor,
			"Used Battery Level", usedColor,
		),
	)
	bc.SetLimits(-1, float64(windowSize), 0, 100)
	return bc
}
