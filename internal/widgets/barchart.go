// Package widgets provides custom chart widgets with enhanced functionality
package widgets

import (
	"fmt"
	"image"
	"math"
	"sort"
	"sync"

	"github.com/mum4k/termdash/cell"
	"github.com/mum4k/termdash/private/canvas"
	"github.com/mum4k/termdash/private/draw"
	"github.com/mum4k/termdash/terminal/terminalapi"
	"github.com/mum4k/termdash/widgetapi"
)

// Bar is one stacked column: Level is drawn from the bottom, Used on top of it.
type Bar struct {
	X     int
	Level float64
	Used  float64
}

// StackedBarChart draws two-segment bars in fixed slots with a legend and
// labelled axes. It is safe for concurrent use; termdash draws from its own
// goroutine while the sampler feeds bars.
type StackedBarChart struct {
	mu   sync.Mutex
	bars map[int]Bar

	xMin, xMax float64
	yMin, yMax float64

	title  string
	xLabel string
	yLabel string

	levelName  string
	usedName   string
	levelColor cell.Color
	usedColor  cell.Color
	textColor  cell.Color
	axisColor  cell.Color
}

// StackedBarOption is used to configure the StackedBarChart
type StackedBarOption interface {
	setStacked(*StackedBarChart)
}

type stackedBarOption func(*StackedBarChart)

func (o stackedBarOption) setStacked(bc *StackedBarChart) {
	o(bc)
}

// NewStackedBarChart creates a chart with a 0..100 y range and no bars.
func NewStackedBarChart(opts ...StackedBarOption) *StackedBarChart {
	bc := &StackedBarChart{
		bars:       map[int]Bar{},
		xMin:       -1,
		xMax:       60,
		yMin:       0,
		yMax:       100,
		levelName:  "Level",
		usedName:   "Used",
		levelColor: cell.ColorBlue,
		usedColor:  cell.ColorRed,
		textColor:  cell.ColorWhite,
		axisColor:  cell.ColorCyan,
	}

	for _, opt := range opts {
		opt.setStacked(bc)
	}

	return bc
}

// ChartTitle sets the line drawn above the legend.
func ChartTitle(title string) StackedBarOption {
	return stackedBarOption(func(bc *StackedBarChart) {
		bc.title = title
	})
}

// AxisLabels sets the captions of both axes.
func AxisLabels(x, y string) StackedBarOption {
	return stackedBarOption(func(bc *StackedBarChart) {
		bc.xLabel = x
		bc.yLabel = y
	})
}

// SeriesStyle names and colors the two bar segments.
func SeriesStyle(levelName string, levelColor cell.Color, usedName string, usedColor cell.Color) StackedBarOption {
	return stackedBarOption(func(bc *StackedBarChart) {
		bc.levelName = levelName
		bc.levelColor = levelColor
		bc.usedName = usedName
		bc.usedColor = usedColor
	})
}

// TextColor sets the color of the title, legend text and axis captions.
func TextColor(c cell.Color) StackedBarOption {
	return stackedBarOption(func(bc *StackedBarChart) {
		bc.textColor = c
	})
}

// Clear removes every bar.
func (bc *StackedBarChart) Clear() {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.bars = map[int]Bar{}
}

// AddBar places a bar in slot x, replacing whatever was there.
func (bc *StackedBarChart) AddBar(x int, level, used float64) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.bars[x] = Bar{X: x, Level: level, Used: used}
}

// SetLimits sets the visible data range. Degenerate ranges are ignored.
func (bc *StackedBarChart) SetLimits(xMin, xMax, yMin, yMax float64) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if xMax > xMin {
		bc.xMin, bc.xMax = xMin, xMax
	}
	if yMax > yMin {
		bc.yMin, bc.yMax = yMin, yMax
	}
}

func (bc *StackedBarChart) sortedBars() []Bar {
	out := make([]Bar, 0, len(bc.bars))
	for _, b := range bc.bars {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].X < out[j].X })
	return out
}

// Draw implements widgetapi.Widget.Draw
func (bc *StackedBarChart) Draw(cvs *canvas.Canvas, meta *widgetapi.Meta) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	area := cvs.Area()
	if area.Dx() < 20 || area.Dy() < 8 {
		return draw.ResizeNeeded(cvs)
	}

	if err := cvs.Clear(); err != nil {
		return err
	}

	// Rows: title, legend, y caption, plot, x axis, x ticks, x caption.
	plotArea := image.Rect(
		area.Min.X+5,
		area.Min.Y+3,
		area.Max.X-1,
		area.Max.Y-3,
	)
	if plotArea.Dx() < 5 || plotArea.Dy() < 2 {
		return draw.ResizeNeeded(cvs)
	}

	bc.drawHeader(cvs, area)

	if err := bc.drawAxes(cvs, plotArea); err != nil {
		return err
	}
	bc.drawYLabels(cvs, plotArea)
	bc.drawXLabels(cvs, area, plotArea)

	for _, b := range bc.sortedBars() {
		bc.drawBar(cvs, plotArea, b)
	}
	return nil
}

func (bc *StackedBarChart) drawHeader(cvs *canvas.Canvas, area image.Rectangle) {
	if bc.title != "" {
		x := area.Min.X + (area.Dx()-len(bc.title))/2
		if x < area.Min.X {
			x = area.Min.X
		}
		draw.Text(cvs, bc.title, image.Point{x, area.Min.Y},
			draw.TextCellOpts(cell.FgColor(bc.textColor), cell.Bold()),
			draw.TextOverrunMode(draw.OverrunModeTrim),
			draw.TextMaxX(area.Max.X))
	}

	// Legend, right aligned like a plot legend box.
	legend := []struct {
		name  string
		color cell.Color
	}{
		{bc.levelName, bc.levelColor},
		{bc.usedName, bc.usedColor},
	}
	width := 0
	for _, l := range legend {
		width += len(l.name) + 4
	}
	x := area.Max.X - width
	if x < area.Min.X {
		x = area.Min.X
	}
	y := area.Min.Y + 1
	for _, l := range legend {
		if x >= area.Max.X {
			break
		}
		cvs.SetCell(image.Point{x, y}, '█', cell.FgColor(l.color))
		draw.Text(cvs, l.name, image.Point{x + 2, y},
			draw.TextCellOpts(cell.FgColor(bc.textColor)),
			draw.TextOverrunMode(draw.OverrunModeTrim),
			draw.TextMaxX(area.Max.X))
		x += len(l.name) + 4
	}

	if bc.yLabel != "" {
		draw.Text(cvs, bc.yLabel, image.Point{area.Min.X, area.Min.Y + 2},
			draw.TextCellOpts(cell.FgColor(bc.axisColor)),
			draw.TextOverrunMode(draw.OverrunModeTrim),
			draw.TextMaxX(area.Max.X))
	}
}

func (bc *StackedBarChart) drawAxes(cvs *canvas.Canvas, plotArea image.Rectangle) error {
	lines := []draw.HVLine{
		{
			Start: image.Point{plotArea.Min.X - 1, plotArea.Min.Y},
			End:   image.Point{plotArea.Min.X - 1, plotArea.Max.Y},
		},
		{
			Start: image.Point{plotArea.Min.X - 1, plotArea.Max.Y},
			End:   image.Point{plotArea.Max.X - 1, plotArea.Max.Y},
		},
	}
	return draw.HVLines(cvs, lines, draw.HVLineCellOpts(cell.FgColor(bc.axisColor)))
}

func (bc *StackedBarChart) drawYLabels(cvs *canvas.Canvas, plotArea image.Rectangle) {
	height := plotArea.Dy()
	for _, frac := range []float64{0, 0.5, 1} {
		value := bc.yMin + (bc.yMax-bc.yMin)*frac
		label := fmt.Sprintf("%.0f", value)
		y := plotArea.Max.Y - 1 - int(math.Round(frac*float64(height-1)))
		pos := image.Point{plotArea.Min.X - len(label) - 1, y}
		if pos.X >= 0 {
			draw.Text(cvs, label, pos, draw.TextCellOpts(cell.FgColor(bc.axisColor)))
		}
	}
}

func (bc *StackedBarChart) drawXLabels(cvs *canvas.Canvas, area, plotArea image.Rectangle) {
	width := plotArea.Dx()
	for _, v := range xTicks(bc.xMin, bc.xMax, width) {
		label := fmt.Sprintf("%d", v)
		x := plotArea.Min.X + scaleX(float64(v), bc.xMin, bc.xMax, width) - len(label)/2
		if x < area.Min.X || x+len(label) > area.Max.X {
			continue
		}
		draw.Text(cvs, label, image.Point{x, plotArea.Max.Y + 1}, draw.TextCellOpts(cell.FgColor(bc.axisColor)))
	}

	if bc.xLabel != "" {
		x := plotArea.Min.X + (width-len(bc.xLabel))/2
		if x < area.Min.X {
			x = area.Min.X
		}
		draw.Text(cvs, bc.xLabel, image.Point{x, area.Max.Y - 1},
			draw.TextCellOpts(cell.FgColor(bc.axisColor)),
			draw.TextOverrunMode(draw.OverrunModeTrim),
			draw.TextMaxX(area.Max.X))
	}
}

func (bc *StackedBarChart) drawBar(cvs *canvas.Canvas, plotArea image.Rectangle, b Bar) {
	width := plotArea.Dx()
	if float64(b.X) < bc.xMin || float64(b.X) > bc.xMax {
		return
	}
	start := plotArea.Min.X + scaleX(float64(b.X)-0.4, bc.xMin, bc.xMax, width)
	end := plotArea.Min.X + scaleX(float64(b.X)+0.4, bc.xMin, bc.xMax, width)
	if end < start {
		end = start
	}

	levelRows, usedRows := stackHeights(b.Level, b.Used, bc.yMin, bc.yMax, plotArea.Dy())
	bottom := plotArea.Max.Y - 1
	for x := start; x <= end && x < plotArea.Max.X; x++ {
		for i := 0; i < levelRows; i++ {
			cvs.SetCell(image.Point{x, bottom - i}, '█', cell.FgColor(bc.levelColor))
		}
		for i := levelRows; i < levelRows+usedRows; i++ {
			cvs.SetCell(image.Point{x, bottom - i}, '█', cell.FgColor(bc.usedColor))
		}
	}
}

// Keyboard implements widgetapi.Widget.Keyboard (no keyboard interaction needed)
func (bc *StackedBarChart) Keyboard(k *terminalapi.Keyboard, meta *widgetapi.EventMeta) error {
	return nil
}

// Mouse implements widgetapi.Widget.Mouse (no mouse interaction needed)
func (bc *StackedBarChart) Mouse(m *terminalapi.Mouse, meta *widgetapi.EventMeta) error {
	return nil
}

// Options implements widgetapi.Widget.Options
func (bc *StackedBarChart) Options() widgetapi.Options {
	return widgetapi.Options{
		WantKeyboard: widgetapi.KeyScopeNone,
		WantMouse:    widgetapi.MouseScopeNone,
		MinimumSize:  image.Point{20, 8},
	}
}

// scaleX maps v in [min, max] onto a column offset in [0, width).
func scaleX(v, min, max float64, width int) int {
	if width <= 0 || max <= min {
		return 0
	}
	col := int(math.Round((v - min) / (max - min) * float64(width-1)))
	if col < 0 {
		return 0
	}
	if col >= width {
		return width - 1
	}
	return col
}

// stackHeights converts a bar's two segments into whole rows. The total is
// rounded once so the stacked bar never exceeds height.
func stackHeights(level, used, yMin, yMax float64, height int) (levelRows, usedRows int) {
	if height <= 0 || yMax <= yMin {
		return 0, 0
	}
	rows := func(v float64) int {
		r := int(math.Round((v - yMin) / (yMax - yMin) * float64(height)))
		if r < 0 {
			return 0
		}
		if r > height {
			return height
		}
		return r
	}
	levelRows = rows(level)
	total := rows(level + used)
	if total < levelRows {
		total = levelRows
	}
	return levelRows, total - levelRows
}

// xTicks picks integer tick values in [ceil(min), floor(max)) spaced so that
// labels do not collide in width columns.
func xTicks(min, max float64, width int) []int {
	if max <= min || width <= 0 {
		return nil
	}
	step := 10
	for step < int(max-min) && float64(width)/(max-min)*float64(step) < 4 {
		step *= 2
	}
	var out []int
	for v := int(math.Ceil(min)); float64(v) < max; v++ {
		if v >= 0 && v%step == 0 {
			out = append(out, v)
		}
	}
	return out
}
