// Package sampler drives the periodic estimate/record/redraw cycle. It only
// talks to small interfaces so the terminal UI and tests can plug in.
package sampler

import (
	"context"
	"errors"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Prajwal-Prathiksh/power-monitor/internal/estimate"
)

const (
	historyHeader = "History Log:"
	noHistoryText = "History Log: No data yet."
)

type Estimator interface {
	Estimate(ctx context.Context) estimate.Record
}

// Chart receives stacked bars: level is drawn from 0, used on top of it.
type Chart interface {
	Clear()
	AddBar(x int, level, used float64)
	SetLimits(xMin, xMax, yMin, yMax float64)
}

type Display interface {
	ShowRecord(rec estimate.Record)
	ShowHistory(text string)
}

type History interface {
	Tail(n int) ([]string, error)
}

type Sampler struct {
	est          Estimator
	chart        Chart
	display      Display
	history      History
	window       *Window
	historyLines int
	now          func() time.Time
}

func New(est Estimator, chart Chart, display Display, history History, windowSize, historyLines int) *Sampler {
	return &Sampler{
		est:          est,
		chart:        chart,
		display:      display,
		history:      history,
		window:       NewWindow(windowSize),
		historyLines: historyLines,
		now:          time.Now,
	}
}

// Tick runs one full cycle. It has no failure mode of its own.
func (s *Sampler) Tick(ctx context.Context) {
	rec := s.est.Estimate(ctx)
	s.display.ShowRecord(rec)

	percent := ParsePercent(rec.Percent)
	if s.window.Push(s.now(), percent) {
		// Redraw from scratch so bars shift left by one slot.
		s.chart.Clear()
		for x, smp := range s.window.Samples() {
			level, used := Split(smp.Percent)
			s.chart.AddBar(x, level, used)
		}
	} else {
		level, used := Split(percent)
		s.chart.AddBar(s.window.Len()-1, level, used)
	}
	s.chart.SetLimits(-1, float64(s.window.Size()), 0, 100)

	s.display.ShowHistory(s.historyText())
}

func (s *Sampler) historyText() string {
	lines, err := s.history.Tail(s.historyLines)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logrus.WithError(err).Warn("read analysis history")
		}
		return noHistoryText
	}
	if len(lines) == 0 {
		return noHistoryText
	}
	return historyHeader + "\n" + strings.Join(lines, "\n")
}

// Run ticks immediately and then once per period after the previous tick
// finished, so ticks never overlap. A receive on refresh ticks early.
// Run returns when ctx is done.
func (s *Sampler) Run(ctx context.Context, period time.Duration, refresh <-chan struct{}) {
	s.Tick(ctx)

	timer := time.NewTimer(period)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-refresh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
		s.Tick(ctx)
		if ctx.Err() != nil {
			return
		}
		timer.Reset(period)
	}
}

// ParsePercent reads a "57.0%" display string. Anything else reads as 0.
func ParsePercent(s string) float64 {
	if !strings.Contains(s, "%") {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%")), 64)
	if err != nil {
		return 0
	}
	level, _ := Split(v)
	return level
}

// Split clamps percent to [0, 100] and returns it with its complement.
func Split(percent float64) (level, used float64) {
	switch {
	case math.IsNaN(percent), percent < 0:
		level = 0
	case percent > 100:
		level = 100
	default:
		level = percent
	}
	return level, 100 - level
}
