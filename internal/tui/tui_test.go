package tui

import (
	"context"
	"testing"
	"time"

	"github.com/mum4k/termdash/cell"
	"github.com/mum4k/termdash/keyboard"
	"github.com/mum4k/termdash/terminal/terminalapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prajwal-Prathiksh/power-monitor/internal/estimate"
	"github.com/Prajwal-Prathiksh/power-monitor/internal/sampler"
)

var (
	_ sampler.Display = (*Panels)(nil)
	_ sampler.Chart   = CreateChartWidget(60)
)

func TestBuildFieldLines(t *testing.T) {
	rec := estimate.Record{
		Status:     estimate.StatusConnected,
		Percent:    "50.0%",
		Capacity:   "4000 mAh",
		Current:    "4.33 A",
		Discharge:  "N/A",
		TimeToFull: "27 minutes",
	}
	lines := BuildFieldLines(rec)
	require.Len(t, lines, 6)

	var texts []string
	for _, l := range lines {
		texts = append(texts, l.Text)
	}
	assert.Equal(t, []string{
		"Charger Status: Connected",
		"Battery Percentage: 50.0%",
		"Battery Capacity: 4000 mAh",
		"Charging Current: 4.33 A",
		"Discharge Current: N/A",
		"Time to Full: 27 minutes",
	}, texts)
	assert.True(t, lines[0].UseColor)
	assert.Equal(t, cell.ColorGreen, lines[0].Color)
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, cell.ColorYellow, StatusColor(estimate.StatusDisconnected))
	assert.Equal(t, cell.ColorRed, StatusColor(estimate.StatusUnknown))
	assert.Equal(t, cell.ColorRed, StatusColor(estimate.StatusError))
}

func TestBuildAnalysisLines(t *testing.T) {
	ok := BuildAnalysisLines(estimate.Record{Status: estimate.StatusConnected, Analysis: "Charging at 4.33 A."})
	require.Len(t, ok, 1)
	assert.Equal(t, "Analysis: Charging at 4.33 A.", ok[0].Text)
	assert.False(t, ok[0].UseColor)

	bad := BuildAnalysisLines(estimate.Record{Status: estimate.StatusUnknown, Analysis: "No battery detected."})
	assert.True(t, bad[0].UseColor)
}

func TestBuildHistoryLines(t *testing.T) {
	lines := BuildHistoryLines("History Log:\na\nb")
	require.Len(t, lines, 3)
	assert.Equal(t, "History Log:", lines[0].Text)
	assert.True(t, lines[0].UseColor)
	assert.Equal(t, "b", lines[2].Text)

	assert.Len(t, BuildHistoryLines("History Log: No data yet."), 1)
}

func TestSessionInfoConfigLine(t *testing.T) {
	assert.Equal(t, "Config: Using defaults (no config file found)", SessionInfo{}.ConfigLine())
	assert.Equal(t, "Config file: /etc/power-monitor/config.toml",
		SessionInfo{ConfigPaths: []string{"/etc/power-monitor/config.toml"}}.ConfigLine())
	assert.Equal(t, "Config files: b (+ 1 more)", SessionInfo{ConfigPaths: []string{"a", "b"}}.ConfigLine())
}

func TestSessionInfoFooterLines(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s := SessionInfo{Provider: "sysfs", LogPath: "/tmp/analysis_history.log", Started: start}
	lines := s.FooterLines(start.Add(90 * time.Second))
	assert.Equal(t, []string{
		"Source: sysfs",
		"Data file: /tmp/analysis_history.log",
		"Config: Using defaults (no config file found)",
		"Running for: 01m 30s",
	}, lines)

	assert.Len(t, SessionInfo{}.FooterLines(start), 3)

	withCycles := SessionInfo{HasCycles: true, CycleCount: 412}.FooterLines(start)
	assert.Contains(t, withCycles, "Battery Cycles: 412")
}

func TestFormatDurationAuto(t *testing.T) {
	assert.Equal(t, "00m 05s", FormatDurationAuto(5*time.Second))
	assert.Equal(t, "02h 15m", FormatDurationAuto(2*time.Hour+15*time.Minute))
	assert.Equal(t, "1d 3h", FormatDurationAuto(27*time.Hour))
}

func TestKeyboardHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	refresh := make(chan struct{}, 1)
	invalidated := 0
	handle := CreateKeyboardHandler(cancel, refresh, func() { invalidated++ })

	handle(&terminalapi.Keyboard{Key: 'r'})
	handle(&terminalapi.Keyboard{Key: 'R'})
	assert.Len(t, refresh, 1)
	assert.Equal(t, 2, invalidated)
	assert.NoError(t, ctx.Err())

	handle(&terminalapi.Keyboard{Key: keyboard.KeyTab})
	assert.NoError(t, ctx.Err())

	handle(&terminalapi.Keyboard{Key: 'q'})
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Equal(t, 2, invalidated)

	// No cache to invalidate.
	<-refresh
	CreateKeyboardHandler(cancel, refresh, nil)(&terminalapi.Keyboard{Key: 'r'})
	assert.Len(t, refresh, 1)
}

func TestPanelsShowRecord(t *testing.T) {
	p, err := NewPanels(SessionInfo{Provider: "fallback"})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		p.ShowRecord(estimate.Record{Status: estimate.StatusError, Analysis: "Error accessing battery data: boom"})
		p.ShowHistory("History Log: No data yet.")
	})

	var empty Panels
	assert.NotPanics(t, func() { empty.ShowHistory("History Log:\nx") })
}
