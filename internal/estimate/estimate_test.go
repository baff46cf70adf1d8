package estimate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prajwal-Prathiksh/power-monitor/internal/config"
	"github.com/Prajwal-Prathiksh/power-monitor/internal/logfile"
	"github.com/Prajwal-Prathiksh/power-monitor/internal/power"
)

type fakeProvider struct {
	snap power.Snapshot
	err  error
}

func (f fakeProvider) Name() string { return "fake" }

func (f fakeProvider) Snapshot(context.Context) (power.Snapshot, error) {
	return f.snap, f.err
}

type fakeCapacity struct {
	mah float64
	err error
}

func (f fakeCapacity) DesignCapacity(context.Context) (float64, error) {
	return f.mah, f.err
}

type memorySink struct {
	lines []string
	err   error
}

func (s *memorySink) Append(line string) error {
	s.lines = append(s.lines, line)
	return s.err
}

func defaultParams() Params {
	return ParamsFromConfig(config.Defaults())
}

var fixedNow = time.Date(2024, 5, 1, 9, 30, 15, 0, time.Local)

func newEstimator(p power.Provider, c power.CapacityResolver, sink Sink) *Estimator {
	return New(p, c, sink, defaultParams(), WithClock(func() time.Time { return fixedNow }))
}

var noCapacity = fakeCapacity{err: power.ErrCapacityUnavailable}

func TestChargingScenario(t *testing.T) {
	sink := &memorySink{}
	e := newEstimator(fakeProvider{snap: power.Snapshot{Percent: 50, Plugged: true, SecondsLeft: power.SecsUnlimited}}, noCapacity, sink)

	rec := e.Estimate(context.Background())
	assert.Equal(t, StatusConnected, rec.Status)
	assert.Equal(t, "50.0%", rec.Percent)
	assert.Equal(t, "4000 mAh", rec.Capacity)
	assert.Equal(t, "4.33 A", rec.Current)
	assert.Equal(t, NotAvailable, rec.Discharge)
	assert.Equal(t, "27 minutes", rec.TimeToFull)
	assert.Equal(t,
		"Charging at 4.33 A. Time to full: 27 minutes. Battery health: Good. Original capacity: 4000 mAh.",
		rec.Analysis)
	assert.Equal(t, fixedNow, rec.Timestamp)

	require.Len(t, sink.lines, 1)
	assert.Equal(t, "2024-05-01 09:30:15 - "+rec.Analysis, sink.lines[0])
}

func TestDischargingScenario(t *testing.T) {
	e := newEstimator(fakeProvider{snap: power.Snapshot{Percent: 10, SecondsLeft: 3600}}, noCapacity, nil)

	rec := e.Estimate(context.Background())
	assert.Equal(t, StatusDisconnected, rec.Status)
	assert.Equal(t, "10.0%", rec.Percent)
	assert.Equal(t, "0.00 A", rec.Current)
	assert.Equal(t, "0.40 A", rec.Discharge)
	assert.Equal(t, NotAvailable, rec.TimeToFull)
	assert.Equal(t,
		"Charger disconnected. Discharge current: 0.40 A. Estimated time remaining: 60 minutes. Battery health: Poor. Original capacity: 4000 mAh.",
		rec.Analysis)
}

func TestNoBatteryScenario(t *testing.T) {
	sink := &memorySink{}
	e := newEstimator(fakeProvider{err: power.ErrNoBattery}, noCapacity, sink)

	rec := e.Estimate(context.Background())
	assert.Equal(t, StatusUnknown, rec.Status)
	for _, f := range []string{rec.Percent, rec.Capacity, rec.Current, rec.Discharge, rec.TimeToFull} {
		assert.Equal(t, NotAvailable, f)
	}
	assert.Equal(t, "No battery detected.", rec.Analysis)
	require.Len(t, sink.lines, 1)
	assert.Equal(t, "2024-05-01 09:30:15 - No battery detected.", sink.lines[0])
}

func TestReadErrorScenario(t *testing.T) {
	e := newEstimator(fakeProvider{err: errors.New("acpi exploded")}, noCapacity, nil)

	rec := e.Estimate(context.Background())
	assert.Equal(t, StatusError, rec.Status)
	assert.Equal(t, NotAvailable, rec.Percent)
	assert.Equal(t, "Error accessing battery data: acpi exploded", rec.Analysis)
}

func TestSinkFailureDoesNotAbort(t *testing.T) {
	sink := &memorySink{err: errors.New("disk full")}
	e := newEstimator(fakeProvider{snap: power.Snapshot{Percent: 80, Plugged: true}}, noCapacity, sink)

	rec := e.Estimate(context.Background())
	assert.Equal(t, StatusConnected, rec.Status)
	assert.Len(t, sink.lines, 1)
}

func TestDesignCapacityUsedWhenAvailable(t *testing.T) {
	e := newEstimator(fakeProvider{snap: power.Snapshot{Percent: 0, Plugged: true}}, fakeCapacity{mah: 6000}, nil)
	rec := e.Estimate(context.Background())
	assert.Equal(t, "6000 mAh", rec.Capacity)
	// 6000 / 4333.33 * 60 = 83.07
	assert.Equal(t, "83 minutes", rec.TimeToFull)

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		e = newEstimator(fakeProvider{snap: power.Snapshot{Percent: 0, Plugged: true}}, fakeCapacity{mah: bad}, nil)
		assert.Equal(t, "4000 mAh", e.Estimate(context.Background()).Capacity)
	}

	e = New(fakeProvider{snap: power.Snapshot{Percent: 0, Plugged: true}}, nil, nil, defaultParams())
	assert.Equal(t, "4000 mAh", e.Estimate(context.Background()).Capacity)
}

func TestChargingCurrentIsConstant(t *testing.T) {
	p := defaultParams()
	assert.InDelta(t, 4333.33, p.ChargingCurrentMA(), 0.01)

	for pct := 0.0; pct <= 100; pct += 7 {
		e := newEstimator(fakeProvider{snap: power.Snapshot{Percent: pct, Plugged: true}}, noCapacity, nil)
		assert.Equal(t, "4.33 A", e.Estimate(context.Background()).Current)
	}
}

func TestChargingTimeDecreasesWithPercent(t *testing.T) {
	prev := math.MaxInt
	for pct := 0.0; pct <= 100; pct += 10 {
		e := newEstimator(fakeProvider{snap: power.Snapshot{Percent: pct, Plugged: true}}, noCapacity, nil)
		rec := e.Estimate(context.Background())
		var minutes int
		_, err := fmt.Sscanf(rec.TimeToFull, "%d minutes", &minutes)
		require.NoError(t, err)
		assert.Less(t, minutes, prev, "percent %v", pct)
		prev = minutes
	}
	assert.Equal(t, 0, prev)
}

func TestChargingTimeUnknownWithoutCurrent(t *testing.T) {
	params := defaultParams()
	params.ChargerWatts = 0
	e := New(fakeProvider{snap: power.Snapshot{Percent: 40, Plugged: true}}, noCapacity, nil, params)
	rec := e.Estimate(context.Background())
	assert.Equal(t, "Unknown", rec.TimeToFull)
	assert.Equal(t, "0.00 A", rec.Current)
}

func TestDischargeSentinels(t *testing.T) {
	for _, left := range []power.SecondsLeft{power.SecsUnknown, power.SecsUnlimited, 0} {
		e := newEstimator(fakeProvider{snap: power.Snapshot{Percent: 70, SecondsLeft: left}}, noCapacity, nil)
		rec := e.Estimate(context.Background())
		assert.Equal(t, NotAvailable, rec.Discharge, "seconds left %d", left)
		assert.Contains(t, rec.Analysis, "Estimated time remaining: N/A minutes.")
		assert.Contains(t, rec.Analysis, "Battery health: Good.")
	}
}

func TestDischargePositiveWhenCharged(t *testing.T) {
	e := newEstimator(fakeProvider{snap: power.Snapshot{Percent: 75, SecondsLeft: 9000}}, noCapacity, nil)
	rec := e.Estimate(context.Background())
	// 3000 mAh over 2.5 h
	assert.Equal(t, "1.20 A", rec.Discharge)
}

func TestPercentIsClamped(t *testing.T) {
	e := newEstimator(fakeProvider{snap: power.Snapshot{Percent: 104.2, Plugged: true}}, noCapacity, nil)
	rec := e.Estimate(context.Background())
	assert.Equal(t, "100.0%", rec.Percent)
	assert.Equal(t, "0 minutes", rec.TimeToFull)

	e = newEstimator(fakeProvider{snap: power.Snapshot{Percent: -3, SecondsLeft: 60}}, noCapacity, nil)
	rec = e.Estimate(context.Background())
	assert.Equal(t, "0.0%", rec.Percent)
	assert.Equal(t, "0.00 A", rec.Discharge)
}

func TestHealthBoundary(t *testing.T) {
	p := defaultParams()
	assert.Equal(t, "Poor", p.Health(20))
	assert.Equal(t, "Good", p.Health(20.1))
}

func TestEstimateWritesHistoryFile(t *testing.T) {
	w := &logfile.Writer{Path: filepath.Join(t.TempDir(), "analysis_history.log")}
	e := newEstimator(fakeProvider{err: power.ErrNoBattery}, noCapacity, w)
	for i := 0; i < 7; i++ {
		e.Estimate(context.Background())
	}
	lines, err := w.Tail(5)
	require.NoError(t, err)
	assert.Len(t, lines, 5)
	assert.Equal(t, "2024-05-01 09:30:15 - No battery detected.", lines[4])
}
