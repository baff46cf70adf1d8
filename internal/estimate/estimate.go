// Package estimate turns one battery snapshot into derived charge/discharge
// figures and a human-readable analysis line.
//
// Currents are not measured. While charging the current is the configured
// charger power over charger voltage; while discharging it is the remaining
// design capacity spread over the OS-reported runtime.
package estimate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Prajwal-Prathiksh/power-monitor/internal/config"
	"github.com/Prajwal-Prathiksh/power-monitor/internal/logfile"
	"github.com/Prajwal-Prathiksh/power-monitor/internal/power"
)

type Status string

const (
	StatusConnected    Status = "Connected"
	StatusDisconnected Status = "Disconnected"
	StatusUnknown      Status = "Unknown"
	StatusError        Status = "Error"
)

// NotAvailable fills every field that has no value for the current state.
const NotAvailable = "N/A"

const noBatteryText = "No battery detected."

// Record is the result of one estimation. All display strings are final.
type Record struct {
	Status     Status
	Percent    string
	Capacity   string
	Current    string
	Discharge  string
	TimeToFull string
	Analysis   string
	Timestamp  time.Time
}

// LogLine is the history line appended for r.
func (r Record) LogLine() string {
	return logfile.FormatLine(r.Timestamp, r.Analysis)
}

// Params are the assumed electrical constants.
type Params struct {
	FallbackCapacityMAh float64
	ChargerWatts        float64
	ChargerVolts        float64
	PoorHealthPercent   float64
}

func ParamsFromConfig(cfg config.Config) Params {
	return Params{
		FallbackCapacityMAh: cfg.FallbackCapacityMAh,
		ChargerWatts:        cfg.ChargerWatts,
		ChargerVolts:        cfg.ChargerVolts,
		PoorHealthPercent:   cfg.PoorHealthPercent,
	}
}

// ChargingCurrentMA is the assumed charge current in mA.
func (p Params) ChargingCurrentMA() float64 {
	if p.ChargerVolts <= 0 {
		return 0
	}
	return p.ChargerWatts / p.ChargerVolts * 1000
}

// Health labels a charge level.
func (p Params) Health(percent float64) string {
	if percent > p.PoorHealthPercent {
		return "Good"
	}
	return "Poor"
}

// Sink receives one history line per estimation.
type Sink interface {
	Append(line string) error
}

type Estimator struct {
	provider power.Provider
	capacity power.CapacityResolver
	sink     Sink
	params   Params
	now      func() time.Time
}

type Option func(*Estimator)

func WithClock(now func() time.Time) Option {
	return func(e *Estimator) { e.now = now }
}

// New builds an Estimator. A nil sink disables the history.
func New(provider power.Provider, capacity power.CapacityResolver, sink Sink, params Params, opts ...Option) *Estimator {
	e := &Estimator{
		provider: provider,
		capacity: capacity,
		sink:     sink,
		params:   params,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate never fails: faults are folded into the record's status and text.
// Every record is appended to the sink.
func (e *Estimator) Estimate(ctx context.Context) Record {
	rec := e.compute(ctx)
	rec.Timestamp = e.now()

	if e.sink != nil {
		if err := e.sink.Append(rec.LogLine()); err != nil {
			logrus.WithError(err).Warn("append analysis history")
		}
	}
	return rec
}

func (e *Estimator) compute(ctx context.Context) Record {
	snap, err := e.provider.Snapshot(ctx)
	switch {
	case errors.Is(err, power.ErrNoBattery):
		return unavailable(StatusUnknown, noBatteryText)
	case err != nil:
		logrus.WithError(err).Debug("battery snapshot failed")
		return unavailable(StatusError, fmt.Sprintf("Error accessing battery data: %v", err))
	}

	percent := clampPercent(snap.Percent)
	capacity := e.designCapacity(ctx)

	if snap.Plugged {
		return e.charging(percent, capacity)
	}
	return e.discharging(percent, capacity, snap.SecondsLeft)
}

func (e *Estimator) designCapacity(ctx context.Context) float64 {
	if e.capacity == nil {
		return e.params.FallbackCapacityMAh
	}
	mah, err := e.capacity.DesignCapacity(ctx)
	if err != nil || mah <= 0 || math.IsNaN(mah) || math.IsInf(mah, 0) {
		logrus.WithError(err).Debug("design capacity unavailable, using fallback")
		return e.params.FallbackCapacityMAh
	}
	return mah
}

func (e *Estimator) charging(percent, capacity float64) Record {
	currentMA := e.params.ChargingCurrentMA()
	remaining := capacity * (100 - percent) / 100

	timeStr := "Unknown"
	if currentMA > 0 {
		minutes := int(math.Floor(remaining / currentMA * 60))
		timeStr = fmt.Sprintf("%d minutes", minutes)
	}

	current := formatAmps(currentMA)
	return Record{
		Status:     StatusConnected,
		Percent:    formatPercent(percent),
		Capacity:   formatCapacity(capacity),
		Current:    current,
		Discharge:  NotAvailable,
		TimeToFull: timeStr,
		Analysis: fmt.Sprintf(
			"Charging at %s. Time to full: %s. Battery health: %s. Original capacity: %.0f mAh.",
			current, timeStr, e.params.Health(percent), capacity,
		),
	}
}

func (e *Estimator) discharging(percent, capacity float64, left power.SecondsLeft) Record {
	remaining := capacity * percent / 100

	discharge := NotAvailable
	minutesLeft := NotAvailable
	if left.Known() && left > 0 {
		hours := float64(left) / 3600
		discharge = formatAmps(remaining / hours)
		minutesLeft = fmt.Sprintf("%d", int64(left)/60)
	}

	return Record{
		Status:     StatusDisconnected,
		Percent:    formatPercent(percent),
		Capacity:   formatCapacity(capacity),
		Current:    formatAmps(0),
		Discharge:  discharge,
		TimeToFull: NotAvailable,
		Analysis: fmt.Sprintf(
			"Charger disconnected. Discharge current: %s. Estimated time remaining: %s minutes. Battery health: %s. Original capacity: %.0f mAh.",
			discharge, minutesLeft, e.params.Health(percent), capacity,
		),
	}
}

func unavailable(status Status, analysis string) Record {
	return Record{
		Status:     status,
		Percent:    NotAvailable,
		Capacity:   NotAvailable,
		Current:    NotAvailable,
		Discharge:  NotAvailable,
		TimeToFull: NotAvailable,
		Analysis:   analysis,
	}
}

// clampPercent pins OS readings to [0, 100]; NaN reads as 0.
func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func formatAmps(mA float64) string {
	return fmt.Sprintf("%.2f A", mA/1000)
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func formatCapacity(mAh float64) string {
	return fmt.Sprintf("%.0f mAh", mAh)
}
