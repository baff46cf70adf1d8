// Package power exposes the host battery as a small capability: a snapshot
// reader and an optional design-capacity query, each with platform variants
// chosen once at startup.
package power

import (
	"context"
	"errors"
)

var (
	ErrNoBattery = errors.New("no battery detected")

	ErrCapacityUnavailable = errors.New("design capacity unavailable")
)

// SecondsLeft is the remaining runtime reported by the OS. Negative values
// are sentinels and never a countdown.
type SecondsLeft int64

const (
	SecsUnlimited SecondsLeft = -1
	SecsUnknown   SecondsLeft = -2
)

// Known reports whether s is a real countdown rather than a sentinel.
func (s SecondsLeft) Known() bool {
	return s >= 0
}

// Snapshot is one battery reading. Percent is passed through as reported.
type Snapshot struct {
	Percent     float64
	Plugged     bool
	SecondsLeft SecondsLeft
}

type Provider interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Name() string
}

// CapacityResolver returns the battery design capacity in mAh.
type CapacityResolver interface {
	DesignCapacity(ctx context.Context) (float64, error)
}
