package power

import (
	"context"

	"github.com/Prajwal-Prathiksh/power-monitor/internal/sysfs"
)

// SysfsProvider reads the Linux power_supply class directly.
type SysfsProvider struct {
	Supply sysfs.PowerSupply
}

func (SysfsProvider) Name() string { return "sysfs" }

func (p SysfsProvider) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	if !p.Supply.HasBattery() {
		return Snapshot{}, ErrNoBattery
	}
	pct, ok := p.Supply.BatteryPercent()
	if !ok {
		return Snapshot{}, ErrNoBattery
	}

	s := Snapshot{
		Percent:     pct,
		Plugged:     p.Supply.ACOnline(),
		SecondsLeft: SecsUnknown,
	}
	if s.Plugged {
		s.SecondsLeft = SecsUnlimited
	} else if secs, ok := p.Supply.SecondsLeft(); ok {
		s.SecondsLeft = SecondsLeft(secs)
	}
	return s, nil
}

type SysfsCapacity struct {
	Supply sysfs.PowerSupply
}

func (c SysfsCapacity) DesignCapacity(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	mah, ok := c.Supply.DesignCapacityMAh()
	if !ok {
		return 0, ErrCapacityUnavailable
	}
	return mah, nil
}
