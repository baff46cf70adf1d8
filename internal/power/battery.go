package power

import (
	"context"

	"github.com/distatus/battery"
	pkgerrors "github.com/pkg/errors"
)

// BatteryProvider reads the first battery through distatus/battery, which
// covers Linux, macOS, Windows and the BSDs.
type BatteryProvider struct{}

func (BatteryProvider) Name() string { return "battery" }

func (BatteryProvider) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	bat, err := firstBattery()
	if err != nil {
		return Snapshot{}, err
	}
	return snapshotFromBattery(bat)
}

func firstBattery() (*battery.Battery, error) {
	return pickBattery(battery.GetAll())
}

// pickBattery returns the first battery of a GetAll result. A partial read
// is usable unless it lost the fields a snapshot is computed from.
func pickBattery(batteries []*battery.Battery, err error) (*battery.Battery, error) {
	if err != nil {
		errs, partial := err.(battery.Errors)
		if !partial {
			return nil, pkgerrors.Wrap(err, "query batteries")
		}
		if len(errs) > 0 && errs[0] != nil {
			p, ok := errs[0].(battery.ErrPartial)
			if !ok {
				return nil, pkgerrors.Wrap(errs[0], "query battery 0")
			}
			switch {
			case p.Full != nil:
				return nil, pkgerrors.Wrap(p.Full, "read battery full capacity")
			case p.Current != nil:
				return nil, pkgerrors.Wrap(p.Current, "read battery charge")
			}
		}
	}
	if len(batteries) == 0 || batteries[0] == nil {
		return nil, ErrNoBattery
	}
	return batteries[0], nil
}

func snapshotFromBattery(bat *battery.Battery) (Snapshot, error) {
	if bat.Full <= 0 {
		// Ghost batteries with zero capacity show up on some Macs.
		return Snapshot{}, ErrNoBattery
	}

	// Only a discharging or empty battery means the charger is unplugged.
	// Linux reports "Not charging" (AC present, charge threshold reached)
	// as Unknown.
	discharging := bat.State == battery.Discharging || bat.State == battery.Empty
	s := Snapshot{
		Percent:     bat.Current / bat.Full * 100,
		Plugged:     !discharging,
		SecondsLeft: SecsUnknown,
	}
	switch {
	case s.Plugged:
		s.SecondsLeft = SecsUnlimited
	case bat.State == battery.Discharging && bat.ChargeRate > 0:
		s.SecondsLeft = SecondsLeft(bat.Current / bat.ChargeRate * 3600)
	}
	return s, nil
}

// BatteryCapacity converts the distatus design energy (mWh) to mAh using the
// reported design voltage, or Volts when the platform does not report one.
type BatteryCapacity struct {
	Volts float64
}

func (c BatteryCapacity) DesignCapacity(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	bat, err := firstBattery()
	if err != nil {
		return 0, err
	}
	return designMAh(bat.Design, bat.DesignVoltage, c.Volts)
}

func designMAh(designMWh, designVolts, fallbackVolts float64) (float64, error) {
	if designMWh <= 0 {
		return 0, ErrCapacityUnavailable
	}
	volts := designVolts
	if volts <= 0 {
		volts = fallbackVolts
	}
	if volts <= 0 {
		return 0, ErrCapacityUnavailable
	}
	return designMWh / volts, nil
}
