package power

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"github.com/yusufpapurcu/wmi"
)

// Minimal WMI model for Win32_Battery. DesignCapacity is in mWh.
type win32Battery struct {
	DesignCapacity uint32
}

// WMICapacity queries Win32_Battery and converts mWh to mAh with Volts.
type WMICapacity struct {
	Volts float64
}

func (c WMICapacity) DesignCapacity(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var dst []win32Battery
	if err := wmi.Query("SELECT DesignCapacity FROM Win32_Battery", &dst); err != nil {
		return 0, pkgerrors.Wrap(err, "wmi Win32_Battery query")
	}
	for _, b := range dst {
		if b.DesignCapacity > 0 {
			return designMAh(float64(b.DesignCapacity), 0, c.Volts)
		}
	}
	return 0, ErrCapacityUnavailable
}
