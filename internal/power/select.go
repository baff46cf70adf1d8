package power

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Prajwal-Prathiksh/power-monitor/internal/config"
	"github.com/Prajwal-Prathiksh/power-monitor/internal/sysfs"
)

// Select builds the provider and capacity resolver named by cfg.Provider.
// "auto" pairs the portable battery reader with the platform's own design
// capacity query (WMI on Windows, sysfs on Linux).
func Select(cfg config.Config) (Provider, CapacityResolver, error) {
	var (
		provider Provider
		capacity CapacityResolver
	)
	switch cfg.Provider {
	case "", "auto":
		provider, capacity = BatteryProvider{}, platformCapacity(cfg.BatteryVolts)
	case "battery":
		provider, capacity = BatteryProvider{}, BatteryCapacity{Volts: cfg.BatteryVolts}
	case "sysfs":
		provider, capacity = SysfsProvider{Supply: sysfs.Default}, SysfsCapacity{Supply: sysfs.Default}
	case "fallback":
		provider, capacity = BatteryProvider{}, FixedCapacity{MAh: cfg.FallbackCapacityMAh}
	default:
		return nil, nil, pkgerrors.Errorf("unknown provider %q", cfg.Provider)
	}

	if refresh := cfg.CapacityRefresh(); refresh > 0 {
		capacity = NewCachedCapacity(capacity, refresh)
	}

	logrus.WithFields(logrus.Fields{
		"provider": provider.Name(),
		"refresh":  cfg.CapacityRefresh(),
	}).Debug("battery capability selected")

	return provider, capacity, nil
}
