//go:build !linux && !windows

package power

func platformCapacity(volts float64) CapacityResolver {
	return BatteryCapacity{Volts: volts}
}
