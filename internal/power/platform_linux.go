package power

import "github.com/Prajwal-Prathiksh/power-monitor/internal/sysfs"

func platformCapacity(float64) CapacityResolver {
	return SysfsCapacity{Supply: sysfs.Default}
}
