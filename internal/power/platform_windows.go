package power

func platformCapacity(volts float64) CapacityResolver {
	return WMICapacity{Volts: volts}
}
