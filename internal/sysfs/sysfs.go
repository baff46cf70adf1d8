// Package sysfs reads battery and adapter state from the Linux power_supply class.
package sysfs

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const DefaultRoot = "/sys/class/power_supply"

// PowerSupply reads power_supply attributes below Root. Units follow the
// kernel ABI: µAh, µWh, µA, µW and µV.
type PowerSupply struct {
	Root string
}

var Default = PowerSupply{Root: DefaultRoot}

func (p PowerSupply) readFirst(pattern string) (string, bool) {
	matches, _ := filepath.Glob(filepath.Join(p.Root, pattern))
	for _, m := range matches {
		if b, err := os.ReadFile(m); err == nil {
			return strings.TrimSpace(string(b)), true
		}
	}
	return "", false
}

func (p PowerSupply) readFloat(pattern string) (float64, bool) {
	s, ok := p.readFirst(pattern)
	if !ok || s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// HasBattery reports whether at least one BAT* supply is present.
func (p PowerSupply) HasBattery() bool {
	matches, _ := filepath.Glob(filepath.Join(p.Root, "BAT*"))
	return len(matches) > 0
}

func (p PowerSupply) BatteryPercent() (float64, bool) {
	return p.readFloat("BAT*/capacity")
}

// Status returns the raw BAT status string, e.g. "Charging" or "Discharging".
func (p PowerSupply) Status() (string, bool) {
	return p.readFirst("BAT*/status")
}

// Returns true if AC online; falls back to BAT status
func (p PowerSupply) ACOnline() bool {
	for _, pattern := range []string{"AC*/online", "ACAD*/online", "ADP*/online"} {
		if s, ok := p.readFirst(pattern); ok {
			return s == "1"
		}
	}
	if s, ok := p.Status(); ok {
		switch s {
		case "Charging", "Full", "Not charging":
			return true
		}
	}
	return false
}

// DesignCapacityMAh returns the design capacity in mAh. charge_full_design
// is used directly; energy_full_design is converted with voltage_min_design.
func (p PowerSupply) DesignCapacityMAh() (float64, bool) {
	if uah, ok := p.readFloat("BAT*/charge_full_design"); ok && uah > 0 {
		return uah / 1000, true
	}
	uwh, ok := p.readFloat("BAT*/energy_full_design")
	if !ok || uwh <= 0 {
		return 0, false
	}
	uv, ok := p.readFloat("BAT*/voltage_min_design")
	if !ok || uv <= 0 {
		return 0, false
	}
	// µWh / µV = Ah
	return uwh / uv * 1000, true
}

// SecondsLeft estimates time to empty from the instantaneous drain.
// ok is false while charging or when the kernel reports no drain.
func (p PowerSupply) SecondsLeft() (int64, bool) {
	if s, ok := p.Status(); !ok || s != "Discharging" {
		return 0, false
	}
	if now, ok := p.readFloat("BAT*/energy_now"); ok {
		if rate, ok := p.readFloat("BAT*/power_now"); ok && rate > 0 {
			return int64(math.Round(now / rate * 3600)), true
		}
	}
	if now, ok := p.readFloat("BAT*/charge_now"); ok {
		if rate, ok := p.readFloat("BAT*/current_now"); ok && rate > 0 {
			return int64(math.Round(now / rate * 3600)), true
		}
	}
	return 0, false
}

func (p PowerSupply) BatteryCycleCount() (int, bool) {
	if s, ok := p.readFirst("BAT*/cycle_count"); ok {
		if v, err := strconv.Atoi(s); err == nil {
			return v, true
		}
	}
	return 0, false
}
