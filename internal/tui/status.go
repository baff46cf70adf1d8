package tui

import (
	"fmt"
	"time"
)

// SessionInfo is the static part of the status panel.
type SessionInfo struct {
	Provider    string
	LogPath     string
	ConfigPaths []string // existing config files, lowest precedence first
	Started     time.Time
	CycleCount  int
	HasCycles   bool
}

// ConfigLine describes which config files are in effect.
func (s SessionInfo) ConfigLine() string {
	switch len(s.ConfigPaths) {
	case 0:
		return "Config: Using defaults (no config file found)"
	case 1:
		return fmt.Sprintf("Config file: %s", s.ConfigPaths[0])
	default:
		return fmt.Sprintf("Config files: %s (+ %d more)", s.ConfigPaths[len(s.ConfigPaths)-1], len(s.ConfigPaths)-1)
	}
}

// FooterLines are shown under the battery fields.
func (s SessionInfo) FooterLines(now time.Time) []string {
	lines := []string{
		fmt.Sprintf("Source: %s", s.Provider),
		fmt.Sprintf("Data file: %s", s.LogPath),
		s.ConfigLine(),
	}
	if s.HasCycles {
		lines = append(lines, fmt.Sprintf("Battery Cycles: %d", s.CycleCount))
	}
	if !s.Started.IsZero() {
		lines = append(lines, fmt.Sprintf("Running for: %s", FormatDurationAuto(now.Sub(s.Started).Round(time.Second))))
	}
	return lines
}
