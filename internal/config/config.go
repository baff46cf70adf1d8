package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	pkgerrors "github.com/pkg/errors"
)

// Config holds every tunable of the monitor. Values not present in any
// config file keep their Defaults().
type Config struct {
	TickMillis          int     `toml:"tick_millis"`
	WindowSize          int     `toml:"window_size"`
	HistoryLines        int     `toml:"history_lines"`
	Timezone            string  `toml:"timezone"` // "UTC" or "Local"
	LogDir              string  `toml:"log_dir"`
	LogFile             string  `toml:"log_file"`
	DebugLog            string  `toml:"debug_log"`
	Provider            string  `toml:"provider"` // auto, battery, sysfs, fallback
	FallbackCapacityMAh float64 `toml:"fallback_capacity_mah"`
	ChargerWatts        float64 `toml:"charger_watts"`
	ChargerVolts        float64 `toml:"charger_volts"`
	BatteryVolts        float64 `toml:"battery_volts"`
	PoorHealthPercent   float64 `toml:"poor_health_percent"`
	CapacityRefreshSecs int     `toml:"capacity_refresh_secs"`
}

func Defaults() Config {
	return Config{
		TickMillis:          1000,
		WindowSize:          60,
		HistoryLines:        5,
		Timezone:            "Local",
		LogDir:              filepath.Join(xdgStateHome(), "power-monitor"),
		LogFile:             "analysis_history.log",
		Provider:            "auto",
		FallbackCapacityMAh: 4000,
		ChargerWatts:        65,
		ChargerVolts:        15,
		BatteryVolts:        15,
		PoorHealthPercent:   20,
		CapacityRefreshSecs: 0,
	}
}

// TickPeriod is the delay between the end of one tick and the start of the next.
func (c Config) TickPeriod() time.Duration {
	return time.Duration(c.TickMillis) * time.Millisecond
}

// CapacityRefresh is how long a design capacity reading is reused.
// Zero means the capacity is queried on every tick.
func (c Config) CapacityRefresh() time.Duration {
	return time.Duration(c.CapacityRefreshSecs) * time.Second
}

func (c Config) Validate() error {
	switch {
	case c.TickMillis <= 0:
		return pkgerrors.Errorf("tick_millis must be positive, got %d", c.TickMillis)
	case c.WindowSize <= 0:
		return pkgerrors.Errorf("window_size must be positive, got %d", c.WindowSize)
	case c.HistoryLines <= 0:
		return pkgerrors.Errorf("history_lines must be positive, got %d", c.HistoryLines)
	case c.ChargerVolts <= 0:
		return pkgerrors.Errorf("charger_volts must be positive, got %g", c.ChargerVolts)
	case c.BatteryVolts <= 0:
		return pkgerrors.Errorf("battery_volts must be positive, got %g", c.BatteryVolts)
	case c.FallbackCapacityMAh <= 0:
		return pkgerrors.Errorf("fallback_capacity_mah must be positive, got %g", c.FallbackCapacityMAh)
	case c.CapacityRefreshSecs < 0:
		return pkgerrors.Errorf("capacity_refresh_secs must not be negative, got %d", c.CapacityRefreshSecs)
	case c.LogFile == "":
		return errors.New("log_file must not be empty")
	}
	return nil
}

// getConfigPathsInternal returns the list of config file paths that are checked
func getConfigPathsInternal() []string {
	return []string{
		// Local project config
		filepath.Join("internal", "config", "config.toml"),
		// User config
		filepath.Join(xdgConfigHome(), "power-monitor", "config.toml"),
		// System config
		"/etc/power-monitor/config.toml",
	}
}

// GetConfigPaths returns the list of config file paths that are checked, and which ones exist
func GetConfigPaths() ([]string, []string) {
	var allPaths []string
	var existingPaths []string

	for _, path := range getConfigPathsInternal() {
		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}
		allPaths = append(allPaths, absPath)

		if _, err := os.Stat(path); err == nil {
			existingPaths = append(existingPaths, absPath)
		}
	}

	return allPaths, existingPaths
}

func Load() (Config, error) {
	return LoadFiles(getConfigPathsInternal()...)
}

// LoadFiles layers the given files over Defaults(); later files win.
// Missing files are skipped.
func LoadFiles(paths ...string) (Config, error) {
	cfg := Defaults()

	for _, path := range paths {
		if err := loadConfigFile(path, &cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return cfg, pkgerrors.Wrapf(err, "read %s", path)
			}
		}
	}

	// Expand ~ in paths
	cfg.LogDir = expandHome(cfg.LogDir)
	cfg.DebugLog = expandHome(cfg.DebugLog)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return err
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	return nil
}

func XDGLogPath(cfg Config) (string, error) {
	if _, err := os.Stat(cfg.LogDir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return "", pkgerrors.Wrap(err, "create log dir")
		}
	}
	return filepath.Join(cfg.LogDir, cfg.LogFile), nil
}

func Now(cfg Config) time.Time {
	if strings.EqualFold(cfg.Timezone, "Local") {
		return time.Now()
	}
	return time.Now().UTC()
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}

func xdgConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

func xdgStateHome() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state")
}
