package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second, cfg.TickPeriod())
	assert.Equal(t, 60, cfg.WindowSize)
	assert.Equal(t, 5, cfg.HistoryLines)
	assert.Equal(t, "analysis_history.log", cfg.LogFile)
	assert.Equal(t, 4000.0, cfg.FallbackCapacityMAh)
	assert.Equal(t, time.Duration(0), cfg.CapacityRefresh())
}

func TestLoadFilesMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFiles(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().ChargerWatts, cfg.ChargerWatts)
}

func TestLoadFilesLayering(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.toml", `
# charger
charger_watts = 90.0
charger_volts = 20.0
provider = "SYSFS"
window_size = 30
`)
	second := writeFile(t, dir, "b.toml", `
charger_watts = 45.0
log_file = "other.log"
capacity_refresh_secs = 120
`)

	cfg, err := LoadFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, 45.0, cfg.ChargerWatts)
	assert.Equal(t, 20.0, cfg.ChargerVolts)
	assert.Equal(t, "sysfs", cfg.Provider)
	assert.Equal(t, 30, cfg.WindowSize)
	assert.Equal(t, "other.log", cfg.LogFile)
	assert.Equal(t, 2*time.Minute, cfg.CapacityRefresh())
	assert.Equal(t, 1000, cfg.TickMillis)
}

func TestLoadFilesRejectsMalformed(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"syntax.toml": "bogus line without equals\n",
		"type.toml":   "tick_millis = \"notanumber\"\n",
	} {
		_, err := LoadFiles(writeFile(t, dir, name, body))
		assert.Error(t, err, name)
	}
}

func TestLoadFilesDecodesAllKeys(t *testing.T) {
	p := writeFile(t, t.TempDir(), "all.toml", `
tick_millis = 500
history_lines = 8
timezone = "UTC"
log_dir = "/tmp/pm"
debug_log = "/tmp/pm/debug.log"
fallback_capacity_mah = 5200.5
battery_volts = 11.4
poor_health_percent = 15.0
`)
	cfg, err := LoadFiles(p)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.TickPeriod())
	assert.Equal(t, 8, cfg.HistoryLines)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "/tmp/pm", cfg.LogDir)
	assert.Equal(t, "/tmp/pm/debug.log", cfg.DebugLog)
	assert.Equal(t, 5200.5, cfg.FallbackCapacityMAh)
	assert.Equal(t, 11.4, cfg.BatteryVolts)
	assert.Equal(t, 15.0, cfg.PoorHealthPercent)
}

func TestLoadFilesRejectsInvalid(t *testing.T) {
	p := writeFile(t, t.TempDir(), "bad.toml", "window_size = 0\n")
	_, err := LoadFiles(p)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"tick":     func(c *Config) { c.TickMillis = 0 },
		"history":  func(c *Config) { c.HistoryLines = -1 },
		"volts":    func(c *Config) { c.ChargerVolts = 0 },
		"battery":  func(c *Config) { c.BatteryVolts = 0 },
		"fallback": func(c *Config) { c.FallbackCapacityMAh = 0 },
		"refresh":  func(c *Config) { c.CapacityRefreshSecs = -5 },
		"logfile":  func(c *Config) { c.LogFile = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Defaults()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestXDGLogPathCreatesDir(t *testing.T) {
	cfg := Defaults()
	cfg.LogDir = filepath.Join(t.TempDir(), "state", "power-monitor")

	p, err := XDGLogPath(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.LogDir, cfg.LogFile), p)
	assert.DirExists(t, cfg.LogDir)
}
