package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Prajwal-Prathiksh/power-monitor/internal/config"
	"github.com/Prajwal-Prathiksh/power-monitor/internal/logfile"
)

var (
	logLevel   = "info"
	configPath = ""
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to parse log level")
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "power-monitor",
		Short: "power-monitor shows live battery telemetry in the terminal",
		Long: `power-monitor samples the battery once per tick, estimates charge and
discharge currents, draws the recent charge level as a stacked bar chart and
appends every analysis line to analysis_history.log.

Keys: q quits, r samples immediately.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context())
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path, replaces the default search path")

	cmd.AddCommand(
		NewTUICommand(),
		NewSampleCommand(),
		NewHistoryCommand(),
	)

	return cmd
}

// loadConfig reads the layered config, or only --config when given.
func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.LoadFiles(configPath)
	}
	return config.Load()
}

// loadPaths loads the config and makes sure the history directory exists.
func loadPaths() (config.Config, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, "", pkgerrors.Wrap(err, "config")
	}
	logPath, err := config.XDGLogPath(cfg)
	if err != nil {
		return cfg, "", pkgerrors.Wrap(err, "paths")
	}
	if err := logfile.EnsureDir(logPath); err != nil {
		return cfg, "", pkgerrors.Wrap(err, "mkdir")
	}
	return cfg, logPath, nil
}

// configSources lists the config files in effect, for display.
func configSources() []string {
	if configPath != "" {
		return []string{configPath}
	}
	_, existing := config.GetConfigPaths()
	return existing
}
