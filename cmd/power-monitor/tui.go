package main

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mum4k/termdash"
	"github.com/mum4k/termdash/terminal/tcell"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Prajwal-Prathiksh/power-monitor/internal/config"
	"github.com/Prajwal-Prathiksh/power-monitor/internal/estimate"
	"github.com/Prajwal-Prathiksh/power-monitor/internal/logfile"
	"github.com/Prajwal-Prathiksh/power-monitor/internal/power"
	"github.com/Prajwal-Prathiksh/power-monitor/internal/sampler"
	"github.com/Prajwal-Prathiksh/power-monitor/internal/sysfs"
	"github.com/Prajwal-Prathiksh/power-monitor/internal/tui"
)

const redrawInterval = 250 * time.Millisecond

func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the live monitor (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context())
		},
	}
}

// monitor is the estimator wired to the selected battery capability and the
// history file.
type monitor struct {
	est      *estimate.Estimator
	history  *logfile.Writer
	provider string
	capacity power.CapacityResolver
}

func newMonitor(cfg config.Config, logPath string, sink bool) (*monitor, error) {
	provider, capacity, err := power.Select(cfg)
	if err != nil {
		return nil, err
	}
	w := &logfile.Writer{Path: logPath}
	var s estimate.Sink
	if sink {
		s = w
	}
	est := estimate.New(provider, capacity, s, estimate.ParamsFromConfig(cfg),
		estimate.WithClock(func() time.Time { return config.Now(cfg) }))
	return &monitor{est: est, history: w, provider: provider.Name(), capacity: capacity}, nil
}

// invalidator drops a cached design capacity, or is nil when nothing is cached.
func (m *monitor) invalidator() func() {
	if c, ok := m.capacity.(*power.CachedCapacity); ok {
		return c.Invalidate
	}
	return nil
}

// redirectLogs keeps logrus off the terminal while termdash owns it.
func redirectLogs(cfg config.Config) (func(), error) {
	if cfg.DebugLog == "" {
		logrus.SetOutput(io.Discard)
		return func() { logrus.SetOutput(os.Stderr) }, nil
	}
	f, err := os.OpenFile(cfg.DebugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open debug log")
	}
	logrus.SetOutput(f)
	return func() {
		logrus.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// runTUI implements the live monitor using termdash
func runTUI(ctx context.Context) error {
	cfg, logPath, err := loadPaths()
	if err != nil {
		return err
	}

	m, err := newMonitor(cfg, logPath, true)
	if err != nil {
		return err
	}

	restore, err := redirectLogs(cfg)
	if err != nil {
		return err
	}
	defer restore()

	// Create terminal
	t, err := tcell.New()
	if err != nil {
		return pkgerrors.Wrap(err, "tcell.New")
	}
	defer t.Close()

	// Create widgets
	chartWidget := tui.CreateChartWidget(cfg.WindowSize)
	cycles, hasCycles := sysfs.Default.BatteryCycleCount()
	panels, err := tui.NewPanels(tui.SessionInfo{
		Provider:    m.provider,
		LogPath:     logPath,
		ConfigPaths: configSources(),
		Started:     time.Now(),
		CycleCount:  cycles,
		HasCycles:   hasCycles,
	})
	if err != nil {
		return pkgerrors.Wrap(err, "create text widgets")
	}

	c, err := tui.CreateUILayout(t, chartWidget, panels)
	if err != nil {
		return pkgerrors.Wrap(err, "create layout")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	refresh := make(chan struct{}, 1)
	s := sampler.New(m.est, chartWidget, panels, m.history, cfg.WindowSize, cfg.HistoryLines)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Run(ctx, cfg.TickPeriod(), refresh)
	}()

	logrus.WithFields(logrus.Fields{
		"provider": m.provider,
		"log":      logPath,
		"tick":     cfg.TickPeriod(),
	}).Info("monitor started")

	err = termdash.Run(ctx, t, c,
		termdash.KeyboardSubscriber(tui.CreateKeyboardHandler(cancel, refresh, m.invalidator())),
		termdash.RedrawInterval(redrawInterval),
	)
	cancel()
	wg.Wait()
	if err != nil {
		return pkgerrors.Wrap(err, "termdash.Run")
	}
	return nil
}
