package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Prajwal-Prathiksh/power-monitor/internal/estimate"
)

func NewSampleCommand() *cobra.Command {
	var noLog bool

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Take one reading and print it",
		Long: `Take one battery reading, print the derived fields and append the
analysis line to the history file unless --no-log is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logPath, err := loadPaths()
			if err != nil {
				return err
			}
			m, err := newMonitor(cfg, logPath, !noLog)
			if err != nil {
				return err
			}

			printRecord(cmd.OutOrStdout(), m.est.Estimate(cmd.Context()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noLog, "no-log", false, "do not append to the history file")

	return cmd
}

func statusColor(s estimate.Status) *color.Color {
	switch s {
	case estimate.StatusConnected:
		return color.New(color.FgGreen, color.Bold)
	case estimate.StatusDisconnected:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func printRecord(w io.Writer, rec estimate.Record) {
	label := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", label("Charger Status:"), statusColor(rec.Status).Sprint(rec.Status))
	fmt.Fprintf(w, "%s %s\n", label("Battery Percentage:"), rec.Percent)
	fmt.Fprintf(w, "%s %s\n", label("Battery Capacity:"), rec.Capacity)
	fmt.Fprintf(w, "%s %s\n", label("Charging Current:"), rec.Current)
	fmt.Fprintf(w, "%s %s\n", label("Discharge Current:"), rec.Discharge)
	fmt.Fprintf(w, "%s %s\n", label("Time to Full:"), rec.TimeToFull)
	fmt.Fprintf(w, "%s %s\n", label("Analysis:"), rec.Analysis)
}
