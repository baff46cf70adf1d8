package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Prajwal-Prathiksh/power-monitor/internal/logfile"
)

func NewHistoryCommand() *cobra.Command {
	var (
		lines int
		count bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the most recent analysis lines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logPath, err := loadPaths()
			if err != nil {
				return err
			}
			w := &logfile.Writer{Path: logPath}
			out := cmd.OutOrStdout()

			if count {
				n, err := w.LineCount()
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				fmt.Fprintf(out, "%d\n", n)
				return nil
			}

			if lines <= 0 {
				lines = cfg.HistoryLines
			}
			tail, err := w.Tail(lines)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			printHistory(out, tail)
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "number of lines to print (default history_lines)")
	cmd.Flags().BoolVar(&count, "count", false, "print the number of lines in the history file")

	return cmd
}

func printHistory(w io.Writer, lines []string) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "History Log: No data yet.")
		return
	}
	stamp := color.New(color.FgCyan).SprintFunc()
	for _, line := range lines {
		entry, err := logfile.ParseLine(line)
		if err != nil {
			fmt.Fprintln(w, line)
			continue
		}
		fmt.Fprintf(w, "%s - %s\n", stamp(entry.Time.Format(logfile.TimestampLayout)), entry.Text)
	}
}
