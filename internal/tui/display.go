package tui

import (
	"strings"
	"time"

	"github.com/mum4k/termdash/cell"
	"github.com/mum4k/termdash/widgets/text"
	"github.com/sirupsen/logrus"

	"github.com/Prajwal-Prathiksh/power-monitor/internal/estimate"
)

// LineSpec holds formatting information for status text display
type LineSpec struct {
	Text     string
	Color    cell.Color
	UseColor bool
}

// StatusColor picks the charger status color.
func StatusColor(s estimate.Status) cell.Color {
	switch s {
	case estimate.StatusConnected:
		return cell.ColorGreen
	case estimate.StatusDisconnected:
		return cell.ColorYellow
	default:
		return cell.ColorRed
	}
}

// BuildFieldLines centralizes the field panel strings & styling.
func BuildFieldLines(rec estimate.Record) []LineSpec {
	return []LineSpec{
		{Text: "Charger Status: " + string(rec.Status), Color: StatusColor(rec.Status), UseColor: true},
		{Text: "Battery Percentage: " + rec.Percent},
		{Text: "Battery Capacity: " + rec.Capacity},
		{Text: "Charging Current: " + rec.Current},
		{Text: "Discharge Current: " + rec.Discharge},
		{Text: "Time to Full: " + rec.TimeToFull},
	}
}

// BuildAnalysisLines renders the analysis panel.
func BuildAnalysisLines(rec estimate.Record) []LineSpec {
	ln := LineSpec{Text: "Analysis: " + rec.Analysis}
	if rec.Status == estimate.StatusError || rec.Status == estimate.StatusUnknown {
		ln.Color, ln.UseColor = cell.ColorRed, true
	}
	return []LineSpec{ln}
}

// BuildHistoryLines splits the history block; the header is highlighted.
func BuildHistoryLines(history string) []LineSpec {
	var lines []LineSpec
	for i, s := range strings.Split(history, "\n") {
		if i == 0 {
			lines = append(lines, LineSpec{Text: s, Color: cell.ColorCyan, UseColor: true})
			continue
		}
		lines = append(lines, LineSpec{Text: s})
	}
	return lines
}

// Panels are the text widgets of the monitor. They implement the sampler's
// Display interface; text.Text does its own locking.
type Panels struct {
	Fields   *text.Text
	Analysis *text.Text
	History  *text.Text
	Session  SessionInfo

	now func() time.Time
}

// ShowRecord replaces the field and analysis panels.
func (p *Panels) ShowRecord(rec estimate.Record) {
	lines := BuildFieldLines(rec)
	lines = append(lines, LineSpec{})
	for _, s := range p.Session.FooterLines(p.clock()) {
		lines = append(lines, LineSpec{Text: s, Color: cell.ColorNumber(244), UseColor: true})
	}
	writeLines(p.Fields, lines)
	writeLines(p.Analysis, BuildAnalysisLines(rec))
}

// ShowHistory replaces the history panel.
func (p *Panels) ShowHistory(history string) {
	writeLines(p.History, BuildHistoryLines(history))
}

func (p *Panels) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

func writeLines(w *text.Text, lines []LineSpec) {
	if w == nil {
		return
	}
	w.Reset()
	for _, ln := range lines {
		var err error
		if ln.UseColor {
			err = w.Write(ln.Text+"\n", text.WriteCellOpts(cell.FgColor(ln.Color)))
		} else {
			err = w.Write(ln.Text + "\n")
		}
		if err != nil {
			logrus.WithError(err).Debug("write text panel")
			return
		}
	}
}
