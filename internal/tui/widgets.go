package tui

import (
	"github.com/mum4k/termdash/container"
	"github.com/mum4k/termdash/keyboard"
	"github.com/mum4k/termdash/linestyle"
	"github.com/mum4k/termdash/terminal/terminalapi"
	"github.com/mum4k/termdash/widgets/text"

	"github.com/Prajwal-Prathiksh/power-monitor/internal/widgets"
)

const chartContainerID = "chart-container"

// CreateTextWidget creates and configures the text display widget
func CreateTextWidget() (*text.Text, error) {
	return text.New(text.WrapAtWords())
}

// NewPanels creates the three text widgets.
func NewPanels(session SessionInfo) (*Panels, error) {
	fields, err := CreateTextWidget()
	if err != nil {
		return nil, err
	}
	analysis, err := CreateTextWidget()
	if err != nil {
		return nil, err
	}
	history, err := CreateTextWidget()
	if err != nil {
		return nil, err
	}
	return &Panels{Fields: fields, Analysis: analysis, History: history, Session: session}, nil
}

// CreateUILayout creates the TUI container layout with all widgets: battery
// fields and analysis on the left, chart on top right, history below it.
func CreateUILayout(t terminalapi.Terminal, chartWidget *widgets.StackedBarChart, panels *Panels) (*container.Container, error) {
	return container.New(
		t,
		container.Border(linestyle.Light),
		container.BorderTitle("Power Monitor - Tab/Shift+Tab: focus, q: quit, r: refresh"),
		container.KeyFocusNext(keyboard.KeyTab),
		container.KeyFocusPrevious(keyboard.KeyBacktab),
		container.SplitVertical(
			container.Left(
				container.SplitHorizontal(
					container.Top(
						container.Border(linestyle.Light),
						container.BorderTitle("Battery"),
						container.PlaceWidget(panels.Fields),
					),
					container.Bottom(
						container.Border(linestyle.Light),
						container.BorderTitle("Analysis"),
						container.PlaceWidget(panels.Analysis),
					),
					container.SplitPercent(60),
				),
			),
			container.Right(
				container.SplitHorizontal(
					container.Top(
						container.ID(chartContainerID),
						container.Border(linestyle.Light),
						container.PlaceWidget(chartWidget),
					),
					container.Bottom(
						container.Border(linestyle.Light),
						container.BorderTitle("History - ↑↓ to scroll"),
						container.PlaceWidget(panels.History),
					),
					container.SplitPercent(65),
				),
			),
			container.SplitPercent(35),
		),
	)
}
