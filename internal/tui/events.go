package tui

import (
	"context"

	"github.com/mum4k/termdash/terminal/terminalapi"
)

// CreateKeyboardHandler creates the keyboard event handler for the TUI. A
// refresh request is dropped when one is already pending, so the sampler
// loop stays the only caller of Tick. invalidate, when set, runs before the
// request so the next tick re-reads cached battery data.
func CreateKeyboardHandler(cancel context.CancelFunc, refresh chan<- struct{}, invalidate func()) func(*terminalapi.Keyboard) {
	return func(k *terminalapi.Keyboard) {
		switch k.Key {
		case 'q', 'Q':
			cancel()
		case 'r', 'R':
			if invalidate != nil {
				invalidate()
			}
			select {
			case refresh <- struct{}{}:
			default:
			}
		}
	}
}
