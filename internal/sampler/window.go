package sampler

import "time"

// Sample is one charge reading taken at At.
type Sample struct {
	At      time.Time
	Percent float64
}

// Window keeps the most recent samples, oldest first, never more than its size.
type Window struct {
	size    int
	samples []Sample
}

func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{size: size, samples: make([]Sample, 0, size)}
}

// Push appends a sample and reports whether the oldest one was evicted.
func (w *Window) Push(at time.Time, percent float64) bool {
	s := Sample{At: at, Percent: percent}
	if len(w.samples) < w.size {
		w.samples = append(w.samples, s)
		return false
	}
	copy(w.samples, w.samples[1:])
	w.samples[len(w.samples)-1] = s
	return true
}

func (w *Window) Len() int  { return len(w.samples) }
func (w *Window) Size() int { return w.size }

// Samples returns a copy, oldest first.
func (w *Window) Samples() []Sample {
	out := make([]Sample, len(w.samples))
	copy(out, w.samples)
	return out
}
