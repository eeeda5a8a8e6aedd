// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package stats

// Window is a fixed-capacity FIFO of the most recent scalar observations
// for one metric. Push is O(1): the oldest element is overwritten in a
// circular buffer once the window is full.
//
// Window is NOT safe for concurrent use. Each analyzer exclusively owns
// its windows and is confined to one calling context at a time.
type Window struct {
	buf   []float64
	head  int // index of the oldest element
	count int
}

// NewWindow creates a window holding at most capacity observations.
// A non-positive capacity is coerced to 1.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = 1
	}
	return &Window{buf: make([]float64, capacity)}
}

// Push appends v, evicting the oldest observation if the window is full.
func (w *Window) Push(v float64) {
	if w.count < len(w.buf) {
		w.buf[(w.head+w.count)%len(w.buf)] = v
		w.count++
		return
	}
	w.buf[w.head] = v
	w.head = (w.head + 1) % len(w.buf)
}

// Len returns the number of observations currently held.
// Always <= Cap().
func (w *Window) Len() int {
	return w.count
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return len(w.buf)
}

// Values returns the observations in insertion order, oldest first.
// The returned slice is a copy; mutating it does not affect the window.
func (w *Window) Values() []float64 {
	out := make([]float64, w.count)
	for i := 0; i < w.count; i++ {
		out[i] = w.buf[(w.head+i)%len(w.buf)]
	}
	return out
}

// Tail returns the most recent n observations, oldest first. If fewer
// than n are held, all of them are returned.
func (w *Window) Tail(n int) []float64 {
	if n >= w.count {
		return w.Values()
	}
	out := make([]float64, n)
	start := w.count - n
	for i := 0; i < n; i++ {
		out[i] = w.buf[(w.head+start+i)%len(w.buf)]
	}
	return out
}

// Last returns the most recent observation, or 0 if the window is empty.
func (w *Window) Last() float64 {
	if w.count == 0 {
		return 0
	}
	return w.buf[(w.head+w.count-1)%len(w.buf)]
}

// Clear drops all observations without releasing the buffer.
func (w *Window) Clear() {
	w.head = 0
	w.count = 0
}
