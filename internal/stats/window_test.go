// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package stats

import (
	"reflect"
	"testing"
)

func TestWindowLengthNeverExceedsCapacity(t *testing.T) {
	w := NewWindow(10)
	for i := 0; i < 1000; i++ {
		w.Push(float64(i))
		if w.Len() > w.Cap() {
			t.Fatalf("after %d pushes: Len() = %d exceeds Cap() = %d", i+1, w.Len(), w.Cap())
		}
	}
	if w.Len() != 10 {
		t.Errorf("Len() = %d, want 10", w.Len())
	}
}

func TestWindowFIFOEviction(t *testing.T) {
	w := NewWindow(3)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		w.Push(v)
	}

	got := w.Values()
	want := []float64{3, 4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v (oldest evicted first)", got, want)
	}
}

func TestWindowValuesInsertionOrder(t *testing.T) {
	w := NewWindow(5)
	w.Push(10)
	w.Push(20)
	w.Push(30)

	got := w.Values()
	want := []float64{10, 20, 30}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
}

func TestWindowTail(t *testing.T) {
	w := NewWindow(5)
	for _, v := range []float64{1, 2, 3, 4, 5, 6, 7} {
		w.Push(v)
	}

	tests := []struct {
		n    int
		want []float64
	}{
		{1, []float64{7}},
		{3, []float64{5, 6, 7}},
		{5, []float64{3, 4, 5, 6, 7}},
		{10, []float64{3, 4, 5, 6, 7}}, // more than held returns all
	}

	for _, tt := range tests {
		if got := w.Tail(tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tail(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestWindowLast(t *testing.T) {
	w := NewWindow(3)
	if got := w.Last(); got != 0 {
		t.Errorf("Last() on empty window = %v, want 0", got)
	}
	w.Push(1)
	w.Push(2)
	if got := w.Last(); got != 2 {
		t.Errorf("Last() = %v, want 2", got)
	}
	w.Push(3)
	w.Push(4) // evicts 1
	if got := w.Last(); got != 4 {
		t.Errorf("Last() after wrap = %v, want 4", got)
	}
}

func TestWindowClear(t *testing.T) {
	w := NewWindow(4)
	w.Push(1)
	w.Push(2)
	w.Clear()
	if w.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", w.Len())
	}
	w.Push(9)
	if got := w.Values(); !reflect.DeepEqual(got, []float64{9}) {
		t.Errorf("Values() after Clear+Push = %v, want [9]", got)
	}
}

func TestWindowValuesIsACopy(t *testing.T) {
	w := NewWindow(2)
	w.Push(1)
	vals := w.Values()
	vals[0] = 99
	if got := w.Values()[0]; got != 1 {
		t.Errorf("mutating returned slice altered the window: got %v, want 1", got)
	}
}

func TestNewWindowCoercesInvalidCapacity(t *testing.T) {
	w := NewWindow(0)
	if w.Cap() != 1 {
		t.Errorf("Cap() = %d, want 1", w.Cap())
	}
	w.Push(5)
	w.Push(6)
	if w.Len() != 1 || w.Last() != 6 {
		t.Errorf("coerced window misbehaved: len=%d last=%v", w.Len(), w.Last())
	}
}

func BenchmarkWindowPush(b *testing.B) {
	w := NewWindow(512)
	for i := 0; i < b.N; i++ {
		w.Push(float64(i))
	}
}
