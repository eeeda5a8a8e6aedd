// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package capture

import (
	"math"
	"testing"
)

// solidFrame returns a w x h frame with every pixel set to (r, g, b).
func solidFrame(w, h int, r, g, b byte) Frame {
	pixels := make([]byte, w*h*4)
	for i := 0; i < len(pixels); i += 4 {
		pixels[i] = r
		pixels[i+1] = g
		pixels[i+2] = b
		pixels[i+3] = 255
	}
	return Frame{Width: w, Height: h, Pixels: pixels}
}

func TestLuminanceGridUniformGray(t *testing.T) {
	// BT.709 coefficients sum to 1, so a gray frame's luminance equals
	// its gray level in every cell.
	grid := LuminanceGrid(solidFrame(64, 64, 100, 100, 100), 16)

	if len(grid) != 256 {
		t.Fatalf("len(grid) = %d, want 256", len(grid))
	}
	for i, v := range grid {
		if math.Abs(v-100) > 1e-9 {
			t.Fatalf("grid[%d] = %v, want 100", i, v)
		}
	}
}

func TestLuminanceGridChannelWeights(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b byte
		want    float64
	}{
		{"pure red", 255, 0, 0, 0.2126 * 255},
		{"pure green", 0, 255, 0, 0.7152 * 255},
		{"pure blue", 0, 0, 255, 0.0722 * 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := LuminanceGrid(solidFrame(32, 32, tt.r, tt.g, tt.b), 4)
			if math.Abs(grid[0]-tt.want) > 1e-9 {
				t.Errorf("grid[0] = %v, want %v", grid[0], tt.want)
			}
		})
	}
}

func TestLuminanceGridSpatialSplit(t *testing.T) {
	// Left half black, right half white, 2x2 grid: left column cells 0,
	// right column cells 255.
	frame := solidFrame(8, 8, 0, 0, 0)
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			i := (y*8 + x) * 4
			frame.Pixels[i] = 255
			frame.Pixels[i+1] = 255
			frame.Pixels[i+2] = 255
		}
	}

	grid := LuminanceGrid(frame, 2)
	if len(grid) != 4 {
		t.Fatalf("len(grid) = %d, want 4", len(grid))
	}
	// Row-major: [top-left, top-right, bottom-left, bottom-right].
	if grid[0] != 0 || grid[2] != 0 {
		t.Errorf("left cells = %v, %v, want 0", grid[0], grid[2])
	}
	if grid[1] != 255 || grid[3] != 255 {
		t.Errorf("right cells = %v, %v, want 255", grid[1], grid[3])
	}
}

func TestLuminanceGridIndivisibleDimensions(t *testing.T) {
	// 5x5 frame, 2x2 grid: cell boundaries are uneven but every pixel
	// must land in exactly one cell, so a uniform frame stays uniform.
	grid := LuminanceGrid(solidFrame(5, 5, 77, 77, 77), 2)

	for i, v := range grid {
		if math.Abs(v-77) > 1e-9 {
			t.Errorf("grid[%d] = %v, want 77", i, v)
		}
	}
}

func TestLuminanceGridDegenerateInputs(t *testing.T) {
	tests := []struct {
		name     string
		frame    Frame
		gridSize int
	}{
		{"zero grid size", solidFrame(16, 16, 0, 0, 0), 0},
		{"frame narrower than grid", solidFrame(8, 64, 0, 0, 0), 16},
		{"frame shorter than grid", solidFrame(64, 8, 0, 0, 0), 16},
		{"short pixel buffer", Frame{Width: 16, Height: 16, Pixels: make([]byte, 10)}, 4},
		{"empty frame", Frame{}, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LuminanceGrid(tt.frame, tt.gridSize); got != nil {
				t.Errorf("LuminanceGrid() = %v, want nil", got)
			}
		})
	}
}

func BenchmarkLuminanceGrid(b *testing.B) {
	frame := solidFrame(320, 240, 120, 130, 110)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = LuminanceGrid(frame, 16)
	}
}
