// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package capture

// BT.709 luma coefficients.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// LuminanceGrid reduces an RGBA frame to a gridSize x gridSize grid of
// mean cell luminances in [0, 255], row-major. Cell boundaries are
// computed in integer pixel space so every pixel lands in exactly one
// cell regardless of divisibility. A frame too small to populate the
// grid, or with a short pixel buffer, yields nil.
func LuminanceGrid(frame Frame, gridSize int) []float64 {
	if gridSize <= 0 || frame.Width < gridSize || frame.Height < gridSize {
		return nil
	}
	if len(frame.Pixels) < frame.Width*frame.Height*4 {
		return nil
	}

	grid := make([]float64, gridSize*gridSize)

	for gy := 0; gy < gridSize; gy++ {
		y0 := gy * frame.Height / gridSize
		y1 := (gy + 1) * frame.Height / gridSize
		for gx := 0; gx < gridSize; gx++ {
			x0 := gx * frame.Width / gridSize
			x1 := (gx + 1) * frame.Width / gridSize

			var sum float64
			for y := y0; y < y1; y++ {
				row := (y*frame.Width + x0) * 4
				for x := x0; x < x1; x++ {
					r := float64(frame.Pixels[row])
					g := float64(frame.Pixels[row+1])
					b := float64(frame.Pixels[row+2])
					sum += lumaR*r + lumaG*g + lumaB*b
					row += 4
				}
			}
			grid[gy*gridSize+gx] = sum / float64((y1-y0)*(x1-x0))
		}
	}
	return grid
}
