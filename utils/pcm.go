// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// PCMScale is the magnitude of full scale for signed PCM of bitDepth bits.
func PCMScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}

// PCMToFloat normalizes a signed PCM value to [-1, 1).
func PCMToFloat(v int, bitDepth int) float32 {
	return float32(float64(v) / PCMScale(bitDepth))
}

// FloatToPCM converts a normalized sample back to signed PCM, rounding to
// the nearest step and clamping to the representable range.
func FloatToPCM(x float32, bitDepth int) int {
	scale := PCMScale(bitDepth)
	v := math.Round(float64(x) * scale)

	// Clamp and scale
	if v > scale-1 {
		v = scale - 1
	} else if v < -scale {
		v = -scale
	}

	return int(v)
}
