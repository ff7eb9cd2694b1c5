package pgmvt

import (
	"fmt"
	"math"
)

// Zoom derivation from a scale denominator. The same formula is applied at
// write time to the compilation scale (min_zoom) and to SCAMIN (max_zoom);
// the generated tile functions only ever compare the stored columns, so the
// mapping must never drift between writers and readers.
//
//	zoom = 28 - ceil(log2(scale))
//
// Larger denominators (coarser charts) map to smaller zooms:
// 1:1,000,000 -> 8, 1:50,000 -> 12, 1:10,000 -> 14.

// MinZoom maps a chart's compilation scale to the lowest tile zoom at which
// its features appear.
func MinZoom(scale int) (int, error) {
	z, err := zoomForScale(float64(scale))
	if err != nil {
		return 0, fmt.Errorf("compilation scale %d: %w", scale, err)
	}
	return z, nil
}

// MaxZoom maps a feature's SCAMIN value through the same formula.
func MaxZoom(scamin float64) (int, error) {
	z, err := zoomForScale(scamin)
	if err != nil {
		return 0, fmt.Errorf("scamin %v: %w", scamin, err)
	}
	return z, nil
}

func zoomForScale(scale float64) (int, error) {
	if scale <= 0 {
		return 0, fmt.Errorf("scale must be positive")
	}
	return 28 - int(math.Ceil(math.Log2(scale))), nil
}
