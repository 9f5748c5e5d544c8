package types

import (
	"errors"
	"fmt"
)

// Shape algebra for tensor support. Shapes are dimension lists, outermost
// first; broadcasting follows right-aligned rules.

// ErrIncompatibleShapes is returned when two shapes cannot broadcast.
var ErrIncompatibleShapes = errors.New("incompatible shapes")

// ShapesEqual reports exact dimension equality.
func ShapesEqual(a, b []uint32) bool {
	return dimsEqual(a, b)
}

// IsBroadcastable checks right-aligned compatibility: for each trailing
// dimension pair, the dims must be equal or either must be 1.
func IsBroadcastable(a, b []uint32) bool {
	i, j := len(a)-1, len(b)-1
	for i >= 0 && j >= 0 {
		da, db := a[i], b[j]
		if da != db && da != 1 && db != 1 {
			return false
		}
		i--
		j--
	}
	return true
}

// BroadcastShape computes the broadcast result, or ErrIncompatibleShapes.
func BroadcastShape(a, b []uint32) ([]uint32, error) {
	if !IsBroadcastable(a, b) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrIncompatibleShapes, a, b)
	}
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]uint32, n)
	for k := 0; k < n; k++ {
		var da, db uint32 = 1, 1
		if i := len(a) - 1 - k; i >= 0 {
			da = a[i]
		}
		if j := len(b) - 1 - k; j >= 0 {
			db = b[j]
		}
		d := da
		if db > d {
			d = db
		}
		out[n-1-k] = d
	}
	return out, nil
}

// ShapeDivisibleBy checks per-dimension tiling: every dimension of shape
// must divide evenly by the corresponding tile dimension. A zero tile
// dimension is an error, not a division.
func ShapeDivisibleBy(shape, tile []uint32) (bool, error) {
	if len(shape) != len(tile) {
		return false, fmt.Errorf("tile rank %d does not match shape rank %d", len(tile), len(shape))
	}
	for i := range shape {
		if tile[i] == 0 {
			return false, fmt.Errorf("tile dimension %d is zero", i)
		}
		if shape[i]%tile[i] != 0 {
			return false, nil
		}
	}
	return true, nil
}
