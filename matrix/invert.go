package matrix

import (
	"fmt"
	"math"
)

// Invert stores the inverse of the n x n matrix a in dst.
// It uses Gauss-Jordan elimination with scaled partial pivoting on a local copy of a,
// so dst may alias a and is left untouched on failure.
// Every row is measured against its own largest absolute entry: a pivot is
// chosen by its size relative to its row and rejected with ErrSingularMatrix if it
// falls below Epsilon times that row scale. A zero, NaN or Inf row is singular.
func Invert(dst, a *Mat, n int) error {
	if err := CheckDims(n); err != nil {
		return err
	}

	var w, inv Mat
	var scale Vec
	for i := 0; i < n; i++ {
		copy(w[i][:n], a[i][:n])
		inv[i][i] = 1
		for j := 0; j < n; j++ {
			scale[i] = math.Max(scale[i], math.Abs(a[i][j]))
		}

		if scale[i] == 0 || math.IsNaN(scale[i]) || math.IsInf(scale[i], 0) {
			return fmt.Errorf("invert [%d x %d]: row %d: %w", n, n, i, ErrSingularMatrix)
		}
	}

	for col := 0; col < n; col++ {
		// scaled partial pivoting: pick the largest remaining entry relative to its row
		p := col
		best := math.Abs(w[col][col]) / scale[col]
		for r := col + 1; r < n; r++ {
			if v := math.Abs(w[r][col]) / scale[r]; v > best {
				p, best = r, v
			}
		}

		if !(math.Abs(w[p][col]) > Epsilon*scale[p]) {
			return fmt.Errorf("invert [%d x %d]: pivot %d: %w", n, n, col, ErrSingularMatrix)
		}

		if p != col {
			w[p], w[col] = w[col], w[p]
			inv[p], inv[col] = inv[col], inv[p]
			scale[p], scale[col] = scale[col], scale[p]
		}

		pivot := w[col][col]
		for j := 0; j < n; j++ {
			w[col][j] /= pivot
			inv[col][j] /= pivot
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := w[r][col]
			if f == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				w[r][j] -= f * w[col][j]
				inv[r][j] -= f * inv[col][j]
			}
		}
	}

	for i := 0; i < n; i++ {
		copy(dst[i][:n], inv[i][:n])
	}

	return nil
}
