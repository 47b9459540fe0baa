package matrix

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// IsFinite reports whether the m x n block of a contains neither NaN nor Inf.
// It returns false for invalid dimensions.
func IsFinite(a *Mat, m, n int) bool {
	if CheckDims(m, n) != nil {
		return false
	}

	for i := 0; i < m; i++ {
		if !finite(a[i][:n]) {
			return false
		}
	}

	return true
}

// IsFiniteVec reports whether the first n entries of x contain neither NaN nor Inf.
func IsFiniteVec(x *Vec, n int) bool {
	if CheckDims(n) != nil {
		return false
	}

	return finite(x[:n])
}

func finite(s []float64) bool {
	if floats.HasNaN(s) {
		return false
	}
	for _, v := range s {
		if math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// Symmetrize stores (a+a')/2 of the n x n matrix a in dst.
// dst may alias a.
func Symmetrize(dst, a *Mat, n int) error {
	if err := CheckDims(n); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		dst[i][i] = a[i][i]
		for j := i + 1; j < n; j++ {
			v := 0.5 * (a[i][j] + a[j][i])
			dst[i][j] = v
			dst[j][i] = v
		}
	}

	return nil
}

// MaxAsymmetry returns max|a_ij - a_ji| over the n x n block of a.
// It returns NaN for invalid dimensions.
func MaxAsymmetry(a *Mat, n int) float64 {
	if CheckDims(n) != nil {
		return math.NaN()
	}

	var d float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d = math.Max(d, math.Abs(a[i][j]-a[j][i]))
		}
	}

	return d
}

// IsSymmetric reports whether the n x n block of a is symmetric within rounding:
// max|a_ij - a_ji| must not exceed Epsilon times max|a_ij|.
// It returns false for invalid dimensions or non-finite entries.
func IsSymmetric(a *Mat, n int) bool {
	if !IsFinite(a, n, n) {
		return false
	}

	var scale float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			scale = math.Max(scale, math.Abs(a[i][j]))
		}
	}

	return MaxAsymmetry(a, n) <= Epsilon*scale
}

// RowSums returns a slice containing the row sums of the m x n block of a.
// It panics if a is nil.
func RowSums(a *Mat, m, n int) []float64 {
	sum := make([]float64, m)
	for i := 0; i < m; i++ {
		sum[i] = floats.Sum(a[i][:n])
	}

	return sum
}

// ColSums returns a slice containing the column sums of the m x n block of a.
// It panics if a is nil.
func ColSums(a *Mat, m, n int) []float64 {
	sum := make([]float64, n)
	for i := 0; i < m; i++ {
		floats.Add(sum, a[i][:n])
	}

	return sum
}
