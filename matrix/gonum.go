package matrix

import (
	"fmt"

	mx "github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// Dense returns a copy of the m x n block of a as gonum Dense matrix.
// It returns nil if the block is empty or the dimensions are invalid.
func Dense(a *Mat, m, n int) *mat.Dense {
	if CheckDims(m, n) != nil || m == 0 || n == 0 {
		return nil
	}

	d := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		d.SetRow(i, a[i][:n])
	}

	return d
}

// VecDense returns a copy of the first n entries of x as gonum VecDense.
// It returns nil if n is zero or invalid.
func VecDense(x *Vec, n int) *mat.VecDense {
	if CheckDims(n) != nil || n == 0 {
		return nil
	}

	v := make([]float64, n)
	copy(v, x[:n])

	return mat.NewVecDense(n, v)
}

// FromMatrix copies m into the leading block of dst and returns its dimensions.
// It returns error if m does not fit into dst.
func FromMatrix(dst *Mat, m mat.Matrix) (int, int, error) {
	r, c := m.Dims()
	if err := CheckDims(r, c); err != nil {
		return 0, 0, fmt.Errorf("matrix [%d x %d]: %w", r, c, err)
	}

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst[i][j] = m.At(i, j)
		}
	}

	return r, c, nil
}

// FromVector copies v into the leading entries of dst and returns its length.
// It returns error if v does not fit into dst.
func FromVector(dst *Vec, v mat.Vector) (int, error) {
	n := v.Len()
	if err := CheckDims(n); err != nil {
		return 0, fmt.Errorf("vector length %d: %w", n, err)
	}

	for i := 0; i < n; i++ {
		dst[i] = v.AtVec(i)
	}

	return n, nil
}

// Format returns a formatter which pretty prints the m x n block of a.
func Format(a *Mat, m, n int) fmt.Formatter {
	d := Dense(a, m, n)
	if d == nil {
		return empty{}
	}

	return mx.Format(d)
}

type empty struct{}

func (empty) Format(fs fmt.State, c rune) { fmt.Fprint(fs, "[]") }
