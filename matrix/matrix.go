// Package matrix implements dense linear algebra on fixed-capacity buffers.
//
// Every matrix is a Stride x Stride array and every vector a Stride array.
// Callers pass the active dimensions explicitly on each call and the routines
// only ever read and write the active [0,rows)x[0,cols) sub-block: whatever
// lives outside of it is left alone. None of the routines allocate.
package matrix

import (
	"errors"
	"fmt"
)

// Stride is the maximum dimension of any matrix or vector.
const Stride = 36

// Epsilon is the pivot threshold, relative to the largest entry of the pivot row,
// below which a matrix is treated as singular.
const Epsilon = 1e-12

var (
	// ErrInvalidDimension is returned when a requested dimension is negative or exceeds Stride.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrSingularMatrix is returned when a matrix can not be inverted within numerical tolerance.
	ErrSingularMatrix = errors.New("singular matrix")
	// ErrNonFinite is returned when a computation produces NaN or Inf values.
	ErrNonFinite = errors.New("non-finite value")
)

// Vec is a fixed-capacity vector.
type Vec [Stride]float64

// Mat is a fixed-capacity row-major matrix.
type Mat [Stride][Stride]float64

// NewVec creates a new Vec with its leading entries set to vals.
// It returns error if vals is longer than Stride.
func NewVec(vals ...float64) (*Vec, error) {
	if len(vals) > Stride {
		return nil, fmt.Errorf("vector length %d: %w", len(vals), ErrInvalidDimension)
	}

	v := &Vec{}
	copy(v[:], vals)

	return v, nil
}

// NewMat creates a new Mat whose leading r x c block is filled from
// data stored in row-major order.
// It returns error if either dimension is invalid or data does not contain r*c values.
func NewMat(r, c int, data []float64) (*Mat, error) {
	if err := CheckDims(r, c); err != nil {
		return nil, err
	}

	if len(data) != r*c {
		return nil, fmt.Errorf("data length %d does not match [%d x %d]", len(data), r, c)
	}

	m := &Mat{}
	for i := 0; i < r; i++ {
		copy(m[i][:c], data[i*c:(i+1)*c])
	}

	return m, nil
}

// CheckDims returns ErrInvalidDimension if any of dims is negative or larger than Stride.
func CheckDims(dims ...int) error {
	for _, d := range dims {
		if d < 0 || d > Stride {
			return fmt.Errorf("%d outside [0, %d]: %w", d, Stride, ErrInvalidDimension)
		}
	}

	return nil
}
