package noise

import (
	"fmt"

	"github.com/deepdive/go-kalman/matrix"
)

// Zero is zero noise i.e. no noise
type Zero struct {
	// n is noise dimension
	n int
}

// NewZero creates new zero noise i.e. zero mean and zero covariance.
// It returns error if size is negative or exceeds matrix.Stride.
func NewZero(size int) (*Zero, error) {
	if err := matrix.CheckDims(size); err != nil {
		return nil, fmt.Errorf("invalid noise dimension: %w", err)
	}

	return &Zero{n: size}, nil
}

// Dim returns noise dimension.
func (e *Zero) Dim() int {
	return e.n
}

// Sample generates empty sample and returns it: a vector with zero values.
func (e *Zero) Sample() *matrix.Vec {
	return &matrix.Vec{}
}

// Cov returns empty covariance matrix: matrix with zero values.
func (e *Zero) Cov() *matrix.Mat {
	return &matrix.Mat{}
}

// Mean returns Zero mean.
func (e *Zero) Mean() []float64 {
	return make([]float64, e.n)
}

// Reset does nothing: zero noise has no source to reset.
func (e *Zero) Reset() error { return nil }

// String implements the Stringer interface.
func (e *Zero) String() string {
	return fmt.Sprintf("Zero{\nMean=%v\nCov=%v\n}", e.Mean(), format(e.Cov(), e.n))
}
