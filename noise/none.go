package noise

import (
	"fmt"

	"github.com/deepdive/go-kalman/matrix"
)

// None is noise with empty mean and zero size covariance matrix.
// None is different from Zero: its dimension is 0, so it matches any model
// as a stand-in for absent noise.
type None struct{}

// NewNone creates new None noise and returns it
func NewNone() (*None, error) {
	return &None{}, nil
}

// Dim returns 0.
func (e *None) Dim() int {
	return 0
}

// Sample returns zero vector.
func (e *None) Sample() *matrix.Vec {
	return &matrix.Vec{}
}

// Cov returns zero covariance matrix.
func (e *None) Cov() *matrix.Mat {
	return &matrix.Mat{}
}

// Mean returns None mean.
func (e *None) Mean() []float64 {
	var mean []float64

	return mean
}

// Reset does nothing: it's here to implement filter.Noise interface
func (e *None) Reset() error { return nil }

// String implements the Stringer interface.
func (e *None) String() string {
	return fmt.Sprintf("None{\nMean=%v\nCov=%v\n}", e.Mean(), format(e.Cov(), 0))
}
