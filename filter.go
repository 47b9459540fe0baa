// Package filter defines the building blocks of a fixed-capacity linear
// Kalman filter: system models, noise sources, estimates and smoothers.
//
// All matrices and vectors are matrix.Mat and matrix.Vec buffers of capacity
// matrix.Stride whose active dimensions are reported alongside them.
package filter

import "github.com/deepdive/go-kalman/matrix"

var (
	// ErrInvalidDimension is returned when a dimension is negative or exceeds matrix.Stride.
	ErrInvalidDimension = matrix.ErrInvalidDimension
	// ErrSingularMatrix is returned when a required matrix inverse does not exist.
	ErrSingularMatrix = matrix.ErrSingularMatrix
	// ErrNonFinite is returned when the filter diverges into NaN or Inf values.
	ErrNonFinite = matrix.ErrNonFinite
)

// Filter is a dynamical system filter.
type Filter interface {
	// Predict estimates the next internal state of the system given control input u
	Predict(u *matrix.Vec) (Estimate, error)
	// Update corrects the predicted state using external measurement z
	Update(z *matrix.Vec) (Estimate, error)
}

// Smoother is a filter smoother.
type Smoother interface {
	// Smooth returns smoothed estimates of filtered estimates est
	Smooth(est []Estimate) ([]Estimate, error)
}

// Model is a linear discrete-time model of a dynamical system:
//
//	x[k] = F*x[k-1] + B*u[k-1] + w
//	z[k] = H*x[k] + v
type Model interface {
	// Dims returns state (s), control input (u) and measurement (b) dimensions
	Dims() (s, u, b int)
	// StateMatrix returns the state transition matrix F
	StateMatrix() *matrix.Mat
	// ControlMatrix returns the control input matrix B
	ControlMatrix() *matrix.Mat
	// OutputMatrix returns the observation matrix H
	OutputMatrix() *matrix.Mat
}

// InitCond is initial state condition of the filter.
type InitCond interface {
	// Dim returns the state dimension
	Dim() int
	// State returns initial filter state
	State() *matrix.Vec
	// Cov returns initial state covariance
	Cov() *matrix.Mat
}

// Estimate is dynamical system filter estimate.
type Estimate interface {
	// Dim returns the estimate dimension
	Dim() int
	// Val returns estimate value
	Val() *matrix.Vec
	// Cov returns estimate covariance
	Cov() *matrix.Mat
}

// Noise is dynamical system noise.
type Noise interface {
	// Dim returns noise dimension
	Dim() int
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() *matrix.Mat
	// Sample returns a sample of the noise
	Sample() *matrix.Vec
	// Reset resets the noise
	Reset() error
}
