package kalman

import (
	filter "github.com/deepdive/go-kalman"
	"github.com/deepdive/go-kalman/matrix"
)

// Kalman is Kalman Filter
type Kalman interface {
	// filter.Filter is dynamical system filter
	filter.Filter
	// Cov returns Kalman filter state covariance
	Cov() *matrix.Mat
	// Gain returns Kalman filter gain
	Gain() *matrix.Mat
}
