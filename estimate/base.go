package estimate

import (
	"fmt"

	"github.com/deepdive/go-kalman/matrix"
)

// Base is base estimate
type Base struct {
	// n is the active estimate dimension
	n int
	// val is estimated value
	val matrix.Vec
	// cov is estimated covariance
	cov matrix.Mat
}

// NewBase returns base estimate of dimension n given val.
// Its covariance is zero. It returns error if n is invalid.
func NewBase(val *matrix.Vec, n int) (*Base, error) {
	if err := matrix.CheckDims(n); err != nil {
		return nil, fmt.Errorf("invalid estimate dimension: %w", err)
	}

	b := &Base{n: n}
	if val != nil {
		copy(b.val[:n], val[:n])
	}

	return b, nil
}

// NewBaseWithCov returns base estimate of dimension n given value and covariance.
// It returns error if n is invalid or either val or cov is nil.
func NewBaseWithCov(val *matrix.Vec, cov *matrix.Mat, n int) (*Base, error) {
	if err := matrix.CheckDims(n); err != nil {
		return nil, fmt.Errorf("invalid estimate dimension: %w", err)
	}

	if val == nil || cov == nil {
		return nil, fmt.Errorf("invalid estimate: val=%v cov=%v", val != nil, cov != nil)
	}

	b := &Base{n: n}
	copy(b.val[:n], val[:n])
	for i := 0; i < n; i++ {
		copy(b.cov[i][:n], cov[i][:n])
	}

	return b, nil
}

// Dim returns estimate dimension
func (b *Base) Dim() int {
	return b.n
}

// Val returns estimated value
func (b *Base) Val() *matrix.Vec {
	v := b.val
	return &v
}

// Cov returns covariance estimate
func (b *Base) Cov() *matrix.Mat {
	c := b.cov
	return &c
}

// String implements the Stringer interface.
func (b *Base) String() string {
	v := &matrix.Mat{}
	for i := 0; i < b.n; i++ {
		v[i][0] = b.val[i]
	}

	return fmt.Sprintf("Base{\nVal=%v\nCov=%v\n}", matrix.Format(v, b.n, 1), matrix.Format(&b.cov, b.n, b.n))
}
