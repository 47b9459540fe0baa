package sim

import (
	"fmt"

	"github.com/deepdive/go-kalman/matrix"
)

// InitCond implements filter.InitCond
type InitCond struct {
	n     int
	state matrix.Vec
	cov   matrix.Mat
}

// NewInitCond creates new InitCond of dimension n and returns it.
// It returns error if n is invalid or either state or cov is nil.
func NewInitCond(state *matrix.Vec, cov *matrix.Mat, n int) (*InitCond, error) {
	if err := matrix.CheckDims(n); err != nil {
		return nil, fmt.Errorf("invalid initial condition dimension: %w", err)
	}

	if state == nil || cov == nil {
		return nil, fmt.Errorf("invalid initial condition")
	}

	c := &InitCond{n: n}
	if err := matrix.CopyVec(&c.state, state, n); err != nil {
		return nil, err
	}
	if err := matrix.Copy(&c.cov, cov, n, n); err != nil {
		return nil, err
	}

	return c, nil
}

// Dim returns initial condition dimension
func (c *InitCond) Dim() int {
	return c.n
}

// State returns initial state
func (c *InitCond) State() *matrix.Vec {
	s := c.state
	return &s
}

// Cov returns initial covariance
func (c *InitCond) Cov() *matrix.Mat {
	cov := c.cov
	return &cov
}
