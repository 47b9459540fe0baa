package sim

import (
	"fmt"

	"github.com/deepdive/go-kalman/matrix"
)

// Discrete is a basic model of a linear, discrete-time, dynamical system
type Discrete struct {
	System
}

// NewDiscrete creates a linear discrete-time model based on the control theory equations.
//
//	x[n+1] = F*x[n] + B*u[n] + w[n]
//	z[n] = H*x[n] + v[n]
//
// The active blocks of F (s x s), B (s x u) and H (o x s) are copied.
func NewDiscrete(F, B, H *matrix.Mat, s, u, o int) (*Discrete, error) {
	sys, err := newSystem(F, B, H, s, u, o)
	if err != nil {
		return nil, err
	}

	return &Discrete{System: sys}, nil
}

// Propagate returns the next internal state x of a linear, discrete-time system
// given an input vector u and process noise w. Both u and w may be nil.
func (d *Discrete) Propagate(x, u, w *matrix.Vec) (*matrix.Vec, error) {
	if x == nil {
		return nil, fmt.Errorf("invalid state vector")
	}

	if d.U > 0 && u == nil {
		return nil, fmt.Errorf("invalid input vector")
	}

	out := &matrix.Vec{}
	if err := matrix.MulVec(out, d.F, x, d.S, d.S); err != nil {
		return nil, err
	}

	if d.U > 0 {
		outU := &matrix.Vec{}
		if err := matrix.MulVec(outU, d.B, u, d.S, d.U); err != nil {
			return nil, err
		}
		if err := matrix.AddVec(out, out, outU, d.S); err != nil {
			return nil, err
		}
	}

	if w != nil {
		if err := matrix.AddVec(out, out, w, d.S); err != nil {
			return nil, err
		}
	}

	return out, nil
}
