package sim

import (
	"fmt"

	"github.com/deepdive/go-kalman/matrix"
)

// System defines a linear model of a plant using
// traditional matrices of modern control theory.
//
// It contains the state transition (F), control input (B) and
// observation (H) matrices along with the state (S), input (U)
// and output (O) dimensions of their active blocks.
type System struct {
	// State transition matrix F
	F *matrix.Mat
	// Control input matrix B
	B *matrix.Mat
	// Observation matrix H
	H *matrix.Mat
	// S, U and O are state, input and output dimensions
	S, U, O int
}

func newSystem(F, B, H *matrix.Mat, s, u, o int) (System, error) {
	if err := matrix.CheckDims(s, u, o); err != nil {
		return System{}, fmt.Errorf("invalid system dimensions [%d, %d, %d]: %w", s, u, o, err)
	}

	if F == nil {
		return System{}, fmt.Errorf("system matrix must be defined for a model")
	}

	if u > 0 && B == nil {
		return System{}, fmt.Errorf("control matrix must be defined for %d inputs", u)
	}

	if o > 0 && H == nil {
		return System{}, fmt.Errorf("observation matrix must be defined for %d outputs", o)
	}

	sys := System{F: &matrix.Mat{}, S: s, U: u, O: o}
	if err := matrix.Copy(sys.F, F, s, s); err != nil {
		return System{}, err
	}
	if u > 0 {
		sys.B = &matrix.Mat{}
		if err := matrix.Copy(sys.B, B, s, u); err != nil {
			return System{}, err
		}
	}
	if o > 0 {
		sys.H = &matrix.Mat{}
		if err := matrix.Copy(sys.H, H, o, s); err != nil {
			return System{}, err
		}
	}

	return sys, nil
}

// Dims returns state (s), input (u) and output (o) dimensions.
func (s System) Dims() (int, int, int) {
	return s.S, s.U, s.O
}

// StateMatrix returns state transition matrix F.
func (s System) StateMatrix() *matrix.Mat { return s.F }

// ControlMatrix returns control input matrix B.
func (s System) ControlMatrix() *matrix.Mat { return s.B }

// OutputMatrix returns observation matrix H.
func (s System) OutputMatrix() *matrix.Mat { return s.H }

// Observe returns external/observable state given internal state x.
// v is added to the output as a noise vector unless it is nil.
func (s System) Observe(x, v *matrix.Vec) (*matrix.Vec, error) {
	if x == nil {
		return nil, fmt.Errorf("invalid state vector")
	}

	y := &matrix.Vec{}
	if s.O == 0 {
		return y, nil
	}

	if err := matrix.MulVec(y, s.H, x, s.O, s.S); err != nil {
		return nil, err
	}

	if v != nil {
		if err := matrix.AddVec(y, y, v, s.O); err != nil {
			return nil, err
		}
	}

	return y, nil
}
