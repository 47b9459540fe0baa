package sim

import (
	"fmt"

	"github.com/deepdive/go-kalman/matrix"
	mx "github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// Continuous is a basic model of a linear, continuous-time, dynamical system
type Continuous struct {
	System
}

// NewContinuous creates a linear continuous-time model based on the control theory equations.
//
//	dx/dt = F*x + B*u + w
//	z = H*x + v
func NewContinuous(F, B, H *matrix.Mat, s, u, o int) (*Continuous, error) {
	sys, err := newSystem(F, B, H, s, u, o)
	if err != nil {
		return nil, err
	}

	return &Continuous{System: sys}, nil
}

// ToDiscrete creates a discrete-time model from a continuous time model
// using ts as the sampling time.
//
// The transition matrix is the matrix exponential exp(F*ts) and the
// control matrix is integrate(exp(F*t), 0, ts)*B.
func (ct *Continuous) ToDiscrete(ts float64) (*Discrete, error) {
	if ts <= 0 {
		return nil, fmt.Errorf("invalid sampling time: %v", ts)
	}

	n := ct.S
	if n == 0 {
		return NewDiscrete(ct.F, ct.B, ct.H, ct.S, ct.U, ct.O)
	}

	// continuous -> discrete time conversion
	// See Discrete-Time Control Systems by Katsuhiko Ogata
	// Eq. (5-73) p. 315  Second Edition (Spanish)
	A := matrix.Dense(ct.F, n, n)
	At := &mat.Dense{}
	At.Scale(ts, A)
	Ad := &mat.Dense{}
	Ad.Exp(At)

	F := &matrix.Mat{}
	if _, _, err := matrix.FromMatrix(F, Ad); err != nil {
		return nil, err
	}

	if ct.U == 0 {
		return NewDiscrete(F, nil, ct.H, ct.S, ct.U, ct.O)
	}

	Bd := &mat.Dense{}
	Aaux := mat.NewDense(n, n, nil)
	// Given A is not singular, the following is valid
	// Bd(Ts) = (exp(A*Ts) - I)*inv(A)*B  Eq. (5-74 bis) Ogata
	eye, err := mx.NewDenseValIdentity(n, 1.0)
	if err != nil {
		return nil, err
	}
	Aaux.Sub(Ad, eye)

	Ainv := mat.NewDense(n, n, nil)
	if err := Ainv.Inverse(A); err == nil {
		Aaux.Mul(Aaux, Ainv)
		Bd.Mul(Aaux, matrix.Dense(ct.B, n, ct.U))
	} else {
		// if A matrix is singular we integrate exp(A*t) from 0 to Ts
		// using the trapezoidal rule: Bd = integrate( exp(A*t)dt, 0, Ts ) * B   Eq. (5-74) Ogata
		const steps = 100
		dt := ts / steps
		Asum := mat.NewDense(n, n, nil)
		for i := 0; i <= steps; i++ {
			At.Scale(dt*float64(i), A)
			Aaux.Exp(At)
			w := dt
			if i == 0 || i == steps {
				w = dt / 2
			}
			Aaux.Scale(w, Aaux)
			Asum.Add(Asum, Aaux)
		}
		Bd.Mul(Asum, matrix.Dense(ct.B, n, ct.U))
	}

	B := &matrix.Mat{}
	if _, _, err := matrix.FromMatrix(B, Bd); err != nil {
		return nil, err
	}

	return NewDiscrete(F, B, ct.H, ct.S, ct.U, ct.O)
}

// Propagate propagates the internal state x of a linear, continuous-time system
// by a timestep dt given an input vector u and process noise w using Euler's method.
// Both u and w may be nil.
func (ct *Continuous) Propagate(x, u, w *matrix.Vec, dt float64) (*matrix.Vec, error) {
	if x == nil {
		return nil, fmt.Errorf("invalid state vector")
	}

	if ct.U > 0 && u == nil {
		return nil, fmt.Errorf("invalid input vector")
	}

	// dx/dt = F*x + B*u + w
	dx := &matrix.Vec{}
	if err := matrix.MulVec(dx, ct.F, x, ct.S, ct.S); err != nil {
		return nil, err
	}

	if ct.U > 0 {
		du := &matrix.Vec{}
		if err := matrix.MulVec(du, ct.B, u, ct.S, ct.U); err != nil {
			return nil, err
		}
		if err := matrix.AddVec(dx, dx, du, ct.S); err != nil {
			return nil, err
		}
	}

	if w != nil {
		if err := matrix.AddVec(dx, dx, w, ct.S); err != nil {
			return nil, err
		}
	}

	out := &matrix.Vec{}
	for i := 0; i < ct.S; i++ {
		out[i] = x[i] + dt*dx[i]
	}

	return out, nil
}
