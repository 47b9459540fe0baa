package rts

import (
	"fmt"

	filter "github.com/deepdive/go-kalman"
	"github.com/deepdive/go-kalman/estimate"
	"github.com/deepdive/go-kalman/kalman/kf"
	"github.com/deepdive/go-kalman/matrix"
	"github.com/deepdive/go-kalman/noise"
	"github.com/deepdive/go-kalman/smooth"
)

var _ smooth.RTS = (*RTS)(nil)

// RTS is Rauch-Tung-Striebel smoother
type RTS struct {
	// q is state noise a.k.a. process noise
	q filter.Noise
	// m is system model
	m filter.Model
	// ns and nu are state and input dimensions
	ns, nu int
}

// New creates new RTS and returns it.
// It returns error if the model dimensions are invalid or the state noise does not match them.
func New(m filter.Model, q filter.Noise) (*RTS, error) {
	if m == nil {
		return nil, fmt.Errorf("invalid model")
	}

	ns, nu, _ := m.Dims()
	if err := matrix.CheckDims(ns, nu); err != nil {
		return nil, fmt.Errorf("invalid model dimensions [%d, %d]: %w", ns, nu, err)
	}

	if ns == 0 {
		return nil, fmt.Errorf("invalid model dimensions: empty state")
	}

	if q == nil {
		q, _ = noise.NewNone()
	}
	if q.Dim() != 0 && q.Dim() != ns {
		return nil, fmt.Errorf("invalid state noise dimension: %d", q.Dim())
	}

	return &RTS{
		q:  q,
		m:  m,
		ns: ns,
		nu: nu,
	}, nil
}

// Smooth implements Rauch-Tung-Striebel smoothing algorithm.
// It uses the filtered estimates est to compute smoothed estimates and returns them.
// It returns error if either est is nil or smoothing could not be computed.
func (s *RTS) Smooth(est []filter.Estimate) ([]filter.Estimate, error) {
	return s.SmoothInput(est, nil)
}

// SmoothInput works like Smooth for models with control inputs: u[i] is the
// input which propagated est[i] to est[i+1].
func (s *RTS) SmoothInput(est []filter.Estimate, u []matrix.Vec) ([]filter.Estimate, error) {
	if est == nil {
		return nil, fmt.Errorf("invalid estimates size")
	}

	if s.nu > 0 && len(u) < len(est)-1 {
		return nil, fmt.Errorf("invalid input vector size: %d", len(u))
	}

	for i := range est {
		if est[i] == nil || est[i].Dim() != s.ns {
			return nil, fmt.Errorf("invalid estimate %d", i)
		}
	}

	sx := make([]filter.Estimate, len(est))
	if len(est) == 0 {
		return sx, nil
	}

	n := len(est) - 1
	sx[n] = est[n]

	// smoothed state and covariance of the step ahead
	xs, ps := est[n].Val(), est[n].Cov()

	q := s.q.Cov()
	for i := n - 1; i >= 0; i-- {
		xk, pk := est[i].Val(), est[i].Cov()

		var uk *matrix.Vec
		if s.nu > 0 {
			uk = &u[i]
		}

		// propagate state and covariance to the next step
		xk1, pk1 := &matrix.Vec{}, &matrix.Mat{}
		if err := kf.Predict(xk1, pk1, xk, pk, s.m.StateMatrix(), s.m.ControlMatrix(), uk, q, s.ns, s.nu); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		// Pk*Fk'*inv(P_(k+1))
		var pft, pinv, c matrix.Mat
		if err := matrix.MulTrans(&pft, pk, s.m.StateMatrix(), s.ns, s.ns, s.ns); err != nil {
			return nil, err
		}
		if err := matrix.Invert(&pinv, pk1, s.ns); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if err := matrix.Mul(&c, &pft, &pinv, s.ns, s.ns, s.ns); err != nil {
			return nil, err
		}

		var x matrix.Vec
		var p matrix.Mat
		if err := s.correct(&x, &p, xk, pk, xs, ps, xk1, pk1, &c); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		if !matrix.IsFiniteVec(&x, s.ns) || !matrix.IsFinite(&p, s.ns, s.ns) {
			return nil, fmt.Errorf("step %d: %w", i, matrix.ErrNonFinite)
		}

		e, err := estimate.NewBaseWithCov(&x, &p, s.ns)
		if err != nil {
			return nil, err
		}
		sx[i] = e
		xs, ps = &x, &p
	}

	return sx, nil
}

// correct stores the smoothed state and covariance of a step in x and p given
// the smoother gain c and the prediction xk1, pk1 of the step ahead.
func (s *RTS) correct(x *matrix.Vec, p *matrix.Mat, xk *matrix.Vec, pk *matrix.Mat, xs *matrix.Vec, ps *matrix.Mat, xk1 *matrix.Vec, pk1, c *matrix.Mat) error {
	// xk + Ck*(xs_(k+1) - x_(k+1))
	var dx matrix.Vec
	if err := matrix.SubVec(&dx, xs, xk1, s.ns); err != nil {
		return err
	}
	if err := matrix.MulVec(&dx, c, &dx, s.ns, s.ns); err != nil {
		return err
	}
	if err := matrix.AddVec(x, xk, &dx, s.ns); err != nil {
		return err
	}

	// Pk + Ck*(Ps_(k+1) - P_(k+1))*Ck'
	var dp matrix.Mat
	if err := matrix.Sub(&dp, ps, pk1, s.ns, s.ns); err != nil {
		return err
	}
	if err := matrix.Mul(&dp, c, &dp, s.ns, s.ns, s.ns); err != nil {
		return err
	}
	if err := matrix.MulTrans(&dp, &dp, c, s.ns, s.ns, s.ns); err != nil {
		return err
	}
	if err := matrix.Add(p, pk, &dp, s.ns, s.ns); err != nil {
		return err
	}

	return matrix.Symmetrize(p, p, s.ns)
}
