package kf

import (
	"fmt"

	filter "github.com/deepdive/go-kalman"
	"github.com/deepdive/go-kalman/estimate"
	"github.com/deepdive/go-kalman/kalman"
	"github.com/deepdive/go-kalman/matrix"
	"github.com/deepdive/go-kalman/noise"
)

var _ kalman.Kalman = (*KF)(nil)

// KF is Kalman Filter.
// It owns the state and covariance of a single tracked entity and mutates
// them in place on every Predict and Update. A KF must not be used from
// multiple goroutines at once; distinct KFs are independent.
type KF struct {
	// m is KF system model
	m filter.Model
	// q is state noise a.k.a. process noise
	q filter.Noise
	// r is output noise a.k.a. measurement noise
	r filter.Noise
	// form is the covariance correction form
	form CovForm
	// ns, nu and nz are state, input and output dimensions
	ns, nu, nz int
	// x is the current state estimate
	x matrix.Vec
	// p is the current state covariance
	p matrix.Mat
	// inn holds the quantities of the last measurement update
	inn Innovation
}

// Option configures KF.
type Option func(*KF)

// WithCovForm sets the covariance form used by Update.
func WithCovForm(form CovForm) Option {
	return func(k *KF) {
		k.form = form
	}
}

// New creates new KF and returns it.
// It accepts the following parameters:
//   - m:      dynamical system model
//   - init:   initial condition of the filter
//   - q:      state noise a.k.a. process noise
//   - r:      output noise a.k.a. measurement noise
//
// Nil noise is replaced with noise.None.
// It returns error if either of the following conditions is met:
//   - invalid model is given: model dimensions must fit into matrix.Stride
//   - invalid initial condition is given: its dimension must match the model state
//   - invalid state or output noise is given: noise must either be None or match the model dimensions
func New(m filter.Model, init filter.InitCond, q, r filter.Noise, opts ...Option) (*KF, error) {
	if m == nil || init == nil {
		return nil, fmt.Errorf("invalid model or initial condition")
	}

	ns, nu, nz := m.Dims()
	if err := matrix.CheckDims(ns, nu, nz); err != nil {
		return nil, fmt.Errorf("invalid model dimensions [%d, %d, %d]: %w", ns, nu, nz, err)
	}

	if ns == 0 {
		return nil, fmt.Errorf("invalid model dimensions: empty state")
	}

	if m.StateMatrix() == nil || (nz > 0 && m.OutputMatrix() == nil) || (nu > 0 && m.ControlMatrix() == nil) {
		return nil, fmt.Errorf("invalid model: missing system matrices")
	}

	if init.Dim() != ns {
		return nil, fmt.Errorf("invalid initial condition dimension: %d != %d", init.Dim(), ns)
	}

	if q == nil {
		q, _ = noise.NewNone()
	}
	if q.Dim() != 0 && q.Dim() != ns {
		return nil, fmt.Errorf("invalid state noise dimension: %d != %d", q.Dim(), ns)
	}

	if r == nil {
		r, _ = noise.NewNone()
	}
	if r.Dim() != 0 && r.Dim() != nz {
		return nil, fmt.Errorf("invalid output noise dimension: %d != %d", r.Dim(), nz)
	}

	k := &KF{
		m:    m,
		q:    q,
		r:    r,
		form: Joseph,
		ns:   ns,
		nu:   nu,
		nz:   nz,
	}

	for _, opt := range opts {
		opt(k)
	}

	if err := matrix.CopyVec(&k.x, init.State(), ns); err != nil {
		return nil, err
	}
	if err := matrix.Copy(&k.p, init.Cov(), ns, ns); err != nil {
		return nil, err
	}

	return k, nil
}

// Predict propagates the filter state to the next step given the control input u
// and returns the predicted estimate. u may be nil if the model has no inputs.
// It returns error if the prediction fails, in which case the filter state is unchanged.
func (k *KF) Predict(u *matrix.Vec) (filter.Estimate, error) {
	if k.nu > 0 && u == nil {
		return nil, fmt.Errorf("missing input vector")
	}

	if err := Predict(&k.x, &k.p, &k.x, &k.p, k.m.StateMatrix(), k.m.ControlMatrix(), u, k.q.Cov(), k.ns, k.nu); err != nil {
		return nil, err
	}

	return estimate.NewBaseWithCov(&k.x, &k.p, k.ns)
}

// Update corrects the filter state using the measurement z and returns the corrected estimate.
// It returns error if the correction fails, in which case the filter state is unchanged.
func (k *KF) Update(z *matrix.Vec) (filter.Estimate, error) {
	if z == nil {
		return nil, fmt.Errorf("invalid measurement supplied: %v", z)
	}

	var inn Innovation
	if err := UpdateForm(k.form, &k.x, &k.p, &k.x, &k.p, k.m.OutputMatrix(), k.r.Cov(), z, k.nz, k.ns, &inn); err != nil {
		return nil, err
	}
	k.inn = inn

	return estimate.NewBaseWithCov(&k.x, &k.p, k.ns)
}

// Run runs one step of KF for given input u and measurement z.
// It corrects system state using measurement z and returns new system estimate.
// It returns error if it either fails to propagate or correct the state.
func (k *KF) Run(u, z *matrix.Vec) (filter.Estimate, error) {
	if _, err := k.Predict(u); err != nil {
		return nil, err
	}

	return k.Update(z)
}

// Model returns KF models
func (k *KF) Model() filter.Model {
	return k.m
}

// StateNoise returns state noise
func (k *KF) StateNoise() filter.Noise {
	return k.q
}

// OutputNoise returns output noise
func (k *KF) OutputNoise() filter.Noise {
	return k.r
}

// CovForm returns the covariance form used by Update.
func (k *KF) CovForm() CovForm {
	return k.form
}

// State returns KF state estimate
func (k *KF) State() *matrix.Vec {
	x := k.x
	return &x
}

// SetState sets KF state estimate to x.
// It returns error if x is nil.
func (k *KF) SetState(x *matrix.Vec) error {
	if x == nil {
		return fmt.Errorf("invalid state vector: %v", x)
	}

	return matrix.CopyVec(&k.x, x, k.ns)
}

// Cov returns KF covariance
func (k *KF) Cov() *matrix.Mat {
	p := k.p
	return &p
}

// SetCov sets KF covariance matrix to cov.
// It returns error if cov is nil, not finite or not symmetric within rounding.
func (k *KF) SetCov(cov *matrix.Mat) error {
	if cov == nil {
		return fmt.Errorf("invalid covariance matrix: %v", cov)
	}

	if !matrix.IsFinite(cov, k.ns, k.ns) {
		return fmt.Errorf("covariance matrix: %w", matrix.ErrNonFinite)
	}

	if !matrix.IsSymmetric(cov, k.ns) {
		return fmt.Errorf("covariance matrix is not symmetric: %g", matrix.MaxAsymmetry(cov, k.ns))
	}

	return matrix.Copy(&k.p, cov, k.ns, k.ns)
}

// Gain returns Kalman gain of the last update
func (k *KF) Gain() *matrix.Mat {
	g := k.inn.K
	return &g
}

// Innovation returns the measurement residual of the last update
func (k *KF) Innovation() *matrix.Vec {
	y := k.inn.Y
	return &y
}

// NIS returns the normalized innovation squared of the last update.
// It is chi-square distributed with as many degrees of freedom as there
// are measurements when the filter is consistent.
func (k *KF) NIS() float64 {
	return k.inn.NIS
}
