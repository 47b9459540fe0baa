package sim

import (
	"fmt"
	"math"

	"github.com/deepdive/go-kalman/matrix"
	"github.com/deepdive/go-kalman/state"
)

// PoseConfig configures a pose motion model.
type PoseConfig struct {
	// Dim is the state dimension: state.PoseDim, state.PoseVelDim or state.FullDim
	Dim int
	// Dt is the time step in seconds
	Dt float64
	// ProcessVariance is the variance of the white noise driving the highest derivative
	ProcessVariance float64
	// MeasurementVariance is the variance of each measured pose component
	MeasurementVariance float64
}

// NewPoseModel returns a kinematic model of a rigid body pose over the state layout.
//
// A state.PoseDim state is a random walk, state.PoseVelDim adds constant
// velocity and state.FullDim constant acceleration kinematics. Every pose
// component (position and the three basis vectors) is measured directly,
// so the model has state.BlockSize outputs and no control inputs.
func NewPoseModel(cfg PoseConfig) (*Discrete, error) {
	nb, err := state.Blocks(cfg.Dim)
	if err != nil {
		return nil, err
	}

	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("invalid time step: %v", cfg.Dt)
	}

	F := &matrix.Mat{}
	if err := matrix.Identity(F, cfg.Dim); err != nil {
		return nil, err
	}

	// block (i, j) with j > i integrates derivative j-i over dt
	for i := 0; i < nb; i++ {
		for j := i + 1; j < nb; j++ {
			k := j - i
			c := math.Pow(cfg.Dt, float64(k)) / factorial(k)
			for e := 0; e < state.BlockSize; e++ {
				F[i*state.BlockSize+e][j*state.BlockSize+e] = c
			}
		}
	}

	H := &matrix.Mat{}
	for e := 0; e < state.BlockSize; e++ {
		H[e][state.Pose+e] = 1
	}

	return NewDiscrete(F, nil, H, cfg.Dim, 0, state.BlockSize)
}

// PoseProcessNoise stores the process noise covariance of the pose model in q.
// The noise is a white noise on the highest modelled derivative, discretized
// as q = G*G'*variance with G_i = dt^(n-i)/(n-i)! for block i of n.
func PoseProcessNoise(q *matrix.Mat, cfg PoseConfig) error {
	nb, err := state.Blocks(cfg.Dim)
	if err != nil {
		return err
	}

	g := make([]float64, nb)
	for i := range g {
		k := nb - i
		g[i] = math.Pow(cfg.Dt, float64(k)) / factorial(k)
	}

	if err := matrix.Zero(q, cfg.Dim, cfg.Dim); err != nil {
		return err
	}

	for i := 0; i < nb; i++ {
		for j := 0; j < nb; j++ {
			v := cfg.ProcessVariance * g[i] * g[j]
			for e := 0; e < state.BlockSize; e++ {
				q[i*state.BlockSize+e][j*state.BlockSize+e] = v
			}
		}
	}

	return nil
}

// PoseMeasurementNoise stores the diagonal measurement noise covariance of the pose model in r.
func PoseMeasurementNoise(r *matrix.Mat, cfg PoseConfig) error {
	if err := matrix.Zero(r, state.BlockSize, state.BlockSize); err != nil {
		return err
	}

	for e := 0; e < state.BlockSize; e++ {
		r[e][e] = cfg.MeasurementVariance
	}

	return nil
}

func factorial(k int) float64 {
	f := 1.0
	for i := 2; i <= k; i++ {
		f *= float64(i)
	}

	return f
}
