package main

import (
	"fmt"
	"os"

	"github.com/deepdive/go-kalman/kalman/kf"
	"github.com/deepdive/go-kalman/sim"
	"github.com/deepdive/go-kalman/state"
	"gopkg.in/yaml.v3"
)

// Scenario describes a simulation run.
type Scenario struct {
	// Steps is the number of filter steps
	Steps int `yaml:"steps"`
	// Dt is the time step in seconds
	Dt float64 `yaml:"dt"`
	// Dim is the state dimension: 12, 24 or 36
	Dim int `yaml:"dim"`
	// Entities is the number of independently tracked bodies
	Entities int `yaml:"entities"`
	// ProcessNoise is the variance of the process noise
	ProcessNoise float64 `yaml:"process_noise"`
	// MeasurementNoise is the variance of every measured pose component, it must be positive
	MeasurementNoise float64 `yaml:"measurement_noise"`
	// InitialVariance is the diagonal of the initial state covariance
	InitialVariance float64 `yaml:"initial_variance"`
	// CovForm is the covariance update form: joseph, standard or symmetric
	CovForm string `yaml:"cov_form"`
	// Smooth enables the RTS smoother pass
	Smooth bool `yaml:"smooth"`
	// Seed seeds the noise sources
	Seed uint64 `yaml:"seed"`
}

// DefaultScenario returns the scenario every loaded scenario starts from.
func DefaultScenario() Scenario {
	return Scenario{
		Steps:            100,
		Dt:               0.1,
		Dim:              state.FullDim,
		Entities:         1,
		ProcessNoise:     0.01,
		MeasurementNoise: 0.25,
		InitialVariance:  1.0,
		CovForm:          kf.Joseph.String(),
		Seed:             1,
	}
}

// LoadScenario reads the scenario stored in YAML file path.
func LoadScenario(path string) (Scenario, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}

	return ParseScenario(content)
}

// ParseScenario parses a YAML scenario. Missing fields keep their defaults.
func ParseScenario(content []byte) (Scenario, error) {
	sc := DefaultScenario()
	if err := yaml.Unmarshal(content, &sc); err != nil {
		return Scenario{}, fmt.Errorf("invalid scenario: %w", err)
	}

	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}

	return sc, nil
}

// Validate checks the scenario values.
func (sc Scenario) Validate() error {
	if _, err := state.Blocks(sc.Dim); err != nil {
		return fmt.Errorf("invalid scenario dim: %w", err)
	}

	if sc.Steps <= 0 {
		return fmt.Errorf("invalid scenario steps: %d", sc.Steps)
	}

	if sc.Entities <= 0 {
		return fmt.Errorf("invalid scenario entities: %d", sc.Entities)
	}

	if sc.Dt <= 0 {
		return fmt.Errorf("invalid scenario dt: %v", sc.Dt)
	}

	if sc.ProcessNoise < 0 || sc.InitialVariance < 0 {
		return fmt.Errorf("invalid scenario: variances must not be negative")
	}

	// noiseless measurements collapse the covariance and make the next residual covariance singular
	if sc.MeasurementNoise <= 0 {
		return fmt.Errorf("invalid scenario measurement_noise: %v: must be positive", sc.MeasurementNoise)
	}

	if _, err := kf.ParseCovForm(sc.CovForm); err != nil {
		return err
	}

	return nil
}

// PoseConfig returns the pose model configuration of the scenario.
func (sc Scenario) PoseConfig() sim.PoseConfig {
	return sim.PoseConfig{
		Dim:                 sc.Dim,
		Dt:                  sc.Dt,
		ProcessVariance:     sc.ProcessNoise,
		MeasurementVariance: sc.MeasurementNoise,
	}
}
