package sim

import (
	"fmt"

	filter "github.com/deepdive/go-kalman"
	"github.com/deepdive/go-kalman/matrix"
)

// Simulate runs the discrete model m from the initial state x0 for steps steps
// without control input. Process noise q is added on every propagation and
// measurement noise r on every observation; either may be nil.
// It returns the true state and the measurement sequences.
func Simulate(m *Discrete, x0 *matrix.Vec, q, r filter.Noise, steps int) ([]matrix.Vec, []matrix.Vec, error) {
	if m == nil || x0 == nil {
		return nil, nil, fmt.Errorf("invalid model or initial state")
	}

	if m.U > 0 {
		return nil, nil, fmt.Errorf("simulation of controlled models is not supported")
	}

	if steps < 0 {
		return nil, nil, fmt.Errorf("invalid number of steps: %d", steps)
	}

	truth := make([]matrix.Vec, steps)
	meas := make([]matrix.Vec, steps)

	x := x0
	for i := 0; i < steps; i++ {
		var w, v *matrix.Vec
		if q != nil {
			w = q.Sample()
		}
		if r != nil {
			v = r.Sample()
		}

		next, err := m.Propagate(x, nil, w)
		if err != nil {
			return nil, nil, fmt.Errorf("step %d: model state propagation failed: %v", i, err)
		}

		z, err := m.Observe(next, v)
		if err != nil {
			return nil, nil, fmt.Errorf("step %d: failed to observe system output: %v", i, err)
		}

		truth[i], meas[i] = *next, *z
		x = next
	}

	return truth, meas, nil
}
