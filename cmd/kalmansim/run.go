package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/alecthomas/kong"
	filter "github.com/deepdive/go-kalman"
	"github.com/deepdive/go-kalman/kalman/kf"
	"github.com/deepdive/go-kalman/matrix"
	"github.com/deepdive/go-kalman/noise"
	"github.com/deepdive/go-kalman/sim"
	"github.com/deepdive/go-kalman/smooth/rts"
	"github.com/deepdive/go-kalman/state"
	gometrics "github.com/rcrowley/go-metrics"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/vg"
)

// RunCmd runs a simulation scenario.
type RunCmd struct {
	Config string `name:"config" short:"c" required:"" type:"existingfile" help:"scenario YAML file"`
	Plot   string `name:"plot" help:"save the X/Y track of the first entity to this image file"`
	Style  string `name:"style" default:"light" enum:"default,bold,double,light,round" help:"summary table style"`

	LogConfig `embed:""`
}

// Run runs the run command.
func (r *RunCmd) Run(kctx *kong.Context) error {
	log, closer := newLogger(r.LogConfig)
	defer closer.Close()

	sc, err := LoadScenario(r.Config)
	if err != nil {
		log.Error("failed to load scenario", "config", r.Config, "error", err)
		return err
	}

	m := newMetrics()
	results, err := runScenario(context.Background(), sc, m, log)
	if err != nil {
		log.Error("simulation failed", "error", err)
		return err
	}

	if err := writeReport(kctx.Stdout, r.Style, results, m); err != nil {
		return err
	}

	if r.Plot != "" {
		p, err := sim.NewTrackPlot(results[0].Truth, results[0].Meas, results[0].Filtered, state.X, state.Y)
		if err != nil {
			return err
		}

		if err := p.Save(5*vg.Inch, 5*vg.Inch, r.Plot); err != nil {
			log.Error("failed to save plot", "path", r.Plot, "error", err)
			return err
		}
		log.Info("plot saved", "path", r.Plot)
	}

	return nil
}

// Metrics holds the filter step timers.
type Metrics struct {
	Predict gometrics.Timer
	Update  gometrics.Timer
	Smooth  gometrics.Timer
	Errors  gometrics.Counter
}

func newMetrics() *Metrics {
	r := gometrics.NewRegistry()
	return &Metrics{
		Predict: gometrics.NewRegisteredTimer("kf.predict", r),
		Update:  gometrics.NewRegisteredTimer("kf.update", r),
		Smooth:  gometrics.NewRegisteredTimer("rts.smooth", r),
		Errors:  gometrics.NewRegisteredCounter("kf.errors", r),
	}
}

// Result is the outcome of tracking a single entity.
type Result struct {
	Entity int
	// Truth, Meas and Filtered are the true, measured and filtered states of every step
	Truth, Meas, Filtered []matrix.Vec
	// Smoothed holds the RTS smoothed states if smoothing was enabled
	Smoothed []matrix.Vec
	// MeasRMS, FilterRMS and SmoothRMS are position errors against the truth
	MeasRMS, FilterRMS, SmoothRMS float64
	// NIS is the mean normalized innovation squared
	NIS float64
}

// runScenario tracks every entity of the scenario in its own goroutine.
func runScenario(ctx context.Context, sc Scenario, m *Metrics, log *slog.Logger) ([]Result, error) {
	cfg := sc.PoseConfig()

	model, err := sim.NewPoseModel(cfg)
	if err != nil {
		return nil, err
	}

	form, err := kf.ParseCovForm(sc.CovForm)
	if err != nil {
		return nil, err
	}

	results := make([]Result, sc.Entities)

	g, ctx := errgroup.WithContext(ctx)
	for e := 0; e < sc.Entities; e++ {
		g.Go(func() error {
			res, err := trackEntity(ctx, sc, model, form, e, m)
			if err != nil {
				m.Errors.Inc(1)
				return fmt.Errorf("entity %d: %w", e, err)
			}
			log.Debug("entity tracked", "entity", e, "filter_rms", res.FilterRMS, "nis", res.NIS)
			results[e] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("scenario done", "entities", sc.Entities, "steps", sc.Steps, "dim", sc.Dim, "cov_form", form)

	return results, nil
}

// trackEntity simulates a single entity and filters its measurements.
// Every entity owns its noise sources since sampling is not safe for concurrent use.
func trackEntity(ctx context.Context, sc Scenario, model *sim.Discrete, form kf.CovForm, e int, m *Metrics) (Result, error) {
	cfg := sc.PoseConfig()
	seed := sc.Seed + uint64(e)*1000

	qCov, rCov := &matrix.Mat{}, &matrix.Mat{}
	if err := sim.PoseProcessNoise(qCov, cfg); err != nil {
		return Result{}, err
	}
	if err := sim.PoseMeasurementNoise(rCov, cfg); err != nil {
		return Result{}, err
	}

	q, err := noise.NewGaussianWithSeed(make([]float64, sc.Dim), qCov, seed)
	if err != nil {
		return Result{}, err
	}
	r, err := noise.NewGaussianWithSeed(make([]float64, state.BlockSize), rCov, seed+1)
	if err != nil {
		return Result{}, err
	}

	// entities start on a line along X and move diagonally if the model has velocities
	x0 := &matrix.Vec{}
	if err := state.Identity(x0, sc.Dim); err != nil {
		return Result{}, err
	}
	state.SetPosition(x0, state.Pose, [3]float64{float64(e), 0, 0})
	if sc.Dim >= state.PoseVelDim {
		state.SetPosition(x0, state.Velocity, [3]float64{1, 0.5, 0})
	}

	truth, meas, err := sim.Simulate(model, x0, q, r, sc.Steps)
	if err != nil {
		return Result{}, err
	}

	xInit := &matrix.Vec{}
	if err := state.Identity(xInit, sc.Dim); err != nil {
		return Result{}, err
	}
	pInit := &matrix.Mat{}
	if err := matrix.Identity(pInit, sc.Dim); err != nil {
		return Result{}, err
	}
	if err := matrix.Scale(pInit, sc.InitialVariance, pInit, sc.Dim, sc.Dim); err != nil {
		return Result{}, err
	}

	init, err := sim.NewInitCond(xInit, pInit, sc.Dim)
	if err != nil {
		return Result{}, err
	}

	f, err := kf.New(model, init, q, r, kf.WithCovForm(form))
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Entity:   e,
		Truth:    truth,
		Meas:     meas,
		Filtered: make([]matrix.Vec, sc.Steps),
	}

	est := make([]filter.Estimate, sc.Steps)
	for k := 0; k < sc.Steps; k++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		start := time.Now()
		if _, err := f.Predict(nil); err != nil {
			return Result{}, fmt.Errorf("step %d: %w", k, err)
		}
		m.Predict.UpdateSince(start)

		start = time.Now()
		est[k], err = f.Update(&meas[k])
		if err != nil {
			return Result{}, fmt.Errorf("step %d: %w", k, err)
		}
		m.Update.UpdateSince(start)

		res.Filtered[k] = *est[k].Val()
		res.NIS += f.NIS()
	}
	res.NIS /= float64(sc.Steps)

	res.MeasRMS = positionRMS(truth, meas)
	res.FilterRMS = positionRMS(truth, res.Filtered)

	if sc.Smooth {
		s, err := rts.New(model, q)
		if err != nil {
			return Result{}, err
		}

		start := time.Now()
		sx, err := s.Smooth(est)
		if err != nil {
			return Result{}, fmt.Errorf("smoothing: %w", err)
		}
		m.Smooth.UpdateSince(start)

		res.Smoothed = make([]matrix.Vec, len(sx))
		for k := range sx {
			res.Smoothed[k] = *sx[k].Val()
		}
		res.SmoothRMS = positionRMS(truth, res.Smoothed)
	}

	return res, nil
}

// positionRMS returns the root mean square distance between the positions of want and got.
func positionRMS(want, got []matrix.Vec) float64 {
	if len(want) == 0 || len(want) != len(got) {
		return math.NaN()
	}

	var sum float64
	for i := range want {
		w := state.Position(&want[i], state.Pose)
		g := state.Position(&got[i], state.Pose)
		for a := range w {
			d := w[a] - g[a]
			sum += d * d
		}
	}

	return math.Sqrt(sum / float64(len(want)))
}
