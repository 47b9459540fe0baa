package noise

import (
	"fmt"
	"time"

	"github.com/deepdive/go-kalman/matrix"
	"github.com/deepdive/go-kalman/rand"
	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Gaussian is gaussian noise
type Gaussian struct {
	// n is noise dimension
	n int
	// seed seeds the noise source
	seed uint64
	// dist is a multivariate normal distribution
	dist *distmv.Normal
	// svd samples semi-definite covariances dist can not handle
	svd *rand.Sampler
	// mean is Gaussian mean
	mean []float64
	// cov is Gaussian covariance
	cov matrix.Mat
}

// NewGaussian creates new Gaussian noise with given mean and covariance.
// The noise dimension is given by the length of mean and only the matching
// leading block of cov is used. The noise source is seeded from the current time.
// It returns error if it fails to create Gaussian.
func NewGaussian(mean []float64, cov *matrix.Mat) (*Gaussian, error) {
	return NewGaussianWithSeed(mean, cov, uint64(time.Now().UnixNano()))
}

// NewGaussianWithSeed creates new Gaussian noise with given mean and covariance
// whose samples are drawn from a source seeded with seed.
// It returns error if it fails to create Gaussian.
func NewGaussianWithSeed(mean []float64, cov *matrix.Mat, seed uint64) (*Gaussian, error) {
	n := len(mean)
	if err := matrix.CheckDims(n); err != nil {
		return nil, fmt.Errorf("invalid noise dimension: %w", err)
	}

	if cov == nil {
		return nil, fmt.Errorf("invalid noise covariance: %v", cov)
	}

	g := &Gaussian{
		n:    n,
		seed: seed,
		mean: make([]float64, n),
	}
	copy(g.mean, mean)
	if err := matrix.Copy(&g.cov, cov, n, n); err != nil {
		return nil, err
	}

	if !matrix.IsSymmetric(&g.cov, n) {
		return nil, fmt.Errorf("noise covariance is not symmetric")
	}

	if err := g.Reset(); err != nil {
		return nil, err
	}

	return g, nil
}

// Dim returns noise dimension.
func (g *Gaussian) Dim() int {
	return g.n
}

// Sample generates a sample from Gaussian noise and returns it.
func (g *Gaussian) Sample() *matrix.Vec {
	s := &matrix.Vec{}

	switch {
	case g.dist != nil:
		g.dist.Rand(s[:g.n])
	case g.svd != nil:
		g.svd.Sample(s)
		for i := 0; i < g.n; i++ {
			s[i] += g.mean[i]
		}
	}

	return s
}

// Cov returns covariance matrix of Gaussian noise.
func (g *Gaussian) Cov() *matrix.Mat {
	c := g.cov
	return &c
}

// Mean returns Gaussian mean.
func (g *Gaussian) Mean() []float64 {
	mean := make([]float64, len(g.mean))
	copy(mean, g.mean)

	return mean
}

// Reset resets Gaussian noise: it re-seeds the noise source.
// It returns error if it fails to reset the noise.
func (g *Gaussian) Reset() error {
	if g.n == 0 {
		return nil
	}

	seed := g.seed
	g.seed++

	sym := mat.NewSymDense(g.n, nil)
	for i := 0; i < g.n; i++ {
		for j := i; j < g.n; j++ {
			sym.SetSym(i, j, g.cov[i][j])
		}
	}

	src := exprand.New(exprand.NewSource(seed))
	if dist, ok := distmv.NewNormal(g.mean, sym, src); ok {
		g.dist, g.svd = dist, nil
		return nil
	}

	// covariance is not positive definite
	svd, err := rand.NewSampler(&g.cov, g.n, seed)
	if err != nil {
		return fmt.Errorf("failed to reset Gaussian noise: %v", err)
	}
	g.dist, g.svd = nil, svd

	return nil
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nMean=%v\nCov=%v\n}", g.mean, format(&g.cov, g.n))
}

func format(cov *matrix.Mat, n int) fmt.Formatter {
	d := matrix.Dense(cov, n, n)
	if d == nil {
		d = &mat.Dense{}
	}

	return mat.Formatted(d, mat.Prefix("    "), mat.Squeeze())
}
