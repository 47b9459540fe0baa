package rand

import (
	"fmt"
	"math"

	"github.com/deepdive/go-kalman/matrix"
	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws zero-mean samples shaped by a fixed covariance matrix.
// Unlike distmv.Normal it accepts positive semi-definite covariances,
// which is what a process noise matrix with noiseless components looks like.
type Sampler struct {
	n    int
	u    *mat.Dense
	norm distuv.Normal
}

// NewSampler creates new Sampler for the n x n block of cov seeded with seed.
// It fails with error if n is invalid or the SVD factorization of cov fails.
func NewSampler(cov *matrix.Mat, n int, seed uint64) (*Sampler, error) {
	if err := matrix.CheckDims(n); err != nil {
		return nil, fmt.Errorf("invalid sampler dimension: %w", err)
	}

	s := &Sampler{
		n:    n,
		norm: distuv.Normal{Mu: 0, Sigma: 1, Src: exprand.New(exprand.NewSource(seed))},
	}

	if n == 0 {
		return s, nil
	}

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, cov[i][j])
		}
	}

	// Use SVD instead of Cholesky as Cholesky can be numerically unstable if cov is (almost) singular
	var svd mat.SVD
	if ok := svd.Factorize(sym, mat.SVDFull); !ok {
		return nil, fmt.Errorf("SVD factorization failed")
	}

	U := new(mat.Dense)
	svd.UTo(U)
	vals := svd.Values(nil)
	for i := range vals {
		vals[i] = math.Sqrt(vals[i])
	}
	U.Mul(U, mat.NewDiagDense(len(vals), vals))
	s.u = U

	return s, nil
}

// Sample stores a new sample in the leading entries of dst.
func (s *Sampler) Sample(dst *matrix.Vec) {
	if s.n == 0 {
		return
	}

	z := mat.NewVecDense(s.n, nil)
	for i := 0; i < s.n; i++ {
		z.SetVec(i, s.norm.Rand())
	}
	x := mat.NewVecDense(s.n, nil)
	x.MulVec(s.u, z)

	for i := 0; i < s.n; i++ {
		dst[i] = x.AtVec(i)
	}
}

// WithCovN draws n random samples from a zero-mean Normal (aka Gaussian) distribution
// with covariance given by the d x d block of cov.
// It returns matrix which contains the randomly generated samples stored in its columns.
// It fails with error if n is non-positive or if SVD factorization of cov fails.
func WithCovN(cov *matrix.Mat, d, n int, seed uint64) (*mat.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid number of samples requested: %d", n)
	}

	s, err := NewSampler(cov, d, seed)
	if err != nil {
		return nil, err
	}

	if d == 0 {
		return nil, fmt.Errorf("invalid sample dimension: %d", d)
	}

	samples := mat.NewDense(d, n, nil)
	v := &matrix.Vec{}
	for j := 0; j < n; j++ {
		s.Sample(v)
		samples.SetCol(j, v[:d])
	}

	return samples, nil
}
