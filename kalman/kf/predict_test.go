package kf

import (
	"math"
	"testing"

	"github.com/deepdive/go-kalman/matrix"
	"github.com/stretchr/testify/assert"
)

func TestPredictIdentity(t *testing.T) {
	assert := assert.New(t)

	for _, s := range []int{0, 1, 2, 12, 24, 36} {
		x := &matrix.Vec{}
		p := &matrix.Mat{}
		for i := 0; i < s; i++ {
			x[i] = float64(i) - 3.5
			for j := 0; j < s; j++ {
				p[i][j] = 1 / float64(1+i+j)
			}
		}
		x0, p0 := *x, *p

		f := &matrix.Mat{}
		assert.NoError(matrix.Identity(f, s))
		q := &matrix.Mat{}

		err := Predict(x, p, x, p, f, nil, nil, q, s, 0)
		assert.NoError(err, "dim %d", s)
		assert.Equal(x0, *x, "dim %d", s)
		assert.Equal(p0, *p, "dim %d", s)
	}
}

func TestPredictScalar(t *testing.T) {
	assert := assert.New(t)

	xp, pp := &matrix.Vec{}, &matrix.Mat{}
	x, _ := matrix.NewVec(0)
	p, _ := matrix.NewMat(1, 1, []float64{1})
	f, _ := matrix.NewMat(1, 1, []float64{1})
	q, _ := matrix.NewMat(1, 1, []float64{0.1})

	err := Predict(xp, pp, x, p, f, nil, nil, q, 1, 0)
	assert.NoError(err)
	assert.Equal(0.0, xp[0])
	assert.InDelta(1.1, pp[0][0], 1e-15)
}

func TestPredictControl(t *testing.T) {
	assert := assert.New(t)

	x, _ := matrix.NewVec(1.0, 3.0)
	p, _ := matrix.NewMat(2, 2, []float64{0.25, 0, 0, 0.25})
	f, _ := matrix.NewMat(2, 2, []float64{1.0, 1.0, 0.0, 1.0})
	b, _ := matrix.NewMat(2, 1, []float64{0.5, 1.0})
	u, _ := matrix.NewVec(-1.0)
	q, _ := matrix.NewMat(2, 2, []float64{0.1, 0, 0, 0.1})

	xp, pp := &matrix.Vec{}, &matrix.Mat{}
	err := Predict(xp, pp, x, p, f, b, u, q, 2, 1)
	assert.NoError(err)

	assert.InDelta(3.5, xp[0], 1e-12)
	assert.InDelta(2.0, xp[1], 1e-12)

	// F*P*F' + Q
	assert.InDelta(0.6, pp[0][0], 1e-12)
	assert.InDelta(0.25, pp[0][1], 1e-12)
	assert.InDelta(0.25, pp[1][0], 1e-12)
	assert.InDelta(0.35, pp[1][1], 1e-12)

	// missing control model
	err = Predict(xp, pp, x, p, f, nil, u, q, 2, 1)
	assert.Error(err)
}

func TestPredictSymmetric(t *testing.T) {
	assert := assert.New(t)

	s := 36
	x, p, f, q := &matrix.Vec{}, &matrix.Mat{}, &matrix.Mat{}, &matrix.Mat{}
	for i := 0; i < s; i++ {
		x[i] = math.Sin(float64(i))
		for j := 0; j < s; j++ {
			f[i][j] = math.Cos(float64(i*s+j)) / 6
		}
		for j := 0; j <= i; j++ {
			v := 1 / float64(1+i+j)
			p[i][j], p[j][i] = v, v
			q[i][j], q[j][i] = v/10, v/10
		}
	}

	for k := 0; k < 50; k++ {
		assert.NoError(Predict(x, p, x, p, f, nil, nil, q, s, 0))
		assert.Less(matrix.MaxAsymmetry(p, s), 1e-9)
	}
}

func TestPredictInvalidDimension(t *testing.T) {
	assert := assert.New(t)

	x, p, f, q := &matrix.Vec{}, &matrix.Mat{}, &matrix.Mat{}, &matrix.Mat{}
	x[0], p[0][0] = 5, 5
	x0, p0 := *x, *p

	for _, dims := range [][2]int{{matrix.Stride + 1, 0}, {-1, 0}, {2, matrix.Stride + 1}, {2, -1}} {
		err := Predict(x, p, x, p, f, f, x, q, dims[0], dims[1])
		assert.ErrorIs(err, matrix.ErrInvalidDimension)
		assert.Equal(x0, *x)
		assert.Equal(p0, *p)
	}
}

func TestPredictNonFinite(t *testing.T) {
	assert := assert.New(t)

	x, p, f, q := &matrix.Vec{}, &matrix.Mat{}, &matrix.Mat{}, &matrix.Mat{}
	assert.NoError(matrix.Identity(f, 2))
	assert.NoError(matrix.Identity(p, 2))
	f[0][1] = math.Inf(1)
	p0 := *p

	err := Predict(x, p, x, p, f, nil, nil, q, 2, 0)
	assert.ErrorIs(err, matrix.ErrNonFinite)
	assert.Equal(p0, *p)
}
