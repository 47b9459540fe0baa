package matrix

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

const delta = 1e-9

func randMat(rnd *rand.Rand, r, c int) *Mat {
	m := &Mat{}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m[i][j] = rnd.NormFloat64()
		}
	}

	return m
}

// wellConditioned returns a random diagonally dominant n x n matrix.
func wellConditioned(rnd *rand.Rand, n int) *Mat {
	m := randMat(rnd, n, n)
	for i := 0; i < n; i++ {
		m[i][i] += float64(n) + 1
	}

	return m
}

func fill(m *Mat, v float64) {
	for i := range m {
		for j := range m[i] {
			m[i][j] = v
		}
	}
}

func assertBlockEqual(t *testing.T, want mat.Matrix, got *Mat) {
	t.Helper()
	r, c := want.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.InDelta(t, want.At(i, j), got[i][j], delta, "element (%d, %d)", i, j)
		}
	}
}

func TestNewMatVec(t *testing.T) {
	assert := assert.New(t)

	m, err := NewMat(2, 3, []float64{1, 2, 3, 4, 5, 6})
	assert.NoError(err)
	assert.Equal(6.0, m[1][2])
	assert.Equal(0.0, m[2][0])

	m, err = NewMat(2, 3, []float64{1, 2})
	assert.Nil(m)
	assert.Error(err)

	m, err = NewMat(Stride+1, 1, nil)
	assert.Nil(m)
	assert.True(errors.Is(err, ErrInvalidDimension))

	v, err := NewVec(1, 2, 3)
	assert.NoError(err)
	assert.Equal(3.0, v[2])

	v, err = NewVec(make([]float64, Stride+1)...)
	assert.Nil(v)
	assert.True(errors.Is(err, ErrInvalidDimension))
}

func TestMul(t *testing.T) {
	assert := assert.New(t)
	rnd := rand.New(rand.NewSource(1))

	for _, test := range []struct {
		m, k, n int
	}{
		{1, 1, 1},
		{4, 3, 5},
		{6, 6, 6},
		{Stride, Stride, Stride},
		{12, 24, 3},
	} {
		a := randMat(rnd, test.m, test.k)
		b := randMat(rnd, test.k, test.n)

		dst := &Mat{}
		assert.NoError(Mul(dst, a, b, test.m, test.k, test.n))

		want := &mat.Dense{}
		want.Mul(Dense(a, test.m, test.k), Dense(b, test.k, test.n))
		assertBlockEqual(t, want, dst)
	}
}

func TestMulIdentity(t *testing.T) {
	assert := assert.New(t)
	rnd := rand.New(rand.NewSource(2))

	for _, n := range []int{1, 3, 12, 24, Stride} {
		a := randMat(rnd, n, 5)
		eye := &Mat{}
		assert.NoError(Identity(eye, n))

		dst := &Mat{}
		assert.NoError(Mul(dst, eye, a, n, n, 5))
		for i := 0; i < n; i++ {
			assert.Equal(a[i][:5], dst[i][:5])
		}
	}
}

func TestMulAlias(t *testing.T) {
	assert := assert.New(t)

	a, _ := NewMat(2, 2, []float64{1, 2, 3, 4})
	assert.NoError(Mul(a, a, a, 2, 2, 2))

	want := mat.NewDense(2, 2, []float64{7, 10, 15, 22})
	assertBlockEqual(t, want, a)
}

func TestMulTrans(t *testing.T) {
	assert := assert.New(t)
	rnd := rand.New(rand.NewSource(3))

	a := randMat(rnd, 4, 6)
	b := randMat(rnd, 3, 6)

	dst := &Mat{}
	assert.NoError(MulTrans(dst, a, b, 4, 6, 3))

	want := &mat.Dense{}
	want.Mul(Dense(a, 4, 6), Dense(b, 3, 6).T())
	assertBlockEqual(t, want, dst)
}

func TestMulVec(t *testing.T) {
	assert := assert.New(t)

	a, _ := NewMat(2, 3, []float64{1, 2, 3, 4, 5, 6})
	x, _ := NewVec(1, 0, -1)

	dst := &Vec{}
	assert.NoError(MulVec(dst, a, x, 2, 3))
	assert.Equal([]float64{-2, -2}, dst[:2])

	// aliasing the input vector
	sq, _ := NewMat(2, 2, []float64{0, 1, 1, 0})
	y, _ := NewVec(3, 4)
	assert.NoError(MulVec(y, sq, y, 2, 2))
	assert.Equal([]float64{4, 3}, y[:2])
}

func TestTranspose(t *testing.T) {
	assert := assert.New(t)

	a, _ := NewMat(2, 3, []float64{1, 2, 3, 4, 5, 6})
	dst := &Mat{}
	assert.NoError(Transpose(dst, a, 2, 3))
	assertBlockEqual(t, Dense(a, 2, 3).T(), dst)

	// in place
	assert.NoError(Transpose(a, a, 2, 3))
	assert.Equal([]float64{1, 4}, a[0][:2])
	assert.Equal([]float64{3, 6}, a[2][:2])
}

func TestAddSub(t *testing.T) {
	assert := assert.New(t)

	a, _ := NewMat(2, 2, []float64{1, 2, 3, 4})
	b, _ := NewMat(2, 2, []float64{4, 3, 2, 1})

	sum := &Mat{}
	assert.NoError(Add(sum, a, b, 2, 2))
	assertBlockEqual(t, mat.NewDense(2, 2, []float64{5, 5, 5, 5}), sum)

	diff := &Mat{}
	assert.NoError(Sub(diff, a, b, 2, 2))
	assertBlockEqual(t, mat.NewDense(2, 2, []float64{-3, -1, 1, 3}), diff)

	scaled := &Mat{}
	assert.NoError(Scale(scaled, 2, a, 2, 2))
	assertBlockEqual(t, mat.NewDense(2, 2, []float64{2, 4, 6, 8}), scaled)

	x, _ := NewVec(1, 2)
	y, _ := NewVec(3, 5)
	v := &Vec{}
	assert.NoError(AddVec(v, x, y, 2))
	assert.Equal([]float64{4, 7}, v[:2])
	assert.NoError(SubVec(v, x, y, 2))
	assert.Equal([]float64{-2, -3}, v[:2])
}

func TestSubBlockIsolation(t *testing.T) {
	assert := assert.New(t)
	rnd := rand.New(rand.NewSource(4))

	const residue = 7.0
	a := randMat(rnd, 3, 3)
	b := randMat(rnd, 3, 3)

	for name, op := range map[string]func(dst *Mat) error{
		"mul":       func(dst *Mat) error { return Mul(dst, a, b, 3, 3, 3) },
		"multrans":  func(dst *Mat) error { return MulTrans(dst, a, b, 3, 3, 3) },
		"transpose": func(dst *Mat) error { return Transpose(dst, a, 3, 3) },
		"add":       func(dst *Mat) error { return Add(dst, a, b, 3, 3) },
		"sub":       func(dst *Mat) error { return Sub(dst, a, b, 3, 3) },
		"identity":  func(dst *Mat) error { return Identity(dst, 3) },
		"zero":      func(dst *Mat) error { return Zero(dst, 3, 3) },
		"invert":    func(dst *Mat) error { return Invert(dst, wellConditioned(rnd, 3), 3) },
		"symmetric": func(dst *Mat) error { return Symmetrize(dst, a, 3) },
	} {
		dst := &Mat{}
		fill(dst, residue)
		assert.NoError(op(dst), name)
		for i := 0; i < Stride; i++ {
			for j := 0; j < Stride; j++ {
				if i < 3 && j < 3 {
					continue
				}
				if dst[i][j] != residue {
					t.Fatalf("%s: wrote outside active block at (%d, %d)", name, i, j)
				}
			}
		}
	}
}

func TestInvalidDimension(t *testing.T) {
	assert := assert.New(t)

	a := &Mat{}
	fill(a, 1)
	dst := &Mat{}
	fill(dst, 3)
	v := &Vec{}

	for _, d := range []int{-1, Stride + 1} {
		for _, err := range []error{
			Mul(dst, a, a, d, 2, 2),
			Mul(dst, a, a, 2, d, 2),
			MulTrans(dst, a, a, 2, 2, d),
			MulVec(v, a, v, d, 1),
			Transpose(dst, a, 1, d),
			Add(dst, a, a, d, 1),
			Sub(dst, a, a, 1, d),
			Scale(dst, 2, a, d, d),
			Invert(dst, a, d),
			Identity(dst, d),
			Zero(dst, d, 1),
			Copy(dst, a, 1, d),
			CopyVec(v, v, d),
			AddVec(v, v, v, d),
			SubVec(v, v, v, d),
			Symmetrize(dst, a, d),
		} {
			assert.True(errors.Is(err, ErrInvalidDimension))
		}
	}

	for i := range dst {
		for j := range dst[i] {
			if dst[i][j] != 3 {
				t.Fatalf("invalid dimension call touched (%d, %d)", i, j)
			}
		}
	}
	assert.Equal(Vec{}, *v)
}

func TestZeroDimensions(t *testing.T) {
	assert := assert.New(t)

	dst := &Mat{}
	fill(dst, 5)
	a := &Mat{}

	assert.NoError(Mul(dst, a, a, 0, 0, 0))
	assert.NoError(Invert(dst, a, 0))
	assert.Equal(5.0, dst[0][0])
}

func TestInvert(t *testing.T) {
	assert := assert.New(t)
	rnd := rand.New(rand.NewSource(5))

	for _, n := range []int{1, 2, 5, 12, 24, Stride} {
		a := wellConditioned(rnd, n)

		inv := &Mat{}
		assert.NoError(Invert(inv, a, n))

		want := &mat.Dense{}
		assert.NoError(want.Inverse(Dense(a, n, n)))
		assertBlockEqual(t, want, inv)

		// A * inv(A) = I
		prod := &Mat{}
		assert.NoError(Mul(prod, a, inv, n, n, n))
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				e := 0.0
				if i == j {
					e = 1.0
				}
				assert.InDelta(e, prod[i][j], 1e-9)
			}
		}

		// inv(inv(A)) = A
		back := &Mat{}
		assert.NoError(Invert(back, inv, n))
		assertBlockEqual(t, Dense(a, n, n), back)
	}
}

func TestInvertPivoting(t *testing.T) {
	assert := assert.New(t)

	// zero leading pivot requires a row swap
	a, _ := NewMat(3, 3, []float64{
		0, 2, 1,
		1, 0, 0,
		0, 1, 3,
	})
	inv := &Mat{}
	assert.NoError(Invert(inv, a, 3))

	want := &mat.Dense{}
	assert.NoError(want.Inverse(Dense(a, 3, 3)))
	assertBlockEqual(t, want, inv)

	// in place
	assert.NoError(Invert(a, a, 3))
	assertBlockEqual(t, want, a)
}

func TestInvertSingular(t *testing.T) {
	assert := assert.New(t)

	for _, test := range []struct {
		n    int
		data []float64
	}{
		{1, []float64{0}},
		{2, []float64{0, 0, 0, 0}},
		{2, []float64{1, 2, 2, 4}},
		{3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{2, []float64{math.NaN(), 1, 1, 1}},
	} {
		a, _ := NewMat(test.n, test.n, test.data)
		dst := &Mat{}
		fill(dst, 9)

		err := Invert(dst, a, test.n)
		assert.True(errors.Is(err, ErrSingularMatrix), "data %v", test.data)
		for i := 0; i < test.n; i++ {
			for j := 0; j < test.n; j++ {
				assert.Equal(9.0, dst[i][j])
			}
		}
	}
}

func TestInvertScaleInvariant(t *testing.T) {
	assert := assert.New(t)

	// tiny but perfectly conditioned matrix must not be reported singular
	a := &Mat{}
	assert.NoError(Identity(a, 4))
	assert.NoError(Scale(a, 1e-15, a, 4, 4))

	inv := &Mat{}
	assert.NoError(Invert(inv, a, 4))
	assert.InDelta(1e15, inv[2][2], 1)
}

func TestInvertMixedScale(t *testing.T) {
	assert := assert.New(t)

	for _, test := range []struct {
		n    int
		data []float64
	}{
		{2, []float64{1e13, 0, 0, 1}},
		{2, []float64{1e13, 1e6, 1e6, 1}},
		{3, []float64{1e13, 0, 0, 0, 2, 1, 0, 1, 2}},
		{3, []float64{1e-9, 0, 0, 0, 1e9, 0, 0, 0, 1}},
	} {
		a, _ := NewMat(test.n, test.n, test.data)

		inv := &Mat{}
		err := Invert(inv, a, test.n)
		assert.NoError(err, "data %v", test.data)

		// A * inv(A) = I
		prod := &Mat{}
		assert.NoError(Mul(prod, a, inv, test.n, test.n, test.n))
		for i := 0; i < test.n; i++ {
			for j := 0; j < test.n; j++ {
				e := 0.0
				if i == j {
					e = 1.0
				}
				assert.InDelta(e, prod[i][j], 1e-9, "data %v", test.data)
			}
		}
	}

	a, _ := NewMat(2, 2, []float64{1e13, 0, 0, 1})
	inv := &Mat{}
	assert.NoError(Invert(inv, a, 2))
	assert.InDelta(1e-13, inv[0][0], 1e-25)
	assert.Equal(1.0, inv[1][1])
	assert.Equal(0.0, inv[0][1])

	// a zero row is singular regardless of the other rows
	a, _ = NewMat(2, 2, []float64{1e13, 0, 0, 0})
	assert.True(errors.Is(Invert(inv, a, 2), ErrSingularMatrix))
}

func TestSymmetrize(t *testing.T) {
	assert := assert.New(t)

	a, _ := NewMat(2, 2, []float64{1, 2, 4, 3})
	assert.InDelta(2.0, MaxAsymmetry(a, 2), delta)

	assert.NoError(Symmetrize(a, a, 2))
	assert.Equal(0.0, MaxAsymmetry(a, 2))
	assert.Equal(3.0, a[0][1])
	assert.Equal(3.0, a[1][0])
	assert.True(math.IsNaN(MaxAsymmetry(a, -1)))
}

func TestIsSymmetric(t *testing.T) {
	assert := assert.New(t)

	a, _ := NewMat(2, 2, []float64{4, 0.1, 0.1, 2})
	assert.True(IsSymmetric(a, 2))

	// rounding residue relative to the largest entry is tolerated
	a[1][0] += 1e-16
	assert.True(IsSymmetric(a, 2))
	assert.False(MaxAsymmetry(a, 2) == 0)

	a[1][0] = 0.2
	assert.False(IsSymmetric(a, 2))

	// the tolerance scales with the matrix
	b, _ := NewMat(2, 2, []float64{1e-20, 1e-30, 0, 1e-20})
	assert.False(IsSymmetric(b, 2))
	b[1][0] = 1e-30
	assert.True(IsSymmetric(b, 2))

	a[0][1] = math.NaN()
	assert.False(IsSymmetric(a, 2))
	assert.False(IsSymmetric(a, Stride+1))
	assert.True(IsSymmetric(a, 0))
}

func TestIsFinite(t *testing.T) {
	assert := assert.New(t)

	a, _ := NewMat(2, 2, []float64{1, 2, 3, 4})
	assert.True(IsFinite(a, 2, 2))

	// residue outside the block is ignored
	a[3][3] = math.NaN()
	assert.True(IsFinite(a, 2, 2))

	a[1][1] = math.Inf(1)
	assert.False(IsFinite(a, 2, 2))
	a[1][1] = math.NaN()
	assert.False(IsFinite(a, 2, 2))
	assert.False(IsFinite(a, Stride+1, 1))

	v, _ := NewVec(1, math.Inf(-1))
	assert.True(IsFiniteVec(v, 1))
	assert.False(IsFiniteVec(v, 2))
}

func TestRowColSums(t *testing.T) {
	assert := assert.New(t)

	data := []float64{1.2, 3.4, 4.5, 6.7, 8.9, 10.0}
	rowSums := []float64{4.6, 11.2, 18.9}
	colSums := []float64{14.6, 20.1}
	delta := 0.001

	m, err := NewMat(3, 2, data)
	assert.NoError(err)

	// check rows
	resRows := RowSums(m, 3, 2)
	assert.NotNil(resRows)
	assert.InDeltaSlice(rowSums, resRows, delta)
	// check cols
	resCols := ColSums(m, 3, 2)
	assert.NotNil(resCols)
	assert.InDeltaSlice(colSums, resCols, delta)
	// should panic
	assert.Panics(func() { RowSums(nil, 3, 2) })
	assert.Panics(func() { ColSums(nil, 3, 2) })
}

func TestGonumRoundTrip(t *testing.T) {
	assert := assert.New(t)

	d := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	m := &Mat{}
	r, c, err := FromMatrix(m, d)
	assert.NoError(err)
	assert.Equal(2, r)
	assert.Equal(3, c)
	assert.True(mat.Equal(d, Dense(m, r, c)))

	_, _, err = FromMatrix(m, mat.NewDense(Stride+1, 1, nil))
	assert.True(errors.Is(err, ErrInvalidDimension))

	v := &Vec{}
	n, err := FromVector(v, mat.NewVecDense(3, []float64{1, 2, 3}))
	assert.NoError(err)
	assert.Equal(3, n)
	assert.True(mat.Equal(mat.NewVecDense(3, []float64{1, 2, 3}), VecDense(v, n)))

	assert.Nil(Dense(m, 0, 3))
	assert.Nil(VecDense(v, 0))
	assert.NotNil(Format(m, 2, 3))
	assert.NotNil(Format(m, 0, 0))
}
