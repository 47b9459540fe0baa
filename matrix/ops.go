package matrix

// Mul computes the matrix product dst = a*b where a is m x k and b is k x n.
// dst may alias a or b.
func Mul(dst, a, b *Mat, m, k, n int) error {
	if err := CheckDims(m, k, n); err != nil {
		return err
	}

	var out Mat
	for i := 0; i < m; i++ {
		for l := 0; l < k; l++ {
			ail := a[i][l]
			if ail == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out[i][j] += ail * b[l][j]
			}
		}
	}

	for i := 0; i < m; i++ {
		copy(dst[i][:n], out[i][:n])
	}

	return nil
}

// MulTrans computes dst = a*b' where a is m x k and b is n x k.
// It saves an explicit transpose when forming products such as P*H'.
// dst may alias a or b.
func MulTrans(dst, a, b *Mat, m, k, n int) error {
	if err := CheckDims(m, k, n); err != nil {
		return err
	}

	var out Mat
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float64
			for l := 0; l < k; l++ {
				sum += a[i][l] * b[j][l]
			}
			out[i][j] = sum
		}
	}

	for i := 0; i < m; i++ {
		copy(dst[i][:n], out[i][:n])
	}

	return nil
}

// MulVec computes dst = a*x where a is m x n and x has length n.
// dst may alias x.
func MulVec(dst *Vec, a *Mat, x *Vec, m, n int) error {
	if err := CheckDims(m, n); err != nil {
		return err
	}

	var out Vec
	for i := 0; i < m; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += a[i][j] * x[j]
		}
		out[i] = sum
	}
	copy(dst[:m], out[:m])

	return nil
}

// Transpose stores the transpose of the m x n matrix a in dst, which becomes n x m.
// dst may alias a.
func Transpose(dst, a *Mat, m, n int) error {
	if err := CheckDims(m, n); err != nil {
		return err
	}

	var out Mat
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			out[j][i] = a[i][j]
		}
	}

	for j := 0; j < n; j++ {
		copy(dst[j][:m], out[j][:m])
	}

	return nil
}

// Add computes the element-wise sum dst = a+b of two m x n matrices.
func Add(dst, a, b *Mat, m, n int) error {
	if err := CheckDims(m, n); err != nil {
		return err
	}

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			dst[i][j] = a[i][j] + b[i][j]
		}
	}

	return nil
}

// Sub computes the element-wise difference dst = a-b of two m x n matrices.
func Sub(dst, a, b *Mat, m, n int) error {
	if err := CheckDims(m, n); err != nil {
		return err
	}

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			dst[i][j] = a[i][j] - b[i][j]
		}
	}

	return nil
}

// Scale computes dst = f*a for an m x n matrix a.
func Scale(dst *Mat, f float64, a *Mat, m, n int) error {
	if err := CheckDims(m, n); err != nil {
		return err
	}

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			dst[i][j] = f * a[i][j]
		}
	}

	return nil
}

// AddVec computes dst = a+b for vectors of length n.
func AddVec(dst, a, b *Vec, n int) error {
	if err := CheckDims(n); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		dst[i] = a[i] + b[i]
	}

	return nil
}

// SubVec computes dst = a-b for vectors of length n.
func SubVec(dst, a, b *Vec, n int) error {
	if err := CheckDims(n); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		dst[i] = a[i] - b[i]
	}

	return nil
}

// Identity sets the n x n block of dst to the identity matrix.
func Identity(dst *Mat, n int) error {
	if err := CheckDims(n); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dst[i][j] = 0
		}
		dst[i][i] = 1
	}

	return nil
}

// Zero zeroes the m x n block of dst.
func Zero(dst *Mat, m, n int) error {
	if err := CheckDims(m, n); err != nil {
		return err
	}

	for i := 0; i < m; i++ {
		clear(dst[i][:n])
	}

	return nil
}

// Copy copies the m x n block of a into dst.
func Copy(dst, a *Mat, m, n int) error {
	if err := CheckDims(m, n); err != nil {
		return err
	}

	for i := 0; i < m; i++ {
		copy(dst[i][:n], a[i][:n])
	}

	return nil
}

// CopyVec copies the first n entries of x into dst.
func CopyVec(dst, x *Vec, n int) error {
	if err := CheckDims(n); err != nil {
		return err
	}
	copy(dst[:n], x[:n])

	return nil
}
