package kf

import (
	"fmt"

	"github.com/deepdive/go-kalman/matrix"
)

// CovForm selects how the corrected covariance is computed.
type CovForm int

const (
	// Joseph computes (I-K*H)*P*(I-K*H)' + K*R*K' and symmetrizes the result.
	// It keeps P symmetric and positive semi-definite for any gain.
	Joseph CovForm = iota
	// Standard computes (I-K*H)*P.
	Standard
	// Symmetric computes (I-K*H)*P and symmetrizes the result.
	Symmetric
)

// String implements the Stringer interface.
func (f CovForm) String() string {
	switch f {
	case Joseph:
		return "joseph"
	case Standard:
		return "standard"
	case Symmetric:
		return "symmetric"
	}

	return fmt.Sprintf("CovForm(%d)", int(f))
}

// ParseCovForm returns the CovForm named s.
func ParseCovForm(s string) (CovForm, error) {
	for _, f := range []CovForm{Joseph, Standard, Symmetric} {
		if f.String() == s {
			return f, nil
		}
	}

	return 0, fmt.Errorf("unknown covariance form: %q", s)
}

// Innovation holds the intermediate quantities of a single measurement update.
type Innovation struct {
	// Y is the measurement residual z - H*x
	Y matrix.Vec
	// S is the residual covariance H*P*H' + R
	S matrix.Mat
	// K is the Kalman gain P*H'*inv(S)
	K matrix.Mat
	// NIS is the normalized innovation squared Y'*inv(S)*Y
	NIS float64
}

// Update corrects the predicted estimate with measurement zK:
//
//	yhat_k   = z_k - H_k * xhat_k_km1
//	S_k      = H_k * P_k_km1 * H_k' + R_k
//	K_k      = P_k_km1 * H_k' * inv(S_k)
//	xhat_k_k = xhat_k_km1 + K_k * yhat_k
//
// The corrected covariance P_k_k uses the Joseph form, which equals
// (I - K_k*H_k) * P_k_km1 for the optimal gain.
// b is the measurement dimension and s the state dimension.
// Outputs are written only if the whole update succeeds, so they may alias the inputs.
// It returns error if any dimension is invalid, a buffer is nil, S_k is singular
// or the update is not finite.
func Update(xhatKK *matrix.Vec, pKK *matrix.Mat, xhatKKm1 *matrix.Vec, pKKm1, hK, rK *matrix.Mat, zK *matrix.Vec, b, s int) error {
	return UpdateForm(Joseph, xhatKK, pKK, xhatKKm1, pKKm1, hK, rK, zK, b, s, nil)
}

// UpdateForm works like Update but computes the corrected covariance using form.
// If inn is not nil it receives the residual, its covariance, the gain and NIS.
func UpdateForm(form CovForm, xhatKK *matrix.Vec, pKK *matrix.Mat, xhatKKm1 *matrix.Vec, pKKm1, hK, rK *matrix.Mat, zK *matrix.Vec, b, s int, inn *Innovation) error {
	if err := matrix.CheckDims(b, s); err != nil {
		return fmt.Errorf("update: %w", err)
	}

	if xhatKK == nil || pKK == nil || xhatKKm1 == nil || pKKm1 == nil {
		return fmt.Errorf("update: nil state or covariance")
	}

	if b > 0 && (hK == nil || rK == nil || zK == nil) {
		return fmt.Errorf("update: nil observation model, noise or measurement for %d measurements", b)
	}

	switch form {
	case Joseph, Standard, Symmetric:
	default:
		return fmt.Errorf("update: unknown covariance form: %d", int(form))
	}

	// nothing was measured
	if b == 0 {
		if xhatKK != xhatKKm1 {
			copy(xhatKK[:s], xhatKKm1[:s])
		}
		if pKK != pKKm1 {
			for i := 0; i < s; i++ {
				copy(pKK[i][:s], pKKm1[i][:s])
			}
		}
		if inn != nil {
			inn.NIS = 0
		}
		return nil
	}

	var y, ky, x matrix.Vec
	var pht, sk, skInv, k, ikh, p matrix.Mat

	// z - H*x
	if err := matrix.MulVec(&y, hK, xhatKKm1, b, s); err != nil {
		return fmt.Errorf("update residual: %w", err)
	}
	if err := matrix.SubVec(&y, zK, &y, b); err != nil {
		return fmt.Errorf("update residual: %w", err)
	}

	// P*H'
	if err := matrix.MulTrans(&pht, pKKm1, hK, s, s, b); err != nil {
		return fmt.Errorf("update residual covariance: %w", err)
	}

	// H*P*H' + R
	if err := matrix.Mul(&sk, hK, &pht, b, s, b); err != nil {
		return fmt.Errorf("update residual covariance: %w", err)
	}
	if err := matrix.Add(&sk, &sk, rK, b, b); err != nil {
		return fmt.Errorf("update residual covariance: %w", err)
	}

	// P*H'*inv(S)
	if err := matrix.Invert(&skInv, &sk, b); err != nil {
		return fmt.Errorf("update gain: %w", err)
	}
	if err := matrix.Mul(&k, &pht, &skInv, s, b, b); err != nil {
		return fmt.Errorf("update gain: %w", err)
	}

	// x + K*y
	if err := matrix.MulVec(&ky, &k, &y, s, b); err != nil {
		return fmt.Errorf("update state: %w", err)
	}
	if err := matrix.AddVec(&x, xhatKKm1, &ky, s); err != nil {
		return fmt.Errorf("update state: %w", err)
	}

	// I - K*H
	if err := matrix.Mul(&ikh, &k, hK, s, b, s); err != nil {
		return fmt.Errorf("update covariance: %w", err)
	}
	for i := 0; i < s; i++ {
		for j := 0; j < s; j++ {
			ikh[i][j] = -ikh[i][j]
		}
		ikh[i][i] += 1
	}

	if err := correctCov(form, &p, &ikh, pKKm1, &k, rK, b, s); err != nil {
		return fmt.Errorf("update covariance: %w", err)
	}

	if !matrix.IsFiniteVec(&x, s) || !matrix.IsFinite(&p, s, s) {
		return fmt.Errorf("update: %w", matrix.ErrNonFinite)
	}

	if inn != nil {
		// y'*inv(S)*y
		var siy matrix.Vec
		if err := matrix.MulVec(&siy, &skInv, &y, b, b); err != nil {
			return fmt.Errorf("update nis: %w", err)
		}
		var nis float64
		for i := 0; i < b; i++ {
			nis += y[i] * siy[i]
		}

		copy(inn.Y[:b], y[:b])
		if err := matrix.Copy(&inn.S, &sk, b, b); err != nil {
			return err
		}
		if err := matrix.Copy(&inn.K, &k, s, b); err != nil {
			return err
		}
		inn.NIS = nis
	}

	copy(xhatKK[:s], x[:s])
	for i := 0; i < s; i++ {
		copy(pKK[i][:s], p[i][:s])
	}

	return nil
}

// correctCov stores the corrected covariance in dst given ikh = I - K*H.
func correctCov(form CovForm, dst, ikh, p, k, r *matrix.Mat, b, s int) error {
	// (I-K*H)*P
	if err := matrix.Mul(dst, ikh, p, s, s, s); err != nil {
		return err
	}

	switch form {
	case Standard:
		return nil
	case Symmetric:
		return matrix.Symmetrize(dst, dst, s)
	}

	// (I-K*H)*P*(I-K*H)'
	if err := matrix.MulTrans(dst, dst, ikh, s, s, s); err != nil {
		return err
	}

	// K*R*K'
	var kr matrix.Mat
	if err := matrix.Mul(&kr, k, r, s, b, b); err != nil {
		return err
	}
	if err := matrix.MulTrans(&kr, &kr, k, s, b, s); err != nil {
		return err
	}
	if err := matrix.Add(dst, dst, &kr, s, s); err != nil {
		return err
	}

	return matrix.Symmetrize(dst, dst, s)
}
