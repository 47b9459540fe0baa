package kf

import (
	"fmt"

	"github.com/deepdive/go-kalman/matrix"
)

// Predict propagates the previous estimate one step ahead:
//
//	xhat_k_km1 = F_k * xhat_km1_km1 + B_k * u_k
//	P_k_km1    = F_k * P_km1_km1 * F_k' + Q_k
//
// s is the state dimension and u the control input dimension. The control
// term is skipped when u is 0, in which case bK and uK may be nil.
// Only the leading s entries and s x s block of the outputs are written and
// the outputs are written only once the whole prediction succeeded, so they
// may alias the inputs.
// It returns error if any dimension is invalid, a required buffer is nil or the
// prediction is not finite.
func Predict(xhatKKm1 *matrix.Vec, pKKm1 *matrix.Mat, xhatKm1Km1 *matrix.Vec, pKm1Km1, fK, bK *matrix.Mat, uK *matrix.Vec, qK *matrix.Mat, s, u int) error {
	if err := matrix.CheckDims(s, u); err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	if xhatKKm1 == nil || pKKm1 == nil || xhatKm1Km1 == nil || pKm1Km1 == nil || fK == nil || qK == nil {
		return fmt.Errorf("predict: nil state, covariance, transition or process noise")
	}

	if u > 0 && (bK == nil || uK == nil) {
		return fmt.Errorf("predict: nil control model or input for %d inputs", u)
	}

	var x, bu matrix.Vec
	var p matrix.Mat

	// F*x
	if err := matrix.MulVec(&x, fK, xhatKm1Km1, s, s); err != nil {
		return fmt.Errorf("predict state: %w", err)
	}

	// + B*u
	if u > 0 {
		if err := matrix.MulVec(&bu, bK, uK, s, u); err != nil {
			return fmt.Errorf("predict control: %w", err)
		}
		if err := matrix.AddVec(&x, &x, &bu, s); err != nil {
			return fmt.Errorf("predict control: %w", err)
		}
	}

	// F*P*F' + Q
	if err := matrix.Mul(&p, fK, pKm1Km1, s, s, s); err != nil {
		return fmt.Errorf("predict covariance: %w", err)
	}
	if err := matrix.MulTrans(&p, &p, fK, s, s, s); err != nil {
		return fmt.Errorf("predict covariance: %w", err)
	}
	if err := matrix.Add(&p, &p, qK, s, s); err != nil {
		return fmt.Errorf("predict covariance: %w", err)
	}

	if !matrix.IsFiniteVec(&x, s) || !matrix.IsFinite(&p, s, s) {
		return fmt.Errorf("predict: %w", matrix.ErrNonFinite)
	}

	copy(xhatKKm1[:s], x[:s])
	for i := 0; i < s; i++ {
		copy(pKKm1[i][:s], p[i][:s])
	}

	return nil
}
