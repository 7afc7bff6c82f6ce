package lasso

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSGDZeroLambdaFullBatchConvergesToLeastSquares(t *testing.T) {
	coef := []float64{1.5, -2}
	a, b := randomProblem(21, 50, 2, coef)

	// With the batch size equal to the data size every step is the full
	// gradient, so the iteration is plain gradient descent on the
	// noiseless least-squares problem.
	sgd := NewSGD(
		WithSGDLambda(0),
		WithSGDGamma(0.1),
		WithSGDBatchSize(50),
		WithSGDMaxIter(3000),
		WithSGDRandomState(1),
	)
	alpha, _, err := sgd.Run(a.Dense(), b)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for j := range coef {
		if math.Abs(alpha[j]-coef[j]) > 1e-4 {
			t.Errorf("alpha[%d] = %v, want %v", j, alpha[j], coef[j])
		}
	}
}

func TestSGDReducesObjective(t *testing.T) {
	a, b := randomProblem(22, 100, 5, []float64{2, 0, -1, 0, 0.5})

	sgd := NewSGD(
		WithSGDLambda(0.1),
		WithSGDGamma(0.005),
		WithSGDBatchSize(10),
		WithSGDMaxIter(2000),
		WithSGDTrace(true),
		WithSGDRandomState(42),
	)
	alpha, hist, err := sgd.Run(a.Dense(), b)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(hist) != 2000 {
		t.Fatalf("history length = %d, want 2000", len(hist))
	}

	first := hist[0].Objective
	last := hist[len(hist)-1].Objective
	if last >= first {
		t.Errorf("objective did not decrease: first %v, last %v", first, last)
	}

	for j, v := range alpha {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("alpha[%d] is not finite: %v", j, v)
		}
	}
}

func TestSGDReproducibleWithSeed(t *testing.T) {
	a, b := randomProblem(23, 40, 3, []float64{1, -1, 0})

	run := func() []float64 {
		sgd := NewSGD(
			WithSGDLambda(0.05),
			WithSGDGamma(0.01),
			WithSGDBatchSize(5),
			WithSGDMaxIter(200),
			WithSGDRandomState(99),
		)
		alpha, _, err := sgd.Run(a.Dense(), b)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return alpha
	}

	first := run()
	second := run()
	for j := range first {
		if first[j] != second[j] {
			t.Errorf("seeded runs differ at coordinate %d: %v vs %v", j, first[j], second[j])
		}
	}
}

func TestSGDHistoryElapsedMonotone(t *testing.T) {
	a, b := randomProblem(24, 30, 2, []float64{1, 2})

	sgd := NewSGD(
		WithSGDLambda(0.1),
		WithSGDGamma(0.01),
		WithSGDBatchSize(5),
		WithSGDMaxIter(50),
		WithSGDTrace(true),
		WithSGDRandomState(7),
	)
	_, hist, err := sgd.Run(a.Dense(), b)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for i := 1; i < len(hist); i++ {
		if hist[i].Elapsed < hist[i-1].Elapsed {
			t.Fatalf("elapsed time not monotone at %d", i)
		}
	}
}

func TestSGDClipNormBoundsUpdate(t *testing.T) {
	// Full batch from alpha = 0: the averaged gradient is -100, so one
	// step with gamma 1 lands at 100 unclipped and at clipNorm clipped.
	x := mat.NewDense(2, 1, []float64{10, 10})
	b := []float64{10, 10}

	clipped := NewSGD(
		WithSGDLambda(0),
		WithSGDGamma(1),
		WithSGDBatchSize(2),
		WithSGDMaxIter(1),
		WithSGDClipNorm(0.5),
		WithSGDRandomState(3),
	)
	alpha, _, err := clipped.Run(x, b)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if math.Abs(alpha[0]-0.5) > 1e-12 {
		t.Errorf("clipped step = %v, want 0.5", alpha[0])
	}

	unclipped := NewSGD(
		WithSGDLambda(0),
		WithSGDGamma(1),
		WithSGDBatchSize(2),
		WithSGDMaxIter(1),
		WithSGDRandomState(3),
	)
	alpha, _, err = unclipped.Run(x, b)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if math.Abs(alpha[0]-100) > 1e-12 {
		t.Errorf("unclipped step = %v, want 100", alpha[0])
	}
}

func TestSGDValidation(t *testing.T) {
	a, b := randomProblem(25, 10, 2, []float64{1, 1})

	cases := []struct {
		name string
		sgd  *SGD
	}{
		{"negative lambda", NewSGD(WithSGDLambda(-1))},
		{"zero gamma", NewSGD(WithSGDGamma(0))},
		{"zero max iter", NewSGD(WithSGDMaxIter(0))},
		{"zero batch size", NewSGD(WithSGDBatchSize(0))},
		{"negative clip norm", NewSGD(WithSGDClipNorm(-1))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := tc.sgd.Run(a.Dense(), b); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}

	sgd := NewSGD()
	if _, _, err := sgd.Run(a.Dense(), b[:5]); err == nil {
		t.Error("expected error for dimension mismatch")
	}
}
