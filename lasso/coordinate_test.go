package lasso

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/sparsefit/dataset"
)

// randomProblem builds a dense regression problem y = X*coef without noise.
func randomProblem(seed uint64, n, d int, coef []float64) (*dataset.DenseDesign, []float64) {
	rng := rand.New(rand.NewPCG(seed, seed))
	data := make([]float64, n*d)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	x := mat.NewDense(n, d, data)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		for j, c := range coef {
			b[i] += row[j] * c
		}
	}
	return dataset.NewDenseDesign(x), b
}

func TestCDResidualInvariant(t *testing.T) {
	a, b := randomProblem(1, 60, 8, []float64{2, -1, 0, 0, 0.5, 0, 0, -3})

	cd := NewCD(WithCDLambda(0.5), WithCDMaxIter(500), WithCDRandomState(7))
	alpha, residual, _, err := cd.Run(a, b)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Recompute b - A*alpha from scratch and compare with the
	// incrementally maintained residual.
	pred := a.MulVec(alpha, nil)
	for i := range b {
		want := b[i] - pred[i]
		scale := math.Max(1, math.Abs(want))
		if math.Abs(residual[i]-want) > 1e-9*scale {
			t.Fatalf("residual[%d] = %v, recomputed %v", i, residual[i], want)
		}
	}
}

func TestCDObjectiveMonotone(t *testing.T) {
	a, b := randomProblem(2, 80, 10, []float64{1, 0, 0, 2, 0, 0, 0, -1.5, 0, 0})

	cd := NewCD(
		WithCDLambda(1.0),
		WithCDMaxIter(400),
		WithCDTrace(true),
		WithCDRandomState(11),
	)
	_, _, hist, err := cd.Run(a, b)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(hist) != 400 {
		t.Fatalf("history length = %d, want 400", len(hist))
	}

	objs := hist.Objectives()
	for i := 1; i < len(objs); i++ {
		if objs[i] > objs[i-1]+1e-9 {
			t.Fatalf("objective increased at iteration %d: %v -> %v", i, objs[i-1], objs[i])
		}
	}
}

func TestCDZeroLambdaRecoversLeastSquares(t *testing.T) {
	coef := []float64{1.5, -2, 0.75}
	a, b := randomProblem(3, 50, 3, coef)

	cd := NewCD(WithCDLambda(0), WithCDMaxIter(2000), WithCDRandomState(5))
	alpha, _, _, err := cd.Run(a, b)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Noiseless data with lambda = 0: the least-squares solution is the
	// true coefficient vector.
	for j := range coef {
		if math.Abs(alpha[j]-coef[j]) > 1e-6 {
			t.Errorf("alpha[%d] = %v, want %v", j, alpha[j], coef[j])
		}
	}
}

func TestCDZeroNormColumn(t *testing.T) {
	// Column 1 is identically zero: a degenerate feature whose
	// coefficient must stay pinned at zero.
	x := mat.NewDense(4, 2, []float64{
		1, 0,
		2, 0,
		-1, 0,
		0.5, 0,
	})
	b := []float64{1, 2, -1, 0.5}

	cd := NewCD(WithCDLambda(0.01), WithCDMaxIter(200), WithCDRandomState(3))
	alpha, residual, _, err := cd.Run(dataset.NewDenseDesign(x), b)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if alpha[1] != 0 {
		t.Errorf("zero-norm column coefficient = %v, want 0", alpha[1])
	}
	for i, r := range residual {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			t.Errorf("residual[%d] is not finite: %v", i, r)
		}
	}
}

func TestCDSparseDesign(t *testing.T) {
	// Same problem in dense and sparse form must reach the same solution
	// under the same seed.
	denseMat := mat.NewDense(5, 3, []float64{
		1, 0, 2,
		0, 3, 0,
		4, 0, 0,
		0, 0, -1,
		2, 1, 0,
	})
	var entries []dataset.Entry
	for i := 0; i < 5; i++ {
		for j := 0; j < 3; j++ {
			if v := denseMat.At(i, j); v != 0 {
				entries = append(entries, dataset.Entry{Row: i, Col: j, Value: v})
			}
		}
	}
	sparse, err := dataset.NewSparseDesign(5, 3, entries)
	if err != nil {
		t.Fatalf("NewSparseDesign failed: %v", err)
	}
	b := []float64{3, -1, 2, 0.5, 1}

	run := func(a dataset.Design) []float64 {
		cd := NewCD(WithCDLambda(0.2), WithCDMaxIter(600), WithCDRandomState(9))
		alpha, _, _, err := cd.Run(a, b)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return alpha
	}

	alphaDense := run(dataset.NewDenseDesign(denseMat))
	alphaSparse := run(sparse)
	for j := range alphaDense {
		if math.Abs(alphaDense[j]-alphaSparse[j]) > 1e-12 {
			t.Errorf("alpha[%d]: dense %v vs sparse %v", j, alphaDense[j], alphaSparse[j])
		}
	}
}

func TestCDSelfCheckDoesNotFailRun(t *testing.T) {
	a, b := randomProblem(4, 30, 4, []float64{1, 0, -1, 0})

	cd := NewCD(
		WithCDLambda(0.3),
		WithCDMaxIter(100),
		WithCDCheck(1e-6),
		WithCDRandomState(13),
	)
	alpha, _, _, err := cd.Run(a, b)
	if err != nil {
		t.Fatalf("Run with self-check failed: %v", err)
	}
	if len(alpha) != 4 {
		t.Fatalf("alpha length = %d, want 4", len(alpha))
	}
}

func TestCDSupportRecovery(t *testing.T) {
	rng := rand.New(rand.NewPCG(2024, 2024))
	prob := dataset.SynthSparseProblem(rng, 200, 20, 3, 0.1)

	cd := NewCD(WithCDLambda(10), WithCDMaxIter(6000), WithCDRandomState(17))
	alpha, _, _, err := cd.Run(prob.Design, prob.Target)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	inSupport := make(map[int]bool, len(prob.Support))
	for _, j := range prob.Support {
		inSupport[j] = true
	}

	for j, v := range alpha {
		if inSupport[j] && math.Abs(v) < 0.5 {
			t.Errorf("support coordinate %d not recovered: alpha = %v (true %v)",
				j, v, prob.TrueCoef[j])
		}
		if !inSupport[j] && math.Abs(v) > 0.2 {
			t.Errorf("spurious coordinate %d: alpha = %v", j, v)
		}
	}
}

func TestCDValidation(t *testing.T) {
	a, b := randomProblem(6, 10, 2, []float64{1, 1})

	cd := NewCD(WithCDLambda(-1))
	if _, _, _, err := cd.Run(a, b); err == nil {
		t.Error("expected error for negative lambda")
	}

	cd = NewCD(WithCDMaxIter(0))
	if _, _, _, err := cd.Run(a, b); err == nil {
		t.Error("expected error for zero iteration budget")
	}

	cd = NewCD()
	if _, _, _, err := cd.Run(a, b[:5]); err == nil {
		t.Error("expected error for dimension mismatch")
	}
}
