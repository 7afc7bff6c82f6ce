package dataset

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// SynthDense generates an n×d design with standard normal entries and a
// target vector uniform on [0, 1). The generator is passed explicitly so
// runs are reproducible under a fixed seed.
func SynthDense(rng *rand.Rand, n, d int) (*DenseDesign, []float64) {
	data := make([]float64, n*d)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	b := make([]float64, n)
	for i := range b {
		b[i] = rng.Float64()
	}
	return NewDenseDesign(mat.NewDense(n, d, data)), b
}

// SparseProblem is a synthetic regression problem with a sparse ground
// truth, used for support-recovery experiments.
type SparseProblem struct {
	Design   *DenseDesign
	Target   []float64
	TrueCoef []float64
	Support  []int
	NoiseStd float64
}

// SynthSparseProblem builds a problem where only nnz of the d true
// coefficients are nonzero. The target is X·coef plus Gaussian noise with
// standard deviation noiseStd.
func SynthSparseProblem(rng *rand.Rand, n, d, nnz int, noiseStd float64) *SparseProblem {
	data := make([]float64, n*d)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	X := mat.NewDense(n, d, data)

	coef := make([]float64, d)
	support := rng.Perm(d)[:nnz]
	for _, j := range support {
		// Magnitudes in [1, 3) with random sign, well above the noise.
		v := 1 + 2*rng.Float64()
		if rng.IntN(2) == 0 {
			v = -v
		}
		coef[j] = v
	}

	y := make([]float64, n)
	for i := 0; i < n; i++ {
		row := X.RawRowView(i)
		var sum float64
		for j, c := range coef {
			sum += row[j] * c
		}
		y[i] = sum + noiseStd*rng.NormFloat64()
	}

	return &SparseProblem{
		Design:   NewDenseDesign(X),
		Target:   y,
		TrueCoef: coef,
		Support:  support,
		NoiseStd: noiseStd,
	}
}
