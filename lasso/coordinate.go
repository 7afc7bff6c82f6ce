package lasso

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/ezoic/sparsefit/dataset"
	"github.com/ezoic/sparsefit/pkg/errors"
	"github.com/ezoic/sparsefit/pkg/log"
)

// CD minimizes the Lasso objective by randomized coordinate descent.
// Each iteration picks a coordinate uniformly at random, minimizes the
// objective exactly along it via soft-thresholding, and updates the
// maintained residual r = b - A*alpha incrementally. Exact coordinate
// minimization makes the objective non-increasing across iterations.
//
// The solver runs for exactly maxIter iterations; there is no
// convergence-based stopping.
type CD struct {
	lambda  float64
	maxIter int
	trace   bool

	// check enables the perturbation self-check: after each update the
	// new coordinate value is nudged by +/- checkEpsilon and the
	// objective must not decrease. Violations are logged, never fatal.
	// Debug-only heuristic; its sensitivity depends on checkEpsilon.
	check        bool
	checkEpsilon float64

	rng    *rand.Rand
	logger log.Logger
}

// CDOption configures a CD solver.
type CDOption func(*CD)

// WithCDLambda sets the regularization strength.
func WithCDLambda(lambda float64) CDOption {
	return func(c *CD) { c.lambda = lambda }
}

// WithCDMaxIter sets the fixed iteration budget.
func WithCDMaxIter(maxIter int) CDOption {
	return func(c *CD) { c.maxIter = maxIter }
}

// WithCDTrace enables history recording.
func WithCDTrace(trace bool) CDOption {
	return func(c *CD) { c.trace = trace }
}

// WithCDCheck enables the perturbation self-check with the given epsilon.
func WithCDCheck(epsilon float64) CDOption {
	return func(c *CD) {
		c.check = true
		c.checkEpsilon = epsilon
	}
}

// WithCDRandomState seeds the solver's random source. Negative seeds
// select a time-based source.
func WithCDRandomState(seed int64) CDOption {
	return func(c *CD) {
		if seed >= 0 {
			c.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
		}
	}
}

// NewCD creates a CD solver with the given options.
func NewCD(options ...CDOption) *CD {
	c := &CD{
		lambda:       0.1,
		maxIter:      1000,
		checkEpsilon: 1e-6,
		rng:          rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(time.Now().UnixNano())^0xdeadbeef)),
	}
	for _, opt := range options {
		opt(c)
	}
	c.logger = log.GetLoggerWithName("lasso").With(
		log.ModelNameKey, "CD",
		log.ComponentKey, "lasso",
	)
	return c
}

// Run minimizes the objective over (a, b) starting from alpha = 0 and
// r = b. It returns the final coefficients, the final residual, and the
// trace history (empty unless tracing is enabled).
func (c *CD) Run(a dataset.Design, b []float64) (_ []float64, _ []float64, _ History, err error) {
	defer errors.Recover(&err, "CD.Run")

	if err := dataset.CheckTarget("CD.Run", a, b); err != nil {
		return nil, nil, nil, err
	}
	if c.lambda < 0 {
		return nil, nil, nil, errors.NewValueError("CD.Run", "lambda must be non-negative")
	}
	if c.maxIter <= 0 {
		return nil, nil, nil, errors.NewValueError("CD.Run", "max iterations must be positive")
	}

	rows, cols := a.Dims()
	c.logger.Info("Solve started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.LambdaKey, c.lambda,
		log.IterationsKey, c.maxIter,
	)

	alpha := make([]float64, cols)
	residual := make([]float64, rows)
	copy(residual, b)

	col := make([]float64, rows)
	var hist History
	start := time.Now()

	for t := 0; t < c.maxIter; t++ {
		if c.trace {
			hist = append(hist, Record{
				Elapsed:   time.Since(start),
				Objective: objectiveFromResidual(residual, alpha, c.lambda),
			})
		}

		j := c.rng.IntN(cols)
		norm := a.ColumnNorm(j)
		if norm == 0 {
			// Degenerate feature: no information, coefficient pinned to zero.
			alpha[j] = 0
			continue
		}
		col = a.Column(j, col)

		// Correlation of the column with the residual, excluding this
		// coordinate's own current contribution.
		var dot float64
		for i := range col {
			dot += col[i] * residual[i]
		}
		z := dot + norm*norm*alpha[j]

		newValue := SoftThreshold(z, c.lambda, norm)

		// The residual update must see the old coefficient.
		delta := alpha[j] - newValue
		if delta != 0 {
			for i := range residual {
				residual[i] += col[i] * delta
			}
		}
		alpha[j] = newValue

		if c.check {
			c.selfCheck(alpha, residual, col, j, t)
		}
	}

	c.logger.Info("Solve completed",
		log.OperationKey, log.OperationFit,
		log.DurationMsKey, time.Since(start).Milliseconds(),
		log.IterationsKey, c.maxIter,
		log.ObjectiveKey, objectiveFromResidual(residual, alpha, c.lambda),
	)

	return alpha, residual, hist, nil
}

// selfCheck perturbs the freshly updated coordinate by +/- checkEpsilon
// and verifies the objective does not decrease. Since alpha[j] is the
// exact minimizer along coordinate j, any decrease indicates a bug or
// numerical trouble; it is reported and the run continues.
func (c *CD) selfCheck(alpha, residual, col []float64, j, iteration int) {
	current := objectiveFromResidual(residual, alpha, c.lambda)

	for _, eps := range [2]float64{c.checkEpsilon, -c.checkEpsilon} {
		// Perturbing alpha[j] by eps shifts the residual by -eps*col.
		var quad float64
		for i := range residual {
			v := residual[i] - eps*col[i]
			quad += v * v
		}
		perturbedObj := 0.5*quad + c.lambda*(l1Norm(alpha)+math.Abs(alpha[j]+eps)-math.Abs(alpha[j]))
		if perturbedObj < current-1e-12 {
			c.logger.Warn("Perturbation self-check failed: objective decreased",
				log.IterationsKey, iteration,
				"coordinate", j,
				"epsilon", eps,
				log.ObjectiveKey, current,
				"perturbed_objective", perturbedObj,
			)
		}
	}
}

func l1Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += math.Abs(x)
	}
	return sum
}
