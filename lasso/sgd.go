package lasso

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/sparsefit/dataset"
	"github.com/ezoic/sparsefit/pkg/errors"
	"github.com/ezoic/sparsefit/pkg/log"
)

// SGD minimizes the Lasso objective by stochastic subgradient descent.
// Each iteration draws one minibatch, computes the subgradient
//
//	-A_B^T (b_B - A_B alpha) / |B| + lambda * sign(alpha)
//
// with sign(0) = 0, and steps alpha against it with a constant step
// size. The solver runs for exactly maxIter iterations; iteration count
// is the sole termination criterion.
type SGD struct {
	lambda    float64
	gamma     float64
	batchSize int
	maxIter   int
	clipNorm  float64
	trace     bool

	rng    *rand.Rand
	logger log.Logger
}

// SGDOption configures an SGD solver.
type SGDOption func(*SGD)

// WithSGDLambda sets the regularization strength.
func WithSGDLambda(lambda float64) SGDOption {
	return func(s *SGD) { s.lambda = lambda }
}

// WithSGDGamma sets the constant step size.
func WithSGDGamma(gamma float64) SGDOption {
	return func(s *SGD) { s.gamma = gamma }
}

// WithSGDBatchSize sets the minibatch size.
func WithSGDBatchSize(size int) SGDOption {
	return func(s *SGD) { s.batchSize = size }
}

// WithSGDMaxIter sets the fixed iteration budget.
func WithSGDMaxIter(maxIter int) SGDOption {
	return func(s *SGD) { s.maxIter = maxIter }
}

// WithSGDClipNorm caps the L2 norm of the minibatch subgradient before
// each update. Zero, the default, leaves the subgradient untouched.
func WithSGDClipNorm(norm float64) SGDOption {
	return func(s *SGD) { s.clipNorm = norm }
}

// WithSGDTrace enables history recording.
func WithSGDTrace(trace bool) SGDOption {
	return func(s *SGD) { s.trace = trace }
}

// WithSGDRandomState seeds the solver's random source. Negative seeds
// select a time-based source.
func WithSGDRandomState(seed int64) SGDOption {
	return func(s *SGD) {
		if seed >= 0 {
			s.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
		}
	}
}

// NewSGD creates an SGD solver with the given options.
func NewSGD(options ...SGDOption) *SGD {
	s := &SGD{
		lambda:    0.1,
		gamma:     0.01,
		batchSize: 1,
		maxIter:   1000,
		rng:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(time.Now().UnixNano())^0xdeadbeef)),
	}
	for _, opt := range options {
		opt(s)
	}
	s.logger = log.GetLoggerWithName("lasso").With(
		log.ModelNameKey, "SGD",
		log.ComponentKey, "lasso",
	)
	return s
}

// Run minimizes the objective over (x, b) starting from alpha = 0 and
// returns the final coefficients plus the trace history (empty unless
// tracing is enabled).
func (s *SGD) Run(x *mat.Dense, b []float64) (_ []float64, _ History, err error) {
	defer errors.Recover(&err, "SGD.Run")

	rows, cols := x.Dims()
	design := dataset.NewDenseDesign(x)
	if err := dataset.CheckTarget("SGD.Run", design, b); err != nil {
		return nil, nil, err
	}
	if err := s.validate(); err != nil {
		return nil, nil, err
	}

	s.logger.Info("Solve started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.LambdaKey, s.lambda,
		log.IterationsKey, s.maxIter,
	)

	alpha := make([]float64, cols)
	grad := make([]float64, cols)
	var hist History
	start := time.Now()

	for t := 0; t < s.maxIter; t++ {
		if s.trace {
			obj, err := Objective(design, b, alpha, s.lambda)
			if err != nil {
				return nil, nil, err
			}
			hist = append(hist, Record{Elapsed: time.Since(start), Objective: obj})
		}

		// One fresh shuffle per iteration; a single batch is consumed.
		it, err := NewBatchIterator(b, x, s.batchSize, 1, true, s.rng)
		if err != nil {
			return nil, nil, err
		}
		if !it.Next() {
			return nil, nil, errors.Newf("SGD.Run: sampler yielded no batch")
		}
		batchY, batchX := it.Batch()

		s.subgradient(batchX, batchY, alpha, grad)
		if s.clipNorm > 0 {
			errors.ClipGradient(grad, s.clipNorm)
		}
		for j := range alpha {
			alpha[j] -= s.gamma * grad[j]
		}

		if werr := checkCoefficients(alpha, t); werr != nil {
			errors.Warn(werr)
		}
	}

	finalObj, err := Objective(design, b, alpha, s.lambda)
	if err != nil {
		return nil, nil, err
	}

	// alpha = 0 scores 0.5*||b||^2 regardless of lambda; finishing above
	// that means the run diverged.
	var zeroObj float64
	for _, v := range b {
		zeroObj += v * v
	}
	zeroObj *= 0.5
	if math.IsNaN(finalObj) || finalObj > zeroObj {
		errors.Warn(errors.NewConvergenceWarning("SGD", s.maxIter,
			"final objective exceeds the zero-coefficient start; reduce the step size or enable clipping"))
	}

	s.logger.Info("Solve completed",
		log.OperationKey, log.OperationFit,
		log.DurationMsKey, time.Since(start).Milliseconds(),
		log.IterationsKey, s.maxIter,
		log.ObjectiveKey, finalObj,
	)

	return alpha, hist, nil
}

// subgradient writes a subgradient of the objective at alpha, estimated
// on the minibatch (batchX, batchY) and averaged over its rows, into grad.
func (s *SGD) subgradient(batchX *mat.Dense, batchY, alpha, grad []float64) {
	m, cols := batchX.Dims()

	for j := range grad {
		grad[j] = 0
	}
	for i := 0; i < m; i++ {
		row := batchX.RawRowView(i)
		var pred float64
		for j := 0; j < cols; j++ {
			pred += row[j] * alpha[j]
		}
		diff := pred - batchY[i]
		for j := 0; j < cols; j++ {
			grad[j] += diff * row[j]
		}
	}

	inv := 1 / float64(m)
	for j := 0; j < cols; j++ {
		grad[j] = grad[j]*inv + s.lambda*sign(alpha[j])
	}
}

func (s *SGD) validate() error {
	if s.lambda < 0 {
		return errors.NewValueError("SGD.Run", "lambda must be non-negative")
	}
	if s.gamma <= 0 {
		return errors.NewValueError("SGD.Run", "step size must be positive")
	}
	if s.maxIter <= 0 {
		return errors.NewValueError("SGD.Run", "max iterations must be positive")
	}
	if s.batchSize <= 0 {
		return errors.NewValueError("SGD.Run", "batch size must be positive")
	}
	if s.clipNorm < 0 {
		return errors.NewValueError("SGD.Run", "clip norm must be non-negative")
	}
	return nil
}

// checkCoefficients guards against NaN and infinite coefficients after
// an update. The first offending coordinate is reported.
func checkCoefficients(alpha []float64, iteration int) error {
	for _, v := range alpha {
		if err := errors.CheckScalar("coefficient", v, iteration); err != nil {
			return err
		}
	}
	return nil
}
