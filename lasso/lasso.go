package lasso

import (
	"io"
	"os"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/sparsefit/core/model"
	"github.com/ezoic/sparsefit/dataset"
	"github.com/ezoic/sparsefit/metrics"
	sfErrors "github.com/ezoic/sparsefit/pkg/errors"
	"github.com/ezoic/sparsefit/pkg/log"
)

// Solver identifiers accepted by WithSolver.
const (
	SolverCD  = "cd"
	SolverSGD = "sgd"
)

// Lasso is an L1-regularized least squares estimator. It wraps the CD
// and SGD solvers behind the Fit/Predict/Score interface and tracks
// fitted state through a StateManager.
type Lasso struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	lambda       float64 // regularization strength
	gamma        float64 // SGD step size
	batchSize    int     // SGD minibatch size
	maxIter      int     // fixed iteration budget
	clipNorm     float64 // SGD gradient clip norm, 0 disables
	solver       string  // "cd" or "sgd"
	randomState  int64   // random seed, negative for time-based
	trace        bool    // record (elapsed, objective) history
	check        bool    // CD perturbation self-check
	checkEpsilon float64

	// Learned parameters
	coef_     []float64
	residual_ []float64 // final residual, CD only
	history_  History

	mu         sync.RWMutex
	nFeatures_ int
}

// Option is a configuration option for Lasso.
type Option func(*Lasso)

// WithLambda sets the regularization strength.
func WithLambda(lambda float64) Option {
	return func(l *Lasso) { l.lambda = lambda }
}

// WithGamma sets the SGD step size.
func WithGamma(gamma float64) Option {
	return func(l *Lasso) { l.gamma = gamma }
}

// WithBatchSize sets the SGD minibatch size.
func WithBatchSize(size int) Option {
	return func(l *Lasso) { l.batchSize = size }
}

// WithMaxIter sets the fixed iteration budget.
func WithMaxIter(maxIter int) Option {
	return func(l *Lasso) { l.maxIter = maxIter }
}

// WithClipNorm caps the L2 norm of the SGD minibatch subgradient before
// each update. Zero, the default, disables clipping.
func WithClipNorm(norm float64) Option {
	return func(l *Lasso) { l.clipNorm = norm }
}

// WithSolver selects the optimization method, SolverCD or SolverSGD.
func WithSolver(solver string) Option {
	return func(l *Lasso) { l.solver = solver }
}

// WithRandomState seeds the solver for reproducible runs.
func WithRandomState(seed int64) Option {
	return func(l *Lasso) { l.randomState = seed }
}

// WithTrace enables objective history recording.
func WithTrace(trace bool) Option {
	return func(l *Lasso) { l.trace = trace }
}

// WithCheck enables the CD perturbation self-check with the given epsilon.
func WithCheck(epsilon float64) Option {
	return func(l *Lasso) {
		l.check = true
		l.checkEpsilon = epsilon
	}
}

// NewLasso creates a Lasso estimator. The default configuration uses
// coordinate descent with lambda 0.1 and a 1000-iteration budget.
func NewLasso(options ...Option) *Lasso {
	l := &Lasso{
		state:        model.NewStateManager(),
		lambda:       0.1,
		gamma:        0.01,
		batchSize:    1,
		maxIter:      1000,
		solver:       SolverCD,
		randomState:  -1,
		checkEpsilon: 1e-6,
	}
	for _, opt := range options {
		opt(l)
	}

	l.logger = log.GetLoggerWithName("lasso").With(
		log.ModelNameKey, "Lasso",
		log.ComponentKey, "lasso",
	)
	return l
}

// Fit trains the estimator on a dense feature matrix and column-vector
// target, in the shape convention shared by all estimators.
func (l *Lasso) Fit(x, y mat.Matrix) (err error) {
	defer sfErrors.Recover(&err, "Lasso.Fit")

	rows, cols := x.Dims()
	ry, cy := y.Dims()
	if rows == 0 || cols == 0 {
		return sfErrors.NewModelError("Lasso.Fit", "empty data", sfErrors.ErrEmptyData)
	}
	if ry != rows {
		return sfErrors.NewDimensionError("Lasso.Fit", rows, ry, 0)
	}
	if cy != 1 {
		return sfErrors.NewValueError("Lasso.Fit", "y must be a column vector")
	}

	dense := mat.DenseCopyOf(x)
	b := make([]float64, rows)
	for i := 0; i < rows; i++ {
		b[i] = y.At(i, 0)
	}

	return l.FitDesign(dataset.NewDenseDesign(dense), b)
}

// FitDesign trains the estimator on a Design and target vector. Sparse
// designs are supported by the CD solver; SGD requires a dense design.
func (l *Lasso) FitDesign(a dataset.Design, b []float64) (err error) {
	defer sfErrors.Recover(&err, "Lasso.FitDesign")

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := dataset.CheckTarget("Lasso.FitDesign", a, b); err != nil {
		return err
	}

	rows, cols := a.Dims()
	l.nFeatures_ = cols
	startTime := time.Now()

	l.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.LambdaKey, l.lambda,
		"solver", l.solver,
	)

	switch l.solver {
	case SolverCD:
		cd := NewCD(l.cdOptions()...)
		coef, residual, hist, err := cd.Run(a, b)
		if err != nil {
			return err
		}
		l.coef_ = coef
		l.residual_ = residual
		l.history_ = hist

	case SolverSGD:
		dd, ok := a.(*dataset.DenseDesign)
		if !ok {
			return sfErrors.NewValueError("Lasso.FitDesign", "sgd solver requires a dense design")
		}
		sgd := NewSGD(l.sgdOptions()...)
		coef, hist, err := sgd.Run(dd.Dense(), b)
		if err != nil {
			return err
		}
		l.coef_ = coef
		l.residual_ = nil
		l.history_ = hist

	default:
		return sfErrors.NewValueError("Lasso.FitDesign", "unknown solver: "+l.solver)
	}

	l.state.SetFitted()
	l.state.SetDimensions(cols, rows)

	l.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
	)
	return nil
}

func (l *Lasso) cdOptions() []CDOption {
	opts := []CDOption{
		WithCDLambda(l.lambda),
		WithCDMaxIter(l.maxIter),
		WithCDTrace(l.trace),
		WithCDRandomState(l.randomState),
	}
	if l.check {
		opts = append(opts, WithCDCheck(l.checkEpsilon))
	}
	return opts
}

func (l *Lasso) sgdOptions() []SGDOption {
	return []SGDOption{
		WithSGDLambda(l.lambda),
		WithSGDGamma(l.gamma),
		WithSGDBatchSize(l.batchSize),
		WithSGDMaxIter(l.maxIter),
		WithSGDClipNorm(l.clipNorm),
		WithSGDTrace(l.trace),
		WithSGDRandomState(l.randomState),
	}
}

// Predict computes predictions A*coef for the input feature matrix.
func (l *Lasso) Predict(x mat.Matrix) (_ mat.Matrix, err error) {
	defer sfErrors.Recover(&err, "Lasso.Predict")

	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.state.IsFitted() {
		return nil, sfErrors.NewNotFittedError("Lasso", "Predict")
	}
	rows, cols := x.Dims()
	if cols != l.nFeatures_ {
		return nil, sfErrors.NewDimensionError("Lasso.Predict", l.nFeatures_, cols, 1)
	}

	start := time.Now()
	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		var pred float64
		for j := 0; j < cols; j++ {
			pred += x.At(i, j) * l.coef_[j]
		}
		predictions.Set(i, 0, pred)
	}

	l.logger.Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.PredsKey, rows,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return predictions, nil
}

// Score returns the coefficient of determination (R^2) on (x, y).
func (l *Lasso) Score(x, y mat.Matrix) (_ float64, err error) {
	defer sfErrors.Recover(&err, "Lasso.Score")

	predictions, err := l.Predict(x)
	if err != nil {
		return 0, err
	}

	rows, _ := predictions.Dims()
	ry, cy := y.Dims()
	if ry != rows {
		return 0, sfErrors.NewDimensionError("Lasso.Score", rows, ry, 0)
	}
	if cy != 1 {
		return 0, sfErrors.NewValueError("Lasso.Score", "y must be a column vector")
	}
	yTrue := mat.NewVecDense(rows, nil)
	yPred := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		yTrue.SetVec(i, y.At(i, 0))
		yPred.SetVec(i, predictions.At(i, 0))
	}

	return metrics.R2Score(yTrue, yPred)
}

// Coef returns a copy of the fitted coefficients.
func (l *Lasso) Coef() []float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	coef := make([]float64, len(l.coef_))
	copy(coef, l.coef_)
	return coef
}

// Residual returns a copy of the final residual b - A*coef. Only the CD
// solver maintains it; nil is returned after an SGD fit.
func (l *Lasso) Residual() []float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.residual_ == nil {
		return nil
	}
	residual := make([]float64, len(l.residual_))
	copy(residual, l.residual_)
	return residual
}

// History returns the objective trace recorded during Fit. Empty unless
// the estimator was configured with WithTrace(true).
func (l *Lasso) History() History {
	l.mu.RLock()
	defer l.mu.RUnlock()

	hist := make(History, len(l.history_))
	copy(hist, l.history_)
	return hist
}

// IsFitted returns whether the model has been fitted.
func (l *Lasso) IsFitted() bool {
	return l.state.IsFitted()
}

// GetParams returns the estimator's hyperparameters.
func (l *Lasso) GetParams() map[string]interface{} {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return map[string]interface{}{
		"lambda":       l.lambda,
		"gamma":        l.gamma,
		"batch_size":   l.batchSize,
		"max_iter":     l.maxIter,
		"clip_norm":    l.clipNorm,
		"solver":       l.solver,
		"random_state": l.randomState,
		"trace":        l.trace,
		"check":        l.check,
	}
}

// Export writes the fitted model as a JSON document.
func (l *Lasso) Export(w io.Writer) (err error) {
	defer sfErrors.Recover(&err, "Lasso.Export")

	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.state.IsFitted() {
		return sfErrors.NewNotFittedError("Lasso", "Export")
	}

	params := model.LassoParams{
		Coefficients: l.coef_,
		Lambda:       l.lambda,
		NFeatures:    l.nFeatures_,
	}
	return model.ExportDocument("Lasso", params, w)
}

// ExportToFile writes the fitted model as a JSON document to filename.
func (l *Lasso) ExportToFile(filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return sfErrors.Wrapf(err, "Lasso.ExportToFile")
	}
	defer func() { _ = file.Close() }()

	return l.Export(file)
}

// Import loads a fitted model from a JSON document.
func (l *Lasso) Import(r io.Reader) (err error) {
	defer sfErrors.Recover(&err, "Lasso.Import")

	doc, err := model.LoadDocumentFromReader(r)
	if err != nil {
		return err
	}
	params, err := model.LoadLassoParams(doc)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.coef_ = params.Coefficients
	l.lambda = params.Lambda
	l.nFeatures_ = params.NFeatures
	l.residual_ = nil
	l.history_ = nil

	l.state.SetFitted()
	l.state.SetDimensions(params.NFeatures, 0)
	return nil
}
