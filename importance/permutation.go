package importance

import (
	"context"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/interactlab/core/parallel"
	"github.com/YuminosukeSato/interactlab/pkg/errors"
	"github.com/YuminosukeSato/interactlab/pkg/log"
)

// DefaultRepeats is the number of shuffles per feature.
const DefaultRepeats = 5

type options struct {
	repeats int
	seed    uint64
	workers int
	pool    *parallel.Pool
	names   []string
	logger  log.Logger
}

// Option configures Permutation.
type Option func(*options)

// WithRepeats sets the number of shuffles per feature.
func WithRepeats(n int) Option {
	return func(o *options) { o.repeats = n }
}

// WithSeed sets the seed of the shuffle streams.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithWorkers sets the size of the pool Permutation creates when no pool is
// given. n <= 0 means one worker per CPU.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithPool runs the shuffles on a caller-owned pool. The pool may be shared
// by concurrent calls; each call waits for its own shuffles only and never
// closes the pool.
func WithPool(p *parallel.Pool) Option {
	return func(o *options) { o.pool = p }
}

// WithFeatureNames names the columns of X.
func WithFeatureNames(names []string) Option {
	return func(o *options) { o.names = append([]string(nil), names...) }
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Permutation measures, for every column of X, how much the model's score
// drops when that column is shuffled:
//
//	importance[j][k] = baseline - score(X with column j shuffled, y)
//
// Shuffle k of column j draws from its own PCG stream seeded with
// (seed, j*repeats+k), so the result does not depend on how tasks are
// scheduled across workers.
func Permutation(ctx context.Context, model Scorer, X, y mat.Matrix, opts ...Option) (*Result, error) {
	const op = "importance.Permutation"
	start := time.Now()

	o := options{repeats: DefaultRepeats}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.GetLogger()
	}
	logger := o.logger.With(log.ComponentKey, "importance")

	if model == nil {
		return nil, errors.NewInvalidParameterError(op, "model", "must not be nil", nil)
	}
	if o.repeats < 1 {
		return nil, errors.NewInvalidParameterError(op, "repeats", "must be positive", o.repeats)
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ry, _ := y.Dims(); ry != r {
		return nil, errors.NewDimensionError(op, r, ry, 0)
	}
	if o.names == nil {
		o.names = defaultNames(c)
	}
	if len(o.names) != c {
		return nil, errors.NewDimensionError(op, c, len(o.names), 1)
	}

	baseline, err := model.Score(X, y)
	if err != nil {
		return nil, errors.Wrap(err, "baseline score")
	}

	pool := o.pool
	if pool == nil {
		pool = parallel.NewPool(o.workers, parallel.WithPoolLogger(logger))
		defer pool.Close()
	}

	values := make([][]float64, c)
	for j := range values {
		values[j] = make([]float64, o.repeats)
	}

	// 各タスクは自分のスロットだけに書き込む
	err = pool.ForEach(ctx, c*o.repeats, func(task int) error {
		j, k := task/o.repeats, task%o.repeats
		rng := rand.New(rand.NewPCG(o.seed, uint64(task)))
		shuffled := &permutedColumn{base: X, col: j, perm: rng.Perm(r)}

		score, err := model.Score(shuffled, y)
		if err != nil {
			return errors.Wrapf(err, "score with %s shuffled", o.names[j])
		}
		values[j][k] = baseline - score
		return nil
	})
	if err != nil {
		logger.Error("permutation importance failed", err, log.RepeatsKey, o.repeats)
		return nil, err
	}

	res := &Result{Method: MethodPermutation, Baseline: baseline, Scores: make([]Score, c)}
	for j := range values {
		res.Scores[j] = summarize(o.names[j], values[j])
		logger.Debug("feature importance",
			log.FeatureKey, o.names[j],
			log.ImportanceKey, res.Scores[j].Mean,
		)
	}

	logger.Info("permutation importance computed",
		log.OperationKey, log.OperationPermute,
		log.FeaturesKey, c,
		log.SamplesKey, r,
		log.RepeatsKey, o.repeats,
		log.RandomSeedKey, o.seed,
		log.WorkersKey, pool.Workers(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return res, nil
}

// permutedColumn is a read-only view of base with rows of column col taken
// in perm order. The other columns are untouched.
type permutedColumn struct {
	base mat.Matrix
	col  int
	perm []int
}

func (p *permutedColumn) Dims() (r, c int) { return p.base.Dims() }

func (p *permutedColumn) At(i, j int) float64 {
	if j == p.col {
		return p.base.At(p.perm[i], j)
	}
	return p.base.At(i, j)
}

func (p *permutedColumn) T() mat.Matrix { return mat.Transpose{Matrix: p} }
