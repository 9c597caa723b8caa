// Package synth generates the synthetic interaction dataset.
//
// A dataset has n_obs rows and the columns V1..Vn (Normal(3, 1)), cat1..cat5
// (uniform over {0, 1}) and y. The response is the product of the first
// `order` continuous columns, negated where cat1 == 1, plus Normal(0, 0.1)
// noise:
//
//	signal = V1 * V2 * ... * V_order
//	y      = (cat1 == 0 ? signal : -signal) + noise
//
// Generation is a pure function of (order, n_features, n_obs) and the seed.
// Every draw comes from one rand.Source consumed in this order:
//
//  1. the continuous matrix, row-major (row 0: V1..Vn, then row 1, ...);
//  2. the categorical columns one column at a time (cat1 rows 0..n-1, then cat2, ...);
//  3. the noise, one draw per row in row order.
//
// Normal draws use gonum distuv.Normal and categorical draws distuv.Bernoulli
// with P = 0.5, both on a math/rand/v2 PCG source seeded with (seed, seed).
// Changing any of these changes the output and therefore the contract.
package synth

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/interactlab/pkg/errors"
	"github.com/YuminosukeSato/interactlab/pkg/log"
)

const (
	// DefaultSeed is the fixed seed behind Generate.
	DefaultSeed uint64 = 0

	// DefaultNFeatures is the default number of continuous columns.
	DefaultNFeatures = 100

	// DefaultNObs is the default number of rows.
	DefaultNObs = 1000

	// NumCategorical is the number of binary columns cat1..cat5.
	NumCategorical = 5

	// ContinuousMean and ContinuousStdDev parameterise the V columns.
	ContinuousMean   = 3.0
	ContinuousStdDev = 1.0

	// NoiseStdDev is the standard deviation of the additive response noise.
	NoiseStdDev = 0.1

	categoricalP = 0.5

	// maxTableCells bounds n_obs * (n_features + 6) so the table can be
	// allocated without overflowing int.
	maxTableCells = math.MaxInt32
)

// NewSource returns the PCG stream used for a given seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed)
}

// Params are the shape parameters of a dataset.
type Params struct {
	// Order is the number of leading continuous columns whose product forms the signal.
	Order int
	// NFeatures is the number of continuous columns.
	NFeatures int
	// NObs is the number of rows.
	NObs int
}

// DefaultParams returns Params with the default shape and the given order.
func DefaultParams(order int) Params {
	return Params{Order: order, NFeatures: DefaultNFeatures, NObs: DefaultNObs}
}

// Validate reports the first invalid field as an *errors.InvalidParameterError.
func (p Params) Validate() error {
	const op = "synth.Generate"
	if p.NFeatures <= 0 {
		return errors.NewInvalidParameterError(op, "n_features", "must be positive", p.NFeatures)
	}
	if p.NObs <= 0 {
		return errors.NewInvalidParameterError(op, "n_obs", "must be positive", p.NObs)
	}
	width := NumCategorical + 1
	if p.NFeatures > maxTableCells-width {
		return errors.NewInvalidParameterError(op, "n_features", "table too large", p.NFeatures)
	}
	if p.NObs > maxTableCells/(p.NFeatures+width) {
		return errors.NewInvalidParameterError(op, "n_obs", "table too large", p.NObs)
	}
	if p.Order < 1 || p.Order > p.NFeatures {
		return errors.NewInvalidParameterError(op, "order", "must be in [1, n_features]", p.Order)
	}
	return nil
}

// Generator produces datasets from a fixed seed. Each call to Generate starts
// a fresh stream, so a Generator can be shared between goroutines.
type Generator struct {
	seed   uint64
	logger log.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed overrides DefaultSeed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithLogger sets the logger used to report generation.
func WithLogger(logger log.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a Generator seeded with DefaultSeed unless overridden.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{seed: DefaultSeed}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = log.GetLogger()
	}
	g.logger = g.logger.With(log.ComponentKey, "synth")
	return g
}

// Seed returns the generator's seed.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// Generate builds a dataset. ctx is checked between the three draw phases.
func (g *Generator) Generate(ctx context.Context, p Params) (*Dataset, error) {
	start := time.Now()
	ds, err := generate(ctx, NewSource(g.seed), p)
	if err != nil {
		g.logger.Error("dataset generation failed", err, log.RandomSeedKey, g.seed)
		return nil, err
	}
	g.logger.Info("dataset generated",
		log.OperationKey, log.OperationGenerate,
		log.RandomSeedKey, g.seed,
		log.OrderKey, p.Order,
		log.SamplesKey, p.NObs,
		log.FeaturesKey, p.NFeatures+NumCategorical,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return ds, nil
}

// Generate builds a dataset with DefaultSeed.
//
//	ds, err := synth.Generate(3, 100, 1000)
//	X, y := ds.Split()
func Generate(order, nFeatures, nObs int) (*Dataset, error) {
	return NewGenerator().Generate(context.Background(), Params{Order: order, NFeatures: nFeatures, NObs: nObs})
}

// GenerateFrom builds a dataset from a caller-owned stream. The source is
// consumed as described in the package documentation and must not be used
// concurrently by another goroutine.
func GenerateFrom(src rand.Source, p Params) (*Dataset, error) {
	return generate(context.Background(), src, p)
}

func generate(ctx context.Context, src rand.Source, p Params) (*Dataset, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.NewInvalidParameterError("synth.Generate", "src", "must not be nil", nil)
	}

	continuous := drawContinuous(src, p.NObs, p.NFeatures)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	categorical := drawCategorical(src, p.NObs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	signal := product(continuous, p.Order)
	noise := drawNoise(src, p.NObs)

	return newDataset(p, continuous, categorical, signal, noise)
}

func drawContinuous(src rand.Source, nObs, nFeatures int) *mat.Dense {
	normal := distuv.Normal{Mu: ContinuousMean, Sigma: ContinuousStdDev, Src: src}

	// mat.Dense stores rows contiguously, so filling the backing slice in
	// index order is the row-major draw order.
	data := make([]float64, nObs*nFeatures)
	for i := range data {
		data[i] = normal.Rand()
	}
	return mat.NewDense(nObs, nFeatures, data)
}

func drawCategorical(src rand.Source, nObs int) [NumCategorical][]uint8 {
	coin := distuv.Bernoulli{P: categoricalP, Src: src}

	var cats [NumCategorical][]uint8
	for k := range cats {
		col := make([]uint8, nObs)
		for i := range col {
			col[i] = uint8(coin.Rand())
		}
		cats[k] = col
	}
	return cats
}

func drawNoise(src rand.Source, nObs int) []float64 {
	normal := distuv.Normal{Mu: 0, Sigma: NoiseStdDev, Src: src}

	noise := make([]float64, nObs)
	for i := range noise {
		noise[i] = normal.Rand()
	}
	return noise
}

func product(continuous *mat.Dense, order int) []float64 {
	rows, _ := continuous.Dims()
	signal := make([]float64, rows)
	for i := range signal {
		v := 1.0
		for j := 0; j < order; j++ {
			v *= continuous.At(i, j)
		}
		signal[i] = v
	}
	return signal
}

func response(signal, noise []float64, flip []uint8) []float64 {
	y := make([]float64, len(signal))
	for i := range y {
		s := signal[i]
		if flip[i] == 1 {
			s = -s
		}
		y[i] = s + noise[i]
	}
	return y
}
