package synth

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

// Kind is the type of a dataset column.
type Kind int

const (
	// KindContinuous marks a float64 predictor (V1..Vn).
	KindContinuous Kind = iota
	// KindBinary marks a 0/1 predictor (cat1..cat5).
	KindBinary
	// KindResponse marks the float64 response y.
	KindResponse
)

func (k Kind) String() string {
	switch k {
	case KindContinuous:
		return "continuous"
	case KindBinary:
		return "binary"
	case KindResponse:
		return "response"
	default:
		return "unknown"
	}
}

// Column describes one column of the schema.
type Column struct {
	Name string
	Kind Kind
}

// ResponseName is the name of the response column.
const ResponseName = "y"

// ContinuousName returns the name of the j-th continuous column (0-based): V1, V2, ...
func ContinuousName(j int) string {
	return fmt.Sprintf("V%d", j+1)
}

// CategoricalName returns the name of the k-th categorical column (0-based): cat1..cat5.
func CategoricalName(k int) string {
	return fmt.Sprintf("cat%d", k+1)
}

func buildSchema(nFeatures int) []Column {
	schema := make([]Column, 0, nFeatures+NumCategorical+1)
	for j := 0; j < nFeatures; j++ {
		schema = append(schema, Column{Name: ContinuousName(j), Kind: KindContinuous})
	}
	for k := 0; k < NumCategorical; k++ {
		schema = append(schema, Column{Name: CategoricalName(k), Kind: KindBinary})
	}
	return append(schema, Column{Name: ResponseName, Kind: KindResponse})
}

// Dataset is an immutable generated table. Accessors return copies.
//
// Dataset implements mat.Matrix over the full column order
// V1..Vn, cat1..cat5, y, with categorical values as 0 or 1.
type Dataset struct {
	params      Params
	schema      []Column
	index       map[string]int
	continuous  *mat.Dense
	categorical [NumCategorical][]uint8
	signal      []float64
	noise       []float64
	y           []float64
}

var _ mat.Matrix = (*Dataset)(nil)

func newDataset(p Params, continuous *mat.Dense, categorical [NumCategorical][]uint8, signal, noise []float64) (*Dataset, error) {
	r, c := continuous.Dims()
	if r != p.NObs {
		return nil, errors.NewDimensionError("synth.newDataset", p.NObs, r, 0)
	}
	if c != p.NFeatures {
		return nil, errors.NewDimensionError("synth.newDataset", p.NFeatures, c, 1)
	}
	for k := range categorical {
		if len(categorical[k]) != p.NObs {
			return nil, errors.NewDimensionError("synth.newDataset", p.NObs, len(categorical[k]), 0)
		}
	}
	if len(signal) != p.NObs || len(noise) != p.NObs {
		return nil, errors.NewValueError("synth.newDataset", "signal and noise must have one value per row")
	}

	y := response(signal, noise, categorical[0])
	if err := errors.CheckFinite("synth.response", y); err != nil {
		return nil, err
	}

	schema := buildSchema(p.NFeatures)
	index := make(map[string]int, len(schema))
	for j, col := range schema {
		index[col.Name] = j
	}

	return &Dataset{
		params:      p,
		schema:      schema,
		index:       index,
		continuous:  continuous,
		categorical: categorical,
		signal:      signal,
		noise:       noise,
		y:           y,
	}, nil
}

// Params returns the shape the dataset was generated with.
func (d *Dataset) Params() Params { return d.params }

// Order returns the number of continuous columns in the signal.
func (d *Dataset) Order() int { return d.params.Order }

// NumFeatures returns the number of continuous columns.
func (d *Dataset) NumFeatures() int { return d.params.NFeatures }

// Rows returns the number of rows.
func (d *Dataset) Rows() int { return d.params.NObs }

// Cols returns the number of columns including y.
func (d *Dataset) Cols() int { return len(d.schema) }

// Schema returns the column names and kinds in table order.
func (d *Dataset) Schema() []Column {
	out := make([]Column, len(d.schema))
	copy(out, d.schema)
	return out
}

// Names returns every column name in table order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.schema))
	for j, col := range d.schema {
		names[j] = col.Name
	}
	return names
}

// FeatureNames returns the names of the predictor columns, i.e. every column but y.
func (d *Dataset) FeatureNames() []string {
	names := d.Names()
	return names[:len(names)-1]
}

// Dims implements mat.Matrix.
func (d *Dataset) Dims() (r, c int) {
	return d.params.NObs, len(d.schema)
}

// At implements mat.Matrix.
func (d *Dataset) At(i, j int) float64 {
	if i < 0 || i >= d.params.NObs {
		panic(mat.ErrRowAccess)
	}
	n := d.params.NFeatures
	switch {
	case j >= 0 && j < n:
		return d.continuous.At(i, j)
	case j >= n && j < n+NumCategorical:
		return float64(d.categorical[j-n][i])
	case j == n+NumCategorical:
		return d.y[i]
	default:
		panic(mat.ErrColAccess)
	}
}

// T implements mat.Matrix.
func (d *Dataset) T() mat.Matrix {
	return mat.Transpose{Matrix: d}
}

// Column returns a copy of the named column.
func (d *Dataset) Column(name string) ([]float64, error) {
	j, ok := d.index[name]
	if !ok {
		return nil, errors.NewValueError("synth.Dataset.Column", fmt.Sprintf("unknown column %q", name))
	}
	out := make([]float64, d.params.NObs)
	for i := range out {
		out[i] = d.At(i, j)
	}
	return out, nil
}

// Y returns a copy of the response.
func (d *Dataset) Y() []float64 {
	out := make([]float64, len(d.y))
	copy(out, d.y)
	return out
}

// Signal returns a copy of the product of the first Order continuous columns,
// before the sign flip and the noise.
func (d *Dataset) Signal() []float64 {
	out := make([]float64, len(d.signal))
	copy(out, d.signal)
	return out
}

// Noise returns a copy of the noise added to each row.
func (d *Dataset) Noise() []float64 {
	out := make([]float64, len(d.noise))
	copy(out, d.noise)
	return out
}

// Split returns the predictor matrix (every column but y, in table order) and
// the response vector. Row i of X corresponds to element i of y.
func (d *Dataset) Split() (*mat.Dense, *mat.VecDense) {
	nObs, nCols := d.params.NObs, len(d.schema)-1
	X := mat.NewDense(nObs, nCols, nil)
	for i := 0; i < nObs; i++ {
		for j := 0; j < nCols; j++ {
			X.Set(i, j, d.At(i, j))
		}
	}
	return X, mat.NewVecDense(nObs, d.Y())
}

// Matrix returns the named columns as a new matrix, in the order given.
func (d *Dataset) Matrix(names ...string) (*mat.Dense, error) {
	if len(names) == 0 {
		return nil, errors.NewValueError("synth.Dataset.Matrix", "no columns requested")
	}
	cols := make([]int, len(names))
	for k, name := range names {
		j, ok := d.index[name]
		if !ok {
			return nil, errors.NewValueError("synth.Dataset.Matrix", fmt.Sprintf("unknown column %q", name))
		}
		cols[k] = j
	}

	X := mat.NewDense(d.params.NObs, len(cols), nil)
	for i := 0; i < d.params.NObs; i++ {
		for k, j := range cols {
			X.Set(i, k, d.At(i, j))
		}
	}
	return X, nil
}

// RowsWhere returns the indices of rows whose named column satisfies keep.
func (d *Dataset) RowsWhere(name string, keep func(v float64) bool) ([]int, error) {
	values, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	var rows []int
	for i, v := range values {
		if keep(v) {
			rows = append(rows, i)
		}
	}
	return rows, nil
}

// Subset returns a new dataset holding the given rows in the given order.
func (d *Dataset) Subset(rows []int) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, errors.NewModelError("synth.Dataset.Subset", "empty data", errors.ErrEmptyData)
	}
	p := d.params
	p.NObs = len(rows)

	continuous := mat.NewDense(len(rows), p.NFeatures, nil)
	var categorical [NumCategorical][]uint8
	for k := range categorical {
		categorical[k] = make([]uint8, len(rows))
	}
	signal := make([]float64, len(rows))
	noise := make([]float64, len(rows))

	for r, i := range rows {
		if i < 0 || i >= d.params.NObs {
			return nil, errors.NewValueError("synth.Dataset.Subset", fmt.Sprintf("row %d out of range", i))
		}
		continuous.SetRow(r, d.continuous.RawRowView(i))
		for k := range categorical {
			categorical[k][r] = d.categorical[k][i]
		}
		signal[r] = d.signal[i]
		noise[r] = d.noise[i]
	}
	return newDataset(p, continuous, categorical, signal, noise)
}

// Renoise returns a dataset with the same predictors and signal but fresh
// Normal(0, NoiseStdDev) noise drawn from src, one draw per row.
func (d *Dataset) Renoise(src rand.Source) (*Dataset, error) {
	if src == nil {
		return nil, errors.NewInvalidParameterError("synth.Dataset.Renoise", "src", "must not be nil", nil)
	}
	normal := distuv.Normal{Mu: 0, Sigma: NoiseStdDev, Src: src}
	noise := make([]float64, d.params.NObs)
	for i := range noise {
		noise[i] = normal.Rand()
	}
	// Predictors and signal are never mutated, so they are shared.
	return newDataset(d.params, d.continuous, d.categorical, d.signal, noise)
}
