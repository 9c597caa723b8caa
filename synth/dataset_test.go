package synth

import (
	"bytes"
	"encoding/csv"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/interactlab/linear"
	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

func TestAccessorsReturnCopies(t *testing.T) {
	ds, err := Generate(2, 4, 20)
	require.NoError(t, err)

	y := ds.Y()
	y[0] = math.Inf(1)
	assert.False(t, math.IsInf(ds.Y()[0], 1))

	signal := ds.Signal()
	signal[0] = 0
	assert.NotEqual(t, 0.0, ds.Signal()[0])

	col, err := ds.Column("V1")
	require.NoError(t, err)
	col[0] = -1000
	assert.NotEqual(t, -1000.0, ds.At(0, 0))

	schema := ds.Schema()
	schema[0].Name = "renamed"
	assert.Equal(t, "V1", ds.Schema()[0].Name)

	X, _ := ds.Split()
	X.Set(0, 0, 42)
	assert.NotEqual(t, 42.0, ds.At(0, 0))
}

func TestAtPanicsOutOfRange(t *testing.T) {
	ds, err := Generate(1, 2, 3)
	require.NoError(t, err)

	assert.PanicsWithValue(t, mat.ErrRowAccess, func() { ds.At(3, 0) })
	assert.PanicsWithValue(t, mat.ErrColAccess, func() { ds.At(0, 8) })

	T := ds.T()
	r, c := T.Dims()
	assert.Equal(t, 8, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, ds.At(2, 7), T.At(7, 2))
}

func TestColumnAndMatrix(t *testing.T) {
	ds, err := Generate(2, 4, 10)
	require.NoError(t, err)

	_, err = ds.Column("V5")
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))

	X, err := ds.Matrix("cat1", "V2")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		assert.Equal(t, ds.At(i, 4), X.At(i, 0))
		assert.Equal(t, ds.At(i, 1), X.At(i, 1))
	}

	_, err = ds.Matrix()
	assert.Error(t, err)
	_, err = ds.Matrix("V1", "nope")
	assert.Error(t, err)
}

func TestSubset(t *testing.T) {
	ds, err := Generate(2, 4, 30)
	require.NoError(t, err)

	rows, err := ds.RowsWhere("cat1", func(v float64) bool { return v == 1 })
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	sub, err := ds.Subset(rows)
	require.NoError(t, err)
	assert.Equal(t, len(rows), sub.Rows())
	assert.Equal(t, ds.Params().NFeatures, sub.NumFeatures())

	_, c := ds.Dims()
	for k, i := range rows {
		for j := 0; j < c; j++ {
			require.Equal(t, ds.At(i, j), sub.At(k, j))
		}
	}

	_, err = ds.Subset(nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
	_, err = ds.Subset([]int{0, 30})
	assert.Error(t, err)
}

func TestRenoise(t *testing.T) {
	ds, err := Generate(3, 5, 100)
	require.NoError(t, err)

	fresh, err := ds.Renoise(NewSource(99))
	require.NoError(t, err)

	X, _ := ds.Split()
	Xfresh, _ := fresh.Split()
	assert.True(t, mat.Equal(X, Xfresh))
	assert.Equal(t, ds.Signal(), fresh.Signal())
	assert.NotEqual(t, ds.Noise(), fresh.Noise())

	again, err := ds.Renoise(NewSource(99))
	require.NoError(t, err)
	assert.Equal(t, fresh.Y(), again.Y())

	_, err = ds.Renoise(nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))
}

func TestWriteCSV(t *testing.T) {
	ds, err := Generate(2, 3, 25)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ds.WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 26)
	assert.Equal(t, []string{"V1", "V2", "V3", "cat1", "cat2", "cat3", "cat4", "cat5", "y"}, records[0])

	// 値はビット単位で復元できる
	for i, rec := range records[1:] {
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			require.NoError(t, err)
			require.Equal(t, ds.At(i, j), v, "row %d col %d", i, j)
		}
	}
	for _, field := range records[1][3:8] {
		assert.Contains(t, []string{"0", "1"}, field)
	}
}

// With the sign flip held fixed (cat1 == 0) the response is the plain product
// V1*V2*V3. Around the mean of 3 its best linear approximation puts a weight of
// about 9 on each used column and nothing on the rest, whatever the noise.
func TestLinearFitSeparatesUsedFeatures(t *testing.T) {
	const order = 3
	ds, err := Generate(order, DefaultNFeatures, DefaultNObs)
	require.NoError(t, err)

	rows, err := ds.RowsWhere("cat1", func(v float64) bool { return v == 0 })
	require.NoError(t, err)
	base, err := ds.Subset(rows)
	require.NoError(t, err)

	names := make([]string, DefaultNFeatures)
	for j := range names {
		names[j] = ContinuousName(j)
	}

	for seed := uint64(1); seed <= 5; seed++ {
		sub, err := base.Renoise(NewSource(seed))
		require.NoError(t, err)

		X, err := sub.Matrix(names...)
		require.NoError(t, err)
		y := mat.NewVecDense(sub.Rows(), sub.Y())

		model := linear.NewLinearRegression()
		require.NoError(t, model.Fit(X, y))
		coefs := model.Coefficients()

		minUsed := math.Inf(1)
		for _, c := range coefs[:order] {
			minUsed = math.Min(minUsed, math.Abs(c))
		}
		maxUnused := 0.0
		for _, c := range coefs[order:] {
			maxUnused = math.Max(maxUnused, math.Abs(c))
		}

		assert.Greater(t, minUsed, 5.0, "noise seed %d", seed)
		assert.Less(t, maxUnused, 2.0, "noise seed %d", seed)
	}
}
