package linear

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/interactlab/pkg/errors"
	"github.com/YuminosukeSato/interactlab/pkg/log"
)

func TestLinearRegressionRecoversWeights(t *testing.T) {
	// y = 1 + 2*x1 - 3*x2（ノイズなし）
	X := mat.NewDense(6, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
		2, 1,
		3, 5,
		-1, 2,
	})
	y := mat.NewDense(6, 1, nil)
	for i := 0; i < 6; i++ {
		y.Set(i, 0, 1+2*X.At(i, 0)-3*X.At(i, 1))
	}

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	coefs := lr.Coefficients()
	if math.Abs(coefs[0]-2) > 1e-9 || math.Abs(coefs[1]+3) > 1e-9 {
		t.Errorf("Coefficients() = %v, want [2 -3]", coefs)
	}
	if math.Abs(lr.InterceptValue()-1) > 1e-9 {
		t.Errorf("InterceptValue() = %v, want 1", lr.InterceptValue())
	}

	score, err := lr.Score(X, y)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if math.Abs(score-1) > 1e-9 {
		t.Errorf("Score() = %v, want 1", score)
	}
}

func TestLinearRegressionWithoutIntercept(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewVecDense(4, []float64{2, 4, 6, 8})

	lr := NewLinearRegression(WithFitIntercept(false))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if lr.InterceptValue() != 0 {
		t.Errorf("InterceptValue() = %v, want 0", lr.InterceptValue())
	}
	if math.Abs(lr.Coefficients()[0]-2) > 1e-12 {
		t.Errorf("Coefficients() = %v, want [2]", lr.Coefficients())
	}
}

func TestLinearRegressionErrors(t *testing.T) {
	t.Run("not fitted", func(t *testing.T) {
		lr := NewLinearRegression()
		_, err := lr.Predict(mat.NewDense(1, 1, []float64{1}))
		var nfErr *errors.NotFittedError
		if !errors.As(err, &nfErr) {
			t.Fatalf("expected NotFittedError, got %v", err)
		}
		if lr.Coefficients() != nil {
			t.Error("Coefficients() should be nil before Fit")
		}
	})

	t.Run("row mismatch", func(t *testing.T) {
		err := NewLinearRegression().Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewVecDense(2, []float64{1, 2}))
		var dimErr *errors.DimensionError
		if !errors.As(err, &dimErr) {
			t.Fatalf("expected DimensionError, got %v", err)
		}
	})

	t.Run("feature mismatch on predict", func(t *testing.T) {
		lr := NewLinearRegression()
		if err := lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewVecDense(3, []float64{1, 2, 4})); err != nil {
			t.Fatalf("Fit() error = %v", err)
		}
		_, err := lr.Predict(mat.NewDense(1, 2, []float64{1, 2}))
		var dimErr *errors.DimensionError
		if !errors.As(err, &dimErr) || dimErr.Axis != 1 {
			t.Fatalf("expected feature DimensionError, got %v", err)
		}
	})

	t.Run("singular design", func(t *testing.T) {
		// 全て0の列は X^T X の行と列を0にする
		X := mat.NewDense(3, 1, []float64{0, 0, 0})
		y := mat.NewVecDense(3, []float64{1, 2, 3})
		err := NewLinearRegression().Fit(X, y)
		if !errors.Is(err, errors.ErrSingularMatrix) {
			t.Fatalf("expected ErrSingularMatrix, got %v", err)
		}
	})
}

func TestLinearRegressionLogsFit(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)

	lr := NewLinearRegression(WithLogger(logger))
	if err := lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewVecDense(3, []float64{2, 4, 6})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !logger.ContainsMessage("model fitted") {
		t.Error("expected a 'model fitted' log entry")
	}
	if !logger.ContainsField(log.ModelNameKey, "LinearRegression") {
		t.Error("expected model name field")
	}
}

func TestExportLoadJSON(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{1, 0, 0, 1, 1, 1, 2, 3})
	y := mat.NewVecDense(4, []float64{0.5, 3, 3.5, 7.5})

	lr := NewLinearRegression(WithFeatureNames([]string{"V1", "cat1"}))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	var buf bytes.Buffer
	if err := lr.ExportJSON(&buf); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"name": "LinearRegression"`) {
		t.Errorf("envelope missing model name: %s", buf.String())
	}

	loaded, err := LoadJSON(&buf)
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}

	want, _ := lr.Predict(X)
	got, err := loaded.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if !mat.EqualApprox(want, got, 1e-12) {
		t.Errorf("loaded model predictions differ:\nwant %v\ngot  %v", mat.Formatted(want), mat.Formatted(got))
	}
	if names := loaded.FeatureNames(); len(names) != 2 || names[1] != "cat1" {
		t.Errorf("FeatureNames() = %v", names)
	}
}

func TestLoadJSONRejectsOtherModels(t *testing.T) {
	src := `{"model_spec": {"name": "StandardScaler", "format_version": "1.0"}, "params": {}}`
	if _, err := LoadJSON(strings.NewReader(src)); err == nil {
		t.Fatal("expected an error for a different model name")
	}

	src = `{"model_spec": {"name": "LinearRegression", "format_version": "1.0"},
		"params": {"coefficients": [1, 2], "intercept": 0, "n_features": 3, "fit_intercept": true}}`
	_, err := LoadJSON(strings.NewReader(src))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
}
