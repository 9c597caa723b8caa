package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

func TestStandardScalerFitTransform(t *testing.T) {
	// 1列目は連続値、2列目は0/1、3列目は定数
	X := mat.NewDense(4, 3, []float64{
		1, 0, 5,
		2, 1, 5,
		3, 0, 5,
		4, 1, 5,
	})

	scaler := NewStandardScaler()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	wantMean := []float64{2.5, 0.5, 5}
	wantScale := []float64{math.Sqrt(1.25), 0.5, 1}
	for j := range wantMean {
		if math.Abs(scaler.Mean()[j]-wantMean[j]) > 1e-12 {
			t.Errorf("Mean()[%d] = %v, want %v", j, scaler.Mean()[j], wantMean[j])
		}
		if math.Abs(scaler.Scale()[j]-wantScale[j]) > 1e-12 {
			t.Errorf("Scale()[%d] = %v, want %v", j, scaler.Scale()[j], wantScale[j])
		}
	}

	for j := 0; j < 2; j++ {
		col := mat.Col(nil, j, XScaled)
		mean, variance := stat.PopMeanVariance(col, nil)
		if math.Abs(mean) > 1e-12 || math.Abs(variance-1) > 1e-12 {
			t.Errorf("column %d: mean=%v variance=%v, want 0 and 1", j, mean, variance)
		}
	}
	// 定数列は0になる
	for i := 0; i < 4; i++ {
		if XScaled.At(i, 2) != 0 {
			t.Errorf("constant column row %d = %v, want 0", i, XScaled.At(i, 2))
		}
	}
}

func TestStandardScalerInverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		3.1, 0,
		2.4, 1,
		4.7, 1,
	})

	scaler := NewStandardScaler()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	restored, err := scaler.InverseTransform(XScaled)
	if err != nil {
		t.Fatalf("InverseTransform() error = %v", err)
	}
	if !mat.EqualApprox(X, restored, 1e-12) {
		t.Errorf("InverseTransform did not restore the input:\n%v", mat.Formatted(restored))
	}
}

func TestStandardScalerOptions(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 4})

	scaler := NewStandardScaler(WithMean(false), WithStd(false))
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	if !mat.Equal(X, XScaled) {
		t.Errorf("identity scaler changed the data: %v", mat.Formatted(XScaled))
	}
	if got := scaler.String(); got != "StandardScaler(with_mean=false, with_std=false, n_features=1)" {
		t.Errorf("String() = %q", got)
	}
}

func TestStandardScalerErrors(t *testing.T) {
	scaler := NewStandardScaler()

	_, err := scaler.Transform(mat.NewDense(1, 1, nil))
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFittedError, got %v", err)
	}

	if err := scaler.Fit(&mat.Dense{}); !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("expected ErrEmptyData, got %v", err)
	}

	if err := scaler.Fit(mat.NewDense(2, 2, []float64{1, math.NaN(), 3, 4})); err == nil {
		t.Error("expected an error for NaN input")
	}

	if err := scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	_, err = scaler.Transform(mat.NewDense(1, 3, nil))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
}
