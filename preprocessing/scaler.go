// Package preprocessing は係数を比較する前に特徴量の尺度を揃えるスケーラーを提供する。
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/interactlab/core/model"
	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

// 標準偏差がこれ未満の列は定数とみなし、スケールを1にする
const minScale = 1e-8

// StandardScaler はデータを列ごとに平均0、標準偏差1に変換する
//
// 連続変数（平均3、標準偏差1）と 0/1 のカテゴリ変数を同じ尺度に揃えるために使う。
type StandardScaler struct {
	model.BaseEstimator

	mean      []float64
	scale     []float64
	nFeatures int
	withMean  bool
	withStd   bool
}

var _ model.Transformer = (*StandardScaler)(nil)

// ScalerOption は StandardScaler を設定する関数
type ScalerOption func(*StandardScaler)

// WithMean は平均を引くかどうかを設定する（デフォルト: true）
func WithMean(enabled bool) ScalerOption {
	return func(s *StandardScaler) {
		s.withMean = enabled
	}
}

// WithStd は標準偏差で割るかどうかを設定する（デフォルト: true）
func WithStd(enabled bool) ScalerOption {
	return func(s *StandardScaler) {
		s.withStd = enabled
	}
}

// NewStandardScaler は新しいStandardScalerを作成する
//
//	scaler := preprocessing.NewStandardScaler()
//	XScaled, err := scaler.FitTransform(X)
func NewStandardScaler(opts ...ScalerOption) *StandardScaler {
	s := &StandardScaler{withMean: true, withStd: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fit は訓練データから列ごとの平均と母標準偏差を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.nFeatures = c
	s.mean = make([]float64, c)
	s.scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		if err := errors.CheckFinite("StandardScaler.Fit", col); err != nil {
			return err
		}

		mean, variance := stat.PopMeanVariance(col, nil)
		if s.withMean {
			s.mean[j] = mean
		}

		s.scale[j] = 1.0
		if s.withStd {
			if std := math.Sqrt(variance); std >= minScale {
				s.scale[j] = std
			}
		}
	}

	s.SetFitted()
	return nil
}

// Transform は学習済みの統計量でデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	return s.apply("Transform", X, func(v float64, j int) float64 {
		return (v - s.mean[j]) / s.scale[j]
	})
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元の尺度に戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	return s.apply("InverseTransform", X, func(v float64, j int) float64 {
		return v*s.scale[j] + s.mean[j]
	})
}

func (s *StandardScaler) apply(method string, X mat.Matrix, f func(v float64, j int) float64) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", method)
	}

	r, c := X.Dims()
	if c != s.nFeatures {
		return nil, errors.NewDimensionError("StandardScaler."+method, s.nFeatures, c, 1)
	}
	if r == 0 {
		return nil, errors.NewModelError("StandardScaler."+method, "empty data", errors.ErrEmptyData)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return f(v, j)
	}, X)
	return result, nil
}

// Mean は列ごとの平均のコピーを返す（WithMean(false) なら全て0）
func (s *StandardScaler) Mean() []float64 {
	return append([]float64(nil), s.mean...)
}

// Scale は列ごとのスケールのコピーを返す（定数列と WithStd(false) は1）
func (s *StandardScaler) Scale() []float64 {
	return append([]float64(nil), s.scale...)
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.withMean, s.withStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.withMean, s.withStd, s.nFeatures)
}
