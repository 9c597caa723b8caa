// Package linear は生成データに当てはめる最小二乗線形回帰を提供する。
package linear

import (
	stderrors "errors"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/interactlab/core/model"
	"github.com/YuminosukeSato/interactlab/core/parallel"
	"github.com/YuminosukeSato/interactlab/metrics"
	"github.com/YuminosukeSato/interactlab/pkg/errors"
	"github.com/YuminosukeSato/interactlab/pkg/log"
)

// 並列処理の閾値（この値以下の行数では逐次処理を使用）
const parallelThreshold = 1000

// LinearRegression は正規方程式で解く線形回帰モデル
type LinearRegression struct {
	model.BaseEstimator

	weights      *mat.VecDense
	intercept    float64
	nFeatures    int
	fitIntercept bool
	featureNames []string
	logger       log.Logger
}

var _ model.LinearModel = (*LinearRegression)(nil)

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{fitIntercept: true}
	for _, opt := range opts {
		opt(lr)
	}
	if lr.logger == nil {
		lr.logger = log.GetLogger()
	}
	lr.logger = lr.logger.With(log.ModelNameKey, "LinearRegression")
	return lr
}

// Fit はモデルを訓練データで学習させる
// 正規方程式 (X^T X) w = X^T y を LU 分解で解く
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	const op = "LinearRegression.Fit"
	start := time.Now()

	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}
	if len(lr.featureNames) > 0 && len(lr.featureNames) != c {
		return errors.NewDimensionError(op, len(lr.featureNames), c, 1)
	}

	// 切片項のために X の先頭に 1 の列を追加する
	offset := 0
	if lr.fitIntercept {
		offset = 1
	}
	design := mat.NewDense(r, c+offset, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if offset == 1 {
				design.Set(i, 0, 1.0)
			}
			for j := 0; j < c; j++ {
				design.Set(i, j+offset, X.At(i, j))
			}
		}
	})

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var XTX mat.Dense
	XTX.Mul(design.T(), design)

	var XTy mat.VecDense
	XTy.MulVec(design.T(), yVec)

	var solution mat.VecDense
	if err := solution.SolveVec(&XTX, &XTy); err != nil {
		var cond mat.Condition
		if !stderrors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return errors.NewModelError(op, "singular matrix", errors.ErrSingularMatrix)
		}
		errors.Warn(errors.NewIllConditionedWarning(op, float64(cond)))
	}

	lr.nFeatures = c
	lr.intercept = 0
	if offset == 1 {
		lr.intercept = solution.AtVec(0)
	}
	lr.weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		lr.weights.SetVec(j, solution.AtVec(j+offset))
	}

	lr.SetFitted()

	lr.logger.Debug("model fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict は入力データに対する予測を行う（n×1 行列を返す）
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.nFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.nFeatures, c, 1)
	}

	// y = X * weights + intercept
	var pred mat.VecDense
	pred.MulVec(X, lr.weights)
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		predictions.Set(i, 0, pred.AtVec(i)+lr.intercept)
	}
	return predictions, nil
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Score")
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, yPred)
}

// Coefficients は学習された重み（係数）のコピーを返す
func (lr *LinearRegression) Coefficients() []float64 {
	if lr.weights == nil {
		return nil
	}
	return mat.Col(nil, 0, lr.weights)
}

// InterceptValue は学習された切片を返す
func (lr *LinearRegression) InterceptValue() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.intercept
}

// FeatureNames は係数に対応する特徴量名を返す（未設定なら nil）
func (lr *LinearRegression) FeatureNames() []string {
	return append([]string(nil), lr.featureNames...)
}

// NFeatures は学習時の特徴量数を返す
func (lr *LinearRegression) NFeatures() int {
	return lr.nFeatures
}
