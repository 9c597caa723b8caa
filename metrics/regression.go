// Package metrics は回帰モデルの評価指標を提供する。
//
// 入力は mat.Vector（*mat.VecDense など）または n×1 の mat.Matrix。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

// residuals は長さを検証して (yTrue, yPred, yTrue-yPred) を返す
func residuals(op string, yTrue, yPred mat.Vector) (truth, pred, diff []float64, err error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, nil, nil, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return nil, nil, nil, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}

	truth = make([]float64, n)
	pred = make([]float64, n)
	diff = make([]float64, n)
	for i := 0; i < n; i++ {
		truth[i] = yTrue.AtVec(i)
		pred[i] = yPred.AtVec(i)
		diff[i] = truth[i] - pred[i]
	}
	return truth, pred, diff, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	_, _, diff, err := residuals("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for _, d := range diff {
		sum += d * d
	}
	return sum / float64(len(diff)), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	_, _, diff, err := residuals("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for _, d := range diff {
		sum += math.Abs(d)
	}
	return sum / float64(len(diff)), nil
}

// R2Score は決定係数（R²）を計算する
//
// 全変動が0（yTrueが定数）の場合はエラーを返す。
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	truth, _, diff, err := residuals("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	mean := stat.Mean(truth, nil)
	var tss, rss float64
	for i, v := range truth {
		tss += (v - mean) * (v - mean)
		rss += diff[i] * diff[i]
	}

	if tss == 0 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

// ExplainedVarianceScore は説明分散スコア 1 - Var(yTrue - yPred) / Var(yTrue) を計算する
func ExplainedVarianceScore(yTrue, yPred mat.Vector) (float64, error) {
	truth, _, diff, err := residuals("ExplainedVarianceScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// 母分散（n で割る）で揃える
	_, varTrue := stat.PopMeanVariance(truth, nil)
	_, varDiff := stat.PopMeanVariance(diff, nil)
	if varTrue == 0 {
		return 0, errors.NewValueError("ExplainedVarianceScore", "no variance in yTrue")
	}
	return 1 - varDiff/varTrue, nil
}

// columnVector は n×1 行列を mat.Vector として扱う
func columnVector(op string, yTrue, yPred mat.Matrix) (mat.Vector, mat.Vector, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return nil, nil, errors.NewValueError(op, "empty matrix")
	}
	if rTrue != rPred {
		return nil, nil, errors.NewDimensionError(op, rTrue, rPred, 0)
	}
	if cTrue != 1 || cPred != 1 {
		return nil, nil, errors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}

	// *mat.VecDense はそのまま、それ以外は列をコピーする
	toVec := func(m mat.Matrix) mat.Vector {
		if v, ok := m.(mat.Vector); ok {
			return v
		}
		return mat.NewVecDense(rTrue, mat.Col(nil, 0, m))
	}
	return toVec(yTrue), toVec(yPred), nil
}

// MSEMatrix は行列形式の入力に対してMSEを計算する
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := columnVector("MSEMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return MSE(t, p)
}

// R2ScoreMatrix は行列形式の入力に対してR²を計算する
func R2ScoreMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := columnVector("R2ScoreMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return R2Score(t, p)
}
