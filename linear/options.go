package linear

import "github.com/YuminosukeSato/interactlab/pkg/log"

// Option は LinearRegression を設定する関数
type Option func(*LinearRegression)

// WithFitIntercept は切片を推定するかどうかを設定する（デフォルト: true）
func WithFitIntercept(fit bool) Option {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}

// WithFeatureNames は係数に対応する特徴量名を設定する
func WithFeatureNames(names []string) Option {
	return func(lr *LinearRegression) {
		lr.featureNames = append([]string(nil), names...)
	}
}

// WithLogger は学習ログの出力先を設定する
func WithLogger(logger log.Logger) Option {
	return func(lr *LinearRegression) {
		lr.logger = logger
	}
}
