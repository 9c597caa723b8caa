package linear

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/interactlab/core/model"
	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

const envelopeName = "LinearRegression"

// linearParams はエンベロープの params に格納される内容
type linearParams struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	NFeatures    int       `json:"n_features"`
	FitIntercept bool      `json:"fit_intercept"`
	FeatureNames []string  `json:"feature_names,omitempty"`
}

// ExportJSON は学習済みモデルをJSONエンベロープとして書き出す
func (lr *LinearRegression) ExportJSON(w io.Writer) error {
	if !lr.IsFitted() {
		return errors.NewNotFittedError("LinearRegression", "ExportJSON")
	}

	params := linearParams{
		Coefficients: lr.Coefficients(),
		Intercept:    lr.intercept,
		NFeatures:    lr.nFeatures,
		FitIntercept: lr.fitIntercept,
		FeatureNames: lr.FeatureNames(),
	}
	return model.WriteEnvelope(w, envelopeName, params)
}

// LoadJSON は ExportJSON で書き出したモデルを読み込む
//
// 読み込み後のモデルは学習済みとして Predict / Score を使える。
func LoadJSON(r io.Reader, opts ...Option) (*LinearRegression, error) {
	var params linearParams
	if err := model.ReadEnvelope(r, envelopeName, &params); err != nil {
		return nil, err
	}

	if params.NFeatures != len(params.Coefficients) {
		return nil, errors.NewDimensionError("linear.LoadJSON", params.NFeatures, len(params.Coefficients), 1)
	}
	if params.NFeatures == 0 {
		return nil, errors.NewValueError("linear.LoadJSON", "model has no coefficients")
	}
	if len(params.FeatureNames) > 0 && len(params.FeatureNames) != params.NFeatures {
		return nil, errors.NewDimensionError("linear.LoadJSON", params.NFeatures, len(params.FeatureNames), 1)
	}
	if err := errors.CheckFinite("linear.LoadJSON", params.Coefficients); err != nil {
		return nil, err
	}

	lr := NewLinearRegression(opts...)
	lr.fitIntercept = params.FitIntercept
	lr.featureNames = params.FeatureNames
	lr.weights = mat.NewVecDense(params.NFeatures, params.Coefficients)
	lr.intercept = params.Intercept
	lr.nFeatures = params.NFeatures
	lr.SetFitted()
	return lr, nil
}
