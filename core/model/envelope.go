package model

import (
	"encoding/json"
	"io"

	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

// EnvelopeFormatVersion は書き出すエンベロープのバージョン
const EnvelopeFormatVersion = "1.0"

// ModelSpec はエクスポートされたモデルの種類とフォーマットを表す
type ModelSpec struct {
	Name          string `json:"name"`
	FormatVersion string `json:"format_version"`
}

// ModelEnvelope は学習済みモデルのJSON表現
//
//	{
//	  "model_spec": {"name": "LinearRegression", "format_version": "1.0"},
//	  "params": {...}
//	}
type ModelEnvelope struct {
	ModelSpec ModelSpec       `json:"model_spec"`
	Params    json.RawMessage `json:"params"`
}

// WriteEnvelope はパラメータをエンベロープに包んでwに書き出す
func WriteEnvelope(w io.Writer, name string, params interface{}) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return errors.Wrap(err, "failed to marshal params")
	}

	env := ModelEnvelope{
		ModelSpec: ModelSpec{Name: name, FormatVersion: EnvelopeFormatVersion},
		Params:    raw,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&env); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// ReadEnvelope はrからエンベロープを読み込み、モデル名を検証してparamsにデコードする
func ReadEnvelope(r io.Reader, name string, params interface{}) error {
	var env ModelEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return errors.Wrap(err, "failed to decode model envelope")
	}
	if env.ModelSpec.Name != name {
		return errors.NewValueError("model.ReadEnvelope",
			"expected model "+name+", got "+env.ModelSpec.Name)
	}
	if len(env.Params) == 0 {
		return errors.NewValueError("model.ReadEnvelope", "missing params")
	}
	if err := json.Unmarshal(env.Params, params); err != nil {
		return errors.Wrap(err, "failed to decode params")
	}
	return nil
}
