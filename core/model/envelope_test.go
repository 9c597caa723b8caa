package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

type testParams struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

func TestEnvelopeRoundTrip(t *testing.T) {
	in := testParams{Weights: []float64{1.5, -2, 0.25}, Bias: 3}

	var buf bytes.Buffer
	if err := WriteEnvelope(&buf, "TestModel", in); err != nil {
		t.Fatalf("WriteEnvelope: %v", err)
	}

	var env ModelEnvelope
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if env.ModelSpec.Name != "TestModel" || env.ModelSpec.FormatVersion != EnvelopeFormatVersion {
		t.Errorf("unexpected model_spec: %+v", env.ModelSpec)
	}

	var out testParams
	if err := ReadEnvelope(bytes.NewReader(buf.Bytes()), "TestModel", &out); err != nil {
		t.Fatalf("ReadEnvelope: %v", err)
	}
	if out.Bias != in.Bias || len(out.Weights) != len(in.Weights) {
		t.Fatalf("got %+v, want %+v", out, in)
	}
	for i := range in.Weights {
		if out.Weights[i] != in.Weights[i] {
			t.Errorf("Weights[%d] = %v, want %v", i, out.Weights[i], in.Weights[i])
		}
	}
}

func TestReadEnvelopeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value bool
	}{
		{"malformed", `{"model_spec":`, false},
		{"wrong model", `{"model_spec":{"name":"Other","format_version":"1.0"},"params":{}}`, true},
		{"missing params", `{"model_spec":{"name":"TestModel","format_version":"1.0"}}`, true},
		{"bad params", `{"model_spec":{"name":"TestModel","format_version":"1.0"},"params":{"bias":"x"}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out testParams
			err := ReadEnvelope(strings.NewReader(tt.input), "TestModel", &out)
			if err == nil {
				t.Fatal("expected an error")
			}
			var valueErr *errors.ValueError
			if got := errors.As(err, &valueErr); got != tt.value {
				t.Errorf("errors.As(ValueError) = %v, want %v (err: %v)", got, tt.value, err)
			}
		})
	}
}
