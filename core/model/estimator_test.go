package model

import "testing"

func TestBaseEstimatorState(t *testing.T) {
	var e BaseEstimator

	if e.IsFitted() {
		t.Fatal("zero value should not be fitted")
	}
	if got := e.State().String(); got != "not_fitted" {
		t.Errorf("State() = %q, want not_fitted", got)
	}

	e.SetFitted()
	if !e.IsFitted() {
		t.Fatal("SetFitted did not mark the estimator as fitted")
	}
	if got := e.State().String(); got != "fitted" {
		t.Errorf("State() = %q, want fitted", got)
	}

	e.Reset()
	if e.IsFitted() {
		t.Error("Reset should return the estimator to not fitted")
	}
}
