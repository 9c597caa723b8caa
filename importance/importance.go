// Package importance ranks the columns of a dataset by how much a fitted
// model relies on them.
//
// Permutation importance works with any model that can score itself:
//
//	res, err := importance.Permutation(ctx, model, X, y,
//	    importance.WithRepeats(5),
//	    importance.WithFeatureNames(ds.FeatureNames()),
//	)
//	for _, s := range res.Top(10) {
//	    fmt.Println(s.Name, s.Mean, s.Std)
//	}
//
// Coefficients scales the weights of a linear model by the spread of each
// column, which is cheaper but only meaningful for linear models.
package importance

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

// Method identifies how a Result was computed.
type Method string

const (
	MethodPermutation Method = "permutation"
	MethodCoefficient Method = "coefficient"
)

// Scorer is implemented by fitted models. Higher scores are better.
// Permutation calls Score from several goroutines at once.
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Score is the importance of one feature.
type Score struct {
	Name string
	// Mean is the average importance over Values.
	Mean float64
	// Std is the population standard deviation of Values.
	Std float64
	// Values holds one importance per repeat.
	Values []float64
}

// Result holds one Score per feature in column order.
type Result struct {
	Method Method
	// Baseline is the unpermuted score (permutation only).
	Baseline float64
	Scores   []Score
}

// Get returns the score of the named feature.
func (r *Result) Get(name string) (Score, bool) {
	for _, s := range r.Scores {
		if s.Name == name {
			return s, true
		}
	}
	return Score{}, false
}

// Ranked returns the scores ordered by decreasing Mean.
// Ties keep column order.
func (r *Result) Ranked() []Score {
	ranked := r.copyScores()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Mean > ranked[j].Mean
	})
	return ranked
}

// Top returns the k highest ranked scores, or all of them if k exceeds the
// number of features.
func (r *Result) Top(k int) []Score {
	ranked := r.Ranked()
	if k < 0 {
		k = 0
	}
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

// Normalized returns the scores in column order with Mean rescaled so that the
// absolute means sum to 1. Std and Values are rescaled by the same factor.
// If every mean is zero the scores are returned unchanged.
func (r *Result) Normalized() []Score {
	out := r.copyScores()

	var total float64
	for _, s := range out {
		total += math.Abs(s.Mean)
	}
	if total == 0 {
		return out
	}

	for i := range out {
		out[i].Mean /= total
		out[i].Std /= total
		for k := range out[i].Values {
			out[i].Values[k] /= total
		}
	}
	return out
}

func (r *Result) copyScores() []Score {
	out := make([]Score, len(r.Scores))
	for i, s := range r.Scores {
		s.Values = append([]float64(nil), s.Values...)
		out[i] = s
	}
	return out
}

func summarize(name string, values []float64) Score {
	mean, std := stat.PopMeanStdDev(values, nil)
	return Score{Name: name, Mean: mean, Std: std, Values: values}
}

// defaultNames returns x0, x1, ... for unnamed columns.
func defaultNames(n int) []string {
	names := make([]string, n)
	for j := range names {
		names[j] = fmt.Sprintf("x%d", j)
	}
	return names
}

// Coefficients computes |coef_j| * std(X_j) for a linear model, i.e. the
// change in prediction for a one standard deviation change of each column.
// names may be nil.
func Coefficients(names []string, coefs []float64, X mat.Matrix) (*Result, error) {
	const op = "importance.Coefficients"

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if len(coefs) != c {
		return nil, errors.NewDimensionError(op, c, len(coefs), 1)
	}
	if names == nil {
		names = defaultNames(c)
	}
	if len(names) != c {
		return nil, errors.NewDimensionError(op, c, len(names), 1)
	}

	res := &Result{Method: MethodCoefficient, Scores: make([]Score, c)}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		v := math.Abs(coefs[j]) * stat.PopStdDev(col, nil)
		res.Scores[j] = summarize(names[j], []float64{v})
	}
	return res, nil
}
