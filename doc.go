// Package interactlab generates a deterministic synthetic dataset with a
// multiplicative interaction signal and provides the small toolkit used to
// study how models see that signal.
//
// # Dataset
//
// A dataset has n_obs rows and the columns V1..Vn (Normal(3, 1)), cat1..cat5
// (0 or 1 with equal probability) and the response y:
//
//	y = V1 * V2 * ... * V_order          where cat1 == 0
//	y = -(V1 * V2 * ... * V_order)       where cat1 == 1
//
// plus Normal(0, 0.1) noise. The same (order, n_features, n_obs) always
// produces the same table.
//
// # Packages
//
//   - synth: the generator and the Dataset type (implements mat.Matrix)
//   - linear: ordinary least squares with JSON export
//   - preprocessing: StandardScaler
//   - metrics: MSE, MAE, R² and friends
//   - importance: permutation and coefficient importance
//   - report: bar charts (gonum/plot) and text tables
//   - config: HCL experiment files
//   - core/model, core/parallel: estimator interfaces and the worker pool
//   - pkg/errors, pkg/log: structured errors and logging
//
// # Quick Start
//
//	ds, err := synth.Generate(3, 100, 1000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	X, y := ds.Split()
//
//	model := linear.NewLinearRegression()
//	if err := model.Fit(X, y); err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := importance.Permutation(ctx, model, X, y,
//	    importance.WithFeatureNames(ds.FeatureNames()))
//
// The cmd/interactlab command runs the whole pipeline from an HCL file.
package interactlab
