package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/interactlab/config"
	"github.com/YuminosukeSato/interactlab/core/parallel"
	"github.com/YuminosukeSato/interactlab/importance"
	"github.com/YuminosukeSato/interactlab/linear"
	"github.com/YuminosukeSato/interactlab/metrics"
	"github.com/YuminosukeSato/interactlab/pkg/errors"
	"github.com/YuminosukeSato/interactlab/pkg/log"
	"github.com/YuminosukeSato/interactlab/preprocessing"
	"github.com/YuminosukeSato/interactlab/report"
	"github.com/YuminosukeSato/interactlab/synth"
)

// runExperiment generates the dataset, standardizes it, fits OLS and ranks
// the columns by permutation importance.
func runExperiment(ctx context.Context, cfg *config.Config, logger log.Logger, stdout io.Writer) error {
	gen := synth.NewGenerator(synth.WithSeed(cfg.Dataset.Seed), synth.WithLogger(logger))
	ds, err := gen.Generate(ctx, cfg.Dataset.Params())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", cfg.Output.Dir)
	}
	if err := writeOutput(cfg.Output.Path(cfg.Output.CSV), logger, ds.WriteCSV); err != nil {
		return err
	}

	X, y := ds.Split()
	names := ds.FeatureNames()

	// 連続変数と 0/1 変数の係数を比べられるように尺度を揃える
	scaler := preprocessing.NewStandardScaler()
	Xs, err := scaler.FitTransform(X)
	if err != nil {
		return err
	}

	model := linear.NewLinearRegression(linear.WithFeatureNames(names), linear.WithLogger(logger))
	if err := model.Fit(Xs, y); err != nil {
		return err
	}
	if err := logFit(model, Xs, y, logger, stdout); err != nil {
		return err
	}

	coefs, err := importance.Coefficients(names, model.Coefficients(), Xs)
	if err != nil {
		return err
	}
	for _, s := range coefs.Top(cfg.Importance.TopK) {
		logger.Debug("coefficient importance", log.FeatureKey, s.Name, log.ImportanceKey, s.Mean)
	}

	pool := parallel.NewPool(cfg.Importance.Workers, parallel.WithPoolLogger(logger))
	defer pool.Close()

	res, err := importance.Permutation(ctx, model, Xs, y,
		importance.WithPool(pool),
		importance.WithRepeats(cfg.Importance.Repeats),
		importance.WithSeed(cfg.Importance.Seed),
		importance.WithFeatureNames(names),
		importance.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	top := res.Top(cfg.Importance.TopK)

	fmt.Fprintf(stdout, "\nPermutation importance (top %d, %d repeats):\n", len(top), cfg.Importance.Repeats)
	if err := report.WriteTable(stdout, top); err != nil {
		return err
	}
	if err := writeOutput(cfg.Output.Path(cfg.Output.Table), logger, func(w io.Writer) error {
		return report.WriteTable(w, top)
	}); err != nil {
		return err
	}

	if path := cfg.Output.Path(cfg.Output.Plot); path != "" {
		title := fmt.Sprintf("Permutation importance (order %d)", cfg.Dataset.Order)
		if err := report.SaveBarChart(path, title, top); err != nil {
			return err
		}
		logger.Info("chart written", log.PathKey, path)
	}

	return writeOutput(cfg.Output.Path(cfg.Output.Model), logger, model.ExportJSON)
}

func logFit(model *linear.LinearRegression, X mat.Matrix, y *mat.VecDense, logger log.Logger, stdout io.Writer) error {
	pred, err := model.Predict(X)
	if err != nil {
		return err
	}
	r2, err := metrics.R2ScoreMatrix(y, pred)
	if err != nil {
		return err
	}
	mse, err := metrics.MSEMatrix(y, pred)
	if err != nil {
		return err
	}

	logger.Info("linear model evaluated", log.R2ScoreKey, r2, log.MSEKey, mse)
	fmt.Fprintf(stdout, "Linear fit on standardized features: R² = %.4f, MSE = %.4f\n", r2, mse)
	return nil
}

// writeOutput creates path and passes it to write. An empty path is skipped.
func writeOutput(path string, logger log.Logger, write func(io.Writer) error) (err error) {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "failed to close %s", path)
		}
	}()

	if err := write(f); err != nil {
		return err
	}
	logger.Info("file written", log.PathKey, path)
	return nil
}
