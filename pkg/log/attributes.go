// Package log defines standard attribute keys for interactlab operations.
//
// The keys follow a hierarchical naming convention (e.g. "data.samples",
// "importance.repeats") so records from different packages can be filtered
// the same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model. Examples: "LinearRegression", "StandardScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "score", "generate", "permute"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// OrderKey is the number of leading continuous columns multiplied into the signal.
	OrderKey = "synth.order"
)

// Performance and Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records the R² coefficient of determination.
	R2ScoreKey = "metrics.r2_score"

	// MSEKey records the mean squared error.
	MSEKey = "metrics.mse"
)

// Interpretability
const (
	// FeatureKey names the feature an importance record refers to.
	FeatureKey = "importance.feature"

	// ImportanceKey records an importance score.
	ImportanceKey = "importance.value"

	// RepeatsKey records the number of permutations per feature.
	RepeatsKey = "importance.repeats"
)

// Configuration and infrastructure
const (
	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// ConfigPathKey records the configuration file in use.
	ConfigPathKey = "config.path"

	// WorkersKey records the size of a worker pool.
	WorkersKey = "infra.workers"

	// PathKey records a file written or read.
	PathKey = "io.path"
)

// Error Context
const (
	// ErrorKey holds the error message of a record.
	ErrorKey = "error"

	// ErrorDetailKey holds the structured fields of a typed error.
	ErrorDetailKey = "error.detail"

	// StacktraceKey contains stack trace information recorded by cockroachdb/errors.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"
	OperationGenerate     = "generate"
	OperationPermute      = "permute"
)
