// Package config loads experiment settings from an HCL file.
//
//	dataset {
//	  order      = 3
//	  n_features = 100
//	  n_obs      = 1000
//	  seed       = 0
//	}
//
//	importance {
//	  repeats = 5
//	  workers = 4
//	}
//
//	output {
//	  dir  = "out/${env.RUN_ID}"
//	  plot = "importance.svg"
//	}
//
//	log {
//	  level  = "debug"
//	  format = "json"
//	}
//
// Every block and attribute is optional; missing values keep Default().
// Expressions can read the process environment through the env object.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/interactlab/pkg/errors"
	"github.com/YuminosukeSato/interactlab/pkg/log"
	"github.com/YuminosukeSato/interactlab/synth"
)

// Dataset is the shape and seed of the generated table.
type Dataset struct {
	Order     int
	NFeatures int
	NObs      int
	Seed      uint64
}

// Params returns the generator parameters.
func (d Dataset) Params() synth.Params {
	return synth.Params{Order: d.Order, NFeatures: d.NFeatures, NObs: d.NObs}
}

// Importance configures permutation importance.
type Importance struct {
	Repeats int
	Seed    uint64
	// Workers <= 0 means one worker per CPU.
	Workers int
	// TopK is the number of features shown in the chart and the table.
	TopK int
}

// Output names the files written by a run. Relative names are placed under
// Dir; an empty name disables that output.
type Output struct {
	Dir   string
	CSV   string
	Plot  string
	Model string
	Table string
}

// Path resolves name against Dir. It returns "" for an empty name.
func (o Output) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.Dir, name)
}

// Log configures the process logger.
type Log struct {
	Level  string
	Format string
}

// Config is a complete experiment description.
type Config struct {
	Dataset    Dataset
	Importance Importance
	Output     Output
	Log        Log

	// Path is the file the config was loaded from, if any.
	Path string
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Dataset: Dataset{
			Order:     3,
			NFeatures: synth.DefaultNFeatures,
			NObs:      synth.DefaultNObs,
			Seed:      synth.DefaultSeed,
		},
		Importance: Importance{
			Repeats: 5,
			TopK:    15,
		},
		Output: Output{
			Dir:   "out",
			CSV:   "dataset.csv",
			Plot:  "importance.png",
			Model: "model.json",
			Table: "importance.txt",
		},
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// image formats gonum/plot can write
var plotFormats = map[string]bool{
	".png": true, ".svg": true, ".pdf": true, ".eps": true,
	".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true, ".tex": true,
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := c.Dataset.Params().Validate(); err != nil {
		return err
	}
	if c.Importance.Repeats < 1 {
		return errors.NewValidationError("importance.repeats", "must be positive", c.Importance.Repeats)
	}
	if c.Importance.TopK < 1 {
		return errors.NewValidationError("importance.top_k", "must be positive", c.Importance.TopK)
	}
	if c.Output.Plot != "" && !plotFormats[strings.ToLower(filepath.Ext(c.Output.Plot))] {
		return errors.NewValidationError("output.plot", "unsupported image format", c.Output.Plot)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return errors.NewValidationError("log.format", `must be "json" or "console"`, c.Log.Format)
	}
	return nil
}

// Load reads and validates the HCL file at path.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	cfg, err := Parse(src, path)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}
