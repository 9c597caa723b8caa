package config

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

// hclFile mirrors the file layout. Pointers mark optional blocks and
// attributes so that unset values fall back to Default().
type hclFile struct {
	Dataset    *hclDataset    `hcl:"dataset,block"`
	Importance *hclImportance `hcl:"importance,block"`
	Output     *hclOutput     `hcl:"output,block"`
	Log        *hclLog        `hcl:"log,block"`
}

type hclDataset struct {
	Order     *int    `hcl:"order,optional"`
	NFeatures *int    `hcl:"n_features,optional"`
	NObs      *int    `hcl:"n_obs,optional"`
	Seed      *uint64 `hcl:"seed,optional"`
}

type hclImportance struct {
	Repeats *int    `hcl:"repeats,optional"`
	Seed    *uint64 `hcl:"seed,optional"`
	Workers *int    `hcl:"workers,optional"`
	TopK    *int    `hcl:"top_k,optional"`
}

type hclOutput struct {
	Dir   *string `hcl:"dir,optional"`
	CSV   *string `hcl:"csv,optional"`
	Plot  *string `hcl:"plot,optional"`
	Model *string `hcl:"model,optional"`
	Table *string `hcl:"table,optional"`
}

type hclLog struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// Parse decodes HCL source on top of Default() and validates the result.
// filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to parse config %s", filename)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(file.Body, evalContext(os.Environ()), &parsed)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to decode config %s", filename)
	}

	cfg := Default()
	parsed.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// evalContext exposes environ ("KEY=value" pairs) as the env object.
func evalContext(environ []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = cty.StringVal(value)
	}

	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}

func (f *hclFile) apply(cfg *Config) {
	if d := f.Dataset; d != nil {
		setInt(&cfg.Dataset.Order, d.Order)
		setInt(&cfg.Dataset.NFeatures, d.NFeatures)
		setInt(&cfg.Dataset.NObs, d.NObs)
		setUint64(&cfg.Dataset.Seed, d.Seed)
	}
	if i := f.Importance; i != nil {
		setInt(&cfg.Importance.Repeats, i.Repeats)
		setUint64(&cfg.Importance.Seed, i.Seed)
		setInt(&cfg.Importance.Workers, i.Workers)
		setInt(&cfg.Importance.TopK, i.TopK)
	}
	if o := f.Output; o != nil {
		setString(&cfg.Output.Dir, o.Dir)
		setString(&cfg.Output.CSV, o.CSV)
		setString(&cfg.Output.Plot, o.Plot)
		setString(&cfg.Output.Model, o.Model)
		setString(&cfg.Output.Table, o.Table)
	}
	if l := f.Log; l != nil {
		setString(&cfg.Log.Level, l.Level)
		setString(&cfg.Log.Format, l.Format)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setUint64(dst *uint64, v *uint64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
