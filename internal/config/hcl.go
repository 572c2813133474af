package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/alexiusacademia/etabsmc/internal/results"
	"github.com/alexiusacademia/etabsmc/internal/sampler"
	"github.com/alexiusacademia/etabsmc/internal/session"
)

// fileRoot mirrors the top level of a configuration file. Pointer fields
// distinguish "not set" from a zero value.
type fileRoot struct {
	ModelPath          *string `hcl:"model_path,optional"`
	Samples            *int    `hcl:"samples,optional"`
	Seed               *int64  `hcl:"seed,optional"`
	CheckpointInterval *int    `hcl:"checkpoint_interval,optional"`

	Variables    []*variableBlock   `hcl:"variable,block"`
	Connection   *connectionBlock   `hcl:"connection,block"`
	Materials    *materialsBlock    `hcl:"materials,block"`
	Combinations *combinationsBlock `hcl:"combinations,block"`
	Output       *outputBlock       `hcl:"output,block"`
	Logging      *loggingBlock      `hcl:"logging,block"`
}

type variableBlock struct {
	Name         string  `hcl:"name,label"`
	Distribution *string `hcl:"distribution,optional"`
	Mean         float64 `hcl:"mean"`
	Std          float64 `hcl:"std"`
}

type connectionBlock struct {
	Mode             *string `hcl:"mode,optional"`
	Visible          *bool   `hcl:"visible,optional"`
	TerminateOnClose *bool   `hcl:"terminate_on_close,optional"`
	ProgramID        *string `hcl:"program_id,optional"`
}

type materialsBlock struct {
	Concrete    *string  `hcl:"concrete,optional"`
	Rebar       *string  `hcl:"rebar,optional"`
	StressScale *float64 `hcl:"stress_scale,optional"`
	FcVariable  *string  `hcl:"fc_variable,optional"`
	FyVariable  *string  `hcl:"fy_variable,optional"`
}

type combinationsBlock struct {
	DeadCase     *string  `hcl:"dead_case,optional"`
	LiveCase     *string  `hcl:"live_case,optional"`
	DeadTokens   []string `hcl:"dead_tokens,optional"`
	LiveTokens   []string `hcl:"live_tokens,optional"`
	DeadVariable *string  `hcl:"dead_variable,optional"`
	LiveVariable *string  `hcl:"live_variable,optional"`
}

type outputBlock struct {
	Dir    *string `hcl:"dir,optional"`
	Prefix *string `hcl:"prefix,optional"`
	Format *string `hcl:"format,optional"`
	Plots  *bool   `hcl:"plots,optional"`
}

type loggingBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
	SeqURL *string `hcl:"seq_url,optional"`
}

// ApplyFile overlays the HCL file at path onto s.
func (s *Settings) ApplyFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return s.ApplyHCL(src, path)
}

// ApplyHCL overlays HCL source onto s. Expressions may reference the
// process environment as env.NAME.
func (s *Settings) ApplyHCL(src []byte, filename string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse config file %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode config file %s: %w", filename, diags)
	}
	return s.merge(&root)
}

// evalContext exposes environment variables to configuration expressions.
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" || !hclIdentifier(k) {
			continue
		}
		env[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

func hclIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

func (s *Settings) merge(root *fileRoot) error {
	b := &s.Batch
	setString(&b.ModelPath, root.ModelPath)
	if root.Samples != nil {
		b.Samples = *root.Samples
	}
	if root.Seed != nil {
		if *root.Seed < 0 {
			return fmt.Errorf("seed must be >= 0, got %d", *root.Seed)
		}
		b.Seed = uint64(*root.Seed)
	}
	if root.CheckpointInterval != nil {
		b.CheckpointInterval = *root.CheckpointInterval
	}

	if len(root.Variables) > 0 {
		vars := make([]sampler.RandomVariableSpec, 0, len(root.Variables))
		for _, v := range root.Variables {
			dist := sampler.Normal
			if v.Distribution != nil {
				d, err := sampler.ParseDistribution(*v.Distribution)
				if err != nil {
					return fmt.Errorf("variable %q: %w", v.Name, err)
				}
				dist = d
			}
			vars = append(vars, sampler.RandomVariableSpec{Name: v.Name, Distribution: dist, Mean: v.Mean, Std: v.Std})
		}
		b.Variables = vars
	}

	if c := root.Connection; c != nil {
		if c.Mode != nil {
			st, err := session.ParseStrategy(*c.Mode)
			if err != nil {
				return err
			}
			b.Connection.Strategy = st
		}
		setBool(&b.Connection.Visible, c.Visible)
		setBool(&b.TerminateOnClose, c.TerminateOnClose)
		setString(&s.ProgramID, c.ProgramID)
	}

	if m := root.Materials; m != nil {
		setString(&b.Params.ConcreteMaterial, m.Concrete)
		setString(&b.Params.RebarMaterial, m.Rebar)
		if m.StressScale != nil {
			b.Params.StressScale = *m.StressScale
		}
		setString(&b.Params.FcVariable, m.FcVariable)
		setString(&b.Params.FyVariable, m.FyVariable)
	}

	if c := root.Combinations; c != nil {
		setString(&b.Params.DeadCase, c.DeadCase)
		setString(&b.Params.LiveCase, c.LiveCase)
		setString(&b.Params.DeadVariable, c.DeadVariable)
		setString(&b.Params.LiveVariable, c.LiveVariable)
		if c.DeadTokens != nil {
			b.Params.DeadTokens = c.DeadTokens
		}
		if c.LiveTokens != nil {
			b.Params.LiveTokens = c.LiveTokens
		}
	}

	if o := root.Output; o != nil {
		setString(&s.Output.Dir, o.Dir)
		setString(&s.Output.Prefix, o.Prefix)
		if o.Format != nil {
			f, err := results.ParseFormat(*o.Format)
			if err != nil {
				return err
			}
			s.Output.Format = f
		}
		setBool(&s.Output.Plots, o.Plots)
	}

	if l := root.Logging; l != nil {
		setString(&s.Log.Level, l.Level)
		setString(&s.Log.Format, l.Format)
		setString(&s.Log.SeqURL, l.SeqURL)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
