// Package params maps one sampled row onto the model: material properties
// and load-combination scale factors.
package params

import (
	"errors"
	"fmt"
	"slices"

	"github.com/alexiusacademia/etabsmc/internal/nscp"
	"github.com/alexiusacademia/etabsmc/internal/sampler"
	"github.com/alexiusacademia/etabsmc/internal/session"
)

// Config names the model objects and sampled variables the applicator uses.
// An empty variable name disables the step that consumes it.
type Config struct {
	ConcreteMaterial string
	RebarMaterial    string
	// StressScale converts MPa into the model's stress unit.
	StressScale float64

	FcVariable   string
	FyVariable   string
	DeadVariable string
	LiveVariable string

	DeadCase   string
	LiveCase   string
	DeadTokens []string
	LiveTokens []string
}

// DefaultConfig matches a kN-m model with the default ETABS material and
// load pattern names.
func DefaultConfig() Config {
	return Config{
		ConcreteMaterial: "CONC",
		RebarMaterial:    "A615Gr60",
		StressScale:      nscp.MPaToKNPerM2,
		FcVariable:       "Fc",
		FyVariable:       "Fy",
		DeadVariable:     "Dead",
		LiveVariable:     "Live",
		DeadCase:         nscp.DeadCase,
		LiveCase:         nscp.LiveCase,
		DeadTokens:       slices.Clone(nscp.DeadTokens),
		LiveTokens:       slices.Clone(nscp.LiveTokens),
	}
}

// Validate checks that every referenced variable is sampled.
func (c Config) Validate(specs []sampler.RandomVariableSpec) error {
	declared := make(map[string]bool, len(specs))
	for _, s := range specs {
		declared[s.Name] = true
	}
	var errs []error
	check := func(field, name string) {
		if name != "" && !declared[name] {
			errs = append(errs, fmt.Errorf("%s refers to undeclared variable %q", field, name))
		}
	}
	check("concrete strength", c.FcVariable)
	check("rebar strength", c.FyVariable)
	check("dead load factor", c.DeadVariable)
	check("live load factor", c.LiveVariable)

	if c.StressScale <= 0 {
		errs = append(errs, fmt.Errorf("stress scale must be > 0, got %g", c.StressScale))
	}
	if c.FcVariable != "" && c.ConcreteMaterial == "" {
		errs = append(errs, errors.New("concrete material name is required"))
	}
	if c.FyVariable != "" && c.RebarMaterial == "" {
		errs = append(errs, errors.New("rebar material name is required"))
	}
	if c.DeadVariable != "" && c.DeadCase == "" {
		errs = append(errs, errors.New("dead load case name is required"))
	}
	if c.LiveVariable != "" && c.LiveCase == "" {
		errs = append(errs, errors.New("live load case name is required"))
	}
	return errors.Join(errs...)
}

// ApplyError reports the setter that failed for a row.
type ApplyError struct {
	Row    int
	Field  string
	Call   string
	Status int
	Err    error
}

func (e *ApplyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row %d: apply %s: %v", e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("row %d: apply %s: %s returned status %d", e.Row, e.Field, e.Call, e.Status)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// ErrNonPositive is wrapped by an ApplyError when a sampled strength is not positive.
var ErrNonPositive = errors.New("sampled value must be positive")

// Applicator writes sampled rows into a model.
type Applicator struct {
	cfg Config
}

// New returns an Applicator for cfg.
func New(cfg Config) *Applicator {
	return &Applicator{cfg: cfg}
}

// Apply sets, in order, the concrete properties, the rebar properties and
// the dead/live scale factors of every matching load combination. It stops
// at the first failing call and returns an *ApplyError.
func (a *Applicator) Apply(eng session.Engine, index int, row sampler.Row) error {
	if err := a.applyConcrete(eng, index, row); err != nil {
		return err
	}
	if err := a.applyRebar(eng, index, row); err != nil {
		return err
	}
	return a.applyCombinations(eng, index, row)
}

func (a *Applicator) applyConcrete(eng session.Engine, index int, row sampler.Row) error {
	name := a.cfg.FcVariable
	if name == "" {
		return nil
	}
	fc, ok := row[name]
	if !ok {
		return &ApplyError{Row: index, Field: name, Err: errors.New("value missing from sample row")}
	}
	if fc <= 0 {
		return &ApplyError{Row: index, Field: name, Err: fmt.Errorf("%w: %g", ErrNonPositive, fc)}
	}

	e := nscp.ConcreteModulus(fc) * a.cfg.StressScale
	if ret := eng.SetMPIsotropic(a.cfg.ConcreteMaterial, e, nscp.PoissonConcrete, nscp.ThermalConcrete); ret != session.StatusOK {
		return &ApplyError{Row: index, Field: name, Call: "SetMPIsotropic", Status: ret}
	}
	if ret := eng.SetOConcrete(a.cfg.ConcreteMaterial, fc*a.cfg.StressScale); ret != session.StatusOK {
		return &ApplyError{Row: index, Field: name, Call: "SetOConcrete", Status: ret}
	}
	return nil
}

func (a *Applicator) applyRebar(eng session.Engine, index int, row sampler.Row) error {
	name := a.cfg.FyVariable
	if name == "" {
		return nil
	}
	fy, ok := row[name]
	if !ok {
		return &ApplyError{Row: index, Field: name, Err: errors.New("value missing from sample row")}
	}
	if fy <= 0 {
		return &ApplyError{Row: index, Field: name, Err: fmt.Errorf("%w: %g", ErrNonPositive, fy)}
	}

	scale := a.cfg.StressScale
	if ret := eng.SetMPIsotropic(a.cfg.RebarMaterial, nscp.Es*scale, nscp.PoissonSteel, nscp.ThermalSteel); ret != session.StatusOK {
		return &ApplyError{Row: index, Field: name, Call: "SetMPIsotropic", Status: ret}
	}
	if ret := eng.SetORebar(a.cfg.RebarMaterial, fy*scale, nscp.RebarTensileStrength(fy)*scale); ret != session.StatusOK {
		return &ApplyError{Row: index, Field: name, Call: "SetORebar", Status: ret}
	}
	return nil
}

func (a *Applicator) applyCombinations(eng session.Engine, index int, row sampler.Row) error {
	dead, live := a.cfg.DeadVariable != "", a.cfg.LiveVariable != ""
	if !dead && !live {
		return nil
	}

	combos, ret := eng.GetComboList()
	if ret != session.StatusOK {
		return &ApplyError{Row: index, Field: "combinations", Call: "GetComboList", Status: ret}
	}

	for _, combo := range combos {
		if dead && nscp.MatchesAny(combo, a.cfg.DeadTokens) {
			if err := a.scale(eng, index, row, combo, a.cfg.DeadCase, a.cfg.DeadVariable); err != nil {
				return err
			}
		}
		if live && nscp.MatchesAny(combo, a.cfg.LiveTokens) {
			if err := a.scale(eng, index, row, combo, a.cfg.LiveCase, a.cfg.LiveVariable); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Applicator) scale(eng session.Engine, index int, row sampler.Row, combo, loadCase, variable string) error {
	sf, ok := row[variable]
	if !ok {
		return &ApplyError{Row: index, Field: variable, Err: errors.New("value missing from sample row")}
	}
	if ret := eng.SetCaseInCombo(combo, loadCase, sf); ret != session.StatusOK {
		return &ApplyError{Row: index, Field: variable, Call: "SetCaseInCombo", Status: ret}
	}
	return nil
}
