package batch

import (
	"errors"
	"fmt"

	"github.com/alexiusacademia/etabsmc/internal/params"
	"github.com/alexiusacademia/etabsmc/internal/sampler"
	"github.com/alexiusacademia/etabsmc/internal/session"
)

// DefaultCheckpointInterval is the number of rows between snapshots.
const DefaultCheckpointInterval = 50

// Config is everything one batch needs. It is passed to New and not
// modified afterwards.
type Config struct {
	ModelPath          string
	Samples            int
	Seed               uint64
	CheckpointInterval int
	Variables          []sampler.RandomVariableSpec

	Connection session.ConnectOptions
	// TerminateOnClose asks the application to exit when the batch ends.
	TerminateOnClose bool

	Params params.Config
}

// DefaultVariables are the random inputs of a typical reinforced concrete
// frame study: material strengths in MPa and load multipliers.
func DefaultVariables() []sampler.RandomVariableSpec {
	return []sampler.RandomVariableSpec{
		{Name: "Fc", Distribution: sampler.Normal, Mean: 30, Std: 4},
		{Name: "Fy", Distribution: sampler.Normal, Mean: 400, Std: 30},
		{Name: "Dead", Distribution: sampler.Normal, Mean: 1.0, Std: 0.10},
		{Name: "Live", Distribution: sampler.Lognormal, Mean: 1.0, Std: 0.25},
	}
}

// DefaultConfig returns a configuration with everything but the model path set.
func DefaultConfig() Config {
	return Config{
		Samples:            1000,
		Seed:               42,
		CheckpointInterval: DefaultCheckpointInterval,
		Variables:          DefaultVariables(),
		Connection:         session.ConnectOptions{Strategy: session.StrategyAuto, Visible: true},
		Params:             params.DefaultConfig(),
	}
}

// Validate reports every problem with the configuration. Variable problems
// wrap sampler.ErrInvalidSpec.
func (c Config) Validate() error {
	if err := sampler.ValidateAll(c.Variables); err != nil {
		return err
	}
	if len(c.Variables) == 0 {
		return fmt.Errorf("%w: no random variables configured", sampler.ErrInvalidSpec)
	}

	var errs []error
	if c.Samples < 0 {
		errs = append(errs, fmt.Errorf("sample count must be >= 0, got %d", c.Samples))
	}
	if c.CheckpointInterval <= 0 {
		errs = append(errs, fmt.Errorf("checkpoint interval must be > 0, got %d", c.CheckpointInterval))
	}
	if err := c.Params.Validate(c.Variables); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
