// Package config assembles run settings from defaults, an optional HCL file,
// a .env file and ETABSMC_* environment variables, in increasing precedence.
package config

import (
	"github.com/alexiusacademia/etabsmc/internal/batch"
	"github.com/alexiusacademia/etabsmc/internal/etabs"
	"github.com/alexiusacademia/etabsmc/internal/logging"
	"github.com/alexiusacademia/etabsmc/internal/results"
)

// Output controls where and how result snapshots are written.
type Output struct {
	Dir    string
	Prefix string
	Format results.Format
	// Plots exports PNG histograms of every metric next to the results.
	Plots bool
}

// Settings is the full configuration of one invocation.
type Settings struct {
	Batch     batch.Config
	ProgramID string
	Output    Output
	Log       logging.Options
}

// Default returns the settings used when nothing is configured.
func Default() *Settings {
	return &Settings{
		Batch:     batch.DefaultConfig(),
		ProgramID: etabs.DefaultProgID,
		Output: Output{
			Dir:    ".",
			Prefix: "MonteCarlo_Results",
			Format: results.FormatXLSX,
		},
		Log: logging.Options{Level: "info", Format: "text"},
	}
}

// Load returns the defaults overlaid with the HCL file at path (if any)
// and then with the process environment.
func Load(path string) (*Settings, error) {
	s := Default()
	if path != "" {
		if err := s.ApplyFile(path); err != nil {
			return nil, err
		}
	}
	if err := s.ApplyEnv(osLookup); err != nil {
		return nil, err
	}
	return s, nil
}
