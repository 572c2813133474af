package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/alexiusacademia/etabsmc/internal/results"
	"github.com/alexiusacademia/etabsmc/internal/session"
)

// Environment variables recognised by ApplyEnv.
const (
	EnvModelPath          = "ETABSMC_MODEL_PATH"
	EnvSamples            = "ETABSMC_SAMPLES"
	EnvSeed               = "ETABSMC_SEED"
	EnvCheckpointInterval = "ETABSMC_CHECKPOINT_INTERVAL"
	EnvStrategy           = "ETABSMC_CONNECT_MODE"
	EnvProgramID          = "ETABSMC_PROGRAM_ID"
	EnvOutputDir          = "ETABSMC_OUTPUT_DIR"
	EnvFormat             = "ETABSMC_FORMAT"
	EnvLogLevel           = "ETABSMC_LOG_LEVEL"
	EnvLogFormat          = "ETABSMC_LOG_FORMAT"
	EnvSeqURL             = "ETABSMC_SEQ_URL"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

func osLookup(key string) (string, bool) { return os.LookupEnv(key) }

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are ignored; variables already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays ETABSMC_* variables onto s.
func (s *Settings) ApplyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	integer := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}

	str(EnvModelPath, &s.Batch.ModelPath)
	integer(EnvSamples, &s.Batch.Samples)
	integer(EnvCheckpointInterval, &s.Batch.CheckpointInterval)
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSeed, err))
		} else {
			s.Batch.Seed = seed
		}
	}
	if v, ok := lookup(EnvStrategy); ok && v != "" {
		st, err := session.ParseStrategy(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvStrategy, err))
		} else {
			s.Batch.Connection.Strategy = st
		}
	}
	str(EnvProgramID, &s.ProgramID)
	str(EnvOutputDir, &s.Output.Dir)
	if v, ok := lookup(EnvFormat); ok && v != "" {
		f, err := results.ParseFormat(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvFormat, err))
		} else {
			s.Output.Format = f
		}
	}
	str(EnvLogLevel, &s.Log.Level)
	str(EnvLogFormat, &s.Log.Format)
	str(EnvSeqURL, &s.Log.SeqURL)
	return errors.Join(errs...)
}
