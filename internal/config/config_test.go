package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/etabsmc/internal/results"
	"github.com/alexiusacademia/etabsmc/internal/sampler"
	"github.com/alexiusacademia/etabsmc/internal/session"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, 1000, s.Batch.Samples)
	assert.Equal(t, uint64(42), s.Batch.Seed)
	assert.Equal(t, 50, s.Batch.CheckpointInterval)
	assert.Equal(t, "CSI.ETABS.API.ETABSObject", s.ProgramID)
	assert.Equal(t, results.FormatXLSX, s.Output.Format)
	assert.Equal(t, "MonteCarlo_Results", s.Output.Prefix)
	assert.Len(t, s.Batch.Variables, 4)
}

func TestApplyHCL(t *testing.T) {
	src := `
model_path          = "C:/models/tower.EDB"
samples             = 200
seed                = 7
checkpoint_interval = 25

variable "Fc" {
  mean = 28
  std  = 3
}

variable "Live" {
  distribution = "lognormal"
  mean         = 1.2
  std          = 0.3
}

connection {
  mode               = "launch"
  visible            = false
  terminate_on_close = true
}

materials {
  concrete    = "C28"
  fy_variable = ""
}

combinations {
  dead_tokens   = ["DL", "SW"]
  dead_variable = ""
  live_variable = "Live"
}

output {
  dir    = "out"
  format = "csv"
  plots  = true
}

logging {
  level = "debug"
}
`
	s := Default()
	require.NoError(t, s.ApplyHCL([]byte(src), "test.hcl"))

	assert.Equal(t, "C:/models/tower.EDB", s.Batch.ModelPath)
	assert.Equal(t, 200, s.Batch.Samples)
	assert.Equal(t, uint64(7), s.Batch.Seed)
	assert.Equal(t, 25, s.Batch.CheckpointInterval)
	assert.Equal(t, []sampler.RandomVariableSpec{
		{Name: "Fc", Distribution: sampler.Normal, Mean: 28, Std: 3},
		{Name: "Live", Distribution: sampler.Lognormal, Mean: 1.2, Std: 0.3},
	}, s.Batch.Variables)
	assert.Equal(t, session.StrategyLaunch, s.Batch.Connection.Strategy)
	assert.False(t, s.Batch.Connection.Visible)
	assert.True(t, s.Batch.TerminateOnClose)
	assert.Equal(t, "C28", s.Batch.Params.ConcreteMaterial)
	assert.Equal(t, "A615Gr60", s.Batch.Params.RebarMaterial)
	assert.Empty(t, s.Batch.Params.FyVariable)
	assert.Equal(t, []string{"DL", "SW"}, s.Batch.Params.DeadTokens)
	assert.Equal(t, []string{"LIVE", "L "}, s.Batch.Params.LiveTokens)
	assert.Equal(t, "out", s.Output.Dir)
	assert.Equal(t, results.FormatCSV, s.Output.Format)
	assert.True(t, s.Output.Plots)
	assert.Equal(t, "debug", s.Log.Level)

	require.NoError(t, s.Batch.Validate())
}

func TestApplyHCLEnvReference(t *testing.T) {
	t.Setenv("ETABSMC_TEST_MODELS", "/srv/models")
	s := Default()
	require.NoError(t, s.ApplyHCL([]byte(`model_path = "${env.ETABSMC_TEST_MODELS}/frame.EDB"`), "env.hcl"))
	assert.Equal(t, "/srv/models/frame.EDB", s.Batch.ModelPath)
}

func TestApplyHCLErrors(t *testing.T) {
	cases := map[string]string{
		"syntax":       `samples = `,
		"type":         `samples = "many"`,
		"negative":     `seed = -1`,
		"distribution": "variable \"X\" {\n  distribution = \"uniform\"\n  mean = 1\n  std = 1\n}",
		"mode":         "connection {\n  mode = \"remote\"\n}",
		"format":       "output {\n  format = \"json\"\n}",
		"unknown":      `colour = "red"`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			s := Default()
			assert.Error(t, s.ApplyHCL([]byte(src), name+".hcl"))
		})
	}
}

func TestApplyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etabsmc.hcl")
	require.NoError(t, os.WriteFile(path, []byte("samples = 12\n"), 0o644))

	s := Default()
	require.NoError(t, s.ApplyFile(path))
	assert.Equal(t, 12, s.Batch.Samples)

	assert.Error(t, s.ApplyFile(filepath.Join(t.TempDir(), "missing.hcl")))
}

func TestApplyEnv(t *testing.T) {
	s := Default()
	err := s.ApplyEnv(envMap(map[string]string{
		EnvModelPath: "/m/a.EDB",
		EnvSamples:   "30",
		EnvSeed:      "99",
		EnvStrategy:  "attach",
		EnvOutputDir: "/tmp/out",
		EnvFormat:    "csv",
		EnvLogLevel:  "warn",
		EnvSeqURL:    "http://localhost:5341",
		EnvProgramID: "CSI.ETABS.API.ETABSObject.21",
		EnvLogFormat: "",
	}))
	require.NoError(t, err)
	assert.Equal(t, "/m/a.EDB", s.Batch.ModelPath)
	assert.Equal(t, 30, s.Batch.Samples)
	assert.Equal(t, uint64(99), s.Batch.Seed)
	assert.Equal(t, session.StrategyAttach, s.Batch.Connection.Strategy)
	assert.Equal(t, "/tmp/out", s.Output.Dir)
	assert.Equal(t, results.FormatCSV, s.Output.Format)
	assert.Equal(t, "warn", s.Log.Level)
	assert.Equal(t, "text", s.Log.Format)
	assert.Equal(t, "http://localhost:5341", s.Log.SeqURL)
	assert.Equal(t, "CSI.ETABS.API.ETABSObject.21", s.ProgramID)
}

func TestApplyEnvErrors(t *testing.T) {
	s := Default()
	err := s.ApplyEnv(envMap(map[string]string{
		EnvSamples: "lots",
		EnvSeed:    "-3",
		EnvFormat:  "json",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvSamples)
	assert.Contains(t, err.Error(), EnvSeed)
	assert.Contains(t, err.Error(), EnvFormat)
	assert.Equal(t, 1000, s.Batch.Samples)
}

func TestApplyEnvNoop(t *testing.T) {
	s := Default()
	require.NoError(t, s.ApplyEnv(noEnv))
	assert.Equal(t, Default(), s)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ETABSMC_TEST_DOTENV=from-file\n"), 0o644))
	t.Setenv("ETABSMC_TEST_DOTENV", "")
	os.Unsetenv("ETABSMC_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("ETABSMC_TEST_DOTENV"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etabsmc.hcl")
	require.NoError(t, os.WriteFile(path, []byte("samples = 5\n"), 0o644))
	t.Setenv(EnvSamples, "6")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, s.Batch.Samples)
}
