package params

import (
	"math"
	"testing"

	"github.com/alexiusacademia/etabsmc/internal/sampler"
	"github.com/alexiusacademia/etabsmc/internal/session/sessiontest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row() sampler.Row {
	return sampler.Row{"Fc": 30, "Fy": 400, "Dead": 1.1, "Live": 0.9}
}

func TestApply_ScalesMatchingCombinations(t *testing.T) {
	fake := sessiontest.New("DEAD1", "LIVE2", "WIND")

	require.NoError(t, New(DefaultConfig()).Apply(fake, 0, row()))

	assert.Equal(t, map[sessiontest.ComboCase]float64{
		{Combo: "DEAD1", Case: "DEAD"}: 1.1,
		{Combo: "LIVE2", Case: "LIVE"}: 0.9,
	}, fake.ComboScales)
}

func TestApply_CombinationMatchingBoth(t *testing.T) {
	fake := sessiontest.New("1.2dead+1.6live", "EQX")

	require.NoError(t, New(DefaultConfig()).Apply(fake, 0, row()))

	assert.Equal(t, map[sessiontest.ComboCase]float64{
		{Combo: "1.2dead+1.6live", Case: "DEAD"}: 1.1,
		{Combo: "1.2dead+1.6live", Case: "LIVE"}: 0.9,
	}, fake.ComboScales)
}

func TestApply_ShortCombinationNames(t *testing.T) {
	fake := sessiontest.New("1.2D + 1.6L + W", "0.9D+1.0E")

	require.NoError(t, New(DefaultConfig()).Apply(fake, 0, row()))

	assert.Equal(t, map[sessiontest.ComboCase]float64{
		{Combo: "1.2D + 1.6L + W", Case: "DEAD"}: 1.1,
		{Combo: "1.2D + 1.6L + W", Case: "LIVE"}: 0.9,
	}, fake.ComboScales)
}

func TestApply_MaterialsInOrder(t *testing.T) {
	fake := sessiontest.New()

	require.NoError(t, New(DefaultConfig()).Apply(fake, 0, row()))

	var methods []string
	for _, c := range fake.Calls {
		methods = append(methods, c.Method)
	}
	assert.Equal(t, []string{"SetMPIsotropic", "SetOConcrete", "SetMPIsotropic", "SetORebar", "GetComboList"}, methods)

	conc := fake.Calls[0].Args
	assert.Equal(t, "CONC", conc[0])
	assert.InDelta(t, 4700*math.Sqrt(30)*1000, conc[1].(float64), 1e-6)
	assert.Equal(t, []any{"CONC", 30000.0}, fake.Calls[1].Args)

	assert.Equal(t, "A615Gr60", fake.Calls[2].Args[0])
	assert.Equal(t, []any{"A615Gr60", 400000.0, 600000.0}, fake.Calls[3].Args)
}

func TestApply_SetterFailure(t *testing.T) {
	fake := sessiontest.New("DEAD1")
	fake.Statuses["SetORebar"] = 3

	err := New(DefaultConfig()).Apply(fake, 17, row())

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, 17, applyErr.Row)
	assert.Equal(t, "Fy", applyErr.Field)
	assert.Equal(t, "SetORebar", applyErr.Call)
	assert.Equal(t, 3, applyErr.Status)
	assert.Contains(t, err.Error(), "row 17")
	assert.Empty(t, fake.CallsTo("GetComboList"), "later steps must not run")
}

func TestApply_ComboListFailure(t *testing.T) {
	fake := sessiontest.New("DEAD1")
	fake.Statuses["GetComboList"] = 1

	err := New(DefaultConfig()).Apply(fake, 2, row())

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, "GetComboList", applyErr.Call)
}

func TestApply_NonPositiveStrength(t *testing.T) {
	fake := sessiontest.New()
	r := row()
	r["Fc"] = -2

	err := New(DefaultConfig()).Apply(fake, 5, r)
	require.ErrorIs(t, err, ErrNonPositive)
	assert.Empty(t, fake.Calls)
}

func TestApply_DisabledSteps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FcVariable = ""
	cfg.FyVariable = ""
	cfg.LiveVariable = ""
	fake := sessiontest.New("DEAD", "LIVE")

	require.NoError(t, New(cfg).Apply(fake, 0, sampler.Row{"Dead": 1.2}))
	assert.Empty(t, fake.CallsTo("SetMPIsotropic"))
	assert.Equal(t, map[sessiontest.ComboCase]float64{{Combo: "DEAD", Case: "DEAD"}: 1.2}, fake.ComboScales)
}

func TestConfig_Validate(t *testing.T) {
	specs := []sampler.RandomVariableSpec{{Name: "Fc"}, {Name: "Fy"}, {Name: "Dead"}, {Name: "Live"}}
	require.NoError(t, DefaultConfig().Validate(specs))

	err := DefaultConfig().Validate(specs[:2])
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Dead"`)
	assert.Contains(t, err.Error(), `"Live"`)

	cfg := DefaultConfig()
	cfg.StressScale = 0
	assert.Error(t, cfg.Validate(specs))
}
