package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexiusacademia/etabsmc/internal/session"
	"github.com/alexiusacademia/etabsmc/internal/session/sessiontest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tower.EDB")
	require.NoError(t, os.WriteFile(path, []byte("model"), 0o644))
	return path
}

func TestConnect_AttachesFirst(t *testing.T) {
	app := sessiontest.New()
	f := &sessiontest.Factory{App: app}

	s, err := session.Connect(context.Background(), f, session.ConnectOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.Attaches)
	assert.Zero(t, f.Launches)
	assert.False(t, s.Launched())
	assert.True(t, s.IsOpen())
	assert.False(t, s.HasModel())
}

func TestConnect_LaunchesWhenNoneRunning(t *testing.T) {
	f := &sessiontest.Factory{AttachErr: sessiontest.ErrNotRunning}

	s, err := session.Connect(context.Background(), f, session.ConnectOptions{Visible: true})
	require.NoError(t, err)
	assert.Equal(t, 1, f.Attaches)
	assert.Equal(t, 1, f.Launches)
	assert.True(t, f.Visible)
	assert.True(t, s.Launched())
}

func TestConnect_LaunchStrategySkipsAttach(t *testing.T) {
	f := &sessiontest.Factory{App: sessiontest.New()}

	_, err := session.Connect(context.Background(), f, session.ConnectOptions{Strategy: session.StrategyLaunch})
	require.NoError(t, err)
	assert.Zero(t, f.Attaches)
	assert.Equal(t, 1, f.Launches)
}

func TestConnect_AttachOnlyFails(t *testing.T) {
	f := &sessiontest.Factory{AttachErr: sessiontest.ErrNotRunning}

	s, err := session.Connect(context.Background(), f, session.ConnectOptions{Strategy: session.StrategyAttach})
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Zero(t, f.Launches)

	var connErr *session.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, session.StrategyAttach, connErr.Strategy)
	assert.ErrorIs(t, err, sessiontest.ErrNotRunning)

	// Closing the nil session from a failed connect is safe.
	assert.NoError(t, s.Close(true))
}

func TestConnect_BothStrategiesFail(t *testing.T) {
	launchErr := errors.New("license unavailable")
	f := &sessiontest.Factory{AttachErr: sessiontest.ErrNotRunning, LaunchErr: launchErr}

	_, err := session.Connect(context.Background(), f, session.ConnectOptions{})
	var connErr *session.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.ErrorIs(t, err, launchErr)
	assert.ErrorIs(t, err, sessiontest.ErrNotRunning)
}

func TestConnect_NilFactory(t *testing.T) {
	_, err := session.Connect(context.Background(), nil, session.ConnectOptions{})
	var connErr *session.ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestOpenModel(t *testing.T) {
	app := sessiontest.New()
	s, err := session.Connect(context.Background(), &sessiontest.Factory{App: app}, session.ConnectOptions{})
	require.NoError(t, err)

	path := modelFile(t)
	require.NoError(t, s.OpenModel(path))
	assert.True(t, s.HasModel())
	assert.Equal(t, path, s.ModelPath())
	assert.Equal(t, path, app.OpenedPath)

	locks := app.CallsTo("SetModelIsLocked")
	require.Len(t, locks, 1)
	assert.Equal(t, []any{false}, locks[0].Args)
}

func TestOpenModel_FileNotFound(t *testing.T) {
	app := sessiontest.New()
	s, err := session.Connect(context.Background(), &sessiontest.Factory{App: app}, session.ConnectOptions{})
	require.NoError(t, err)

	err = s.OpenModel(filepath.Join(t.TempDir(), "missing.EDB"))
	require.ErrorIs(t, err, session.ErrFileNotFound)
	assert.Empty(t, app.CallsTo("OpenFile"))
	assert.False(t, s.HasModel())

	require.ErrorIs(t, s.OpenModel("  "), session.ErrFileNotFound)
}

func TestOpenModel_Rejected(t *testing.T) {
	app := sessiontest.New()
	app.Statuses["OpenFile"] = 1
	s, err := session.Connect(context.Background(), &sessiontest.Factory{App: app}, session.ConnectOptions{})
	require.NoError(t, err)

	err = s.OpenModel(modelFile(t))
	require.ErrorIs(t, err, session.ErrOpenFailed)
	assert.False(t, s.HasModel())
}

func TestClose_Idempotent(t *testing.T) {
	app := sessiontest.New()
	s, err := session.Connect(context.Background(), &sessiontest.Factory{App: app}, session.ConnectOptions{})
	require.NoError(t, err)

	require.NoError(t, s.Close(true))
	require.NoError(t, s.Close(true))
	require.NoError(t, s.Close(false))

	assert.Equal(t, 1, app.Releases)
	assert.Equal(t, 1, app.Exits)
	assert.False(t, s.IsOpen())
	assert.Nil(t, s.Model())
	assert.ErrorIs(t, s.OpenModel(modelFile(t)), session.ErrClosed)
}

func TestClose_WithoutTerminate(t *testing.T) {
	app := sessiontest.New()
	s, err := session.Connect(context.Background(), &sessiontest.Factory{App: app}, session.ConnectOptions{})
	require.NoError(t, err)

	require.NoError(t, s.Close(false))
	assert.Zero(t, app.Exits)
	assert.Equal(t, 1, app.Releases)
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]session.Strategy{
		"":        session.StrategyAuto,
		"AUTO":    session.StrategyAuto,
		"attach":  session.StrategyAttach,
		" launch": session.StrategyLaunch,
	} {
		got, err := session.ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := session.ParseStrategy("spawn")
	assert.Error(t, err)
}
