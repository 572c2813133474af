// Package session manages the lifetime of a connection to the external
// analysis application: attach or launch, open a model, and tear down.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alexiusacademia/etabsmc/internal/ctxlog"
)

// Strategy selects how Connect obtains an application instance.
type Strategy int

const (
	// StrategyAuto attaches to a running instance and launches one if none is found.
	StrategyAuto Strategy = iota
	// StrategyAttach only attaches to a running instance.
	StrategyAttach
	// StrategyLaunch always starts a new instance.
	StrategyLaunch
)

func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyAttach:
		return "attach"
	case StrategyLaunch:
		return "launch"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps a configuration value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return StrategyAuto, nil
	case "attach":
		return StrategyAttach, nil
	case "launch":
		return StrategyLaunch, nil
	default:
		return 0, fmt.Errorf("unknown connection strategy %q (want auto, attach or launch)", s)
	}
}

// ConnectOptions controls Connect.
type ConnectOptions struct {
	Strategy Strategy
	// Visible shows the application window of a launched instance.
	Visible bool
}

// Session is an open connection to one application instance.
// It is owned by a single goroutine.
type Session struct {
	app       Application
	model     Engine
	logger    *slog.Logger
	launched  bool
	modelPath string
	closed    bool
}

// Connect obtains an application instance using opts.Strategy.
// Any failure is returned as a *ConnectionError.
func Connect(ctx context.Context, f Factory, opts ConnectOptions) (*Session, error) {
	logger := ctxlog.FromContext(ctx)
	if f == nil {
		return nil, &ConnectionError{Strategy: opts.Strategy, Err: errors.New("no application factory configured")}
	}

	var (
		app      Application
		launched bool
		errs     []error
	)

	if opts.Strategy == StrategyAuto || opts.Strategy == StrategyAttach {
		logger.Info("Attaching to running analysis application.")
		a, err := f.Attach(ctx)
		if err == nil {
			app = a
		} else {
			errs = append(errs, fmt.Errorf("attach: %w", err))
			logger.Info("No running instance found.", "error", err)
		}
	}

	if app == nil && (opts.Strategy == StrategyAuto || opts.Strategy == StrategyLaunch) {
		logger.Info("Launching analysis application.", "visible", opts.Visible)
		a, err := f.Launch(ctx, opts.Visible)
		if err == nil {
			app = a
			launched = true
		} else {
			errs = append(errs, fmt.Errorf("launch: %w", err))
		}
	}

	if app == nil {
		if len(errs) == 0 {
			errs = append(errs, fmt.Errorf("unknown strategy %v", opts.Strategy))
		}
		return nil, &ConnectionError{Strategy: opts.Strategy, Err: errors.Join(errs...)}
	}

	model := app.Model()
	if model == nil {
		_ = app.Release()
		return nil, &ConnectionError{Strategy: opts.Strategy, Err: errors.New("application exposes no model")}
	}

	logger.Info("Connected to analysis application.", "launched", launched)
	return &Session{app: app, model: model, logger: logger, launched: launched}, nil
}

// Launched reports whether Connect started a new instance.
func (s *Session) Launched() bool {
	return s != nil && s.launched
}

// IsOpen reports whether the session still holds its application handle.
func (s *Session) IsOpen() bool {
	return s != nil && !s.closed
}

// HasModel reports whether a model has been opened successfully.
func (s *Session) HasModel() bool {
	return s.IsOpen() && s.modelPath != ""
}

// Model returns the model surface of the attached application.
func (s *Session) Model() Engine {
	if !s.IsOpen() {
		return nil
	}
	return s.model
}

// OpenModel opens the model file at path and unlocks it for editing.
func (s *Session) OpenModel(path string) error {
	if !s.IsOpen() {
		return ErrClosed
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty path", ErrFileNotFound)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	if ret := s.model.OpenFile(path); ret != StatusOK {
		return fmt.Errorf("%w: %s (status %d)", ErrOpenFailed, path, ret)
	}
	s.modelPath = path

	if ret := s.model.SetModelIsLocked(false); ret != StatusOK {
		s.logger.Warn("Could not unlock model.", "status", ret)
	}
	s.logger.Info("Model opened.", "path", path, "model_file", s.model.GetModelFilename())
	return nil
}

// ModelPath returns the path passed to a successful OpenModel.
func (s *Session) ModelPath() string {
	if s == nil {
		return ""
	}
	return s.modelPath
}

// Close releases the application handle. When terminate is set the
// application is asked to exit first, without saving. Close is a no-op on a
// nil or already closed session.
func (s *Session) Close(terminate bool) error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	s.modelPath = ""

	if terminate {
		if ret := s.app.Exit(false); ret != StatusOK {
			s.logger.Warn("Application exit reported failure.", "status", ret)
		} else {
			s.logger.Info("Analysis application closed.")
		}
	}
	if err := s.app.Release(); err != nil {
		return fmt.Errorf("release application: %w", err)
	}
	return nil
}
