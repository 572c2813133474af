// Package sessiontest provides a scripted, recording stand-in for the
// analysis application.
package sessiontest

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexiusacademia/etabsmc/internal/session"
)

// Call is one recorded automation call.
type Call struct {
	Method string
	Args   []any
}

// ComboCase identifies a load case inside a combination.
type ComboCase struct {
	Combo string
	Case  string
}

// Fake is an in-memory application and model. Zero statuses mean success.
// It is not safe for concurrent use.
type Fake struct {
	// Status overrides by method name, e.g. "SetORebar": 1.
	Statuses map[string]int
	// RunStatuses overrides RunAnalysis by zero-based call index.
	RunStatuses map[int]int

	Combos       []string
	BaseReaction session.BaseReaction
	Drifts       []session.StoryDrift
	Periods      []session.ModalPeriod

	Calls       []Call
	ComboScales map[ComboCase]float64
	OpenedPath  string
	Runs        int
	Exits       int
	Releases    int
}

// New returns a Fake with the given combination names.
func New(combos ...string) *Fake {
	return &Fake{
		Statuses:    map[string]int{},
		RunStatuses: map[int]int{},
		Combos:      combos,
		ComboScales: map[ComboCase]float64{},
	}
}

func (f *Fake) record(method string, args ...any) int {
	f.Calls = append(f.Calls, Call{Method: method, Args: args})
	return f.Statuses[method]
}

// CallsTo returns the recorded calls of one method.
func (f *Fake) CallsTo(method string) []Call {
	var out []Call
	for _, c := range f.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) Model() session.Engine { return f }

func (f *Fake) Exit(save bool) int {
	f.Exits++
	return f.record("Exit", save)
}

func (f *Fake) Release() error {
	f.Releases++
	f.record("Release")
	return nil
}

func (f *Fake) OpenFile(path string) int {
	ret := f.record("OpenFile", path)
	if ret == session.StatusOK {
		f.OpenedPath = path
	}
	return ret
}

func (f *Fake) SetModelIsLocked(locked bool) int {
	return f.record("SetModelIsLocked", locked)
}

func (f *Fake) GetModelFilename() string {
	f.record("GetModelFilename")
	return f.OpenedPath
}

func (f *Fake) SetMPIsotropic(material string, e, poisson, thermal float64) int {
	return f.record("SetMPIsotropic", material, e, poisson, thermal)
}

func (f *Fake) SetOConcrete(material string, fc float64) int {
	return f.record("SetOConcrete", material, fc)
}

func (f *Fake) SetORebar(material string, fy, fu float64) int {
	return f.record("SetORebar", material, fy, fu)
}

func (f *Fake) GetComboList() ([]string, int) {
	ret := f.record("GetComboList")
	if ret != session.StatusOK {
		return nil, ret
	}
	return append([]string(nil), f.Combos...), ret
}

func (f *Fake) SetCaseInCombo(combo, loadCase string, scale float64) int {
	ret := f.record("SetCaseInCombo", combo, loadCase, scale)
	if ret == session.StatusOK {
		f.ComboScales[ComboCase{Combo: combo, Case: loadCase}] = scale
	}
	return ret
}

func (f *Fake) RunAnalysis() int {
	idx := f.Runs
	f.Runs++
	ret := f.record("RunAnalysis", idx)
	if s, ok := f.RunStatuses[idx]; ok {
		return s
	}
	return ret
}

func (f *Fake) BaseReact() (session.BaseReaction, int) {
	return f.BaseReaction, f.record("BaseReact")
}

func (f *Fake) StoryDrifts() ([]session.StoryDrift, int) {
	return f.Drifts, f.record("StoryDrifts")
}

func (f *Fake) ModalPeriods() ([]session.ModalPeriod, int) {
	return f.Periods, f.record("ModalPeriods")
}

// Factory hands out one Fake and counts how it was obtained.
type Factory struct {
	App       *Fake
	AttachErr error
	LaunchErr error

	Attaches int
	Launches int
	Visible  bool
}

// ErrNotRunning mimics the failure of attaching when no instance is running.
var ErrNotRunning = errors.New("no running instance")

func (f *Factory) Attach(ctx context.Context) (session.Application, error) {
	f.Attaches++
	if f.AttachErr != nil {
		return nil, f.AttachErr
	}
	if f.App == nil {
		return nil, fmt.Errorf("attach: %w", ErrNotRunning)
	}
	return f.App, nil
}

func (f *Factory) Launch(ctx context.Context, visible bool) (session.Application, error) {
	f.Launches++
	f.Visible = visible
	if f.LaunchErr != nil {
		return nil, f.LaunchErr
	}
	if f.App == nil {
		f.App = New()
	}
	return f.App, nil
}
