package session

import "context"

// StatusOK is the status every automation call returns on success.
const StatusOK = 0

// BaseReaction is the output of a base reaction query, one entry per
// load case, combination or step selected for output.
type BaseReaction struct {
	LoadCases []string
	FX        []float64
	FY        []float64
	FZ        []float64
	MX        []float64
	MY        []float64
	MZ        []float64
}

// StoryDrift is one row of a story drift query.
type StoryDrift struct {
	Story     string
	LoadCase  string
	Direction string
	Drift     float64
}

// ModalPeriod is one mode of a modal period query, ordered by mode number.
type ModalPeriod struct {
	Mode      int
	Period    float64
	Frequency float64
}

// Engine is the model surface of an attached analysis application.
// Every call returns the application's status where StatusOK means success;
// output values are only meaningful when the status is StatusOK.
type Engine interface {
	OpenFile(path string) int
	SetModelIsLocked(locked bool) int
	GetModelFilename() string

	SetMPIsotropic(material string, e, poisson, thermal float64) int
	SetOConcrete(material string, fc float64) int
	SetORebar(material string, fy, fu float64) int

	GetComboList() ([]string, int)
	SetCaseInCombo(combo, loadCase string, scale float64) int

	RunAnalysis() int

	BaseReact() (BaseReaction, int)
	StoryDrifts() ([]StoryDrift, int)
	ModalPeriods() ([]ModalPeriod, int)
}

// Application is a handle on a running analysis application process.
type Application interface {
	// Model returns the model surface of the application.
	Model() Engine
	// Exit asks the application process to exit.
	Exit(save bool) int
	// Release drops the handle without touching the process.
	Release() error
}

// Factory produces application handles. Attach binds to an already running
// instance; Launch starts a new one. Implementations must release anything
// they acquired before returning an error.
type Factory interface {
	Attach(ctx context.Context) (Application, error)
	Launch(ctx context.Context, visible bool) (Application, error)
}
