//go:build windows

package etabs

import (
	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/alexiusacademia/etabsmc/internal/session"
)

// statusCallFailed stands in for a status when the COM call itself failed.
const statusCallFailed = -1

// eCNameType values
const cNameLoadCase int32 = 0

// Stress-strain defaults passed to the *_1 material setters
const (
	concreteSSMander    = 2
	concreteHysTakeda   = 4
	concreteStrainAtFc  = 0.002
	concreteStrainUlt   = 0.005
	concreteFinalSlope  = -0.1
	rebarSSParametric   = 1
	rebarHysKinematic   = 1
	rebarStrainHarden   = 0.01
	rebarStrainUltimate = 0.09
	rebarFinalSlope     = -0.1
)

// model adapts the SapModel dispatch interface to session.Engine.
type model struct {
	sap      *ole.IDispatch
	children map[string]*ole.IDispatch
}

func (m *model) release() {
	for _, d := range m.children {
		d.Release()
	}
	m.children = map[string]*ole.IDispatch{}
	if m.sap != nil {
		m.sap.Release()
		m.sap = nil
	}
}

// object returns a sub-object of SapModel, e.g. "PropMaterial".
func (m *model) object(name string) (*ole.IDispatch, error) {
	if d, ok := m.children[name]; ok {
		return d, nil
	}
	v, err := oleutil.GetProperty(m.sap, name)
	if err != nil {
		return nil, err
	}
	d := v.ToIDispatch()
	m.children[name] = d
	return d, nil
}

func (m *model) call(object, method string, args ...any) int {
	target := m.sap
	if object != "" {
		d, err := m.object(object)
		if err != nil {
			return statusCallFailed
		}
		target = d
	}
	return callStatus(oleutil.CallMethod(target, method, args...))
}

func (m *model) OpenFile(path string) int {
	return m.call("File", "OpenFile", path)
}

func (m *model) SetModelIsLocked(locked bool) int {
	return m.call("", "SetModelIsLocked", locked)
}

func (m *model) GetModelFilename() string {
	v, err := oleutil.CallMethod(m.sap, "GetModelFilename", true)
	if err != nil {
		return ""
	}
	defer v.Clear()
	return v.ToString()
}

func (m *model) SetMPIsotropic(material string, e, poisson, thermal float64) int {
	return m.call("PropMaterial", "SetMPIsotropic", material, e, poisson, thermal)
}

func (m *model) SetOConcrete(material string, fc float64) int {
	return m.call("PropMaterial", "SetOConcrete_1", material, fc, false, 0.0,
		int32(concreteSSMander), int32(concreteHysTakeda),
		concreteStrainAtFc, concreteStrainUlt, concreteFinalSlope)
}

func (m *model) SetORebar(material string, fy, fu float64) int {
	return m.call("PropMaterial", "SetORebar_1", material, fy, fu, fy, fu,
		int32(rebarSSParametric), int32(rebarHysKinematic),
		rebarStrainHarden, rebarStrainUltimate, rebarFinalSlope, false)
}

func (m *model) GetComboList() ([]string, int) {
	ref := newOuts(2)
	defer ref.clear()
	ret := m.call("RespCombo", "GetComboList", ref.args()...)
	if ret != session.StatusOK {
		return nil, ret
	}
	return ref.strings(1), ret
}

func (m *model) SetCaseInCombo(combo, loadCase string, scale float64) int {
	nameType := cNameLoadCase
	return m.call("RespCombo", "SetCaseInCombo", combo, &nameType, loadCase, scale)
}

func (m *model) RunAnalysis() int {
	return m.call("Analyze", "RunAnalysis")
}

// BaseReact out parameters: NumberResults, LoadCase, StepType, StepNum,
// Fx, Fy, Fz, Mx, My, Mz, gx, gy, gz.
func (m *model) BaseReact() (session.BaseReaction, int) {
	ref := newOuts(13)
	defer ref.clear()
	ret := m.call("Results", "BaseReact", ref.args()...)
	if ret != session.StatusOK {
		return session.BaseReaction{}, ret
	}
	return session.BaseReaction{
		LoadCases: ref.strings(1),
		FX:        ref.floats(4),
		FY:        ref.floats(5),
		FZ:        ref.floats(6),
		MX:        ref.floats(7),
		MY:        ref.floats(8),
		MZ:        ref.floats(9),
	}, ret
}

// StoryDrifts out parameters: NumberResults, Story, LoadCase, StepType,
// StepNum, Direction, Drift, Label, X, Y, Z.
func (m *model) StoryDrifts() ([]session.StoryDrift, int) {
	ref := newOuts(11)
	defer ref.clear()
	ret := m.call("Results", "StoryDrifts", ref.args()...)
	if ret != session.StatusOK {
		return nil, ret
	}
	stories, cases, dirs, drifts := ref.strings(1), ref.strings(2), ref.strings(5), ref.floats(6)
	out := make([]session.StoryDrift, len(drifts))
	for i, d := range drifts {
		out[i] = session.StoryDrift{
			Story:     at(stories, i),
			LoadCase:  at(cases, i),
			Direction: at(dirs, i),
			Drift:     d,
		}
	}
	return out, ret
}

// ModalPeriod out parameters: NumberResults, LoadCase, StepType, StepNum,
// Period, Frequency, CircFreq, EigenValue.
func (m *model) ModalPeriods() ([]session.ModalPeriod, int) {
	ref := newOuts(8)
	defer ref.clear()
	ret := m.call("Results", "ModalPeriod", ref.args()...)
	if ret != session.StatusOK {
		return nil, ret
	}
	periods, freqs := ref.floats(4), ref.floats(5)
	out := make([]session.ModalPeriod, len(periods))
	for i, p := range periods {
		var f float64
		if i < len(freqs) {
			f = freqs[i]
		}
		out[i] = session.ModalPeriod{Mode: i + 1, Period: p, Frequency: f}
	}
	return out, ret
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}
