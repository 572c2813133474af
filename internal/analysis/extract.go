package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/alexiusacademia/etabsmc/internal/results"
	"github.com/alexiusacademia/etabsmc/internal/session"
)

// ExtractionGap reports a result query that returned a non-zero status.
// The metrics it feeds are left out of the row.
type ExtractionGap struct {
	Query   string
	Metrics []string
	Status  int
}

func (e *ExtractionGap) Error() string {
	return fmt.Sprintf("%s query failed with status %d; missing %v", e.Query, e.Status, e.Metrics)
}

// Extract reads base reaction, story drift and modal period results.
// A metric whose source is empty is absent rather than zero. When any query
// fails, the metrics of the others are still returned alongside the joined
// *ExtractionGap errors.
func Extract(eng session.Engine) (results.Metrics, error) {
	m := results.Metrics{}
	var gaps []error

	if react, ret := eng.BaseReact(); ret != session.StatusOK {
		gaps = append(gaps, &ExtractionGap{Query: "BaseReact", Metrics: []string{results.BaseShearX, results.BaseShearY}, Status: ret})
	} else {
		setFirst(m, results.BaseShearX, react.FX)
		setFirst(m, results.BaseShearY, react.FY)
	}

	if drifts, ret := eng.StoryDrifts(); ret != session.StatusOK {
		gaps = append(gaps, &ExtractionGap{Query: "StoryDrifts", Metrics: []string{results.MaxDrift}, Status: ret})
	} else if len(drifts) > 0 {
		maxDrift := 0.0
		for _, d := range drifts {
			maxDrift = math.Max(maxDrift, math.Abs(d.Drift))
		}
		m[results.MaxDrift] = maxDrift
	}

	if modes, ret := eng.ModalPeriods(); ret != session.StatusOK {
		gaps = append(gaps, &ExtractionGap{Query: "ModalPeriods", Metrics: []string{results.T1, results.T2}, Status: ret})
	} else {
		if len(modes) > 0 {
			m[results.T1] = modes[0].Period
		}
		if len(modes) > 1 {
			m[results.T2] = modes[1].Period
		}
	}

	return m, errors.Join(gaps...)
}

func setFirst(m results.Metrics, name string, values []float64) {
	if len(values) > 0 {
		m[name] = values[0]
	}
}
