// Package analysis runs one solve on the attached model and reads back the
// summary metrics of the pass.
package analysis

import (
	"fmt"

	"github.com/alexiusacademia/etabsmc/internal/session"
)

// AnalysisError reports a non-zero status from the solver.
type AnalysisError struct {
	Status int
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed with status %d", e.Status)
}

// Run triggers the analysis and blocks until the application returns.
func Run(eng session.Engine) error {
	if ret := eng.RunAnalysis(); ret != session.StatusOK {
		return &AnalysisError{Status: ret}
	}
	return nil
}
