// Package etabs binds the session layer to ETABS through its COM automation
// server. Only Windows builds can reach the application; other platforms get
// a factory whose strategies always fail with ErrUnsupported.
package etabs

import "errors"

// DefaultProgID is the registered automation name of ETABS v19 and later.
const DefaultProgID = "CSI.ETABS.API.ETABSObject"

// ErrUnsupported is returned on platforms without COM automation.
var ErrUnsupported = errors.New("ETABS automation requires Windows")

// Factory creates ETABS application handles for one ProgID.
type Factory struct {
	ProgID string
}

// NewFactory returns a Factory for progID, or DefaultProgID when empty.
func NewFactory(progID string) *Factory {
	if progID == "" {
		progID = DefaultProgID
	}
	return &Factory{ProgID: progID}
}
