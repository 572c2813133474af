package batch

import "fmt"

// State is the lifecycle stage of an Orchestrator.
type State int

const (
	Idle State = iota
	Connected
	ModelLoaded
	Running
	Completed
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connected:
		return "connected"
	case ModelLoaded:
		return "model-loaded"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Completed || s == Aborted
}

// next lists the legal transitions. Any non-terminal state may abort.
var next = map[State][]State{
	Idle:        {Connected},
	Connected:   {ModelLoaded},
	ModelLoaded: {Running},
	Running:     {Completed},
}

func canTransition(from, to State) bool {
	if to == Aborted {
		return !from.Terminal()
	}
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}
