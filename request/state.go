package request

import "strconv"

// State is a lifecycle state of the request.
type State byte

// Request states in order of the lifecycle. Faulty and Finished are terminal.
const (
	StateCreated State = iota
	StateExecutorAssigned
	StateAuditorAssigned
	StateResultSubmitted
	StateFaulty
	StateFinished
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateExecutorAssigned:
		return "ExecutorAssigned"
	case StateAuditorAssigned:
		return "AuditorAssigned"
	case StateResultSubmitted:
		return "ResultSubmitted"
	case StateFaulty:
		return "Faulty"
	case StateFinished:
		return "Finished"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// IsTerminal checks whether the request can't leave the state.
func (s State) IsTerminal() bool {
	return s == StateFaulty || s == StateFinished
}
