package scheduler

// State is the lifecycle state of a Scheduler.
type State int32

const (
	// StateIdle means Run has not been called yet.
	StateIdle State = iota
	// StateRunning means batches are being dispatched.
	StateRunning
	// StateDraining means the deadline passed and in-flight tasks are being awaited.
	StateDraining
	// StateStopped is terminal: every dispatched task has been recorded.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
