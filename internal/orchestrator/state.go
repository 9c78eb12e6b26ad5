package orchestrator

// Phase identifies where the control loop is within an iteration. Exactly
// one iteration occupies a non-Idle phase at any time; the loop never
// overlaps iterations.
type Phase int

const (
	Idle Phase = iota
	Preparing
	Executing
	Collecting
	Archiving
	Halted
	Completed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Preparing:
		return "preparing"
	case Executing:
		return "executing"
	case Collecting:
		return "collecting"
	case Archiving:
		return "archiving"
	case Halted:
		return "halted"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Event is emitted to observers on every phase transition.
type Event struct {
	Iteration int
	Total     int
	Phase     Phase
}
