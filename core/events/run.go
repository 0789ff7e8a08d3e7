package events

// RunCompletedEvent closes a simulation run.
type RunCompletedEvent struct {
	RunID      string
	Steps      int
	Covered    bool
	UnmetSteps int
}
