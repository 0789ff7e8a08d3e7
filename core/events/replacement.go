package events

import "time"

// ReplacementEvent is emitted when a component's cumulative operating hours
// cross a multiple of its lifetime.
type ReplacementEvent struct {
	Component    string
	Step         int
	Time         time.Time
	Replacements int
}
