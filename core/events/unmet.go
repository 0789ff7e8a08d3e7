package events

import "time"

// UnmetDemandEvent is published for each step whose demand was not covered.
type UnmetDemandEvent struct {
	Step    int
	Time    time.Time
	PowerKW float64
}
