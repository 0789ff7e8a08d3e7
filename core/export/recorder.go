package export

import "github.com/kilianp07/microgrid/core/events"

// UnmetRecorder is implemented by sinks that record uncovered steps as they
// are published on the event bus.
type UnmetRecorder interface {
	RecordUnmet(ev events.UnmetDemandEvent) error
}

// ReplacementRecorder is implemented by sinks that record stack replacements.
type ReplacementRecorder interface {
	RecordReplacement(ev events.ReplacementEvent) error
}

func (NopSink) RecordUnmet(events.UnmetDemandEvent) error       { return nil }
func (NopSink) RecordReplacement(events.ReplacementEvent) error { return nil }

// RecordUnmet forwards the event to sinks implementing UnmetRecorder.
func (m *MultiSink) RecordUnmet(ev events.UnmetDemandEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(UnmetRecorder); ok {
			if err := rec.RecordUnmet(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordReplacement forwards the event to sinks implementing ReplacementRecorder.
func (m *MultiSink) RecordReplacement(ev events.ReplacementEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ReplacementRecorder); ok {
			if err := rec.RecordReplacement(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
