package export

import (
	"context"
	"errors"
	"io"
)

// ResultSink persists or publishes a finished run.
type ResultSink interface {
	Export(ctx context.Context, run *Run) error
}

// NopSink discards runs.
type NopSink struct{}

func (NopSink) Export(context.Context, *Run) error { return nil }

// MultiSink fans a run out to several sinks.
type MultiSink struct {
	Sinks []ResultSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...ResultSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// Export forwards the run to every sink. A failing sink does not prevent
// the others from receiving the run; all errors are returned joined.
func (m *MultiSink) Export(ctx context.Context, run *Run) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.Export(ctx, run); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink implementing io.Closer.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if err := Close(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes s if it holds resources.
func Close(s ResultSink) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
