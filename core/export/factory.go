package export

import "github.com/kilianp07/microgrid/core/factory"

var sinkRegistry = factory.NewRegistry[ResultSink]()

// RegisterSink adds a result sink factory identified by name.
func RegisterSink(name string, f factory.Factory[ResultSink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink names in lexical order.
func SinkTypes() []string { return sinkRegistry.Names() }

// NewSink creates a ResultSink from the provided configuration.
func NewSink(cfgs []factory.ModuleConfig) (ResultSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]ResultSink, 0, len(cfgs))
	for _, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			_ = NewMultiSink(sinks...).Close()
			return nil, err
		}
		sinks = append(sinks, s)
	}
	return NewMultiSink(sinks...), nil
}
