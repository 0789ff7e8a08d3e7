package metrics

import (
	"context"

	"github.com/kilianp07/microgrid/core/events"
	"github.com/kilianp07/microgrid/core/export"
	"github.com/kilianp07/microgrid/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and forwards engine events
// to the sink when it implements the matching recorder. It stops when the
// context is canceled or the bus is closed; the returned channel is closed
// once the collector has drained its subscription.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink export.ResultSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.UnmetDemandEvent:
					if r, ok := sink.(export.UnmetRecorder); ok {
						_ = r.RecordUnmet(e)
					}
				case events.ReplacementEvent:
					if r, ok := sink.(export.ReplacementRecorder); ok {
						_ = r.RecordReplacement(e)
					}
				}
			}
		}
	}()
	return done
}
