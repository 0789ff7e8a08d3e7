// Package events defines the simulation events emitted on the event bus.
//
// Available event types:
//   - UnmetDemandEvent: a step ended with residual load left
//   - ReplacementEvent: a hydrogen stack reached a multiple of its lifetime
//   - RunCompletedEvent: the engine processed the whole horizon
package events
