// Package component implements the micro-grid component models driven by the
// dispatch engine.
//
// Supply models (Renewable, Grid) expose per-step availability. Stateful
// models own their state exclusively and mutate it only through their own
// operations: Storage.Charge/Discharge for batteries, H2Storage.Charge/Discharge
// for the hydrogen tank, and the recorders DieselGenerator.Run,
// Electrolyser.Run and FuelCell.Operate. Saturation is never an error: every
// operation clamps the request to what is physically feasible and returns the
// amount actually applied. Only malformed parameters are rejected, at
// construction time, with an error wrapping ErrInvalidConfig.
package component
