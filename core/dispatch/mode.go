package dispatch

import (
	"fmt"
	"strings"
)

// GridMode is the topology of the micro-grid. It decides the fallback used
// when renewables leave residual load.
type GridMode string

const (
	OffGrid      GridMode = "off-grid"
	StableGrid   GridMode = "stable-grid"
	UnstableGrid GridMode = "unstable-grid"
)

// ParseGridMode accepts the canonical names and their underscore variants.
func ParseGridMode(s string) (GridMode, error) {
	switch GridMode(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")) {
	case OffGrid:
		return OffGrid, nil
	case StableGrid:
		return StableGrid, nil
	case UnstableGrid:
		return UnstableGrid, nil
	}
	return "", fmt.Errorf("unknown grid mode %q", s)
}

// connected reports whether the topology has a grid connection at all.
func (m GridMode) connected() bool { return m == StableGrid || m == UnstableGrid }

// HydrogenPriority places the hydrogen chain relative to the batteries in
// both the charge and the discharge order.
type HydrogenPriority string

const (
	HydrogenDisabled      HydrogenPriority = "disabled"
	HydrogenAfterBattery  HydrogenPriority = "after-battery"
	HydrogenBeforeBattery HydrogenPriority = "before-battery"
)

// ParseHydrogenPriority parses a priority. The empty string selects
// HydrogenAfterBattery.
func ParseHydrogenPriority(s string) (HydrogenPriority, error) {
	switch p := HydrogenPriority(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")); p {
	case "":
		return HydrogenAfterBattery, nil
	case HydrogenDisabled, HydrogenAfterBattery, HydrogenBeforeBattery:
		return p, nil
	}
	return "", fmt.Errorf("unknown hydrogen priority %q", s)
}
