package component

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates a component was built with inconsistent parameters.
var ErrInvalidConfig = errors.New("invalid component configuration")

func invalid(name, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, name, fmt.Sprintf(format, args...))
}

func checkFraction(name, field string, v float64) error {
	if v < 0 || v > 1 {
		return invalid(name, "%s must be within [0,1], got %v", field, v)
	}
	return nil
}

func checkEfficiency(name, field string, v float64) error {
	if v <= 0 || v > 1 {
		return invalid(name, "%s must be within (0,1], got %v", field, v)
	}
	return nil
}

func checkBounds(name string, min, max float64) error {
	if err := checkFraction(name, "soc_min", min); err != nil {
		return err
	}
	if err := checkFraction(name, "soc_max", max); err != nil {
		return err
	}
	if min > max {
		return invalid(name, "soc_min %v greater than soc_max %v", min, max)
	}
	return nil
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
