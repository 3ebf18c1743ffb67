package core

import "fmt"

// ValidateState checks the structural invariants every reachable state keeps:
// positive capacity, no bottle over capacity and only palette colours.
func ValidateState(l Level) error {
	if l.Capacity < 1 {
		return ValidationError{Code: CodeBadCapacity, Message: fmt.Sprintf("capacity %d must be at least 1", l.Capacity)}
	}
	if len(l.Bottles) == 0 {
		return ValidationError{Code: CodeNoBottles, Message: "level has no bottles"}
	}
	for i, b := range l.Bottles {
		if len(b) > l.Capacity {
			return ValidationError{
				Code:    CodeCapacityExceeded,
				Message: fmt.Sprintf("bottle %d holds %d units, capacity is %d", i, len(b), l.Capacity),
			}
		}
		for j, c := range b {
			if !c.Valid() {
				return ValidationError{
					Code:    CodeUnknownColor,
					Message: fmt.Sprintf("bottle %d unit %d has unknown color %d", i, j, c),
				}
			}
		}
	}
	return nil
}

// ValidateLevel checks a starting layout. On top of ValidateState every colour
// must appear a multiple of capacity times so a terminal state exists.
func ValidateLevel(l Level) error {
	if err := ValidateState(l); err != nil {
		return err
	}
	for c, n := range l.CountByColor() {
		if n%l.Capacity != 0 {
			return ValidationError{
				Code:    CodeUnitCount,
				Message: fmt.Sprintf("color %s has %d units, not a multiple of capacity %d", c, n, l.Capacity),
			}
		}
	}
	return nil
}
