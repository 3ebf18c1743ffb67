package core

import (
	"errors"
	"fmt"
)

// ErrUnverified is returned by the generator when verification is required and
// no candidate level could be solved within the attempt limit.
var ErrUnverified = errors.New("no solvable level found within attempt limit")

// IllegalMoveError reports a pour that violates CanPour.
// It is recoverable: callers reject the gesture and keep the previous state.
type IllegalMoveError struct {
	From   int
	To     int
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %d->%d: %s", e.From, e.To, e.Reason)
}

// InvalidTierError reports generation parameters that cannot produce a level.
type InvalidTierError struct {
	LevelID int
	Tier    Tier
	Reason  string
}

func (e *InvalidTierError) Error() string {
	return fmt.Sprintf("invalid tier for level %d (colors=%d bottles=%d empty=%d): %s",
		e.LevelID, e.Tier.NumColors, e.Tier.NumBottles, e.Tier.NumEmpty, e.Reason)
}

// ValidationError contains details about an invariant violation.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validation error codes.
const (
	CodeBadCapacity      = "BAD_CAPACITY"
	CodeCapacityExceeded = "CAPACITY_EXCEEDED"
	CodeUnknownColor     = "UNKNOWN_COLOR"
	CodeUnitCount        = "UNIT_COUNT"
	CodeNoBottles        = "NO_BOTTLES"
)

// Reasons carried by IllegalMoveError.
const (
	ReasonSameBottle  = "source and destination are the same bottle"
	ReasonOutOfRange  = "bottle index out of range"
	ReasonSourceEmpty = "source bottle is empty"
	ReasonDestFull    = "destination bottle is full"
	ReasonColorClash  = "top colors differ"
)
