package loop

import "errors"

var (
	ErrQueueFull      = errors.New("command queue full")
	ErrFinished       = errors.New("session has ended")
	ErrUnknownCadence = errors.New("unknown cadence")
)
