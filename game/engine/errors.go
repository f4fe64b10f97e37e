package engine

import "errors"

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrInvalidSettings = errors.New("invalid settings")
)
