package progress

import "errors"

var (
	ErrInvalidFormat = errors.New("invalid progress format")
	ErrUnknownModule = errors.New("unknown module")
)
