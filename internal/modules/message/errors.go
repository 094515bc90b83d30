package message

import "errors"

var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("booking not found")
	ErrForbidden      = errors.New("not a participant of this conversation")
	ErrNoPhotographer = errors.New("no photographer assigned yet")
)
