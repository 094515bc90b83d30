package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("booking not found")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrNotPhotographer         = errors.New("user is not a photographer")
	ErrAlreadyAssigned         = errors.New("booking already has an accepted photographer")
	ErrNotAssigned             = errors.New("booking is not assigned to this photographer")
)
