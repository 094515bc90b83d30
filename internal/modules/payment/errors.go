package payment

import "errors"

var (
	ErrNotFound   = errors.New("booking not found")
	ErrForbidden  = errors.New("only the booking client can pay")
	ErrNotPayable = errors.New("booking is not payable")
)
