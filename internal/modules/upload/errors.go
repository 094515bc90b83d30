package upload

import "errors"

var (
	ErrNotFound      = errors.New("booking not found")
	ErrForbidden     = errors.New("not allowed to access these deliverables")
	ErrNotUploader   = errors.New("only the assigned photographer can upload")
	ErrInvalidFormat = errors.New("unsupported file format")
	ErrTooLarge      = errors.New("file exceeds size limit")
)
