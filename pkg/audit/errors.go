package audit

import "errors"

var (
	ErrEntryValidation     = errors.New("audit entry validation failed")
	ErrStorageNotAvailable = errors.New("audit storage not available")
)
