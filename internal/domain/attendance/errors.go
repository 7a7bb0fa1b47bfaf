package attendance

import "errors"

// Attendance domain errors
var (
	ErrEventNotFound = errors.New("attendance record not found")
	ErrNotOwner      = errors.New("unauthorized to access this attendance record")
	ErrInvalidKind   = errors.New("kind must be one of: check_in, check_out")
)
