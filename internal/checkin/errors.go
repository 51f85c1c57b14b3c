package checkin

import "errors"

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventNotActive     = errors.New("event is not active")
	ErrAttendeeNotFound   = errors.New("attendee not found")
	ErrAlreadyCheckedIn   = errors.New("attendee already checked in")
	ErrCapacityExceeded   = errors.New("event capacity exceeded")
	ErrVerificationFailed = errors.New("verification failed")
	ErrEventMismatch      = errors.New("token issued for another event")
	ErrTokenExpired       = errors.New("token expired")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

const (
	CodeEventNotFound      = "event_not_found"
	CodeEventNotActive     = "event_not_active"
	CodeAttendeeNotFound   = "attendee_not_found"
	CodeAlreadyCheckedIn   = "already_checked_in"
	CodeCapacityExceeded   = "capacity_exceeded"
	CodeVerificationFailed = "verification_failed"
	CodeEventMismatch      = "event_mismatch"
	CodeTokenExpired       = "token_expired"
	CodeStorageUnavailable = "storage_unavailable"
	CodeUnknown            = "unknown"
)

// Code maps an error to its stable machine-readable kind for the wire.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrEventNotFound):
		return CodeEventNotFound
	case errors.Is(err, ErrEventNotActive):
		return CodeEventNotActive
	case errors.Is(err, ErrAttendeeNotFound):
		return CodeAttendeeNotFound
	case errors.Is(err, ErrAlreadyCheckedIn):
		return CodeAlreadyCheckedIn
	case errors.Is(err, ErrCapacityExceeded):
		return CodeCapacityExceeded
	case errors.Is(err, ErrVerificationFailed):
		return CodeVerificationFailed
	case errors.Is(err, ErrEventMismatch):
		return CodeEventMismatch
	case errors.Is(err, ErrTokenExpired):
		return CodeTokenExpired
	case errors.Is(err, ErrStorageUnavailable):
		return CodeStorageUnavailable
	default:
		return CodeUnknown
	}
}

// Retryable reports whether the caller may retry the same submission.
// Rejections are terminal; only storage failures are worth retrying.
func Retryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
