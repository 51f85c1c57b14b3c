package checkin

import (
	"time"

	"eventcheckin/internal/clock"
	"eventcheckin/internal/models"
)

// Attempt is a single check-in submission as it arrived on the wire.
type Attempt struct {
	EventID            string
	Method             models.CheckInMethod
	AttendeeIdentifier string
	QRData             string
	VerificationDigits string
}

// State is everything the validator needs to know about the world. The
// caller gathers it (event lookup, directory lookup, ledger reads) so the
// decision itself never blocks.
type State struct {
	Event            *models.Event
	Attendee         *models.Attendee
	AlreadyCheckedIn bool
	CheckedInCount   int
}

type Validator struct {
	clock clock.Clock
	qrTTL time.Duration
}

type ValidatorOption func(*Validator)

// WithQRTTL overrides how old a QR token may be before it is rejected.
func WithQRTTL(d time.Duration) ValidatorOption {
	return func(v *Validator) {
		if d > 0 {
			v.qrTTL = d
		}
	}
}

func NewValidator(clk clock.Clock, opts ...ValidatorOption) *Validator {
	v := &Validator{
		clock: clk,
		qrTTL: DefaultQRTTL,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Decide accepts or rejects a check-in attempt. First match wins:
// inactive event, unknown attendee, duplicate, capacity, then the
// method-specific verification. A nil return means accept; it has no side
// effects, writing the record is the ledger's job.
func (v *Validator) Decide(a Attempt, st State) error {
	if st.Event == nil || st.Event.Status != models.EventActive {
		return ErrEventNotActive
	}

	// A malformed QR cannot identify anyone, so it fails before the
	// directory steps.
	var payload QRPayload
	if a.Method == models.MethodQR {
		var err error
		payload, err = DecodeQR(a.QRData)
		if err != nil {
			return err
		}
	}

	if st.Attendee == nil {
		return ErrAttendeeNotFound
	}

	if st.AlreadyCheckedIn {
		return ErrAlreadyCheckedIn
	}

	// max_capacity = 0 means capacity is undefined for the event, not that
	// it admits nobody.
	if st.Event.MaxCapacity > 0 && st.CheckedInCount >= st.Event.MaxCapacity {
		return ErrCapacityExceeded
	}

	switch a.Method {
	case models.MethodCPF:
		return v.verifyCPF(a, st)
	case models.MethodQR:
		return v.verifyQR(a, st, payload)
	default:
		return ErrVerificationFailed
	}
}

func (v *Validator) verifyCPF(a Attempt, st State) error {
	cpf, ok := NormalizeCPF(a.AttendeeIdentifier)
	if !ok {
		return ErrVerificationFailed
	}

	if !validDigits(a.VerificationDigits, 3) {
		return ErrVerificationFailed
	}

	if st.Attendee.CPF != cpf || a.VerificationDigits != cpf[:3] {
		return ErrVerificationFailed
	}

	return nil
}

func (v *Validator) verifyQR(a Attempt, st State, payload QRPayload) error {
	if payload.EventID != a.EventID {
		return ErrEventMismatch
	}

	if payload.IssuedAt.Before(v.clock.Now().Add(-v.qrTTL)) {
		return ErrTokenExpired
	}

	// Tokens with no CPF on file skip the digit step entirely.
	if st.Attendee.CPF == "" {
		return nil
	}

	if a.VerificationDigits == "" {
		return nil
	}

	if !validDigits(a.VerificationDigits, 3) || a.VerificationDigits != st.Attendee.CPF[:3] {
		return ErrVerificationFailed
	}

	return nil
}

// Identifier resolves the directory lookup key for an attempt: the
// normalized CPF for the cpf method, the embedded token for qr. The second
// return is false when no identifier can be derived.
func Identifier(a Attempt) (string, bool) {
	switch a.Method {
	case models.MethodCPF:
		return NormalizeCPF(a.AttendeeIdentifier)
	case models.MethodQR:
		payload, err := DecodeQR(a.QRData)
		if err != nil {
			return "", false
		}
		return payload.Token, true
	default:
		return "", false
	}
}
