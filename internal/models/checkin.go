package models

import "time"

type CheckInMethod string

const (
	MethodCPF CheckInMethod = "cpf"
	MethodQR  CheckInMethod = "qr"
)

// Attendee is a reference into the external attendee directory. CPF may be
// empty for QR tokens that carry no CPF association.
type Attendee struct {
	CPF         string `json:"cpf"`
	DisplayName string `json:"display_name"`
}

type CheckInRecord struct {
	ID                 string        `json:"id"`
	EventID            string        `json:"event_id"`
	AttendeeIdentifier string        `json:"attendee_identifier"`
	DisplayName        string        `json:"display_name"`
	Method             CheckInMethod `json:"method"`
	VerificationDigits string        `json:"verification_digits,omitempty"`
	Timestamp          time.Time     `json:"timestamp"`
}
