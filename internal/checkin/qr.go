package checkin

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
)

const qrPayloadType = "event_checkin"

// DefaultQRTTL bounds how old a QR token may be before it is rejected.
const DefaultQRTTL = 24 * time.Hour

// QRPayload is the decoded QR code contents. Signing and encryption of the
// payload belong to the issuing collaborator; by the time it reaches this
// service it is plain JSON.
type QRPayload struct {
	Type     string    `json:"type"`
	EventID  string    `json:"event_id"`
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"timestamp"`
	Version  string    `json:"version"`
}

// DecodeQR parses a QR payload and checks its shape. The token inside it is
// the attendee identifier for directory lookups.
func DecodeQR(data string) (QRPayload, error) {
	var p QRPayload

	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return QRPayload{}, fmt.Errorf("decode qr payload: %w", ErrVerificationFailed)
	}

	if p.Type != qrPayloadType {
		return QRPayload{}, fmt.Errorf("unexpected qr payload type %q: %w", p.Type, ErrVerificationFailed)
	}

	if p.Token == "" {
		return QRPayload{}, fmt.Errorf("qr payload has no token: %w", ErrVerificationFailed)
	}

	return p, nil
}

// NormalizeCPF strips formatting from a CPF and checks it has exactly 11
// digits. It does not validate national-ID check digits.
func NormalizeCPF(s string) (string, bool) {
	var b strings.Builder

	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	cpf := b.String()
	if len(cpf) != 11 {
		return "", false
	}

	return cpf, true
}

func validDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}

	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}
