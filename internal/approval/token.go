// Package approval handles the tokens embedded in approval deep links.
//
// The client never verifies token signatures; everything decoded here is an
// untrusted display hint used to pre-populate the review page while the
// authoritative record is fetched. Authorization decisions stay on the
// backend.
package approval

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenInvalid = errors.New("approval token is not decodable")

// Hint is the denormalized request snapshot carried inside an approval link
// token. It must never be treated as proof of anything; the page reconciles
// it against the backend's authoritative record, preferring the live fields.
type Hint struct {
	// Forget-time request snapshot.
	EmployeeName string `json:"employeeName,omitempty"`
	Date         string `json:"date,omitempty"`
	CurrentTime  string `json:"currentTime,omitempty"`
	Time         string `json:"time,omitempty"`
	Type         string `json:"type,omitempty"`
	Reason       string `json:"reason,omitempty"`

	// Registration request snapshot.
	Name      string `json:"name,omitempty"`
	IDCard    string `json:"IDCard,omitempty"`
	StartDate string `json:"start_date,omitempty"`

	jwt.RegisteredClaims
}

// DecodeHint extracts the claims segment of a JWT-shaped token without
// verifying its signature.
func DecodeHint(token string) (*Hint, error) {
	hint := &Hint{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, hint); err != nil {
		return nil, errors.Join(ErrTokenInvalid, err)
	}
	return hint, nil
}

// Expired reports whether the hint carries an exp claim that has passed.
// Tokens without exp never expire client-side; the backend still enforces
// its own validity window.
func (h *Hint) Expired(now time.Time) bool {
	if h == nil || h.ExpiresAt == nil {
		return false
	}
	return !h.ExpiresAt.After(now)
}
