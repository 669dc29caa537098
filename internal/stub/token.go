package stub

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds carried in approval deep links.
const (
	KindRegister = "register"
	KindForget   = "forget"
)

// Claims is the approval deep-link payload. Besides the request reference it
// carries the display snapshot the landing pages render before their
// authoritative fetch resolves.
type Claims struct {
	RequestID string `json:"rid"`
	Kind      string `json:"kind"`

	EmployeeName string `json:"employeeName,omitempty"`
	Date         string `json:"date,omitempty"`
	CurrentTime  string `json:"currentTime,omitempty"`
	Time         string `json:"time,omitempty"`
	Type         string `json:"type,omitempty"`
	Reason       string `json:"reason,omitempty"`

	Name      string `json:"name,omitempty"`
	IDCard    string `json:"IDCard,omitempty"`
	StartDate string `json:"start_date,omitempty"`

	jwt.RegisteredClaims
}

func MintToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
