package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned when a token cannot be decoded far enough to read
// its claims. Callers treat it as "expired", not as a failure to propagate.
var ErrMalformed = errors.New("malformed token")

var parser = jwt.NewParser()

// Expired reports whether tok's exp claim is at or before now. Decode
// failures return expired=true together with a non-nil error for diagnostics.
// A decodable token without an exp claim is not expired.
func Expired(tok string, now time.Time) (bool, error) {
	exp, ok, err := expiresAt(tok)
	if err != nil {
		return true, err
	}
	if !ok {
		return false, nil
	}
	return !exp.After(now), nil
}

// ExpiresAt returns the exp claim of tok. ok is false when the token carries
// no exp claim; err is non-nil when the token cannot be decoded at all.
func ExpiresAt(tok string) (time.Time, bool, error) {
	return expiresAt(tok)
}

func expiresAt(tok string) (time.Time, bool, error) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if exp == nil {
		return time.Time{}, false, nil
	}
	return exp.Time, true, nil
}
