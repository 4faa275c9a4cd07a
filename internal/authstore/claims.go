package authstore

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var errMissingExp = errors.New("token has no exp claim")

// tokenExpiry decodes the claims segment of a bearer token without verifying
// its signature (the remote API is the issuer; the portal only needs the
// expiry) and returns the embedded exp instant. Any decode failure is an
// error; callers collapse that to "expired" at the boundary.
func tokenExpiry(token string) (time.Time, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("decode token: %w", err)
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, errMissingExp
	}
	return exp.Time, nil
}
