package auth

import (
	"time"
)

// NewTestJWTService creates a JWT service with an injectable time
// function for predictable expiry testing. Test-only constructor.
func NewTestJWTService(
	secret string,
	tokenLifetime time.Duration,
	timeFunc func() time.Time,
) JWTService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacJWTService{
		signingKey:           []byte(secret),
		tokenLifetime:        tokenLifetime,
		refreshTokenLifetime: tokenLifetime * 24,
		timeFunc:             timeFunc,
		clockSkew:            0,
	}
}
