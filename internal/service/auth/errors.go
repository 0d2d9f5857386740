package auth

import (
	"errors"
	"fmt"
)

// Common authentication service errors.
var (
	// ErrAuthenticationFailed indicates the supplied credentials were wrong.
	// It deliberately does not distinguish an unknown email from a bad
	// password.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidToken indicates the token format is invalid or signature doesn't match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the access token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future).
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidRefreshToken indicates the refresh token format is invalid
	// or its signature doesn't match.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken indicates the refresh token has expired.
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrWrongTokenType indicates a token was presented in the wrong
	// context, e.g. a refresh token used as an access token.
	ErrWrongTokenType = errors.New("wrong token type")

	// Blacklist rejections unwrap to the respective invalid-token error so
	// callers mapping errors to status codes need no extra cases.

	// ErrTokenRevoked indicates the access token was blacklisted by logout.
	ErrTokenRevoked = fmt.Errorf("%w: token revoked", ErrInvalidToken)

	// ErrRefreshTokenRevoked indicates the refresh token was blacklisted.
	ErrRefreshTokenRevoked = fmt.Errorf("%w: token revoked", ErrInvalidRefreshToken)
)
