package authjwt

import "errors"

var (
	// ErrInvalidToken covers malformed tokens and issuer or audience mismatches.
	ErrInvalidToken = errors.New("invalid token")

	ErrExpiredToken = errors.New("token has expired")

	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrInvalidSubject means the sub claim is not a user uuid.
	ErrInvalidSubject = errors.New("token subject is not a user id")
)
