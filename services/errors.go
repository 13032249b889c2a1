package services

import "errors"

// Error taxonomy shared by all services. Handlers map these onto HTTP codes
// and the uniform {"status":"fail","message":...} payload.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("account with this email already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidRatingValue = errors.New("rating value must be between 1 and 5")
	ErrDuplicateRating    = errors.New("you have already rated this store, use update instead")
	ErrRatingNotFound     = errors.New("no existing rating found for this store by this user")
	ErrTokenNotFound      = errors.New("refresh token not found")
	ErrNoShopsFound       = errors.New("no shops found")
)
