package domain

import "errors"

// Sentinel errors for business-rule failures. The handler layer switches
// on these to pick HTTP status codes; everything else is a 500.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrTopicNotFound = errors.New("topic not found")

	ErrProblemNotFound   = errors.New("problem not found")
	ErrInvalidDifficulty = errors.New("invalid difficulty level")

	ErrInternalServer = errors.New("internal server error")
)
