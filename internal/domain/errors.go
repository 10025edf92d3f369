package domain

import "errors"

// Auth errors. These are fatal to the call and surface as "must log in".
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Expected "not found" and conflict sentinels. The postgres layer
// translates driver-level errors into these so callers can turn them
// into domain outcomes instead of failures.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrMatchNotFound     = errors.New("match not found")
	ErrLikeAlreadyExists = errors.New("like already exists")
	ErrCannotLikeSelf    = errors.New("cannot like yourself")
	ErrEmailTaken        = errors.New("email already registered")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrInvalidGender     = errors.New("invalid gender")
)
