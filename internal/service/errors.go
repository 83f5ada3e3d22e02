package service

import "errors"

// Service-level errors. Handlers map these to HTTP responses; store errors
// never leak past this package.
var (
	ErrDuplicateEmail     = errors.New("admin already exists with this email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrTokenInvalid       = errors.New("token is not valid")
	ErrTokenExpired       = errors.New("token has expired")
)
