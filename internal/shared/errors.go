// Package shared holds sentinel errors used across the server services and
// HTTP layer.
package shared

import "errors"

var (

	// common errors
	ErrorNotFound = errors.New("not found")
	ErrorInternal = errors.New("internal error")

	// auth-specific errors
	ErrorInvalidToken            = errors.New("invalid token")
	ErrorInvalidAuthHeaderFormat = errors.New("invalid auth header format")
	ErrorUnauthorized            = errors.New("unauthorized")

	ErrorLoginAlreadyExists    = errors.New("login already exists")
	ErrorInvalidLoginFormat    = errors.New("invalid login format")
	ErrorInvalidPasswordFormat = errors.New("invalid password format")
	ErrorInvalidLoginPassword  = errors.New("invalid login/password")

	// sync-specific errors
	ErrorUnknownEntity = errors.New("unknown entity")
	ErrorInvalidOp     = errors.New("invalid operation")
)
