package control

import "errors"

// Sentinel errors returned by the control surface.
var (
	// ErrMissingToken indicates the request carried no bearer token.
	ErrMissingToken = errors.New("control: missing bearer token")

	// ErrInvalidToken indicates the bearer token failed validation.
	ErrInvalidToken = errors.New("control: invalid bearer token")
)
