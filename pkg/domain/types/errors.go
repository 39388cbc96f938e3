package types

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidOption      = goerr.New("invalid option")
	ErrValidationFailed   = goerr.New("validation failed")
	ErrAuthentication     = goerr.New("authentication failed")
	ErrServiceUnavailable = goerr.New("service unavailable")
)
