package model

import "errors"

// ErrInvalidMandate is returned by Mandate.Validate.
var ErrInvalidMandate = errors.New("invalid mandate")
