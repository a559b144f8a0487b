package service

import "errors"

// ErrValidation marks malformed input rejected before any store call.
// Not retryable; handlers surface it as a 400 with the wrapped detail.
var ErrValidation = errors.New("invalid input")
