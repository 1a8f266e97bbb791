// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// ErrMissingConfig indicates required configuration is absent.
	ErrMissingConfig = errors.New("missing configuration")
	// ErrInvalidConfig indicates configuration is present but unusable.
	ErrInvalidConfig = errors.New("invalid configuration")
)
