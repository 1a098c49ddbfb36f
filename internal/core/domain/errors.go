package domain

import "errors"

var (
	// ErrSourceNotFound is returned in strict mode when a source id does
	// not resolve against the registry.
	ErrSourceNotFound = errors.New("source not found in registry")
)
