package service

import "errors"

var (
	// ErrInvalidDimension is returned for an unsupported grouping or column.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrInvalidParameter is returned for an out-of-range numeric parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
)
