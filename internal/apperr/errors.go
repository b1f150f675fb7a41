package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrAmbiguousKey = errors.New("ambiguous key")
	ErrDuplicateKey = errors.New("duplicate key")
)
