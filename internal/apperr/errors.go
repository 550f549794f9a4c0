package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrNoSourceDirs = errors.New("no source directories found")
)
