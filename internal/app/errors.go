package service

import "errors"

// Sentinel errors returned by Service.
var (
	ErrInvalidLimit  = errors.New("invalid limit")
	ErrBatchTooLarge = errors.New("batch too large")
	ErrNotStarted    = errors.New("service not started")
)
