package worker

import "errors"

// Sentinel errors returned by Pool.
var (
	ErrPoolClosed   = errors.New("worker pool closed")
	ErrPoolStarted  = errors.New("worker pool already started")
	ErrBackpressure = errors.New("worker pool queue full")
)
