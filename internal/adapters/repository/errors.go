package repository

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrNotFound    = errors.New("package not found")
	ErrLoadCatalog = errors.New("load catalog failed")
)
