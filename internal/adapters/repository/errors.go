package repository

import "errors"

// Sentinel kinds for gateway errors.
var (
	ErrNotFound     = errors.New("record not found")
	ErrPersistence  = errors.New("persistence failure")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
