package repository

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrNothingToCancel  = errors.New("nothing to cancel")
	ErrVersionConflict  = errors.New("version conflict")
	ErrSerialization    = errors.New("serialization failure")
)
