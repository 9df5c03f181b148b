package device

import "errors"

var (
	// ErrNotConnected is returned by record operations on a disconnected link.
	ErrNotConnected = errors.New("device is not connected")
	// ErrCollectionNotFound is returned when opening an unknown collection.
	ErrCollectionNotFound = errors.New("collection not found on device")
	// ErrInvalidHandle is returned for handles that are not open.
	ErrInvalidHandle = errors.New("invalid collection handle")
	// ErrReadOnly is returned when writing through a read-only handle.
	ErrReadOnly = errors.New("collection opened read-only")
	// ErrRecordNotFound is returned when deleting an unknown record.
	ErrRecordNotFound = errors.New("record not found on device")
)
