package client

import "errors"

var (
	// ErrSyncFailed is returned by a one-shot run whose sync did not succeed.
	ErrSyncFailed = errors.New("sync failed")
	// ErrUnknownBackend is returned for a backend kind the app cannot build.
	ErrUnknownBackend = errors.New("unknown backend kind")
)
