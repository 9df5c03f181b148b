package service

import "errors"

var (
	ErrNoDeviceLink       = errors.New("no device link configured")
	ErrNoBackend          = errors.New("no backend configured")
	ErrNoIdentityStore    = errors.New("no identity store available")
	ErrDeviceNotConnected = errors.New("device link is not connected")

	ErrConduitExists   = errors.New("conduit is already registered")
	ErrConduitNotFound = errors.New("conduit is not registered")

	ErrProfileLocked  = errors.New("profile is being synced by another process")
	ErrSyncInProgress = errors.New("a sync is already in progress")
)
