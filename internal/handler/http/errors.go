// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Request validation errors. All of them map to 400 Bad Request.
var (
	ErrInvalidHandleParam  = errors.New("invalid collection handle in path")
	ErrInvalidQuery        = errors.New("invalid query parameter")
	ErrInvalidRecordID     = errors.New("invalid record id in path")
	ErrInvalidBody         = errors.New("invalid request body")
	ErrUnknownFinalizeStep = errors.New("unknown finalize step")

	// ErrFinalizeUnsupported is returned when the served link has no
	// end-of-sync cleanup.
	ErrFinalizeUnsupported = errors.New("device link does not support finalize")
)
