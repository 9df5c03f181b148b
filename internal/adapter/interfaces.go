// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter connects the sync engine to a device served by pimbridge.
//
// [HTTPDeviceLink] implements [device.Link] over the bridge's REST API, plus
// [device.KeepAliver] (periodic /api/ping calls that are paused while a sync
// runs) and [device.Finalizer]. Bridge error bodies are mapped back to the
// sentinel errors of package device by mapHTTPError, so callers can keep
// using [errors.Is] regardless of transport.
package adapter

import "github.com/MKhiriev/go-pim-sync/internal/device"

var (
	_ device.Link       = (*HTTPDeviceLink)(nil)
	_ device.KeepAliver = (*HTTPDeviceLink)(nil)
	_ device.Finalizer  = (*HTTPDeviceLink)(nil)
)
