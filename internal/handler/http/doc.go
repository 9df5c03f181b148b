// Package http implements pimbridge, the HTTP face of a device link.
//
// It exposes a [device.Link] as a small REST API (see routes.go) so that a
// sync engine on another host can reach the handheld through
// adapter.HTTPDeviceLink. Request tracing, access logging and response
// compression are handled by middleware before requests reach the link.
package http
