// Package server runs pimbridge's HTTP listener.
//
// It owns the listener lifecycle: startup, shutdown on context cancellation
// and graceful draining of in-flight record requests.
package server
