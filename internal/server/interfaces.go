package server

import "context"

// Server defines the lifecycle of a transport server.
type Server interface {
	// Run serves requests until ctx is cancelled, then shuts down gracefully.
	// It returns the first listener error other than a normal close.
	Run(ctx context.Context) error

	// Shutdown stops accepting connections and waits for active requests.
	Shutdown(ctx context.Context) error
}
