// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that runs
// several workers under one context and stops them all when one fails.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is cancelled or the worker fails. Returning nil
// after cancellation is a clean stop.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// Trigger requests a sync as soon as possible. Calls never block.
type Trigger interface {
	Trigger()
}

// TriggerFunc adapts a function to Trigger.
type TriggerFunc func()

func (f TriggerFunc) Trigger() { f() }
