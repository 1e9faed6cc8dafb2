// Package jobs queues vocoder renders onto a bounded worker pool.
//
// Rendering is CPU-bound and offline, so the pool defaults to a single
// worker and rejects rather than buffers unbounded work: Submit returns
// ErrQueueFull when the queue is at capacity, leaving backpressure to
// the caller.
package jobs
