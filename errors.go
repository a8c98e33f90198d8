// Package sthreads error kinds, per spec.md §7.
package sthreads

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Use [errors.Is] to test for a specific kind through
// any wrapping a constructor below applies.
var (
	// ErrOutOfMemory is returned when a task record or its stack (a
	// goroutine here, with no explicit allocation call) cannot be
	// constructed.
	ErrOutOfMemory = errors.New("sthreads: out of memory")
	// ErrContextFailure is returned when the context facility refuses to
	// construct or swap a task's execution context.
	ErrContextFailure = errors.New("sthreads: context failure")
	// ErrTimerFailure is returned when arming the preemption timer fails.
	ErrTimerFailure = errors.New("sthreads: timer failure")
	// ErrNullArgument is returned by mutex operations given a nil reference.
	ErrNullArgument = errors.New("sthreads: null argument")
	// ErrSemaphoreFailure is returned when the platform lock primitive
	// backing OSMutex fails.
	ErrSemaphoreFailure = errors.New("sthreads: semaphore failure")
	// ErrRuntimeNotInitialized is returned by Spawn on a Runtime that Init
	// did not construct.
	ErrRuntimeNotInitialized = errors.New("sthreads: runtime not initialized")
	// ErrRuntimeClosed is returned by Spawn when called after Deinit.
	ErrRuntimeClosed = errors.New("sthreads: runtime closed")
	// ErrInvalidOption is returned by an Option whose value is out of range.
	ErrInvalidOption = errors.New("sthreads: invalid option")
)

// WrapError wraps an error with a message and a cause chain, so that
// errors.Is(result, cause) holds.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
