package sthreads

import "sync/atomic"

// TaskState is the lifecycle state of a task record, per spec.md §3.
type TaskState uint32

const (
	// StateReady means the task is linked into the ready queue exactly once.
	StateReady TaskState = iota
	// StateRunning means the task is the scheduler's current task. At most
	// one task holds this state at any instant.
	StateRunning
	// StateWaiting means the task is linked into the blocked queue, parked
	// on a join target or a cooperative mutex.
	StateWaiting
	// StateTerminated means the task has called Done or fallen off the end
	// of its entry function; it is in neither queue.
	StateTerminated
)

// String returns a human-readable representation of the state.
func (s TaskState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateWaiting:
		return "waiting"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// RuntimeState is the lifecycle of the Runtime singleton itself.
type RuntimeState uint32

const (
	// RuntimeUninitialized is the zero value; Init has not succeeded yet.
	RuntimeUninitialized RuntimeState = iota
	// RuntimeRunning means Init has succeeded and the runtime accepts calls.
	RuntimeRunning
	// RuntimeClosed means Deinit has completed; further Spawn calls are
	// rejected.
	RuntimeClosed
)

func (s RuntimeState) String() string {
	switch s {
	case RuntimeUninitialized:
		return "uninitialized"
	case RuntimeRunning:
		return "running"
	case RuntimeClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// atomicTaskState is a lock-free holder for a TaskState, read by both the
// owning task's goroutine and the scheduler.
type atomicTaskState struct {
	v atomic.Uint32
}

func newAtomicTaskState(initial TaskState) *atomicTaskState {
	s := &atomicTaskState{}
	s.v.Store(uint32(initial))
	return s
}

func (s *atomicTaskState) Load() TaskState {
	return TaskState(s.v.Load())
}

func (s *atomicTaskState) Store(state TaskState) {
	s.v.Store(uint32(state))
}

func (s *atomicTaskState) CompareAndSwap(from, to TaskState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}
