package sthreads

import "time"

// task is one cooperatively-scheduled unit of work.
//
// A task's context (in the platform-primitive sense of saved registers and a
// stack) is represented here as a goroutine plus one baton channel: resume
// wakes the task's goroutine and hands it control; Done/Yield/Join hand
// control back by calling the scheduler's dispatch step under Runtime.mu.
type task struct {
	id    uint64
	entry func()

	state *atomicTaskState

	// joinTarget is the id this task is waiting on. Meaningful only while
	// state.Load() == StateWaiting and waitKind == waitJoin.
	joinTarget uint64

	// waitKind distinguishes a join-wait from a mutex-wait; both park the
	// task in the blocked queue under StateWaiting.
	waitKind waitKind

	// mu is the Mutex this task is waiting to acquire, set only when
	// waitKind == waitMutex.
	mu *Mutex

	// link is the intrusive forward pointer used exclusively by queue.
	link *task

	// resume is sent to exactly once per dispatch, waking the task's
	// goroutine and handing it the baton.
	resume chan struct{}

	// preempted records that the scheduler reclaimed this task via a
	// slice-deadline handoff rather than a cooperative call. Diagnostic
	// only; see SPEC_FULL.md §0.
	preempted bool

	// gen counts dispatches of this task, letting a slice timer confirm it
	// still refers to the run it was armed for before acting on it.
	gen int

	// sliceTimer is the preemption timer armed for this task's current
	// run; stopped as soon as the task relinquishes control cooperatively.
	sliceTimer *time.Timer

	createdAt time.Time
}

type waitKind uint8

const (
	waitNone waitKind = iota
	waitJoin
	waitMutex
)

func newTask(id uint64, entry func()) *task {
	return &task{
		id:        id,
		entry:     entry,
		state:     newAtomicTaskState(StateReady),
		resume:    make(chan struct{}, 1),
		createdAt: time.Now(),
	}
}
