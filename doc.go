// Package sthreads implements a user-space cooperative threading runtime
// that multiplexes N user-defined tasks onto goroutines coordinated by a
// single scheduler, exposing spawn/yield/done/join primitives and a binary
// mutex.
//
// # Architecture
//
// A [Runtime] owns two FIFO queues (ready and join-blocked), a notion of
// the currently executing task, and a slice timer driving periodic
// preemption. Each task runs on its own goroutine; control is handed
// between a task and the scheduler with a per-task "baton" channel, which
// plays the role the original specification's machine-context swap plays
// in a register-based implementation. See [Runtime.Spawn], [Runtime.Yield],
// [Runtime.Done], and [Runtime.Join].
//
// # Preemption
//
// A task slice is bounded by a [time.AfterFunc] timer (default 15ms). When
// it fires while a task is still current, the scheduler dispatches the next
// ready task immediately and stops counting the overrunning one as current.
// The timer does not put the overrunning task back on the ready queue; that
// task discovers the handoff the next time it calls into the runtime, and a
// Yield at that point is what requeues it. Go
// provides no portable way to suspend another goroutine synchronously, so
// this is a deliberate, documented departure from the original's
// signal-driven context switch — see SPEC_FULL.md §0.
//
// # Usage
//
//	rt, err := sthreads.Init()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rt.Spawn(func() {
//	    fmt.Println("hello from a task")
//	})
//	rt.Deinit()
package sthreads
