package sthreads

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats is a snapshot of scheduler activity, filling the diagnostic summary
// spec.md §6 asks deinit to print ("total of %d threads created").
type Stats struct {
	Created       uint64
	Terminated    uint64
	Preempted     uint64
	LeakedBlocked int
}

// Runtime is a process-wide threading runtime: the scheduler, its two
// queues, and the public spawn/yield/done/join surface.
//
// A zero-value Runtime is not usable; construct one with [Init].
type Runtime struct {
	state atomic.Uint32 // RuntimeState

	mu       sync.Mutex
	idleCond *sync.Cond
	extCond  *sync.Cond

	readyQ      taskQueue
	blockedQ    taskQueue
	current     *task
	// currentDangling is true when current voluntarily yielded and is
	// parked on its own resume channel, rather than genuinely still
	// executing. Only a dangling current is safe for the next dispatch to
	// bump back onto the ready queue; see dispatchLocked and Yield.
	currentDangling bool
	pendingFree     *task
	nextID          uint64

	byGoroutine sync.Map // uint64 goroutine id -> *task

	slice  time.Duration
	logger Logger
	stats  Stats
}

// Init constructs and starts a Runtime. It corresponds to spec.md §4.6's
// init: building the scheduler and capturing the caller's context is
// modeled here by simply returning a ready-to-use value, since Go needs no
// explicit context object for the calling goroutine.
func Init(opts ...Option) (*Runtime, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, WrapError("init", err)
	}
	r := &Runtime{
		slice:  cfg.slice,
		logger: cfg.logger,
	}
	r.idleCond = sync.NewCond(&r.mu)
	r.extCond = sync.NewCond(&r.mu)
	r.state.Store(uint32(RuntimeRunning))
	return r, nil
}

func (r *Runtime) checkRunning() error {
	switch RuntimeState(r.state.Load()) {
	case RuntimeUninitialized:
		return ErrRuntimeNotInitialized
	case RuntimeClosed:
		return ErrRuntimeClosed
	}
	return nil
}

// selfTask resolves the task owning the calling goroutine, using the same
// goroutine-id lookup idiom the teacher's event loop uses to recognize its
// own loop goroutine (see loop.go's isLoopThread/getGoroutineID). Returns
// nil if called from a goroutine that is not a scheduled task.
func (r *Runtime) selfTask() *task {
	v, ok := r.byGoroutine.Load(getGoroutineID())
	if !ok {
		return nil
	}
	return v.(*task)
}

// Spawn creates a task running entry, pushes it to the ready queue, and
// blocks until the ready queue fully drains (spec.md §4.6: spawn swaps to
// the scheduler, giving the runtime a chance to run the new task, and any
// others, before the caller proceeds). Open Question (2): the spawned task
// may run to completion before Spawn returns its id.
func (r *Runtime) Spawn(entry func()) (uint64, error) {
	if entry == nil {
		return 0, ErrNullArgument
	}
	if err := r.checkRunning(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	t := newTask(id, entry)
	r.stats.Created++
	r.logTask(eventCreate, t)
	r.readyQ.push(t)
	go r.launch(t)
	r.dispatchLocked()
	r.waitIdleLocked()
	r.mu.Unlock()

	return id, nil
}

// launch runs on a task's dedicated goroutine: it registers the task under
// this goroutine's real id before anything can dispatch it, waits for its
// first dispatch, then runs entry. A deferred call to Done covers the
// "falls through to the scheduler" case from spec.md §3 for tasks that
// return without calling Done themselves.
func (r *Runtime) launch(t *task) {
	r.byGoroutine.Store(getGoroutineID(), t)
	<-t.resume
	defer func() {
		if t.state.Load() != StateTerminated {
			r.Done()
		}
	}()
	t.entry()
}

// Yield gives up the remainder of the calling task's slice. In the common
// case the task is still current when it calls Yield, and is left that way:
// dispatchLocked's own bookkeeping requeues it once another task is
// selected, matching spec.md §4.6's description of how the scheduler's pop
// step discovers a yielded task. If the task was preempted earlier and is
// calling in from limbo (see onSlice), current no longer points at it, so it
// must rejoin the ready queue itself before asking for a dispatch.
func (r *Runtime) Yield() {
	t := r.selfTask()
	if t == nil {
		return
	}
	r.mu.Lock()
	if t.sliceTimer != nil {
		t.sliceTimer.Stop()
	}
	if r.current == t {
		r.currentDangling = true
	} else {
		t.state.Store(StateReady)
		r.logTask(eventYield, t)
		r.readyQ.push(t)
	}
	r.dispatchLocked()
	r.mu.Unlock()

	<-t.resume
	t.state.Store(StateRunning)
}

// Done terminates the calling task: it is marked terminated, every task
// joined on its id is woken, and its record is handed to pendingFree for
// reclamation on the next dispatch (spec.md §4.3 step 1), mirroring the
// original's rule that a task cannot free its own stack. Unlike the
// original's done, which never returns, Done returns normally; callers
// should treat it as their last statement, since the runtime no longer
// tracks the task afterward.
func (r *Runtime) Done() {
	t := r.selfTask()
	if t == nil {
		return
	}
	r.mu.Lock()
	if t.sliceTimer != nil {
		t.sliceTimer.Stop()
	}
	t.state.Store(StateTerminated)
	r.stats.Terminated++
	r.logTask(eventTerminate, t)
	r.wakeJoinersLocked(t.id)
	r.pendingFree = t
	if r.current == t {
		r.current = nil
		r.currentDangling = false
	}
	r.byGoroutine.Delete(getGoroutineID())
	r.dispatchLocked()
	r.mu.Unlock()
}

// Join blocks the calling task until the task identified by target calls
// Done, then returns target. Joining an id that was never spawned blocks
// forever; spec.md §4.6 documents this as a sharp edge, not an error.
func (r *Runtime) Join(target uint64) uint64 {
	t := r.selfTask()
	if t == nil {
		return target
	}
	r.mu.Lock()
	if t.sliceTimer != nil {
		t.sliceTimer.Stop()
	}
	t.joinTarget = target
	t.waitKind = waitJoin
	t.state.Store(StateWaiting)
	r.logTask(eventBlock, t)
	r.blockedQ.push(t)
	if r.current == t {
		r.current = nil
		r.currentDangling = false
	}
	r.dispatchLocked()
	r.mu.Unlock()

	<-t.resume
	t.state.Store(StateRunning)
	t.waitKind = waitNone
	return target
}

// Deinit drains the scheduler to true completion, per spec.md §4.6, then
// reports a final summary. Open Question (1): tasks still parked in the
// blocked queue are intentionally leaked, not drained; their count is
// reported as LeakedBlocked rather than silently dropped.
func (r *Runtime) Deinit() Stats {
	r.mu.Lock()
	r.drainLocked()

	stats := r.stats
	stats.LeakedBlocked = r.blockedQ.len()
	r.state.Store(uint32(RuntimeClosed))
	r.mu.Unlock()

	r.logger.Info().
		Str("event", string(eventDeinit)).
		Uint64("created", stats.Created).
		Uint64("terminated", stats.Terminated).
		Uint64("preempted", stats.Preempted).
		Int("leaked_blocked", stats.LeakedBlocked).
		Log("deinit summary")

	return stats
}

// Tasks returns the number of tasks that are neither terminated nor freed:
// ready, running, or waiting.
func (r *Runtime) Tasks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.readyQ.len() + r.blockedQ.len()
	if r.current != nil {
		n++
	}
	return n
}

// Stats returns a snapshot of the scheduler's lifetime counters.
func (r *Runtime) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// dispatchLocked is the Go-native reading of spec.md §4.3's dispatch
// routine. Callers must hold r.mu. It advances the scheduler by exactly one
// step: if another task is genuinely still executing (current set, not
// dangling) it does nothing, trusting that task's own eventual
// Yield/Done/Join/Mutex.Lock call to ask again; if the ready queue is empty
// it reports idle and returns; otherwise it pops the next ready task and, per spec.md §4.6,
// requeues whatever was left dangling in current before handing off.
func (r *Runtime) dispatchLocked() {
	if r.pendingFree != nil {
		freed := r.pendingFree
		r.pendingFree = nil
		r.logTask(eventFree, freed)
	}

	if r.current != nil && !r.currentDangling {
		return
	}

	t := r.readyQ.pop()
	if t == nil {
		r.idleCond.Broadcast()
		return
	}

	if prev := r.current; prev != nil {
		prev.state.Store(StateReady)
		r.logTask(eventYield, prev)
		r.readyQ.push(prev)
	}
	r.currentDangling = false

	r.dispatchTo(t)
}

// dispatchTo makes t the running task: arms its slice timer and hands it a
// resume credit. Callers must hold r.mu and must already have cleared
// r.current of whoever held it.
func (r *Runtime) dispatchTo(t *task) {
	t.state.Store(StateRunning)
	t.preempted = false
	t.gen++
	gen := t.gen
	r.current = t
	r.logTask(eventRun, t)
	t.sliceTimer = time.AfterFunc(r.slice, func() { r.onSlice(t, gen) })
	t.resume <- struct{}{}
}

// onSlice is the Go-native preemption handler (spec.md §4.4). Go cannot
// suspend t's goroutine synchronously, so rather than saving its context it
// simply stops counting t as current and dispatches the next ready task.
// Unlike a voluntary Yield, t is not pushed to the ready queue here: its
// goroutine keeps running past its slice deadline until it reaches its own
// next Yield, Done, Join, or Mutex.Lock call, and only that call is allowed
// to requeue it (see Yield's limbo branch) — enqueuing it here would let a
// later dispatch hand it a second resume credit before it ever consumes the
// first. See SPEC_FULL.md §0.
func (r *Runtime) onSlice(t *task, gen int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != t || t.gen != gen {
		// t already relinquished on its own, or this timer is stale.
		return
	}
	t.preempted = true
	t.state.Store(StateReady)
	r.current = nil
	r.currentDangling = false
	r.stats.Preempted++
	r.logTask(eventPreempt, t)
	r.dispatchLocked()
}

// wakeJoinersLocked implements spec.md §4.5 using the fixed snapshot-count
// traversal from queue.go.
func (r *Runtime) wakeJoinersLocked(doneID uint64) {
	r.blockedQ.removeMatching(
		func(t *task) bool {
			return t.waitKind == waitJoin && t.joinTarget == doneID
		},
		func(t *task) {
			t.waitKind = waitNone
			t.state.Store(StateReady)
			r.logTask(eventUnblock, t)
			r.readyQ.push(t)
		},
	)
}

// waitIdleLocked blocks until the scheduler has nothing left that could run
// without further input from outside: the ready queue is empty, and current
// is either unset or only dangling (parked on its own resume channel, not
// genuinely executing). Callers must hold r.mu; dispatchLocked broadcasts
// idleCond whenever it finds the ready queue empty.
//
// This is the notion of idle Spawn needs (Open Question 2): a dangling
// current is left untouched so a caller isn't forced to drain every
// outstanding task on every Spawn call. Deinit needs a stronger guarantee —
// see drainLocked, which does not stop at a dangling current.
func (r *Runtime) waitIdleLocked() {
	idle := func() bool {
		return r.readyQ.empty() && (r.current == nil || r.currentDangling)
	}
	for !idle() {
		r.idleCond.Wait()
	}
}

// drainLocked runs the scheduler to true completion: every ready task, and
// a dangling current, gets to run until it blocks, terminates, or yields
// again, looping until the ready queue is empty and current is unset.
// Callers must hold r.mu.
//
// waitIdleLocked (used by Spawn) treats a dangling current as idle on
// purpose, so a Spawn call doesn't have to drain every outstanding task.
// Deinit is the scheduler's last call, though: nothing will ever dispatch
// that dangling task again, so treating it as idle here would strand it
// at its own <-t.resume forever, with its post-yield code never running.
// Each time dispatchLocked leaves current dangling because the ready
// queue was empty, this explicitly redispatches it rather than stopping.
func (r *Runtime) drainLocked() {
	for {
		r.dispatchLocked()
		if r.currentDangling {
			t := r.current
			r.currentDangling = false
			r.dispatchTo(t)
			continue
		}
		if r.current == nil && r.readyQ.empty() {
			return
		}
		r.idleCond.Wait()
	}
}
