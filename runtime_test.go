package sthreads

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestYieldProducesCooperativeAlternation(t *testing.T) {
	rt, err := Init()
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var order []string
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	if _, err := rt.Spawn(func() {
		record("A")
		rt.Yield()
		record("A")
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := rt.Spawn(func() {
		record("B")
		rt.Yield()
		record("B")
	}); err != nil {
		t.Fatal(err)
	}

	rt.Deinit()

	mu.Lock()
	got := append([]string(nil), order...)
	mu.Unlock()

	want := []string{"A", "B", "A", "B"}
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestJoinWaitsForTargetCompletion(t *testing.T) {
	rt, err := Init()
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var order []string
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	yID, err := rt.Spawn(func() {
		record("Y-start")
		rt.Yield()
		record("Y-done")
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := rt.Spawn(func() {
		if joined := rt.Join(yID); joined != yID {
			t.Errorf("Join returned %d, want %d", joined, yID)
		}
		record("J-joined")
	}); err != nil {
		t.Fatal(err)
	}

	rt.Deinit()

	mu.Lock()
	got := append([]string(nil), order...)
	mu.Unlock()

	want := []string{"Y-start", "Y-done", "J-joined"}
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestJoinOnUnspawnedIDBlocksAndIsReportedAsLeaked(t *testing.T) {
	rt, err := Init()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := rt.Spawn(func() {
		rt.Join(999999) // never spawned; parks forever, per spec.md §4.6
	}); err != nil {
		t.Fatal(err)
	}

	stats := rt.Deinit()
	if stats.LeakedBlocked != 1 {
		t.Fatalf("LeakedBlocked = %d, want 1", stats.LeakedBlocked)
	}
}

func TestMutexSerializesSharedCounter(t *testing.T) {
	rt, err := Init()
	if err != nil {
		t.Fatal(err)
	}

	mu := rt.NewMutex()
	counter := 0
	var seenMu sync.Mutex
	var seen []int

	for i := 0; i < 3; i++ {
		if _, err := rt.Spawn(func() {
			if err := mu.Lock(); err != nil {
				t.Error(err)
			}
			seenMu.Lock()
			seen = append(seen, counter)
			seenMu.Unlock()
			counter++
			if err := mu.Unlock(); err != nil {
				t.Error(err)
			}
		}); err != nil {
			t.Fatal(err)
		}
	}

	rt.Deinit()

	if counter != 3 {
		t.Fatalf("counter = %d, want 3", counter)
	}
	want := []int{0, 1, 2}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
	}
}

func TestPreemptionLetsOtherTasksRun(t *testing.T) {
	rt, err := Init(WithSlice(5 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	var otherRan atomic.Bool

	if _, err := rt.Spawn(func() {
		for !otherRan.Load() {
		}
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := rt.Spawn(func() {
		otherRan.Store(true)
	}); err != nil {
		t.Fatal(err)
	}

	if !otherRan.Load() {
		t.Fatal("second task did not run: first task starved the scheduler")
	}

	stats := rt.Deinit()
	if stats.Preempted == 0 {
		t.Error("expected at least one preemption to have occurred")
	}
}

func TestExplicitDoneIsSafeAndSchedulerContinues(t *testing.T) {
	rt, err := Init()
	if err != nil {
		t.Fatal(err)
	}

	ran := false
	if _, err := rt.Spawn(func() {
		ran = true
		rt.Done()
	}); err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Fatal("task did not run")
	}

	secondRan := false
	if _, err := rt.Spawn(func() { secondRan = true }); err != nil {
		t.Fatal(err)
	}
	if !secondRan {
		t.Fatal("runtime unusable after a task calls Done explicitly")
	}

	stats := rt.Deinit()
	if stats.Terminated < 2 {
		t.Fatalf("Terminated = %d, want at least 2", stats.Terminated)
	}
}

func TestDeinitDrainsAllOutstandingTasks(t *testing.T) {
	rt, err := Init()
	if err != nil {
		t.Fatal(err)
	}

	const n = 5
	var mu sync.Mutex
	completed := 0

	for i := 0; i < n; i++ {
		if _, err := rt.Spawn(func() {
			for j := 0; j < 3; j++ {
				rt.Yield()
			}
			mu.Lock()
			completed++
			mu.Unlock()
		}); err != nil {
			t.Fatal(err)
		}
	}

	stats := rt.Deinit()

	mu.Lock()
	got := completed
	mu.Unlock()

	if got != n {
		t.Fatalf("completed = %d, want %d", got, n)
	}
	if stats.Terminated != n {
		t.Fatalf("Terminated = %d, want %d", stats.Terminated, n)
	}
	if stats.LeakedBlocked != 0 {
		t.Fatalf("LeakedBlocked = %d, want 0", stats.LeakedBlocked)
	}
}

func TestSpawnRejectsNilEntry(t *testing.T) {
	rt, err := Init()
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Deinit()

	if _, err := rt.Spawn(nil); err != ErrNullArgument {
		t.Fatalf("err = %v, want ErrNullArgument", err)
	}
}

func TestSpawnAfterDeinitFails(t *testing.T) {
	rt, err := Init()
	if err != nil {
		t.Fatal(err)
	}
	rt.Deinit()

	if _, err := rt.Spawn(func() {}); err != ErrRuntimeClosed {
		t.Fatalf("err = %v, want ErrRuntimeClosed", err)
	}
}

func TestYieldFromNonTaskGoroutineIsANoOp(t *testing.T) {
	rt, err := Init()
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Deinit()

	// Calling Yield/Done/Join from the test's own goroutine (not a task)
	// should not panic or deadlock; selfTask resolves to nil and the call
	// is simply ignored.
	rt.Yield()
	rt.Done()
	if got := rt.Join(0); got != 0 {
		t.Fatalf("Join(0) = %d, want 0", got)
	}
}

func TestTasksAndStats(t *testing.T) {
	rt, err := Init()
	if err != nil {
		t.Fatal(err)
	}

	if n := rt.Tasks(); n != 0 {
		t.Fatalf("Tasks() = %d, want 0 before any spawn", n)
	}

	// Spawn blocks until the scheduler idles, which for a task that never
	// yields means waiting for it to run to completion; by the time each
	// call below returns, that task has already terminated.
	if _, err := rt.Spawn(func() {}); err != nil {
		t.Fatal(err)
	}
	if _, err := rt.Spawn(func() {}); err != nil {
		t.Fatal(err)
	}

	if n := rt.Tasks(); n != 0 {
		t.Fatalf("Tasks() = %d, want 0 once both tasks have terminated", n)
	}

	stats := rt.Stats()
	if stats.Created != 2 {
		t.Fatalf("Created = %d, want 2", stats.Created)
	}
	if stats.Terminated != 2 {
		t.Fatalf("Terminated = %d, want 2", stats.Terminated)
	}

	rt.Deinit()
}
