package sthreads

import "runtime"

// getGoroutineID parses the calling goroutine's id out of a runtime.Stack
// dump. It is the same trick the event loop this package started from uses
// to recognize its own loop goroutine (see its isLoopThread helper); here it
// lets Yield, Done, Join, and Mutex.Lock find "the calling task" without an
// explicit receiver, matching spec.md's parameterless API.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
