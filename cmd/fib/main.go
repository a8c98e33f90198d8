// Command fib spawns a task that computes and prints a Fibonacci sequence,
// yielding after each step, and a second task that joins it, exercising
// sthreads.Runtime.Join (spec.md §8 S2).
package main

import (
	"fmt"
	"log"

	"github.com/freelancer85/sthreads"
)

func fibonacci(rt *sthreads.Runtime, n int) func() {
	return func() {
		a, b := 0, 1
		for i := 0; i < n; i++ {
			fmt.Println(a)
			a, b = b, a+b
			rt.Yield()
		}
	}
}

func main() {
	rt, err := sthreads.Init()
	if err != nil {
		log.Fatal(err)
	}

	fibID, err := rt.Spawn(fibonacci(rt, 10))
	if err != nil {
		log.Fatal(err)
	}

	if _, err := rt.Spawn(func() {
		joined := rt.Join(fibID)
		fmt.Printf("joined task %d\n", joined)
	}); err != nil {
		log.Fatal(err)
	}

	rt.Deinit()
}
