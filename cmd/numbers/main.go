// Command numbers spawns three tasks that each print a distinct range of
// numbers, yielding between prints, demonstrating cooperative alternation
// (spec.md §8 S1).
package main

import (
	"fmt"
	"log"

	"github.com/freelancer85/sthreads"
)

func printRange(rt *sthreads.Runtime, label string, from, to int) func() {
	return func() {
		for i := from; i <= to; i++ {
			fmt.Printf("%s: %d\n", label, i)
			rt.Yield()
		}
	}
}

func main() {
	rt, err := sthreads.Init()
	if err != nil {
		log.Fatal(err)
	}

	if _, err := rt.Spawn(printRange(rt, "A", 1, 3)); err != nil {
		log.Fatal(err)
	}
	if _, err := rt.Spawn(printRange(rt, "B", 4, 6)); err != nil {
		log.Fatal(err)
	}
	if _, err := rt.Spawn(printRange(rt, "C", 7, 9)); err != nil {
		log.Fatal(err)
	}

	rt.Deinit()
}
