// Command counter spawns three tasks that each lock a shared mutex,
// print and advance a shared counter, then unlock, demonstrating mutual
// exclusion of shared state across tasks (spec.md §8 S3).
package main

import (
	"fmt"
	"log"

	"github.com/freelancer85/sthreads"
)

func main() {
	rt, err := sthreads.Init()
	if err != nil {
		log.Fatal(err)
	}

	mu := rt.NewMutex()
	counter := 0

	worker := func() func() {
		return func() {
			mu.Lock()
			fmt.Println(counter)
			counter++
			mu.Unlock()
		}
	}

	for i := 0; i < 3; i++ {
		if _, err := rt.Spawn(worker()); err != nil {
			log.Fatal(err)
		}
	}

	rt.Deinit()
}
