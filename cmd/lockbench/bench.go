// Copyright 2025 The hostsync Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/google/subcommands"

	"hostsync.dev/hostsync/pkg/fmutex"
	"hostsync.dev/hostsync/pkg/qspin"
	"hostsync.dev/hostsync/pkg/ticket"
	"hostsync.dev/hostsync/pkg/ttas"
)

// A sectionFunc returns a lock/unlock pair for one worker. Callers invoke it
// once per worker so that guard-based locks get a private guard.
type sectionFunc func() (lock, unlock func())

// benchCmd implements subcommands.Command for one lock type.
type benchCmd struct {
	name     string
	synopsis string

	// setup creates the shared lock for one run and returns the
	// per-worker section factory.
	setup func() sectionFunc

	goroutines int
	iters      int
}

func benchCommands() []subcommands.Command {
	return []subcommands.Command{
		&benchCmd{
			name:     "ttas",
			synopsis: "benchmark the test-and-test-and-set spinlock",
			setup: func() sectionFunc {
				l := new(ttas.SpinLock)
				return func() (func(), func()) {
					return l.Lock, l.Unlock
				}
			},
		},
		&benchCmd{
			name:     "ticket",
			synopsis: "benchmark the FIFO ticket spinlock",
			setup: func() sectionFunc {
				l := new(ticket.Lock)
				return func() (func(), func()) {
					return l.Lock, l.Unlock
				}
			},
		},
		&benchCmd{
			name:     "qspin",
			synopsis: "benchmark the queue (MCS) spinlock",
			setup: func() sectionFunc {
				l := new(qspin.Lock)
				return func() (func(), func()) {
					g := new(qspin.Guard)
					return func() { l.Acquire(g) }, g.Release
				}
			},
		},
		&benchCmd{
			name:     "fmutex",
			synopsis: "benchmark the futex-backed hybrid mutex",
			setup: func() sectionFunc {
				m := new(fmutex.Mutex)
				return func() (func(), func()) {
					return m.Lock, m.Unlock
				}
			},
		},
	}
}

// Name implements subcommands.Command.Name.
func (c *benchCmd) Name() string {
	return c.name
}

// Synopsis implements subcommands.Command.Synopsis.
func (c *benchCmd) Synopsis() string {
	return c.synopsis
}

// Usage implements subcommands.Command.Usage.
func (c *benchCmd) Usage() string {
	return c.name + " [-goroutines N] [-iters M] - " + c.synopsis + "\n"
}

// SetFlags implements subcommands.Command.SetFlags.
func (c *benchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.goroutines, "goroutines", 4, "number of contending workers")
	f.IntVar(&c.iters, "iters", 100000, "acquisitions per worker")
}

// Execute implements subcommands.Command.Execute.
func (c *benchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	section := c.setup()
	counter := 0

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < c.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Pin the worker so contention happens between OS
			// threads, the regime these locks are built for.
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			lock, unlock := section()
			for j := 0; j < c.iters; j++ {
				lock()
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	total := c.goroutines * c.iters
	if counter != total {
		fmt.Fprintf(os.Stderr, "counter = %d, want %d: mutual exclusion violated\n", counter, total)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s: %d goroutines x %d acquisitions in %v (%d ns/acquisition)\n",
		c.name, c.goroutines, c.iters, elapsed.Round(time.Microsecond), elapsed.Nanoseconds()/int64(total))
	return subcommands.ExitSuccess
}
