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

// Package ticket provides a FIFO spinlock built on a pair of monotonic
// counters.
//
// An acquirer takes the next free ticket and spins until the owner counter
// reaches it; release advances the owner counter. Acquisition order is
// exactly ticket-issue order, so no waiter can be starved by later
// arrivals. Every waiter still polls the shared owner counter, so under
// heavy contention each release invalidates a cache line held by all
// waiters; see pkg/qspin for the variant that avoids this.
package ticket

import (
	"hostsync.dev/hostsync/pkg/atomicbitops"
	"hostsync.dev/hostsync/pkg/spin"
)

// cacheLineSize separates the two counters so that issuing tickets (writes
// to next) does not invalidate the line waiters poll (owner).
const cacheLineSize = 64

// Lock is a FIFO ticket spinlock. The zero value is unlocked.
//
// The counters are 64-bit so that a ticket number can never be reissued to
// a live waiter by wraparound. Lock is not reentrant.
type Lock struct {
	// next is the next ticket to hand out. owner <= next always holds;
	// they are equal exactly when the lock is free.
	next atomicbitops.Uint64

	_ [cacheLineSize]byte

	// owner is the ticket currently allowed into the critical section.
	owner atomicbitops.Uint64
}

// yieldEvery bounds how many polls a waiter makes before offering its P to
// another runnable goroutine. A preempted ticket holder ahead of us in the
// queue cannot release until it runs again.
const yieldEvery = 64

// Lock acquires the lock, spinning until the caller's ticket comes up.
func (l *Lock) Lock() {
	// The increment needs no ordering of its own; the acquire load in the
	// spin loop is what orders the critical section.
	ticket := l.next.Add(1) - 1
	for i := 0; l.owner.Load() != ticket; i++ {
		if i%yieldEvery == yieldEvery-1 {
			spin.Goyield()
		} else {
			spin.Hint()
		}
	}
}

// TryLock attempts to acquire the lock and returns whether it succeeded. It
// never blocks, and a failed attempt does not take a ticket: taking one
// would enqueue the caller and force a later Unlock from somebody, which a
// non-blocking attempt must not do.
func (l *Lock) TryLock() bool {
	owner := l.owner.Load()
	// The CAS checks "lock free" (next == owner) and claims the next
	// ticket in one step.
	return l.next.CompareAndSwap(owner, owner+1)
}

// Unlock releases the lock, admitting the next ticket holder if any. It
// must only be called by the goroutine that holds the lock; this is not
// checked.
func (l *Lock) Unlock() {
	l.owner.Add(1)
}
