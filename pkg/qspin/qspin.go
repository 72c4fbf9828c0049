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

// Package qspin provides a queue spinlock (MCS lock).
//
// Waiters form an intrusive singly-linked queue: the lock itself holds only
// a pointer to the most recent arrival, and each waiter spins on an
// ownership flag in its own Guard rather than on shared lock state. A
// release flips exactly one flag, so no two goroutines ever poll the same
// cache line and a handoff wakes exactly one successor. Acquisition order
// is strictly the order of arrival at the tail.
//
// The caller supplies the Guard for each acquisition and must keep it alive
// and stationary until Release returns; the queue links Guards by address.
package qspin

import (
	"sync/atomic"

	"hostsync.dev/hostsync/pkg/atomicbitops"
	"hostsync.dev/hostsync/pkg/spin"
)

// Lock is a queue spinlock. The zero value is unlocked.
//
// Lock is not reentrant: a goroutine that acquires it again while holding
// it enqueues behind itself and spins forever.
type Lock struct {
	// tail is the most recently arrived Guard, or nil when no goroutine
	// holds or waits for the lock.
	tail atomic.Pointer[Guard]
}

// A Guard represents one acquisition of a Lock. Acquire blocks until the
// Guard holds the lock and Release hands the lock on. A Guard may be reused
// for a later acquisition after Release returns, but must not be copied:
// while a Guard is linked into the queue, its predecessor and the lock
// refer to it by address, and a copy would split the queue. go vet's
// copylocks check rejects copies.
type Guard struct {
	noCopy noCopy

	host *Lock

	// next is the Guard enqueued after this one, linked in by its owner
	// after it swaps itself into the tail.
	next atomic.Pointer[Guard]

	// owned becomes true exactly once per acquisition, set either by
	// Acquire itself (empty queue) or by the predecessor's Release.
	owned atomicbitops.Bool
}

// Acquire acquires l, blocking until the lock is handed to g. The caller
// must not release or reuse g until the paired Release call.
func (l *Lock) Acquire(g *Guard) {
	g.host = l
	g.next.Store(nil)
	g.owned.Store(false)

	// Phase 1: swap ourselves in as the tail. The previous tail, if any,
	// is our predecessor, and it cannot learn that until we link back,
	// which is deliberately deferred below the swap: the swap alone tells
	// it nothing.
	prev := l.tail.Swap(g)
	if prev == nil {
		// Queue was empty; the lock is ours without spinning.
		g.owned.Store(true)
		return
	}
	prev.next.Store(g)

	// Phase 2: spin on our own flag only.
	for i := 0; !g.owned.Load(); i++ {
		if i%yieldEvery == yieldEvery-1 {
			spin.Goyield()
		} else {
			spin.Hint()
		}
	}
}

// TryAcquire attempts to acquire l without blocking and returns whether it
// succeeded. It can only succeed when no goroutine holds or waits for the
// lock. On success the caller owns the lock through g and must pair with
// Release.
func (l *Lock) TryAcquire(g *Guard) bool {
	g.host = l
	g.next.Store(nil)
	g.owned.Store(false)
	if !l.tail.CompareAndSwap(nil, g) {
		return false
	}
	g.owned.Store(true)
	return true
}

// Release releases the lock held through g, handing it to the next waiter
// if one exists.
func (g *Guard) Release() {
	if g.host.tail.CompareAndSwap(g, nil) {
		// We were the tail: nobody is waiting.
		return
	}

	// Somebody swapped themselves in behind us but may not have linked
	// back yet. The gap between their tail swap and their next-pointer
	// store is one atomic store wide, so this wait is bounded; it cannot
	// be skipped, because until the link appears we have no one to hand
	// the lock to.
	for g.next.Load() == nil {
		spin.Hint()
	}
	g.next.Load().owned.Store(true)
}

const yieldEvery = 64

// noCopy triggers go vet's copylocks check on any copy of a containing
// value.
type noCopy struct{}

// Lock is a no-op used by the copylocks checker from go vet.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
