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

// Package fmutex provides a hybrid user-space/futex mutex.
//
// The uncontended paths are single compare-and-swaps that never enter the
// kernel. Only a contended Lock sleeps, in futex.Wait, and only a contended
// Unlock issues a wake. This is the right trade for critical sections long
// enough that spinning through them would waste more cycles than two
// syscalls: waiters consume no CPU while parked.
//
// There is no fairness. A contended Unlock wakes every waiter and lets them
// race for the lock alongside any newly arriving goroutine; exactly one
// wins and the rest go back to sleep.
package fmutex

import (
	"hostsync.dev/hostsync/pkg/atomicbitops"
	"hostsync.dev/hostsync/pkg/futex"
)

// Mutex states. The only legal transitions are between adjacent states,
// plus the lockedWaiters -> unlocked release.
const (
	unlocked        uint32 = 0
	lockedNoWaiters uint32 = 1
	lockedWaiters   uint32 = 2
)

// Mutex is a blocking mutual-exclusion lock. The zero value is unlocked.
//
// Mutex is not reentrant, and Unlock by a goroutine that does not hold the
// lock is undefined behavior; neither is checked.
type Mutex struct {
	state atomicbitops.Uint32
}

// Lock acquires the mutex, sleeping in the kernel if it is contended.
func (m *Mutex) Lock() {
	// Fast path: uncontended, no syscall.
	if m.state.CompareAndSwap(unlocked, lockedNoWaiters) {
		return
	}
	for !m.lockSlow() {
	}
}

func (m *Mutex) lockSlow() bool {
	// Make the state say "has waiters" before sleeping so the holder's
	// Unlock knows to wake us. Failure here is expected and harmless: the
	// state may already be lockedWaiters, or the lock may just have been
	// released, in which case the kernel's value check backs out of the
	// sleep immediately.
	m.state.CompareAndSwap(lockedNoWaiters, lockedWaiters)

	// Every outcome (woken, value changed, signal) is handled the same
	// way: try to take the lock, otherwise sleep again.
	_ = futex.Wait(&m.state, lockedWaiters)

	// Acquire directly into the has-waiters state. Other sleepers may
	// remain parked, and the Unlock that follows our critical section
	// must know to wake them; acquiring into lockedNoWaiters would strand
	// them.
	return m.state.CompareAndSwap(unlocked, lockedWaiters)
}

// TryLock attempts to acquire the mutex and returns whether it succeeded.
// It never blocks and never enters the kernel.
func (m *Mutex) TryLock() bool {
	return m.state.CompareAndSwap(unlocked, lockedNoWaiters)
}

// Unlock releases the mutex, waking all sleepers if there are any. It must
// only be called by the goroutine that holds the mutex; this is not
// checked.
func (m *Mutex) Unlock() {
	// Fast path: nobody ever slept on this acquisition, no syscall.
	if m.state.CompareAndSwap(lockedNoWaiters, unlocked) {
		return
	}

	// State was lockedWaiters. Release, then wake everyone; the woken
	// goroutines re-race through lockSlow and exactly one wins.
	m.state.Store(unlocked)
	futex.WakeAll(&m.state)
}
