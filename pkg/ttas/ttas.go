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

// Package ttas provides a test-and-test-and-set spinlock.
//
// The lock is a single flag. Waiters spin with read-only loads while the
// flag is held and only attempt the compare-and-swap once they observe it
// free, so contended waiting generates no write traffic on the lock's cache
// line. There is no fairness: when the holder releases, all spinning
// waiters race for the flag and any one of them may win, repeatedly.
//
// Suitable for short critical sections with low contention. It never
// sleeps; a waiter burns CPU for the full duration of its wait.
package ttas

import (
	"hostsync.dev/hostsync/pkg/atomicbitops"
	"hostsync.dev/hostsync/pkg/spin"
)

// SpinLock is a test-and-test-and-set spinlock. The zero value is unlocked.
//
// SpinLock is not reentrant: a goroutine holding the lock must not attempt
// to acquire it again.
type SpinLock struct {
	locked atomicbitops.Bool
}

// Lock acquires the lock, spinning until it is available.
func (l *SpinLock) Lock() {
	for !l.locked.CompareAndSwap(false, true) {
		// Poll with plain loads until the flag reads free; only then
		// retry the CAS. Failed CAS attempts by many waiters would
		// otherwise bounce the cache line between cores.
		for l.locked.Load() {
			spin.Hint()
		}
	}
}

// TryLock attempts to acquire the lock in a single step and returns whether
// it succeeded. It never blocks.
func (l *SpinLock) TryLock() bool {
	return l.locked.CompareAndSwap(false, true)
}

// Unlock releases the lock. It must only be called by the goroutine that
// holds the lock; this is not checked.
func (l *SpinLock) Unlock() {
	l.locked.Store(false)
}
