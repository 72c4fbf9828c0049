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

package ticket

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"hostsync.dev/hostsync/pkg/atomicbitops"
)

func TestBasicLockUnlock(t *testing.T) {
	var l Lock
	l.Lock()
	l.Unlock()
	l.Lock()
	l.Unlock()
}

func TestTryLock(t *testing.T) {
	var l Lock

	if !l.TryLock() {
		t.Fatalf("TryLock failed on unlocked lock")
	}
	if l.TryLock() {
		t.Fatalf("TryLock succeeded on locked lock")
	}
	l.Unlock()
	if !l.TryLock() {
		t.Fatalf("TryLock failed after Unlock")
	}
	l.Unlock()
}

func TestTryLockDoesNotTakeTicket(t *testing.T) {
	var l Lock
	l.Lock()

	// A failed TryLock must not advance the ticket counter: if it did,
	// the Unlock below would admit a ticket nobody holds and the final
	// Lock would spin forever.
	for i := 0; i < 100; i++ {
		if l.TryLock() {
			t.Fatalf("TryLock succeeded on held lock")
		}
	}
	l.Unlock()

	done := make(chan struct{})
	go func() {
		l.Lock()
		l.Unlock()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Lock hung after failed TryLock attempts; a ticket leaked")
	}
}

func TestMutualExclusion(t *testing.T) {
	const goroutines = 10
	const iters = 10000

	var l Lock
	var inCritical atomicbitops.Bool
	counter := 0

	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			for j := 0; j < iters; j++ {
				l.Lock()
				if inCritical.Swap(true) {
					l.Unlock()
					return errors.New("two goroutines entered the critical section")
				}
				counter++
				inCritical.Store(false)
				l.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if want := goroutines * iters; counter != want {
		t.Errorf("counter = %d, want %d", counter, want)
	}
}

func TestFIFOOrder(t *testing.T) {
	// Stagger the waiters so that waiter k has provably joined the queue
	// before waiter k+1 starts, then release them all by unlocking and
	// check that they acquired in join order.
	const waiters = 5

	var l Lock
	l.Lock()

	order := make(chan int, waiters)
	queued := make(chan struct{}, waiters)
	for i := 0; i < waiters; i++ {
		go func(id int) {
			queued <- struct{}{}
			l.Lock()
			order <- id
			l.Unlock()
		}(i)
		<-queued
		// Lock has no pre-queue side effect we can observe from
		// outside, so give the goroutine time to take its ticket.
		time.Sleep(50 * time.Millisecond)
	}

	l.Unlock()

	var got []int
	for i := 0; i < waiters; i++ {
		select {
		case id := <-order:
			got = append(got, id)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for waiter %d", i)
		}
	}
	want := []int{0, 1, 2, 3, 4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("acquisition order mismatch (-want +got):\n%s", diff)
	}
}

func BenchmarkLockUnlock(b *testing.B) {
	var l Lock
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l.Lock()
			l.Unlock()
		}
	})
}
