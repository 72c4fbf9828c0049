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

package ring

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// spsc is the surface shared by Buffer and Fast, so every test runs against
// both.
type spsc interface {
	Push(int) bool
	Pop() (int, bool)
}

func forEachKind(t *testing.T, capacity int, f func(t *testing.T, q spsc)) {
	t.Run("Buffer", func(t *testing.T) { f(t, New[int](capacity)) })
	t.Run("Fast", func(t *testing.T) { f(t, NewFast[int](capacity)) })
}

func TestEmptyPop(t *testing.T) {
	forEachKind(t, 4, func(t *testing.T, q spsc) {
		if v, ok := q.Pop(); ok {
			t.Fatalf("Pop on empty queue returned %d", v)
		}
	})
}

func TestFullPush(t *testing.T) {
	forEachKind(t, 4, func(t *testing.T, q spsc) {
		// Capacity 4 stores 3 elements; one slot distinguishes full
		// from empty.
		for i := 0; i < 3; i++ {
			if !q.Push(i) {
				t.Fatalf("Push(%d) failed below capacity", i)
			}
		}
		if q.Push(3) {
			t.Fatalf("Push succeeded on full queue")
		}
		if _, ok := q.Pop(); !ok {
			t.Fatalf("Pop failed on full queue")
		}
		if !q.Push(3) {
			t.Fatalf("Push failed after Pop freed a slot")
		}
	})
}

func TestOrderingAcrossWraparound(t *testing.T) {
	forEachKind(t, 4, func(t *testing.T, q spsc) {
		var got []int
		// 3 residents in a 4-slot queue, cycled well past the slice
		// length, must come out in push order.
		next := 0
		for i := 0; i < 3; i++ {
			q.Push(next)
			next++
		}
		for i := 0; i < 20; i++ {
			v, ok := q.Pop()
			if !ok {
				t.Fatalf("Pop failed with queue non-empty")
			}
			got = append(got, v)
			q.Push(next)
			next++
		}
		want := make([]int, 20)
		for i := range want {
			want[i] = i
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("pop order mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestConcurrentProducerConsumer(t *testing.T) {
	forEachKind(t, 16, func(t *testing.T, q spsc) {
		const n = 100000

		done := make(chan []int)
		go func() {
			var got []int
			for len(got) < n {
				if v, ok := q.Pop(); ok {
					got = append(got, v)
				}
			}
			done <- got
		}()

		for i := 0; i < n; i++ {
			for !q.Push(i) {
			}
		}

		got := <-done
		for i, v := range got {
			if v != i {
				t.Fatalf("element %d = %d; values reordered or lost", i, v)
			}
		}
	})
}

func BenchmarkBuffer(b *testing.B) {
	benchSPSC(b, New[int](1024))
}

func BenchmarkFast(b *testing.B) {
	benchSPSC(b, NewFast[int](1024))
}

func benchSPSC(b *testing.B, q spsc) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < b.N; i++ {
			for {
				if _, ok := q.Pop(); ok {
					break
				}
			}
		}
	}()
	for i := 0; i < b.N; i++ {
		for !q.Push(i) {
		}
	}
	<-done
}
