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

// Package ring provides bounded single-producer/single-consumer queues.
//
// These are not locks: exactly one goroutine may push and exactly one may
// pop, and under that discipline the two sides never contend. The producer
// owns the write index, the consumer owns the read index, and each side
// publishes its progress to the other with a single atomic store.
//
// Buffer is the straightforward version. Fast additionally keeps a local
// copy of the opposing index on each side, refreshed only when the queue
// looks full or empty, which removes almost all cross-core traffic when
// the queue is neither.
package ring

import (
	"hostsync.dev/hostsync/pkg/atomicbitops"
)

const cacheLineSize = 64

// Buffer is a bounded SPSC queue. One slot is always left empty to
// distinguish full from empty, so a Buffer created with capacity n holds at
// most n-1 elements.
type Buffer[T any] struct {
	// read is the next slot to pop, written only by the consumer. The
	// counters come first to keep them 64-bit aligned, and the padding
	// keeps each on its own cache line.
	read atomicbitops.Uint64
	_    [cacheLineSize - 8]byte

	// write is the next slot to fill, written only by the producer.
	write atomicbitops.Uint64
	_     [cacheLineSize - 8]byte

	data []T
}

// New returns a Buffer with the given capacity. capacity must be at least
// 2.
func New[T any](capacity int) *Buffer[T] {
	return &Buffer[T]{data: make([]T, capacity)}
}

// Push appends v and returns true, or returns false if the queue is full.
// Only one goroutine may call Push.
func (b *Buffer[T]) Push(v T) bool {
	// Only the producer writes b.write, so a racy read of it is its
	// current value.
	w := b.write.RacyLoad()
	next := (w + 1) % uint64(len(b.data))
	if next == b.read.Load() {
		return false
	}
	b.data[w] = v
	b.write.Store(next)
	return true
}

// Pop removes and returns the oldest element, or returns false if the queue
// is empty. Only one goroutine may call Pop.
func (b *Buffer[T]) Pop() (T, bool) {
	var zero T
	// Only the consumer writes b.read; see Push.
	r := b.read.RacyLoad()
	if r == b.write.Load() {
		return zero, false
	}
	v := b.data[r]
	b.data[r] = zero
	b.read.Store((r + 1) % uint64(len(b.data)))
	return v, true
}

// Fast is a Buffer that also caches the opposing index on each side. The
// producer re-reads the consumer's index only when the queue looks full,
// and vice versa, so steady-state operation touches no shared cache line
// beyond the published index itself.
type Fast[T any] struct {
	// Consumer's line: its own index plus its stale view of the
	// producer's.
	read        atomicbitops.Uint64
	writeCached uint64
	_           [cacheLineSize - 16]byte

	// Producer's line, symmetrically.
	write      atomicbitops.Uint64
	readCached uint64
	_          [cacheLineSize - 16]byte

	data []T
}

// NewFast returns a Fast buffer with the given capacity. capacity must be
// at least 2.
func NewFast[T any](capacity int) *Fast[T] {
	return &Fast[T]{data: make([]T, capacity)}
}

// Push appends v and returns true, or returns false if the queue is full.
// Only one goroutine may call Push.
func (f *Fast[T]) Push(v T) bool {
	w := f.write.RacyLoad()
	next := (w + 1) % uint64(len(f.data))
	if next == f.readCached {
		// Looks full; refresh our view of the consumer before
		// giving up.
		f.readCached = f.read.Load()
		if next == f.readCached {
			return false
		}
	}
	f.data[w] = v
	f.write.Store(next)
	return true
}

// Pop removes and returns the oldest element, or returns false if the queue
// is empty. Only one goroutine may call Pop.
func (f *Fast[T]) Pop() (T, bool) {
	var zero T
	r := f.read.RacyLoad()
	if r == f.writeCached {
		f.writeCached = f.write.Load()
		if r == f.writeCached {
			return zero, false
		}
	}
	v := f.data[r]
	f.data[r] = zero
	f.read.Store((r + 1) % uint64(len(f.data)))
	return v, true
}
