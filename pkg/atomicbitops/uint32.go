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

// Package atomicbitops provides the atomic wrapper types used as lock words
// throughout this module.
//
// Wrapping lock words in distinct types (rather than calling sync/atomic on
// bare integers) keeps every access to shared lock state explicitly atomic,
// and lets pkg/futex accept exactly the word type the locks sleep on.
package atomicbitops

import (
	"sync/atomic"
)

// Uint32 is an atomic uint32.
//
// The default value is zero.
//
// Don't add fields to this struct. pkg/futex passes the address of a Uint32
// directly to the kernel, which requires that the value be the first (and
// only) field.
type Uint32 struct {
	value uint32
}

// FromUint32 returns a Uint32 initialized to value val.
//
//go:nosplit
func FromUint32(val uint32) Uint32 {
	return Uint32{value: val}
}

// Load is analogous to atomic.LoadUint32.
//
//go:nosplit
func (u *Uint32) Load() uint32 {
	return atomic.LoadUint32(&u.value)
}

// RacyLoad is analogous to reading an atomic value without using
// synchronization.
//
// It may be helpful to document why a racy operation is permitted.
//
//go:nosplit
func (u *Uint32) RacyLoad() uint32 {
	return u.value
}

// Store is analogous to atomic.StoreUint32.
//
//go:nosplit
func (u *Uint32) Store(val uint32) {
	atomic.StoreUint32(&u.value, val)
}

// Swap is analogous to atomic.SwapUint32.
//
//go:nosplit
func (u *Uint32) Swap(val uint32) uint32 {
	return atomic.SwapUint32(&u.value, val)
}

// Add is analogous to atomic.AddUint32.
//
//go:nosplit
func (u *Uint32) Add(val uint32) uint32 {
	return atomic.AddUint32(&u.value, val)
}

// CompareAndSwap is analogous to atomic.CompareAndSwapUint32.
//
//go:nosplit
func (u *Uint32) CompareAndSwap(old, new uint32) bool {
	return atomic.CompareAndSwapUint32(&u.value, old, new)
}
