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

// Check go:linkname function signatures when updating Go version.

// Package spin provides the busy-wait hints used by the spinlock packages.
//
// Lock code never issues hardware hints directly; it calls Hint between
// polls of a lock word. The hint is a capability of the runtime, not part
// of any lock protocol.
package spin

import (
	_ "unsafe" // for go:linkname
)

// Note that go:linkname silently doesn't work if the local name is exported,
// necessitating an indirection for exported functions.

// Hint tells the CPU that the caller is busy-waiting, which reduces power
// draw and yields pipeline resources to the sibling hyperthread. It expands
// to a short run of PAUSE instructions on x86 and YIELD on arm64, and is a
// no-op on architectures without an equivalent.
//
//go:nosplit
func Hint() {
	doSpin()
}

// Goyield yields the processor to another runnable goroutine on the current
// P, if any, without parking the caller. Spin loops that have polled for a
// while call this so that a preempted lock holder scheduled on the same P
// can run and release the lock.
func Goyield() {
	goyield()
}

//go:linkname doSpin sync.runtime_doSpin
func doSpin()

//go:linkname goyield runtime.goyield
func goyield()
