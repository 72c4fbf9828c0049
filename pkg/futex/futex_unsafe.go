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

package futex

import (
	"fmt"
	"math"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"hostsync.dev/hostsync/pkg/atomicbitops"
)

// Wait blocks the calling thread until the futex word w is woken, if w still
// holds val when the kernel checks. It returns nil if the thread was woken
// (possibly spuriously), unix.EAGAIN if the word no longer held val at the
// kernel check, and unix.EINTR if the sleep was cut short by a signal. All
// three outcomes mean the same thing to the caller: reload the word and
// re-evaluate.
func Wait(w *atomicbitops.Uint32, val uint32) error {
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(w)), futexWaitPrivate, uintptr(val), 0, 0, 0)
	return waitErr(errno)
}

// WaitTimed is Wait with a bound on the sleep. It additionally returns
// unix.ETIMEDOUT once timeout elapses. A timeout is not a failure; it means
// the condition is still unmet as far as the caller knows.
func WaitTimed(w *atomicbitops.Uint32, val uint32, timeout time.Duration) error {
	ts := unix.NsecToTimespec(timeout.Nanoseconds())
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(w)), futexWaitPrivate, uintptr(val), uintptr(unsafe.Pointer(&ts)), 0, 0)
	return waitErr(errno)
}

func waitErr(errno unix.Errno) error {
	switch errno {
	case 0:
		return nil
	case unix.EAGAIN, unix.EINTR, unix.ETIMEDOUT:
		return errno
	default:
		panic(fmt.Sprintf("futex wait failed with unexpected errno: %v", errno))
	}
}

// WakeOne wakes at most one thread blocked in Wait on w and returns the
// number woken. It is cheap when no thread is waiting.
func WakeOne(w *atomicbitops.Uint32) int {
	return wake(w, 1)
}

// WakeAll wakes every thread blocked in Wait on w and returns the number
// woken. It is cheap when no thread is waiting.
func WakeAll(w *atomicbitops.Uint32) int {
	return wake(w, math.MaxInt32)
}

func wake(w *atomicbitops.Uint32, n int32) int {
	woken, _, errno := unix.RawSyscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(w)), futexWakePrivate, uintptr(n), 0, 0, 0)
	if errno != 0 {
		// Waking a live process-private word takes no argument the
		// kernel can reject.
		panic(fmt.Sprintf("futex wake failed with unexpected errno: %v", errno))
	}
	return int(woken)
}
