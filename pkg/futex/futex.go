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

// Package futex wraps the futex(2) wait and wake operations on process-local
// futex words.
//
// A futex word is an atomicbitops.Uint32 shared by the threads of this
// process. Wait puts the calling thread to sleep in the kernel only if the
// word still holds the expected value at the moment the kernel checks; the
// check and the enqueue are atomic with respect to concurrent wakes, so a
// wake issued between the caller's last load and the syscall is never lost.
//
// A return from Wait proves nothing about the word. The caller may have been
// woken by WakeOne or WakeAll, the word may have changed before the kernel
// check (unix.EAGAIN), the sleep may have been interrupted by a signal
// (unix.EINTR), or the wakeup may be spurious. Callers must reload the word
// and re-evaluate their condition on every return.
package futex

// From <linux/futex.h>. Only the operations used by this package; all waits
// and wakes are on process-private words, so the private forms are used
// unconditionally to skip the kernel's shared-mapping lookup.
const (
	futexWait = 0
	futexWake = 1

	futexPrivateFlag = 128

	futexWaitPrivate = futexWait | futexPrivateFlag
	futexWakePrivate = futexWake | futexPrivateFlag
)
