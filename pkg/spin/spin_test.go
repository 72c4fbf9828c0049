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

package spin

import (
	"testing"
)

// The hints have no observable effect; these just pin the runtime linknames
// so a Go version change that breaks them fails loudly here.

func TestHint(t *testing.T) {
	for i := 0; i < 100; i++ {
		Hint()
	}
}

func TestGoyield(t *testing.T) {
	for i := 0; i < 100; i++ {
		Goyield()
	}
}
