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

// lockbench runs a contended shared-counter workload against each lock in
// this module and reports wall time per acquisition.
//
// Usage:
//
//	lockbench ttas -goroutines 4 -iters 100000
//	lockbench qspin
//	lockbench fmutex
//	lockbench ticket
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	for _, c := range benchCommands() {
		subcommands.Register(c, "locks")
	}

	// All subcommands must be registered before flag parsing.
	flag.Parse()

	os.Exit(int(subcommands.Execute(context.Background())))
}
