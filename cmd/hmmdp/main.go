// SPDX-License-Identifier: MIT

// Command hmmdp scores sequences against a YAML-defined Markov model.
//
//	hmmdp score   --model casino.yaml --algorithm forward 1266316
//	hmmdp viterbi --model pair.yaml ACGT AGT
//	hmmdp generate --model casino.yaml --length 20 --seed 7
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
