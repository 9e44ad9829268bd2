// SPDX-License-Identifier: MIT

// Command plfopt solves, generates and benchmarks separable piecewise-linear
// knapsack instances.
//
//	plfopt generate --dim 5 --breakpoints 100 --seed 7 -o inst.yaml
//	plfopt solve inst.yaml --rule "largest error" --time-limit 10s
//	plfopt compare --breakpoints 10,50,100 --instances 20 --csv runs.csv
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
