package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zenc/internal/prof"
)

// setupProfiling reads the persistent profiling flags and starts the
// requested profilers. The returned cleanup is idempotent.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()
	cpuPath, _ := root.PersistentFlags().GetString("cpu-profile")
	heapPath, _ := root.PersistentFlags().GetString("mem-profile")

	stopCPU := func() {}
	if cpuPath != "" {
		if err := prof.StartCPU(cpuPath); err != nil {
			return nil, fmt.Errorf("starting cpu profile: %w", err)
		}
		stopCPU = prof.StopCPU
	}

	writeHeap := func() {}
	if heapPath != "" {
		writeHeap = func() {
			if err := prof.WriteHeap(heapPath); err != nil {
				fmt.Fprintf(os.Stderr, "writing heap profile: %v\n", err)
			}
		}
	}

	done := false
	cleanup := func() {
		if done {
			return
		}
		done = true
		stopCPU()
		writeHeap()
	}
	return cleanup, nil
}
