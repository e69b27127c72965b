package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zenc/internal/driver"
	"zenc/internal/mir"
	"zenc/internal/observ"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [dir]",
	Short: "Check the unit and dump its lowered IR",
	Long:  `Build runs the full front end and, when the unit is clean, lowers it and writes the IR dump.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().String("format", "pretty", "diagnostic format (pretty|json)")
	buildCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	buildCmd.Flags().StringP("output", "o", "", "write the IR dump to a file instead of stdout")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	unit, fs, _, err := loadUnit(dir)
	if err != nil {
		return err
	}
	maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")
	unit.MaxDiagnostics = maxDiags

	tm := observ.NewTimer()
	phase := tm.Begin("check")
	snap := driver.CheckUnit(unit)
	tm.End(phase, fmt.Sprintf("%d diagnostics", snap.Bag.Len()))

	phase = tm.Begin("lower")
	out, lowerBag := driver.LowerUnit(snap)
	tm.End(phase, fmt.Sprintf("%d funcs", len(out.SortedFuncs())))
	snap.Bag.Merge(lowerBag)

	if err := renderBag(cmd, snap, fs); err != nil {
		return err
	}
	printTimings(cmd, tm)
	if snap.Bag.HasErrors() {
		// The dump would describe a broken unit; diagnostics already went out.
		cleanup()
		os.Exit(1)
	}

	dest := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		dest = f
	}
	mir.Fprint(dest, out)
	return nil
}
