package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zenc/internal/ast"
	"zenc/internal/diagfmt"
	"zenc/internal/driver"
	"zenc/internal/layout"
	"zenc/internal/observ"
	"zenc/internal/project"
	"zenc/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [dir]",
	Short: "Type-check the unit described by zen.toml",
	Long:  `Check loads the manifest, runs the front-end pipeline over the unit, and prints diagnostics. Exit status 1 when any are errors.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("disk-cache", false, "reuse cached results for unchanged sources")
}

// loadUnit resolves the manifest and assembles the compilation unit plus the
// file set used for diagnostic rendering.
func loadUnit(dir string) (driver.Unit, *source.FileSet, project.Manifest, error) {
	manifestPath, err := project.Find(dir)
	if err != nil {
		return driver.Unit{}, nil, project.Manifest{}, err
	}
	manifest, err := project.Load(manifestPath)
	if err != nil {
		return driver.Unit{}, nil, project.Manifest{}, err
	}

	fs := source.NewFileSet()
	for _, path := range manifest.SourcePaths() {
		if _, err := fs.Load(path); err != nil {
			return driver.Unit{}, nil, project.Manifest{}, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	// The pipeline starts at the AST; a parser front end would populate this
	// module from the loaded sources. Until one is wired in, the unit checks
	// an empty module and the FileSet only feeds diagnostic rendering and the
	// content hash.
	unit := driver.Unit{
		Name:   manifest.Name,
		Module: ast.NewModule(manifest.Name),
		Target: layout.ByTriple(manifest.Target),
	}
	return unit, fs, manifest, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	if useCache, _ := cmd.Flags().GetBool("disk-cache"); useCache {
		phase = tm.Begin("cache")
		storeInCache(snap, fs)
		tm.End(phase, "")
	}

	if err := renderBag(cmd, snap, fs); err != nil {
		return err
	}
	printTimings(cmd, tm)
	if snap.Bag.HasErrors() {
		cleanup()
		os.Exit(1)
	}
	return nil
}

func printTimings(cmd *cobra.Command, tm *observ.Timer) {
	if show, _ := cmd.Flags().GetBool("timings"); show {
		fmt.Fprint(cmd.ErrOrStderr(), tm.Summary())
	}
}

func renderBag(cmd *cobra.Command, snap *driver.Snapshot, fs *source.FileSet) error {
	format, _ := cmd.Flags().GetString("format")
	withNotes, _ := cmd.Flags().GetBool("with-notes")
	maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")

	snap.Bag.Sort()
	switch format {
	case "json":
		return diagfmt.JSON(cmd.OutOrStdout(), snap.Bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     withNotes,
			Max:              maxDiags,
		})
	case "pretty":
		diagfmt.Pretty(cmd.OutOrStdout(), snap.Bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(cmd),
			ShowNotes: withNotes,
			Max:       maxDiags,
		})
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

// storeInCache persists the snapshot summary keyed by source content.
func storeInCache(snap *driver.Snapshot, fs *source.FileSet) {
	cache, err := driver.OpenDiskCache("zenc")
	if err != nil {
		return
	}
	chunks := make([][]byte, 0, fs.Len())
	for i := 0; i < fs.Len(); i++ {
		if f := fs.Get(source.FileID(i)); f != nil {
			chunks = append(chunks, f.Content)
		}
	}
	key := driver.HashBytes(chunks...)
	// Best effort: a failed write only costs the next run a re-check.
	_ = cache.Put(key, driver.SnapshotPayload(snap))
}
