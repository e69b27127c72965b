// Package project loads the zen.toml manifest describing one compilation
// unit: package name, target triple, and source listing.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the toolchain looks for.
const ManifestName = "zen.toml"

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing.
	ErrPackageNameMissing = errors.New("missing [package].name")
	// ErrManifestNotFound indicates no zen.toml above the start directory.
	ErrManifestNotFound = errors.New("no zen.toml found")
)

// Manifest is one parsed zen.toml.
type Manifest struct {
	Name   string
	Target string
	Files  []string

	// Dir is the manifest's directory; Files resolve relative to it.
	Dir string
}

type manifestFile struct {
	Package struct {
		Name   string `toml:"name"`
		Target string `toml:"target"`
	} `toml:"package"`
	Sources struct {
		Files []string `toml:"files"`
	} `toml:"sources"`
}

// Load parses a zen.toml at an explicit path.
func Load(path string) (Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	name := strings.TrimSpace(cfg.Package.Name)
	if name == "" {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	return Manifest{
		Name:   name,
		Target: strings.TrimSpace(cfg.Package.Target),
		Files:  cfg.Sources.Files,
		Dir:    filepath.Dir(path),
	}, nil
}

// Find walks from dir upwards to the filesystem root looking for zen.toml.
func Find(dir string) (string, error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(cur, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", fmt.Errorf("%w (searched from %s)", ErrManifestNotFound, dir)
		}
		cur = parent
	}
}

// SourcePaths resolves the manifest's file listing against its directory.
func (m Manifest) SourcePaths() []string {
	out := make([]string, len(m.Files))
	for i, f := range m.Files {
		if filepath.IsAbs(f) {
			out[i] = f
			continue
		}
		out[i] = filepath.Join(m.Dir, filepath.FromSlash(f))
	}
	return out
}
