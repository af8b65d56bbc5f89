/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package toolchain discovers installed MSBuild and vstest.console
// executables across Visual Studio installation roots. Discovery is a
// pure function over the filesystem and configuration: candidates are
// probed for existence only and never executed, and no result is cached
// between calls.
package toolchain

import (
	"os"
	"path/filepath"

	"github.com/bytedreamer/DotNetFrameworkMCP/global"
	"github.com/bytedreamer/DotNetFrameworkMCP/logging"
)

// Kind identifies which toolchain executable is being located.
type Kind string

const (
	KindMSBuild Kind = "msbuild"
	KindVSTest  Kind = "vstest"
)

// Installation describes a discovered toolchain executable.
type Installation struct {
	Kind    Kind   `json:"kind"`
	Version string `json:"version"` // VS year, legacy MSBuild version, or "override"
	Path    string `json:"path"`
}

// Locator probes conventional installation roots for toolchain
// executables.
type Locator struct {
	logger      *logging.Logger
	searchRoots []string
}

// Option is a functional option for configuring a Locator
type Option func(*Locator)

// WithSearchRoots overrides the default installation roots. Used by
// tests and by deployments with relocated Visual Studio installs.
func WithSearchRoots(roots []string) Option {
	return func(l *Locator) {
		l.searchRoots = roots
	}
}

// New creates a new Locator
func New(logger *logging.Logger, opts ...Option) *Locator {
	l := &Locator{
		logger:      logger,
		searchRoots: defaultSearchRoots(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// defaultSearchRoots returns the conventional Program Files locations.
// Both roots are probed for every candidate so 64-bit and 32-bit
// installs are covered regardless of year.
func defaultSearchRoots() []string {
	var roots []string
	if pf := os.Getenv("ProgramFiles"); pf != "" {
		roots = append(roots, pf)
	}
	if pf86 := os.Getenv("ProgramFiles(x86)"); pf86 != "" {
		roots = append(roots, pf86)
	}
	if len(roots) == 0 {
		roots = []string{`C:\Program Files`, `C:\Program Files (x86)`}
	}
	return roots
}

// Locate finds the toolchain executable of the given kind, honoring the
// preferred Visual Studio version hint. The boolean result is false when
// nothing was found; callers decide whether that is fatal.
//
// Search order: environment-variable override first, then the preferred
// version, then the remaining known versions newest first, then legacy
// fallback roots.
func (l *Locator) Locate(kind Kind, preferredVersion string) (Installation, bool) {
	if inst, ok := l.envOverride(kind); ok {
		return inst, true
	}

	for _, version := range l.probeOrder(preferredVersion) {
		for _, candidate := range l.candidatePaths(kind, version) {
			if global.FileExists(candidate) {
				l.logger.Debugf("Located %s %s at %s", kind, version, candidate)
				return Installation{Kind: kind, Version: version, Path: candidate}, true
			}
		}
	}

	l.logger.Debugf("No %s installation found", kind)
	return Installation{}, false
}

// envOverride checks the explicit environment-variable override for the
// kind. A set-but-missing path logs a warning and falls through to the
// normal probe.
func (l *Locator) envOverride(kind Kind) (Installation, bool) {
	var envVar string
	switch kind {
	case KindMSBuild:
		envVar = global.MSBuildPathEnvVar
	case KindVSTest:
		envVar = global.VSTestPathEnvVar
	default:
		return Installation{}, false
	}

	path := os.Getenv(envVar)
	if path == "" {
		return Installation{}, false
	}
	if !global.FileExists(path) {
		l.logger.Warnf("%s is set to %s but the path does not exist, falling back to discovery", envVar, path)
		return Installation{}, false
	}
	return Installation{Kind: kind, Version: "override", Path: path}, true
}

// probeOrder returns the version labels to probe, preferred first. An
// unrecognized preference logs a warning and yields the full ordered
// list.
func (l *Locator) probeOrder(preferred string) []string {
	known := global.KnownVSYears

	recognized := false
	for _, v := range known {
		if v == preferred {
			recognized = true
			break
		}
	}

	var order []string
	if recognized {
		order = append(order, preferred)
		for _, v := range known {
			if v != preferred {
				order = append(order, v)
			}
		}
	} else {
		if preferred != "" {
			l.logger.Warnf("Unrecognized Visual Studio version %q, probing all known versions", preferred)
		}
		order = append(order, known...)
	}

	return append(order, global.LegacyMSBuildVersions...)
}

// candidatePaths returns the conventional install paths for the kind
// and version across all search roots, edition-ordered.
func (l *Locator) candidatePaths(kind Kind, version string) []string {
	var paths []string

	for _, root := range l.searchRoots {
		switch kind {
		case KindMSBuild:
			if isLegacyVersion(version) {
				paths = append(paths, filepath.Join(root, "MSBuild", version, "Bin", "MSBuild.exe"))
				continue
			}
			// VS 2017 kept the MSBuild binaries under 15.0 instead of Current
			bin := "Current"
			if version == "2017" {
				bin = "15.0"
			}
			for _, edition := range global.VSEditions {
				paths = append(paths, filepath.Join(root,
					"Microsoft Visual Studio", version, edition, "MSBuild", bin, "Bin", "MSBuild.exe"))
			}

		case KindVSTest:
			if isLegacyVersion(version) {
				continue // no standalone vstest in legacy MSBuild installs
			}
			for _, edition := range global.VSEditions {
				paths = append(paths, filepath.Join(root,
					"Microsoft Visual Studio", version, edition,
					"Common7", "IDE", "CommonExtensions", "Microsoft", "TestWindow", "vstest.console.exe"))
			}
		}
	}

	return paths
}

func isLegacyVersion(version string) bool {
	for _, v := range global.LegacyMSBuildVersions {
		if v == version {
			return true
		}
	}
	return false
}
