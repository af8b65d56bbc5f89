/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package executor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedreamer/DotNetFrameworkMCP/global"
)

// frameworkMarkers map each framework to the substrings that identify
// it in project files and packages.config, in detection priority order.
var frameworkMarkers = []struct {
	framework string
	markers   []string
}{
	{global.FrameworkNUnit, []string{"nunit"}},
	{global.FrameworkXUnit, []string{"xunit"}},
	{global.FrameworkMSTest, []string{"mstest", "microsoft.visualstudio.testplatform", "microsoft.visualstudio.qualitytools"}},
}

// adapterPackagePrefix maps each framework to its NuGet test-adapter
// package name prefix.
var adapterPackagePrefix = map[string]string{
	global.FrameworkNUnit:  "nunit3testadapter",
	global.FrameworkXUnit:  "xunit.runner.visualstudio",
	global.FrameworkMSTest: "mstest.testadapter",
}

// maxAdapterSearchDepth bounds the upward walk for a packages
// directory.
const maxAdapterSearchDepth = 6

// DetectFramework sniffs the test framework from the project's declared
// dependencies. Detection is advisory: failure to read anything yields
// the generic framework rather than an error.
func DetectFramework(projectPath string) string {
	projDir := filepath.Dir(projectPath)

	var content strings.Builder
	if data, err := os.ReadFile(projectPath); err == nil {
		content.Write(data)
	}
	if data, err := os.ReadFile(filepath.Join(projDir, "packages.config")); err == nil {
		content.Write(data)
	}

	declared := strings.ToLower(content.String())
	for _, candidate := range frameworkMarkers {
		for _, marker := range candidate.markers {
			if strings.Contains(declared, marker) {
				return candidate.framework
			}
		}
	}
	return global.FrameworkGeneric
}

// DiscoverAdapterPath searches upward from the project directory for a
// NuGet packages directory containing the framework's test-adapter
// package. Returns "" when nothing is found; the runner then relies on
// its built-in adapters.
func DiscoverAdapterPath(projectDir, framework string) string {
	prefix, ok := adapterPackagePrefix[framework]
	if !ok {
		return ""
	}

	dir := projectDir
	for i := 0; i < maxAdapterSearchDepth; i++ {
		packagesDir := filepath.Join(dir, "packages")
		if global.DirExists(packagesDir) {
			if adapter := findAdapterPackage(packagesDir, prefix); adapter != "" {
				return adapter
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func findAdapterPackage(packagesDir, prefix string) string {
	entries, err := os.ReadDir(packagesDir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(strings.ToLower(entry.Name()), prefix) {
			return filepath.Join(packagesDir, entry.Name())
		}
	}
	return ""
}

// findTestAssembly resolves the built test assembly under the project's
// bin tree. Candidates matching the requested configuration's directory
// win over others; among equals the newest write wins.
func findTestAssembly(projectPath, configuration string) (string, error) {
	projDir := filepath.Dir(projectPath)
	base := filepath.Base(projectPath)
	assemblyName := strings.TrimSuffix(base, filepath.Ext(base)) + ".dll"
	binDir := filepath.Join(projDir, "bin")

	configSegment := string(os.PathSeparator) + strings.ToLower(configuration) + string(os.PathSeparator)

	var best string
	var bestPreferred bool
	var bestModTime int64

	_ = filepath.WalkDir(binDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.EqualFold(d.Name(), assemblyName) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		preferred := strings.Contains(strings.ToLower(path), configSegment)
		modTime := info.ModTime().UnixNano()
		if best == "" ||
			(preferred && !bestPreferred) ||
			(preferred == bestPreferred && modTime > bestModTime) {
			best, bestPreferred, bestModTime = path, preferred, modTime
		}
		return nil
	})

	if best == "" {
		return "", fmt.Errorf("test assembly %s not found under %s: build the project first", assemblyName, binDir)
	}
	return best, nil
}
