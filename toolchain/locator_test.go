/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package toolchain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedreamer/DotNetFrameworkMCP/logging"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	logger, err := logging.New(filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	t.Cleanup(func() { _ = logger.Close() })
	return logger
}

// plantMSBuild creates an empty MSBuild.exe under the conventional path
// for the given root, year and edition.
func plantMSBuild(t *testing.T, root, year, edition string) string {
	t.Helper()
	bin := "Current"
	if year == "2017" {
		bin = "15.0"
	}
	path := filepath.Join(root, "Microsoft Visual Studio", year, edition, "MSBuild", bin, "Bin", "MSBuild.exe")
	plantFile(t, path)
	return path
}

func plantVSTest(t *testing.T, root, year, edition string) string {
	t.Helper()
	path := filepath.Join(root, "Microsoft Visual Studio", year, edition,
		"Common7", "IDE", "CommonExtensions", "Microsoft", "TestWindow", "vstest.console.exe")
	plantFile(t, path)
	return path
}

func plantFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, nil, 0755); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLocatePrefersConfiguredVersion(t *testing.T) {
	root := t.TempDir()
	plantMSBuild(t, root, "2022", "Enterprise")
	want := plantMSBuild(t, root, "2019", "Community")

	locator := New(testLogger(t), WithSearchRoots([]string{root}))
	inst, ok := locator.Locate(KindMSBuild, "2019")

	if !ok {
		t.Fatal("expected an installation")
	}
	if inst.Version != "2019" {
		t.Errorf("Version = %q, want 2019 despite newer install present", inst.Version)
	}
	if inst.Path != want {
		t.Errorf("Path = %q, want %q", inst.Path, want)
	}
}

func TestLocateFallsBackToNewestWhenPreferredMissing(t *testing.T) {
	root := t.TempDir()
	plantMSBuild(t, root, "2022", "Professional")
	plantMSBuild(t, root, "2017", "Community")

	locator := New(testLogger(t), WithSearchRoots([]string{root}))
	inst, ok := locator.Locate(KindMSBuild, "2019")

	if !ok {
		t.Fatal("expected an installation")
	}
	if inst.Version != "2022" {
		t.Errorf("Version = %q, want newest available 2022", inst.Version)
	}
}

func TestLocateUnrecognizedPreferenceProbesAll(t *testing.T) {
	root := t.TempDir()
	want := plantMSBuild(t, root, "2022", "BuildTools")

	locator := New(testLogger(t), WithSearchRoots([]string{root}))
	inst, ok := locator.Locate(KindMSBuild, "2031")

	if !ok || inst.Path != want {
		t.Errorf("got (%+v, %v), want path %q", inst, ok, want)
	}
}

func TestLocateEditionOrder(t *testing.T) {
	root := t.TempDir()
	want := plantMSBuild(t, root, "2022", "Enterprise")
	plantMSBuild(t, root, "2022", "Community")

	locator := New(testLogger(t), WithSearchRoots([]string{root}))
	inst, _ := locator.Locate(KindMSBuild, "2022")

	if inst.Path != want {
		t.Errorf("Path = %q, want Enterprise ahead of Community", inst.Path)
	}
}

func TestLocateLegacyMSBuild(t *testing.T) {
	root := t.TempDir()
	want := filepath.Join(root, "MSBuild", "14.0", "Bin", "MSBuild.exe")
	plantFile(t, want)

	locator := New(testLogger(t), WithSearchRoots([]string{root}))
	inst, ok := locator.Locate(KindMSBuild, "2022")

	if !ok {
		t.Fatal("expected legacy installation")
	}
	if inst.Version != "14.0" || inst.Path != want {
		t.Errorf("got %+v, want version 14.0 at %q", inst, want)
	}
}

func TestLocateVSTest(t *testing.T) {
	root := t.TempDir()
	want := plantVSTest(t, root, "2022", "Community")

	locator := New(testLogger(t), WithSearchRoots([]string{root}))
	inst, ok := locator.Locate(KindVSTest, "2022")

	if !ok || inst.Path != want {
		t.Errorf("got (%+v, %v), want path %q", inst, ok, want)
	}
}

func TestLocateNothingFound(t *testing.T) {
	locator := New(testLogger(t), WithSearchRoots([]string{t.TempDir()}))
	if _, ok := locator.Locate(KindVSTest, "2022"); ok {
		t.Error("expected ok=false for empty search root")
	}
}

func TestLocateEnvOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "custom", "MSBuild.exe")
	plantFile(t, override)
	t.Setenv("MCP_MSBUILD_PATH", override)

	locator := New(testLogger(t), WithSearchRoots([]string{t.TempDir()}))
	inst, ok := locator.Locate(KindMSBuild, "2022")

	if !ok {
		t.Fatal("expected the override installation")
	}
	if inst.Version != "override" || inst.Path != override {
		t.Errorf("got %+v, want override at %q", inst, override)
	}
}

func TestLocateEnvOverrideMissingFallsThrough(t *testing.T) {
	t.Setenv("MCP_MSBUILD_PATH", filepath.Join(t.TempDir(), "nope", "MSBuild.exe"))

	root := t.TempDir()
	want := plantMSBuild(t, root, "2022", "Enterprise")

	locator := New(testLogger(t), WithSearchRoots([]string{root}))
	inst, ok := locator.Locate(KindMSBuild, "2022")

	if !ok || inst.Path != want {
		t.Errorf("got (%+v, %v), want discovery result %q", inst, ok, want)
	}
}
