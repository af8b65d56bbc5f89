/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package global

import "fmt"

//goland:noinspection GoCommentStart,GoUnusedConst
const (
	// Configuration constants
	ConfigEnvVar          = "DOTNET_MCP_CONFIG"
	DefaultBaseDir        = "~/.dotnet-framework-mcp"
	DefaultConfigFileName = "config.json"
	DefaultHistoryName    = "history.jsonl"

	// Toolchain override environment variables. When set to an existing
	// path, discovery uses the value verbatim and skips probing.
	MSBuildPathEnvVar = "MCP_MSBUILD_PATH"
	VSTestPathEnvVar  = "MCP_VSTEST_PATH"

	// MCP Tool Names
	ToolBuildProject = "build_project"
	ToolRunTests     = "run_tests"

	// Transport modes
	TransportStdio = "stdio"
	TransportTCP   = "tcp"

	// Default Values
	DefaultConfiguration   = "Debug"
	DefaultPlatform        = "Any CPU"
	DefaultBuildTimeout    = 300 // seconds
	DefaultTestTimeout     = 600 // seconds
	MinTimeout             = 10  // seconds
	MaxTimeoutLimit        = 3600
	DefaultMaxOutputBytes  = 50000
	MinOutputBytes         = 1024
	DefaultDotnetCLIPath   = "dotnet"
	DefaultListenAddress   = "127.0.0.1:3001"
	DefaultPreferredVSYear = "2022"

	// Test outcome values (normalized set, see TestDetail)
	OutcomePassed  = "Passed"
	OutcomeFailed  = "Failed"
	OutcomeSkipped = "Skipped"

	// Test framework identifiers, in detection priority order
	FrameworkNUnit   = "nunit"
	FrameworkXUnit   = "xunit"
	FrameworkMSTest  = "mstest"
	FrameworkGeneric = "generic"

	// Log Levels
	LogLevelDebug = "DEBUG"
	LogLevelInfo  = "INFO"
	LogLevelWarn  = "WARN"
	LogLevelError = "ERROR"
	LogLevelFatal = "FATAL"
)

// KnownVSYears lists the Visual Studio release years probed during
// toolchain discovery, newest first.
var KnownVSYears = []string{"2022", "2019", "2017"}

// VSEditions lists installation edition directories in probe order.
var VSEditions = []string{"Enterprise", "Professional", "Community", "BuildTools"}

// LegacyMSBuildVersions lists standalone MSBuild versions probed after
// all Visual Studio years.
var LegacyMSBuildVersions = []string{"14.0", "12.0"}

// ValidateTimeout validates and normalizes a timeout value in seconds.
// Returns def when timeout is 0, or an error when out of bounds.
func ValidateTimeout(timeout, def int) (int, error) {
	if timeout == 0 {
		return def, nil
	}
	if timeout < MinTimeout {
		return 0, fmt.Errorf("timeout must be at least %d seconds", MinTimeout)
	}
	if timeout > MaxTimeoutLimit {
		return 0, fmt.Errorf("timeout must be at most %d seconds", MaxTimeoutLimit)
	}
	return timeout, nil
}
