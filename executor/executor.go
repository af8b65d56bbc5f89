/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package executor orchestrates one build or test-run request through
// toolchain discovery, subprocess execution, output parsing and
// truncation. Two strategies exist per role (MSBuild/vstest and the
// dotnet CLI); a factory selects one per request from configuration.
//
// Executors never raise past their boundary: every failure mode
// (missing file, missing toolchain, timeout, cancellation, launch
// failure) becomes a synthetic failure result so the caller always has
// a structured payload to serialize.
package executor

import (
	"context"

	"github.com/bytedreamer/DotNetFrameworkMCP/config"
	"github.com/bytedreamer/DotNetFrameworkMCP/execute"
	"github.com/bytedreamer/DotNetFrameworkMCP/global"
	"github.com/bytedreamer/DotNetFrameworkMCP/logging"
	"github.com/bytedreamer/DotNetFrameworkMCP/parser"
	"github.com/bytedreamer/DotNetFrameworkMCP/toolchain"
)

// BuildExecutor satisfies one build request.
type BuildExecutor interface {
	ExecuteBuild(ctx context.Context, req *global.BuildRequest) *global.BuildResult
}

// TestExecutor satisfies one test-run request.
type TestExecutor interface {
	ExecuteTests(ctx context.Context, req *global.TestRequest) *global.TestResult
}

// commandRunner abstracts the subprocess runner for testing.
type commandRunner interface {
	Run(ctx context.Context, cmd execute.Command) (*execute.Result, error)
}

// toolLocator abstracts toolchain discovery for testing.
type toolLocator interface {
	Locate(kind toolchain.Kind, preferredVersion string) (toolchain.Installation, bool)
}

// Factory selects executor strategies from process-wide configuration.
type Factory struct {
	config  *config.Config
	logger  *logging.Logger
	locator toolLocator
	runner  commandRunner
}

// NewFactory creates a new Factory with the real locator and runner
func NewFactory(cfg *config.Config, logger *logging.Logger) *Factory {
	return &Factory{
		config:  cfg,
		logger:  logger,
		locator: toolchain.New(logger),
		runner:  execute.New(logger),
	}
}

// BuildExecutor returns the configured build strategy
func (f *Factory) BuildExecutor() BuildExecutor {
	if f.config.UseDotnetCLI() {
		return &dotnetBuildExecutor{config: f.config, logger: f.logger, runner: f.runner}
	}
	return &msbuildExecutor{config: f.config, logger: f.logger, locator: f.locator, runner: f.runner}
}

// TestExecutor returns the configured test strategy
func (f *Factory) TestExecutor() TestExecutor {
	if f.config.UseDotnetCLI() {
		return &dotnetTestExecutor{config: f.config, logger: f.logger, runner: f.runner}
	}
	return &vstestExecutor{config: f.config, logger: f.logger, locator: f.locator, runner: f.runner}
}

// failedBuildResult builds the synthetic failure shape for a build that
// could not complete. The reason travels as a single error message so
// remote clients always get a structured explanation.
func failedBuildResult(reason, output string, elapsedSeconds float64, maxOutputBytes int) *global.BuildResult {
	return &global.BuildResult{
		Success:        false,
		Errors:         []global.BuildMessage{{Message: reason}},
		Warnings:       []global.BuildMessage{},
		ElapsedSeconds: elapsedSeconds,
		Output:         parser.Truncate(output, maxOutputBytes, true),
	}
}

// failedTestResult builds the synthetic failure shape for a test run
// that could not complete, keeping the count/details invariant intact.
func failedTestResult(reason, output string, elapsedSeconds float64, maxOutputBytes int) *global.TestResult {
	result := &global.TestResult{
		ElapsedSeconds: elapsedSeconds,
		Details: []global.TestDetail{{
			Method:       "TestRun",
			Outcome:      global.OutcomeFailed,
			ErrorMessage: reason,
		}},
		Output: parser.Truncate(output, maxOutputBytes, true),
	}
	result.CountOutcomes()
	return result
}

// normalizeMessages replaces nil slices so results serialize as empty
// JSON arrays rather than null.
func normalizeMessages(msgs []global.BuildMessage) []global.BuildMessage {
	if msgs == nil {
		return []global.BuildMessage{}
	}
	return msgs
}
