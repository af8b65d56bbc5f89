/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package executor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bytedreamer/DotNetFrameworkMCP/config"
	"github.com/bytedreamer/DotNetFrameworkMCP/execute"
	"github.com/bytedreamer/DotNetFrameworkMCP/global"
	"github.com/bytedreamer/DotNetFrameworkMCP/logging"
	"github.com/bytedreamer/DotNetFrameworkMCP/parser"
)

// dotnetBuildExecutor builds projects with the dotnet CLI instead of a
// discovered MSBuild. No toolchain probing is involved; the CLI path
// comes from configuration and is expected on PATH by default.
type dotnetBuildExecutor struct {
	config *config.Config
	logger *logging.Logger
	runner commandRunner
}

func (e *dotnetBuildExecutor) ExecuteBuild(ctx context.Context, req *global.BuildRequest) *global.BuildResult {
	maxBytes := e.config.MaxOutputBytes()

	if req.ProjectPath == "" {
		return failedBuildResult("project path is required", "", 0, maxBytes)
	}
	if !global.FileExists(req.ProjectPath) {
		return failedBuildResult(fmt.Sprintf("project file not found: %s", req.ProjectPath), "", 0, maxBytes)
	}

	e.logger.Infof("Building %s with dotnet CLI", req.ProjectPath)

	res, err := e.runner.Run(ctx, execute.Command{
		Path:    e.config.DotnetCLIPath(),
		Args:    dotnetBuildArgs(req),
		Dir:     filepath.Dir(req.ProjectPath),
		Timeout: e.config.BuildTimeout(),
	})
	if err != nil {
		output, elapsed := partialResult(res)
		return failedBuildResult(err.Error(), output, elapsed, maxBytes)
	}

	buildErrors, warnings := parser.ParseBuildOutput(res.Output)
	return &global.BuildResult{
		Success:        res.ExitCode == 0,
		Errors:         normalizeMessages(buildErrors),
		Warnings:       normalizeMessages(warnings),
		ElapsedSeconds: res.Elapsed.Seconds(),
		Output:         parser.Truncate(res.Output, maxBytes, res.ExitCode != 0),
	}
}

// dotnetBuildArgs translates a build request into dotnet CLI arguments.
// The CLI restores implicitly, so the restore flag maps to its absence.
func dotnetBuildArgs(req *global.BuildRequest) []string {
	args := []string{"build", req.ProjectPath, "--nologo", "--configuration", req.Configuration}
	if !req.Restore {
		args = append(args, "--no-restore")
	}
	if req.Platform != "" {
		args = append(args, "-p:Platform="+req.Platform)
	}
	return args
}
