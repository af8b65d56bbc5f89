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
	"github.com/bytedreamer/DotNetFrameworkMCP/toolchain"
)

// msbuildExecutor builds .NET Framework projects with a discovered
// MSBuild.exe.
type msbuildExecutor struct {
	config  *config.Config
	logger  *logging.Logger
	locator toolLocator
	runner  commandRunner
}

func (e *msbuildExecutor) ExecuteBuild(ctx context.Context, req *global.BuildRequest) *global.BuildResult {
	maxBytes := e.config.MaxOutputBytes()

	if req.ProjectPath == "" {
		return failedBuildResult("project path is required", "", 0, maxBytes)
	}
	if !global.FileExists(req.ProjectPath) {
		return failedBuildResult(fmt.Sprintf("project file not found: %s", req.ProjectPath), "", 0, maxBytes)
	}

	inst, ok := e.locator.Locate(toolchain.KindMSBuild, e.config.PreferredVSVersion())
	if !ok {
		return failedBuildResult("MSBuild not found: no Visual Studio or standalone MSBuild installation detected", "", 0, maxBytes)
	}
	e.logger.Infof("Building %s with MSBuild %s (%s)", req.ProjectPath, inst.Version, inst.Path)

	res, err := e.runner.Run(ctx, execute.Command{
		Path:    inst.Path,
		Args:    msbuildArgs(req),
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

// msbuildArgs translates a build request into MSBuild switches.
func msbuildArgs(req *global.BuildRequest) []string {
	args := []string{req.ProjectPath, "/nologo", "/verbosity:minimal"}
	if req.Restore {
		args = append(args, "/restore")
	}
	args = append(args,
		"/p:Configuration="+req.Configuration,
		"/p:Platform="+req.Platform,
	)
	return args
}

// partialResult extracts whatever output and timing survived a failed
// invocation.
func partialResult(res *execute.Result) (string, float64) {
	if res == nil {
		return "", 0
	}
	return res.Output, res.Elapsed.Seconds()
}
