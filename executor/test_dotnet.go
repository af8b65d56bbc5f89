/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bytedreamer/DotNetFrameworkMCP/config"
	"github.com/bytedreamer/DotNetFrameworkMCP/execute"
	"github.com/bytedreamer/DotNetFrameworkMCP/global"
	"github.com/bytedreamer/DotNetFrameworkMCP/logging"
	"github.com/bytedreamer/DotNetFrameworkMCP/parser"
)

// dotnetTestExecutor runs tests through `dotnet test`, which builds the
// project and resolves adapters itself. Framework detection still runs
// for logging parity with the vstest strategy.
type dotnetTestExecutor struct {
	config *config.Config
	logger *logging.Logger
	runner commandRunner
}

func (e *dotnetTestExecutor) ExecuteTests(ctx context.Context, req *global.TestRequest) *global.TestResult {
	maxBytes := e.config.MaxOutputBytes()

	if req.ProjectPath == "" {
		return failedTestResult("project path is required", "", 0, maxBytes)
	}
	if !global.FileExists(req.ProjectPath) {
		return failedTestResult(fmt.Sprintf("test project not found: %s", req.ProjectPath), "", 0, maxBytes)
	}

	framework := DetectFramework(req.ProjectPath)
	e.logger.Infof("Running tests in %s with dotnet CLI (framework %q)", req.ProjectPath, framework)

	resultsDir, err := os.MkdirTemp("", "dotnet-test-")
	if err != nil {
		return failedTestResult(fmt.Sprintf("failed to create results directory: %v", err), "", 0, maxBytes)
	}
	defer func() { _ = os.RemoveAll(resultsDir) }()

	trxName := uuid.New().String() + ".trx"
	args := []string{
		"test", req.ProjectPath,
		"--nologo",
		"--logger", "trx;LogFileName=" + trxName,
		"--results-directory", resultsDir,
	}
	if req.Filter != "" {
		args = append(args, "--filter", req.Filter)
	}
	if req.Verbose {
		args = append(args, "--verbosity", "detailed")
	}

	res, err := e.runner.Run(ctx, execute.Command{
		Path:    e.config.DotnetCLIPath(),
		Args:    args,
		Dir:     filepath.Dir(req.ProjectPath),
		Timeout: e.config.TestTimeout(),
	})
	if err != nil {
		output, elapsed := partialResult(res)
		return failedTestResult(err.Error(), output, elapsed, maxBytes)
	}

	result := parser.ParseTestResults(filepath.Join(resultsDir, trxName), res.Output)
	result.ElapsedSeconds = res.Elapsed.Seconds()
	result.Output = parser.Truncate(res.Output, maxBytes, res.ExitCode != 0 || result.Failed > 0)
	return result
}
