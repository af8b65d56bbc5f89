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
	"github.com/bytedreamer/DotNetFrameworkMCP/toolchain"
)

// vstestExecutor runs tests with a discovered vstest.console.exe
// against the project's built assembly, collecting a TRX report written
// to a private per-invocation temp path.
type vstestExecutor struct {
	config  *config.Config
	logger  *logging.Logger
	locator toolLocator
	runner  commandRunner
}

func (e *vstestExecutor) ExecuteTests(ctx context.Context, req *global.TestRequest) *global.TestResult {
	maxBytes := e.config.MaxOutputBytes()

	if req.ProjectPath == "" {
		return failedTestResult("project path is required", "", 0, maxBytes)
	}
	if !global.FileExists(req.ProjectPath) {
		return failedTestResult(fmt.Sprintf("test project not found: %s", req.ProjectPath), "", 0, maxBytes)
	}

	framework := DetectFramework(req.ProjectPath)
	e.logger.Infof("Detected test framework %q for %s", framework, req.ProjectPath)

	assembly, err := findTestAssembly(req.ProjectPath, e.config.DefaultConfiguration())
	if err != nil {
		return failedTestResult(err.Error(), "", 0, maxBytes)
	}

	inst, ok := e.locator.Locate(toolchain.KindVSTest, e.config.PreferredVSVersion())
	if !ok {
		return failedTestResult("vstest.console not found: no Visual Studio test platform installation detected", "", 0, maxBytes)
	}
	e.logger.Infof("Running tests in %s with vstest %s", assembly, inst.Version)

	resultsDir, err := os.MkdirTemp("", "vstest-run-")
	if err != nil {
		return failedTestResult(fmt.Sprintf("failed to create results directory: %v", err), "", 0, maxBytes)
	}
	defer func() { _ = os.RemoveAll(resultsDir) }()

	trxName := uuid.New().String() + ".trx"
	args := []string{
		assembly,
		"/Logger:trx;LogFileName=" + trxName,
		"/ResultsDirectory:" + resultsDir,
	}
	if adapter := DiscoverAdapterPath(filepath.Dir(req.ProjectPath), framework); adapter != "" {
		e.logger.Debugf("Using test adapter path %s", adapter)
		args = append(args, "/TestAdapterPath:"+adapter)
	}
	if req.Filter != "" {
		args = append(args, "/TestCaseFilter:"+req.Filter)
	}

	res, err := e.runner.Run(ctx, execute.Command{
		Path:    inst.Path,
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
