/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bytedreamer/DotNetFrameworkMCP/config"
	"github.com/bytedreamer/DotNetFrameworkMCP/global"
	"github.com/bytedreamer/DotNetFrameworkMCP/history"
	"github.com/bytedreamer/DotNetFrameworkMCP/logging"
	"github.com/bytedreamer/DotNetFrameworkMCP/server"
)

func main() {
	// Top-level panic recovery
	defer func() {
		if rec := recover(); rec != nil {
			_, _ = fmt.Fprintf(os.Stderr, "FATAL PANIC: %v\n", rec)
			os.Exit(2)
		}
	}()

	// Parse command line flags
	var (
		configPath = flag.String("config", "", "Path to configuration file")
		transport  = flag.String("transport", "", "Transport mode: stdio or tcp (overrides config)")
		listen     = flag.String("listen", "", "TCP listen address (overrides config)")
		historyN   = flag.Int("history", 0, "Print the last N recorded runs and exit")
		version    = flag.Bool("version", false, "Show version information")
		help       = flag.Bool("help", false, "Show help information")
	)
	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", global.ProgramName, global.Version)
		return
	}

	if *help {
		showHelp()
		return
	}

	var opts []config.Option
	if *configPath != "" {
		opts = append(opts, config.WithConfigPath(*configPath))
	}
	cfg := config.New(opts...)

	// Load and validate configuration
	if err := cfg.Load(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	cfg.SetTransport(*transport, *listen)

	// Initialize logger with config path
	logger, err := logging.New(cfg.LogFile())
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func(logger *logging.Logger) {
		// Ensure logs are flushed before exit
		_ = logger.Sync()
		_ = logger.Close()
	}(logger)

	logger.SetLevel(cfg.LogLevel())

	if *historyN > 0 {
		if err := showHistory(cfg, logger, *historyN); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to read history: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Announce startup
	logger.Infof("%s v%s starting", global.ProgramName, global.Version)

	if cfg.IsFirstRun() {
		logger.Infof("First run detected - created default configuration at %s", cfg.ConfigPath())
	}

	if cfg.UseDotnetCLI() {
		logger.Infof("Using dotnet CLI strategy (%s)", cfg.DotnetCLIPath())
	} else {
		logger.Infof("Using MSBuild/vstest strategy (preferred Visual Studio %s)", cfg.PreferredVSVersion())
	}

	// Create and start server
	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.Run(); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}

// showHistory prints the most recent recorded build and test runs.
func showHistory(cfg *config.Config, logger *logging.Logger, limit int) error {
	recorder := history.New(cfg.HistoryPath(), logger)
	if !recorder.Enabled() {
		fmt.Println("History recording is disabled (history_file is empty)")
		return nil
	}

	records, err := recorder.Recent(limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No recorded runs")
		return nil
	}

	for _, rec := range records {
		status := "ok"
		if !rec.Success {
			status = "failed"
		}
		fmt.Printf("%s  %-13s %-6s %8.1fs  %s\n",
			rec.Timestamp.Format("2006-01-02 15:04:05"), rec.Tool, status, rec.ElapsedSeconds, rec.Target)
	}
	return nil
}

func showHelp() {
	fmt.Printf(`%s v%s - MCP Server for .NET Framework builds and tests

USAGE:
    %s [OPTIONS]

OPTIONS:
    --config PATH       Path to configuration file
                        (default: $%s or %s/%s)
    --transport MODE    Transport mode: stdio or tcp (overrides config)
    --listen ADDR       TCP listen address (overrides config)
    --history N         Print the last N recorded runs and exit
    --version           Show version information
    --help              Show this help message

DESCRIPTION:
    %s is a Model Context Protocol (MCP) server that builds
    .NET projects and runs their tests on behalf of remote clients:

    - build_project: builds a .csproj or .sln with MSBuild or the
      dotnet CLI and returns parsed errors and warnings
    - run_tests: runs a test project with vstest.console or the
      dotnet CLI and returns per-test outcomes

    MSBuild and vstest.console are discovered across Visual Studio
    2022/2019/2017 installations and legacy MSBuild roots. Set
    %s or %s to pin explicit executable paths.

CONFIGURATION:
    The JSON (or YAML) configuration file controls the default build
    configuration and platform, timeouts, the preferred Visual Studio
    version, the dotnet CLI switch, output truncation, transport, and
    logging. A default configuration is created on first run.

EXAMPLES:
    # Start on stdio with default config
    %s

    # Start a TCP server
    %s --transport tcp --listen 127.0.0.1:3001

    # Show version
    %s --version
`, global.ProgramName, global.Version,
		global.ProgramName,
		global.ConfigEnvVar, global.DefaultBaseDir, global.DefaultConfigFileName,
		global.ProgramName,
		global.MSBuildPathEnvVar, global.VSTestPathEnvVar,
		global.ProgramName,
		global.ProgramName,
		global.ProgramName)
}
