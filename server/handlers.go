/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bytedreamer/DotNetFrameworkMCP/global"
)

// Helper function to create JSON tool results safely
func createJSONResult(data interface{}) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError("Failed to create JSON result"), nil
	}
	return result, nil
}

// logToolCall logs an MCP tool invocation at INFO level
func (s *Server) logToolCall(toolName string, params map[string]string) {
	var parts []string
	for k, v := range params {
		if v != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", k, v))
		}
	}
	if len(parts) == 0 {
		s.logger.Infof("Tool %s called", toolName)
		return
	}
	s.logger.Infof("Tool %s called: %s", toolName, strings.Join(parts, ", "))
}

// recordHistory appends a run-history record; recording is advisory and
// never fails the request.
func (s *Server) recordHistory(tool, target string, success bool, elapsedSeconds float64) {
	if err := s.history.Append(tool, target, success, elapsedSeconds); err != nil {
		s.logger.Warnf("Failed to record history for %s: %v", tool, err)
	}
}

func (s *Server) handleBuildProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if errResult := s.validateArguments(global.ToolBuildProject, buildProjectSchema, request); errResult != nil {
		return errResult, nil
	}

	projectPath := mcp.ParseString(request, "project_path", "")
	configuration := mcp.ParseString(request, "configuration", s.config.DefaultConfiguration())
	platform := mcp.ParseString(request, "platform", s.config.DefaultPlatform())
	restore := mcp.ParseBoolean(request, "restore", s.config.RestoreByDefault())

	s.logToolCall(global.ToolBuildProject, map[string]string{
		"project_path":  projectPath,
		"configuration": configuration,
		"platform":      platform,
	})

	if projectPath == "" {
		return mcp.NewToolResultError("project_path parameter is required"), nil
	}

	result := s.factory.BuildExecutor().ExecuteBuild(ctx, &global.BuildRequest{
		ProjectPath:   projectPath,
		Configuration: configuration,
		Platform:      platform,
		Restore:       restore,
	})

	s.recordHistory(global.ToolBuildProject, projectPath, result.Success, result.ElapsedSeconds)
	return createJSONResult(result)
}

func (s *Server) handleRunTests(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if errResult := s.validateArguments(global.ToolRunTests, runTestsSchema, request); errResult != nil {
		return errResult, nil
	}

	projectPath := mcp.ParseString(request, "project_path", "")
	filter := mcp.ParseString(request, "filter", "")
	verbose := mcp.ParseBoolean(request, "verbose", false)

	s.logToolCall(global.ToolRunTests, map[string]string{
		"project_path": projectPath,
		"filter":       filter,
	})

	if projectPath == "" {
		return mcp.NewToolResultError("project_path parameter is required"), nil
	}

	result := s.factory.TestExecutor().ExecuteTests(ctx, &global.TestRequest{
		ProjectPath: projectPath,
		Filter:      filter,
		Verbose:     verbose,
	})

	s.recordHistory(global.ToolRunTests, projectPath, result.Failed == 0 && result.Total > 0, result.ElapsedSeconds)
	return createJSONResult(result)
}
