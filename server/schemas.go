/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xeipuuv/gojsonschema"
)

// Argument schemas for the exposed tools. Validation runs before any
// parameter is read so malformed requests never reach an executor.
const buildProjectSchema = `{
  "type": "object",
  "required": ["project_path"],
  "additionalProperties": false,
  "properties": {
    "project_path": {"type": "string", "minLength": 1},
    "configuration": {"type": "string"},
    "platform": {"type": "string"},
    "restore": {"type": "boolean"}
  }
}`

const runTestsSchema = `{
  "type": "object",
  "required": ["project_path"],
  "additionalProperties": false,
  "properties": {
    "project_path": {"type": "string", "minLength": 1},
    "filter": {"type": "string"},
    "verbose": {"type": "boolean"}
  }
}`

// validateArguments checks the request arguments against the tool's
// schema. Returns nil when valid; otherwise an error result describing
// every violation. A validator malfunction is logged and treated as
// valid so a server-side bug never blocks clients.
func (s *Server) validateArguments(toolName, schema string, request mcp.CallToolRequest) *mcp.CallToolResult {
	data, err := json.Marshal(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid %s arguments: %v", toolName, err))
	}

	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		s.logger.Warnf("Schema validation failed for %s: %v", toolName, err)
		return nil
	}
	if result.Valid() {
		return nil
	}

	var msgs []string
	for _, desc := range result.Errors() {
		msgs = append(msgs, formatValidationError(desc.String()))
	}
	return mcp.NewToolResultError(fmt.Sprintf("invalid %s arguments: %s", toolName, strings.Join(msgs, "; ")))
}

// formatValidationError converts technical validation errors to
// user-friendly messages.
func formatValidationError(rawError string) string {
	// "(root): field is required" -> "Missing required field: field"
	if strings.Contains(rawError, "is required") {
		parts := strings.SplitN(rawError, ": ", 2)
		if len(parts) == 2 {
			return fmt.Sprintf("Missing required field: %s", strings.TrimSuffix(parts[1], " is required"))
		}
	}

	// "(root): Additional property x is not allowed" -> "Unexpected field: x"
	if strings.Contains(rawError, "Additional property") {
		parts := strings.SplitN(rawError, "Additional property ", 2)
		if len(parts) == 2 {
			return fmt.Sprintf("Unexpected field: %s", strings.TrimSuffix(parts[1], " is not allowed"))
		}
	}

	// "field: Invalid type. Expected: string, given: number"
	if strings.Contains(rawError, "Invalid type") {
		parts := strings.SplitN(rawError, ": Invalid type. ", 2)
		if len(parts) == 2 {
			typeInfo := strings.ReplaceAll(parts[1], "Expected: ", "expected ")
			typeInfo = strings.ReplaceAll(typeInfo, ", given: ", ", got ")
			return fmt.Sprintf("Field '%s': %s", parts[0], typeInfo)
		}
	}

	return strings.TrimPrefix(rawError, "(root): ")
}
