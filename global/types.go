/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package global

// BuildRequest represents one build invocation. Missing optional fields
// are filled from process-wide configuration before execution.
type BuildRequest struct {
	ProjectPath   string `json:"project_path"`            // Path to .csproj or .sln (required)
	Configuration string `json:"configuration,omitempty"` // e.g. "Debug", "Release"
	Platform      string `json:"platform,omitempty"`      // e.g. "Any CPU", "x64"
	Restore       bool   `json:"restore,omitempty"`       // Restore NuGet packages before building
}

// BuildMessage is a single diagnostic extracted from build output.
// Severity is implied by whether it sits in Errors or Warnings.
type BuildMessage struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code,omitempty"` // e.g. "CS0103", "MSB3073"
	Message string `json:"message"`
	Project string `json:"project,omitempty"` // Owning project when MSBuild appends it
}

// BuildResult is the structured outcome of a build invocation.
// Success tracks the subprocess exit code; Errors and Warnings come from
// output parsing and are independent signals (both may disagree with
// the exit code).
type BuildResult struct {
	Success        bool           `json:"success"`
	Errors         []BuildMessage `json:"errors"`
	Warnings       []BuildMessage `json:"warnings"`
	ElapsedSeconds float64        `json:"elapsed_seconds"`
	Output         string         `json:"output"` // Raw console output, size-bounded
}

// TestRequest represents one test-run invocation.
type TestRequest struct {
	ProjectPath string `json:"project_path"`      // Path to the test project (required)
	Filter      string `json:"filter,omitempty"`  // Test case filter expression
	Verbose     bool   `json:"verbose,omitempty"` // Request detailed runner output
}

// TestDetail is the result of a single executed test.
type TestDetail struct {
	Method          string  `json:"method"`
	ClassName       string  `json:"class_name,omitempty"`
	Outcome         string  `json:"outcome"` // OutcomePassed, OutcomeFailed or OutcomeSkipped
	DurationSeconds float64 `json:"duration_seconds"`
	ErrorMessage    string  `json:"error_message,omitempty"`
	StackTrace      string  `json:"stack_trace,omitempty"`
}

// TestResult is the structured outcome of a test-run invocation.
// Total always equals Passed+Failed+Skipped, and each count equals the
// number of Details entries with the matching outcome.
type TestResult struct {
	Total          int          `json:"total"`
	Passed         int          `json:"passed"`
	Failed         int          `json:"failed"`
	Skipped        int          `json:"skipped"`
	ElapsedSeconds float64      `json:"elapsed_seconds"`
	Details        []TestDetail `json:"details"`
	Output         string       `json:"output"` // Raw console output, size-bounded
}

// CountOutcomes recomputes the per-outcome counters from Details.
// Unrecognized outcomes count as skipped.
func (r *TestResult) CountOutcomes() {
	r.Passed, r.Failed, r.Skipped = 0, 0, 0
	for _, d := range r.Details {
		switch d.Outcome {
		case OutcomePassed:
			r.Passed++
		case OutcomeFailed:
			r.Failed++
		default:
			r.Skipped++
		}
	}
	r.Total = len(r.Details)
}
