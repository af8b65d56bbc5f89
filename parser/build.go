/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package parser extracts structured results from toolchain output:
// build diagnostics from MSBuild console text, test results from TRX
// reports with console-text fallback, and size-bounded truncation of
// raw output. Extraction is best-effort and syntactic: unmatched lines
// contribute nothing, and every pattern anchors on a literal
// error/warning keyword plus a diagnostic code so false positives stay
// out.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bytedreamer/DotNetFrameworkMCP/global"
)

// MSBuild diagnostic shapes, tried in order per line. Matching is
// case-sensitive on the error/warning keywords; codes are uppercase
// letters followed by digits (CS0103, MSB3073). MSBuild may append the
// owning project in trailing brackets.
var (
	positionedErrorPattern = regexp.MustCompile(
		`^(.+?)\((\d+),(\d+)\):\s*error\s+([A-Z]+\d+):\s*(.+?)(?:\s+\[(.+?)\])?$`)
	positionedWarningPattern = regexp.MustCompile(
		`^(.+?)\((\d+),(\d+)\):\s*warning\s+([A-Z]+\d+):\s*(.+?)(?:\s+\[(.+?)\])?$`)
	bareErrorPattern = regexp.MustCompile(
		`^(.+?):\s*error\s+([A-Z]+\d+):\s*(.+?)(?:\s+\[(.+?)\])?$`)
)

// ParseBuildOutput extracts error and warning diagnostics from build
// console text. Each trimmed line is matched against the positioned
// error shape, the positioned warning shape, then the positionless
// error fallback; the first match wins and non-matching lines are
// ignored.
func ParseBuildOutput(text string) (buildErrors, warnings []global.BuildMessage) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := positionedErrorPattern.FindStringSubmatch(line); m != nil {
			buildErrors = append(buildErrors, positionedMessage(m))
			continue
		}
		if m := positionedWarningPattern.FindStringSubmatch(line); m != nil {
			warnings = append(warnings, positionedMessage(m))
			continue
		}
		if m := bareErrorPattern.FindStringSubmatch(line); m != nil {
			buildErrors = append(buildErrors, global.BuildMessage{
				File:    m[1],
				Code:    m[2],
				Message: m[3],
				Project: m[4],
			})
		}
	}
	return buildErrors, warnings
}

func positionedMessage(m []string) global.BuildMessage {
	line, _ := strconv.Atoi(m[2])
	column, _ := strconv.Atoi(m[3])
	return global.BuildMessage{
		File:    m[1],
		Line:    line,
		Column:  column,
		Code:    m[4],
		Message: m[5],
		Project: m[6],
	}
}
