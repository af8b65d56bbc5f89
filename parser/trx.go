/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package parser

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/bytedreamer/DotNetFrameworkMCP/global"
)

// TRX document shapes. Only the attributes and elements this bridge
// consumes are mapped.
type trxTestRun struct {
	XMLName xml.Name `xml:"TestRun"`
	Results struct {
		UnitTestResults []trxUnitTestResult `xml:"UnitTestResult"`
	} `xml:"Results"`
	TestDefinitions struct {
		UnitTests []trxUnitTest `xml:"UnitTest"`
	} `xml:"TestDefinitions"`
}

type trxUnitTestResult struct {
	TestID   string `xml:"testId,attr"`
	TestName string `xml:"testName,attr"`
	Outcome  string `xml:"outcome,attr"`
	Duration string `xml:"duration,attr"`
	Output   struct {
		ErrorInfo struct {
			Message    string `xml:"Message"`
			StackTrace string `xml:"StackTrace"`
		} `xml:"ErrorInfo"`
	} `xml:"Output"`
}

type trxUnitTest struct {
	ID         string `xml:"id,attr"`
	TestMethod struct {
		ClassName string `xml:"className,attr"`
		Name      string `xml:"name,attr"`
	} `xml:"TestMethod"`
}

// ParseTestResults builds a TestResult from a structured TRX report,
// falling back to console-text heuristics when the report is absent,
// unreadable, or empty. The caller remains responsible for
// ElapsedSeconds and Output.
func ParseTestResults(reportPath, consoleOutput string) *global.TestResult {
	if details, ok := parseTRXFile(reportPath); ok {
		result := &global.TestResult{Details: details}
		result.CountOutcomes()
		return result
	}
	return parseConsoleResults(consoleOutput)
}

// parseTRXFile reads and parses a TRX report. Returns ok=false when the
// file is missing, undecodable, or yields zero result records.
func parseTRXFile(path string) ([]global.TestDetail, bool) {
	if path == "" {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	// Test runners emit TRX as UTF-8 or UTF-16 with a BOM depending on
	// platform; normalize to UTF-8 before the XML decoder sees it.
	decoded, err := decodeReportBytes(data)
	if err != nil {
		return nil, false
	}

	var run trxTestRun
	if err := xml.Unmarshal(decoded, &run); err != nil {
		return nil, false
	}
	if len(run.Results.UnitTestResults) == 0 {
		return nil, false
	}

	classByID := make(map[string]string, len(run.TestDefinitions.UnitTests))
	for _, def := range run.TestDefinitions.UnitTests {
		classByID[def.ID] = def.TestMethod.ClassName
	}

	details := make([]global.TestDetail, 0, len(run.Results.UnitTestResults))
	for _, res := range run.Results.UnitTestResults {
		detail := global.TestDetail{
			Method:          res.TestName,
			ClassName:       classByID[res.TestID],
			Outcome:         normalizeOutcome(res.Outcome),
			DurationSeconds: parseTRXDuration(res.Duration),
		}
		if detail.Outcome == global.OutcomeFailed {
			detail.ErrorMessage = strings.TrimSpace(res.Output.ErrorInfo.Message)
			detail.StackTrace = strings.TrimSpace(res.Output.ErrorInfo.StackTrace)
		}
		details = append(details, detail)
	}
	return details, true
}

// decodeReportBytes converts report bytes to UTF-8, honoring a UTF-8,
// UTF-16LE or UTF-16BE byte order mark when present.
func decodeReportBytes(data []byte) ([]byte, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return io.ReadAll(transform.NewReader(bytes.NewReader(data), decoder))
}

// normalizeOutcome folds TRX outcome values into the supported set.
// Anything not executed or unrecognized (NotExecuted, Inconclusive,
// Pending, ...) counts as skipped.
func normalizeOutcome(outcome string) string {
	switch outcome {
	case "Passed":
		return global.OutcomePassed
	case "Failed":
		return global.OutcomeFailed
	default:
		return global.OutcomeSkipped
	}
}

// parseTRXDuration parses the hh:mm:ss.fffffff duration attribute,
// returning seconds. Unparsable durations yield 0.
func parseTRXDuration(s string) float64 {
	if s == "" {
		return 0
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0
	}
	hours, err1 := strconv.Atoi(parts[0])
	minutes, err2 := strconv.Atoi(parts[1])
	seconds, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds
}
