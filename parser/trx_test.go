/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package parser

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/unicode"

	"github.com/bytedreamer/DotNetFrameworkMCP/global"
)

const sampleTRX = `<?xml version="1.0" encoding="utf-8"?>
<TestRun id="run-1" xmlns="http://microsoft.com/schemas/VisualStudio/TeamTest/2010">
  <Results>
    <UnitTestResult testId="id-1" testName="TestAdd" outcome="Passed" duration="00:00:00.1250000" />
    <UnitTestResult testId="id-2" testName="TestSubtract" outcome="Failed" duration="00:00:01.5000000">
      <Output>
        <ErrorInfo>
          <Message>Expected 1 but got 2</Message>
          <StackTrace>at Calc.Tests.MathTests.TestSubtract()</StackTrace>
        </ErrorInfo>
      </Output>
    </UnitTestResult>
  </Results>
  <TestDefinitions>
    <UnitTest id="id-1" name="TestAdd">
      <TestMethod className="Calc.Tests.MathTests" name="TestAdd" />
    </UnitTest>
    <UnitTest id="id-2" name="TestSubtract">
      <TestMethod className="Calc.Tests.MathTests" name="TestSubtract" />
    </UnitTest>
  </TestDefinitions>
</TestRun>`

func writeTRX(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.trx")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write trx: %v", err)
	}
	return path
}

func TestParseTestResultsFromTRX(t *testing.T) {
	path := writeTRX(t, []byte(sampleTRX))

	result := ParseTestResults(path, "ignored console text")

	if result.Total != 2 || result.Passed != 1 || result.Failed != 1 || result.Skipped != 0 {
		t.Fatalf("counts = {%d %d %d %d}, want {2 1 1 0}",
			result.Total, result.Passed, result.Failed, result.Skipped)
	}
	if len(result.Details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(result.Details))
	}

	passed := result.Details[0]
	if passed.Method != "TestAdd" || passed.Outcome != global.OutcomePassed {
		t.Errorf("passed detail = %+v", passed)
	}
	if passed.ClassName != "Calc.Tests.MathTests" {
		t.Errorf("ClassName = %q, definition join failed", passed.ClassName)
	}
	if passed.DurationSeconds != 0.125 {
		t.Errorf("DurationSeconds = %v, want 0.125", passed.DurationSeconds)
	}

	failed := result.Details[1]
	if failed.Outcome != global.OutcomeFailed {
		t.Fatalf("failed detail outcome = %q", failed.Outcome)
	}
	if failed.ErrorMessage != "Expected 1 but got 2" {
		t.Errorf("ErrorMessage = %q", failed.ErrorMessage)
	}
	if failed.StackTrace != "at Calc.Tests.MathTests.TestSubtract()" {
		t.Errorf("StackTrace = %q", failed.StackTrace)
	}
}

func TestParseTestResultsUTF16Report(t *testing.T) {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	encoded, err := encoder.Bytes([]byte(sampleTRX))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := writeTRX(t, encoded)

	result := ParseTestResults(path, "")
	if result.Total != 2 || result.Passed != 1 || result.Failed != 1 {
		t.Fatalf("counts = {%d %d %d %d}, want {2 1 1 0}",
			result.Total, result.Passed, result.Failed, result.Skipped)
	}
}

func TestParseTestResultsUnknownOutcomeCountsAsSkipped(t *testing.T) {
	trx := `<?xml version="1.0"?>
<TestRun>
  <Results>
    <UnitTestResult testId="a" testName="T1" outcome="NotExecuted" />
    <UnitTestResult testId="b" testName="T2" outcome="Inconclusive" />
  </Results>
  <TestDefinitions />
</TestRun>`
	path := writeTRX(t, []byte(trx))

	result := ParseTestResults(path, "")
	if result.Total != 2 || result.Skipped != 2 {
		t.Errorf("counts = {%d %d %d %d}, want {2 0 0 2}",
			result.Total, result.Passed, result.Failed, result.Skipped)
	}
}

func TestParseTestResultsConsoleFallback(t *testing.T) {
	console := `Starting test execution, please wait...
Passed Calc.Tests.MathTests.TestAdd [25 ms]
Failed Calc.Tests.MathTests.TestSubtract [1.5 s]
Skipped Calc.Tests.MathTests.TestIgnored
Total tests: 3. Passed: 1. Failed: 1. Skipped: 1.`

	result := ParseTestResults(filepath.Join(t.TempDir(), "missing.trx"), console)

	if result.Total != 3 || result.Passed != 1 || result.Failed != 1 || result.Skipped != 1 {
		t.Fatalf("counts = {%d %d %d %d}, want {3 1 1 1}",
			result.Total, result.Passed, result.Failed, result.Skipped)
	}
	first := result.Details[0]
	if first.ClassName != "Calc.Tests.MathTests" || first.Method != "TestAdd" {
		t.Errorf("first detail = %+v, dotted name not split", first)
	}
	if first.DurationSeconds != 0.025 {
		t.Errorf("DurationSeconds = %v, want 0.025", first.DurationSeconds)
	}
}

func TestParseTestResultsSummaryOnlySynthesis(t *testing.T) {
	console := "Failed! - Failed: 1, Passed: 4, Skipped: 0, Total: 6"

	result := ParseTestResults("", console)

	if result.Total != 6 || result.Passed != 4 || result.Failed != 1 || result.Skipped != 1 {
		t.Fatalf("counts = {%d %d %d %d}, want {6 4 1 1}",
			result.Total, result.Passed, result.Failed, result.Skipped)
	}
	if len(result.Details) != 6 {
		t.Fatalf("expected 6 synthesized details, got %d", len(result.Details))
	}
	if result.Details[0].Method == "" {
		t.Error("synthesized detail has empty method name")
	}
}

func TestParseTestResultsEmptyEverything(t *testing.T) {
	result := ParseTestResults("", "no recognizable output here")
	if result.Total != 0 || len(result.Details) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if result.Details == nil {
		t.Error("Details is nil; serializes as null instead of []")
	}
}

func TestParseTRXDuration(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"00:00:00.1250000", 0.125},
		{"00:01:30.5000000", 90.5},
		{"01:00:00", 3600},
		{"", 0},
		{"bogus", 0},
		{"1:2", 0},
	}
	for _, tt := range tests {
		if got := parseTRXDuration(tt.input); got != tt.want {
			t.Errorf("parseTRXDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseTRXFileMalformed(t *testing.T) {
	path := writeTRX(t, []byte("<TestRun><Results>"))
	if _, ok := parseTRXFile(path); ok {
		t.Error("expected ok=false for malformed XML")
	}
}
