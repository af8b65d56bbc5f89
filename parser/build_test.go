/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package parser

import (
	"testing"

	"github.com/bytedreamer/DotNetFrameworkMCP/global"
)

func TestParseBuildOutputPositionedError(t *testing.T) {
	line := `C:\src\Foo.cs(12,5): error CS0103: The name 'x' does not exist`

	buildErrors, warnings := ParseBuildOutput(line)

	if len(buildErrors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(buildErrors))
	}
	if len(warnings) != 0 {
		t.Fatalf("expected 0 warnings, got %d", len(warnings))
	}

	want := global.BuildMessage{
		File:    `C:\src\Foo.cs`,
		Line:    12,
		Column:  5,
		Code:    "CS0103",
		Message: "The name 'x' does not exist",
	}
	if buildErrors[0] != want {
		t.Errorf("got %+v, want %+v", buildErrors[0], want)
	}
}

func TestParseBuildOutput(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantErrors   int
		wantWarnings int
	}{
		{
			name:         "positioned warning",
			input:        `C:\src\Foo.cs(3,10): warning CS0168: The variable 'y' is declared but never used`,
			wantErrors:   0,
			wantWarnings: 1,
		},
		{
			name:       "positionless error fallback",
			input:      `CSC: error CS5001: Program does not contain a static 'Main' method`,
			wantErrors: 1,
		},
		{
			name:  "plain text contributes nothing",
			input: "Build started 1/1/2024\n  Restoring packages\nBuild succeeded.",
		},
		{
			name:  "lowercase code rejected",
			input: `C:\src\Foo.cs(1,1): error cs0001: bad`,
		},
		{
			name:  "keyword without code rejected",
			input: "An error occurred while loading the project",
		},
		{
			name: "mixed output",
			input: `Build started.
C:\src\A.cs(1,2): error CS1002: ; expected
C:\src\B.cs(7,1): warning CS0219: The variable 'z' is assigned but never used
C:\src\A.cs(9,4): error CS0246: The type or namespace name 'Foo' could not be found
Done.`,
			wantErrors:   2,
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buildErrors, warnings := ParseBuildOutput(tt.input)
			if len(buildErrors) != tt.wantErrors {
				t.Errorf("errors = %d, want %d", len(buildErrors), tt.wantErrors)
			}
			if len(warnings) != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d", len(warnings), tt.wantWarnings)
			}
		})
	}
}

func TestParseBuildOutputOwningProject(t *testing.T) {
	line := `C:\src\Foo.cs(12,5): error CS0103: The name 'x' does not exist [C:\src\Foo.csproj]`

	buildErrors, _ := ParseBuildOutput(line)

	if len(buildErrors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(buildErrors))
	}
	if buildErrors[0].Project != `C:\src\Foo.csproj` {
		t.Errorf("Project = %q, want %q", buildErrors[0].Project, `C:\src\Foo.csproj`)
	}
	if buildErrors[0].Message != "The name 'x' does not exist" {
		t.Errorf("Message = %q, project suffix not stripped", buildErrors[0].Message)
	}
}

func TestParseBuildOutputLeadingWhitespace(t *testing.T) {
	// MSBuild indents diagnostics under the project line
	input := "  C:\\src\\Foo.cs(2,3): error CS0103: The name 'q' does not exist"

	buildErrors, _ := ParseBuildOutput(input)
	if len(buildErrors) != 1 {
		t.Fatalf("expected 1 error from indented line, got %d", len(buildErrors))
	}
	if buildErrors[0].Line != 2 || buildErrors[0].Column != 3 {
		t.Errorf("position = (%d,%d), want (2,3)", buildErrors[0].Line, buildErrors[0].Column)
	}
}
