/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package parser

import (
	"strings"
	"testing"
)

func TestTruncateWithinBudget(t *testing.T) {
	text := "short output\n"
	if got := Truncate(text, 1000, true); got != text {
		t.Errorf("within-budget text modified: %q", got)
	}
	if got := Truncate(text, 1000, false); got != text {
		t.Errorf("within-budget text modified: %q", got)
	}
}

func TestTruncateRespectsBudget(t *testing.T) {
	long := strings.Repeat("line of filler output text\n", 5000)
	for _, failed := range []bool{true, false} {
		got := Truncate(long, 2048, failed)
		if len(got) > 2048 {
			t.Errorf("failed=%v: length %d exceeds budget 2048", failed, len(got))
		}
	}
}

func TestTruncateIdempotent(t *testing.T) {
	var b strings.Builder
	b.WriteString("Build FAILED.\n")
	for i := 0; i < 3000; i++ {
		b.WriteString("  Compiling file number something\n")
	}
	b.WriteString(`C:\src\Foo.cs(12,5): error CS0103: The name 'x' does not exist` + "\n")
	text := b.String()

	once := Truncate(text, 4096, true)
	twice := Truncate(once, 4096, true)
	if once != twice {
		t.Error("truncating already-truncated output changed it")
	}
}

func TestTruncateFailureKeepsDiagnostics(t *testing.T) {
	var b strings.Builder
	b.WriteString("Build FAILED.\n")
	b.WriteString(`C:\src\Early.cs(1,1): error CS0001: early diagnostic` + "\n")
	for i := 0; i < 5000; i++ {
		b.WriteString("  noise noise noise noise noise noise noise\n")
	}
	b.WriteString(`C:\src\Late.cs(9,9): error CS0009: late diagnostic` + "\n")
	b.WriteString("Time Elapsed 00:00:12.34\n")
	text := b.String()

	got := Truncate(text, 4096, true)

	if !strings.HasPrefix(got, "[Output truncated]\n") {
		t.Error("missing truncation marker prefix")
	}
	if !strings.Contains(got, "early diagnostic") {
		t.Error("diagnostic far from the tail was dropped")
	}
	if !strings.Contains(got, "late diagnostic") {
		t.Error("diagnostic near the tail was dropped")
	}
	if !strings.Contains(got, "Build FAILED.") {
		t.Error("summary banner was dropped")
	}
}

func TestTruncateSuccessKeepsHeadAndTail(t *testing.T) {
	head := "FIRST LINE OF OUTPUT\n"
	tail := "\nLAST LINE OF OUTPUT"
	text := head + strings.Repeat("middle filler content\n", 4000) + tail

	got := Truncate(text, 2048, false)

	if len(got) > 2048 {
		t.Fatalf("length %d exceeds budget", len(got))
	}
	if !strings.HasPrefix(got, head) {
		t.Error("head of output not preserved")
	}
	if !strings.HasSuffix(got, tail) {
		t.Error("tail of output not preserved")
	}
	if !strings.Contains(got, "...[truncated]...") {
		t.Error("missing elision marker")
	}
}

func TestTruncateTinyBudget(t *testing.T) {
	text := strings.Repeat("x", 100)
	for _, failed := range []bool{true, false} {
		got := Truncate(text, 10, failed)
		if len(got) > 10 {
			t.Errorf("failed=%v: length %d exceeds budget 10", failed, len(got))
		}
	}
}
