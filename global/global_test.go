/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package global

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCountOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []string
		want     [4]int // total, passed, failed, skipped
	}{
		{"empty", nil, [4]int{0, 0, 0, 0}},
		{"mixed", []string{OutcomePassed, OutcomeFailed, OutcomeSkipped, OutcomePassed}, [4]int{4, 2, 1, 1}},
		{"unrecognized counts as skipped", []string{OutcomePassed, "Inconclusive"}, [4]int{2, 1, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TestResult{Total: 99, Passed: 99, Failed: 99, Skipped: 99}
			for _, o := range tt.outcomes {
				result.Details = append(result.Details, TestDetail{Outcome: o})
			}
			result.CountOutcomes()
			got := [4]int{result.Total, result.Passed, result.Failed, result.Skipped}
			if got != tt.want {
				t.Errorf("counts = %v, want %v", got, tt.want)
			}
			if result.Total != result.Passed+result.Failed+result.Skipped {
				t.Errorf("total %d != sum of outcomes", result.Total)
			}
		})
	}
}

func TestValidateTimeout(t *testing.T) {
	tests := []struct {
		timeout int
		want    int
		wantErr bool
	}{
		{0, 300, false},
		{60, 60, false},
		{MinTimeout, MinTimeout, false},
		{MaxTimeoutLimit, MaxTimeoutLimit, false},
		{5, 0, true},
		{MaxTimeoutLimit + 1, 0, true},
	}
	for _, tt := range tests {
		got, err := ValidateTimeout(tt.timeout, 300)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateTimeout(%d): err = %v, wantErr %v", tt.timeout, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateTimeout(%d) = %d, want %d", tt.timeout, got, tt.want)
		}
	}
}

func TestAtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.json")

	if err := AtomicWrite(path, []byte("first")); err != nil {
		t.Fatalf("AtomicWrite: %v", err)
	}
	if err := AtomicWrite(path, []byte("second")); err != nil {
		t.Fatalf("AtomicWrite overwrite: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want second", data)
	}
	if FileExists(path + ".tmp") {
		t.Error("temp file left behind")
	}
}

func TestFileAndDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if !FileExists(file) {
		t.Error("FileExists(file) = false")
	}
	if FileExists(dir) {
		t.Error("FileExists(dir) = true")
	}
	if FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true")
	}

	if !DirExists(dir) {
		t.Error("DirExists(dir) = false")
	}
	if DirExists(file) {
		t.Error("DirExists(file) = true")
	}
}
