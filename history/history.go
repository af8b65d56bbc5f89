/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package history records completed build and test invocations as one
// JSON line each in a file under the base directory. Appends take a
// file lock so concurrent server processes sharing a base directory
// don't interleave partial lines.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/bytedreamer/DotNetFrameworkMCP/global"
	"github.com/bytedreamer/DotNetFrameworkMCP/logging"
)

// Record is one completed invocation.
type Record struct {
	ID             string    `json:"id"`
	Tool           string    `json:"tool"`   // tool name, e.g. "build_project"
	Target         string    `json:"target"` // project or solution path
	Success        bool      `json:"success"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	Timestamp      time.Time `json:"timestamp"`
}

// Recorder appends invocation records to the history file.
type Recorder struct {
	path   string
	logger *logging.Logger
}

// New creates a new Recorder writing to path. An empty path disables
// recording.
func New(path string, logger *logging.Logger) *Recorder {
	return &Recorder{path: path, logger: logger}
}

// Enabled reports whether records are being written
func (r *Recorder) Enabled() bool {
	return r.path != ""
}

// Append writes one record. Failures are reported to the caller but are
// advisory: recording never blocks or fails a request.
func (r *Recorder) Append(tool, target string, success bool, elapsedSeconds float64) error {
	if !r.Enabled() {
		return nil
	}

	rec := Record{
		ID:             uuid.New().String(),
		Tool:           tool,
		Target:         target,
		Success:        success,
		ElapsedSeconds: elapsedSeconds,
		Timestamp:      time.Now().UTC(),
	}

	line, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}

	return r.withLock(func() error {
		f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open history file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("failed to append history record: %w", err)
		}
		return nil
	})
}

// Recent returns up to limit records from the end of the history file,
// oldest first. Lines that fail to parse are skipped.
func (r *Recorder) Recent(limit int) ([]Record, error) {
	if !r.Enabled() {
		return nil, nil
	}

	var records []Record
	err := r.withLock(func() error {
		f, err := os.Open(r.path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("failed to open history file: %w", err)
		}
		defer func() { _ = f.Close() }()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			var rec Record
			if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
				r.logger.Warnf("Skipping malformed history line: %v", err)
				continue
			}
			records = append(records, rec)
		}
		return scanner.Err()
	})
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

// withLock executes a function while holding the history file lock
func (r *Recorder) withLock(fn func() error) error {
	if err := global.EnsureDir(filepath.Dir(r.path)); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	lock := flock.New(r.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire history lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	return fn()
}
