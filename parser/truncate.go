/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package parser

import "strings"

const (
	truncationMarker = "[Output truncated]\n"
	elisionMarker    = "\n...[truncated]...\n"

	// tailReserve keeps room for a verbatim tail slice after the
	// diagnostic lines in the failure path.
	tailReserve = 512

	// bannerScanLines is how deep into the output the build tool's own
	// summary banner is searched for.
	bannerScanLines = 8
)

// diagnosticMarkers select the lines kept when truncating failed-run
// output. Matched case-insensitively.
var diagnosticMarkers = []string{"error", "warning", "build failed", "time elapsed"}

// Truncate bounds text to maxBytes. Within-budget text is returned
// unchanged, which also makes the operation idempotent. Failed runs
// keep the lines most likely to carry diagnostics wherever they occur;
// successful runs keep head and tail context only.
func Truncate(text string, maxBytes int, failed bool) string {
	if maxBytes <= 0 || len(text) <= maxBytes {
		return text
	}
	if failed {
		return truncateFailure(text, maxBytes)
	}
	return truncateSuccess(text, maxBytes)
}

// truncateSuccess keeps equal head and tail slices joined by an elision
// marker.
func truncateSuccess(text string, maxBytes int) string {
	budget := maxBytes - len(elisionMarker)
	if budget < 2 {
		return text[:maxBytes]
	}
	half := budget / 2
	return text[:half] + elisionMarker + text[len(text)-(budget-half):]
}

// truncateFailure scans from the end collecting diagnostic lines until
// the budget (minus a tail reserve) is spent, prepends the summary
// banner found near the top of the output, and fills any remaining room
// with a verbatim tail slice.
func truncateFailure(text string, maxBytes int) string {
	budget := maxBytes - len(truncationMarker)
	if budget <= 0 {
		return text[:maxBytes]
	}

	lines := strings.Split(text, "\n")

	banner := ""
	for i := 0; i < len(lines) && i < bannerScanLines; i++ {
		lower := strings.ToLower(lines[i])
		if strings.Contains(lower, "error") || strings.Contains(lower, "failed") {
			banner = lines[i]
			break
		}
	}

	diagBudget := budget - tailReserve
	if banner != "" {
		diagBudget -= len(banner) + 1
	}

	var collected []string
	for i := len(lines) - 1; i >= 0 && diagBudget > 0; i-- {
		if !containsDiagnosticMarker(lines[i]) {
			continue
		}
		cost := len(lines[i]) + 1
		if cost > diagBudget {
			break
		}
		collected = append(collected, lines[i])
		diagBudget -= cost
	}

	var b strings.Builder
	b.WriteString(truncationMarker)
	if banner != "" {
		b.WriteString(banner)
		b.WriteByte('\n')
	}
	// collected holds lines in reverse scan order
	for i := len(collected) - 1; i >= 0; i-- {
		b.WriteString(collected[i])
		b.WriteByte('\n')
	}
	if remaining := maxBytes - b.Len(); remaining > 0 {
		b.WriteString(text[len(text)-remaining:])
	}

	out := b.String()
	if len(out) > maxBytes {
		out = out[:maxBytes]
	}
	return out
}

func containsDiagnosticMarker(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range diagnosticMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
