package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// RenderSummary formats the per-target outcome the way CI logs expect it:
// a confirmation line when nothing is missing, otherwise a header followed by
// one "  - model" line per added key.
func RenderSummary(cs *ChangeSet, dryRun bool) string {
	if !cs.HasChanges() {
		return fmt.Sprintf("All pricing models already present in %s\n", cs.Target)
	}

	var b strings.Builder
	if dryRun {
		fmt.Fprintf(&b, "Would add missing models to %s:\n", cs.Target)
	} else {
		fmt.Fprintf(&b, "Added missing models to %s:\n", cs.Target)
	}
	for _, m := range cs.Missing {
		fmt.Fprintf(&b, "  - %s\n", m)
	}
	return b.String()
}

// RenderUnified returns a unified diff between the file content before and
// after reconciliation. Empty output means the two are identical.
func RenderUnified(path string, before, after []byte) (string, error) {
	if bytes.Equal(before, after) {
		return "", nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + strings.TrimPrefix(path, "/"),
		ToFile:   "b/" + strings.TrimPrefix(path, "/"),
		Context:  3,
	}
	out, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("rendering diff for %s: %w", path, err)
	}
	return out, nil
}
