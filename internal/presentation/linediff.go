package presentation

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineDiff compares two rendered documents line by line. Lines only in want
// are prefixed "- ", lines only in got "+ ", shared lines "  ".
// It returns "" when the documents are identical.
func LineDiff(want, got string) string {
	if want == got {
		return ""
	}

	// Diff at line granularity: map each line to a rune, diff, map back
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}
