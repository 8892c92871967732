package coach

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// diffContextLines is the number of unchanged lines shown around each hunk.
const diffContextLines = 3

// UnifiedDiff returns a unified-format line diff from original to improved,
// labeled "original" and "improved". Identical inputs yield the empty
// string; that is a contract of the scoring result, not an optimization.
func UnifiedDiff(original, improved string) (string, error) {
	if original == improved {
		return "", nil
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(improved),
		FromFile: "original",
		ToFile:   "improved",
		Context:  diffContextLines,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("compute unified diff: %w", err)
	}
	return text, nil
}
