package coach

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedDiffIdenticalInputs(t *testing.T) {
	for _, text := range []string{"", "one line", "line one\nline two\n"} {
		diff, err := UnifiedDiff(text, text)
		require.NoError(t, err)
		assert.Empty(t, diff)
	}
}

func TestUnifiedDiffChangedInputs(t *testing.T) {
	diff, err := UnifiedDiff("write a script", "write a bash script\nwith tests")
	require.NoError(t, err)

	require.NotEmpty(t, diff)
	assert.Contains(t, diff, "--- original")
	assert.Contains(t, diff, "+++ improved")
	assert.Contains(t, diff, "-write a script")
	assert.Contains(t, diff, "+write a bash script")
}

func TestUnifiedDiffAppliesCleanly(t *testing.T) {
	tests := []struct {
		name     string
		original string
		improved string
	}{
		{
			name:     "single line rewrite",
			original: "fix the thing",
			improved: "[TASK]\nFix the failing login handler in `auth.go`.",
		},
		{
			name:     "insertion in the middle",
			original: "a\nb\nc\nd\ne\nf\ng\nh\n",
			improved: "a\nb\nc\nd\nNEW\ne\nf\ng\nh\n",
		},
		{
			name:     "deletion and edit far apart",
			original: "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n",
			improved: "1\n3\n4\n5\n6\n7\n8\n9\n10\n11\ntwelve\n",
		},
		{
			name:     "full replacement",
			original: "old prompt\n",
			improved: "[ROLE SETUP]\nYou are a reviewer.\n[TASK]\nReview the diff.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff, err := UnifiedDiff(tt.original, tt.improved)
			require.NoError(t, err)

			got := applyUnifiedDiff(t, difflib.SplitLines(tt.original), diff)
			assert.Equal(t, difflib.SplitLines(tt.improved), got,
				"applying the diff to the original must reproduce the improved text")
		})
	}
}

var hunkHeader = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+\d+(?:,\d+)? @@`)

// applyUnifiedDiff patches a line slice with a unified diff, panicking via
// the test on any context mismatch. It exists only to prove the diffs this
// package emits are mechanically applicable.
func applyUnifiedDiff(t *testing.T, original []string, diff string) []string {
	t.Helper()

	var out []string
	pos := 0 // next unread index into original

	lines := strings.SplitAfter(diff, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") {
			continue
		}
		m := hunkHeader.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		start, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		count := 1
		if m[2] != "" {
			count, err = strconv.Atoi(m[2])
			require.NoError(t, err)
		}
		if count == 0 {
			// Pure insertion hunks address the line before the insert.
			start++
		}

		// Copy untouched lines up to the hunk.
		require.LessOrEqual(t, start-1, len(original), "hunk starts past end of input")
		out = append(out, original[pos:start-1]...)
		pos = start - 1

	hunk:
		for i++; i < len(lines); i++ {
			body := lines[i]
			if body == "" || hunkHeader.MatchString(body) {
				i--
				break
			}
			switch body[0] {
			case ' ':
				require.Equal(t, body[1:], original[pos], "context mismatch")
				out = append(out, original[pos])
				pos++
			case '-':
				require.Equal(t, body[1:], original[pos], "removal mismatch")
				pos++
			case '+':
				out = append(out, body[1:])
			default:
				i--
				break hunk
			}
		}
	}

	out = append(out, original[pos:]...)
	return out
}
