package coach

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/promptkit/coach/internal/domain"
)

// foldCaser is a package-level Unicode case folder so keyword matching is
// case-insensitive without allocating a caser per call.
var foldCaser = cases.Fold()

// normalize folds text for case-insensitive substring matching.
func normalize(text string) string {
	return foldCaser.String(text)
}

// signal is one piece of textual evidence for an axis. Weight is added to
// the axis score when the signal fires; the axis total is capped at 100.
type signal struct {
	name   string
	weight int
	fires  func(ev evidence) bool
}

// evidence is the pre-computed view of the prompt shared by all signals, so
// each analysis folds and splits the text once.
type evidence struct {
	raw    string
	folded string
	words  int
	lines  []string
}

// containsAny reports whether any folded keyword occurs in the prompt.
func (ev evidence) containsAny(keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(ev.folded, kw) {
			return true
		}
	}
	return false
}

var (
	// versionPattern matches dotted version numbers such as 3.12 or
	// v1.2.3, a strong context signal.
	versionPattern = regexp.MustCompile(`\bv?\d+\.\d+(\.\d+)?\b`)

	// enumeratedPattern matches bulleted or numbered list items at the
	// start of a line.
	enumeratedPattern = regexp.MustCompile(`^\s*(?:[-*]|\d+[.)])\s+\S`)

	// deliverablePattern matches an explicitly named artifact: a
	// backticked name or a filename with an extension.
	deliverablePattern = regexp.MustCompile("`[^`]+`|\\b[\\w./-]+\\.(?:go|py|sh|sql|ya?ml|json|md|tf|toml|txt|csv|conf|service)\\b")
)

// taskVerbs are imperative verbs that open a well-scoped request.
var taskVerbs = []string{
	"write", "create", "implement", "build", "fix", "refactor",
	"generate", "convert", "add", "review", "migrate", "debug",
	"task:",
}

// vagueMarkers are hedging words that erode clarity. Any occurrence
// subtracts vaguePenalty from the clarity score.
var vagueMarkers = []string{
	"something", "somehow", "stuff", "maybe", " etc", "whatever",
	"as needed", "and so on", "various things",
}

const vaguePenalty = 15

// axisSignals is the deterministic rule table for the heuristic analyzer.
// Per-axis weights sum to 100 so a prompt exhibiting every signal maxes the
// axis.
var axisSignals = map[domain.Axis][]signal{
	domain.AxisClarity: {
		{"task verb", 30, func(ev evidence) bool {
			return ev.containsAny(taskVerbs...)
		}},
		{"named deliverable", 35, func(ev evidence) bool {
			return deliverablePattern.MatchString(ev.raw)
		}},
		{"sufficient detail", 35, func(ev evidence) bool {
			return ev.words >= 12
		}},
	},
	domain.AxisContext: {
		{"version number", 35, func(ev evidence) bool {
			return versionPattern.MatchString(ev.raw)
		}},
		{"named technology", 35, func(ev evidence) bool {
			return ev.containsAny(
				"postgres", "postgresql", "mysql", "sqlite", "redis",
				"python", "golang", " go ", "rust", "java", "typescript",
				"javascript", "node", "react", "django", "flask",
				"ansible", "terraform", "kubernetes", "docker", "rhel",
				"ubuntu", "debian", "linux", "aws", "gcp", "azure",
				"nginx", "kafka", "bash",
			)
		}},
		{"code excerpt", 30, func(ev evidence) bool {
			return strings.Contains(ev.raw, "```") ||
				ev.containsAny("func ", "def ", "class ", "select ")
		}},
	},
	domain.AxisConstraints: {
		{"limiting language", 30, func(ev evidence) bool {
			return ev.containsAny(
				"must not", "must ", "only ", "at most", "no more than",
				"without ", "never ", "limit", "avoid ",
			)
		}},
		{"quality boundary", 40, func(ev evidence) bool {
			return ev.containsAny(
				"idempotent", "performance", "latency", "security",
				"lint", "type hints", "memory", "thread-safe",
				"read-only", "least privilege", "rls", "no shell",
				"stdlib only", "backward compatible",
			)
		}},
		{"scope boundary", 30, func(ev evidence) bool {
			return ev.containsAny(
				"in scope", "out of scope", "do not change",
				"don't change", "leave ", "keep existing", "minimal",
			)
		}},
	},
	domain.AxisFormatContract: {
		{"output directive", 45, func(ev evidence) bool {
			return ev.containsAny(
				"respond only with", "output only", "return only",
				"reply only with", "respond with only", "code only",
			)
		}},
		{"structure keyword", 35, func(ev evidence) bool {
			return ev.containsAny(
				"json", "yaml", "markdown", "table", "csv", "xml",
				"bullet", "numbered list",
			)
		}},
		{"shape directive", 20, func(ev evidence) bool {
			return ev.containsAny("format:", "schema", "structure the", "sections:")
		}},
	},
	domain.AxisGuardrails: {
		{"anti-fabrication", 40, func(ev evidence) bool {
			return ev.containsAny(
				"do not fabricate", "don't fabricate", "do not invent",
				"do not make up", "no hallucin",
			)
		}},
		{"uncertainty handling", 30, func(ev evidence) bool {
			return ev.containsAny(
				"if unsure", "if you are unsure", "if uncertain",
				"say not sure", "ask clarifying",
			)
		}},
		{"verification request", 30, func(ev evidence) bool {
			return ev.containsAny(
				"verify", "verification", "cite", "source", "double-check",
			)
		}},
	},
	domain.AxisAcceptance: {
		{"acceptance marker", 40, func(ev evidence) bool {
			return ev.containsAny(
				"acceptance", "definition of done", "success criteria",
			)
		}},
		{"enumerated checklist", 30, func(ev evidence) bool {
			for _, line := range ev.lines {
				if enumeratedPattern.MatchString(line) {
					return true
				}
			}
			return false
		}},
		{"checkable condition", 30, func(ev evidence) bool {
			return ev.containsAny(
				"tests pass", "passes", "checklist", "validation",
				"criteria", "must compile", "exit 0",
			)
		}},
	},
}

// Analyze scores a prompt on all six axes from pattern evidence alone.
// It is a pure function: no I/O, no randomness, identical input always
// yields an identical result, and it never fails. Empty or whitespace-only
// input yields an all-zero result.
func Analyze(prompt string) domain.HeuristicResult {
	scorecard := domain.NewScoreCard()

	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return domain.HeuristicResult{Scorecard: scorecard, LocalScore: 0}
	}

	ev := evidence{
		raw:    prompt,
		folded: normalize(prompt),
		words:  len(strings.Fields(trimmed)),
		lines:  strings.Split(prompt, "\n"),
	}

	for _, axis := range domain.Axes() {
		score := 0
		for _, sig := range axisSignals[axis] {
			if sig.fires(ev) {
				score += sig.weight
			}
		}
		if axis == domain.AxisClarity {
			for _, marker := range vagueMarkers {
				if strings.Contains(ev.folded, marker) {
					score -= vaguePenalty
				}
			}
		}
		scorecard[axis] = domain.ClampAxisScore(score)
	}

	return domain.HeuristicResult{
		Scorecard:  scorecard,
		LocalScore: domain.RoundScore(scorecard.WeightedMean(domain.RubricWeights)),
	}
}
