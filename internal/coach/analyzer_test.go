package coach

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptkit/coach/internal/domain"
)

const richPrompt = `Act as a senior Ansible reviewer.
Context: RHEL 9.4, PostgreSQL 16.1.
Task: Write an idempotent playbook ` + "`deploy.yml`" + ` for the database tier.
Respond only with YAML.
Do not fabricate; if unsure, suggest commands to verify.
Acceptance:
- passes ansible-lint
- playbook applies cleanly twice`

func TestAnalyzeIsDeterministic(t *testing.T) {
	prompts := []string{
		"",
		"write bash script",
		richPrompt,
		"do something with the stuff, maybe",
	}

	for _, prompt := range prompts {
		first := Analyze(prompt)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, Analyze(prompt), "prompt %q must score identically on repeat", prompt)
		}
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\n\t\n"} {
		result := Analyze(prompt)

		assert.Equal(t, 0, result.LocalScore)
		require.Len(t, result.Scorecard, 6)
		for _, axis := range domain.Axes() {
			assert.Equal(t, 0, result.Scorecard[axis], "axis %s for input %q", axis, prompt)
		}
	}
}

func TestAnalyzeUnderspecifiedPrompt(t *testing.T) {
	// Three words, no deliverable name, no format directive, no checklist.
	result := Analyze("write bash script")

	assert.LessOrEqual(t, result.Scorecard[domain.AxisClarity], 40,
		"no named deliverable and no detail should keep clarity low")
	assert.Equal(t, 0, result.Scorecard[domain.AxisFormatContract])
	assert.Equal(t, 0, result.Scorecard[domain.AxisAcceptance])
	assert.Less(t, result.LocalScore, 30)
}

func TestAnalyzeWellFormedPrompt(t *testing.T) {
	result := Analyze(richPrompt)

	sc := result.Scorecard
	assert.Equal(t, 100, sc[domain.AxisClarity])
	assert.GreaterOrEqual(t, sc[domain.AxisContext], 70, "versions and stack tokens present")
	assert.GreaterOrEqual(t, sc[domain.AxisConstraints], 40, "idempotency constraint present")
	assert.GreaterOrEqual(t, sc[domain.AxisFormatContract], 80, "output directive and YAML keyword present")
	assert.Equal(t, 100, sc[domain.AxisGuardrails])
	assert.Equal(t, 100, sc[domain.AxisAcceptance])
	assert.GreaterOrEqual(t, result.LocalScore, 70)
}

func TestAnalyzeAxisSignals(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		axis   domain.Axis
		min    int
	}{
		{"version number drives context", "upgrade service to 3.12", domain.AxisContext, 35},
		{"technology token drives context", "tune the postgres планировщик", domain.AxisContext, 35},
		{"fenced code drives context", "explain this:\n```\nx := 1\n```", domain.AxisContext, 30},
		{"output directive drives format", "Respond only with JSON", domain.AxisFormatContract, 45},
		{"anti-fabrication drives guardrails", "Do not fabricate package names", domain.AxisGuardrails, 40},
		{"checklist drives acceptance", "done when:\n- build is green\n- tests pass", domain.AxisAcceptance, 30},
		{"security constraint", "use least privilege and no shell", domain.AxisConstraints, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Analyze(tt.prompt)
			assert.GreaterOrEqual(t, result.Scorecard[tt.axis], tt.min)
		})
	}
}

func TestAnalyzeVaguePhrasingPenalty(t *testing.T) {
	precise := Analyze("Write the migration script `001_init.sql` for the orders table schema of the billing database")
	hedged := Analyze("Write the migration script `001_init.sql` for the orders table schema of the billing database, or something, maybe")

	assert.Less(t, hedged.Scorecard[domain.AxisClarity], precise.Scorecard[domain.AxisClarity])
}

func TestAnalyzeScoresAreBounded(t *testing.T) {
	// A prompt stuffed with every signal must still cap each axis at 100.
	result := Analyze(strings.Repeat(richPrompt+"\n", 5))

	for _, axis := range domain.Axes() {
		score := result.Scorecard[axis]
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
	assert.LessOrEqual(t, result.LocalScore, 100)
}

func TestAnalyzeCaseInsensitive(t *testing.T) {
	lower := Analyze("respond only with json")
	upper := Analyze("RESPOND ONLY WITH JSON")

	assert.Equal(t, lower.Scorecard[domain.AxisFormatContract],
		upper.Scorecard[domain.AxisFormatContract])
}
