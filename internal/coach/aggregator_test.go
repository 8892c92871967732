package coach

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptkit/coach/internal/domain"
)

func heuristicFixture() domain.HeuristicResult {
	sc := domain.NewScoreCard()
	sc[domain.AxisClarity] = 30
	sc[domain.AxisContext] = 40
	sc[domain.AxisConstraints] = 0
	sc[domain.AxisFormatContract] = 20
	sc[domain.AxisGuardrails] = 0
	sc[domain.AxisAcceptance] = 10
	return domain.HeuristicResult{
		Scorecard:  sc,
		LocalScore: domain.RoundScore(sc.WeightedMean(domain.RubricWeights)),
	}
}

func modelFixture() *domain.ModelResult {
	sc := domain.NewScoreCard()
	for _, axis := range domain.Axes() {
		sc[axis] = 80
	}
	return &domain.ModelResult{
		Scorecard:  sc,
		ModelScore: domain.RoundScore(sc.WeightedMean(domain.RubricWeights)),
		Improved:   "[TASK]\nRewrite the ansible playbook.",
		Notes:      []string{"added a format contract"},
	}
}

func TestAggregateOffline(t *testing.T) {
	heuristic := heuristicFixture()

	result, err := aggregate(heuristic, nil, "tune the ansible playbook",
		"offline mode: model evaluation skipped", DefaultConfig(), DefaultVerificationRules())
	require.NoError(t, err)

	assert.Equal(t, heuristic.LocalScore, result.FinalScore)
	assert.Nil(t, result.ModelScore)
	assert.Equal(t, heuristic.Scorecard, result.Scorecard)
	assert.Equal(t, "tune the ansible playbook", result.Improved)
	assert.Empty(t, result.Diff, "no rewrite means no diff")
	assert.Equal(t, []string{"offline mode: model evaluation skipped"}, result.Notes)
	assert.Contains(t, result.Verification, "ansible-lint playbook.yml")
	assert.Nil(t, result.Usage)
}

func TestAggregateBlendsScores(t *testing.T) {
	heuristic := heuristicFixture()
	model := modelFixture()

	result, err := aggregate(heuristic, model, "tune the ansible playbook", "",
		DefaultConfig(), DefaultVerificationRules())
	require.NoError(t, err)

	require.NotNil(t, result.ModelScore)
	assert.Equal(t, model.ModelScore, *result.ModelScore)

	// Per-axis blend with the default 0.4/0.6 weights.
	assert.Equal(t, 60, result.Scorecard[domain.AxisClarity])    // .4*30 + .6*80
	assert.Equal(t, 48, result.Scorecard[domain.AxisGuardrails]) // .4*0 + .6*80

	assert.Equal(t, model.Improved, result.Improved)
	assert.NotEmpty(t, result.Diff)
	assert.Contains(t, result.Diff, "+[TASK]")
}

func TestAggregateFinalScoreIsConvex(t *testing.T) {
	heuristic := heuristicFixture()
	model := modelFixture()

	weights := []struct{ h, m float64 }{
		{0.0, 1.0}, {0.1, 0.9}, {0.25, 0.75}, {0.4, 0.6},
		{0.5, 0.5}, {0.75, 0.25}, {0.9, 0.1}, {1.0, 0.0},
	}

	for _, w := range weights {
		cfg := DefaultConfig()
		cfg.HeuristicWeight = w.h
		cfg.ModelWeight = w.m

		result, err := aggregate(heuristic, model, "p", "", cfg, nil)
		require.NoError(t, err)

		lo, hi := heuristic.LocalScore, model.ModelScore
		if lo > hi {
			lo, hi = hi, lo
		}
		assert.GreaterOrEqual(t, result.FinalScore, lo, "weights %v", w)
		assert.LessOrEqual(t, result.FinalScore, hi, "weights %v", w)
	}
}

func TestAggregateImprovedFallsBackToOriginal(t *testing.T) {
	model := modelFixture()
	model.Improved = ""

	result, err := aggregate(heuristicFixture(), model, "original text", "",
		DefaultConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, "original text", result.Improved)
	assert.Empty(t, result.Diff)
}

func TestAggregateNoteOrder(t *testing.T) {
	model := modelFixture()
	model.Improved = "rewritten text"

	result, err := aggregate(heuristicFixture(), model, "original text", "",
		DefaultConfig(), nil)
	require.NoError(t, err)

	require.Len(t, result.Notes, 2)
	assert.Equal(t, "added a format contract", result.Notes[0],
		"model notes come first")
	assert.Contains(t, result.Notes[1], "character edits",
		"the rewrite-magnitude note is appended last")
}

func TestAggregatePropagatesUsage(t *testing.T) {
	model := modelFixture()
	model.Usage = domain.Usage{
		Model: "gpt-4o-mini", PromptTokens: 120, CompletionTokens: 200, TotalTokens: 320,
	}

	result, err := aggregate(heuristicFixture(), model, "p", "", DefaultConfig(), nil)
	require.NoError(t, err)

	require.NotNil(t, result.Usage)
	assert.Equal(t, 320, result.Usage.TotalTokens)
	assert.Equal(t, "gpt-4o-mini", result.Usage.Model)
}

func TestAggregateVerificationUsesOriginalPrompt(t *testing.T) {
	model := modelFixture()
	model.Improved = "run terraform plan on the module"

	result, err := aggregate(heuristicFixture(), model, "write a python parser", "",
		DefaultConfig(), DefaultVerificationRules())
	require.NoError(t, err)

	assert.Contains(t, result.Verification, "pytest -q")
	assert.NotContains(t, result.Verification, "terraform validate",
		"commands follow the original request, not the rewrite")
}
