package coach

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/promptkit/coach/internal/domain"
)

// aggregate merges the heuristic result with an optional model result into
// the final immutable record. With a model result present, each axis is a
// convex blend of the two score cards, so the final score always lies
// between the local and model scores. Without one, the final score equals
// the local score and degradeNote explains why.
//
// The verification list is inferred from the ORIGINAL prompt text, not the
// rewrite, so command suggestions reflect what the user actually asked for.
func aggregate(
	heuristic domain.HeuristicResult,
	model *domain.ModelResult,
	original string,
	degradeNote string,
	cfg Config,
	rules []VerificationRule,
) (*domain.AggregatedResult, error) {
	result := &domain.AggregatedResult{
		LocalScore:   heuristic.LocalScore,
		Scorecard:    heuristic.Scorecard.Clone(),
		Improved:     original,
		Verification: InferVerification(original, rules),
		Notes:        []string{},
	}

	if model == nil {
		result.FinalScore = heuristic.LocalScore
		if degradeNote != "" {
			result.Notes = append(result.Notes, degradeNote)
		}
	} else {
		blended := domain.NewScoreCard()
		for _, axis := range domain.Axes() {
			blend := cfg.HeuristicWeight*float64(heuristic.Scorecard[axis]) +
				cfg.ModelWeight*float64(model.Scorecard[axis])
			blended[axis] = domain.RoundScore(blend)
		}

		// The final score blends the exact weighted means rather than the
		// rounded per-axis values. Rounding is monotone, so the result
		// stays inside [min(local, model), max(local, model)].
		localMean := heuristic.Scorecard.WeightedMean(domain.RubricWeights)
		modelMean := model.Scorecard.WeightedMean(domain.RubricWeights)
		final := cfg.HeuristicWeight*localMean + cfg.ModelWeight*modelMean

		modelScore := model.ModelScore
		result.ModelScore = &modelScore
		result.FinalScore = domain.RoundScore(final)
		result.Scorecard = blended
		result.Notes = append(result.Notes, model.Notes...)

		if model.Improved != "" {
			result.Improved = model.Improved
		}
		if model.Usage.TotalTokens > 0 || model.Usage.Model != "" {
			usage := model.Usage
			result.Usage = &usage
		}
	}

	diff, err := UnifiedDiff(original, result.Improved)
	if err != nil {
		return nil, err
	}
	result.Diff = diff

	if result.Improved != original {
		distance := levenshtein.ComputeDistance(original, result.Improved)
		result.Notes = append(result.Notes,
			fmt.Sprintf("rewrite changed the prompt by %d character edits", distance))
	}

	return result, nil
}
