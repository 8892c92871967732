// Package domain defines the value objects produced and consumed by the
// prompt scoring pipeline. All entities are immutable once constructed and
// scoped to a single scoring invocation.
package domain

// Score bounds for a single axis.
const (
	// MinAxisScore is the lowest score an axis can carry.
	MinAxisScore = 0
	// MaxAxisScore is the highest score an axis can carry.
	MaxAxisScore = 100
)

// Axis identifies one of the six fixed prompt-quality dimensions.
// The set is closed; every ScoreCard carries an entry for each axis.
type Axis string

// The six quality axes, in canonical order.
const (
	// AxisClarity measures whether the prompt states a single unambiguous
	// task with a named deliverable.
	AxisClarity Axis = "Clarity"

	// AxisContext measures whether the prompt anchors the task in concrete
	// context: versions, named technologies, or referenced code.
	AxisContext Axis = "Context"

	// AxisConstraints measures the presence of explicit limiting language
	// around performance, style, or security.
	AxisConstraints Axis = "Constraints"

	// AxisFormatContract measures whether the prompt dictates an explicit
	// output shape for the response.
	AxisFormatContract Axis = "FormatContract"

	// AxisGuardrails measures anti-hallucination and verification-request
	// language.
	AxisGuardrails Axis = "Guardrails"

	// AxisAcceptance measures the presence of checkable success conditions.
	AxisAcceptance Axis = "Acceptance"
)

// Axes returns the six quality axes in canonical order.
// The returned slice is a fresh copy; callers may modify it freely.
func Axes() []Axis {
	return []Axis{
		AxisClarity,
		AxisContext,
		AxisConstraints,
		AxisFormatContract,
		AxisGuardrails,
		AxisAcceptance,
	}
}

// IsValidAxis reports whether a is one of the six known axes.
func IsValidAxis(a Axis) bool {
	switch a {
	case AxisClarity, AxisContext, AxisConstraints,
		AxisFormatContract, AxisGuardrails, AxisAcceptance:
		return true
	default:
		return false
	}
}

// ClampAxisScore forces a score into the valid [MinAxisScore, MaxAxisScore]
// range.
func ClampAxisScore(score int) int {
	if score < MinAxisScore {
		return MinAxisScore
	}
	if score > MaxAxisScore {
		return MaxAxisScore
	}
	return score
}

// ScoreCard maps each quality axis to an integer score in [0, 100].
// Invariant: all six axes are always present; an unevaluated axis carries 0.
type ScoreCard map[Axis]int

// NewScoreCard returns a ScoreCard with every axis present and set to 0.
func NewScoreCard() ScoreCard {
	sc := make(ScoreCard, len(Axes()))
	for _, axis := range Axes() {
		sc[axis] = 0
	}
	return sc
}

// Clone returns an independent copy of the score card.
func (sc ScoreCard) Clone() ScoreCard {
	out := make(ScoreCard, len(sc))
	for axis, score := range sc {
		out[axis] = score
	}
	return out
}

// Mean returns the unweighted arithmetic mean of the six axis scores as a
// float. Missing axes count as 0 so the invariant holds even for cards built
// outside NewScoreCard.
func (sc ScoreCard) Mean() float64 {
	var sum float64
	for _, axis := range Axes() {
		sum += float64(sc[axis])
	}
	return sum / float64(len(Axes()))
}

// WeightedMean returns the weighted mean of the axis scores using the given
// per-axis weights. Weights for axes absent from the map count as 0.
func (sc ScoreCard) WeightedMean(weights map[Axis]float64) float64 {
	var sum, total float64
	for _, axis := range Axes() {
		w := weights[axis]
		sum += w * float64(sc[axis])
		total += w
	}
	if total == 0 {
		return 0
	}
	return sum / total
}
