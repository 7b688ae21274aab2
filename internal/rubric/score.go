package rubric

// Calculator maps a set of level choices onto an activity's declared max
// score. Implementations must be pure: achieved is the sum of the chosen
// levels' scores, max is the rubric's full maximum regardless of how many
// criteria were scored.
type Calculator interface {
	// Score returns (achievedRaw, maxRaw, finalValue). chosen maps criterion
	// id to level id; criteria absent from the map are unscored.
	Score(def Definition, chosen map[string]string, activityMax float64) (achieved, max, final float64)
}

// ProportionalCalculator is the default scaling rule: final scales
// achieved/max linearly onto the activity max, unrounded. Swap the Calculator
// if the deployment needs a different rounding policy.
type ProportionalCalculator struct{}

func (ProportionalCalculator) Score(def Definition, chosen map[string]string, activityMax float64) (float64, float64, float64) {
	achieved := 0.0
	for critID, levelID := range chosen {
		if v, ok := def.LevelScore(critID, levelID); ok {
			achieved += v
		}
	}
	max := def.MaxScore()
	if max <= 0 {
		return achieved, max, 0
	}
	return achieved, max, achieved / max * activityMax
}
