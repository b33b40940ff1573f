package report

// Feedback tokens are presentation-layer localization keys, not user-facing
// strings. The engine is locale-agnostic.
const (
	strengthAthleticFocus = "athletic-focus"
	strengthHighIntensity = "high-intensity"
	strengthGoodCapacity  = "good-capacity"
	strengthBalanced      = "balanced"

	warningLowAthleticQuality = "low-athletic-quality"
	warningNoLowerBody        = "no-lower-body"
	warningHighFrequency      = "high-frequency"

	insightConditioningVolumeHigh  = "conditioning-volume-high"
	insightConditioningVolumeSolid = "conditioning-volume-solid"
	insightConditioningVolumeLow   = "conditioning-volume-low"
	insightAthleticStrong          = "athletic-quality-strong"
	insightAthleticNeedsWork       = "athletic-quality-needs-work"
	insightPositionAligned         = "position-aligned"
	insightPositionGap             = "position-gap"
	insightVolumeJump              = "volume-jump"
	insightKeepGoing               = "keep-going"
)

// Feedback thresholds.
const (
	athleticFocusThreshold     = 80
	highIntensityThreshold     = 80
	goodCapacityThreshold      = 75
	balancedThreshold          = 70
	lowAthleticThreshold       = 50
	lowerBodyExerciseThreshold = 3
	highFrequencySessionCount  = 3
	athleticStrongThreshold    = 70
	positionAlignedThreshold   = 70
	positionGapThreshold       = 40
	volumeJumpThresholdPct     = 25.0
	maxInsightTokens           = 3
)

// insightByCategory carries the category-specific phrasing for specialized
// single-category sessions other than conditioning.
var insightByCategory = map[Category]string{ //nolint:gochecknoglobals // immutable lookup table.
	CategoryMobility:    "mobility-consistency",
	CategoryRecovery:    "recovery-day",
	CategoryTechnique:   "technique-work",
	CategorySpeed:       "speed-development",
	CategoryCOD:         "cod-agility",
	CategoryPlyometrics: "plyo-power",
	CategoryStrength:    "strength-block",
}

// lowerBodySubstrings identify lower-body work by exercise name.
var lowerBodySubstrings = []string{"squat", "deadlift", "lunge"} //nolint:gochecknoglobals // immutable.

// feedbackInput bundles everything the feedback generator consumes.
type feedbackInput struct {
	shape              SessionShape
	entries            []LoggedExercise
	metrics            SessionMetrics
	intensity          int
	workCapacity       int
	athletic           int
	positionRelevance  int
	volumeChangePct    *float64
	recentSessionCount int
}

// buildStrengths emits the earned strength tokens in a fixed evaluation
// order so that identical inputs produce identical output.
func buildStrengths(in feedbackInput) []string {
	strengths := []string{}
	if in.athletic >= athleticFocusThreshold {
		strengths = append(strengths, strengthAthleticFocus)
	}
	if in.intensity >= highIntensityThreshold {
		strengths = append(strengths, strengthHighIntensity)
	}
	if in.workCapacity >= goodCapacityThreshold {
		strengths = append(strengths, strengthGoodCapacity)
	}
	if in.athletic >= balancedThreshold && in.intensity >= balancedThreshold {
		strengths = append(strengths, strengthBalanced)
	}
	return strengths
}

// buildWarnings emits warning tokens. Category-dependent warnings are
// suppressed entirely for specialized single-category sessions; the
// high-frequency warning fires regardless of category.
func buildWarnings(in feedbackInput) []string {
	warnings := []string{}

	if !in.shape.isSpecialized() {
		if in.athletic < lowAthleticThreshold {
			warnings = append(warnings, warningLowAthleticQuality)
		}
		if len(in.entries) > lowerBodyExerciseThreshold && !hasLowerBodyWork(in.entries) {
			warnings = append(warnings, warningNoLowerBody)
		}
	}

	if in.recentSessionCount >= highFrequencySessionCount {
		warnings = append(warnings, warningHighFrequency)
	}

	return warnings
}

func hasLowerBodyWork(entries []LoggedExercise) bool {
	for _, substring := range lowerBodySubstrings {
		if anyNameContains(entries, substring) {
			return true
		}
	}
	return false
}

// buildCoachInsight selects up to three insight tokens. Single-category
// sessions get category-specific phrasing; mixed sessions get athletic
// quality and position relevance commentary plus a volume-jump note when the
// historical comparison shows a sharp increase. A generic token covers the
// case where nothing else qualifies.
func buildCoachInsight(in feedbackInput) []string {
	var tokens []string
	if in.shape.SingleCategory {
		tokens = singleCategoryInsight(in)
	} else {
		tokens = mixedSessionInsight(in)
	}

	if len(tokens) == 0 {
		tokens = []string{insightKeepGoing}
	}
	if len(tokens) > maxInsightTokens {
		tokens = tokens[:maxInsightTokens]
	}
	return tokens
}

func singleCategoryInsight(in feedbackInput) []string {
	if in.shape.Primary == CategoryConditioning {
		distanceKm := 0.0
		if in.metrics.TotalDistanceKm != nil {
			distanceKm = *in.metrics.TotalDistanceKm
		}
		switch {
		case distanceKm >= conditioningDistanceHighKm:
			return []string{insightConditioningVolumeHigh}
		case distanceKm >= conditioningDistanceSolidKm:
			return []string{insightConditioningVolumeSolid}
		default:
			return []string{insightConditioningVolumeLow}
		}
	}

	if token, ok := insightByCategory[in.shape.Primary]; ok {
		return []string{token}
	}
	return nil
}

func mixedSessionInsight(in feedbackInput) []string {
	tokens := []string{}
	switch {
	case in.athletic >= athleticStrongThreshold:
		tokens = append(tokens, insightAthleticStrong)
	case in.athletic < lowAthleticThreshold:
		tokens = append(tokens, insightAthleticNeedsWork)
	}

	switch {
	case in.positionRelevance >= positionAlignedThreshold:
		tokens = append(tokens, insightPositionAligned)
	case in.positionRelevance < positionGapThreshold:
		tokens = append(tokens, insightPositionGap)
	}

	if in.volumeChangePct != nil && *in.volumeChangePct > volumeJumpThresholdPct {
		tokens = append(tokens, insightVolumeJump)
	}
	return tokens
}
