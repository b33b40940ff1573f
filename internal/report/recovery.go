package report

import "math"

// Recovery demand blend weights and tier boundaries.
const (
	recoveryIntensityWeight = 0.4
	recoveryVolumeWeight    = 0.4
	recoveryDurationWeight  = 0.2

	// A 10,000 kg session maxes the volume term; 90 minutes maxes the
	// duration term.
	recoveryVolumeDivisor  = 100.0
	recoveryDurationMaxMin = 90.0
	recoveryComponentCeil  = 100.0

	lowTierUpperBound    = 40.0
	mediumTierUpperBound = 60.0
	highTierUpperBound   = 80.0
)

// recoveryRecommendation pairs the qualitative demand tier with a rest-hours
// recommendation.
type recoveryRecommendation struct {
	demand    RecoveryDemand
	restHours int
}

// estimateRecovery maps a weighted blend of intensity, tonnage, and duration
// to a demand tier. A blended score of exactly 40 lands in the medium tier;
// the boundaries are inclusive upwards.
func estimateRecovery(intensityScore int, metrics SessionMetrics) recoveryRecommendation {
	volumeComponent := math.Min(recoveryComponentCeil, float64(metrics.TotalVolumeKg)/recoveryVolumeDivisor)
	durationComponent := math.Min(recoveryComponentCeil, float64(metrics.DurationMin)/recoveryDurationMaxMin*100)

	score := recoveryIntensityWeight*float64(intensityScore) +
		recoveryVolumeWeight*volumeComponent +
		recoveryDurationWeight*durationComponent

	switch {
	case score < lowTierUpperBound:
		return recoveryRecommendation{demand: RecoveryDemandLow, restHours: 24}
	case score < mediumTierUpperBound:
		return recoveryRecommendation{demand: RecoveryDemandMedium, restHours: 36}
	case score < highTierUpperBound:
		return recoveryRecommendation{demand: RecoveryDemandHigh, restHours: 48}
	default:
		return recoveryRecommendation{demand: RecoveryDemandVeryHigh, restHours: 60}
	}
}
