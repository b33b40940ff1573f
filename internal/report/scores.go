package report

import (
	"math"
	"strings"
)

// Scoring model constants. Every score starts from a baseline of zero so that
// no points are granted before contributing evidence is present.
const (
	// Intensity blend.
	intensityRPEWeight  = 0.7
	intensityWorkWeight = 0.3
	rpeFloor            = 4.0
	rpeRange            = 6.0
	maxedOutSets        = 10

	// Work capacity blend.
	capacityDurationWeight = 0.6
	capacityVolumeWeight   = 0.3
	capacitySetWeight      = 0.1
	maxedOutVolumeKg       = 10000.0
	capacityMaxedOutSets   = 15.0

	// Athletic quality, mixed-session formula.
	strengthPointsPerExercise  = 15
	strengthPointsCap          = 50
	plyoPointsPerExercise      = 20
	plyoPointsCap              = 40
	speedCodPointsPerExercise  = 15
	speedCodPointsCap          = 30
	mobilityPointsPerExercise  = 8
	mobilityPointsCap          = 15
	techniquePointsPerExercise = 8
	techniquePointsCap         = 15
	isolationPenalty           = 15
	varietyBonus               = 20
	varietyThreshold           = 3

	// Athletic quality, conditioning distance bonuses.
	conditioningDistanceSolidKm = 3.0
	conditioningDistanceHighKm  = 5.0

	// Position relevance compound-lift bonuses.
	squatBonus    = 15
	deadliftBonus = 15
	benchBonus    = 10
)

// clampScore bounds a raw score to the reportable [0, 100] range.
func clampScore(v float64) int {
	return int(math.Round(math.Min(100, math.Max(0, v))))
}

func clampComponent(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

// calculateIntensity blends perceived effort with completed work. An RPE of 4
// or below contributes nothing; 10+ completed sets max the work term.
func calculateIntensity(metrics SessionMetrics) int {
	rpeComponent := clampComponent((metrics.AvgRPE - rpeFloor) / rpeRange * 100)
	workComponent := clampComponent(float64(metrics.SetsCompleted) / maxedOutSets * 100)

	return clampScore(intensityRPEWeight*rpeComponent + intensityWorkWeight*workComponent)
}

// calculateWorkCapacity blends session duration, tonnage, and set count.
func calculateWorkCapacity(metrics SessionMetrics) int {
	durationComponent := durationStep(metrics.DurationMin)
	volumeComponent := clampComponent(float64(metrics.TotalVolumeKg) / maxedOutVolumeKg * 100)
	setComponent := clampComponent(float64(metrics.SetsCompleted) / capacityMaxedOutSets * 100)

	return clampScore(capacityDurationWeight*durationComponent +
		capacityVolumeWeight*volumeComponent +
		capacitySetWeight*setComponent)
}

// durationStep maps session length to a percent-of-100 component. The
// boundaries are exclusive: a 10-minute session already lands in the second
// bucket.
func durationStep(durationMin int) float64 {
	switch {
	case durationMin < 10:
		return 5
	case durationMin < 20:
		return 20
	case durationMin < 30:
		return 40
	case durationMin < 45:
		return 60
	case durationMin < 60:
		return 80
	default:
		return 100
	}
}

// calculateAthleticQuality scores how athletic the session is. Specialized
// single-category sessions use fixed base scores because focused conditioning,
// speed, or plyometric work is inherently athletic even without variety.
// Strength-only sessions fall through to the mixed formula.
func calculateAthleticQuality(entries []LoggedExercise, metrics SessionMetrics, shape SessionShape) int {
	if shape.SingleCategory && shape.Primary != CategoryStrength {
		return singleCategoryAthleticQuality(entries, metrics, shape.Primary)
	}
	return mixedAthleticQuality(entries)
}

//nolint:mnd // the per-category bases and bonuses are the scoring model itself.
func singleCategoryAthleticQuality(entries []LoggedExercise, metrics SessionMetrics, category Category) int {
	count := len(entries)
	distanceKm := 0.0
	if metrics.TotalDistanceKm != nil {
		distanceKm = *metrics.TotalDistanceKm
	}

	score := 0
	switch category {
	case CategoryConditioning:
		score = 65
		if distanceKm >= conditioningDistanceSolidKm {
			score += 10
		}
		if distanceKm >= conditioningDistanceHighKm {
			score += 10
		}
	case CategoryMobility:
		score = 50
		if count >= 4 {
			score += 10
		}
		if count >= 6 {
			score += 10
		}
	case CategoryRecovery:
		score = 40
		if count >= 3 {
			score += 10
		}
	case CategoryTechnique:
		score = 55
		if count >= 4 {
			score += 10
		}
	case CategorySpeed:
		score = 70
		if count >= 3 {
			score += 15
		}
	case CategoryCOD:
		score = 65
		if count >= 4 {
			score += 15
		}
	case CategoryPlyometrics:
		score = 75
		if count >= 3 {
			score += 15
		}
	case CategoryStrength:
		// Handled by the mixed formula; unreachable here.
	}

	return clampScore(float64(score))
}

func mixedAthleticQuality(entries []LoggedExercise) int {
	var counts categoryCounts
	for _, entry := range entries {
		counts.add(entry)
	}

	score := min(strengthPointsCap, counts.strength*strengthPointsPerExercise)
	score += min(plyoPointsCap, counts.plyometrics*plyoPointsPerExercise)
	score += min(speedCodPointsCap, (counts.speed+counts.cod)*speedCodPointsPerExercise)
	score += min(mobilityPointsCap, counts.mobility*mobilityPointsPerExercise)
	score += min(techniquePointsCap, counts.technique*techniquePointsPerExercise)
	score -= isolationPenalty * isolationCount(entries)

	if distinctCategories(entries) >= varietyThreshold {
		score += varietyBonus
	}

	return clampScore(float64(score))
}

// categoryCounts tallies exercises per category of interest.
type categoryCounts struct {
	strength     int
	plyometrics  int
	speed        int
	cod          int
	conditioning int
	mobility     int
	technique    int
}

func (c *categoryCounts) add(entry LoggedExercise) {
	switch entry.Category {
	case CategoryStrength:
		c.strength++
	case CategoryPlyometrics:
		c.plyometrics++
	case CategorySpeed:
		c.speed++
	case CategoryCOD:
		c.cod++
	case CategoryConditioning:
		c.conditioning++
	case CategoryMobility:
		c.mobility++
	case CategoryTechnique:
		c.technique++
	case CategoryRecovery:
		// Recovery work neither adds nor subtracts athletic points.
	}
}

func distinctCategories(entries []LoggedExercise) int {
	distinct := make(map[Category]struct{}, len(entries))
	for _, entry := range entries {
		distinct[entry.Category] = struct{}{}
	}
	return len(distinct)
}

// isolationSubstrings name-sniffs single-joint accessory movements. The match
// has known false positives ("leg raise" as core work) but is kept for
// compatibility with historical scores.
var isolationSubstrings = []string{"curl", "extension", "raise", "fly", "flye"} //nolint:gochecknoglobals // immutable.

func isolationCount(entries []LoggedExercise) int {
	count := 0
	for _, entry := range entries {
		if isIsolationExercise(entry.Name) {
			count++
		}
	}
	return count
}

func isIsolationExercise(name string) bool {
	lower := strings.ToLower(name)
	for _, substring := range isolationSubstrings {
		if strings.Contains(lower, substring) {
			return true
		}
	}
	return false
}

// Role-specific point tables for position relevance. Each role values a
// different mix of strength, explosive, and conditioning work.
const (
	skillExplosivePointsPer = 15
	skillExplosiveCap       = 50
	skillStrengthPointsPer  = 10
	skillStrengthCap        = 30

	lineStrengthPointsPer     = 15
	lineStrengthCap           = 60
	lineConditioningPointsPer = 10
	lineConditioningCap       = 30

	hybridStrengthPointsPer  = 10
	hybridStrengthCap        = 40
	hybridExplosivePointsPer = 10
	hybridExplosiveCap       = 40
)

// calculatePositionRelevance scores how well the session serves the athlete's
// role. The big compound lifts are broadly valuable regardless of position.
func calculatePositionRelevance(entries []LoggedExercise, position AthletePosition) int {
	score := 0
	if anyNameContains(entries, "squat") {
		score += squatBonus
	}
	if anyNameContains(entries, "deadlift") {
		score += deadliftBonus
	}
	if anyNameContains(entries, "bench") {
		score += benchBonus
	}

	var counts categoryCounts
	for _, entry := range entries {
		counts.add(entry)
	}
	explosive := counts.plyometrics + counts.speed + counts.cod

	switch position {
	case PositionSkill:
		score += min(skillExplosiveCap, explosive*skillExplosivePointsPer)
		score += min(skillStrengthCap, counts.strength*skillStrengthPointsPer)
	case PositionLine:
		score += min(lineStrengthCap, counts.strength*lineStrengthPointsPer)
		score += min(lineConditioningCap, counts.conditioning*lineConditioningPointsPer)
	case PositionHybrid:
		score += min(hybridStrengthCap, counts.strength*hybridStrengthPointsPer)
		score += min(hybridExplosiveCap, explosive*hybridExplosivePointsPer)
	}

	return clampScore(float64(score))
}

func anyNameContains(entries []LoggedExercise, substring string) bool {
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Name), substring) {
			return true
		}
	}
	return false
}
