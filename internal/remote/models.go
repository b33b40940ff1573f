// Package remote scores workout sessions by delegating to an external
// text-generation service. It implements the same report contract as the
// local rule-based engine; callers fall back to the local engine on any
// remote failure.
package remote

import (
	"context"

	"github.com/mleino/teamtrain/internal/report"
)

// AthleteProfile is the athlete context sent alongside the session so the
// model can weigh position and season phase.
type AthleteProfile struct {
	Name         string   `json:"athleteName"`
	BodyWeightKg *float64 `json:"bodyWeightKg,omitempty"`
	HeightCm     *float64 `json:"heightCm,omitempty"`
	SeasonPhase  string   `json:"seasonPhase"`
	TeamLevel    string   `json:"teamLevel"`
}

// ProfileProvider looks up athlete context for the prompt. Implementations
// may be backed by any storage; a lookup failure degrades to an empty
// profile.
type ProfileProvider interface {
	Profile(ctx context.Context, athleteID string) (AthleteProfile, error)
}

// scoreRequest is the JSON payload serialized into the prompt.
type scoreRequest struct {
	AthleteName     string          `json:"athleteName"`
	Position        string          `json:"position"`
	BodyWeightKg    *float64        `json:"bodyWeightKg,omitempty"`
	HeightCm        *float64        `json:"heightCm,omitempty"`
	SeasonPhase     string          `json:"seasonPhase"`
	TeamLevel       string          `json:"teamLevel"`
	Exercises       []scoreExercise `json:"exercises"`
	TotalSets       int             `json:"totalSets"`
	TotalReps       int             `json:"totalReps"`
	TotalVolumeKg   int             `json:"totalVolumeKg"`
	TotalDistanceKm *float64        `json:"totalDistanceKm,omitempty"`
	AvgRPE          float64         `json:"avgRPE"`
	DurationMin     int             `json:"durationMin"`
}

type scoreExercise struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	SetsSummary string   `json:"setsSummary"`
	RPE         *float64 `json:"rpe,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

// scoreReply is the parsed model response. The four score fields are pointers
// so that a reply missing any of them can be rejected as malformed.
type scoreReply struct {
	SessionValid           *bool    `json:"sessionValid"`
	IntensityScore         *int     `json:"intensityScore"`
	WorkCapacityScore      *int     `json:"workCapacityScore"`
	AthleticQualityScore   *int     `json:"athleticQualityScore"`
	PositionRelevanceScore *int     `json:"positionRelevanceScore"`
	TotalVolume            *float64 `json:"totalVolume"`
	TotalDistance          *float64 `json:"totalDistance"`
	Duration               *int     `json:"duration"`
	AvgRPE                 *float64 `json:"avgRPE"`
	SetsCompleted          *int     `json:"setsCompleted"`
	SetsPlanned            *int     `json:"setsPlanned"`
	SessionPrimaryIntent   string   `json:"sessionPrimaryIntent"`
	SessionSecondaryIntent string   `json:"sessionSecondaryIntent"`
	PowerWork              *int     `json:"powerWork"`
	StrengthWork           *int     `json:"strengthWork"`
	SpeedWork              *int     `json:"speedWork"`
	Strengths              []string `json:"strengths"`
	Warnings               []string `json:"warnings"`
	RecoveryDemand         string   `json:"recoveryDemand"`
	RecommendedRestHours   *int     `json:"recommendedRestHours"`
	CoachInsights          string   `json:"coachInsights"`
}

// Minimum training dose thresholds gating sessionValid before any remote
// call is made.
const (
	minStrengthExercises = 2
	minStrengthSets      = 4
	minStrengthReps      = 12
	minSprintDistanceM   = 150.0
	minSprintReps        = 5
	minConditioningMin   = 6
)

// sessionValid applies the minimum-dose gate. The rule is picked by the
// dominant category bucket of the session; sessions without a clear sprint or
// conditioning majority use the strength/power thresholds.
func sessionValid(entries []report.LoggedExercise, metrics report.SessionMetrics) bool {
	var sprint, conditioning, other int
	for _, entry := range entries {
		switch entry.Category {
		case report.CategorySpeed, report.CategoryCOD:
			sprint++
		case report.CategoryConditioning:
			conditioning++
		case report.CategoryStrength, report.CategoryPlyometrics,
			report.CategoryMobility, report.CategoryRecovery, report.CategoryTechnique:
			other++
		}
	}

	totalReps := countReps(entries)

	switch {
	case sprint > conditioning && sprint > other:
		distanceM := 0.0
		if metrics.TotalDistanceKm != nil {
			distanceM = *metrics.TotalDistanceKm * 1000
		}
		return distanceM >= minSprintDistanceM || totalReps >= minSprintReps
	case conditioning > sprint && conditioning > other:
		return metrics.DurationMin >= minConditioningMin
	default:
		return len(entries) >= minStrengthExercises &&
			metrics.SetsCompleted >= minStrengthSets &&
			totalReps >= minStrengthReps
	}
}

// countReps counts logged reps; a set without a rep count counts as one
// effort, matching the aggregator's defaulting.
func countReps(entries []report.LoggedExercise) int {
	total := 0
	for _, entry := range entries {
		for _, set := range entry.SetRecords {
			if set.Reps != nil {
				total += *set.Reps
				continue
			}
			total++
		}
	}
	return total
}
