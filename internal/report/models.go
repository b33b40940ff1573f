// Package report implements the deterministic workout scoring engine. It
// reduces a logged training session into four bounded sub-scores, an athletic
// focus breakdown, a recovery recommendation, and coaching feedback.
package report

import "time"

// Category represents the training focus of a logged exercise.
type Category string

const (
	CategoryStrength     Category = "strength"
	CategoryPlyometrics  Category = "plyometrics"
	CategorySpeed        Category = "speed"
	CategoryCOD          Category = "cod"
	CategoryConditioning Category = "conditioning"
	CategoryMobility     Category = "mobility"
	CategoryRecovery     Category = "recovery"
	CategoryTechnique    Category = "technique"
)

// AthletePosition groups playing roles by their training demands.
type AthletePosition string

const (
	PositionSkill  AthletePosition = "skill"
	PositionLine   AthletePosition = "line"
	PositionHybrid AthletePosition = "hybrid"
)

// SetRecord is one completed set. All fields are optional so that lifts,
// sprints, and timed holds can share the same shape.
type SetRecord struct {
	Reps        *int     `json:"reps,omitempty"`
	LoadKg      *float64 `json:"load_kg,omitempty"`
	DurationSec *int     `json:"duration_sec,omitempty"`
	DistanceKm  *float64 `json:"distance_km,omitempty"`
}

// LoggedExercise is one exercise instance within a session. SetRecords may be
// empty when the exercise was planned but never logged.
type LoggedExercise struct {
	Name        string      `json:"name"`
	Category    Category    `json:"category"`
	SetRecords  []SetRecord `json:"set_records"`
	PlannedSets int         `json:"planned_sets"`
	RPE         *float64    `json:"rpe,omitempty"`
	Notes       *string     `json:"notes,omitempty"`
}

// SessionShape is the category classification consumed by the score
// calculators and the feedback generator. When SingleCategory is true every
// exercise in the session shares Primary; otherwise Primary is empty.
type SessionShape struct {
	SingleCategory bool
	Primary        Category
}

// SessionMetrics holds the scalar totals reduced from a session's exercises.
type SessionMetrics struct {
	TotalVolumeKg   int
	TotalDistanceKm *float64
	AvgRPE          float64
	SetsCompleted   int
	SetsPlanned     int
	DurationMin     int
}

// RecoveryDemand is the qualitative tier describing expected rest before
// comparable-intensity training.
type RecoveryDemand string

const (
	RecoveryDemandLow      RecoveryDemand = "low"
	RecoveryDemandMedium   RecoveryDemand = "medium"
	RecoveryDemandHigh     RecoveryDemand = "high"
	RecoveryDemandVeryHigh RecoveryDemand = "very_high"
	// RecoveryDemandInsufficient is produced only by scorers that gate on a
	// minimum training dose; the local rule-based engine never emits it.
	RecoveryDemandInsufficient RecoveryDemand = "insufficient"
)

// WorkoutReport is the analyzed result for one session. Reports are built
// once per analyzed session and never mutated afterwards.
type WorkoutReport struct {
	SessionValid           bool           `json:"session_valid"`
	IntensityScore         int            `json:"intensity_score"`
	WorkCapacityScore      int            `json:"work_capacity_score"`
	AthleticQualityScore   int            `json:"athletic_quality_score"`
	PositionRelevanceScore int            `json:"position_relevance_score"`
	TotalVolumeKg          int            `json:"total_volume_kg"`
	TotalDistanceKm        *float64       `json:"total_distance_km,omitempty"`
	DurationMin            int            `json:"duration_min"`
	AvgRPE                 float64        `json:"avg_rpe"`
	SetsCompleted          int            `json:"sets_completed"`
	SetsPlanned            int            `json:"sets_planned"`
	PowerPct               int            `json:"power_pct"`
	StrengthPct            int            `json:"strength_pct"`
	SpeedPct               int            `json:"speed_pct"`
	Strengths              []string       `json:"strengths"`
	Warnings               []string       `json:"warnings"`
	VolumeChangePct        *float64       `json:"volume_change_pct,omitempty"`
	IntensityChangePct     *float64       `json:"intensity_change_pct,omitempty"`
	RecoveryDemand         RecoveryDemand `json:"recovery_demand"`
	RecommendedRestHours   int            `json:"recommended_rest_hours"`
	CoachInsight           string         `json:"coach_insight"`
}

// HistorySession is the read-only view of a previously analyzed session used
// for trend comparison and frequency warnings.
type HistorySession struct {
	LoggedAt       time.Time
	DurationMin    int
	TotalVolumeKg  int
	IntensityScore int
	AvgRPE         float64
}
